package accounting

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/b3quant/apurador/pkg/common"
	"github.com/b3quant/apurador/pkg/utility/fixed"
)

func validRecord() RawRecord {
	return RawRecord{
		"token":    float64(7001),
		"code":     " winq25 ",
		"side":     "1",
		"quantity": float64(10),
		"price":    float64(130000),
		"dateTime": "2025-03-10T09:00:00",
	}
}

func TestNormalizeFills_Canonicalization(t *testing.T) {
	fills, diag := NormalizeFills([]RawRecord{validRecord()}, SideMappingFIX, fixed.Zero, zap.NewNop())

	if diag.Dropped != 0 || len(fills) != 1 {
		t.Fatalf("accepted = %d, dropped = %d; want 1, 0", len(fills), diag.Dropped)
	}
	f := fills[0]
	if f.Account != "7001" {
		t.Errorf("account = %q; want 7001", f.Account)
	}
	if f.Code != "WINQ25" {
		t.Errorf("code = %q; want WINQ25", f.Code)
	}
	if f.Prefix != "WIN" {
		t.Errorf("prefix = %q; want WIN", f.Prefix)
	}
	if f.Side != common.SideBuy {
		t.Errorf("side = %v; want BUY", f.Side)
	}
	if want := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC); !f.Time.Equal(want) {
		t.Errorf("time = %v; want %v", f.Time, want)
	}
}

func TestNormalizeFills_SideMappingPresets(t *testing.T) {
	tests := []struct {
		name    string
		mapping *SideMapping
		raw     string
		want    common.Side
		ok      bool
	}{
		{"fix numeric buy", SideMappingFIX, "1", common.SideBuy, true},
		{"fix numeric sell", SideMappingFIX, "2", common.SideSell, true},
		{"legacy numeric buy", SideMappingLegacy, "0", common.SideBuy, true},
		{"legacy numeric sell", SideMappingLegacy, "1", common.SideSell, true},
		{"english abbreviation", SideMappingFIX, "b", common.SideBuy, true},
		{"english word", SideMappingLegacy, "SELL", common.SideSell, true},
		{"portuguese buy", SideMappingFIX, "compra", common.SideBuy, true},
		{"portuguese sell abbreviation", SideMappingLegacy, "v", common.SideSell, true},
		{"unmapped code", SideMappingFIX, "3", 0, false},
		{"fix zero unmapped", SideMappingFIX, "0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.mapping.Resolve(tt.raw)
			if ok != tt.ok {
				t.Fatalf("Resolve(%q) ok = %v; want %v", tt.raw, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Resolve(%q) = %v; want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLookupSideMapping(t *testing.T) {
	if m, ok := LookupSideMapping("FIX"); !ok || m != SideMappingFIX {
		t.Errorf("LookupSideMapping(FIX) = %v, %v; want fix preset", m, ok)
	}
	if m, ok := LookupSideMapping(" legacy "); !ok || m != SideMappingLegacy {
		t.Errorf("LookupSideMapping(legacy) = %v, %v; want legacy preset", m, ok)
	}
	if _, ok := LookupSideMapping("b3"); ok {
		t.Error("LookupSideMapping(b3) succeeded; want miss")
	}
}

func TestNormalizeFills_DropReasons(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(RawRecord)
		reason string
	}{
		{"missing account", func(r RawRecord) { delete(r, "token") }, dropReasonAccount},
		{"empty code", func(r RawRecord) { r["code"] = "  " }, dropReasonCode},
		{"unmapped side", func(r RawRecord) { r["side"] = "9" }, dropReasonSide},
		{"zero quantity", func(r RawRecord) { r["quantity"] = float64(0) }, dropReasonQuantity},
		{"negative quantity", func(r RawRecord) { r["quantity"] = float64(-5) }, dropReasonQuantity},
		{"garbage quantity", func(r RawRecord) { r["quantity"] = "ten" }, dropReasonQuantity},
		{"garbage price", func(r RawRecord) { r["price"] = "expensive" }, dropReasonPrice},
		{"overflowing price", func(r RawRecord) { r["price"] = 1e30 }, dropReasonPrice},
		{"overflowing quantity", func(r RawRecord) { r["quantity"] = 1e30 }, dropReasonQuantity},
		{"missing price", func(r RawRecord) { delete(r, "price") }, dropReasonPrice},
		{"garbage timestamp", func(r RawRecord) { r["dateTime"] = "yesterday" }, dropReasonTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(r)

			fills, diag := NormalizeFills([]RawRecord{r}, SideMappingFIX, fixed.Zero, zap.NewNop())
			if len(fills) != 0 {
				t.Fatalf("accepted %d fills; want 0", len(fills))
			}
			if diag.Dropped != 1 || diag.DroppedByReason[tt.reason] != 1 {
				t.Errorf("diagnostics = %+v; want 1 drop for %q", diag, tt.reason)
			}
		})
	}
}

func TestNormalizeFills_ZeroPriceAccepted(t *testing.T) {
	// Zero-price corrective fills are real records in the legacy feed; only
	// quantity has a positivity requirement.
	r := validRecord()
	r["price"] = float64(0)

	fills, diag := NormalizeFills([]RawRecord{r}, SideMappingFIX, fixed.Zero, zap.NewNop())
	if len(fills) != 1 || diag.Dropped != 0 {
		t.Fatalf("accepted = %d, dropped = %d; want 1, 0", len(fills), diag.Dropped)
	}
	if !fills[0].Price.IsZero() {
		t.Errorf("price = %s; want 0", fills[0].Price.String())
	}
}

func TestNormalizeFills_PartialBatchSurvives(t *testing.T) {
	bad := validRecord()
	bad["side"] = "9"

	fills, diag := NormalizeFills([]RawRecord{validRecord(), bad, validRecord()}, SideMappingFIX, fixed.Zero, zap.NewNop())

	if len(fills) != 2 {
		t.Errorf("accepted = %d; want 2", len(fills))
	}
	if diag.Received != 3 || diag.Accepted != 2 || diag.Dropped != 1 {
		t.Errorf("diagnostics = %+v; want received 3, accepted 2, dropped 1", diag)
	}
}

func TestNormalizeFills_TimestampFormats(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  time.Time
	}{
		{"rfc3339", "2025-03-10T09:00:00Z", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"space separated", "2025-03-10 09:00:00", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"unix seconds", float64(1741597200), time.Unix(1741597200, 0).UTC()},
		{"unix millis", float64(1741597200000), time.UnixMilli(1741597200000).UTC()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			r["dateTime"] = tt.value

			fills, _ := NormalizeFills([]RawRecord{r}, SideMappingFIX, fixed.Zero, zap.NewNop())
			if len(fills) != 1 {
				t.Fatalf("record dropped; want accepted")
			}
			if !fills[0].Time.Equal(tt.want) {
				t.Errorf("time = %v; want %v", fills[0].Time, tt.want)
			}
		})
	}
}

func TestNormalizeFills_PriceScale(t *testing.T) {
	r := validRecord()
	r["price"] = float64(13000000) // centavo ticks from the legacy feed

	fills, _ := NormalizeFills([]RawRecord{r}, SideMappingFIX, fixed.Hundred, zap.NewNop())
	if len(fills) != 1 {
		t.Fatalf("record dropped; want accepted")
	}
	if want := fixed.MustParse("130000"); !fills[0].Price.Eq(want) {
		t.Errorf("price = %s; want %s", fills[0].Price.String(), want.String())
	}
}

func TestNormalizeFills_ShortCodePrefix(t *testing.T) {
	r := validRecord()
	r["code"] = "WD"

	fills, _ := NormalizeFills([]RawRecord{r}, SideMappingFIX, fixed.Zero, zap.NewNop())
	if len(fills) != 1 {
		t.Fatalf("record dropped; want accepted")
	}
	if fills[0].Prefix != "WD" {
		t.Errorf("prefix = %q; want WD", fills[0].Prefix)
	}
}
