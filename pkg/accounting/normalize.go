package accounting

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/b3quant/apurador/pkg/common"
	"github.com/b3quant/apurador/pkg/utility/fixed"
)

// RawRecord is one undecoded fill as received from the caller.
type RawRecord map[string]any

const (
	dropReasonAccount   = "account"
	dropReasonCode      = "code"
	dropReasonSide      = "side"
	dropReasonQuantity  = "quantity"
	dropReasonPrice     = "price"
	dropReasonTimestamp = "timestamp"
)

// timeLayouts accepted for the dateTime field, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeFills converts raw records into canonical fills. A record that
// fails any coercion is dropped and tallied per reason; the batch itself
// never fails here. All shape-acceptance policy lives in this file.
func NormalizeFills(records []RawRecord, mapping *SideMapping, priceScale fixed.Point, logger *zap.Logger) ([]common.Fill, Diagnostics) {
	diag := Diagnostics{Received: len(records)}
	fills := make([]common.Fill, 0, len(records))

	for _, r := range records {
		fill, reason := normalizeOne(r, mapping, priceScale)
		if reason != "" {
			if diag.DroppedByReason == nil {
				diag.DroppedByReason = make(map[string]int)
			}
			diag.DroppedByReason[reason]++
			diag.Dropped++
			continue
		}
		fills = append(fills, fill)
	}

	diag.Accepted = len(fills)
	if diag.Dropped > 0 {
		logger.Warn("records dropped during normalization",
			zap.Int("received", diag.Received),
			zap.Int("dropped", diag.Dropped),
			zap.Any("by_reason", diag.DroppedByReason))
	}
	return fills, diag
}

func normalizeOne(r RawRecord, mapping *SideMapping, priceScale fixed.Point) (common.Fill, string) {
	account, ok := stringField(r, "token", "account")
	if !ok || account == "" {
		return common.Fill{}, dropReasonAccount
	}

	code, ok := stringField(r, "code", "instrumentCode", "instrument")
	code = strings.ToUpper(strings.TrimSpace(code))
	if !ok || code == "" {
		return common.Fill{}, dropReasonCode
	}
	prefix := code
	if len(prefix) > common.PrefixLen {
		prefix = prefix[:common.PrefixLen]
	}

	rawSide, ok := stringField(r, "side")
	if !ok {
		return common.Fill{}, dropReasonSide
	}
	side, ok := mapping.Resolve(rawSide)
	if !ok {
		return common.Fill{}, dropReasonSide
	}

	qty, ok := numberField(r, "quantity", "qty")
	if !ok || qty <= 0 {
		return common.Fill{}, dropReasonQuantity
	}
	quantity, err := fixed.TryFromFloat64(qty)
	if err != nil {
		return common.Fill{}, dropReasonQuantity
	}

	price, ok := numberField(r, "price")
	if !ok {
		return common.Fill{}, dropReasonPrice
	}
	px, err := fixed.TryFromFloat64(price)
	if err != nil {
		return common.Fill{}, dropReasonPrice
	}

	ts, ok := timeField(r, "dateTime", "timestamp")
	if !ok {
		return common.Fill{}, dropReasonTimestamp
	}

	if !priceScale.IsZero() && !priceScale.Eq(fixed.One) {
		px = px.Div(priceScale)
	}

	return common.Fill{
		Account:  account,
		Code:     code,
		Prefix:   prefix,
		Side:     side,
		Quantity: quantity,
		Price:    px,
		Time:     ts,
	}, ""
}

// stringField reads the first present key as a string. Numeric values are
// accepted too: the legacy feed sends account tokens and side codes as numbers.
func stringField(r RawRecord, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			return strings.TrimSpace(t), true
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), true
		case int:
			return strconv.Itoa(t), true
		case int64:
			return strconv.FormatInt(t, 10), true
		}
		return "", false
	}
	return "", false
}

func numberField(r RawRecord, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			if math.IsNaN(t) || math.IsInf(t, 0) {
				return 0, false
			}
			return t, true
		case int:
			return float64(t), true
		case int64:
			return float64(t), true
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return 0, false
			}
			return f, true
		}
		return 0, false
	}
	return 0, false
}

func timeField(r RawRecord, keys ...string) (time.Time, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			s := strings.TrimSpace(t)
			for _, layout := range timeLayouts {
				if ts, err := time.Parse(layout, s); err == nil {
					return ts, true
				}
			}
			return time.Time{}, false
		case float64:
			// Unix epoch, milliseconds past ~2001 when large enough.
			if t <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
				return time.Time{}, false
			}
			if t > 1e12 {
				return time.UnixMilli(int64(t)).UTC(), true
			}
			return time.Unix(int64(t), 0).UTC(), true
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}
