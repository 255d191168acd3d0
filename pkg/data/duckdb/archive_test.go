package duckdb

import (
	"context"
	"testing"
	"time"

	"github.com/b3quant/apurador/pkg/common"
	"github.com/b3quant/apurador/pkg/utility"
	"github.com/b3quant/apurador/pkg/utility/fixed"
)

func TestArchive_AppendAndReadBack(t *testing.T) {
	archive, err := OpenArchive("") // in-memory
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	defer archive.Close()

	ctx := context.Background()
	traceID := utility.CreateTraceID()
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	results := []common.AccountResult{
		{
			Account:       "7001",
			GrossPnl:      fixed.MustParse("2000"),
			NetPnl:        fixed.MustParse("1995"),
			FeeCost:       fixed.MustParse("5"),
			OrderCount:    2,
			TotalQuantity: fixed.MustParse("20"),
			BuyQuantity:   fixed.MustParse("10"),
			SellQuantity:  fixed.MustParse("10"),
		},
		{
			Account:  "7002",
			GrossPnl: fixed.MustParse("-40.5"),
			NetPnl:   fixed.MustParse("-42"),
			FeeCost:  fixed.MustParse("1.5"),
		},
	}

	if err := archive.Append(ctx, traceID, ts, results); err != nil {
		t.Fatalf("Append: %v", err)
	}

	history, err := archive.AccountHistory(ctx, "7001", 10)
	if err != nil {
		t.Fatalf("AccountHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history rows = %d; want 1", len(history))
	}
	row := history[0]
	if row.TraceID != traceID {
		t.Errorf("traceId = %d; want %d", row.TraceID, traceID)
	}
	if row.GrossPnl != 2000 || row.NetPnl != 1995 || row.FeeCost != 5 {
		t.Errorf("pnl row = %+v; want 2000/1995/5", row)
	}
	if row.OrderCount != 2 {
		t.Errorf("orderCount = %d; want 2", row.OrderCount)
	}

	if other, err := archive.AccountHistory(ctx, "7003", 10); err != nil || len(other) != 0 {
		t.Errorf("unknown account history = %v, %v; want empty", other, err)
	}
}
