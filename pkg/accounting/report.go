package accounting

import (
	"github.com/b3quant/apurador/pkg/common"
	"github.com/b3quant/apurador/pkg/utility/fixed"
)

// currencyScale is the output precision of every currency field.
// Rounding is half to even and happens only here, never mid-computation.
const currencyScale = 2

// Diagnostics reports what normalization did to the batch. Record-level
// defects land here instead of failing the request.
type Diagnostics struct {
	Received        int            `json:"received"`
	Accepted        int            `json:"accepted"`
	Dropped         int            `json:"dropped"`
	DroppedByReason map[string]int `json:"droppedByReason,omitempty"`
	UnknownPrefixes []string       `json:"unknownPrefixes,omitempty"`
}

// Report is the full outcome of one compute call.
type Report struct {
	Results     []common.AccountResult `json:"results"`
	Diagnostics Diagnostics            `json:"diagnostics"`
}

// instrumentOutcome is one instrument key's unrounded accounting outcome,
// ready to be rolled up and formatted.
type instrumentOutcome struct {
	key        string
	realized   fixed.Point
	unrealized fixed.Point
	fee        fixed.Point
	mark       fixed.Point
	tally      volumeTally
	openQty    fixed.Point
}

// assembleAccountResult rolls instrument outcomes up to one account row and
// applies the output rounding. Quantity fields stay as given; fractional
// contract sizes are valid input.
func assembleAccountResult(account string, outcomes []instrumentOutcome, orderCount int) common.AccountResult {
	gross := fixed.Zero
	fee := fixed.Zero
	total := fixed.Zero
	buy := fixed.Zero
	sell := fixed.Zero

	rows := make([]common.InstrumentResult, 0, len(outcomes))
	for _, o := range outcomes {
		gross = gross.Add(o.realized).Add(o.unrealized)
		fee = fee.Add(o.fee)
		total = total.Add(o.tally.total)
		buy = buy.Add(o.tally.buy)
		sell = sell.Add(o.tally.sell)

		rows = append(rows, common.InstrumentResult{
			Instrument:    o.key,
			RealizedPnl:   o.realized.Round(currencyScale),
			UnrealizedPnl: o.unrealized.Round(currencyScale),
			FeeCost:       o.fee.Round(currencyScale),
			MarkPrice:     o.mark.Round(currencyScale),
			AvgBuyPrice:   o.tally.avgBuyPrice().Round(currencyScale),
			AvgSellPrice:  o.tally.avgSellPrice().Round(currencyScale),
			TotalQuantity: o.tally.total,
			BuyQuantity:   o.tally.buy,
			SellQuantity:  o.tally.sell,
			OpenQuantity:  o.openQty,
			Open:          !o.openQty.IsZero(),
		})
	}

	return common.AccountResult{
		Account:       account,
		GrossPnl:      gross.Round(currencyScale),
		NetPnl:        gross.Sub(fee).Round(currencyScale),
		FeeCost:       fee.Round(currencyScale),
		OrderCount:    orderCount,
		TotalQuantity: total,
		BuyQuantity:   buy,
		SellQuantity:  sell,
		Instruments:   rows,
	}
}
