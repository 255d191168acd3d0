package common

import "github.com/b3quant/apurador/pkg/utility/fixed"

// InstrumentResult is the per-instrument-key detail behind an AccountResult.
// Average prices are volume-weighted over all fills of that side, as in the
// legacy per-prefix report rows.
type InstrumentResult struct {
	Instrument    string      `json:"instrument"`
	RealizedPnl   fixed.Point `json:"realizedPnl"`
	UnrealizedPnl fixed.Point `json:"unrealizedPnl"`
	FeeCost       fixed.Point `json:"feeCost"`
	MarkPrice     fixed.Point `json:"markPrice"`
	AvgBuyPrice   fixed.Point `json:"avgBuyPrice"`
	AvgSellPrice  fixed.Point `json:"avgSellPrice"`
	TotalQuantity fixed.Point `json:"totalQuantity"`
	BuyQuantity   fixed.Point `json:"buyQuantity"`
	SellQuantity  fixed.Point `json:"sellQuantity"`
	OpenQuantity  fixed.Point `json:"openQuantity"`
	Open          bool        `json:"open"`
}

// AccountResult is one account's rollup over all its instrument keys.
// Currency fields are rounded to 2 decimal places, half to even.
type AccountResult struct {
	Account       string             `json:"account"`
	GrossPnl      fixed.Point        `json:"grossPnl"`
	NetPnl        fixed.Point        `json:"netPnl"`
	FeeCost       fixed.Point        `json:"feeCost"`
	OrderCount    int                `json:"orderCount"`
	TotalQuantity fixed.Point        `json:"totalQuantity"`
	BuyQuantity   fixed.Point        `json:"buyQuantity"`
	SellQuantity  fixed.Point        `json:"sellQuantity"`
	Instruments   []InstrumentResult `json:"instruments,omitempty"`
}
