package accounting

import (
	"github.com/b3quant/apurador/pkg/common"
	"github.com/b3quant/apurador/pkg/utility/fixed"
)

// volumeTally accumulates traded quantity per side and the side notionals
// that back the volume-weighted average prices of the report rows.
type volumeTally struct {
	total        fixed.Point
	buy          fixed.Point
	sell         fixed.Point
	buyNotional  fixed.Point
	sellNotional fixed.Point
}

func tallyVolumes(fills []common.Fill) volumeTally {
	t := volumeTally{
		total: fixed.Zero, buy: fixed.Zero, sell: fixed.Zero,
		buyNotional: fixed.Zero, sellNotional: fixed.Zero,
	}
	for _, f := range fills {
		t.total = t.total.Add(f.Quantity)
		notional := f.Quantity.Mul(f.Price)
		if f.Side == common.SideBuy {
			t.buy = t.buy.Add(f.Quantity)
			t.buyNotional = t.buyNotional.Add(notional)
		} else {
			t.sell = t.sell.Add(f.Quantity)
			t.sellNotional = t.sellNotional.Add(notional)
		}
	}
	return t
}

// feeCost charges FeePerUnit on every traded unit, both sides.
func (t volumeTally) feeCost(feePerUnit fixed.Point) fixed.Point {
	return t.total.Mul(feePerUnit)
}

func (t volumeTally) avgBuyPrice() fixed.Point {
	if t.buy.IsZero() {
		return fixed.Zero
	}
	return t.buyNotional.Div(t.buy)
}

func (t volumeTally) avgSellPrice() fixed.Point {
	if t.sell.IsZero() {
		return fixed.Zero
	}
	return t.sellNotional.Div(t.sell)
}
