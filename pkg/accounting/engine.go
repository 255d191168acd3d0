package accounting

import (
	"github.com/b3quant/apurador/pkg/common"
	"github.com/b3quant/apurador/pkg/utility/fixed"
)

// position is the replay accumulator for one (account, instrument key) group:
// signed open quantity, weighted average entry price and realized P&L so far.
// Average price is a size-weighted mean of same-direction entries since the
// position last went flat; the closing leg never touches it.
type position struct {
	qty      fixed.Point
	avgPrice fixed.Point
	realized fixed.Point
}

// replay folds a chronologically ordered group of fills into a terminal
// position, starting flat.
func replay(fills []common.Fill, mult fixed.Point) position {
	p := position{qty: fixed.Zero, avgPrice: fixed.Zero, realized: fixed.Zero}
	for _, f := range fills {
		p.apply(f.Side, f.Quantity, f.Price, mult)
	}
	return p
}

func (p *position) apply(side common.Side, qty, px, mult fixed.Point) {
	remaining := qty

	// Closing leg: the fill opposes the open position.
	closesLong := side == common.SideSell && p.qty.Sign() > 0
	closesShort := side == common.SideBuy && p.qty.Sign() < 0
	if closesLong || closesShort {
		match := fixed.Min(remaining, p.qty.Abs())
		if closesLong {
			p.realized = p.realized.Add(px.Sub(p.avgPrice).Mul(match).Mul(mult))
			p.qty = p.qty.Sub(match)
		} else {
			p.realized = p.realized.Add(p.avgPrice.Sub(px).Mul(match).Mul(mult))
			p.qty = p.qty.Add(match)
		}
		if p.qty.IsZero() {
			p.avgPrice = fixed.Zero
		}
		remaining = remaining.Sub(match)
	}

	if remaining.IsZero() {
		return
	}

	// Opening leg: position is flat (possibly just flipped) or same-sided.
	signed := remaining
	if side == common.SideSell {
		signed = signed.Neg()
	}
	if p.qty.IsZero() {
		p.qty = signed
		p.avgPrice = px
		return
	}
	open := p.qty.Abs()
	p.avgPrice = p.avgPrice.Mul(open).Add(px.Mul(remaining)).Div(open.Add(remaining))
	p.qty = p.qty.Add(signed)
}

// unrealized values the residual open position against a mark price.
// The single signed formula covers both directions.
func (p position) unrealized(mark, mult fixed.Point) fixed.Point {
	if p.qty.IsZero() {
		return fixed.Zero
	}
	return mark.Sub(p.avgPrice).Mul(p.qty).Mul(mult)
}
