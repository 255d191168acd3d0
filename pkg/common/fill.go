package common

import (
	"time"

	"github.com/b3quant/apurador/pkg/utility/fixed"
)

type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideSell {
		return "SELL"
	}
	return "BUY"
}

// PrefixLen is the number of leading characters of an instrument code that
// identify its contract family, e.g. "WIN" for WINQ25/WINV25.
const PrefixLen = 3

// Fill is one normalized execution record. Immutable once built.
type Fill struct {
	Account  string
	Code     string
	Prefix   string
	Side     Side
	Quantity fixed.Point
	Price    fixed.Point
	Time     time.Time
}

func (f Fill) SignedQuantity() fixed.Point {
	if f.Side == SideSell {
		return f.Quantity.Neg()
	}
	return f.Quantity
}
