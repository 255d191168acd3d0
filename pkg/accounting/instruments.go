package accounting

import (
	"github.com/b3quant/apurador/pkg/common"
	"github.com/b3quant/apurador/pkg/utility/fixed"
)

// Instruments maps a contract-family prefix to its economic parameters.
type Instruments map[string]common.InstrumentSpec

// DefaultInstruments covers the B3 mini contracts the service was built for.
func DefaultInstruments() Instruments {
	return Instruments{
		"WIN": {ContractMultiplier: fixed.MustParse("0.2"), FeePerUnit: fixed.MustParse("0.25")},
		"WDO": {ContractMultiplier: fixed.MustParse("10.0"), FeePerUnit: fixed.MustParse("1.20")},
		"BIT": {ContractMultiplier: fixed.MustParse("0.1"), FeePerUnit: fixed.MustParse("3.00")},
	}
}

// Lookup is a total function: an unknown prefix resolves to a zero-effect
// spec instead of an error, so one bad instrument never blocks the batch.
// The second return reports whether the prefix was actually configured.
func (in Instruments) Lookup(prefix string) (common.InstrumentSpec, bool) {
	spec, ok := in[prefix]
	if !ok {
		return common.InstrumentSpec{ContractMultiplier: fixed.Zero, FeePerUnit: fixed.Zero}, false
	}
	return spec, true
}
