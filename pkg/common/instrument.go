package common

import "github.com/b3quant/apurador/pkg/utility/fixed"

// InstrumentSpec carries the economic parameters of a contract family.
// ContractMultiplier converts (price delta × quantity) into currency,
// FeePerUnit is charged on every traded unit regardless of direction.
type InstrumentSpec struct {
	ContractMultiplier fixed.Point `json:"contractMultiplier"`
	FeePerUnit         fixed.Point `json:"feePerUnit"`
}

func (s InstrumentSpec) IsZero() bool {
	return s.ContractMultiplier.IsZero() && s.FeePerUnit.IsZero()
}
