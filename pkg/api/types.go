package api

import (
	"github.com/b3quant/apurador/pkg/accounting"
	"github.com/b3quant/apurador/pkg/common"
)

// calculateEnvelope is the object form of the request body. The array form
// decodes straight to []accounting.RawRecord. "orders" is the legacy alias
// for "fills".
type calculateEnvelope struct {
	Fills            []accounting.RawRecord `json:"fills"`
	Orders           []accounting.RawRecord `json:"orders"`
	ReferenceAccount string                 `json:"referenceAccount"`
	Granularity      string                 `json:"granularity"`
	ReferencePrices  map[string]float64     `json:"referencePrices"`
	InstrumentSpecs  map[string]specPayload `json:"instrumentSpecs"`
}

type specPayload struct {
	ContractMultiplier float64 `json:"contractMultiplier"`
	FeePerUnit         float64 `json:"feePerUnit"`
}

type calculateResponse struct {
	TraceID     string                 `json:"traceId"`
	Results     []common.AccountResult `json:"results"`
	Diagnostics accounting.Diagnostics `json:"diagnostics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ExecutionID string `json:"executionId"`
	Uptime      string `json:"uptime"`
}
