package accounting

import (
	"strings"

	"github.com/b3quant/apurador/pkg/common"
)

// SideMapping is the named policy that translates raw side codes into
// canonical sides. Two integrations of the legacy feed disagree on what the
// numeric codes mean, so there is deliberately no default: callers must pick
// a preset (or build their own) and say so.
type SideMapping struct {
	name string
	buy  map[string]struct{}
	sell map[string]struct{}
}

func NewSideMapping(name string, buyCodes, sellCodes []string) *SideMapping {
	m := &SideMapping{
		name: name,
		buy:  make(map[string]struct{}, len(buyCodes)),
		sell: make(map[string]struct{}, len(sellCodes)),
	}
	for _, c := range buyCodes {
		m.buy[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}
	for _, c := range sellCodes {
		m.sell[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}
	return m
}

func (m *SideMapping) Name() string { return m.name }

func (m *SideMapping) Resolve(raw string) (common.Side, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := m.buy[code]; ok {
		return common.SideBuy, true
	}
	if _, ok := m.sell[code]; ok {
		return common.SideSell, true
	}
	return 0, false
}

var (
	// SideMappingFIX follows the FIX tag 54 convention: "1" buys, "2" sells.
	SideMappingFIX = NewSideMapping("fix",
		[]string{"1", "BUY", "B", "COMPRA", "C"},
		[]string{"2", "SELL", "S", "VENDA", "V"})

	// SideMappingLegacy follows the zero-based feed: "0" buys, "1" sells.
	SideMappingLegacy = NewSideMapping("legacy",
		[]string{"0", "BUY", "B", "COMPRA", "C"},
		[]string{"1", "SELL", "S", "VENDA", "V"})
)

func LookupSideMapping(name string) (*SideMapping, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fix":
		return SideMappingFIX, true
	case "legacy":
		return SideMappingLegacy, true
	}
	return nil, false
}
