package accounting

import (
	"github.com/b3quant/apurador/pkg/common"
	"github.com/b3quant/apurador/pkg/utility/fixed"
)

// PriceResolver yields the mark price for an instrument key, if it has one.
// Resolvers are pure over the batch they were built from.
type PriceResolver func(key string) (fixed.Point, bool)

// ChainResolvers tries each resolver in order and returns the first hit.
func ChainResolvers(resolvers ...PriceResolver) PriceResolver {
	return func(key string) (fixed.Point, bool) {
		for _, resolve := range resolvers {
			if px, ok := resolve(key); ok {
				return px, ok
			}
		}
		return fixed.Zero, false
	}
}

// ExplicitPrices resolves from a caller-supplied quote snapshot.
func ExplicitPrices(prices map[string]fixed.Point) PriceResolver {
	return func(key string) (fixed.Point, bool) {
		px, ok := prices[key]
		return px, ok
	}
}

// LastFillPrices resolves from an index of most-recent fill prices.
func LastFillPrices(prices map[string]fixed.Point) PriceResolver {
	return func(key string) (fixed.Point, bool) {
		px, ok := prices[key]
		return px, ok
	}
}

// ZeroPrice is the terminal guard: it always resolves, to zero. A key with a
// non-flat position was built from this batch's own fills, so earlier tiers
// should have answered already.
func ZeroPrice() PriceResolver {
	return func(string) (fixed.Point, bool) {
		return fixed.Zero, true
	}
}

// newMarkResolver builds the full fallback chain for one batch:
// explicit price, then the reference account's latest fill, then the latest
// fill across all accounts, then zero. Fills must already be sorted by time
// so the last write per key wins.
func newMarkResolver(explicit map[string]fixed.Point, sorted []common.Fill, g Granularity, refAccount string) PriceResolver {
	lastAll := make(map[string]fixed.Point)
	lastRef := make(map[string]fixed.Point)
	for _, f := range sorted {
		key := g.Key(f)
		lastAll[key] = f.Price
		if refAccount != "" && f.Account == refAccount {
			lastRef[key] = f.Price
		}
	}

	return ChainResolvers(
		ExplicitPrices(explicit),
		LastFillPrices(lastRef),
		LastFillPrices(lastAll),
		ZeroPrice(),
	)
}
