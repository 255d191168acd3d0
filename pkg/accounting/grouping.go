package accounting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/b3quant/apurador/pkg/common"
)

// Granularity selects the instrument key used for position accounting.
// KeyByPrefix treats all expirations of a family as one fungible position;
// KeyByCode keeps each expiration separate. The two produce materially
// different realized/unrealized splits, so this is an explicit policy.
type Granularity int

const (
	KeyByPrefix Granularity = iota
	KeyByCode
)

func (g Granularity) String() string {
	if g == KeyByCode {
		return "FULL_CODE"
	}
	return "PREFIX"
}

func (g Granularity) Key(f common.Fill) string {
	if g == KeyByCode {
		return f.Code
	}
	return f.Prefix
}

// ParseGranularity accepts the wire spellings; empty means KeyByPrefix.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "PREFIX":
		return KeyByPrefix, nil
	case "FULL_CODE", "CODE":
		return KeyByCode, nil
	}
	return 0, fmt.Errorf("unknown instrument key granularity %q", s)
}

// sortFills orders fills ascending by timestamp. The sort is stable so ties
// keep input order and the replay stays deterministic.
func sortFills(fills []common.Fill) []common.Fill {
	sorted := make([]common.Fill, len(fills))
	copy(sorted, fills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	return sorted
}

// groupByAccount partitions chronologically sorted fills per account,
// preserving order, and returns account ids sorted for determinism.
func groupByAccount(sorted []common.Fill) (map[string][]common.Fill, []string) {
	groups := make(map[string][]common.Fill)
	for _, f := range sorted {
		groups[f.Account] = append(groups[f.Account], f)
	}
	accounts := make([]string, 0, len(groups))
	for a := range groups {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	return groups, accounts
}

func groupByKey(fills []common.Fill, g Granularity) (map[string][]common.Fill, []string) {
	groups := make(map[string][]common.Fill)
	for _, f := range fills {
		key := g.Key(f)
		groups[key] = append(groups[key], f)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return groups, keys
}
