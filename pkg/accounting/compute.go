package accounting

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/b3quant/apurador/pkg/common"
	"github.com/b3quant/apurador/pkg/utility/fixed"
)

var (
	// ErrEmptyBatch is the batch-level failure for an empty fill list.
	ErrEmptyBatch = errors.New("empty fill batch")
	// ErrNoSideMapping rejects a compute call that did not pick a side-code
	// policy. The numeric codes are ambiguous across integrations, so the
	// engine refuses to guess.
	ErrNoSideMapping = errors.New("side mapping policy is not set")
)

// Options configures one compute call. The instrument table, side mapping
// and reference data are read-only for the duration of the call.
type Options struct {
	SideMapping      *SideMapping
	Granularity      Granularity
	Specs            Instruments
	ReferenceAccount string
	ReferencePrices  map[string]fixed.Point
	PriceScale       fixed.Point // zero means prices arrive already scaled
	Logger           *zap.Logger
}

// Compute replays a batch of raw fills into per-account results. Stateless:
// every call recomputes from scratch over exactly the records given.
// Record-level defects degrade to diagnostics; only batch-level defects
// return an error.
func Compute(records []RawRecord, opts Options) (*Report, error) {
	if opts.SideMapping == nil {
		return nil, ErrNoSideMapping
	}
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	specs := opts.Specs
	if specs == nil {
		specs = DefaultInstruments()
	}

	fills, diag := NormalizeFills(records, opts.SideMapping, opts.PriceScale, logger)

	sorted := sortFills(fills)
	resolve := newMarkResolver(opts.ReferencePrices, sorted, opts.Granularity, opts.ReferenceAccount)
	byAccount, accounts := groupByAccount(sorted)

	unknownPrefixes := make(map[string]struct{})
	results := make([]common.AccountResult, 0, len(accounts))

	for _, account := range accounts {
		accountFills := byAccount[account]
		byKey, keys := groupByKey(accountFills, opts.Granularity)

		outcomes := make([]instrumentOutcome, 0, len(keys))
		for _, key := range keys {
			group := byKey[key]
			spec, known := specs.Lookup(group[0].Prefix)
			if !known {
				unknownPrefixes[group[0].Prefix] = struct{}{}
			}

			pos := replay(group, spec.ContractMultiplier)
			mark, _ := resolve(key)
			tally := tallyVolumes(group)

			outcomes = append(outcomes, instrumentOutcome{
				key:        key,
				realized:   pos.realized,
				unrealized: pos.unrealized(mark, spec.ContractMultiplier),
				fee:        tally.feeCost(spec.FeePerUnit),
				mark:       mark,
				tally:      tally,
				openQty:    pos.qty,
			})
		}

		results = append(results, assembleAccountResult(account, outcomes, len(accountFills)))
	}

	if len(unknownPrefixes) > 0 {
		diag.UnknownPrefixes = make([]string, 0, len(unknownPrefixes))
		for p := range unknownPrefixes {
			diag.UnknownPrefixes = append(diag.UnknownPrefixes, p)
		}
		sort.Strings(diag.UnknownPrefixes)
		logger.Warn("unknown instrument prefixes valued at zero",
			zap.Strings("prefixes", diag.UnknownPrefixes))
	}

	return &Report{Results: results, Diagnostics: diag}, nil
}
