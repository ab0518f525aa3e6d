package dependomine

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/dependomine/dependomine/bitset"
	"github.com/dependomine/dependomine/cache"
	"github.com/dependomine/dependomine/measure"
	"github.com/dependomine/dependomine/sampling"
	"github.com/dependomine/dependomine/search"
	"github.com/dependomine/dependomine/table"
	"github.com/pkg/errors"
)

// Discover finds every ⊆-minimal approximate functional dependency LHS -> rhs
// (for every rhs in t) whose error under cfg's measure is at most maxError.
// ctx is checked once per RHS column, between search.Space runs; it does not
// interrupt a run already in progress.
func Discover(ctx context.Context, t *table.Table, maxError float64, opts ...ConfigOption) ([]FD, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validateDiscoverInput(t, maxError); err != nil {
		return nil, err
	}

	rng := newRNG(cfg.Seed)
	c := cache.New(t)

	// search.Space only ever traces when Verbose is set, regardless of
	// whether a caller also passed a Logger: trace on demand, not
	// trace-because-a-logger-exists.
	var spaceLogger search.Logger
	if cfg.Verbose {
		spaceLogger = cfg.Logger
	}

	var out []FD
	for rhs := 0; rhs < t.ColCount(); rhs++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if cfg.Verbose {
			cfg.Logger.Debugf("discover: exploring rhs=%d (%s)", rhs, t.ColumnName(rhs))
		}

		factory := buildSamplerFactory(cfg, t, c, rhs, rng)
		space := search.New(t, c, rhs, maxError, cfg.Measure, factory, spaceLogger)
		results := space.Explore()

		if cfg.Verbose {
			cfg.Logger.Debugf("discover: rhs=%d found %d minimal FDs after %d validations",
				rhs, len(results), space.Validations())
		}

		for _, r := range results {
			out = append(out, FD{Lhs: r.Lhs, Rhs: rhs, Error: r.Error})
		}
	}
	return out, nil
}

func validateDiscoverInput(t *table.Table, maxError float64) error {
	if t == nil || t.RowCount() == 0 {
		return errors.Wrap(ErrInvalidInput, "empty table")
	}
	if t.ColCount() > 63 {
		return errors.Wrapf(ErrInvalidInput, "col_count %d exceeds the 63-column fast path", t.ColCount())
	}
	if maxError < 0 || maxError > 1 {
		return errors.Wrapf(ErrInvalidInput, "max_error %v out of [0,1]", maxError)
	}
	return nil
}

// newRNG seeds a PCG-backed *rand.Rand from cfg.Seed, or from wall-clock
// entropy when the caller left it nil (nondeterministic run).
func newRNG(seed *uint64) *rand.Rand {
	var s uint64
	if seed != nil {
		s = *seed
	} else {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s^0x9E3779B97F4A7C15))
}

// buildSamplerFactory returns the search.SamplerFactory matching cfg.Sampling,
// or nil for SamplingNone (exact measure on every estimate). Neyman's
// VarianceCache is built once per reference column within a RHS run: every
// LHS sharing the same smallest column shares the same strata, and therefore
// the same pilot variances.
func buildSamplerFactory(cfg Config, t *table.Table, c *cache.PLICache, rhs int, rng *rand.Rand) search.SamplerFactory {
	switch cfg.Sampling {
	case SamplingRandom:
		return func(bitset.Set) measure.Sampler {
			return sampling.NewRandom(t.RowCount(), cfg.SampleParam, rng)
		}
	case SamplingFocused:
		return func(lhs bitset.Set) measure.Sampler {
			return sampling.NewFocused(t, c, lhs, cfg.SampleParam, rng)
		}
	case SamplingNeyman:
		cached := make(map[int]*sampling.VarianceCache)
		return func(lhs bitset.Set) measure.Sampler {
			ref := sampling.ReferenceColumn(lhs)
			vc, ok := cached[ref]
			if !ok {
				vc = sampling.BuildVarianceCache(t, c, lhs, rhs, rng)
				cached[ref] = vc
			}
			return sampling.NewNeyman(t, c, lhs, vc, cfg.SampleParam, rng)
		}
	default:
		return nil
	}
}
