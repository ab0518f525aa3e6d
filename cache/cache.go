// Package cache implements the attribute-set → PLI store: a pinned hot
// tier (always holding the per-column PLIs), an LRU-backed cold tier for
// everything else, a greedy-cover compute path for cache misses, and access
// accounting that throttles eviction passes.
package cache

import (
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/dependomine/dependomine/bitset"
	"github.com/dependomine/dependomine/pli"
	"github.com/dependomine/dependomine/table"
	"github.com/dependomine/dependomine/trie"
)

// ErrPliConstructionFailure should be unreachable given the single-column
// PLIs are pinned at construction; GetOrCompute returns it rather than panic
// if the greedy cover somehow fails to reach full coverage.
var ErrPliConstructionFailure = errors.New("cache: unable to cover attribute set from cached PLIs")

// defaultColdCapacity bounds the cold LRU tier by entry count, the
// simplest footprint proxy that doesn't require a heap profiler.
const defaultColdCapacity = 256

// defaultHighWaterBytes/ lowWaterBytes bound the hot tier's approximate
// memory footprint (sum of covered-row counts, a proxy for class-list
// memory) before a demotion pass runs.
const (
	defaultHighWaterBytes = 2_000_000
	defaultLowWaterBytes  = 1_000_000
	defaultMinCleanupGap  = 30 * time.Second
	// cacheClassThreshold: results with fewer classes than this are still
	// considered cheap enough to cache even when the key is wide.
	cacheClassThreshold = 64
)

type entry struct {
	pli         *pli.PLI
	pinned      bool
	lastAccess  time.Time
	accessCount int
	approxCost  int64 // proxy for memory footprint
}

// PLICache is the attribute-set → PLI store for a single discovery run.
type PLICache struct {
	t *table.Table

	mu  sync.Mutex
	hot map[bitset.Set]*entry
	idx *trie.Trie // sorted column list -> bitset.Set, for every hot or cold key

	cold *lru.Cache[bitset.Set, *entry]

	hotBytes int64

	highWater      int64
	lowWater       int64
	minCleanupGap  time.Duration
	lastCleanup    time.Time
	coldCapacity   int
	evictionsCount int
}

// Option configures a PLICache.
type Option func(*PLICache)

// WithWaterMarks overrides the hot-tier high/low memory water marks.
func WithWaterMarks(high, low int64) Option {
	return func(c *PLICache) { c.highWater, c.lowWater = high, low }
}

// WithColdCapacity overrides the cold tier's entry-count capacity.
func WithColdCapacity(n int) Option {
	return func(c *PLICache) { c.coldCapacity = n }
}

// WithMinCleanupInterval overrides the minimum time between eviction passes.
func WithMinCleanupInterval(d time.Duration) Option {
	return func(c *PLICache) { c.minCleanupGap = d }
}

// New builds a PLICache for t, eagerly computing and pinning every
// single-column PLI. Pinned entries never leave the hot tier, so the greedy
// cover in compute always has a full set of building blocks.
func New(t *table.Table, opts ...Option) *PLICache {
	c := &PLICache{
		t:             t,
		hot:           make(map[bitset.Set]*entry),
		idx:           trie.New(),
		highWater:     defaultHighWaterBytes,
		lowWater:      defaultLowWaterBytes,
		minCleanupGap: defaultMinCleanupGap,
		coldCapacity:  defaultColdCapacity,
	}
	for _, o := range opts {
		o(c)
	}

	cold, _ := lru.NewWithEvict[bitset.Set, *entry](c.coldCapacity, func(key bitset.Set, _ *entry) {
		c.idx.Delete(key.ToSortedList())
	})
	c.cold = cold

	for col := 0; col < t.ColCount(); col++ {
		key := bitset.FromColumns(col)
		p := pli.BuildSingleColumn(t, col)
		e := &entry{pli: p, pinned: true, lastAccess: time.Now(), approxCost: int64(p.CoveredRows())}
		c.hot[key] = e
		c.idx.Set(key.ToSortedList(), key)
		c.hotBytes += e.approxCost
	}
	return c
}

// GetOrCompute returns the PLI for attribute set key, computing and
// (conditionally) caching it if absent. It never fails for a well-formed
// key, since the per-column PLIs are always present.
func (c *PLICache) GetOrCompute(key bitset.Set) (*pli.PLI, error) {
	if key == bitset.Empty {
		return pli.Root(c.t.RowCount()), nil
	}

	c.mu.Lock()
	if e, ok := c.hot[key]; ok {
		e.lastAccess = time.Now()
		e.accessCount++
		c.mu.Unlock()
		return e.pli, nil
	}
	if e, ok := c.cold.Get(key); ok {
		// Promote: a cold hit re-enters the hot tier. Remove fires the cold
		// tier's evict callback, which drops the key from the trie index, so
		// the index entry is restored after the move.
		c.cold.Remove(key)
		e.lastAccess = time.Now()
		e.accessCount++
		c.hot[key] = e
		c.idx.Set(key.ToSortedList(), key)
		c.hotBytes += e.approxCost
		c.maybeEvictLocked()
		c.mu.Unlock()
		return e.pli, nil
	}
	c.mu.Unlock()

	result, err := c.compute(key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.shouldCache(key, result) {
		e := &entry{pli: result, lastAccess: time.Now(), accessCount: 1, approxCost: int64(result.CoveredRows()) + 1}
		c.hot[key] = e
		c.idx.Set(key.ToSortedList(), key)
		c.hotBytes += e.approxCost
		c.maybeEvictLocked()
	}
	c.mu.Unlock()
	return result, nil
}

// compute covers key greedily with cached PLIs (most still-uncovered
// columns first, ties to the fewest classes), then folds Intersect over the
// chosen PLIs smallest-first.
func (c *PLICache) compute(key bitset.Set) (*pli.PLI, error) {
	c.mu.Lock()
	candidateKeys := c.idx.SubsetsOf(key.ToSortedList())
	type cand struct {
		set bitset.Set
		e   *entry
	}
	cands := make([]cand, 0, len(candidateKeys))
	for _, ck := range candidateKeys {
		s := bitset.FromColumns(ck...)
		if s == bitset.Empty {
			continue
		}
		if e, ok := c.hot[s]; ok {
			cands = append(cands, cand{s, e})
			continue
		}
		if e, ok := c.cold.Peek(s); ok {
			cands = append(cands, cand{s, e})
		}
	}
	c.mu.Unlock()

	remaining := key
	var chosen []*pli.PLI
	for remaining != bitset.Empty {
		bestIdx := -1
		bestCoverage := -1
		bestSize := 0
		for i, cd := range cands {
			if cd.set == bitset.Empty {
				continue
			}
			coverage := cd.set.Intersect(remaining).PopCount()
			if coverage == 0 {
				continue
			}
			size := cd.e.pli.NumClasses()
			if coverage > bestCoverage || (coverage == bestCoverage && size < bestSize) {
				bestIdx, bestCoverage, bestSize = i, coverage, size
			}
		}
		if bestIdx < 0 {
			return nil, errors.Wrapf(ErrPliConstructionFailure, "no cached PLI covers remaining columns of %v", key.ToSortedList())
		}
		chosen = append(chosen, cands[bestIdx].e.pli)
		remaining = remaining &^ cands[bestIdx].set
		cands[bestIdx].set = bitset.Empty // consumed; don't re-pick
	}

	sort.Slice(chosen, func(i, j int) bool {
		return chosen[i].NumClasses() < chosen[j].NumClasses()
	})

	result := chosen[0]
	for _, next := range chosen[1:] {
		result = result.Intersect(next)
	}
	return result, nil
}

// shouldCache decides whether a computed result is worth keeping: narrow
// keys always are, wide keys only when the class list stayed small.
func (c *PLICache) shouldCache(key bitset.Set, result *pli.PLI) bool {
	if key.PopCount() == 1 {
		return true
	}
	if key.PopCount() <= 3 {
		return true
	}
	return result.NumClasses() < cacheClassThreshold
}

// maybeEvictLocked runs a demotion pass if the hot tier crosses the high
// water mark and the minimum inter-cleanup interval has elapsed. Caller
// must hold c.mu.
func (c *PLICache) maybeEvictLocked() {
	if c.hotBytes <= c.highWater {
		return
	}
	if !c.lastCleanup.IsZero() && time.Since(c.lastCleanup) < c.minCleanupGap {
		return
	}
	c.lastCleanup = time.Now()

	type victim struct {
		key bitset.Set
		e   *entry
	}
	var victims []victim
	for k, e := range c.hot {
		if e.pinned {
			continue
		}
		victims = append(victims, victim{k, e})
	}
	// Least-recently/least-frequently used first: sort by access count then
	// by staleness.
	sort.Slice(victims, func(i, j int) bool {
		if victims[i].e.accessCount != victims[j].e.accessCount {
			return victims[i].e.accessCount < victims[j].e.accessCount
		}
		return victims[i].e.lastAccess.Before(victims[j].e.lastAccess)
	})

	for _, v := range victims {
		if c.hotBytes <= c.lowWater {
			break
		}
		delete(c.hot, v.key)
		c.hotBytes -= v.e.approxCost
		c.cold.Add(v.key, v.e)
		c.evictionsCount++
	}
}

// FindBestCachedSubset returns the cached PLI whose column set is a subset
// of key and covers the most columns (ties broken by fewest classes), or
// nil if key itself is empty. Pinned single-column PLIs guarantee this is
// never nil for a non-empty key.
func (c *PLICache) FindBestCachedSubset(key bitset.Set) *pli.PLI {
	if key == bitset.Empty {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	candidateKeys := c.idx.SubsetsOf(key.ToSortedList())
	var best *pli.PLI
	bestCoverage := -1
	bestSize := 0
	for _, ck := range candidateKeys {
		s := bitset.FromColumns(ck...)
		if s == bitset.Empty {
			continue
		}
		var e *entry
		if hotE, ok := c.hot[s]; ok {
			e = hotE
		} else if coldE, ok := c.cold.Peek(s); ok {
			e = coldE
		} else {
			continue
		}
		coverage := s.PopCount()
		size := e.pli.NumClasses()
		if coverage > bestCoverage || (coverage == bestCoverage && size < bestSize) {
			best, bestCoverage, bestSize = e.pli, coverage, size
		}
	}
	return best
}

// Stats reports basic cache accounting, useful for tests and CLI verbose
// output.
type Stats struct {
	HotEntries  int
	ColdEntries int
	Evictions   int
}

// Stats returns a snapshot of cache accounting.
func (c *PLICache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		HotEntries:  len(c.hot),
		ColdEntries: c.cold.Len(),
		Evictions:   c.evictionsCount,
	}
}
