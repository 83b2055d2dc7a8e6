package engine

import (
	"hash/fnv"

	boom "github.com/tylertreat/BoomFilters"
)

// minHash/maxHash bound the interval a string is hashed into before being
// delegated to an IntHistogram, per spec.md §4.5.
const (
	minHash int64 = 0
	maxHash int64 = 1 << 20
)

// StringHistogram estimates selectivity over a STRING field by hashing each
// value into [minHash, maxHash] and delegating to an IntHistogram -- only
// EQUALS, NOT_EQUALS, and LIKE (aliased to EQUALS) are meaningful; ordering
// ops degrade to 1, matching the hashed representation's lost ordering
// (spec.md §4.5). A secondary github.com/tylertreat/BoomFilters
// CountMinSketch, grounded on the teacher's godb/string_histogram.go, backs
// EstimateValueFrequency, a sketch-based frequency estimate independent of
// the bucketed histogram.
type StringHistogram struct {
	ints *IntHistogram
	cms  *boom.CountMinSketch
}

// NewStringHistogram creates a histogram with nBins buckets over the hash
// range [minHash, maxHash].
func NewStringHistogram(nBins int64) (*StringHistogram, error) {
	ih, err := NewIntHistogram(nBins, minHash, maxHash)
	if err != nil {
		return nil, err
	}
	return &StringHistogram{
		ints: ih,
		cms:  boom.NewCountMinSketch(0.001, 0.999),
	}, nil
}

// hashString maps s into [minHash, maxHash], stable within a process.
func hashString(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	span := maxHash - minHash + 1
	return minHash + int64(h.Sum64()%uint64(span))
}

func (h *StringHistogram) AddValue(s string) {
	h.ints.AddValue(hashString(s))
	h.cms.Add([]byte(s))
}

func (h *StringHistogram) EstimateSelectivity(op BoolOp, s string) float64 {
	switch op {
	case OpEq, OpLike:
		return h.ints.EstimateSelectivity(OpEq, hashString(s))
	case OpNeq:
		return h.ints.EstimateSelectivity(OpNeq, hashString(s))
	default:
		return 1.0
	}
}

func (h *StringHistogram) avgSelectivity() float64 {
	return h.ints.avgSelectivity()
}

// EstimateValueFrequency returns the CountMinSketch's estimated frequency
// of s as a fraction of all values added.
func (h *StringHistogram) EstimateValueFrequency(s string) float64 {
	total := h.cms.TotalCount()
	if total == 0 {
		return 0.0
	}
	return float64(h.cms.Count([]byte(s))) / float64(total)
}
