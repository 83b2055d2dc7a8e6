package engine

import "math"

// NHistBins is the default histogram bucket count (spec.md §4.6).
const NHistBins = 100

// CostPerPage is the default I/O cost charged per page read during a scan.
const CostPerPage = 1000.0

// TableStats holds per-field histograms for one table, built by two passes
// over its data: the first tallies per-INT-field min/max; the second
// constructs and populates a histogram per field and counts the tuples.
// The page count is taken from the file's NumPages(). Grounded on the teacher's godb/table_stats.go, generalized from
// its any-typed histogram map to the spec's explicit two-pass recipe.
type TableStats struct {
	desc       *TupleDesc
	numPages   int
	numTuples  int
	intHists   map[int]*IntHistogram
	strHists   map[int]*StringHistogram
}

// ComputeTableStats runs the two-pass construction over file, within a
// fresh, internally-managed transaction.
func ComputeTableStats(bp *BufferPool, file DbFile) (*TableStats, error) {
	tid := NewTID()
	bp.BeginTransaction(tid)
	defer bp.CommitTransaction(tid)

	desc := file.Descriptor()

	mins := make([]int64, len(desc.Fields))
	maxs := make([]int64, len(desc.Fields))
	for i := range mins {
		mins[i] = math.MaxInt64
		maxs[i] = math.MinInt64
	}

	iter, err := file.Iterator(tid)
	if err != nil {
		return nil, err
	}
	for {
		t, err := iter()
		if err != nil {
			return nil, err
		}
		if t == nil {
			break
		}
		for i, f := range desc.Fields {
			if f.Ftype != IntType {
				continue
			}
			v := t.Fields[i].(IntField).Value
			if v < mins[i] {
				mins[i] = v
			}
			if v > maxs[i] {
				maxs[i] = v
			}
		}
	}
	for i, f := range desc.Fields {
		if f.Ftype == IntType && mins[i] > maxs[i] {
			mins[i], maxs[i] = 0, 0
		}
	}

	intHists := make(map[int]*IntHistogram)
	strHists := make(map[int]*StringHistogram)
	for i, f := range desc.Fields {
		switch f.Ftype {
		case IntType:
			h, err := NewIntHistogram(NHistBins, mins[i], maxs[i])
			if err != nil {
				return nil, err
			}
			intHists[i] = h
		case StringType:
			h, err := NewStringHistogram(NHistBins)
			if err != nil {
				return nil, err
			}
			strHists[i] = h
		}
	}

	iter2, err := file.Iterator(tid)
	if err != nil {
		return nil, err
	}
	numTuples := 0
	for {
		t, err := iter2()
		if err != nil {
			return nil, err
		}
		if t == nil {
			break
		}
		for i, f := range desc.Fields {
			switch f.Ftype {
			case IntType:
				intHists[i].AddValue(t.Fields[i].(IntField).Value)
			case StringType:
				strHists[i].AddValue(t.Fields[i].(StringField).Value)
			}
		}
		numTuples++
	}

	return &TableStats{
		desc:      desc,
		numPages:  file.NumPages(),
		numTuples: numTuples,
		intHists:  intHists,
		strHists:  strHists,
	}, nil
}

// EstimateScanCost returns the file's page count * CostPerPage.
func (s *TableStats) EstimateScanCost() float64 {
	return float64(s.numPages) * CostPerPage
}

// EstimateCardinality returns floor(tupleCount * selectivity).
func (s *TableStats) EstimateCardinality(selectivity float64) int {
	return int(float64(s.numTuples) * selectivity)
}

// EstimateSelectivity dispatches to the i-th field's histogram.
func (s *TableStats) EstimateSelectivity(i int, op BoolOp, value DBValue) (float64, error) {
	if h, ok := s.intHists[i]; ok {
		iv, ok := value.(IntField)
		if !ok {
			return 1.0, GoDBError{TypeMismatchError, "field is int but value is not an IntField"}
		}
		return h.EstimateSelectivity(op, iv.Value), nil
	}
	if h, ok := s.strHists[i]; ok {
		sv, ok := value.(StringField)
		if !ok {
			return 1.0, GoDBError{TypeMismatchError, "field is string but value is not a StringField"}
		}
		return h.EstimateSelectivity(op, sv.Value), nil
	}
	return 1.0, GoDBError{TupleNotFoundError, "no histogram for field index"}
}

// avgSelectivity returns field i's histogram's average per-distinct-value
// selectivity.
func (s *TableStats) avgSelectivity(i int) float64 {
	if h, ok := s.intHists[i]; ok {
		return h.avgSelectivity()
	}
	if h, ok := s.strHists[i]; ok {
		return h.avgSelectivity()
	}
	return 1.0
}

// totalTuples returns the second-pass tuple count.
func (s *TableStats) totalTuples() int {
	return s.numTuples
}
