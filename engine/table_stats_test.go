package engine

import (
	"path/filepath"
	"testing"
)

func TestTableStatsTwoPassConstruction(t *testing.T) {
	bp, err := NewBufferPool(10)
	if err != nil {
		t.Fatalf("NewBufferPool() error = %v", err)
	}
	desc := testDesc(t)
	path := filepath.Join(t.TempDir(), "t.dat")
	hf, err := NewHeapFile(path, desc, bp)
	if err != nil {
		t.Fatalf("NewHeapFile() error = %v", err)
	}

	tid := NewTID()
	for i := 1; i <= 20; i++ {
		tup := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: int64(i)}, StringField{Value: "row"}}}
		if err := bp.insertTuple(tid, hf, tup); err != nil {
			t.Fatalf("insertTuple(%d) error = %v", i, err)
		}
	}

	stats, err := ComputeTableStats(bp, hf)
	if err != nil {
		t.Fatalf("ComputeTableStats() error = %v", err)
	}
	if stats.totalTuples() != 20 {
		t.Errorf("totalTuples() = %d, want 20", stats.totalTuples())
	}
	if stats.EstimateCardinality(0.5) != 10 {
		t.Errorf("EstimateCardinality(0.5) = %d, want 10", stats.EstimateCardinality(0.5))
	}
	if got := stats.EstimateScanCost(); got != float64(hf.NumPages())*CostPerPage {
		t.Errorf("EstimateScanCost() = %v, want %v", got, float64(hf.NumPages())*CostPerPage)
	}

	sel, err := stats.EstimateSelectivity(0, OpEq, IntField{Value: 10})
	if err != nil {
		t.Fatalf("EstimateSelectivity() error = %v", err)
	}
	if sel <= 0 || sel > 1 {
		t.Errorf("EstimateSelectivity() = %v, want a fraction in (0, 1]", sel)
	}
}
