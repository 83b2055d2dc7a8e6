package engine

import (
	"path/filepath"
	"testing"
)

func mkTestTable(t *testing.T, bp *BufferPool, name string, rows [][2]any) *HeapFile {
	t.Helper()
	desc := testDesc(t)
	path := filepath.Join(t.TempDir(), name+".dat")
	hf, err := NewHeapFile(path, desc, bp)
	if err != nil {
		t.Fatalf("NewHeapFile() error = %v", err)
	}
	tid := NewTID()
	for _, r := range rows {
		tup := &Tuple{Desc: *desc, Fields: []DBValue{
			IntField{Value: int64(r[0].(int))},
			StringField{Value: r[1].(string)},
		}}
		if err := bp.insertTuple(tid, hf, tup); err != nil {
			t.Fatalf("insertTuple() error = %v", err)
		}
	}
	return hf
}

func drain(t *testing.T, op Operator, tid TransactionID) []*Tuple {
	t.Helper()
	iter, err := op.Iterator(tid)
	if err != nil {
		t.Fatalf("Iterator() error = %v", err)
	}
	var out []*Tuple
	for {
		tup, err := iter()
		if err != nil {
			t.Fatalf("iterator error = %v", err)
		}
		if tup == nil {
			break
		}
		out = append(out, tup)
	}
	return out
}

func TestSeqScanFilterEndToEnd(t *testing.T) {
	bp, _ := NewBufferPool(10)
	hf := mkTestTable(t, bp, "t", [][2]any{{1, "a"}, {2, "b"}, {3, "c"}})
	tid := NewTID()

	scan := NewSeqScan(hf, "t")
	filt, err := NewFieldFilter(0, OpGt, IntField{Value: 1}, scan)
	if err != nil {
		t.Fatalf("NewFieldFilter() error = %v", err)
	}

	got := drain(t, filt, tid)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
}

func TestJoinNestedLoop(t *testing.T) {
	bp, _ := NewBufferPool(10)
	left := mkTestTable(t, bp, "left", [][2]any{{1, "a"}, {2, "b"}})
	right := mkTestTable(t, bp, "right", [][2]any{{1, "x"}, {2, "y"}, {3, "z"}})
	tid := NewTID()

	lScan := NewSeqScan(left, "l")
	rScan := NewSeqScan(right, "r")

	ld := lScan.Descriptor()
	rd := rScan.Descriptor()
	pred := JoinPredicate{
		Left:  &FieldExpr{Field: ld.Fields[0]},
		Op:    OpEq,
		Right: &FieldExpr{Field: rd.Fields[0]},
	}
	j, err := NewJoin(lScan, pred, rScan)
	if err != nil {
		t.Fatalf("NewJoin() error = %v", err)
	}

	got := drain(t, j, tid)
	if len(got) != 2 {
		t.Fatalf("got %d joined rows, want 2", len(got))
	}
	for _, tup := range got {
		if len(tup.Fields) != 4 {
			t.Errorf("joined tuple has %d fields, want 4", len(tup.Fields))
		}
	}
}

func TestAggregateGroupedCount(t *testing.T) {
	bp, _ := NewBufferPool(10)
	hf := mkTestTable(t, bp, "t", [][2]any{{1, "a"}, {1, "b"}, {2, "c"}})
	tid := NewTID()

	scan := NewSeqScan(hf, "t")
	agg, err := NewAggregate(scan, 1, 0, CountAgg)
	if err != nil {
		t.Fatalf("NewAggregate() error = %v", err)
	}

	got := drain(t, agg, tid)
	if len(got) != 2 {
		t.Fatalf("got %d groups, want 2", len(got))
	}
	counts := map[int64]int64{}
	for _, tup := range got {
		counts[tup.Fields[0].(IntField).Value] = tup.Fields[1].(IntField).Value
	}
	if counts[1] != 2 || counts[2] != 1 {
		t.Errorf("group counts = %v, want {1:2, 2:1}", counts)
	}
}

func TestAggregateUngroupedSum(t *testing.T) {
	bp, _ := NewBufferPool(10)
	hf := mkTestTable(t, bp, "t", [][2]any{{1, "a"}, {2, "b"}, {3, "c"}})
	tid := NewTID()

	scan := NewSeqScan(hf, "t")
	agg, err := NewAggregate(scan, 0, NoGroupBy, SumAgg)
	if err != nil {
		t.Fatalf("NewAggregate() error = %v", err)
	}

	got := drain(t, agg, tid)
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Fields[0].(IntField).Value != 6 {
		t.Errorf("sum = %d, want 6", got[0].Fields[0].(IntField).Value)
	}
}

func TestInsertAndDeleteOperators(t *testing.T) {
	bp, _ := NewBufferPool(10)
	hf := mkTestTable(t, bp, "t", nil)
	tid := NewTID()
	desc := hf.Descriptor()

	source := &literalTestSource{desc: desc, tuples: []*Tuple{
		{Desc: *desc, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "a"}}},
		{Desc: *desc, Fields: []DBValue{IntField{Value: 2}, StringField{Value: "b"}}},
	}}
	ins := NewInsertOp(bp, tid, hf, source)
	insResult := drain(t, ins, tid)
	if len(insResult) != 1 || insResult[0].Fields[0].(IntField).Value != 2 {
		t.Fatalf("insert count tuple = %v, want count 2", insResult)
	}

	scan := NewSeqScan(hf, "t")
	del := NewDeleteOp(bp, tid, hf, scan)
	delResult := drain(t, del, tid)
	if len(delResult) != 1 || delResult[0].Fields[0].(IntField).Value != 2 {
		t.Fatalf("delete count tuple = %v, want count 2", delResult)
	}

	remaining := drain(t, NewSeqScan(hf, "t"), tid)
	if len(remaining) != 0 {
		t.Errorf("rows remaining after delete = %d, want 0", len(remaining))
	}
}

type literalTestSource struct {
	desc   *TupleDesc
	tuples []*Tuple
}

func (l *literalTestSource) Descriptor() *TupleDesc { return l.desc }

func (l *literalTestSource) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	idx := 0
	return func() (*Tuple, error) {
		if idx >= len(l.tuples) {
			return nil, nil
		}
		tp := l.tuples[idx]
		idx++
		return tp, nil
	}, nil
}

func (l *literalTestSource) Children() []Operator { return nil }

func (l *literalTestSource) SetChildren(children []Operator) error {
	return requireChildren(children, 0)
}
