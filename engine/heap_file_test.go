package engine

import (
	"path/filepath"
	"testing"
)

func newTestHeapFile(t *testing.T, bp *BufferPool) *HeapFile {
	t.Helper()
	desc := testDesc(t)
	path := filepath.Join(t.TempDir(), "t.dat")
	hf, err := NewHeapFile(path, desc, bp)
	if err != nil {
		t.Fatalf("NewHeapFile() error = %v", err)
	}
	return hf
}

func TestHeapFileInsertAndScanConservation(t *testing.T) {
	bp, err := NewBufferPool(10)
	if err != nil {
		t.Fatalf("NewBufferPool() error = %v", err)
	}
	hf := newTestHeapFile(t, bp)
	tid := NewTID()

	const n = 250 // spans multiple pages
	for i := 0; i < n; i++ {
		tup := &Tuple{Desc: *hf.td, Fields: []DBValue{IntField{Value: int64(i)}, StringField{Value: "row"}}}
		if err := bp.insertTuple(tid, hf, tup); err != nil {
			t.Fatalf("insertTuple(%d) error = %v", i, err)
		}
	}

	iter, err := hf.Iterator(tid)
	if err != nil {
		t.Fatalf("Iterator() error = %v", err)
	}
	count := 0
	for {
		tup, err := iter()
		if err != nil {
			t.Fatalf("iterator error = %v", err)
		}
		if tup == nil {
			break
		}
		count++
	}
	if count != n {
		t.Errorf("scanned %d tuples, want %d", count, n)
	}
}

func TestHeapFileDeleteThenScanSkipsDeleted(t *testing.T) {
	bp, err := NewBufferPool(10)
	if err != nil {
		t.Fatalf("NewBufferPool() error = %v", err)
	}
	hf := newTestHeapFile(t, bp)
	tid := NewTID()

	var toDelete *Tuple
	for i := 0; i < 5; i++ {
		tup := &Tuple{Desc: *hf.td, Fields: []DBValue{IntField{Value: int64(i)}, StringField{Value: "row"}}}
		if err := bp.insertTuple(tid, hf, tup); err != nil {
			t.Fatalf("insertTuple(%d) error = %v", i, err)
		}
		if i == 2 {
			toDelete = tup
		}
	}

	if err := bp.deleteTuple(tid, hf, toDelete); err != nil {
		t.Fatalf("deleteTuple() error = %v", err)
	}

	iter, err := hf.Iterator(tid)
	if err != nil {
		t.Fatalf("Iterator() error = %v", err)
	}
	count := 0
	for {
		tup, err := iter()
		if err != nil {
			t.Fatalf("iterator error = %v", err)
		}
		if tup == nil {
			break
		}
		if tup.Fields[0].(IntField).Value == 2 {
			t.Error("deleted tuple still visible in scan")
		}
		count++
	}
	if count != 4 {
		t.Errorf("scanned %d tuples after delete, want 4", count)
	}
}

func TestHeapFileFlushIsIdempotent(t *testing.T) {
	bp, err := NewBufferPool(10)
	if err != nil {
		t.Fatalf("NewBufferPool() error = %v", err)
	}
	hf := newTestHeapFile(t, bp)
	tid := NewTID()

	tup := &Tuple{Desc: *hf.td, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "a"}}}
	if err := bp.insertTuple(tid, hf, tup); err != nil {
		t.Fatalf("insertTuple() error = %v", err)
	}
	if err := bp.FlushAllPages(); err != nil {
		t.Fatalf("FlushAllPages() error = %v", err)
	}
	if err := bp.FlushAllPages(); err != nil {
		t.Fatalf("second FlushAllPages() error = %v", err)
	}

	iter, err := hf.Iterator(tid)
	if err != nil {
		t.Fatalf("Iterator() error = %v", err)
	}
	tup2, err := iter()
	if err != nil || tup2 == nil {
		t.Fatalf("expected one tuple to survive flush, got %v, err %v", tup2, err)
	}
}
