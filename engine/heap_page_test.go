package engine

import (
	"bytes"
	"testing"
)

func testDesc(t *testing.T) *TupleDesc {
	t.Helper()
	td, err := NewTupleDesc([]Type{IntType, StringType}, []string{"id", "name"})
	if err != nil {
		t.Fatalf("NewTupleDesc() error = %v", err)
	}
	return td
}

func TestHeapPageRoundTrip(t *testing.T) {
	desc := testDesc(t)
	hf := &HeapFile{td: desc, tableID: 7}
	pg, err := newHeapPage(desc, 0, hf)
	if err != nil {
		t.Fatalf("newHeapPage() error = %v", err)
	}

	tup := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "alice"}}}
	if _, err := pg.insertTuple(tup); err != nil {
		t.Fatalf("insertTuple() error = %v", err)
	}

	data, err := pg.getPageData()
	if err != nil {
		t.Fatalf("getPageData() error = %v", err)
	}

	pg2, err := newHeapPage(desc, 0, hf)
	if err != nil {
		t.Fatalf("newHeapPage() error = %v", err)
	}
	if err := pg2.initFromBuffer(bytes.NewBuffer(data)); err != nil {
		t.Fatalf("initFromBuffer() error = %v", err)
	}

	data2, err := pg2.getPageData()
	if err != nil {
		t.Fatalf("getPageData() error = %v", err)
	}
	if !bytes.Equal(data, data2) {
		t.Error("deserialize(serialize(p)) != p bit-for-bit")
	}
}

func TestHeapPageInsertFillsLowestSlot(t *testing.T) {
	desc := testDesc(t)
	hf := &HeapFile{td: desc, tableID: 1}
	pg, err := newHeapPage(desc, 0, hf)
	if err != nil {
		t.Fatalf("newHeapPage() error = %v", err)
	}

	total := pg.getNumSlots()
	for i := 0; i < total; i++ {
		tup := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: int64(i)}, StringField{Value: "x"}}}
		rid, err := pg.insertTuple(tup)
		if err != nil {
			t.Fatalf("insertTuple(%d) error = %v", i, err)
		}
		if rid.SlotNo != i {
			t.Errorf("insertTuple(%d) slot = %d, want %d", i, rid.SlotNo, i)
		}
	}
	if pg.getNumEmptySlots() != 0 {
		t.Errorf("getNumEmptySlots() = %d, want 0", pg.getNumEmptySlots())
	}

	overflow := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: 999}, StringField{Value: "y"}}}
	if _, err := pg.insertTuple(overflow); err != ErrPageFull {
		t.Errorf("insertTuple() on full page error = %v, want ErrPageFull", err)
	}
}

func TestHeapPageDeleteClearsSlotWithoutRepacking(t *testing.T) {
	desc := testDesc(t)
	hf := &HeapFile{td: desc, tableID: 1}
	pg, err := newHeapPage(desc, 0, hf)
	if err != nil {
		t.Fatalf("newHeapPage() error = %v", err)
	}

	var rids []RecordId
	for i := 0; i < 3; i++ {
		tup := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: int64(i)}, StringField{Value: "x"}}}
		rid, err := pg.insertTuple(tup)
		if err != nil {
			t.Fatalf("insertTuple() error = %v", err)
		}
		rids = append(rids, rid)
	}

	if err := pg.deleteTuple(rids[1]); err != nil {
		t.Fatalf("deleteTuple() error = %v", err)
	}
	if pg.occupied[rids[0].SlotNo] != true || pg.occupied[rids[2].SlotNo] != true {
		t.Error("deleting one slot should not disturb the others")
	}
	if pg.occupied[rids[1].SlotNo] {
		t.Error("deleted slot should no longer be occupied")
	}

	if err := pg.deleteTuple(rids[1]); err == nil {
		t.Error("deleting an already-empty slot should fail")
	}
}
