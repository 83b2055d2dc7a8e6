package engine

import (
	"bytes"
	"sync"
)

/*
heapPage implements the Page interface for pages of a HeapFile.

Unlike the teacher's slot-count-header layout (an int32 slot count and an
int32 used count, with occupied slots packed densely from index 0 on every
flush), this page uses the bitmap header spec.md §3/§4.1 mandates: a
⌈N/8⌉-byte header whose bit i (LSB-first within its byte) records whether
slot i is occupied, followed by N fixed-size slots in schema order. The
bitmap keeps a tuple's slot number -- and therefore its RecordId -- stable
across a flush, which the teacher's dense-repacking scheme does not.
*/
type heapPage struct {
	sync.Mutex
	desc     TupleDesc
	pid      PageId
	numSlots int
	occupied []bool
	tuples   []*Tuple
	dirtTid  TransactionID
	file     *HeapFile
}

// numSlotsForSchema computes N = floor((PageSize*8) / (TUPLE_BITS+1)) per
// spec.md §3.
func numSlotsForSchema(desc *TupleDesc) int {
	tupleBits := 8 * desc.bytesPerTuple()
	return (PageSize() * 8) / (tupleBits + 1)
}

func headerBytes(numSlots int) int {
	return (numSlots + 7) / 8
}

// newHeapPage constructs an empty page (all slots unoccupied) for pageNo.
func newHeapPage(desc *TupleDesc, pageNo int, f *HeapFile) (*heapPage, error) {
	n := numSlotsForSchema(desc)
	if n == 0 {
		return nil, GoDBError{MalformedDataError, "page too small to hold even one tuple of this schema"}
	}
	tuples := make([]*Tuple, n)
	for i := range tuples {
		t := &Tuple{Desc: *desc, Fields: zeroFields(desc)}
		tuples[i] = t
	}
	return &heapPage{
		desc:     *desc,
		pid:      PageId{TableID: f.TableID(), PageNo: pageNo},
		numSlots: n,
		occupied: make([]bool, n),
		tuples:   tuples,
		dirtTid:  NoTransaction,
		file:     f,
	}, nil
}

func zeroFields(desc *TupleDesc) []DBValue {
	fields := make([]DBValue, len(desc.Fields))
	for i, ft := range desc.Fields {
		fields[i] = ft.Ftype.zeroValue()
	}
	return fields
}

func (h *heapPage) getNumSlots() int {
	return h.numSlots
}

// getNumEmptySlots scans the occupancy bitmap; O(N) per spec.md §4.1.
func (h *heapPage) getNumEmptySlots() int {
	empty := 0
	for _, occ := range h.occupied {
		if !occ {
			empty++
		}
	}
	return empty
}

// insertTuple stores t in the lowest-indexed empty slot, or fails with
// ErrPageFull.
func (h *heapPage) insertTuple(t *Tuple) (RecordId, error) {
	for i := 0; i < h.numSlots; i++ {
		if !h.occupied[i] {
			h.tuples[i] = t
			h.occupied[i] = true
			rid := RecordId{PageID: h.pid, SlotNo: i}
			t.Rid = &rid
			return rid, nil
		}
	}
	return RecordId{}, ErrPageFull
}

// deleteTuple clears the occupancy bit for rid's slot. It does not zero the
// slot's bytes (spec.md §4.1).
func (h *heapPage) deleteTuple(rid RecordId) error {
	if rid.PageID != h.pid {
		return GoDBError{TupleNotFoundError, "rid does not belong to this page"}
	}
	if rid.SlotNo < 0 || rid.SlotNo >= h.numSlots {
		return GoDBError{TupleNotFoundError, "slot does not exist"}
	}
	if !h.occupied[rid.SlotNo] {
		return GoDBError{TupleNotFoundError, "slot already empty"}
	}
	h.occupied[rid.SlotNo] = false
	return nil
}

func (h *heapPage) isDirty() TransactionID {
	return h.dirtTid
}

func (h *heapPage) markDirty(dirty bool, tid TransactionID) {
	if dirty {
		h.dirtTid = tid
	} else {
		h.dirtTid = NoTransaction
	}
}

func (h *heapPage) getFile() DbFile {
	return h.file
}

func (h *heapPage) id() PageId {
	return h.pid
}

// getPageData re-encodes the page: header bitmap, then N tuple slots
// (garbage/zero-valued if unoccupied), then zero padding to PageSize.
func (h *heapPage) getPageData() ([]byte, error) {
	b := new(bytes.Buffer)
	header := make([]byte, headerBytes(h.numSlots))
	for i, occ := range h.occupied {
		if occ {
			header[i/8] |= 1 << uint(i%8)
		}
	}
	b.Write(header)

	for i := 0; i < h.numSlots; i++ {
		t := h.tuples[i]
		if t == nil {
			t = &Tuple{Desc: h.desc, Fields: zeroFields(&h.desc)}
		}
		if err := t.writeTo(b); err != nil {
			return nil, err
		}
	}

	if b.Len() > PageSize() {
		return nil, GoDBError{MalformedDataError, "encoded page exceeds PageSize"}
	}
	b.Write(make([]byte, PageSize()-b.Len()))
	return b.Bytes(), nil
}

// initFromBuffer decodes a page previously produced by getPageData.
func (h *heapPage) initFromBuffer(buf *bytes.Buffer) error {
	hdrLen := headerBytes(h.numSlots)
	header := make([]byte, hdrLen)
	if _, err := buf.Read(header); err != nil {
		return err
	}

	occupied := make([]bool, h.numSlots)
	tuples := make([]*Tuple, h.numSlots)
	for i := 0; i < h.numSlots; i++ {
		occ := header[i/8]&(1<<uint(i%8)) != 0
		occupied[i] = occ
		t, err := readTupleFrom(buf, &h.desc)
		if err != nil {
			return err
		}
		if occ {
			rid := RecordId{PageID: h.pid, SlotNo: i}
			t.Rid = &rid
		}
		tuples[i] = t
	}
	h.occupied = occupied
	h.tuples = tuples
	h.dirtTid = NoTransaction
	return nil
}

// tupleIter returns a pull-one-or-none function over this page's occupied
// slots, in ascending slot order, each with its RecordId set.
func (h *heapPage) tupleIter() func() (*Tuple, error) {
	i := 0
	return func() (*Tuple, error) {
		for i < h.numSlots {
			slot := i
			i++
			if h.occupied[slot] {
				t := h.tuples[slot]
				rid := RecordId{PageID: h.pid, SlotNo: slot}
				t.Rid = &rid
				return t, nil
			}
		}
		return nil, nil
	}
}
