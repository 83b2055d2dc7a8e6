package engine

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// HeapFile is an unordered collection of tuples backed by one OS file, laid
// out as a dense array of PageSize-byte pages (spec.md §3, §4.2).
type HeapFile struct {
	td            *TupleDesc
	backingFile   string
	tableID       int64
	numPages      int
	lastEmptyPage int
	bufPool       *BufferPool
}

// NewHeapFile opens (creating if necessary) fromFile as the backing store
// for a table with schema td, using bp to cache its pages.
func NewHeapFile(fromFile string, td *TupleDesc, bp *BufferPool) (*HeapFile, error) {
	f, err := os.OpenFile(fromFile, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	numPages := int(fi.Size()) / PageSize()
	return &HeapFile{
		td:            td,
		backingFile:   fromFile,
		tableID:       tableIDForPath(fromFile),
		numPages:      numPages,
		lastEmptyPage: -1,
		bufPool:       bp,
	}, nil
}

func (f *HeapFile) BackingFile() string { return f.backingFile }

func (f *HeapFile) NumPages() int { return f.numPages }

func (f *HeapFile) TableID() int64 { return f.tableID }

func (f *HeapFile) Descriptor() *TupleDesc { return f.td }

// readPage reads page pageNo from disk and decodes it. Reading past the end
// of the file is a fatal read error (spec.md §4.2).
func (f *HeapFile) readPage(pageNo int) (Page, error) {
	file, err := os.OpenFile(f.backingFile, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := make([]byte, PageSize())
	n, err := file.ReadAt(buf, int64(pageNo)*int64(PageSize()))
	if err != nil {
		DPrintf("HeapFile %s: readPage(%d) failed: %v", f.backingFile, pageNo, err)
		return nil, err
	}
	if n != PageSize() {
		return nil, GoDBError{MalformedDataError, "short read in readPage"}
	}

	pg, err := newHeapPage(f.td, pageNo, f)
	if err != nil {
		return nil, err
	}
	if err := pg.initFromBuffer(bytes.NewBuffer(buf)); err != nil {
		return nil, err
	}
	return pg, nil
}

// flushPage writes p back to its slot in the backing file, extending the
// file if necessary, and flushes the write before returning (spec.md
// §4.2).
func (f *HeapFile) flushPage(p Page) error {
	hp, ok := p.(*heapPage)
	if !ok {
		return GoDBError{IncompatibleTypesError, "flushPage given a non-heapPage"}
	}
	file, err := os.OpenFile(f.backingFile, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := hp.getPageData()
	if err != nil {
		return err
	}
	if _, err := file.WriteAt(data, int64(hp.pid.PageNo)*int64(PageSize())); err != nil {
		DPrintf("HeapFile %s: flushPage(%d) write failed: %v", f.backingFile, hp.pid.PageNo, err)
		return err
	}
	if hp.pid.PageNo+1 > f.numPages {
		f.numPages = hp.pid.PageNo + 1
	}
	return file.Sync()
}

// insertTuple scans pages (through the buffer pool) for a free slot,
// inserting t there; failing that, it appends a fresh page (spec.md §4.2).
func (f *HeapFile) insertTuple(t *Tuple, tid TransactionID) ([]Page, error) {
	if !t.Desc.equals(f.td) {
		return nil, GoDBError{TypeMismatchError, "tuple schema does not match heap file"}
	}

	start := 0
	if f.lastEmptyPage >= 0 {
		start = f.lastEmptyPage
	}

	for p := start; p < f.numPages; p++ {
		pg, err := f.bufPool.GetPage(f, p, tid, ReadPerm)
		if err != nil {
			return nil, err
		}
		hp := pg.(*heapPage)
		if hp.getNumEmptySlots() == 0 {
			continue
		}
		pg, err = f.bufPool.GetPage(f, p, tid, WritePerm)
		if err != nil {
			return nil, err
		}
		hp = pg.(*heapPage)
		if _, err := hp.insertTuple(t); err != nil {
			if err == ErrPageFull {
				continue
			}
			return nil, err
		}
		hp.markDirty(true, tid)
		f.lastEmptyPage = p
		return []Page{hp}, nil
	}

	// No page had room: append a fresh one.
	newPageNo := f.numPages
	blank, err := newHeapPage(f.td, newPageNo, f)
	if err != nil {
		return nil, err
	}
	if err := f.flushPage(blank); err != nil {
		return nil, err
	}

	pg, err := f.bufPool.GetPage(f, newPageNo, tid, WritePerm)
	if err != nil {
		return nil, err
	}
	hp := pg.(*heapPage)
	if _, err := hp.insertTuple(t); err != nil {
		return nil, err
	}
	hp.markDirty(true, tid)
	f.lastEmptyPage = newPageNo
	return []Page{hp}, nil
}

// deleteTuple resolves t's owning page via t.Rid and routes the deletion
// through the buffer pool (spec.md §9's open question: the teacher's
// original implementation re-read raw pages, defeating dirty tracking).
func (f *HeapFile) deleteTuple(t *Tuple, tid TransactionID) ([]Page, error) {
	if t.Rid == nil {
		return nil, GoDBError{TupleNotFoundError, "tuple has no RecordId, cannot delete"}
	}
	rid := *t.Rid
	if rid.PageID.PageNo < 0 || rid.PageID.PageNo >= f.numPages {
		return nil, GoDBError{TupleNotFoundError, "rid references a page outside this file"}
	}

	pg, err := f.bufPool.GetPage(f, rid.PageID.PageNo, tid, WritePerm)
	if err != nil {
		return nil, err
	}
	hp, ok := pg.(*heapPage)
	if !ok {
		return nil, GoDBError{IncompatibleTypesError, "buffer pool returned non-heap page"}
	}
	if err := hp.deleteTuple(rid); err != nil {
		return nil, err
	}
	hp.markDirty(true, tid)

	if f.lastEmptyPage < 0 || rid.PageID.PageNo < f.lastEmptyPage {
		f.lastEmptyPage = rid.PageID.PageNo
	}
	return []Page{hp}, nil
}

// Iterator returns a pull-one-or-none function over every tuple of every
// page, in page-number/slot order, fetching pages through the buffer pool
// with read permission (spec.md §4.2).
func (f *HeapFile) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	pgNo := 0
	var pgIter func() (*Tuple, error)
	return func() (*Tuple, error) {
		for {
			if pgIter == nil {
				if pgNo >= f.numPages {
					return nil, nil
				}
				pg, err := f.bufPool.GetPage(f, pgNo, tid, ReadPerm)
				if err != nil {
					return nil, err
				}
				pgIter = pg.(*heapPage).tupleIter()
				pgNo++
			}
			next, err := pgIter()
			if err != nil {
				return nil, err
			}
			if next == nil {
				pgIter = nil
				continue
			}
			return next, nil
		}
	}, nil
}

// pageKey returns the PageId used as the buffer pool's cache key for page
// pgNo of this file.
func (f *HeapFile) pageKey(pgNo int) PageId {
	return PageId{TableID: f.tableID, PageNo: pgNo}
}

// LoadFromCSV bulk-loads a comma-(or sep-)delimited file into this
// HeapFile through the normal insertTuple path, so every invariant the
// engine maintains for a regular insert also holds for bulk-loaded data.
// hasHeader skips the first line; skipLastField drops a trailing empty
// field some exports leave behind.
func (f *HeapFile) LoadFromCSV(file *os.File, hasHeader bool, sep string, skipLastField bool) error {
	scanner := bufio.NewScanner(file)
	lineNo := 0
	tid := NewTID()
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := strings.Split(line, sep)
		if skipLastField {
			fields = fields[:len(fields)-1]
		}
		if lineNo == 1 && hasHeader {
			continue
		}
		if len(fields) != len(f.td.Fields) {
			return GoDBError{MalformedDataError, fmt.Sprintf(
				"LoadFromCSV: line %d has %d fields, expected %d", lineNo, len(fields), len(f.td.Fields))}
		}

		values := make([]DBValue, len(fields))
		for i, raw := range fields {
			switch f.td.Fields[i].Ftype {
			case IntType:
				raw = strings.TrimSpace(raw)
				n, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return GoDBError{TypeMismatchError, fmt.Sprintf(
						"LoadFromCSV: line %d: %q is not an int", lineNo, raw)}
				}
				values[i] = IntField{Value: n}
			case StringType:
				if len(raw) > StringLength {
					raw = raw[:StringLength]
				}
				values[i] = StringField{Value: raw}
			default:
				return GoDBError{TypeMismatchError, "LoadFromCSV: unknown field type"}
			}
		}

		tup := &Tuple{Desc: *f.td, Fields: values}
		if _, err := f.insertTuple(tup, tid); err != nil {
			return err
		}
	}
	return scanner.Err()
}
