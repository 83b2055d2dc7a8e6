package engine

import (
	"hash/fnv"
	"path/filepath"
)

// PageId identifies a page within a table: the table it belongs to and its
// zero-based page number (spec.md §3). The table id is an opaque, stable
// value derived from the backing file's absolute path so it survives
// process restarts without requiring a central id allocator.
type PageId struct {
	TableID  int64
	PageNo int
}

// tableIDForPath derives a stable table id from a backing file's absolute
// path via FNV-1a, per spec.md §3 ("implementations may use a stable
// hash"). Callers treat the result as opaque.
func tableIDForPath(path string) int64 {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(abs))
	return int64(h.Sum64())
}

// RecordId uniquely locates a tuple: the page it lives on and its slot
// within that page (spec.md §3).
type RecordId struct {
	PageID PageId
	SlotNo int
}

// Page is the in-memory representation of one page of a DbFile, as cached
// by the BufferPool.
type Page interface {
	// isDirty returns the transaction that last dirtied this page, or
	// NoTransaction if the page is clean (spec.md §4.1).
	isDirty() TransactionID
	// markDirty records (or clears) the dirtying transaction.
	markDirty(dirty bool, tid TransactionID)
	// getFile returns the DbFile this page belongs to.
	getFile() DbFile
	// getPageData re-encodes the page to its on-disk byte representation.
	getPageData() ([]byte, error)
	// id returns this page's PageId.
	id() PageId
}

// DbFile is a random-access, on-disk store of pages for a single table
// (spec.md §2, component 5). HeapFile is the only implementation specified
// here; the interface exists so the buffer pool and operator tree don't
// need to know which storage layout backs a given table.
type DbFile interface {
	// Descriptor returns this file's schema.
	Descriptor() *TupleDesc
	// readPage reads page pageNo from disk and decodes it.
	readPage(pageNo int) (Page, error)
	// flushPage writes p back to its slot in the backing file.
	flushPage(p Page) error
	// insertTuple inserts t, returning the page(s) it dirtied.
	insertTuple(t *Tuple, tid TransactionID) ([]Page, error)
	// deleteTuple removes t (located via t.Rid), returning the page(s) it
	// dirtied.
	deleteTuple(t *Tuple, tid TransactionID) ([]Page, error)
	// Iterator returns a pull-one-or-none function over every tuple in the
	// file, in page-number/slot order.
	Iterator(tid TransactionID) (func() (*Tuple, error), error)
	// NumPages returns the number of pages currently in the file.
	NumPages() int
	// pageKey returns a unique, comparable key identifying page pageNo of
	// this file, used by the BufferPool as a cache key.
	pageKey(pageNo int) PageId
	// TableID returns this file's stable table identifier.
	TableID() int64
}
