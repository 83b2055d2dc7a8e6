package engine

import (
	"container/list"
	"sync"
)

// RWPerm is the permission under which a page is requested from the buffer
// pool -- the hook a concurrency control manager would use to decide what
// kind of lock to acquire (spec.md §4.3, §5). This engine does not
// implement locking; GetPage simply returns the page.
type RWPerm int

const (
	ReadPerm RWPerm = iota
	WritePerm
)

// EvictPolicy selects how BufferPool.evictPage behaves when the cache is
// full and every resident page is clean or dirty. The baseline is STEAL
// (spec.md §4.3): a dirty LRU victim is flushed, then evicted. NoSteal
// refuses to evict a dirty page, failing if every resident page is dirty.
type EvictPolicy int

const (
	Steal EvictPolicy = iota
	NoSteal
)

// BufferPool is a bounded, LRU cache of pages. Eviction order is by last
// access, where "access" is any GetPage hit or miss that returns a page,
// or any insert/refresh following a mutation (spec.md §4.3).
type BufferPool struct {
	mu       sync.Mutex
	capacity int
	policy   EvictPolicy
	pages    map[PageId]*list.Element // -> *bufEntry in lru
	lru      *list.List                // front = most recently used
}

type bufEntry struct {
	key  PageId
	page Page
}

// NewBufferPool creates a BufferPool holding at most numPages pages at
// once. numPages <= 0 defaults to 50, the teacher's own default.
func NewBufferPool(numPages int) (*BufferPool, error) {
	if numPages <= 0 {
		numPages = 50
	}
	return &BufferPool{
		capacity: numPages,
		policy:   Steal,
		pages:    make(map[PageId]*list.Element),
		lru:      list.New(),
	}, nil
}

// SetEvictPolicy overrides the eviction discipline (Steal is the default
// and what spec.md's scenarios assume).
func (bp *BufferPool) SetEvictPolicy(p EvictPolicy) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	bp.policy = p
}

func (bp *BufferPool) size() int {
	return bp.lru.Len()
}

// touch moves an already-cached entry to the MRU end of the list.
func (bp *BufferPool) touch(el *list.Element) {
	bp.lru.MoveToFront(el)
}

// insertAtMRU caches page under key, evicting first if at capacity.
func (bp *BufferPool) insertAtMRU(key PageId, page Page) error {
	if el, ok := bp.pages[key]; ok {
		el.Value.(*bufEntry).page = page
		bp.touch(el)
		return nil
	}
	if bp.lru.Len() >= bp.capacity {
		if err := bp.evictPageLocked(); err != nil {
			return err
		}
	}
	el := bp.lru.PushFront(&bufEntry{key: key, page: page})
	bp.pages[key] = el
	return nil
}

// GetPage returns the cached page for (file, pageNo), reading it from disk
// on a miss and evicting an LRU victim if the pool is full (spec.md §4.3).
// perm is the concurrency-control hook; this engine performs no locking.
func (bp *BufferPool) GetPage(file DbFile, pageNo int, tid TransactionID, perm RWPerm) (Page, error) {
	key := file.pageKey(pageNo)

	bp.mu.Lock()
	if el, ok := bp.pages[key]; ok {
		bp.touch(el)
		page := el.Value.(*bufEntry).page
		bp.mu.Unlock()
		return page, nil
	}
	if bp.lru.Len() >= bp.capacity {
		if err := bp.evictPageLocked(); err != nil {
			bp.mu.Unlock()
			return nil, err
		}
	}
	bp.mu.Unlock()

	page, err := file.readPage(pageNo)
	if err != nil {
		return nil, err
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()
	if el, ok := bp.pages[key]; ok {
		// Lost a race with a concurrent reader of the same page.
		bp.touch(el)
		return el.Value.(*bufEntry).page, nil
	}
	el := bp.lru.PushFront(&bufEntry{key: key, page: page})
	bp.pages[key] = el
	return page, nil
}

// insertTuple delegates to file's insertTuple, then marks every returned
// page dirty and refreshes it at MRU (spec.md §4.3).
func (bp *BufferPool) insertTuple(tid TransactionID, file DbFile, t *Tuple) error {
	pages, err := file.insertTuple(t, tid)
	if err != nil {
		return err
	}
	return bp.refreshDirtied(file, pages, tid)
}

// deleteTuple delegates to the tuple's owning file's deleteTuple, then
// marks every returned page dirty and refreshes it at MRU.
func (bp *BufferPool) deleteTuple(tid TransactionID, file DbFile, t *Tuple) error {
	pages, err := file.deleteTuple(t, tid)
	if err != nil {
		return err
	}
	return bp.refreshDirtied(file, pages, tid)
}

func (bp *BufferPool) refreshDirtied(file DbFile, pages []Page, tid TransactionID) error {
	for _, p := range pages {
		p.markDirty(true, tid)
		if err := bp.insertAtMRU(file.pageKey(p.id().PageNo), p); err != nil {
			return err
		}
	}
	return nil
}

// flushPage writes the cached page for pid back to disk via its DbFile,
// clearing its dirty bit, without removing it from the cache (spec.md §9's
// open question: flush-in-place, not the teacher's remove-on-flush).
func (bp *BufferPool) flushPage(pid PageId) error {
	bp.mu.Lock()
	el, ok := bp.pages[pid]
	bp.mu.Unlock()
	if !ok {
		return nil
	}
	page := el.Value.(*bufEntry).page
	if err := page.getFile().flushPage(page); err != nil {
		return err
	}
	page.markDirty(false, NoTransaction)
	return nil
}

// FlushAllPages flushes every cached page.
func (bp *BufferPool) FlushAllPages() error {
	bp.mu.Lock()
	keys := make([]PageId, 0, len(bp.pages))
	for k := range bp.pages {
		keys = append(keys, k)
	}
	bp.mu.Unlock()

	for _, k := range keys {
		if err := bp.flushPage(k); err != nil {
			return err
		}
	}
	return nil
}

// discardPage removes pid from the cache without writing it, used by a
// recovery manager to drop pages belonging to an aborted transaction.
func (bp *BufferPool) discardPage(pid PageId) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if el, ok := bp.pages[pid]; ok {
		bp.lru.Remove(el)
		delete(bp.pages, pid)
	}
}

// evictPage removes one page from the cache. Under Steal it removes the LRU
// page, flushing it first if dirty. Under NoSteal it skips dirty pages and
// removes the least recently used clean page, failing if every page is dirty.
func (bp *BufferPool) evictPage() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.evictPageLocked()
}

// evictPageLocked is evictPage's body, called with bp.mu held.
func (bp *BufferPool) evictPageLocked() error {
	for el := bp.lru.Back(); el != nil; el = el.Prev() {
		entry := el.Value.(*bufEntry)
		if entry.page.isDirty() == NoTransaction {
			bp.lru.Remove(el)
			delete(bp.pages, entry.key)
			return nil
		}
		if bp.policy == Steal {
			if err := entry.page.getFile().flushPage(entry.page); err != nil {
				return err
			}
			entry.page.markDirty(false, NoTransaction)
			bp.lru.Remove(el)
			delete(bp.pages, entry.key)
			return nil
		}
	}
	if bp.lru.Len() == 0 {
		return nil
	}
	return GoDBError{BufferPoolFullError, "all pages in buffer pool are dirty"}
}

// BeginTransaction, CommitTransaction, and AbortTransaction are the hooks a
// concurrency control / recovery manager would use; transaction and lock
// management are out of scope for this engine (spec.md §1).
// BeginTransaction and AbortTransaction do nothing; CommitTransaction
// flushes every cached page (FlushAllPages).
func (bp *BufferPool) BeginTransaction(tid TransactionID) error { return nil }

func (bp *BufferPool) CommitTransaction(tid TransactionID) error {
	return bp.FlushAllPages()
}

func (bp *BufferPool) AbortTransaction(tid TransactionID) {}
