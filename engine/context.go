package engine

import "sync"

// Context bundles a Catalog, a BufferPool, and a stats registry, replacing
// the teacher's process-wide `Database`/statsMap singletons with an
// explicit, passable value per spec.md §9's resolved open question. A
// process-global table stats registry (spec.md §4.6) lives here as a plain
// map rather than package state.
type Context struct {
	Catalog *Catalog
	BP      *BufferPool

	statsMu sync.Mutex
	stats   map[string]*TableStats
}

// NewContext constructs a Context over an already-populated catalog and
// buffer pool.
func NewContext(catalog *Catalog, bp *BufferPool) *Context {
	return &Context{Catalog: catalog, BP: bp, stats: make(map[string]*TableStats)}
}

// ComputeStatistics builds one TableStats per table known to the catalog,
// replacing any previously computed statistics.
func (c *Context) ComputeStatistics() error {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	for name, file := range c.Catalog.tableMap {
		ts, err := ComputeTableStats(c.BP, file)
		if err != nil {
			return err
		}
		c.stats[name] = ts
	}
	return nil
}

// TableStats returns the previously computed statistics for table name, or
// nil if ComputeStatistics has not been run (or the table is unknown).
func (c *Context) TableStats(name string) *TableStats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats[name]
}
