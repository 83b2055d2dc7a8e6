package engine

// Operator is the pull-based execution interface every node of the query
// tree implements. Rather than the coroutine-like hasNext/next pair
// spec.md §4.4 describes (inherited from the Java SimpleDB lineage this
// system is modeled on), each Operator exposes a single "pull one tuple or
// none" closure -- the design spec.md §9 explicitly recommends
// ("synthesizes hasNext/next where compatibility is needed"). OpIterator,
// below, is that compatibility shim.
type Operator interface {
	// Descriptor returns this operator's output schema.
	Descriptor() *TupleDesc
	// Iterator returns a function that, on each call, returns the next
	// output tuple, or (nil, nil) once exhausted.
	Iterator(tid TransactionID) (func() (*Tuple, error), error)
	// Children returns this operator's child operators, for tree
	// inspection/rewriting by a caller such as a join-order enumerator.
	Children() []Operator
	// SetChildren replaces this operator's children. Implementations that
	// take a fixed number of children validate len(children).
	SetChildren(children []Operator) error
}

// OpIterator adapts any Operator to the conceptual Open/Close/Rewind/
// HasNext/Next surface spec.md §4.4 names. Next fails with
// NoMoreTuplesError when exhausted; Open must precede any Next (spec.md
// §4.4). It works by caching at most one pulled-ahead tuple.
type OpIterator struct {
	op      Operator
	tid     TransactionID
	next    func() (*Tuple, error)
	pending *Tuple
	opened  bool
}

// NewOpIterator wraps op for use under the Open/Close/Rewind/HasNext/Next
// protocol.
func NewOpIterator(op Operator, tid TransactionID) *OpIterator {
	return &OpIterator{op: op, tid: tid}
}

// Open (re)starts iteration, discarding any prior pulled-ahead state.
func (it *OpIterator) Open() error {
	fn, err := it.op.Iterator(it.tid)
	if err != nil {
		return err
	}
	it.next = fn
	it.pending = nil
	it.opened = true
	return nil
}

// Close releases this iterator's state. Iterating further requires Open.
func (it *OpIterator) Close() {
	it.next = nil
	it.pending = nil
	it.opened = false
}

// Rewind restarts iteration from the beginning.
func (it *OpIterator) Rewind() error {
	return it.Open()
}

// HasNext reports whether Next would return a tuple. It is idempotent and
// may cache one pulled-ahead tuple.
func (it *OpIterator) HasNext() (bool, error) {
	if !it.opened {
		return false, GoDBError{TupleNotFoundError, "iterator not open"}
	}
	if it.pending != nil {
		return true, nil
	}
	t, err := it.next()
	if err != nil {
		return false, err
	}
	if t == nil {
		return false, nil
	}
	it.pending = t
	return true, nil
}

// Next returns the next tuple, failing with NoMoreTuplesError if exhausted.
func (it *OpIterator) Next() (*Tuple, error) {
	ok, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, GoDBError{NoMoreTuplesError, "no such element"}
	}
	t := it.pending
	it.pending = nil
	return t, nil
}

// GetTupleDesc returns the wrapped operator's output schema.
func (it *OpIterator) GetTupleDesc() *TupleDesc {
	return it.op.Descriptor()
}

// requireChildren validates the arity a SetChildren call is allowed to see;
// each operator's SetChildren calls this before assigning its own field(s).
func requireChildren(children []Operator, n int) error {
	if len(children) != n {
		return GoDBError{MalformedDataError, "unexpected number of children"}
	}
	return nil
}
