package engine

// countDesc is the one-column (INT "count") schema Insert and
// Delete both emit (spec.md §4.4).
var countDesc = TupleDesc{Fields: []FieldType{{Fname: "count", Ftype: IntType}}}

// Insert drains its child on the first call to its iterator, inserting
// each tuple into insertFile via the buffer pool, and emits a single
// one-field INT tuple with the count inserted. Calling the iterator again
// without an intervening Rewind yields nothing further (spec.md §4.4).
type Insert struct {
	tid        TransactionID
	child      Operator
	insertFile DbFile
	bp         *BufferPool
}

// NewInsertOp constructs an insert of child's tuples into insertFile.
func NewInsertOp(bp *BufferPool, tid TransactionID, insertFile DbFile, child Operator) *Insert {
	return &Insert{tid: tid, child: child, insertFile: insertFile, bp: bp}
}

func (i *Insert) Descriptor() *TupleDesc { return &countDesc }

func (i *Insert) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	childIter, err := i.child.Iterator(tid)
	if err != nil {
		return nil, err
	}
	done := false
	return func() (*Tuple, error) {
		if done {
			return nil, nil
		}
		done = true

		count := int64(0)
		for {
			t, err := childIter()
			if err != nil {
				return nil, err
			}
			if t == nil {
				break
			}
			if err := i.bp.insertTuple(i.tid, i.insertFile, t); err != nil {
				return nil, err
			}
			count++
		}
		return &Tuple{Desc: countDesc, Fields: []DBValue{IntField{Value: count}}}, nil
	}, nil
}

func (i *Insert) Children() []Operator { return []Operator{i.child} }

func (i *Insert) SetChildren(children []Operator) error {
	if err := requireChildren(children, 1); err != nil {
		return err
	}
	i.child = children[0]
	return nil
}
