package engine

// Delete is the mirror of Insert: it drains its child on the first call to
// its iterator, deleting each tuple via the buffer pool, and emits a single
// one-field INT tuple with the count deleted (spec.md §4.4).
type Delete struct {
	tid        TransactionID
	child      Operator
	deleteFile DbFile
	bp         *BufferPool
}

// NewDeleteOp constructs a delete of child's tuples from deleteFile.
func NewDeleteOp(bp *BufferPool, tid TransactionID, deleteFile DbFile, child Operator) *Delete {
	return &Delete{tid: tid, child: child, deleteFile: deleteFile, bp: bp}
}

func (d *Delete) Descriptor() *TupleDesc { return &countDesc }

func (d *Delete) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	childIter, err := d.child.Iterator(tid)
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
			if err := d.bp.deleteTuple(d.tid, d.deleteFile, t); err != nil {
				return nil, err
			}
			count++
		}
		return &Tuple{Desc: countDesc, Fields: []DBValue{IntField{Value: count}}}, nil
	}, nil
}

func (d *Delete) Children() []Operator { return []Operator{d.child} }

func (d *Delete) SetChildren(children []Operator) error {
	if err := requireChildren(children, 1); err != nil {
		return err
	}
	d.child = children[0]
	return nil
}
