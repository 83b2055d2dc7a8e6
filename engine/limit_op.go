package engine

// LimitOp emits at most the first n tuples of its child, then stops
// (spec.md §4.4), adapted from the teacher's godb/limit_op.go.
type LimitOp struct {
	child Operator
	n     int64
}

// NewLimitOp constructs a limit of child to at most n tuples.
func NewLimitOp(n int64, child Operator) *LimitOp {
	return &LimitOp{child: child, n: n}
}

func (l *LimitOp) Descriptor() *TupleDesc { return l.child.Descriptor() }

func (l *LimitOp) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	childIter, err := l.child.Iterator(tid)
	if err != nil {
		return nil, err
	}
	emitted := int64(0)
	return func() (*Tuple, error) {
		if emitted >= l.n {
			return nil, nil
		}
		t, err := childIter()
		if err != nil || t == nil {
			return nil, err
		}
		emitted++
		return t, nil
	}, nil
}

func (l *LimitOp) Children() []Operator { return []Operator{l.child} }

func (l *LimitOp) SetChildren(children []Operator) error {
	if err := requireChildren(children, 1); err != nil {
		return err
	}
	l.child = children[0]
	return nil
}
