package engine

// Filter emits child tuples satisfying left `op` right, where left and
// right are expressions evaluated against each tuple (spec.md §4.4). The
// common case -- (fieldIndex, op, constant) -- is built via NewFieldFilter.
type Filter struct {
	op    BoolOp
	left  Expr
	right Expr
	child Operator
}

// NewFilter constructs a filter comparing left against right with op.
func NewFilter(left Expr, op BoolOp, right Expr, child Operator) (*Filter, error) {
	return &Filter{op: op, left: left, right: right, child: child}, nil
}

// NewFieldFilter constructs a filter over field index fieldIndex of the
// child's schema against a constant operand, matching spec.md §4.4's
// (fieldIndex, op, operand-field) predicate shape.
func NewFieldFilter(fieldIndex int, op BoolOp, operand DBValue, child Operator) (*Filter, error) {
	desc := child.Descriptor()
	if fieldIndex < 0 || fieldIndex >= len(desc.Fields) {
		return nil, GoDBError{TupleNotFoundError, "filter field index out of range"}
	}
	left := &fieldIndexExpr{index: fieldIndex, ft: desc.Fields[fieldIndex]}
	right := &ConstExpr{Value: operand, Ftype: operand.Type()}
	return NewFilter(left, op, right, child)
}

func (f *Filter) Descriptor() *TupleDesc { return f.child.Descriptor() }

func (f *Filter) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	childIter, err := f.child.Iterator(tid)
	if err != nil {
		return nil, err
	}
	return func() (*Tuple, error) {
		for {
			tuple, err := childIter()
			if err != nil || tuple == nil {
				return nil, err
			}
			lv, err := f.left.EvalExpr(tuple)
			if err != nil {
				return nil, err
			}
			rv, err := f.right.EvalExpr(tuple)
			if err != nil {
				return nil, err
			}
			if lv.EvalPred(rv, f.op) {
				return tuple, nil
			}
		}
	}, nil
}

func (f *Filter) Children() []Operator { return []Operator{f.child} }

func (f *Filter) SetChildren(children []Operator) error {
	if err := requireChildren(children, 1); err != nil {
		return err
	}
	f.child = children[0]
	return nil
}
