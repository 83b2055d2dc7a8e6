package engine

// JoinPredicate is the (leftExpr, op, rightExpr) comparison a Join applies
// to every (left, right) tuple pair (spec.md §4.4).
type JoinPredicate struct {
	Left  Expr
	Op    BoolOp
	Right Expr
}

// Join is a nested-loop join: for each left tuple, it iterates right (the
// right child is rewound once per left advance) and emits the
// concatenation of left and right tuples for which the predicate holds
// (spec.md §4.4). Output schema is merge(left.schema, right.schema).
type Join struct {
	pred        JoinPredicate
	left, right Operator
}

// NewJoin constructs a join of left and right on pred.
func NewJoin(left Operator, pred JoinPredicate, right Operator) (*Join, error) {
	return &Join{pred: pred, left: left, right: right}, nil
}

func (j *Join) Descriptor() *TupleDesc {
	return j.left.Descriptor().merge(j.right.Descriptor())
}

func (j *Join) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	leftIter, err := j.left.Iterator(tid)
	if err != nil {
		return nil, err
	}

	var (
		leftTuple *Tuple
		rightIter func() (*Tuple, error)
	)

	advanceLeft := func() (bool, error) {
		t, err := leftIter()
		if err != nil {
			return false, err
		}
		if t == nil {
			return false, nil
		}
		leftTuple = t
		rightIter, err = j.right.Iterator(tid)
		if err != nil {
			return false, err
		}
		return true, nil
	}

	if ok, err := advanceLeft(); err != nil {
		return nil, err
	} else if !ok {
		leftTuple = nil
	}

	return func() (*Tuple, error) {
		for leftTuple != nil {
			rt, err := rightIter()
			if err != nil {
				return nil, err
			}
			if rt == nil {
				if ok, err := advanceLeft(); err != nil {
					return nil, err
				} else if !ok {
					leftTuple = nil
				}
				continue
			}

			lv, err := j.pred.Left.EvalExpr(leftTuple)
			if err != nil {
				return nil, err
			}
			rv, err := j.pred.Right.EvalExpr(rt)
			if err != nil {
				return nil, err
			}
			if lv.EvalPred(rv, j.pred.Op) {
				return joinTuples(leftTuple, rt), nil
			}
		}
		return nil, nil
	}, nil
}

func (j *Join) Children() []Operator { return []Operator{j.left, j.right} }

func (j *Join) SetChildren(children []Operator) error {
	if err := requireChildren(children, 2); err != nil {
		return err
	}
	j.left, j.right = children[0], children[1]
	return nil
}
