package engine

import "sort"

// OrderBy materializes its child's output and emits it sorted by one or
// more fields, ascending or descending per field, using the teacher's
// multiSorter/sort.Interface pattern from godb/order_by_op.go.
type OrderBy struct {
	child   Operator
	exprs   []Expr
	asc     []bool
}

// NewOrderBy constructs a sort of child's output by exprs, each ascending
// or descending according to the corresponding entry in asc.
func NewOrderBy(exprs []Expr, child Operator, asc []bool) (*OrderBy, error) {
	if len(exprs) != len(asc) {
		return nil, GoDBError{MalformedDataError, "orderBy exprs and asc must be the same length"}
	}
	return &OrderBy{child: child, exprs: exprs, asc: asc}, nil
}

func (o *OrderBy) Descriptor() *TupleDesc { return o.child.Descriptor() }

// multiSorter implements sort.Interface over a materialized tuple slice,
// comparing by each expr in order until one yields a strict inequality.
type multiSorter struct {
	tuples []*Tuple
	exprs  []Expr
	asc    []bool
}

func (ms *multiSorter) Len() int      { return len(ms.tuples) }
func (ms *multiSorter) Swap(i, j int) { ms.tuples[i], ms.tuples[j] = ms.tuples[j], ms.tuples[i] }

func (ms *multiSorter) Less(i, j int) bool {
	p, q := ms.tuples[i], ms.tuples[j]
	for k, expr := range ms.exprs {
		state, err := p.compareField(q, expr)
		if err != nil {
			return false
		}
		switch state {
		case OrderedEqual:
			continue
		case OrderedLessThan:
			return ms.asc[k]
		default:
			return !ms.asc[k]
		}
	}
	return false
}

func (o *OrderBy) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	childIter, err := o.child.Iterator(tid)
	if err != nil {
		return nil, err
	}
	var tuples []*Tuple
	for {
		t, err := childIter()
		if err != nil {
			return nil, err
		}
		if t == nil {
			break
		}
		tuples = append(tuples, t)
	}
	sort.Stable(&multiSorter{tuples: tuples, exprs: o.exprs, asc: o.asc})

	idx := 0
	return func() (*Tuple, error) {
		if idx >= len(tuples) {
			return nil, nil
		}
		t := tuples[idx]
		idx++
		return t, nil
	}, nil
}

func (o *OrderBy) Children() []Operator { return []Operator{o.child} }

func (o *OrderBy) SetChildren(children []Operator) error {
	if err := requireChildren(children, 1); err != nil {
		return err
	}
	o.child = children[0]
	return nil
}
