package engine

// Project evaluates a list of output expressions against each child tuple,
// optionally dropping duplicate output rows when distinct is set
// (spec.md §4.4), adapted from the teacher's godb/project_op.go.
type Project struct {
	child     Operator
	exprs     []Expr
	outNames  []string
	distinct  bool
	desc      *TupleDesc
}

// NewProjector constructs a projection of child through exprs, naming each
// output field outNames[i]. If distinct, duplicate output tuples are
// suppressed.
func NewProjector(exprs []Expr, outNames []string, child Operator, distinct bool) (*Project, error) {
	if len(exprs) != len(outNames) {
		return nil, GoDBError{MalformedDataError, "project exprs and outNames must be the same length"}
	}
	fields := make([]FieldType, len(exprs))
	for i, e := range exprs {
		fields[i] = FieldType{Fname: outNames[i], Ftype: e.GetExprType().Ftype}
	}
	return &Project{
		child:    child,
		exprs:    exprs,
		outNames: outNames,
		distinct: distinct,
		desc:     &TupleDesc{Fields: fields},
	}, nil
}

func (p *Project) Descriptor() *TupleDesc { return p.desc }

func containsTuple(seen []*Tuple, t *Tuple) bool {
	for _, s := range seen {
		if s.equals(t) {
			return true
		}
	}
	return false
}

func (p *Project) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	childIter, err := p.child.Iterator(tid)
	if err != nil {
		return nil, err
	}
	var seen []*Tuple
	desc := p.desc
	return func() (*Tuple, error) {
		for {
			t, err := childIter()
			if err != nil || t == nil {
				return nil, err
			}
			fields := make([]DBValue, len(p.exprs))
			for i, e := range p.exprs {
				v, err := e.EvalExpr(t)
				if err != nil {
					return nil, err
				}
				fields[i] = v
			}
			out := &Tuple{Desc: *desc, Fields: fields}
			if p.distinct {
				if containsTuple(seen, out) {
					continue
				}
				seen = append(seen, out)
			}
			return out, nil
		}
	}, nil
}

func (p *Project) Children() []Operator { return []Operator{p.child} }

func (p *Project) SetChildren(children []Operator) error {
	if err := requireChildren(children, 1); err != nil {
		return err
	}
	p.child = children[0]
	return nil
}
