package engine

// Aggregate computes one AggType over afield, optionally grouped by gfield.
// gfield == NoGroupBy means a single, ungrouped aggregate over the whole
// input. Like the teacher's order_by_op.go, it is blocking: the first call
// to its iterator drains and materializes all groups before any row is
// emitted (spec.md §4.4).
type Aggregate struct {
	child        Operator
	afield       int
	gfield       int
	op           AggType
	outAggName   string
	outGroupName string
}

// NoGroupBy marks an Aggregate with no group-by field.
const NoGroupBy = -1

// NewAggregate constructs an aggregate of afield by op, grouped by gfield
// (or NoGroupBy for a single global group).
func NewAggregate(child Operator, afield, gfield int, op AggType) (*Aggregate, error) {
	desc := child.Descriptor()
	if afield < 0 || afield >= len(desc.Fields) {
		return nil, GoDBError{TupleNotFoundError, "aggregate field index out of range"}
	}
	if gfield != NoGroupBy && (gfield < 0 || gfield >= len(desc.Fields)) {
		return nil, GoDBError{TupleNotFoundError, "group-by field index out of range"}
	}
	return &Aggregate{
		child:        child,
		afield:       afield,
		gfield:       gfield,
		op:           op,
		outAggName:   op.String() + "(" + desc.Fields[afield].Fname + ")",
		outGroupName: groupFieldName(desc, gfield),
	}, nil
}

func groupFieldName(desc *TupleDesc, gfield int) string {
	if gfield == NoGroupBy {
		return ""
	}
	return desc.Fields[gfield].Fname
}

func (a *Aggregate) Descriptor() *TupleDesc {
	aggField := FieldType{Fname: a.outAggName, Ftype: IntType}
	if a.gfield == NoGroupBy {
		return &TupleDesc{Fields: []FieldType{aggField}}
	}
	groupField := a.child.Descriptor().Fields[a.gfield]
	groupField.Fname = a.outGroupName
	return &TupleDesc{Fields: []FieldType{groupField, aggField}}
}

func (a *Aggregate) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	childIter, err := a.child.Iterator(tid)
	if err != nil {
		return nil, err
	}

	type group struct {
		key   DBValue
		state AggState
	}
	var order []*group
	byKey := make(map[DBValue]*group)

	template, err := newAggState(a.op, a.afield)
	if err != nil {
		return nil, err
	}

	for {
		t, err := childIter()
		if err != nil {
			return nil, err
		}
		if t == nil {
			break
		}
		var key DBValue
		if a.gfield == NoGroupBy {
			key = IntField{Value: 0}
		} else {
			key = t.Fields[a.gfield]
		}
		g, ok := byKey[key]
		if !ok {
			g = &group{key: key, state: template.Copy()}
			byKey[key] = g
			order = append(order, g)
		}
		if err := g.state.AddTuple(t); err != nil {
			return nil, err
		}
	}

	if a.gfield == NoGroupBy && len(order) == 0 {
		order = append(order, &group{key: IntField{Value: 0}, state: template.Copy()})
	}

	desc := a.Descriptor()
	idx := 0
	return func() (*Tuple, error) {
		if idx >= len(order) {
			return nil, nil
		}
		g := order[idx]
		idx++
		aggVal := g.state.Finalize()
		if a.gfield == NoGroupBy {
			return &Tuple{Desc: *desc, Fields: []DBValue{aggVal}}, nil
		}
		return &Tuple{Desc: *desc, Fields: []DBValue{g.key, aggVal}}, nil
	}, nil
}

func (a *Aggregate) Children() []Operator { return []Operator{a.child} }

func (a *Aggregate) SetChildren(children []Operator) error {
	if err := requireChildren(children, 1); err != nil {
		return err
	}
	a.child = children[0]
	return nil
}
