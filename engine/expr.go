package engine

// Expr evaluates to a DBValue given an input tuple. Filter and Join
// predicates, OrderBy's sort keys, and Project's output list are all
// expressed through this tiny interface rather than a full
// expression tree, matching spec.md §4.4's (fieldIndex, op, operand-field)
// predicate shape while staying generic enough to cover constants too.
type Expr interface {
	// EvalExpr evaluates this expression against t.
	EvalExpr(t *Tuple) (DBValue, error)
	// GetExprType reports the FieldType this expression produces, used to
	// build output schemas (Project) without evaluating a row.
	GetExprType() FieldType
}

// FieldExpr reads field Field.Fname (matched against the input tuple's
// schema at evaluation time, so it works across operators that reorder or
// rename fields) from the input tuple.
type FieldExpr struct {
	Field FieldType
}

func (e *FieldExpr) EvalExpr(t *Tuple) (DBValue, error) {
	idx, err := t.Desc.fieldNameToIndex(e.Field.fullName())
	if err != nil {
		idx, err = t.Desc.fieldNameToIndex(e.Field.Fname)
		if err != nil {
			return nil, err
		}
	}
	return t.Fields[idx], nil
}

func (e *FieldExpr) GetExprType() FieldType {
	return e.Field
}

// ConstExpr always evaluates to the same value, ignoring its input tuple.
type ConstExpr struct {
	Value DBValue
	Ftype Type
}

func (e *ConstExpr) EvalExpr(t *Tuple) (DBValue, error) {
	return e.Value, nil
}

func (e *ConstExpr) GetExprType() FieldType {
	return FieldType{Fname: "", Ftype: e.Ftype}
}

// fieldIndexExpr reads the field at a fixed index, used internally by
// Filter/Join when constructed from a raw (fieldIndex, op, ...) predicate
// rather than by name.
type fieldIndexExpr struct {
	index int
	ft    FieldType
}

func (e *fieldIndexExpr) EvalExpr(t *Tuple) (DBValue, error) {
	if e.index < 0 || e.index >= len(t.Fields) {
		return nil, GoDBError{TupleNotFoundError, "field index out of range"}
	}
	return t.Fields[e.index], nil
}

func (e *fieldIndexExpr) GetExprType() FieldType {
	return e.ft
}
