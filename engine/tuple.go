package engine

import (
	"bytes"
	"io"
)

// Tuple is one row: a schema reference, a field vector whose types match
// the schema in order, and an optional RecordId naming where the tuple
// currently lives (spec.md §3). Rid is nil for tuples that were never read
// from (or written to) a page -- e.g. the output of an Aggregate.
type Tuple struct {
	Desc   TupleDesc
	Fields []DBValue
	Rid    *RecordId
}

// NewTuple builds a Tuple over desc, checking that fields' types line up.
func NewTuple(desc TupleDesc, fields []DBValue) (*Tuple, error) {
	if len(fields) != len(desc.Fields) {
		return nil, GoDBError{TypeMismatchError, "field count does not match tuple descriptor"}
	}
	for i, f := range fields {
		if f.Type() != desc.Fields[i].Ftype {
			return nil, GoDBError{TypeMismatchError, "field type does not match tuple descriptor"}
		}
	}
	return &Tuple{Desc: desc, Fields: fields}, nil
}

// setField overwrites field i, enforcing that the replacement's type
// matches the schema (spec.md §3).
func (t *Tuple) setField(i int, f DBValue) error {
	if i < 0 || i >= len(t.Fields) {
		return GoDBError{TupleNotFoundError, "field index out of range"}
	}
	if f.Type() != t.Desc.Fields[i].Ftype {
		return GoDBError{TypeMismatchError, "replacement field type does not match tuple descriptor"}
	}
	t.Fields[i] = f
	return nil
}

// equals compares two tuples by schema and field values; RecordId is not
// part of equality (spec.md §3).
func (t *Tuple) equals(other *Tuple) bool {
	if other == nil || !t.Desc.equals(&other.Desc) || len(t.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range t.Fields {
		if !f.EvalPred(other.Fields[i], OpEq) {
			return false
		}
	}
	return true
}

// writeTo encodes this tuple's fields, in schema order, to w.
func (t *Tuple) writeTo(w io.Writer) error {
	for _, f := range t.Fields {
		if err := f.writeTo(w); err != nil {
			return err
		}
	}
	return nil
}

// readTupleFrom decodes one tuple of schema desc from r.
func readTupleFrom(r io.Reader, desc *TupleDesc) (*Tuple, error) {
	fields := make([]DBValue, len(desc.Fields))
	for i, ft := range desc.Fields {
		v, err := readField(r, ft.Ftype)
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	return &Tuple{Desc: *desc, Fields: fields}, nil
}

// project returns a new tuple containing only the values of exprs,
// evaluated against t, with each expression's GetExprType describing the
// corresponding field of the output schema.
func (t *Tuple) project(exprs []Expr) (*Tuple, error) {
	fields := make([]FieldType, len(exprs))
	values := make([]DBValue, len(exprs))
	for i, e := range exprs {
		v, err := e.EvalExpr(t)
		if err != nil {
			return nil, err
		}
		fields[i] = e.GetExprType()
		values[i] = v
	}
	return &Tuple{Desc: TupleDesc{Fields: fields}, Fields: values}, nil
}

// joinTuples concatenates two tuples' fields and schemas (merge), used by
// Join to build an output row.
func joinTuples(left, right *Tuple) *Tuple {
	desc := left.Desc.merge(&right.Desc)
	fields := make([]DBValue, 0, len(left.Fields)+len(right.Fields))
	fields = append(fields, left.Fields...)
	fields = append(fields, right.Fields...)
	return &Tuple{Desc: *desc, Fields: fields}
}

// orderByState is the three-way result of comparing two tuples on one
// ordering expression.
type orderByState int

const (
	OrderedLessThan orderByState = iota
	OrderedEqual
	OrderedGreaterThan
)

// compareField evaluates expr against t and other and returns their
// relative order.
func (t *Tuple) compareField(other *Tuple, expr Expr) (orderByState, error) {
	lv, err := expr.EvalExpr(t)
	if err != nil {
		return OrderedEqual, err
	}
	rv, err := expr.EvalExpr(other)
	if err != nil {
		return OrderedEqual, err
	}
	switch {
	case lv.EvalPred(rv, OpEq):
		return OrderedEqual, nil
	case lv.EvalPred(rv, OpLt):
		return OrderedLessThan, nil
	default:
		return OrderedGreaterThan, nil
	}
}

// bytesEqual reports whether two raw byte encodings are identical.
func bytesEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}
