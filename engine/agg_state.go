package engine

import "strconv"

// AggType names the five aggregate functions spec.md §4.4 requires.
type AggType int

const (
	CountAgg AggType = iota
	SumAgg
	AvgAgg
	MinAgg
	MaxAgg
)

func (a AggType) String() string {
	switch a {
	case CountAgg:
		return "count"
	case SumAgg:
		return "sum"
	case AvgAgg:
		return "avg"
	case MinAgg:
		return "min"
	case MaxAgg:
		return "max"
	default:
		return "unknown"
	}
}

// AggState accumulates one aggregate value across a group of tuples. Each
// concrete state is grounded on the teacher's lab1_solution/godb/agg_state.go
// family (CountAggState, SumAggState, ...), adapted to the simpler
// (afield, op) shape spec.md §4.4 describes -- no explicit group value is
// carried here, since Aggregate partitions tuples by group key before
// handing each partition its own fresh AggState.
type AggState interface {
	// AddTuple folds one tuple's afield value into the running state.
	AddTuple(t *Tuple) error
	// Finalize returns the accumulated result as a single field.
	Finalize() DBValue
	// Copy returns a fresh, zeroed AggState of the same kind.
	Copy() AggState
}

type countAggState struct {
	afield int
	count  int64
}

func (s *countAggState) AddTuple(t *Tuple) error {
	s.count++
	return nil
}
func (s *countAggState) Finalize() DBValue { return IntField{Value: s.count} }
func (s *countAggState) Copy() AggState    { return &countAggState{afield: s.afield} }

type sumAggState struct {
	afield int
	sum    int64
}

func (s *sumAggState) AddTuple(t *Tuple) error {
	v, err := intFieldValue(t, s.afield)
	if err != nil {
		return err
	}
	s.sum += v
	return nil
}
func (s *sumAggState) Finalize() DBValue { return IntField{Value: s.sum} }
func (s *sumAggState) Copy() AggState    { return &sumAggState{afield: s.afield} }

type avgAggState struct {
	afield int
	sum    int64
	count  int64
}

func (s *avgAggState) AddTuple(t *Tuple) error {
	v, err := intFieldValue(t, s.afield)
	if err != nil {
		return err
	}
	s.sum += v
	s.count++
	return nil
}
func (s *avgAggState) Finalize() DBValue {
	if s.count == 0 {
		return IntField{Value: 0}
	}
	return IntField{Value: s.sum / s.count}
}
func (s *avgAggState) Copy() AggState { return &avgAggState{afield: s.afield} }

type minAggState struct {
	afield int
	min    int64
	set    bool
}

func (s *minAggState) AddTuple(t *Tuple) error {
	v, err := intFieldValue(t, s.afield)
	if err != nil {
		return err
	}
	if !s.set || v < s.min {
		s.min = v
		s.set = true
	}
	return nil
}
func (s *minAggState) Finalize() DBValue { return IntField{Value: s.min} }
func (s *minAggState) Copy() AggState    { return &minAggState{afield: s.afield} }

type maxAggState struct {
	afield int
	max    int64
	set    bool
}

func (s *maxAggState) AddTuple(t *Tuple) error {
	v, err := intFieldValue(t, s.afield)
	if err != nil {
		return err
	}
	if !s.set || v > s.max {
		s.max = v
		s.set = true
	}
	return nil
}
func (s *maxAggState) Finalize() DBValue { return IntField{Value: s.max} }
func (s *maxAggState) Copy() AggState    { return &maxAggState{afield: s.afield} }

// intFieldValue extracts the int64 value of field afield, coercing a
// StringField via strconv as a last resort so MIN/MAX/SUM/AVG over a
// numeric-looking string column still work (the teacher's AggState family
// makes the same allowance).
func intFieldValue(t *Tuple, afield int) (int64, error) {
	switch f := t.Fields[afield].(type) {
	case IntField:
		return f.Value, nil
	case StringField:
		n, err := strconv.ParseInt(f.Value, 10, 64)
		if err != nil {
			return 0, GoDBError{TypeMismatchError, "cannot aggregate non-numeric string field"}
		}
		return n, nil
	default:
		return 0, GoDBError{TypeMismatchError, "unsupported aggregate field type"}
	}
}

// newAggState builds a fresh, empty AggState for op over field afield.
// COUNT is valid over any field type; SUM/AVG/MIN/MAX require a numeric (or
// numeric-string) field, enforced lazily in AddTuple.
func newAggState(op AggType, afield int) (AggState, error) {
	switch op {
	case CountAgg:
		return &countAggState{afield: afield}, nil
	case SumAgg:
		return &sumAggState{afield: afield}, nil
	case AvgAgg:
		return &avgAggState{afield: afield}, nil
	case MinAgg:
		return &minAggState{afield: afield}, nil
	case MaxAgg:
		return &maxAggState{afield: afield}, nil
	default:
		return nil, GoDBError{MalformedDataError, "unknown aggregate operator"}
	}
}
