package sql

import "heapdb/engine"

// literalSource is a zero-arity Operator that replays an in-memory slice of
// tuples, used as the child of an Insert built from a `VALUES (...)` clause.
type literalSource struct {
	desc   *engine.TupleDesc
	tuples []*engine.Tuple
}

func (l *literalSource) Descriptor() *engine.TupleDesc { return l.desc }

func (l *literalSource) Iterator(tid engine.TransactionID) (func() (*engine.Tuple, error), error) {
	idx := 0
	return func() (*engine.Tuple, error) {
		if idx >= len(l.tuples) {
			return nil, nil
		}
		t := l.tuples[idx]
		idx++
		return t, nil
	}, nil
}

func (l *literalSource) Children() []engine.Operator { return nil }

func (l *literalSource) SetChildren(children []engine.Operator) error {
	if len(children) != 0 {
		return engine.GoDBError{Code: engine.MalformedDataError, Msg: "literalSource takes no children"}
	}
	return nil
}
