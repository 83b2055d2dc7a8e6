package engine

import "fmt"

// FieldType names one column of a TupleDesc: its declared Type and an
// optional name. TableQualifier is the "alias." prefix SeqScan attaches to
// every field name it emits (spec.md §4.4).
type FieldType struct {
	Fname          string
	TableQualifier string
	Ftype          Type
}

// fullName returns "qualifier.name" when a qualifier is set, else just name.
func (f FieldType) fullName() string {
	if f.TableQualifier == "" {
		return f.Fname
	}
	return f.TableQualifier + "." + f.Fname
}

// TupleDesc is a non-empty ordered sequence of FieldTypes describing a
// Tuple's schema (spec.md §3).
type TupleDesc struct {
	Fields []FieldType
}

// NewTupleDesc builds a TupleDesc from parallel types/names slices.
func NewTupleDesc(types []Type, names []string) (*TupleDesc, error) {
	if len(types) == 0 {
		return nil, GoDBError{MalformedDataError, "TupleDesc must have at least one field"}
	}
	if names != nil && len(names) != len(types) {
		return nil, GoDBError{MalformedDataError, "types and names must have the same length"}
	}
	fields := make([]FieldType, len(types))
	for i, t := range types {
		name := ""
		if names != nil {
			name = names[i]
		}
		fields[i] = FieldType{Fname: name, Ftype: t}
	}
	return &TupleDesc{Fields: fields}, nil
}

// size is the sum of the fixed wire widths of this schema's types
// (spec.md §3's "size() equals the sum of fixed widths of its types").
func (td *TupleDesc) size() int {
	total := 0
	for _, f := range td.Fields {
		total += f.Ftype.bytesOnWire()
	}
	return total
}

func (td *TupleDesc) bytesPerTuple() int {
	n := td.size()
	if n == 0 {
		return 1
	}
	return n
}

// equals compares two TupleDescs by field type only, in order; names are
// ignored (spec.md §3).
func (td *TupleDesc) equals(other *TupleDesc) bool {
	if other == nil || len(td.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range td.Fields {
		if f.Ftype != other.Fields[i].Ftype {
			return false
		}
	}
	return true
}

// merge concatenates two TupleDescs' field lists, in order.
func (td *TupleDesc) merge(other *TupleDesc) *TupleDesc {
	fields := make([]FieldType, 0, len(td.Fields)+len(other.Fields))
	fields = append(fields, td.Fields...)
	fields = append(fields, other.Fields...)
	return &TupleDesc{Fields: fields}
}

// copyWithQualifier returns a copy of td with every field's TableQualifier
// set to qualifier, used by SeqScan to prefix field names with its alias.
func (td *TupleDesc) copyWithQualifier(qualifier string) *TupleDesc {
	fields := make([]FieldType, len(td.Fields))
	for i, f := range td.Fields {
		f.TableQualifier = qualifier
		fields[i] = f
	}
	return &TupleDesc{Fields: fields}
}

// fieldNameToIndex returns the index of the first field whose (optionally
// qualified) name matches name, or an error if none matches.
func (td *TupleDesc) fieldNameToIndex(name string) (int, error) {
	for i, f := range td.Fields {
		if f.Fname == name || f.fullName() == name {
			return i, nil
		}
	}
	return -1, GoDBError{TupleNotFoundError, fmt.Sprintf("field %q not found in tuple descriptor", name)}
}

// FieldNameToIndex is the exported form of fieldNameToIndex, used by query
// frontends (e.g. the sql package) resolving column references outside the
// engine package.
func (td *TupleDesc) FieldNameToIndex(name string) (int, error) {
	return td.fieldNameToIndex(name)
}
