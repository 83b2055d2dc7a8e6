package engine

// SeqScan reads every tuple of one table, in on-disk order, through the
// buffer pool. Its output schema prefixes every field name with
// "alias." (spec.md §4.4).
type SeqScan struct {
	file  DbFile
	alias string
	desc  *TupleDesc
}

// NewSeqScan constructs a scan of file, naming its output fields
// "alias.<field>".
func NewSeqScan(file DbFile, alias string) *SeqScan {
	return &SeqScan{
		file:  file,
		alias: alias,
		desc:  file.Descriptor().copyWithQualifier(alias),
	}
}

func (s *SeqScan) Descriptor() *TupleDesc { return s.desc }

func (s *SeqScan) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	inner, err := s.file.Iterator(tid)
	if err != nil {
		return nil, err
	}
	desc := s.desc
	return func() (*Tuple, error) {
		t, err := inner()
		if err != nil || t == nil {
			return nil, err
		}
		out := &Tuple{Desc: *desc, Fields: t.Fields, Rid: t.Rid}
		return out, nil
	}, nil
}

func (s *SeqScan) Children() []Operator { return nil }

func (s *SeqScan) SetChildren(children []Operator) error {
	return requireChildren(children, 0)
}
