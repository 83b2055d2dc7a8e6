package engine

import (
	"testing"

	"github.com/d4l3k/messagediff"
)

func TestTupleProjectAndJoin(t *testing.T) {
	desc := testDesc(t)
	left := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "a"}}}
	right := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: 2}, StringField{Value: "b"}}}

	joined := joinTuples(left, right)
	want := &Tuple{
		Desc:   *desc.merge(desc),
		Fields: []DBValue{IntField{Value: 1}, StringField{Value: "a"}, IntField{Value: 2}, StringField{Value: "b"}},
	}

	if diff, equal := messagediff.PrettyDiff(want, joined); !equal {
		t.Errorf("joinTuples() mismatch:\n%s", diff)
	}
}

func TestTupleEqualsIgnoresRecordId(t *testing.T) {
	desc := testDesc(t)
	a := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "x"}}, Rid: &RecordId{SlotNo: 0}}
	b := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "x"}}, Rid: &RecordId{SlotNo: 7}}

	if !a.equals(b) {
		t.Error("equals() should ignore RecordId")
	}
}
