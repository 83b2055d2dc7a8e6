package engine

import "sync/atomic"

// TransactionID names the transaction on whose behalf a page is read,
// written, or dirtied. Transaction/lock management itself is out of scope
// for this engine (spec.md §1); TransactionID is the hook a concurrency
// control manager would hang its lock table off of (spec.md §4.3, §5).
type TransactionID int64

// NoTransaction is the empty TransactionID, used for pages that are not
// dirty (spec.md §3's "markDirty ... isDirty() returns the tid or an empty
// value").
const NoTransaction TransactionID = -1

var nextTID int64

// NewTID allocates a fresh, process-unique TransactionID.
func NewTID() TransactionID {
	return TransactionID(atomic.AddInt64(&nextTID, 1))
}
