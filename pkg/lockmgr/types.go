// Package lockmgr implements the two lock-manager variants spec.md §4.2
// describes: LOCKING_EXCLUSIVE_ONLY's exclusive-only table and LOCKING's
// shared/exclusive table. Both encode deterministic, FIFO, deadlock-free
// two-phase locking: a transaction places every lock request it will ever
// need before it is allowed to wait on any of them, so the arrival order
// on each per-key queue is a total lock-acquisition order and no cycle of
// waits can form.
//
// Grounded on _examples/original_source/txn/lock_manager.cc (the
// LockManagerA / LockManagerB split) with the corrected wait-counter and
// wakeup semantics spec.md §4.2 and §9 call for, expressed in the
// teacher's map-of-owned-queues style (pkg/e_waitmgr, pkg/d_waitmgr).
package lockmgr

import (
	"ccproc/pkg/kv"
	"ccproc/pkg/txn"
)

// Mode is a lock request's mode.
type Mode int

const (
	Shared Mode = iota
	Exclusive
)

func (m Mode) String() string {
	if m == Exclusive {
		return "EXCLUSIVE"
	}
	return "SHARED"
}

// request is one entry on a per-key queue. granted mirrors whether this
// request currently holds the lock; it lets Release tell a wakeup
// (not-granted -> granted transition) from a request that was already
// holding the lock, without rescanning wait counters.
type request struct {
	mode    Mode
	txn     *txn.Transaction
	granted bool
}

// Manager is the lock-table interface the scheduler drives during admit
// (ReadLock/WriteLock) and finalize (Release).
type Manager interface {
	// ReadLock requests a read lock for t on key, returning true iff it
	// was granted immediately.
	ReadLock(t *txn.Transaction, key kv.Key) bool
	// WriteLock requests a write lock for t on key, returning true iff it
	// was granted immediately.
	WriteLock(t *txn.Transaction, key kv.Key) bool
	// Release removes t's request for key, whether it holds the lock or
	// is still waiting (a missing request is a no-op), and runs the
	// wakeup rule, returning any transactions whose wait counter just
	// reached zero.
	Release(t *txn.Transaction, key kv.Key) []*txn.Transaction
	// Status reports key's current lock mode and owning transactions.
	Status(key kv.Key) (Mode, []*txn.Transaction)
}
