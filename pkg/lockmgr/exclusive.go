package lockmgr

import (
	"ccproc/pkg/kv"
	"ccproc/pkg/txn"
)

// ExclusiveMgr is the LOCKING_EXCLUSIVE_ONLY variant: every ReadLock and
// WriteLock call appends an EXCLUSIVE request, granted iff it is at the
// head of its key's queue. It is the Go counterpart of the original
// LockManagerA.
type ExclusiveMgr struct {
	queues  map[kv.Key][]*request
	waiting map[*txn.Transaction]int
}

// NewExclusive builds an empty exclusive-only lock table. It is driven
// exclusively by the scheduler loop (spec.md §5) and needs no internal
// synchronization.
func NewExclusive() *ExclusiveMgr {
	return &ExclusiveMgr{
		queues:  make(map[kv.Key][]*request),
		waiting: make(map[*txn.Transaction]int),
	}
}

func (m *ExclusiveMgr) WriteLock(t *txn.Transaction, key kv.Key) bool {
	return m.lock(t, key)
}

func (m *ExclusiveMgr) ReadLock(t *txn.Transaction, key kv.Key) bool {
	// Part 1A of the original assignment: with only exclusive locks
	// available, ReadLock has no weaker mode to fall back to.
	return m.lock(t, key)
}

func (m *ExclusiveMgr) lock(t *txn.Transaction, key kv.Key) bool {
	q := m.queues[key]
	r := &request{mode: Exclusive, txn: t}
	granted := len(q) == 0
	r.granted = granted
	m.queues[key] = append(q, r)
	if !granted {
		m.waiting[t]++
	}
	return granted
}

func (m *ExclusiveMgr) Release(t *txn.Transaction, key kv.Key) []*txn.Transaction {
	q := m.queues[key]
	idx := indexOf(q, t)
	if idx < 0 {
		return nil
	}
	wasHead := idx == 0
	q = append(q[:idx], q[idx+1:]...)
	m.queues[key] = q

	if !wasHead || len(q) == 0 {
		return nil
	}

	// The new head is the only request that can possibly be newly
	// grantable: at most one EXCLUSIVE owner exists at a time.
	newHead := q[0]
	if newHead.granted {
		return nil
	}
	newHead.granted = true
	m.waiting[newHead.txn]--
	if m.waiting[newHead.txn] == 0 {
		return []*txn.Transaction{newHead.txn}
	}
	return nil
}

func (m *ExclusiveMgr) Status(key kv.Key) (Mode, []*txn.Transaction) {
	q := m.queues[key]
	if len(q) == 0 {
		return Exclusive, nil
	}
	return Exclusive, []*txn.Transaction{q[0].txn}
}

func indexOf(q []*request, t *txn.Transaction) int {
	for i, r := range q {
		if r.txn == t {
			return i
		}
	}
	return -1
}

var _ Manager = (*ExclusiveMgr)(nil)
