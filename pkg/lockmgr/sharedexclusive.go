package lockmgr

import (
	"ccproc/pkg/kv"
	"ccproc/pkg/txn"
)

// SharedExclusive is the LOCKING variant: WriteLock appends an EXCLUSIVE
// request granted iff at the head of the queue; ReadLock appends a
// SHARED request granted iff no EXCLUSIVE request precedes it
// (equivalently, the prefix up to and including it is all SHARED). It is
// the Go counterpart of the original LockManagerB, whose body was left
// unimplemented ("Implement this method!") in
// _examples/original_source/txn/lock_manager.cc — filled in here per the
// deterministic-2PL wakeup rule spec.md §4.2 specifies.
type SharedExclusive struct {
	queues  map[kv.Key][]*request
	waiting map[*txn.Transaction]int
}

func NewSharedExclusive() *SharedExclusive {
	return &SharedExclusive{
		queues:  make(map[kv.Key][]*request),
		waiting: make(map[*txn.Transaction]int),
	}
}

func (m *SharedExclusive) WriteLock(t *txn.Transaction, key kv.Key) bool {
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

func (m *SharedExclusive) ReadLock(t *txn.Transaction, key kv.Key) bool {
	q := m.queues[key]
	granted := true
	for _, existing := range q {
		if existing.mode == Exclusive {
			granted = false
			break
		}
	}
	r := &request{mode: Shared, txn: t, granted: granted}
	m.queues[key] = append(q, r)
	if !granted {
		m.waiting[t]++
	}
	return granted
}

// Release removes t's request for key and wakes up whichever prefix of
// the queue just became runnable: a single EXCLUSIVE request that moved
// to the head, or a run of SHARED requests that is no longer blocked by
// a departed EXCLUSIVE.
func (m *SharedExclusive) Release(t *txn.Transaction, key kv.Key) []*txn.Transaction {
	q := m.queues[key]
	idx := indexOf(q, t)
	if idx < 0 {
		return nil
	}
	q = append(q[:idx], q[idx+1:]...)
	m.queues[key] = q

	var woken []*txn.Transaction
	for i, r := range q {
		if r.mode == Exclusive {
			// An EXCLUSIVE request is grantable only at the literal
			// head: every earlier request (granted or not) must have
			// already departed.
			if i == 0 && !r.granted {
				r.granted = true
				m.wake(r.txn, &woken)
			}
			break
		}
		if !r.granted {
			r.granted = true
			m.wake(r.txn, &woken)
		}
		// Keep scanning: further SHARED requests behind this one may
		// also be newly runnable.
	}
	return woken
}

func (m *SharedExclusive) wake(t *txn.Transaction, woken *[]*txn.Transaction) {
	m.waiting[t]--
	if m.waiting[t] == 0 {
		*woken = append(*woken, t)
	}
}

func (m *SharedExclusive) Status(key kv.Key) (Mode, []*txn.Transaction) {
	q := m.queues[key]
	if len(q) == 0 {
		return Shared, nil
	}
	if q[0].mode == Exclusive {
		return Exclusive, []*txn.Transaction{q[0].txn}
	}
	var owners []*txn.Transaction
	for _, r := range q {
		if r.mode != Shared {
			break
		}
		owners = append(owners, r.txn)
	}
	return Shared, owners
}

var _ Manager = (*SharedExclusive)(nil)
