package processor

import "ccproc/pkg/txn"

// runLocking drives both LOCKING_EXCLUSIVE_ONLY and LOCKING: the lock
// manager implementation (p.lockMgr) is the only thing that differs
// between the two, per spec.md §4.2. Each iteration runs admit,
// finalize and dispatch in that order (spec.md §4.1).
func (p *Processor) runLocking() {
	for p.pool.Active() {
		var ready []*txn.Transaction

		// Admit: pop at most one new request; request exactly one lock
		// per declared key, since a transaction may appear at most once
		// per key's queue (spec.md §4.2). A key declared in both readset
		// and writeset only ever takes the write lock — it subsumes read
		// access — because requesting both would enqueue two entries for
		// the same transaction on the same key: the second entry could
		// only be granted once the transaction finishes running, which
		// itself requires the second entry to already be granted, so the
		// transaction would self-deadlock forever.
		if t, ok := p.requests.TryPop(); ok {
			blocked := 0
			for key := range t.ReadSet {
				if t.WriteSet.Contains(key) {
					continue
				}
				if !p.lockMgr.ReadLock(t, key) {
					blocked++
				}
			}
			for key := range t.WriteSet {
				if !p.lockMgr.WriteLock(t, key) {
					blocked++
				}
			}
			if blocked == 0 {
				ready = append(ready, t)
			}
		}

		// Finalize: drain the completion queue; release every lock the
		// finished transaction held, once per declared key (the union of
		// readset and writeset, matching admit's one-lock-per-key rule
		// above), collecting whichever waiters that unblocks, then
		// commit/abort and post.
		for {
			t, ok := p.completions.TryPop()
			if !ok {
				break
			}
			for key := range t.ReadSet.Union(t.WriteSet) {
				ready = append(ready, p.lockMgr.Release(t, key)...)
			}
			p.finalize(t)
		}

		// Dispatch: hand every newly-ready transaction to the worker
		// pool, in lock-acquisition-completion order, not submission
		// order.
		for _, rt := range ready {
			rt := rt
			p.pool.RunTask(func() {
				p.exec.Execute(rt)
				p.completions.Push(rt)
			})
		}
	}
}
