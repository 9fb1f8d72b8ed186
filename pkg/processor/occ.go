package processor

import "ccproc/pkg/txn"

// runOCC is classical (serial-validated) OCC: admit dispatches straight
// to the worker pool after stamping occ_start_time; validation runs
// inline in the scheduler goroutine against storage timestamps for both
// readset and writeset (spec.md §4.1's OCC paragraph — unlike P_OCC,
// there is no active set to intersect against here, so both sets are
// checked directly).
func (p *Processor) runOCC() {
	for p.pool.Active() {
		if t, ok := p.requests.TryPop(); ok {
			t.OCCStartTime = p.clock.Now()
			tt := t
			p.pool.RunTask(func() {
				p.exec.Execute(tt)
				p.completions.Push(tt)
			})
		}

		for {
			t, ok := p.completions.TryPop()
			if !ok {
				break
			}

			if t.Status != txn.CompletedCommit {
				// Intentional abort (or a fatal bad status, caught by
				// finalize) needs no validation.
				p.finalize(t)
				continue
			}

			if p.occValidated(t) {
				p.finalize(t)
			} else {
				p.requeue(t)
			}
		}
	}
}

// occValidated reports whether every key in t's readset and writeset
// still has the last-write timestamp it had at t.OCCStartTime.
func (p *Processor) occValidated(t *txn.Transaction) bool {
	for key := range t.ReadSet {
		if p.storage.Timestamp(key) > t.OCCStartTime {
			return false
		}
	}
	for key := range t.WriteSet {
		if p.storage.Timestamp(key) > t.OCCStartTime {
			return false
		}
	}
	return true
}
