package processor

import (
	log "github.com/sirupsen/logrus"

	"ccproc/pkg/txn"
)

// runParallelOCC offloads validation to the worker pool. Completions and
// validated results are drained in bounded batches (spec.md §4.1,
// DefaultValidationBatch) so the scheduler stays responsive to new
// admissions under burst load, instead of draining either queue
// unboundedly before moving on. The active set is owned exclusively by
// this goroutine; validators only ever see an immutable snapshot of it
// (Design Notes §9), so no locking is needed around it.
func (p *Processor) runParallelOCC() {
	active := make(map[*txn.Transaction]struct{})

	for p.pool.Active() {
		if t, ok := p.requests.TryPop(); ok {
			t.OCCStartTime = p.clock.Now()
			tt := t
			p.pool.RunTask(func() {
				p.exec.Execute(tt)
				p.completions.Push(tt)
			})
		}

		for i := 0; i < p.validationBatch; i++ {
			t, ok := p.completions.TryPop()
			if !ok {
				break
			}

			snapshot := make([]*txn.Transaction, 0, len(active))
			for at := range active {
				snapshot = append(snapshot, at)
			}
			active[t] = struct{}{}

			tt := t
			p.pool.RunTask(func() {
				verified := p.validator.Validate(tt, snapshot)
				p.validations.Push(validated{t: tt, verified: verified})
			})
		}

		for i := 0; i < p.validationBatch; i++ {
			v, ok := p.validations.TryPop()
			if !ok {
				break
			}
			delete(active, v.t)
			if !v.verified {
				p.requeue(v.t)
				continue
			}
			p.commitValidated(v.t)
		}
	}
}

// commitValidated records the outcome of a transaction the validator has
// already certified: it has already applied writes to storage (or is an
// intentional abort), so only the status transition and result posting
// remain.
func (p *Processor) commitValidated(t *txn.Transaction) {
	switch t.Status {
	case txn.CompletedCommit:
		t.Status = txn.Committed
	case txn.CompletedAbort:
		t.Status = txn.Aborted
	default:
		log.WithFields(log.Fields{
			"unique_id": t.UniqueID,
			"status":    t.Status,
			"error":     txn.ErrNotClosed,
		}).Fatal("processor: validated transaction has invalid status")
	}
	p.watermark.Done(t.UniqueID)
	p.results.Push(t)
}
