// Package processor implements the transaction scheduler spec.md §4.1
// and §6 describe: the external Processor API (NewTxnRequest,
// GetTxnResult), and the single scheduler goroutine that runs one of the
// five concurrency-control regimes for the processor's lifetime.
//
// Grounded directly on _examples/original_source/txn/txn_processor.cc's
// TxnProcessor, carrying over its THREAD_COUNT/QUEUE_COUNT and N/M
// tuning constants as DefaultWorkers/DefaultValidationBatch, and on the
// teacher's own single-goroutine, channel-driven scheduler shape
// (pkg/c_scheduler/a_scheduler.go's TxnScheduler.Run/process loop).
package processor

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"ccproc/pkg/executor"
	"ccproc/pkg/kv"
	"ccproc/pkg/lockmgr"
	"ccproc/pkg/occvalidate"
	"ccproc/pkg/queue"
	"ccproc/pkg/storage"
	"ccproc/pkg/txn"
	"ccproc/pkg/watermark"
	"ccproc/pkg/workerpool"
)

const (
	// DefaultWorkers mirrors the original's THREAD_COUNT.
	DefaultWorkers = workerpool.DefaultWorkers
	// DefaultValidationBatch mirrors the original's N and M: the number
	// of completions drained per P_OCC scheduler iteration before the
	// loop goes back to admitting new requests (spec.md §4.1).
	DefaultValidationBatch = 200
	// resultPollInterval is GetTxnResult's busy-poll sleep, matching the
	// original's sleep(0.000001) (spec.md §5, §9 supplement 4).
	resultPollInterval = time.Microsecond
)

type validated struct {
	t        *txn.Transaction
	verified bool
}

// Processor runs user-supplied transactions against an in-memory key/value
// store under a selected concurrency-control regime.
type Processor struct {
	mode    Mode
	storage storage.Storage
	clock   *kv.Clock
	pool    *workerpool.Pool

	lockMgr   lockmgr.Manager // nil outside the two locking modes
	exec      *executor.Executor
	validator *occvalidate.Validator

	// mu guards nextID and the request queue together, so that
	// unique_id order and request-queue arrival order always agree
	// (spec.md §5: "a mutex around the next_unique_id_ and
	// request-queue combination").
	mu     sync.Mutex
	nextID uint64

	requests    *queue.Queue[*txn.Transaction]
	completions *queue.Queue[*txn.Transaction]
	validations *queue.Queue[validated]
	results     *queue.Queue[*txn.Transaction]

	watermark *watermark.Mark

	validationBatch int
}

// New builds a Processor in the given mode and starts its scheduler
// goroutine. Workers is the worker pool size; 0 selects DefaultWorkers.
// validationBatch overrides DefaultValidationBatch (the P_OCC draining
// bound, spec.md §4.1's N/M) when a positive value is passed; it is
// variadic, not a required parameter, so existing two-argument call
// sites keep compiling unchanged.
func New(mode Mode, workers int, validationBatch ...int) *Processor {
	clock := kv.NewClock()
	store := storage.NewInMemory(clock)

	batch := DefaultValidationBatch
	if len(validationBatch) > 0 && validationBatch[0] > 0 {
		batch = validationBatch[0]
	}

	p := &Processor{
		mode:            mode,
		storage:         store,
		clock:           clock,
		pool:            workerpool.New(workers),
		exec:            executor.New(store),
		validator:       occvalidate.New(store),
		requests:        queue.New[*txn.Transaction](1024),
		completions:     queue.New[*txn.Transaction](1024),
		validations:     queue.New[validated](1024),
		results:         queue.New[*txn.Transaction](1024),
		watermark:       watermark.New(),
		validationBatch: batch,
	}

	switch mode {
	case LockingExclusiveOnly:
		p.lockMgr = lockmgr.NewExclusive()
	case Locking:
		p.lockMgr = lockmgr.NewSharedExclusive()
	}

	log.WithField("mode", mode).Info("processor: starting")
	go p.RunScheduler()
	return p
}

// Storage exposes the backing store, mainly so callers can seed initial
// state (e.g. the Put/Expect round-trip laws in spec.md §8) and read it
// back after a workload has drained.
func (p *Processor) Storage() storage.Storage {
	return p.storage
}

// NewTxnRequest assigns t a unique_id (strictly greater than any
// previously assigned one, invariant 1 and invariant 5) and enqueues it.
// It is non-blocking and safe to call from any goroutine.
func (p *Processor) NewTxnRequest(t *txn.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	t.UniqueID = p.nextID
	p.watermark.Begin(t.UniqueID)
	p.requests.Push(t)
}

// requeue restarts t (invariant 5: fresh attempt, same unique_id) and
// puts it back on the request queue. Unlike NewTxnRequest it must not
// assign a new unique_id or re-begin its watermark entry: identity is
// preserved across an OCC/P_OCC validation restart.
func (p *Processor) requeue(t *txn.Transaction) {
	t.Restart()
	p.requests.Push(t)
}

// GetTxnResult blocks until any transaction has finished, matching the
// original's non-blocking poll with a short sleep (spec.md §5).
func (p *Processor) GetTxnResult() *txn.Transaction {
	for {
		if t, ok := p.results.TryPop(); ok {
			return t
		}
		time.Sleep(resultPollInterval)
	}
}

// Stop stops accepting scheduler work and drains the worker pool. It
// does not wait for in-flight client requests to finish.
func (p *Processor) Stop() {
	p.pool.Stop()
}

// RunScheduler dispatches to the mode-specific loop. Unlike the original
// C++ switch (whose cases fell through without break statements, spec.md
// §9), each mode below is entered through its own case and returns only
// when the worker pool stops.
func (p *Processor) RunScheduler() {
	switch p.mode {
	case Serial:
		p.runSerial()
	case LockingExclusiveOnly, Locking:
		p.runLocking()
	case OCC:
		p.runOCC()
	case ParallelOCC:
		p.runParallelOCC()
	}
}

// finalize applies spec.md's commit/abort rule to a transaction whose
// Run() has returned: COMPLETED_C applies writes and becomes COMMITTED,
// COMPLETED_A becomes ABORTED with writes discarded, anything else is
// the fatal "user program misuse" case of §7.
func (p *Processor) finalize(t *txn.Transaction) {
	switch t.Status {
	case txn.CompletedCommit:
		storage.Apply(p.storage, t.Writes)
		t.Status = txn.Committed
	case txn.CompletedAbort:
		t.Status = txn.Aborted
	default:
		log.WithFields(log.Fields{
			"unique_id": t.UniqueID,
			"status":    t.Status,
			"error":     txn.ErrNotClosed,
		}).Fatal("processor: completed transaction has invalid status")
	}
	p.watermark.Done(t.UniqueID)
	p.results.Push(t)
}
