// Package executor implements the transaction executor spec.md §4.3
// describes: prefetch reads, run the client's program, buffer writes.
// It never touches storage for writes — applying writes is the
// scheduler's job, and only happens once the concurrency-control regime
// has certified the attempt.
//
// Grounded on _examples/original_source/txn/txn_processor.cc's
// ExecuteTxn and the teacher's own executor shape
// (pkg/d_executor.go, pkg/txn/e_executor.go).
package executor

import (
	"ccproc/pkg/storage"
	"ccproc/pkg/txn"
)

// Executor runs one transaction attempt to completion.
type Executor struct {
	storage storage.Storage
}

// New builds an Executor that prefetches from store.
func New(store storage.Storage) *Executor {
	return &Executor{storage: store}
}

// Execute prefetches every key in t's readset and writeset and runs t's
// program. The caller (the scheduler, via a worker pool) is responsible
// for pushing t onto the completion queue afterward.
func (e *Executor) Execute(t *txn.Transaction) {
	e.prefetch(t.ReadSet, t)
	e.prefetch(t.WriteSet, t)

	t.Program.Run(t)
}

func (e *Executor) prefetch(keys txn.KeySet, t *txn.Transaction) {
	for key := range keys {
		if val, ok := e.storage.Read(key); ok {
			t.Reads[key] = val
		}
	}
}
