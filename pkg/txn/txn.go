package txn

import "ccproc/pkg/kv"

// Program is implemented by clients: it is the `Run` body spec.md §6
// describes. Run must read through t.Read, buffer writes through
// t.Write, and close with exactly one of t.Commit or t.Abort before
// returning. Returning without doing so is a fatal programming error
// (spec.md §7) that the scheduler reports, with ErrNotClosed, through a
// fatal log entry.
type Program interface {
	Run(t *Transaction)
}

// Transaction is the entity the scheduler manipulates (spec.md §3). It is
// always referenced by pointer: pointer identity is the stable handle
// invariant 1 and the Design Notes (§9) call for, so the lock manager and
// active-set bookkeeping can key maps on *Transaction directly.
type Transaction struct {
	// UniqueID is assigned once, by the processor, in NewTxnRequest call
	// order (invariant 1); it is preserved across restarts (invariant 5).
	UniqueID uint64

	// ReadSet and WriteSet are finalized by the client before the
	// transaction reaches the processor (invariant 2) and never mutated
	// afterward, including across restarts.
	ReadSet  KeySet
	WriteSet KeySet

	// Reads holds the prefetched values the executor populated for every
	// key in ReadSet ∪ WriteSet that existed in storage.
	Reads map[kv.Key]kv.Value
	// Writes holds the values Run buffered; the scheduler applies them
	// to storage only after the CC regime certifies the transaction.
	Writes map[kv.Key]kv.Value

	Status Status

	// OCCStartTime is stamped by the scheduler at admission under OCC
	// and P_OCC; it defines the transaction's observation window.
	OCCStartTime kv.Timestamp

	// Program is the client-supplied Run body, preserved across restarts
	// (invariant 5) so that a restart can re-run the identical logic.
	Program Program
}

// New declares a transaction with the given read/write sets and program.
// unique_id is left zero; the processor assigns it on NewTxnRequest.
func New(readSet, writeSet KeySet, program Program) *Transaction {
	t := &Transaction{
		ReadSet:  readSet,
		WriteSet: writeSet,
		Program:  program,
	}
	t.reset()
	return t
}

// reset clears per-attempt state, used both by New and by Restart.
func (t *Transaction) reset() {
	t.Reads = make(map[kv.Key]kv.Value)
	t.Writes = make(map[kv.Key]kv.Value)
	t.Status = Incomplete
	t.OCCStartTime = kv.NoTimestamp
}

// Restart prepares the transaction for a fresh attempt after an OCC
// validation failure: identity (UniqueID, ReadSet, WriteSet, Program) is
// preserved, everything else reset, per invariant 5 and the Design Notes'
// "expose a reset operation, not construct a new object".
func (t *Transaction) Restart() {
	t.reset()
}

// Read looks into the values the executor prefetched for this attempt.
// It returns ok=false if the key did not exist in storage at prefetch
// time, mirroring Storage.Read's own (value, ok) shape.
func (t *Transaction) Read(key kv.Key) (kv.Value, bool) {
	v, ok := t.Reads[key]
	return v, ok
}

// Write buffers val for key; it is applied to storage only if this
// attempt goes on to commit.
func (t *Transaction) Write(key kv.Key, val kv.Value) {
	t.Writes[key] = val
}

// Commit signals that Run wants this attempt to commit.
func (t *Transaction) Commit() {
	t.Status = CompletedCommit
}

// Abort signals that Run wants this attempt to abort intentionally; any
// buffered writes are discarded.
func (t *Transaction) Abort() {
	t.Status = CompletedAbort
}
