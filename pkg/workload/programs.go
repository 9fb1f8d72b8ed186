// Package workload implements the example transaction programs the
// original course project seeded its test suite with
// (_examples/original_source/txn/txn_processor_test.cc): Noop, Put,
// Expect, BankTxn and Shopping. spec.md §8 describes their behavior as
// testable scenarios (S1-S4) without naming a type for them; this
// package supplies concrete txn.Programs so both the test suite and
// cmd/bench can submit them directly.
package workload

import (
	"math/rand"
	"time"

	"ccproc/pkg/kv"
	"ccproc/pkg/txn"
)

// Noop immediately commits without reading or writing anything (S1).
type Noop struct{}

func (Noop) Run(t *txn.Transaction) { t.Commit() }

// NewNoop builds a ready-to-submit no-op transaction.
func NewNoop() *txn.Transaction {
	return txn.New(txn.NewKeySet(), txn.NewKeySet(), Noop{})
}

// Put writes every key/value pair in values and commits (S2).
type Put struct {
	values map[kv.Key]kv.Value
}

func (p *Put) Run(t *txn.Transaction) {
	for key, val := range p.values {
		t.Write(key, val)
	}
	t.Commit()
}

// NewPut builds a transaction that writes values and commits.
func NewPut(values map[kv.Key]kv.Value) *txn.Transaction {
	writeSet := make(txn.KeySet, len(values))
	for key := range values {
		writeSet[key] = struct{}{}
	}
	return txn.New(txn.NewKeySet(), writeSet, &Put{values: values})
}

// Expect aborts unless every key in values exists in storage with
// exactly the expected value; otherwise it commits (S2, and the
// round-trip laws in spec.md §8).
type Expect struct {
	values map[kv.Key]kv.Value
}

func (e *Expect) Run(t *txn.Transaction) {
	for key, want := range e.values {
		got, ok := t.Read(key)
		if !ok || got != want {
			t.Abort()
			return
		}
	}
	t.Commit()
}

// NewExpect builds a transaction that commits iff storage matches values
// exactly, aborting on a missing key or a mismatched value.
func NewExpect(values map[kv.Key]kv.Value) *txn.Transaction {
	readSet := make(txn.KeySet, len(values))
	for key := range values {
		readSet[key] = struct{}{}
	}
	return txn.New(readSet, txn.NewKeySet(), &Expect{values: values})
}

// BankTxn reads account, writes back account+1, and sleeps for roughly
// avgDelay before committing — the S3 BasicBank scenario's workload.
type BankTxn struct {
	account  kv.Key
	avgDelay time.Duration
}

func (b *BankTxn) Run(t *txn.Transaction) {
	balance, _ := t.Read(b.account)
	t.Write(b.account, balance+1)
	sleepAround(b.avgDelay)
	t.Commit()
}

// NewBankTxn builds a BankTxn over account, sleeping for roughly
// avgDelay before committing (0 for no delay).
func NewBankTxn(account kv.Key, avgDelay time.Duration) *txn.Transaction {
	return txn.New(txn.NewKeySet(account), txn.NewKeySet(account), &BankTxn{
		account:  account,
		avgDelay: avgDelay,
	})
}

// Shopping conditionally decrements stock and, only if it was positive,
// increments account — the S4 Shopping scenario's workload. stock is
// read-only from the declaration's point of view but is also written, so
// it belongs to both sets; account is write-only.
type Shopping struct {
	stock    kv.Key
	account  kv.Key
	avgDelay time.Duration
}

func (s *Shopping) Run(t *txn.Transaction) {
	balance, _ := t.Read(s.stock)
	if balance > 0 {
		t.Write(s.stock, balance-1)
		acct, _ := t.Read(s.account)
		t.Write(s.account, acct+1)
	}
	sleepAround(s.avgDelay)
	t.Commit()
}

// NewShopping builds a Shopping transaction over stock and account.
func NewShopping(stock, account kv.Key, avgDelay time.Duration) *txn.Transaction {
	return txn.New(
		txn.NewKeySet(stock),
		txn.NewKeySet(stock, account),
		&Shopping{stock: stock, account: account, avgDelay: avgDelay},
	)
}

// sleepAround sleeps for roughly avg, the way the original's transaction
// bodies did: Sleep(0.9*time_ + RandomDouble(time_*0.2)).
func sleepAround(avg time.Duration) {
	if avg <= 0 {
		return
	}
	jitter := time.Duration(rand.Float64() * 0.2 * float64(avg))
	time.Sleep(avg*9/10 + jitter)
}
