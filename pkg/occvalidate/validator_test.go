package occvalidate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccproc/pkg/kv"
	"ccproc/pkg/occvalidate"
	"ccproc/pkg/storage"
	"ccproc/pkg/txn"
)

type noopProgram struct{}

func (noopProgram) Run(*txn.Transaction) {}

func completed(readSet, writeSet txn.KeySet, startTime kv.Timestamp, writes map[kv.Key]kv.Value) *txn.Transaction {
	t := txn.New(readSet, writeSet, noopProgram{})
	t.OCCStartTime = startTime
	t.Writes = writes
	t.Status = txn.CompletedCommit
	return t
}

func TestValidatePassesWhenNothingChangedSince(t *testing.T) {
	s := storage.NewInMemory(kv.NewClock())
	s.Write(1, 10)
	startTime := s.Timestamp(1)

	v := occvalidate.New(s)
	tx := completed(txn.NewKeySet(1), txn.NewKeySet(), startTime, nil)

	assert.True(t, v.Validate(tx, nil))
}

func TestValidateFailsWhenReadsetTimestampAdvanced(t *testing.T) {
	s := storage.NewInMemory(kv.NewClock())
	s.Write(1, 10)
	startTime := s.Timestamp(1)
	s.Write(1, 20) // concurrent writer bumps the timestamp after start

	v := occvalidate.New(s)
	tx := completed(txn.NewKeySet(1), txn.NewKeySet(), startTime, nil)

	assert.False(t, v.Validate(tx, nil))
}

func TestValidateFailsOnActiveSetWriteIntersection(t *testing.T) {
	s := storage.NewInMemory(kv.NewClock())
	s.Write(1, 10)
	startTime := s.Timestamp(1)

	v := occvalidate.New(s)
	tx := completed(txn.NewKeySet(), txn.NewKeySet(1), startTime, map[kv.Key]kv.Value{1: 99})

	other := completed(txn.NewKeySet(1), txn.NewKeySet(), startTime, nil)
	active := []*txn.Transaction{other}

	assert.False(t, v.Validate(tx, active), "tx's writeset overlaps other's readset while both are active")
}

func TestValidatePassesWhenActiveSetDisjoint(t *testing.T) {
	s := storage.NewInMemory(kv.NewClock())
	s.Write(1, 10)
	s.Write(2, 10)
	startTime := s.Timestamp(1)

	v := occvalidate.New(s)
	tx := completed(txn.NewKeySet(), txn.NewKeySet(1), startTime, map[kv.Key]kv.Value{1: 99})
	other := completed(txn.NewKeySet(2), txn.NewKeySet(), startTime, nil)

	require.True(t, v.Validate(tx, []*txn.Transaction{other}))
	val, _ := s.Read(1)
	assert.Equal(t, kv.Value(99), val, "a validated transaction's writes must be applied")
}

func TestValidateShortCircuitsIntentionalAbort(t *testing.T) {
	s := storage.NewInMemory(kv.NewClock())
	v := occvalidate.New(s)

	tx := txn.New(txn.NewKeySet(1), txn.NewKeySet(), noopProgram{})
	tx.Abort()

	assert.True(t, v.Validate(tx, nil), "an intentional abort is never a validation failure")
}
