package lockmgr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccproc/pkg/lockmgr"
	"ccproc/pkg/txn"
)

func newTxn() *txn.Transaction {
	return &txn.Transaction{}
}

// TestExclusiveWakeupChain is spec.md §8 S5 under LOCKING_EXCLUSIVE_ONLY:
// A writes key 7, B reads key 7, C writes key 7; B and C must block in
// FIFO order and wake one at a time as each predecessor releases.
func TestExclusiveWakeupChain(t *testing.T) {
	m := lockmgr.NewExclusive()
	a, b, c := newTxn(), newTxn(), newTxn()
	const key = 7

	require.True(t, m.WriteLock(a, key), "A should acquire immediately")
	require.False(t, m.ReadLock(b, key), "B must block behind A")
	require.False(t, m.WriteLock(c, key), "C must block behind A and B")

	woken := m.Release(a, key)
	require.Len(t, woken, 1)
	assert.Same(t, b, woken[0], "releasing A should wake B, not C")

	// C is still blocked until B releases.
	woken = m.Release(b, key)
	require.Len(t, woken, 1)
	assert.Same(t, c, woken[0])

	woken = m.Release(c, key)
	assert.Empty(t, woken, "no one left to wake")
}

// TestSharedExclusiveCoalescesReaders is spec.md §8 S5 under LOCKING: two
// concurrent readers share a grant; a writer behind them waits for both.
func TestSharedExclusiveCoalescesReaders(t *testing.T) {
	m := lockmgr.NewSharedExclusive()
	b1, b2, writer := newTxn(), newTxn(), newTxn()
	const key = 7

	require.True(t, m.ReadLock(b1, key), "first reader grants immediately")
	require.True(t, m.ReadLock(b2, key), "second reader coalesces with the first")
	require.False(t, m.WriteLock(writer, key), "writer must wait for both readers")

	woken := m.Release(b1, key)
	assert.Empty(t, woken, "writer still blocked behind the second reader")

	woken = m.Release(b2, key)
	require.Len(t, woken, 1)
	assert.Same(t, writer, woken[0])
}

// TestSharedExclusiveWriterThenReaders mirrors S5's literal A/B/C setup
// under LOCKING: a writer holds the lock, a reader and a second writer
// queue up behind it.
func TestSharedExclusiveWriterThenReaders(t *testing.T) {
	m := lockmgr.NewSharedExclusive()
	a, b, c := newTxn(), newTxn(), newTxn()
	const key = 7

	require.True(t, m.WriteLock(a, key))
	require.False(t, m.ReadLock(b, key), "B must block behind writer A")
	require.False(t, m.WriteLock(c, key), "C must block behind A and B")

	woken := m.Release(a, key)
	require.Len(t, woken, 1)
	assert.Same(t, b, woken[0], "B becomes the sole reader owner; C still blocks on B")

	woken = m.Release(b, key)
	require.Len(t, woken, 1)
	assert.Same(t, c, woken[0])
}

func TestReleaseOfNonHeadWaiterWakesNobody(t *testing.T) {
	m := lockmgr.NewExclusive()
	a, b, c := newTxn(), newTxn(), newTxn()
	const key = 1

	require.True(t, m.WriteLock(a, key))
	require.False(t, m.WriteLock(b, key))
	require.False(t, m.WriteLock(c, key))

	// Releasing a waiter that was never granted the lock (not at the
	// head) must not wake anybody (spec.md §4.2 wakeup rule, bullet 1).
	woken := m.Release(b, key)
	assert.Empty(t, woken)

	mode, owners := m.Status(key)
	assert.Equal(t, lockmgr.Exclusive, mode)
	require.Len(t, owners, 1)
	assert.Same(t, a, owners[0])
}

func TestStatusReportsSharedPrefix(t *testing.T) {
	m := lockmgr.NewSharedExclusive()
	b1, b2 := newTxn(), newTxn()
	const key = 1

	require.True(t, m.ReadLock(b1, key))
	require.True(t, m.ReadLock(b2, key))

	mode, owners := m.Status(key)
	assert.Equal(t, lockmgr.Shared, mode)
	assert.ElementsMatch(t, []*txn.Transaction{b1, b2}, owners)
}
