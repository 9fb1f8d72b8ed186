// Package storage implements the versioned key/value backend the
// processor reads and writes through. It is intentionally the simplest
// correct implementation spec.md §5 allows: a single mutex guarding a
// btree-ordered record set, acceptable because writes are rare compared
// to reads.
package storage

import (
	"sync"

	"github.com/tidwall/btree"

	"ccproc/pkg/kv"
)

// Storage is the external key/value collaborator spec.md §6 describes:
// Read, Write and Timestamp are all the scheduler ever needs from it.
type Storage interface {
	// Read reports whether key exists and, if so, returns its value.
	Read(key kv.Key) (val kv.Value, ok bool)
	// Write overwrites key's value and bumps its last-write timestamp to
	// the storage clock's current time.
	Write(key kv.Key, val kv.Value)
	// Timestamp returns the last-write time for key, or kv.NoTimestamp if
	// the key has never been written.
	Timestamp(key kv.Key) kv.Timestamp
}

type record struct {
	key       kv.Key
	val       kv.Value
	writtenAt kv.Timestamp
}

// InMemory is the default Storage: a btree keyed by kv.Key, ordered so a
// future range-scan feature would not need a storage rewrite, guarded by
// a single RWMutex per spec.md §5.
type InMemory struct {
	mu    sync.RWMutex
	tree  *btree.BTreeG[record]
	clock *kv.Clock
}

// NewInMemory builds an empty store. clock is shared with the processor
// so that Timestamp values are comparable against occ_start_time.
func NewInMemory(clock *kv.Clock) *InMemory {
	return &InMemory{
		clock: clock,
		tree: btree.NewBTreeG(func(a, b record) bool {
			return a.key < b.key
		}),
	}
}

func (s *InMemory) Read(key kv.Key) (kv.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.tree.Get(record{key: key})
	if !ok {
		return 0, false
	}
	return r.val, true
}

func (s *InMemory) Write(key kv.Key, val kv.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.Set(record{key: key, val: val, writtenAt: s.clock.Now()})
}

func (s *InMemory) Timestamp(key kv.Key) kv.Timestamp {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.tree.Get(record{key: key})
	if !ok {
		return kv.NoTimestamp
	}
	return r.writtenAt
}

var _ Storage = (*InMemory)(nil)

// Apply writes every key/value pair in writes to store. It is the only
// place a transaction's buffered writes become durable, and is only ever
// called once a concurrency-control regime has certified the attempt
// (spec.md invariant 4).
func Apply(store Storage, writes map[kv.Key]kv.Value) {
	for key, val := range writes {
		store.Write(key, val)
	}
}
