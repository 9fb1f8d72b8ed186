package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ccproc/pkg/kv"
	"ccproc/pkg/storage"
)

func TestReadMissingKey(t *testing.T) {
	s := storage.NewInMemory(kv.NewClock())
	_, ok := s.Read(42)
	assert.False(t, ok)
	assert.Equal(t, kv.NoTimestamp, s.Timestamp(42))
}

func TestWriteThenRead(t *testing.T) {
	s := storage.NewInMemory(kv.NewClock())
	s.Write(1, 100)

	val, ok := s.Read(1)
	assert.True(t, ok)
	assert.Equal(t, kv.Value(100), val)
}

func TestWriteBumpsTimestamp(t *testing.T) {
	s := storage.NewInMemory(kv.NewClock())
	s.Write(1, 1)
	first := s.Timestamp(1)

	s.Write(1, 2)
	second := s.Timestamp(1)

	assert.Greater(t, second, first)
}

func TestApplyWritesEveryPair(t *testing.T) {
	s := storage.NewInMemory(kv.NewClock())
	storage.Apply(s, map[kv.Key]kv.Value{1: 10, 2: 20})

	v1, _ := s.Read(1)
	v2, _ := s.Read(2)
	assert.Equal(t, kv.Value(10), v1)
	assert.Equal(t, kv.Value(20), v2)
}
