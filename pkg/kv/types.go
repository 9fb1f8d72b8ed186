// Package kv defines the opaque data types the processor operates on: an
// integer Key, an integer Value and a monotonic Timestamp sourced from a
// shared clock. Keeping these as their own package lets storage, locking
// and the scheduler all refer to the same narrow vocabulary without
// importing each other.
package kv

import "go.uber.org/atomic"

// Key is an opaque integer identifier.
type Key int64

// Value is an opaque integer payload.
type Value int64

// Timestamp is a monotonically increasing value sourced from Clock. It is
// comparable with <, > and == like any other integer.
type Timestamp int64

// NoTimestamp is older than any real Timestamp a Clock will ever produce;
// Storage returns it for keys that have never been written.
const NoTimestamp Timestamp = -1

// Clock hands out strictly increasing Timestamps. A single Clock is shared
// by storage (last-write times) and the scheduler (occ_start_time), so
// "newer than" comparisons are meaningful across the whole processor.
type Clock struct {
	next atomic.Int64
}

// NewClock returns a Clock whose first Now() is 0.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the next timestamp in the sequence.
func (c *Clock) Now() Timestamp {
	return Timestamp(c.next.Add(1) - 1)
}
