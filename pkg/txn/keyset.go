package txn

import "ccproc/pkg/kv"

// KeySet is the set of keys a transaction declares in its readset or
// writeset. It is a thin map wrapper rather than a bare
// map[kv.Key]struct{} so that call sites read as "a set of keys" the way
// the original C++ course project's set<Key> readset_/writeset_ did.
type KeySet map[kv.Key]struct{}

// NewKeySet builds a KeySet from the given keys.
func NewKeySet(keys ...kv.Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Contains reports whether key is in the set.
func (s KeySet) Contains(key kv.Key) bool {
	_, ok := s[key]
	return ok
}

// Union returns the set of keys in s or other, matching the union the
// parallel-OCC validator computes over a concurrently-validating
// transaction's readset and writeset (spec.md §4.4 step 4).
func (s KeySet) Union(other KeySet) KeySet {
	u := make(KeySet, len(s)+len(other))
	for k := range s {
		u[k] = struct{}{}
	}
	for k := range other {
		u[k] = struct{}{}
	}
	return u
}

// Intersects reports whether s and other share any key.
func (s KeySet) Intersects(other KeySet) bool {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	for k := range small {
		if big.Contains(k) {
			return true
		}
	}
	return false
}
