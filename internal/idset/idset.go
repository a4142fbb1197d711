// Package idset decodes and combines the gallery-id sets the service
// serves as .nozomi files: packed 4-byte big-endian signed integers,
// order significant.
package idset

import "encoding/binary"

// Set is an order-preserving set of gallery ids. A negative set subtracts
// its members during combination instead of intersecting.
type Set struct {
	ids      []int
	seen     map[int]struct{}
	Negative bool
}

// New creates an empty set.
func New(negative bool) *Set {
	return &Set{
		seen:     make(map[int]struct{}),
		Negative: negative,
	}
}

// Decode parses a packed id buffer. Trailing bytes short of a full id are
// ignored.
func Decode(buf []byte, negative bool) *Set {
	s := New(negative)
	for i := 0; i+4 <= len(buf); i += 4 {
		s.Add(int(int32(binary.BigEndian.Uint32(buf[i : i+4]))))
	}
	return s
}

// Add inserts id, keeping first-insertion order.
func (s *Set) Add(id int) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id int) bool {
	_, ok := s.seen[id]
	return ok
}

// Len returns the number of ids in the set.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the ids in insertion order. The returned slice is a copy.
func (s *Set) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Apply filters s against other in place: a positive other keeps only ids
// it contains, a negative other removes the ids it contains. Order is
// preserved.
func (s *Set) Apply(other *Set) {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if other.Contains(id) == other.Negative {
			delete(s.seen, id)
			continue
		}
		kept = append(kept, id)
	}
	s.ids = kept
}
