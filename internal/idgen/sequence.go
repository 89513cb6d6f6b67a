// Package idgen issues integer identifiers that are derived from the wall
// clock in milliseconds but never repeat or go backwards within a Sequence.
package idgen

import (
	"sync"
	"time"
)

// Sequence hands out strictly increasing int64 ids. Each id is the current
// Unix time in milliseconds, or last+1 when the clock has not advanced
// (several ids in the same millisecond, or the clock stepping back).
//
// Ids that already exist elsewhere (loaded from storage, seeded records)
// must be reported with Observe so the sequence never reissues them.
type Sequence struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewSequence creates a Sequence backed by time.Now.
func NewSequence() *Sequence {
	return &Sequence{now: time.Now}
}

// NewSequenceWithClock creates a Sequence reading time from now.
// Used in tests to pin the clock.
func NewSequenceWithClock(now func() time.Time) *Sequence {
	return &Sequence{now: now}
}

// Next returns the next id.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// Observe records an id issued outside the sequence.
func (s *Sequence) Observe(ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if id > s.last {
			s.last = id
		}
	}
}

// Last returns the highest id issued or observed so far.
func (s *Sequence) Last() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
