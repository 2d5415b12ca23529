// Package idgen hands out record IDs.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Generator produces candidate IDs. Uniqueness against stored records is
// checked by the caller at creation time.
type Generator interface {
	Next() string
}

// Sequence generates prefix + zero-padded monotonic counter IDs, e.g. OP006.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	width  int
	last   int
}

// NewSequence creates a sequence starting at prefix + 1.
func NewSequence(prefix string, width int) *Sequence {
	return &Sequence{prefix: prefix, width: width}
}

// Observe advances the counter past any existing ID carrying the prefix,
// so generated IDs never reuse a seeded one.
func (s *Sequence) Observe(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if !strings.HasPrefix(id, s.prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id, s.prefix))
		if err != nil || n <= s.last {
			continue
		}
		s.last = n
	}
}

// Next returns the next ID.
func (s *Sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return fmt.Sprintf("%s%0*d", s.prefix, s.width, s.last)
}

// UUID generates prefix + random UUID IDs.
type UUID struct {
	prefix string
}

// NewUUID creates a UUID generator.
func NewUUID(prefix string) *UUID {
	return &UUID{prefix: prefix}
}

// Next returns a new random ID.
func (u *UUID) Next() string {
	return u.prefix + uuid.NewString()
}

// New returns a generator for the configured strategy ("sequence" or "uuid").
func New(strategy, prefix string) (Generator, error) {
	switch strategy {
	case "", "sequence":
		return NewSequence(prefix, 3), nil
	case "uuid":
		return NewUUID(prefix), nil
	}
	return nil, fmt.Errorf("unknown id strategy %q", strategy)
}
