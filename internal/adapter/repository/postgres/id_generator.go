package postgres

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator issues entry, group, rule and event ids. Ids from one
// generator sort in the order they were issued, also within a millisecond,
// so a batch of installments keeps its installment order by id.
type ULIDGenerator struct {
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
	mu      sync.Mutex
}

// NewULIDGenerator creates a ULIDGenerator on the wall clock.
func NewULIDGenerator() *ULIDGenerator {
	return newULIDGenerator(time.Now)
}

func newULIDGenerator(now func() time.Time) *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0), now: now}
}

// Generate returns the next id.
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		// Monotonic overflow within one millisecond; start a fresh sequence.
		return ulid.Make().String()
	}
	return id.String()
}
