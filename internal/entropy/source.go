package entropy

import (
	"math/rand/v2"
	"sync"
)

// Seeded is a deterministic source for simulations and tests.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a PCG-backed source for seed.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float implements Source.
func (s *Seeded) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Sequence replays fixed values in order and then repeats the last one.
// An empty sequence always yields 0.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence returns a scripted source.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float implements Source.
func (s *Sequence) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	if s.next >= len(s.values) {
		return s.values[len(s.values)-1]
	}
	v := s.values[s.next]
	s.next++
	return v
}

// WeightedIndex picks an index by cumulative-weight roulette: roll a value
// in [0, total), subtract each weight in order and stop at the first index
// where the remainder is at or below zero. Ties favor the earlier index.
// Negative weights count as zero: they add nothing to the total and are
// not subtracted from the roll, so such an entry only wins a zero roll
// before any positive weight. When every weight is zero the first index
// wins; a float remainder left after the last weight falls back to the
// last index. It returns -1 for an empty slice.
func WeightedIndex(src Source, weights []float64) int {
	if len(weights) == 0 {
		return -1
	}
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	roll := src.Float() * total
	for i, w := range weights {
		if w > 0 {
			roll -= w
		}
		if roll <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// Between returns an integer uniformly drawn from [lo, hi].
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n := int(src.Float() * float64(hi-lo+1))
	if n > hi-lo {
		n = hi - lo
	}
	return lo + n
}

// Chance reports whether a draw falls below p.
func Chance(src Source, p float64) bool {
	return src.Float() < p
}
