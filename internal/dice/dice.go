// Package dice isolates every source of randomness used by the engine.
//
// Engine code never calls math/rand directly; it draws from a Source so tests
// can script exact outcomes and production can seed from crypto/rand.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source is the injectable randomness contract.
type Source interface {
	// Intn returns a uniform integer in [0, n). n must be > 0.
	Intn(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
	// Shuffle permutes n elements through swap.
	Shuffle(n int, swap func(i, j int))
}

// Seeded is a Source backed by a math/rand generator.
type Seeded struct {
	rng  *rand.Rand
	seed int64
}

// NewSeeded returns a deterministic Source for the given seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed)), seed: seed}
}

// NewRandom returns a Source seeded from crypto/rand.
func NewRandom() (*Seeded, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSeeded(seed), nil
}

// Seed returns the seed the source was built with.
func (s *Seeded) Seed() int64 { return s.seed }

func (s *Seeded) Intn(n int) int                     { return s.rng.Intn(n) }
func (s *Seeded) Float64() float64                   { return s.rng.Float64() }
func (s *Seeded) Shuffle(n int, swap func(i, j int)) { s.rng.Shuffle(n, swap) }

// NewSeed generates a high-entropy seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// RollDie rolls one die with the given number of sides.
func RollDie(src Source, sides int) int {
	return src.Intn(sides) + 1
}

// Roll2D6 is the contest distribution: two independent d6, range 2..12.
func Roll2D6(src Source) int {
	return RollDie(src, 6) + RollDie(src, 6)
}

// Pick returns a uniformly random index into a collection of length n.
func Pick(src Source, n int) int {
	return src.Intn(n)
}
