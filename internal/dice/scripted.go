package dice

import "sync"

// Scripted replays fixed draws, for tests. Intn returns the next scripted int
// reduced modulo n; Float64 returns the next scripted float. Shuffle leaves
// the order untouched. When a script runs out it starts again from the top.
type Scripted struct {
	mu     sync.Mutex
	ints   []int
	floats []float64
	ii, fi int
}

// NewScripted returns a Source that yields ints in order.
func NewScripted(ints ...int) *Scripted {
	return &Scripted{ints: ints}
}

// WithFloats sets the Float64 script.
func (s *Scripted) WithFloats(fs ...float64) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats = fs
	s.fi = 0
	return s
}

// Dice scripts 2d6 totals: each total t becomes the pair of Intn draws that
// Roll2D6 turns back into t. Totals must be in 2..12.
func Dice(totals ...int) *Scripted {
	ints := make([]int, 0, len(totals)*2)
	for _, t := range totals {
		first := t - 1
		if first > 6 {
			first = 6
		}
		second := t - first
		ints = append(ints, first-1, second-1)
	}
	return NewScripted(ints...)
}

func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	if v < 0 {
		v = -v
	}
	return v % n
}

func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *Scripted) Shuffle(int, func(i, j int)) {}
