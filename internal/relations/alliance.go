package relations

import "fmt"

// Alliances maps each player to at most one partner, always symmetrically.
type Alliances struct {
	partner map[string]string
}

// NewAlliances returns an empty alliance map.
func NewAlliances() *Alliances {
	return &Alliances{partner: make(map[string]string)}
}

// Reset clears every pact.
func (al *Alliances) Reset() {
	al.partner = make(map[string]string)
}

// PartnerOf returns p's partner and whether one exists.
func (al *Alliances) PartnerOf(p string) (string, bool) {
	q, ok := al.partner[p]
	return q, ok
}

// Allied reports whether a and b are bound to each other.
func (al *Alliances) Allied(a, b string) bool {
	q, ok := al.partner[a]
	return ok && q == b
}

// Propose binds a and b, first breaking any other pact either holds. It
// returns the partners that were dropped.
func (al *Alliances) Propose(a, b string) (dropped []string) {
	if a == b {
		return nil
	}
	if old, ok := al.partner[a]; ok && old != b {
		al.Break(a, old)
		dropped = append(dropped, old)
	}
	if old, ok := al.partner[b]; ok && old != a {
		al.Break(b, old)
		dropped = append(dropped, old)
	}
	al.partner[a] = b
	al.partner[b] = a
	return dropped
}

// Break clears the pact only if a and b are currently bound to each other.
func (al *Alliances) Break(a, b string) bool {
	if !al.Allied(a, b) {
		return false
	}
	delete(al.partner, a)
	delete(al.partner, b)
	return true
}

// Pairs returns a copy of the partner map.
func (al *Alliances) Pairs() map[string]string {
	out := make(map[string]string, len(al.partner))
	for k, v := range al.partner {
		out[k] = v
	}
	return out
}

// Validate checks symmetry: partner[p] = q implies partner[q] = p.
func (al *Alliances) Validate() error {
	for p, q := range al.partner {
		if p == q {
			return fmt.Errorf("%w: %s allied with itself", ErrInvariantViolation, p)
		}
		if back, ok := al.partner[q]; !ok || back != p {
			return fmt.Errorf("%w: %s -> %s is not mirrored", ErrInvariantViolation, p, q)
		}
	}
	return nil
}
