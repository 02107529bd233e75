package engine

// Registry owns the live set of bodies. The slice is insertion-stable:
// pair enumeration in the force solver and collision resolver follows
// slice index order, and removal compacts in place without reordering.
type Registry struct {
	bodies []*Body
}

func (r *Registry) Add(b *Body) {
	r.bodies = append(r.bodies, b)
}

// Remove deletes a body by identity, preserving the order of the rest.
// It reports whether the body was present.
func (r *Registry) Remove(b *Body) bool {
	for i, cur := range r.bodies {
		if cur == b {
			r.bodies = append(r.bodies[:i], r.bodies[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) Clear() {
	r.bodies = r.bodies[:0]
}

func (r *Registry) Len() int {
	return len(r.bodies)
}

// Snapshot returns a copy of the body slice for enumeration. The slice is
// the caller's, the bodies are not: callers must treat them as read-only.
func (r *Registry) Snapshot() []*Body {
	out := make([]*Body, len(r.bodies))
	copy(out, r.bodies)
	return out
}

// compact drops every body whose index is flagged, keeping order. It
// returns the number removed. len(flagged) must equal len(r.bodies).
func (r *Registry) compact(flagged []bool) int {
	kept := r.bodies[:0]
	removed := 0
	for i, b := range r.bodies {
		if flagged[i] {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	// Release references past the new length so merged-away bodies
	// are not kept alive by the backing array.
	for i := len(kept); i < len(r.bodies); i++ {
		r.bodies[i] = nil
	}
	r.bodies = kept
	return removed
}
