package engine

import "testing"

func newTestBodies(n int) []*Body {
	out := make([]*Body, n)
	for i := range out {
		out[i] = newBody(Vec2{X: float64(i)}, 10, Vec2{}, white)
	}
	return out
}

func TestRegistryAddRemove(t *testing.T) {
	var r Registry
	bodies := newTestBodies(3)
	for _, b := range bodies {
		r.Add(b)
	}

	if !r.Remove(bodies[1]) {
		t.Fatal("Remove returned false for a present body")
	}
	if r.Remove(bodies[1]) {
		t.Error("Remove returned true for an absent body")
	}

	got := r.Snapshot()
	if len(got) != 2 || got[0] != bodies[0] || got[1] != bodies[2] {
		t.Errorf("removal reordered the registry: %v", got)
	}
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	var r Registry
	bodies := newTestBodies(2)
	for _, b := range bodies {
		r.Add(b)
	}

	snap := r.Snapshot()
	snap[0] = nil
	if r.Snapshot()[0] != bodies[0] {
		t.Error("mutating a snapshot slice changed the registry")
	}
}

func TestRegistryCompactKeepsOrder(t *testing.T) {
	var r Registry
	bodies := newTestBodies(5)
	for _, b := range bodies {
		r.Add(b)
	}

	removed := r.compact([]bool{false, true, false, true, false})
	if removed != 2 {
		t.Fatalf("compact removed %d, want 2", removed)
	}

	got := r.Snapshot()
	want := []*Body{bodies[0], bodies[2], bodies[4]}
	if len(got) != len(want) {
		t.Fatalf("have %d bodies, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: compact broke enumeration order", i)
		}
	}
}

func TestRegistryClear(t *testing.T) {
	var r Registry
	for _, b := range newTestBodies(4) {
		r.Add(b)
	}
	r.Clear()
	if r.Len() != 0 {
		t.Errorf("registry not empty after Clear: %d", r.Len())
	}
}
