package systems

import "testing"

// scriptedRand replays fixed draws. Exhausted scripts return 0.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func TestNewRand_Deterministic(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 100; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestPick(t *testing.T) {
	items := []string{"a", "b", "c"}
	r := &scriptedRand{ints: []int{2, 0, 4}}
	for _, want := range []string{"c", "a", "b"} {
		if got := pick(r, items); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
