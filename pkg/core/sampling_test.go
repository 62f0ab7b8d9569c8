package core

import (
	"math"
	"testing"
)

func TestPool_EmptyInvariant(t *testing.T) {
	var p Pool[float64]
	s := p.Acquire()
	s.Push(1)
	s.Push(2)
	if s.Pop() != 2 || s.Pop() != 1 {
		t.Fatal("stack order broken")
	}
	p.Release(s)
	if again := p.Acquire(); again != s {
		t.Error("expected the released stack to be reused")
	}

	defer func() {
		if recover() == nil {
			t.Error("releasing a non-empty stack should panic")
		}
	}()
	s.Push(3)
	p.Release(s)
}

func TestRandomSequence_Wraps(t *testing.T) {
	seq := NewRandomSequence(7, 0, 1, 16)
	if seq.At(3) != seq.At(19) || seq.At(-1) != seq.At(15) {
		t.Error("sequence should wrap by its length")
	}
	for i := 0; i < seq.Len(); i++ {
		if v := seq.At(i); v < 0 || v >= 1 {
			t.Errorf("value %v out of range", v)
		}
	}
}

func TestRadicalInverse(t *testing.T) {
	tests := []struct {
		i, base int
		want    float64
	}{
		{1, 2, 0.5},
		{2, 2, 0.25},
		{3, 2, 0.75},
		{1, 3, 1.0 / 3},
		{4, 3, 1.0/3 + 1.0/9},
	}
	for _, tt := range tests {
		if got := RadicalInverse(tt.i, tt.base); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("RadicalInverse(%d, %d) = %v, want %v", tt.i, tt.base, got, tt.want)
		}
	}
}

func TestRandomGenerator_Range(t *testing.T) {
	a := NewRandomGenerator(3, -2, 5)
	b := NewRandomGenerator(3, -2, 5)
	for i := 0; i < 100; i++ {
		v := a.Next()
		if v < -2 || v >= 5 {
			t.Fatalf("value %v outside [-2, 5)", v)
		}
		if w := b.Next(); w != v {
			t.Fatalf("same seed diverged at %d: %v != %v", i, v, w)
		}
	}
}

func TestDirectionGenerator_UnitAndSpread(t *testing.T) {
	g := NewDirectionGenerator()
	var sum Vec3
	const n = 1024
	for i := 0; i < n; i++ {
		d := g.Next()
		if math.Abs(d.Length()-1) > 1e-9 {
			t.Fatalf("direction %v is not unit length", d)
		}
		sum = sum.Add(d)
	}
	// low discrepancy directions cover the sphere evenly
	if mean := sum.Multiply(1.0 / n); mean.Length() > 0.05 {
		t.Errorf("mean direction %v, want close to zero", mean)
	}
}

func TestPatternRands_Shared(t *testing.T) {
	if PatternRands(5) != PatternRands(5+randomTableSize) {
		t.Error("pattern table should wrap")
	}
	if PatternRands(5) == WarpRands(5) {
		t.Error("pattern and warp tables share a seed")
	}
}
