package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/object"
)

func TestDisc_Intersections(t *testing.T) {
	disc := NewDisc(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), 2, nil)
	disc.HoleRadius = 0.5

	tests := []struct {
		name   string
		origin core.Vec3
		hit    bool
	}{
		{"on the ring", core.NewVec3(1, 5, 0), true},
		{"through the hole", core.NewVec3(0.2, 5, 0), false},
		{"outside the rim", core.NewVec3(2.5, 5, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := intersectAll(disc, tt.origin, core.NewVec3(0, -1, 0))
			if (len(hits) == 1) != tt.hit {
				t.Fatalf("expected hit=%v, got %d hits", tt.hit, len(hits))
			}
			if tt.hit && math.Abs(hits[0].Depth-4) > 1e-9 {
				t.Errorf("expected depth 4, got %f", hits[0].Depth)
			}
		})
	}
}

func TestDisc_BoundsAndInside(t *testing.T) {
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 1, nil)

	b := disc.Bounds()
	if math.Abs(b.Max.X-1) > 1e-5 || math.Abs(b.Max.Y-1) > 1e-5 || b.Max.Z > 1e-5 || b.Min.Z < -1e-5 {
		t.Errorf("bounds = %v", b)
	}
	if !disc.Inside(core.NewVec3(0, 0, 1)) || disc.Inside(core.NewVec3(0, 0, -1)) {
		t.Error("wrong inside test")
	}
	disc.Flags |= object.Inverted
	if disc.Inside(core.NewVec3(0, 0, 1)) {
		t.Error("inverted disc kept its inside")
	}

	uv := disc.UVCoord(&object.Intersection{IPoint: core.NewVec3(0.5, 0, 0)})
	if math.Abs(uv.V-0.5) > 1e-9 {
		t.Errorf("v = %f, want 0.5", uv.V)
	}
}
