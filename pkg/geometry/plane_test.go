package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/object"
)

func TestPlane_Intersection(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 2, 0), nil)

	tests := []struct {
		name   string
		origin core.Vec3
		dir    core.Vec3
		hit    bool
		depth  float64
	}{
		{"straight down", core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0), true, 2},
		{"from below", core.NewVec3(3, -4, 0), core.NewVec3(0, 1, 0), true, 3},
		{"parallel", core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), false, 0},
		{"away", core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := intersectAll(plane, tt.origin, tt.dir)
			if (len(hits) == 1) != tt.hit {
				t.Fatalf("expected hit=%v, got %d hits", tt.hit, len(hits))
			}
			if tt.hit && math.Abs(hits[0].Depth-tt.depth) > 1e-9 {
				t.Errorf("expected depth %f, got %f", tt.depth, hits[0].Depth)
			}
		})
	}
}

func TestPlane_InfiniteAndInside(t *testing.T) {
	plane := NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), nil)
	if !object.IsInfinite(plane) {
		t.Error("planes are unbounded")
	}
	if !plane.Inside(core.NewVec3(5, -1, 5)) || plane.Inside(core.NewVec3(0, 1, 0)) {
		t.Error("inside is the half space behind the normal")
	}
	if n := plane.Normal(core.NewVec3(9, 0, 9), nil); n != core.NewVec3(0, 1, 0) {
		t.Errorf("normal %v", n)
	}
}

func TestPlane_UVTiles(t *testing.T) {
	plane := NewPlane(core.Vec3{}, core.NewVec3(0, 0, 1), nil)
	a := plane.UVCoord(&object.Intersection{IPoint: core.NewVec3(0.25, 0.5, 0)})
	b := plane.UVCoord(&object.Intersection{IPoint: core.NewVec3(3.25, -1.5, 0)})
	if math.Abs(a.U-b.U) > 1e-9 || math.Abs(a.V-b.V) > 1e-9 {
		t.Errorf("uv should repeat every unit: %v vs %v", a, b)
	}
}
