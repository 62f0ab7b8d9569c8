package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/object"
)

func TestTriangle_Intersections(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)

	tests := []struct {
		name   string
		origin core.Vec3
		hit    bool
		depth  float64
	}{
		{"through the middle", core.NewVec3(0.25, 0.25, -2), true, 2},
		{"on the far side of the hypotenuse", core.NewVec3(0.8, 0.8, -2), false, 0},
		{"left of the first edge", core.NewVec3(-0.1, 0.5, -2), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := intersectAll(tri, tt.origin, core.NewVec3(0, 0, 1))
			if (len(hits) == 1) != tt.hit {
				t.Fatalf("expected hit=%v, got %d hits", tt.hit, len(hits))
			}
			if tt.hit && math.Abs(hits[0].Depth-tt.depth) > 1e-9 {
				t.Errorf("expected depth %f, got %f", tt.depth, hits[0].Depth)
			}
		})
	}

	if hits := intersectAll(tri, core.NewVec3(0.25, 0.25, -2), core.NewVec3(1, 0, 0)); len(hits) != 0 {
		t.Error("ray parallel to the triangle hit it")
	}
}

func TestTriangle_NormalAndUV(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)

	if n := tri.Normal(core.Vec3{}, nil); n != core.NewVec3(0, 0, 1) {
		t.Errorf("normal = %v, want +z", n)
	}
	uv := tri.UVCoord(&object.Intersection{IPoint: core.NewVec3(0.2, 0.5, 0)})
	if math.Abs(uv.U-0.2) > 1e-9 || math.Abs(uv.V-0.5) > 1e-9 {
		t.Errorf("uv = %v, want (0.2, 0.5)", uv)
	}

	b := tri.Bounds()
	if b.Min != core.NewVec3(0, 0, 0) || b.Max != core.NewVec3(1, 1, 0) {
		t.Errorf("bounds = %v", b)
	}
	if tri.Inside(core.NewVec3(0.2, 0.2, -1)) {
		t.Error("a triangle has no inside")
	}
}
