package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/object"
)

func intersectAll(o object.Object, origin, dir core.Vec3) []object.Intersection {
	ray := core.NewRay(origin, dir, nil)
	depths := &object.IStack{}
	o.AllIntersections(&ray, depths)
	return depths.Items()
}

func TestSphere_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	if hits := intersectAll(sphere, core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0)); len(hits) != 0 {
		t.Errorf("expected miss, got %v", hits)
	}
}

func TestSphere_Intersections(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)

	tests := []struct {
		name   string
		origin core.Vec3
		dir    core.Vec3
		depths []float64
	}{
		{"from outside", core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1), []float64{2, 4}},
		{"from inside", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), []float64{1}},
		{"behind the ray", core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := intersectAll(sphere, tt.origin, tt.dir)
			if len(hits) != len(tt.depths) {
				t.Fatalf("expected %d hits, got %d", len(tt.depths), len(hits))
			}
			for i, h := range hits {
				if math.Abs(h.Depth-tt.depths[i]) > 1e-9 {
					t.Errorf("hit %d: expected depth %f, got %f", i, tt.depths[i], h.Depth)
				}
				if h.Object != sphere {
					t.Errorf("hit %d not attributed to the sphere", i)
				}
			}
		})
	}
}

func TestSphere_InsideAndInverted(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 0, 0), 0.5, nil)
	if !sphere.Inside(core.NewVec3(1.2, 0, 0)) || sphere.Inside(core.NewVec3(2, 0, 0)) {
		t.Error("wrong inside test")
	}
	sphere.Flags |= object.Inverted
	if sphere.Inside(core.NewVec3(1.2, 0, 0)) || !sphere.Inside(core.NewVec3(2, 0, 0)) {
		t.Error("inverted sphere should swap inside and outside")
	}
}

func TestSphere_NormalAndUV(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 1, 0), 2.0, nil)
	top := core.NewVec3(0, 3, 0)
	if n := sphere.Normal(top, nil); n != core.NewVec3(0, 1, 0) {
		t.Errorf("normal at the pole: %v", n)
	}
	uv := sphere.UVCoord(&object.Intersection{IPoint: top})
	if math.Abs(uv.V-1) > 1e-9 {
		t.Errorf("top of the sphere should map to v=1, got %v", uv.V)
	}
	uv = sphere.UVCoord(&object.Intersection{IPoint: core.NewVec3(0, 1, 2)})
	if math.Abs(uv.V-0.5) > 1e-9 || math.Abs(uv.U-0.5) > 1e-9 {
		t.Errorf("equator facing +z should map to (0.5, 0.5), got %v", uv)
	}
}
