package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
)

func TestNewBox_OrdersCorners(t *testing.T) {
	box := NewBox(core.NewVec3(1, -1, 2), core.NewVec3(-1, 1, -2), nil)
	if box.Min != core.NewVec3(-1, -1, -2) || box.Max != core.NewVec3(1, 1, 2) {
		t.Errorf("got min %v max %v", box.Min, box.Max)
	}
}

func TestBox_Intersections(t *testing.T) {
	box := NewBox(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1), nil)

	tests := []struct {
		name   string
		origin core.Vec3
		dir    core.Vec3
		depths []float64
	}{
		{"through", core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1), []float64{4, 6}},
		{"from inside", core.Vec3{}, core.NewVec3(1, 0, 0), []float64{1}},
		{"miss", core.NewVec3(0, 2, -5), core.NewVec3(0, 0, 1), nil},
		{"parallel outside", core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := intersectAll(box, tt.origin, tt.dir)
			if len(hits) != len(tt.depths) {
				t.Fatalf("expected %d hits, got %d", len(tt.depths), len(hits))
			}
			for i, h := range hits {
				if math.Abs(h.Depth-tt.depths[i]) > 1e-9 {
					t.Errorf("hit %d: expected %f, got %f", i, tt.depths[i], h.Depth)
				}
			}
		})
	}
}

func TestBox_FaceNormals(t *testing.T) {
	box := NewBox(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1), nil)
	tests := []struct {
		point  core.Vec3
		face   Face
		normal core.Vec3
	}{
		{core.NewVec3(-1, 0.2, 0.1), FaceMinX, core.NewVec3(-1, 0, 0)},
		{core.NewVec3(0.3, 1, 0.1), FaceMaxY, core.NewVec3(0, 1, 0)},
		{core.NewVec3(0.3, 0.2, 1), FaceMaxZ, core.NewVec3(0, 0, 1)},
	}
	for _, tt := range tests {
		if f := box.FaceAt(tt.point); f != tt.face {
			t.Errorf("%v: face %d, want %d", tt.point, f, tt.face)
		}
		if n := box.Normal(tt.point, nil); n != tt.normal {
			t.Errorf("%v: normal %v, want %v", tt.point, n, tt.normal)
		}
	}
}

func TestBox_DetermineTextures(t *testing.T) {
	base := material.NewSolidTexture(core.Grey(0.5))
	top := material.NewSolidTexture(core.White)
	box := NewBox(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1), base)
	box.SetFaceTexture(FaceMaxY, top)
	if !box.Has(object.MultiTextured) {
		t.Fatal("face textures should mark the box multi-textured")
	}

	got := box.DetermineTextures(&object.Intersection{IPoint: core.NewVec3(0, 1, 0)}, false, nil)
	if len(got) != 1 || got[0].Texture != top || got[0].Weight != 1 {
		t.Errorf("top face: %+v", got)
	}
	got = box.DetermineTextures(&object.Intersection{IPoint: core.NewVec3(1, 0, 0)}, false, got[:0])
	if len(got) != 1 || got[0].Texture != base {
		t.Errorf("side face should fall back to the base texture: %+v", got)
	}
}
