package scene

import (
	"math"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
)

func colourNear(a, b core.Colour, tolerance float64) bool {
	return math.Abs(a.R-b.R) <= tolerance && math.Abs(a.G-b.G) <= tolerance && math.Abs(a.B-b.B) <= tolerance
}

func TestParseBoundingMethod(t *testing.T) {
	tests := []struct {
		name    string
		want    BoundingMethod
		wantErr bool
	}{
		{"none", BruteForce, false},
		{"brute-force", BruteForce, false},
		{"slab", SlabTree, false},
		{"bvh", SlabTree, false},
		{"bsp", BSPTree, false},
		{"octree", BruteForce, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBoundingMethod(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("method = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(sd *SceneData)
		wantErr bool
	}{
		{"defaults", func(sd *SceneData) {}, false},
		{"zero trace level", func(sd *SceneData) { sd.MaxTraceLevel = 0 }, true},
		{"negative bailout", func(sd *SceneData) { sd.ADCBailout = -1 }, true},
		{"subsurface without scale", func(sd *SceneData) {
			sd.Subsurface.Enabled = true
			sd.Subsurface.MMPerUnit = 0
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd := NewSceneData()
			tt.modify(sd)
			if err := sd.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	sd := NewMirrorHallwayScene(0.5)
	sd.Add(NewSphereGridScene(2).Objects[1:]...)

	finite, infinite := sd.Split()
	if len(infinite) != 2 || len(finite) != 4 {
		t.Errorf("split into %d finite and %d infinite, want 4 and 2", len(finite), len(infinite))
	}
	for _, o := range infinite {
		if !object.IsInfinite(o) {
			t.Errorf("%T listed as infinite", o)
		}
	}
}

func TestApplyFog(t *testing.T) {
	in := core.NewColour(0.2, 0.4, 0.6)
	fogColour := core.NewColour(0.8, 0.8, 0.8)
	att := math.Exp(-5.0 / 10.0)

	tests := []struct {
		name       string
		fog        *Fog
		shadow     bool
		want       core.Colour
		wantTransm float64
	}{
		{
			name:       "constant",
			fog:        NewConstantFog(10, core.Opaque(fogColour)),
			want:       fogColour.Multiply(1 - att).Add(in.Multiply(att)),
			wantTransm: att,
		},
		{
			name:       "shadow rays are only dimmed",
			fog:        NewConstantFog(10, core.Opaque(fogColour)),
			shadow:     true,
			want:       in.Multiply(att),
			wantTransm: att,
		},
		{
			name:       "transmit caps the attenuation",
			fog:        NewConstantFog(0.01, core.NewTransColour(0.8, 0.8, 0.8, 0, 0.5)),
			want:       fogColour.Multiply(0.5).Add(in.Multiply(0.5)),
			wantTransm: 0.5,
		},
		{
			name:       "ground fog below its offset is constant",
			fog:        NewGroundFog(10, core.Opaque(fogColour), 0, 1),
			want:       fogColour.Multiply(1 - att).Add(in.Multiply(att)),
			wantTransm: att,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd := NewSceneData()
			sd.Fogs = append(sd.Fogs, tt.fog)
			got, transm := sd.ApplyFog(core.NewVec3(0, -1, 0), core.NewVec3(1, 0, 0), 5, tt.shadow, in, 1)
			if !colourNear(got, tt.want, 1e-9) {
				t.Errorf("colour = %v, want %v", got, tt.want)
			}
			if math.Abs(transm-tt.wantTransm) > 1e-9 {
				t.Errorf("transm = %g, want %g", transm, tt.wantTransm)
			}
		})
	}
}

func TestGroundFogThinsWithHeight(t *testing.T) {
	sd := NewSceneData()
	sd.Fogs = append(sd.Fogs, NewGroundFog(10, core.Opaque(core.White), 0, 1))

	_, low := sd.ApplyFog(core.NewVec3(0, 0.5, 0), core.NewVec3(1, 0, 0), 5, false, core.Colour{}, 1)
	_, high := sd.ApplyFog(core.NewVec3(0, 50, 0), core.NewVec3(1, 0, 0), 5, false, core.Colour{}, 1)
	if !(high > low) {
		t.Errorf("transmittance %g high up, %g near the ground", high, low)
	}
	if high < 0.99 {
		t.Errorf("fog far above the offset still absorbs: %g", high)
	}
}

func TestSkySphereLayers(t *testing.T) {
	sd := NewSceneData()
	sd.Background = core.Opaque(core.NewColour(0, 1, 0))
	sd.SkySphere = NewSkySphere(
		material.NewPlainPigment(core.Opaque(core.NewColour(0, 0, 1))),
		material.NewPlainPigment(core.NewTransColour(1, 0, 0, 0, 0.5)),
	)

	colour, transm, err := sd.Sky(core.NewVec3(0, 0, 1), false, nil)
	if err != nil {
		t.Fatalf("Sky: %v", err)
	}
	if !colourNear(colour, core.NewColour(0.5, 0, 0.5), 1e-9) {
		t.Errorf("colour = %v, want half red over half blue", colour)
	}
	if transm != 0 {
		t.Errorf("transm = %g through an opaque sky", transm)
	}
}

func TestSphereGridScene(t *testing.T) {
	sd := NewSphereGridScene(3)
	finite, infinite := sd.Split()
	if len(finite) != 9 || len(infinite) != 1 {
		t.Errorf("got %d spheres and %d planes, want 9 and 1", len(finite), len(infinite))
	}

	// hue 0 at moderate chroma is reddish and every channel stays in range
	c := oklchToRGB(0.65, 0.2, 0)
	if c.R <= c.G || c.R <= c.B {
		t.Errorf("hue 0 = %v, want red to dominate", c)
	}
	for _, h := range []float64{0, 90, 180, 270} {
		c := oklchToRGB(0.9, 0.4, h)
		for i := 0; i < 3; i++ {
			if v := c.Get(i); v < 0 || v > 1 {
				t.Errorf("hue %g channel %d = %g out of range", h, i, v)
			}
		}
	}
}
