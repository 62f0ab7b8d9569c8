package material

import (
	"math"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
)

const tolerance = 1e-9

func colourClose(a, b core.Colour, tol float64) bool {
	return math.Abs(a.R-b.R) <= tol && math.Abs(a.G-b.G) <= tol && math.Abs(a.B-b.B) <= tol
}

func TestFresnelR(t *testing.T) {
	tests := []struct {
		name   string
		cos, n float64
		want   float64
	}{
		{"normal incidence glass", 1, 1.5, 0.04},
		{"total reflection", 0.5, 0.5, 1},
		{"matched index", 0.7, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FresnelR(tt.cos, tt.n); math.Abs(got-tt.want) > tolerance {
				t.Errorf("FresnelR(%v, %v) = %v, want %v", tt.cos, tt.n, got, tt.want)
			}
		})
	}
}

func TestStandardReflectivity(t *testing.T) {
	f := NewFinish()
	f.ReflectionMax = core.NewColour(1, 0.5, 0)
	f.ReflectionMin = core.Grey(0.1)

	tests := []struct {
		name string
		cos  float64
		want core.Colour
	}{
		{"grazing gives max", 0, f.ReflectionMax},
		{"normal gives min", 1, f.ReflectionMin},
		{"between interpolates", 0.25, core.NewColour(0.775, 0.4, 0.025)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, weight := f.Reflectivity(tt.cos, 1)
			if !colourClose(got, tt.want, tolerance) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if weight != 1 {
				t.Errorf("weight scale %v, want the larger max channel 1", weight)
			}
		})
	}

	f.ReflectionFalloff = 2
	got, _ := f.Reflectivity(0.5, 1)
	want := f.ReflectionMax.Multiply(0.25).Add(f.ReflectionMin.Multiply(0.75))
	if !colourClose(got, want, tolerance) {
		t.Errorf("falloff 2: got %v, want %v", got, want)
	}
}

func TestFresnelReflectivity(t *testing.T) {
	f := NewFinish()
	f.ReflectionModel = FresnelReflection
	f.ReflectionMax = core.White

	got, weight := f.Reflectivity(1, 1.5)
	if !colourClose(got, core.Grey(0.04), tolerance) || math.Abs(weight-0.04) > tolerance {
		t.Errorf("got %v weight %v", got, weight)
	}
}

func TestMetallicTint(t *testing.T) {
	tint := core.NewColour(1, 0.5, 0)
	if got := MetallicTint(core.White, 0, tint, 1); got != core.White {
		t.Errorf("zero metallic changed the colour: %v", got)
	}
	// Head on the empirical curve is zero, so the tint applies fully
	if got := MetallicTint(core.White, 1, tint, 1); !colourClose(got, tint, 1e-6) {
		t.Errorf("got %v, want %v", got, tint)
	}
	// At grazing angles the curve saturates and the tint fades
	if got := MetallicTint(core.White, 1, tint, 0); !colourClose(got, core.White, 1e-6) {
		t.Errorf("grazing got %v", got)
	}
}

func TestFinishDefaults(t *testing.T) {
	f := NewFinish()
	if f.Lit() != true || f.Reflects() {
		t.Error("default finish should be diffuse and not reflective")
	}
	if f.Diffuse != 0.6 || f.PhongSize != 40 || f.ReflectExp != 1 {
		t.Errorf("unexpected defaults %+v", f)
	}
}
