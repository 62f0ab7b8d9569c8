package pattern

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/noise"
	"github.com/df07/go-trace-core/pkg/warp"
)

const tolerance = 1e-9

// constKind returns a fixed raw value
type constKind struct{ v float64 }

func (k *constKind) Raw(p core.Vec3, e *Eval) float64 { return k.v }

func TestWaveModifiers(t *testing.T) {
	tests := []struct {
		name string
		wave Wave
		raw  float64
		want float64
	}{
		{"Ramp", Wave{Type: RampWave, Frequency: 1}, 0.3, 0.3},
		{"Frequency wraps", Wave{Type: RampWave, Frequency: 2}, 0.6, math.Mod(1.2, 1.00001)},
		{"Phase", Wave{Type: RampWave, Frequency: 1, Phase: 0.25}, 0.5, 0.75},
		{"Negative frequency", Wave{Type: RampWave, Frequency: -1}, 0.3, 0.7},
		{"Zero frequency keeps value", Wave{Type: RampWave}, 1.7, 1.7},
		{"Sine peak", Wave{Type: SineWave, Frequency: 1}, 0.25, 1.0},
		{"Triangle rising", Wave{Type: TriangleWave, Frequency: 1}, 0.25, 0.5},
		{"Triangle falling", Wave{Type: TriangleWave, Frequency: 1}, 0.75, 0.5},
		{"Scallop", Wave{Type: ScallopWave, Frequency: 1}, 0.5, math.Abs(math.Sin(0.25 * 2 * math.Pi))},
		{"Cubic midpoint", Wave{Type: CubicWave, Frequency: 1}, 0.5, 0.5},
		{"Poly", Wave{Type: PolyWave, Frequency: 1, Exponent: 2}, 0.3, 0.09},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pattern{Kind: &constKind{tt.raw}, Wave: tt.wave}
			got := p.Evaluate(core.Vec3{}, NewContext(noise.Original), nil)
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseWaveType(t *testing.T) {
	if w, err := ParseWaveType("scallop_wave"); err != nil || w != ScallopWave {
		t.Errorf("got %v, %v", w, err)
	}
	if _, err := ParseWaveType("square_wave"); !errors.Is(err, core.ErrUnknownPattern) {
		t.Errorf("expected ErrUnknownPattern, got %v", err)
	}
}

func TestDiscretePatternsIgnoreWaves(t *testing.T) {
	p, _ := New("checker")
	p.Wave = Wave{Type: SineWave, Frequency: 3}
	ctx := NewContext(noise.Original)
	if got := p.Evaluate(core.NewVec3(1.5, 0.5, 0.5), ctx, nil); got != 1 {
		t.Errorf("checker got %v", got)
	}
}

func TestBlendMapSearch(t *testing.T) {
	m := NewBlendMap(
		BlendEntry[string]{Key: 0, Value: "a"},
		BlendEntry[string]{Key: 0.5, Value: "b"},
		BlendEntry[string]{Key: 1, Value: "c"},
	)
	tests := []struct {
		value      float64
		prev, cur  string
		prevWeight float64
	}{
		{-1, "a", "a", 0},
		{0, "a", "a", 0},
		{0.25, "a", "b", 0.5},
		{0.5, "b", "b", 0},
		{0.875, "b", "c", 0.25},
		{1, "c", "c", 0},
		{3, "c", "c", 0},
	}
	for _, tt := range tests {
		prev, cur, pw, cw := m.Search(tt.value)
		if prev.Value != tt.prev || cur.Value != tt.cur {
			t.Errorf("Search(%v) = %s, %s", tt.value, prev.Value, cur.Value)
		}
		if math.Abs(pw-tt.prevWeight) > tolerance || math.Abs(pw+cw-1) > tolerance {
			t.Errorf("Search(%v) weights %v, %v", tt.value, pw, cw)
		}
	}
}

func TestScalarPatterns(t *testing.T) {
	ctx := NewContext(noise.Original)
	tests := []struct {
		name  string
		kind  Kind
		point core.Vec3
		want  float64
	}{
		{"Checker even", &Checker{}, core.NewVec3(0.5, 0.5, 0.5), 0},
		{"Checker odd", &Checker{}, core.NewVec3(-0.5, 0.5, 0.5), 1},
		{"Brick mortar", NewBrick(), core.NewVec3(1, -0.2, 1), 0},
		{"Brick body", NewBrick(), core.NewVec3(2, 1.5, 0), 1},
		{"Gradient", &Gradient{Vector: core.NewVec3(0, 1, 0)}, core.NewVec3(5, 2.5, 5), 0.5},
		{"Leopard", &Leopard{}, core.NewVec3(math.Pi/2, math.Pi/2, math.Pi/2), 1},
		{"Onion", &Onion{}, core.NewVec3(0, 2.5, 0), 0.5},
		{"Spherical inside", &Spherical{}, core.NewVec3(0.25, 0, 0), 0.75},
		{"Spherical outside", &Spherical{}, core.NewVec3(2, 0, 0), 0},
		{"Cylindrical ignores Y", &Cylindrical{}, core.NewVec3(0, 9, 0.5), 0.5},
		{"Planar", &Planar{}, core.NewVec3(9, -0.25, 9), 0.75},
		{"Boxed", &Boxed{}, core.NewVec3(0.1, -0.5, 0.2), 0.5},
		{"Radial pole", &Radial{}, core.Vec3{}, 0.25},
		{"Radial +Z", &Radial{}, core.NewVec3(0, 0, 1), 0.75},
		{"Cubic +Y", &Cubic{}, core.NewVec3(0, 2, 1), 1},
		{"Cubic -Z", &Cubic{}, core.NewVec3(0, 0, -1), 5},
		{"Square 0", &Square{}, core.NewVec3(0.5, 0, 0.5), 0},
		{"Square 1", &Square{}, core.NewVec3(0.5, 0, 1.5), 1},
		{"Square 2", &Square{}, core.NewVec3(1.5, 0, 1.5), 2},
		{"Square 3", &Square{}, core.NewVec3(1.5, 0, 0.5), 3},
		{"Hexagon origin", &Hexagon{}, core.Vec3{}, 0},
		{"Hexagon north", &Hexagon{}, core.NewVec3(0, 0, 1), 1},
		{"Hexagon east", &Hexagon{}, core.NewVec3(1.25, 0, 0), 2},
		{"Marble without turbulence", &Marble{}, core.NewVec3(0.4, 3, 3), 0.4},
		{"Wood without turbulence", &Wood{}, core.NewVec3(0.3, 0.4, 7), 0.5},
		{"Spiral1 on axis", &Spiral1{Arms: 2}, core.NewVec3(0, 0, 0.25), 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPattern(tt.kind)
			if got := p.Evaluate(tt.point, ctx, nil); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNoisePatternsStayInRange(t *testing.T) {
	ctx := NewContext(noise.Original)
	kinds := []Kind{&Bozo{}, &Bumps{}, &Spotted{}, &Dents{}, &Cells{}, &Ripples{}, &Quilted{Control0: 1, Control1: 1}}
	for _, kind := range kinds {
		p := NewPattern(kind)
		for i := 0; i < 500; i++ {
			pt := core.NewVec3(float64(i)*0.37-90, float64(i)*0.11, float64(i)*-0.53)
			v := p.Evaluate(pt, ctx, nil)
			if v < 0 || v > 1.00001 {
				t.Fatalf("%T at %v = %v", kind, pt, v)
			}
		}
	}
}

func TestCellsConstantWithinCell(t *testing.T) {
	ctx := NewContext(noise.Original)
	p := NewPattern(&Cells{})
	a := p.Evaluate(core.NewVec3(3.1, -2.9, 0.2), ctx, nil)
	b := p.Evaluate(core.NewVec3(3.9, -2.1, 0.8), ctx, nil)
	if a != b {
		t.Errorf("cells differ within one cube: %v vs %v", a, b)
	}
}

func TestGraniteAndWrinklesDependOnGenerator(t *testing.T) {
	pt := core.NewVec3(0.31, 0.72, -1.3)
	for _, kind := range []Kind{&Granite{}, &Wrinkles{}} {
		p := NewPattern(kind)
		p.Wave.Frequency = 0
		orig := p.Evaluate(pt, NewContext(noise.Original), nil)
		if orig < 0 {
			t.Errorf("%T negative: %v", kind, orig)
		}
		p.Generator = noise.Original
		if got := p.Evaluate(pt, NewContext(noise.Perlin), nil); got != orig {
			t.Errorf("%T pattern generator should override the context", kind)
		}
	}
}

func TestSlope(t *testing.T) {
	ctx := NewContext(noise.Original)
	p := NewPattern(&Slope{Vector: core.NewVec3(0, 1, 0), SlopeLen: 1})
	p.Wave.Frequency = 0

	tests := []struct {
		name   string
		normal core.Vec3
		want   float64
	}{
		{"Facing up", core.NewVec3(0, 1, 0), 1 - epsilon},
		{"Vertical wall", core.NewVec3(1, 0, 0), 0.5},
		{"Facing down", core.NewVec3(0, -1, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Evaluate(core.Vec3{}, ctx, &Hit{Normal: tt.normal})
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
	if got := p.Evaluate(core.Vec3{}, ctx, nil); got != 0 {
		t.Errorf("slope away from a surface should be 0, got %v", got)
	}
}

func TestAOI(t *testing.T) {
	p := NewPattern(&AOI{})
	hit := &Hit{Normal: core.NewVec3(0, 0, 2), Direction: core.NewVec3(0, 0, -1)}
	p.Wave.Frequency = 0
	if got := p.Evaluate(core.Vec3{}, nil, hit); math.Abs(got-1) > tolerance {
		t.Errorf("head-on hit got %v", got)
	}
}

func TestNew(t *testing.T) {
	if _, err := New("mandelbrot"); !errors.Is(err, core.ErrUnknownPattern) {
		t.Errorf("expected ErrUnknownPattern, got %v", err)
	}
	agate, err := New("agate")
	if err != nil {
		t.Fatal(err)
	}
	if agate.Warps.ClassicTurbulence() == nil {
		t.Error("agate always carries turbulence")
	}
	v := agate.Value(core.NewVec3(0.2, 0.3, 0.4), NewContext(noise.Original), nil)
	if v < 0 || v > 1 {
		t.Errorf("agate out of range: %v", v)
	}
}

func TestAddTurbulence(t *testing.T) {
	marble, _ := New("marble")
	if !marble.AddTurbulence(core.NewVec3(1, 1, 1)).HandledByPattern {
		t.Error("marble reads its own turbulence")
	}
	bozo, _ := New("bozo")
	if bozo.AddTurbulence(core.NewVec3(1, 1, 1)).HandledByPattern {
		t.Error("bozo turbulence should displace the point")
	}

	bozo.AddWarp(warp.NewScale(core.NewVec3(2, 2, 2)))
	if bozo.Warps.ClassicTurbulence() == nil || len(bozo.Warps) != 2 {
		t.Error("classic turbulence must remain the last warp")
	}

	p := core.NewVec3(0.3, 0.1, 0.9)
	ctx := NewContext(noise.Original)
	marble.AddTurbulence(core.NewVec3(0.5, 0, 0))
	turb := marble.Warps.ClassicTurbulence()
	want := p.X + 0.5*noise.TurbulenceValue(p, &turb.Turbulence, noise.Original)
	marble.Wave.Frequency = 0
	if got := marble.Value(p, ctx, nil); math.Abs(got-want) > tolerance {
		t.Errorf("marble got %v, want %v", got, want)
	}
}

func TestPatternClone(t *testing.T) {
	p, _ := New("bozo")
	p.AddWarp(warp.NewRepeat(0, 1))
	c := p.Clone()
	c.Warps[0].(*warp.Repeat).Width = 3
	if p.Warps[0].(*warp.Repeat).Width != 1 {
		t.Error("clone shares warps")
	}
}

func TestQuiltCubicEnds(t *testing.T) {
	if quiltCubic(0, 0.3, 0.7) != 0 {
		t.Error("quilt cubic should start at 0")
	}
	if math.Abs(quiltCubic(1, 0.3, 0.7)-invSqrt34) > tolerance {
		t.Error("quilt cubic should end at its scale")
	}
}

func TestTriangleWaveAndCycloidal(t *testing.T) {
	tests := []struct {
		in, tri float64
	}{
		{0, 0}, {0.25, 0.5}, {0.5, 1}, {1.25, 0.5}, {-0.25, 0.5},
	}
	for _, tt := range tests {
		if got := triangleWave(tt.in); math.Abs(got-tt.tri) > tolerance {
			t.Errorf("triangleWave(%v) = %v", tt.in, got)
		}
	}
	if math.Abs(cycloidal(-0.25)+1) > tolerance || math.Abs(cycloidal(1.25)-1) > tolerance {
		t.Error("cycloidal should be sin(2 pi v)")
	}
}
