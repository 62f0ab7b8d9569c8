// Package pattern evaluates procedural patterns and the normal
// perturbations built from them.
package pattern

import (
	"fmt"
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/noise"
	"github.com/df07/go-trace-core/pkg/warp"
)

// Hit is the surface information a few patterns read (slope, angle of
// incidence, UV mapping). Patterns evaluated away from a surface get nil.
type Hit struct {
	Point     core.Vec3
	Normal    core.Vec3
	Direction core.Vec3
	UV        core.Vec2
}

// Kind is one pattern type
type Kind interface {
	// Raw returns the pattern value at a point already in pattern space
	Raw(p core.Vec3, e *Eval) float64
}

// Discrete is implemented by kinds that return a small set of integral
// values. Wave modifiers are not applied to them.
type Discrete interface {
	Entries() int
}

// turbulenceReader is implemented by kinds that read the classic
// turbulence parameters themselves instead of having the point displaced
type turbulenceReader interface {
	readsTurbulence()
}

// Eval is passed to Raw; it lives on the caller's stack
type Eval struct {
	Ctx       *Context
	Pattern   *Pattern
	Hit       *Hit
	Generator noise.Generator
}

// Turbulence returns the classic turbulence of the pattern being evaluated
func (e *Eval) Turbulence() *warp.ClassicTurbulence {
	return e.Pattern.Warps.ClassicTurbulence()
}

// WaveType shapes the value of continuous patterns
type WaveType int

const (
	RampWave WaveType = iota
	SineWave
	TriangleWave
	ScallopWave
	CubicWave
	PolyWave
)

// ParseWaveType returns the wave type with the given scene name
func ParseWaveType(name string) (WaveType, error) {
	switch name {
	case "ramp_wave":
		return RampWave, nil
	case "sine_wave":
		return SineWave, nil
	case "triangle_wave":
		return TriangleWave, nil
	case "scallop_wave":
		return ScallopWave, nil
	case "cubic_wave":
		return CubicWave, nil
	case "poly_wave":
		return PolyWave, nil
	}
	return RampWave, fmt.Errorf("wave %q: %w", name, core.ErrUnknownPattern)
}

// Wave holds the modifiers applied to continuous pattern values
type Wave struct {
	Type      WaveType
	Frequency float64
	Phase     float64
	Exponent  float64
}

// DefaultWave is a ramp with unit frequency
func DefaultWave() Wave {
	return Wave{Type: RampWave, Frequency: 1, Exponent: 1}
}

func (w Wave) apply(value float64) float64 {
	if w.Frequency != 0.0 {
		value = math.Mod(value*w.Frequency+w.Phase, 1.00001)
	}

	// Negative frequencies wrap back into [0, 1)
	if value < 0.0 {
		value -= math.Floor(value)
	}

	switch w.Type {
	case SineWave:
		value = (1.0 + cycloidal(value)) * 0.5
	case TriangleWave:
		value = triangleWave(value)
	case ScallopWave:
		value = math.Abs(cycloidal(value * 0.5))
	case CubicWave:
		value = value * value * (-2.0*value + 3.0)
	case PolyWave:
		value = math.Pow(value, w.Exponent)
	}
	return value
}

// Pattern is a pattern kind together with its own warps, noise generator
// and wave modifiers
type Pattern struct {
	Kind      Kind
	Generator noise.Generator
	Warps     warp.List
	Wave      Wave
}

// NewPattern wraps a kind with default modifiers
func NewPattern(kind Kind) *Pattern {
	return &Pattern{Kind: kind, Wave: DefaultWave()}
}

// New creates a pattern by its scene name with default parameters
func New(name string) (*Pattern, error) {
	var kind Kind
	switch name {
	case "agate":
		kind = &Agate{TurbScale: 1}
	case "aoi":
		kind = &AOI{}
	case "average":
		kind = &Average{}
	case "boxed":
		kind = &Boxed{}
	case "bozo":
		kind = &Bozo{}
	case "brick":
		kind = NewBrick()
	case "bumps":
		kind = &Bumps{}
	case "cells":
		kind = &Cells{}
	case "checker":
		kind = &Checker{}
	case "cubic":
		kind = &Cubic{}
	case "cylindrical":
		kind = &Cylindrical{}
	case "dents":
		kind = &Dents{}
	case "facets":
		kind = &Facets{Size: 0.1, Metric: 2}
	case "gradient":
		kind = &Gradient{Vector: core.NewVec3(0, 1, 0)}
	case "granite":
		kind = &Granite{}
	case "hexagon":
		kind = &Hexagon{}
	case "leopard":
		kind = &Leopard{}
	case "marble":
		kind = &Marble{}
	case "onion":
		kind = &Onion{}
	case "planar":
		kind = &Planar{}
	case "quilted":
		kind = &Quilted{Control0: 1, Control1: 1}
	case "radial":
		kind = &Radial{}
	case "ripples":
		kind = &Ripples{}
	case "slope":
		kind = &Slope{Vector: core.NewVec3(0, 1, 0), SlopeLen: 1}
	case "spherical":
		kind = &Spherical{}
	case "spiral1":
		kind = &Spiral1{Arms: 1}
	case "spiral2":
		kind = &Spiral2{Arms: 1}
	case "spotted":
		kind = &Spotted{}
	case "square":
		kind = &Square{}
	case "waves":
		kind = &Waves{}
	case "wood":
		kind = &Wood{}
	case "wrinkles":
		kind = &Wrinkles{}
	default:
		return nil, fmt.Errorf("pattern %q: %w", name, core.ErrUnknownPattern)
	}

	p := NewPattern(kind)
	if _, ok := kind.(*Agate); ok {
		p.AddTurbulence(core.Vec3{})
	}
	return p, nil
}

// AddTurbulence attaches classic turbulence to the pattern. Kinds that read
// the turbulence themselves get a warp that leaves the point alone.
func (p *Pattern) AddTurbulence(amount core.Vec3) *warp.ClassicTurbulence {
	if t := p.Warps.ClassicTurbulence(); t != nil {
		t.Amplitude = amount
		return t
	}
	_, handled := p.Kind.(turbulenceReader)
	t := warp.NewClassicTurbulence(amount, handled)
	p.Warps = append(p.Warps, t)
	return t
}

// AddWarp appends a warp. Classic turbulence stays last.
func (p *Pattern) AddWarp(w warp.Warp) {
	if t := p.Warps.ClassicTurbulence(); t != nil {
		p.Warps = append(p.Warps[:len(p.Warps)-1], w, t)
		return
	}
	p.Warps = append(p.Warps, w)
}

// WarpPoint maps a point into the pattern's space
func (p *Pattern) WarpPoint(point core.Vec3) core.Vec3 {
	return p.Warps.EPoint(point)
}

// Evaluate returns the pattern value at a point already in pattern space
func (p *Pattern) Evaluate(point core.Vec3, ctx *Context, hit *Hit) float64 {
	e := Eval{Ctx: ctx, Pattern: p, Hit: hit, Generator: ctx.resolve(p.Generator)}
	value := p.Kind.Raw(point, &e)
	if _, ok := p.Kind.(Discrete); ok {
		return value
	}
	return p.Wave.apply(value)
}

// Value warps a point and evaluates the pattern there
func (p *Pattern) Value(point core.Vec3, ctx *Context, hit *Hit) float64 {
	return p.Evaluate(p.WarpPoint(point), ctx, hit)
}

// Clone deep-copies the pattern's warps; kinds are immutable and shared
func (p *Pattern) Clone() *Pattern {
	c := *p
	c.Warps = p.Warps.Clone()
	return &c
}

// cycloidal is sin(2 pi v) evaluated on the fractional part of v
func cycloidal(value float64) float64 {
	if value >= 0.0 {
		return math.Sin((value-math.Floor(value))*50000.0/50000.0*2*math.Pi)
	}
	return -math.Sin((-(value+math.Floor(-value)))*50000.0/50000.0*2*math.Pi)
}

// triangleWave folds v into a 0..1..0 ramp with period 1
func triangleWave(value float64) float64 {
	var offset float64
	if value >= 0.0 {
		offset = value - math.Floor(value)
	} else {
		offset = value + 1.0 + math.Floor(math.Abs(value))
	}
	if offset >= 0.5 {
		return 2.0 * (1.0 - offset)
	}
	return 2.0 * offset
}

// clipDensity maps distances in [0, 1] to a falloff, 1 at the centre
func clipDensity(r float64) float64 {
	if r < 0.0 {
		return 1.0
	}
	if r > 1.0 {
		return 0.0
	}
	return 1.0 - r
}
