package scene

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/noise"
	"github.com/df07/go-trace-core/pkg/pattern"
	"github.com/df07/go-trace-core/pkg/warp"
)

const epsilon = 1e-10

// FogType selects the density profile of a fog
type FogType int

const (
	// ConstantFog has the same density everywhere
	ConstantFog FogType = iota
	// GroundFog is dense below Offset and thins out above it as 1/(y²+1)
	GroundFog
)

// Fog attenuates everything behind it towards its colour
type Fog struct {
	Type     FogType
	Distance float64
	Colour   core.TransColour

	// Turbulence varies the fog thickness; nil for smooth fog
	Turbulence *noise.Turbulence
	TurbDepth  float64

	// Ground fog height profile
	Offset float64
	Alt    float64
	Up     core.Vec3
}

// NewConstantFog creates a smooth fog of the given colour
func NewConstantFog(distance float64, colour core.TransColour) *Fog {
	return &Fog{Type: ConstantFog, Distance: distance, Colour: colour, TurbDepth: 0.5, Up: core.NewVec3(0, 1, 0)}
}

// NewGroundFog creates a fog that thins out above offset
func NewGroundFog(distance float64, colour core.TransColour, offset, alt float64) *Fog {
	f := NewConstantFog(distance, colour)
	f.Type = GroundFog
	f.Offset = offset
	f.Alt = alt
	return f
}

// attenuation is the fraction of light surviving width units of fog along
// the ray starting at depth
func (f *Fog) attenuation(origin, dir core.Vec3, depth, width float64, g noise.Generator) float64 {
	if f.Type == GroundFog {
		return f.groundAttenuation(origin, dir, depth, width, g)
	}

	if f.Turbulence != nil {
		depth += width / 2.0
		p := origin.Add(dir.Multiply(depth)).MultiplyVec(f.Turbulence.Amplitude)
		width = f.turbulentWidth(p, width, g)
	}
	return math.Exp(-width / f.Distance)
}

// turbulentWidth thins or thickens the fog layer; the further away the
// less the turbulence matters
func (f *Fog) turbulentWidth(p core.Vec3, width float64, g noise.Generator) float64 {
	k := math.Exp(-width / f.Distance)
	return width * (1.0 - k*math.Min(1.0, noise.TurbulenceValue(p, f.Turbulence, g)*f.TurbDepth))
}

// groundAttenuation integrates the 1/(y²+1) density, which is 1 below the
// offset, between the two end points
func (f *Fog) groundAttenuation(origin, dir core.Vec3, depth, width float64, g noise.Generator) float64 {
	p1 := origin.Add(dir.Multiply(depth))
	p2 := p1.Add(dir.Multiply(width))

	start := (p1.Dot(f.Up) - f.Offset) / f.Alt
	end := (p2.Dot(f.Up) - f.Offset) / f.Alt

	var density float64
	switch {
	case start <= 0 && end <= 0:
		density = 1.0
	case start <= 0:
		density = (math.Atan(end) - start) / (end - start)
	case end <= 0:
		density = (math.Atan(start) - end) / (start - end)
	default:
		if delta := start - end; math.Abs(delta) > epsilon {
			density = (math.Atan(start) - math.Atan(end)) / delta
		} else {
			density = 1.0 / (start*start + 1.0)
		}
	}

	if f.Turbulence != nil {
		p := p1.Add(p2).Multiply(0.5).MultiplyVec(f.Turbulence.Amplitude)
		width = f.turbulentWidth(p, width, g)
	}
	return math.Exp(-width * density / f.Distance)
}

// ApplyFog folds every fog between the ray origin and depth into colour
// and transm. Shadow rays are only attenuated, never coloured.
func (s *SceneData) ApplyFog(origin, dir core.Vec3, depth float64, shadow bool, colour core.Colour, transm float64) (core.Colour, float64) {
	if len(s.Fogs) == 0 {
		return colour, transm
	}

	sumAtt := core.Grey(1)
	var sumCol core.Colour
	for _, fog := range s.Fogs {
		if math.Abs(fog.Distance) <= epsilon {
			continue
		}
		att := fog.attenuation(origin, dir, 0, depth, s.NoiseGenerator)

		// transmit is the least the fog lets through
		att = math.Max(att, fog.Colour.Transmit)

		filter := fog.Colour.Filter
		sumAtt = sumAtt.MultiplyColour(fog.Colour.Colour.Multiply(filter).AddScalar(1.0 - filter).Multiply(att))
		if !shadow {
			sumCol = sumCol.Add(fog.Colour.Colour.Multiply(1.0 - att))
		}
	}

	return sumCol.Add(sumAtt.MultiplyColour(colour)), transm * sumAtt.Greyscale()
}

// Rainbow is a coloured arc around the antisolar point
type Rainbow struct {
	Distance float64
	Jitter   float64
	// Angle is the inner radius of the arc and Width its thickness, both
	// in radians
	Angle float64
	Width float64

	// ArcAngle limits how far round the arc extends from Up
	ArcAngle     float64
	FalloffAngle float64
	FalloffWidth float64

	Antisolar core.Vec3
	Up        core.Vec3
	Right     core.Vec3

	// Pigment is evaluated at (index, 0, 0) with index in [0, 1) across
	// the arc
	Pigment *material.Pigment
}

// NewRainbow creates a full-circle rainbow with a red to violet pigment
func NewRainbow(antisolar, up core.Vec3, angleDeg, widthDeg, distance float64) *Rainbow {
	antisolar = antisolar.Normalize()
	right := up.Cross(antisolar).Normalize()
	up = antisolar.Cross(right).Normalize()
	p := pattern.NewPattern(&pattern.Gradient{Vector: core.NewVec3(1, 0, 0)})
	return &Rainbow{
		Distance:  distance,
		Angle:     angleDeg * math.Pi / 180,
		Width:     widthDeg * math.Pi / 180,
		ArcAngle:  math.Pi,
		Antisolar: antisolar,
		Up:        up,
		Right:     right,
		Pigment: material.NewColourMapPigment(p,
			pattern.BlendEntry[core.TransColour]{Key: 0.0, Value: core.NewTransColour(1.0, 0.5, 1.0, 0, 1.0)},
			pattern.BlendEntry[core.TransColour]{Key: 0.1, Value: core.NewTransColour(1.0, 0.5, 1.0, 0, 0.8)},
			pattern.BlendEntry[core.TransColour]{Key: 0.3, Value: core.NewTransColour(0.5, 0.5, 1.0, 0, 0.7)},
			pattern.BlendEntry[core.TransColour]{Key: 0.5, Value: core.NewTransColour(0.2, 1.0, 0.2, 0, 0.7)},
			pattern.BlendEntry[core.TransColour]{Key: 0.7, Value: core.NewTransColour(1.0, 1.0, 0.2, 0, 0.7)},
			pattern.BlendEntry[core.TransColour]{Key: 0.9, Value: core.NewTransColour(1.0, 0.2, 0.2, 0, 0.8)},
			pattern.BlendEntry[core.TransColour]{Key: 1.0, Value: core.NewTransColour(1.0, 0.2, 0.2, 0, 1.0)},
		),
	}
}

// ApplyRainbows blends every rainbow the ray passes through over colour.
// rand supplies jitter in [0, 1).
func (s *SceneData) ApplyRainbows(dir core.Vec3, depth float64, colour core.Colour, transm float64, ctx *pattern.Context, hit *pattern.Hit, rand func() float64) (core.Colour, float64, error) {
	var total core.Colour
	totalTransm := 1.0
	n := 0

	for _, rb := range s.Rainbows {
		if rb.Pigment == nil || rb.Distance == 0 || rb.Width == 0 {
			continue
		}

		// angle between the ray and the up vector, in the rainbow's plane
		x := dir.Dot(rb.Right)
		y := dir.Dot(rb.Up)
		if l := x*x + y*y; l > 0 {
			y /= math.Sqrt(l)
		}
		angle := math.Abs(math.Acos(math.Max(-1, math.Min(1, y))))
		if angle > rb.ArcAngle {
			continue
		}

		dot := dir.Dot(rb.Antisolar)
		if dot < 0 {
			continue
		}

		index := (math.Acos(math.Min(1, dot)) - rb.Angle) / rb.Width
		if rb.Jitter > 0 && rand != nil {
			index += (2.0*rand() - 1.0) * rb.Jitter
		}
		if index < 0 || index > 1.0-epsilon {
			continue
		}

		cr, _, err := rb.Pigment.Compute(core.NewVec3(index, 0, 0), ctx, hit)
		if err != nil {
			return colour, transm, err
		}

		fade := 0.0
		if rb.FalloffWidth > 0 && angle > rb.FalloffAngle {
			fade = (angle - rb.FalloffAngle) / rb.FalloffWidth
			fade = (3.0 - 2.0*fade) * fade * fade
		}

		k := math.Exp(-depth / rb.Distance)
		// the pigment's transmit is the least attenuation
		k = math.Max(k, fade*(1.0-cr.Transmit)+cr.Transmit)
		ki := 1.0 - k

		f := cr.Filter * ki
		total = total.Add(colour.MultiplyColour(cr.Colour.Multiply(f).AddScalar(1.0 - f)).Multiply(k)).Add(cr.Colour.Multiply(ki))
		totalTransm *= k * cr.Transmit
		n++
	}

	if n == 0 {
		return colour, transm, nil
	}
	return total.Divide(float64(n)), transm * totalTransm, nil
}

// SkySphere surrounds the scene at infinite distance. Pigments are layered
// with the last one innermost.
type SkySphere struct {
	Pigments []*material.Pigment
	Emission core.Colour
	// Transform is applied to ray directions before the pigment lookup
	Transform *warp.Transform
}

// NewSkySphere creates a sky sphere with unit emission
func NewSkySphere(pigments ...*material.Pigment) *SkySphere {
	return &SkySphere{Pigments: pigments, Emission: core.White}
}

// NewImageSkySphere wraps an image around the scene, its width running
// around the horizon and its height from the nadir to the zenith
func NewImageSkySphere(m *material.ImageMap) *SkySphere {
	p := material.NewImagePigment(m)
	p.Pattern = &pattern.Pattern{Warps: warp.List{&warp.Spherical{Mapping: warp.DefaultMapping()}}}
	return NewSkySphere(p)
}

func (sky *SkySphere) point(dir core.Vec3) core.Vec3 {
	if sky.Transform == nil {
		return dir
	}
	p, _ := sky.Transform.WarpPoint(dir)
	return p
}

// Sky returns the colour and transmittance seen by a ray that hits
// nothing. alpha reports the background as transparent for alpha-channel
// output.
func (s *SceneData) Sky(dir core.Vec3, alpha bool, ctx *pattern.Context) (core.Colour, float64, error) {
	if s.LanguageVersion < 370 {
		return s.legacySky(dir, alpha, ctx)
	}

	filCol := core.Grey(1)
	var col core.Colour

	if s.SkySphere != nil {
		p := s.SkySphere.point(dir)
		for i := len(s.SkySphere.Pigments) - 1; i >= 0; i-- {
			c, _, err := s.SkySphere.Pigments[i].Compute(p, ctx, nil)
			if err != nil {
				return col, 0, err
			}
			col = col.Add(c.Colour.Multiply(c.Opacity()).MultiplyColour(filCol).MultiplyColour(s.SkySphere.Emission))
			filCol = filCol.MultiplyColour(c.TransmittedColour())
		}
	}

	// the background behaves as one more uniform sky layer
	bg := s.Background
	if !alpha {
		bg.Filter, bg.Transmit = 0, 0
	}
	col = col.Add(bg.Colour.Multiply(bg.Opacity()).MultiplyColour(filCol))
	filCol = filCol.MultiplyColour(bg.TransmittedColour())

	return col, math.Min(1.0, math.Abs(filCol.Greyscale())), nil
}

func (s *SceneData) legacySky(dir core.Vec3, alpha bool, ctx *pattern.Context) (core.Colour, float64, error) {
	if alpha {
		return core.Colour{}, 1.0, nil
	}

	colour := s.Background.Colour
	transm := s.Background.Transmit
	if s.SkySphere == nil {
		return colour, transm, nil
	}

	var col core.Colour
	filterColour := core.Grey(1)
	filterFilter, filterTransm := 1.0, 1.0
	trans := 1.0

	p := s.SkySphere.point(dir)
	for i := len(s.SkySphere.Pigments) - 1; i >= 0; i-- {
		c, _, err := s.SkySphere.Pigments[i].Compute(p, ctx, nil)
		if err != nil {
			return colour, transm, err
		}
		att := trans * c.Opacity()
		col = col.Add(c.Colour.Multiply(att))

		filterColour = filterColour.MultiplyColour(c.Colour)
		filterFilter *= c.Filter
		filterTransm *= c.Transmit
		trans = math.Abs(filterFilter) + math.Abs(filterTransm)
	}

	col = col.MultiplyColour(s.SkySphere.Emission)
	through := filterColour.Multiply(filterFilter).AddScalar(filterTransm)
	return colour.MultiplyColour(through).Add(col), transm * filterTransm, nil
}
