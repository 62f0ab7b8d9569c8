// Package lights describes light sources and the attenuation of their
// light with direction and distance.
package lights

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/object"
)

const epsilon = 1e-10

// Type is the emission shape of a light
type Type int

const (
	Point Type = iota
	// Spot restricts light to a cone around Direction
	Spot
	// Cylinder restricts light to a cylinder around Direction
	Cylinder
	// Fill lights never cast shadows or highlights
	Fill
)

// Light is a light source as the trace engine sees it
type Light struct {
	Type      Type
	Center    core.Vec3
	PointsAt  core.Vec3
	Direction core.Vec3
	Colour    core.Colour

	// Coeff is the spot tightness exponent
	Coeff float64
	// Radius and Falloff are cosines of the cone angles for spots and
	// distances from the axis for cylinders
	Radius  float64
	Falloff float64

	FadeDistance float64
	FadePower    float64

	// Parallel lights shine along Direction from everywhere
	Parallel bool

	Area          bool
	AreaSize1     int
	AreaSize2     int
	Axis1, Axis2  core.Vec3
	Jitter        bool
	Circular      bool
	Orient        bool
	AdaptiveLevel int
	// FullAreaLighting shades every area sample individually instead of
	// averaging the shadow test
	FullAreaLighting bool

	// ProjectedThrough gates the light: only rays passing through this
	// object are lit
	ProjectedThrough object.Object

	// InLightGroup marks object-local lights, which never use the shadow
	// object cache
	InLightGroup bool

	MediaInteraction bool
	MediaAttenuation bool
}

func newLight(t Type, center core.Vec3, colour core.Colour) *Light {
	return &Light{
		Type:             t,
		Center:           center,
		PointsAt:         core.NewVec3(0, 0, 1),
		Direction:        core.NewVec3(0, 0, 1),
		Colour:           colour,
		Axis1:            core.NewVec3(0, 0, 1),
		Axis2:            core.NewVec3(0, 1, 0),
		AdaptiveLevel:    100,
		MediaInteraction: true,
	}
}

// NewPointLight creates a light shining in every direction
func NewPointLight(center core.Vec3, colour core.Colour) *Light {
	return newLight(Point, center, colour)
}

// NewFillLight creates a shadowless light
func NewFillLight(center core.Vec3, colour core.Colour) *Light {
	return newLight(Fill, center, colour)
}

// NewSpotLight creates a cone light. radius is the half angle of the
// fully lit cone and falloff the half angle where light reaches zero, both
// in degrees.
func NewSpotLight(center, pointsAt core.Vec3, colour core.Colour, radius, falloff, tightness float64) *Light {
	l := newLight(Spot, center, colour)
	l.aim(pointsAt)
	l.Radius = math.Cos(radius * math.Pi / 180)
	l.Falloff = math.Cos(falloff * math.Pi / 180)
	l.Coeff = tightness
	return l
}

// NewCylinderLight creates a light lit within radius of its axis and
// fading to zero at falloff
func NewCylinderLight(center, pointsAt core.Vec3, colour core.Colour, radius, falloff, tightness float64) *Light {
	l := newLight(Cylinder, center, colour)
	l.aim(pointsAt)
	l.Radius = radius
	l.Falloff = falloff
	l.Coeff = tightness
	return l
}

// NewParallelLight creates a light whose rays all travel from center
// towards pointsAt
func NewParallelLight(center, pointsAt core.Vec3, colour core.Colour) *Light {
	l := newLight(Point, center, colour)
	l.aim(pointsAt)
	l.Parallel = true
	return l
}

// MakeArea turns the light into a size1 x size2 grid spanned by the axes
func (l *Light) MakeArea(axis1, axis2 core.Vec3, size1, size2 int) *Light {
	l.Area = true
	l.Axis1, l.Axis2 = axis1, axis2
	l.AreaSize1, l.AreaSize2 = max(size1, 1), max(size2, 1)
	return l
}

func (l *Light) aim(pointsAt core.Vec3) {
	l.PointsAt = pointsAt
	l.Direction = pointsAt.Subtract(l.Center).Normalize()
}

// CastsShadows reports whether shadow rays are traced for the light
func (l *Light) CastsShadows() bool {
	return l.Type != Fill || l.ProjectedThrough != nil
}

// WhiteRay returns the unit direction from point towards the light centre
// displaced by jitter, and the distance to it along that direction
func (l *Light) WhiteRay(point, jitter core.Vec3) (dir core.Vec3, depth float64) {
	center := l.Center.Add(jitter)

	if l.Type == Cylinder {
		dir = center.Subtract(l.PointsAt)
		depth = center.Subtract(point).Dot(dir) / dir.Length()
	} else {
		dir = center.Subtract(point)
		depth = dir.Length()
	}
	dir = dir.Normalize()

	if l.Parallel {
		if l.Area {
			v1 := center.Subtract(l.PointsAt).Normalize()
			depth *= v1.Dot(dir)
			dir = v1
		} else {
			depth *= -l.Direction.Dot(dir)
			dir = l.Direction.Negate()
		}
	}
	return dir, depth
}

// Attenuate returns the fraction of light reaching origin along a light
// ray pointing towards the light, distance away
func (l *Light) Attenuate(origin, dir core.Vec3, distance float64) float64 {
	att := 1.0

	switch l.Type {
	case Spot:
		cos := dir.Dot(l.Direction)
		if distance > 0.0 {
			cos = -cos
		}
		if cos <= 0.0 {
			return 0.0
		}
		att = math.Pow(cos, l.Coeff)
		if l.Radius > 0.0 && cos < l.Radius {
			att *= CubicSpline(l.Falloff, l.Radius, cos)
		}

	case Cylinder:
		v1 := origin.Subtract(l.Center)
		k := v1.Dot(l.Direction)
		if k <= 0.0 {
			return 0.0
		}
		length := v1.Subtract(l.Direction.Multiply(k)).Length()
		if length >= l.Falloff {
			return 0.0
		}
		d := 1.0 - length/l.Falloff
		att = math.Pow(d, l.Coeff)
		if l.Radius > 0.0 && length > l.Radius {
			att *= CubicSpline(0.0, 1.0-l.Radius/l.Falloff, d)
		}
	}

	if att > 0.0 && l.FadePower > 0.0 {
		if math.Abs(l.FadeDistance) >= epsilon {
			att *= 2.0 / (1.0 + math.Pow(distance/l.FadeDistance, l.FadePower))
		} else {
			att *= math.Pow(distance, -l.FadePower)
		}
	}
	return att
}

// CubicSpline is a smoothstep from 0 at low to 1 at high
func CubicSpline(low, high, pos float64) float64 {
	if pos < low {
		return 0.0
	}
	if pos >= high {
		return 1.0
	}
	p := (pos - low) / (high - low)
	return (3.0 - 2.0*p) * p * p
}

// OrientedAxes returns area axes perpendicular to dir, both as long as
// Axis1, so the light faces the shaded point
func (l *Light) OrientedAxes(dir core.Vec3) (core.Vec3, core.Vec3) {
	length := l.Axis1.Length()
	temp := core.NewVec3(0, 0, 1)
	if math.Abs(math.Abs(dir.Z)-1.0) < 0.01 {
		temp = core.NewVec3(0, 1, 0)
	}
	a1 := dir.Cross(temp).Normalize()
	a2 := dir.Cross(a1).Normalize()
	return a1.Multiply(length), a2.Multiply(length)
}

// GridOffset maps grid coordinates (u, v), possibly jittered, to the
// displacement from the light centre along the given axes
func (l *Light) GridOffset(u, v float64, axis1, axis2 core.Vec3) core.Vec3 {
	if l.Circular {
		u = u/float64(l.AreaSize1-1) - 0.5 + 0.001
		v = v/float64(l.AreaSize2-1) - 0.5 + 0.001
		scale := math.Max(math.Abs(u), math.Abs(v)) / math.Sqrt(u*u+v*v)
		return axis1.Multiply(u * scale).Add(axis2.Multiply(v * scale))
	}

	var offset core.Vec3
	if l.AreaSize1 > 1 {
		offset = axis1.Multiply(u/float64(l.AreaSize1-1) - 0.5)
	}
	if l.AreaSize2 > 1 {
		offset = offset.Add(axis2.Multiply(v/float64(l.AreaSize2-1) - 0.5))
	}
	return offset
}
