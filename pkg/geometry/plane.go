package geometry

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
)

// Plane represents an infinite plane defined by a point and normal. The
// half space behind the normal is its inside.
type Plane struct {
	object.Base
	Point core.Vec3
	// Facing is the unit normal on the outside of the plane
	Facing core.Vec3
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, texture *material.Texture) *Plane {
	return &Plane{
		Base:   object.Base{Texture: texture},
		Point:  point,
		Facing: normal.Normalize(),
	}
}

// Bounds is infinite; planes are tested outside any spatial index
func (p *Plane) Bounds() core.AABB {
	return core.InfiniteAABB()
}

// AllIntersections pushes the single crossing of the plane
func (p *Plane) AllIntersections(ray *core.Ray, depths *object.IStack) bool {
	denominator := ray.Direction.Dot(p.Facing)
	if math.Abs(denominator) < 1e-10 {
		return false
	}
	t := p.Point.Subtract(ray.Origin).Dot(p.Facing) / denominator
	return pushHit(p, ray, t, depths)
}

// Inside reports whether pt lies behind the plane
func (p *Plane) Inside(pt core.Vec3) bool {
	in := pt.Subtract(p.Point).Dot(p.Facing) < 0
	return in != p.Has(object.Inverted)
}

// Normal is constant over the plane
func (p *Plane) Normal(pt core.Vec3, isect *object.Intersection) core.Vec3 {
	return p.Facing
}

// UVCoord tiles the plane with unit squares along its tangents
func (p *Plane) UVCoord(isect *object.Intersection) core.Vec2 {
	tu, tv := tangents(p.Facing)
	d := isect.IPoint.Subtract(p.Point)
	return core.Vec2{U: fract(d.Dot(tu)), V: fract(d.Dot(tv))}
}
