package geometry

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
)

// Disc is a flat ring between HoleRadius and Radius around Center. Like a
// plane, the half space behind its normal is its inside.
type Disc struct {
	object.Base
	Center     core.Vec3
	Facing     core.Vec3
	Radius     float64
	HoleRadius float64
	right, up  core.Vec3
}

// NewDisc creates a disc without a hole
func NewDisc(center, normal core.Vec3, radius float64, texture *material.Texture) *Disc {
	n := normal.Normalize()
	right, up := tangents(n)
	return &Disc{
		Base:   object.Base{Texture: texture},
		Center: center,
		Facing: n,
		Radius: radius,
		right:  right,
		up:     up,
	}
}

// Bounds encloses the rim of the disc
func (d *Disc) Bounds() core.AABB {
	// extent along each axis of a circle perpendicular to the normal
	ext := core.NewVec3(
		d.Radius*math.Sqrt(math.Max(0, 1-d.Facing.X*d.Facing.X)),
		d.Radius*math.Sqrt(math.Max(0, 1-d.Facing.Y*d.Facing.Y)),
		d.Radius*math.Sqrt(math.Max(0, 1-d.Facing.Z*d.Facing.Z)),
	)
	return core.NewAABB(d.Center.Subtract(ext), d.Center.Add(ext)).Expand(1e-6)
}

// AllIntersections pushes the plane crossing when it falls on the ring
func (d *Disc) AllIntersections(ray *core.Ray, depths *object.IStack) bool {
	denom := d.Facing.Dot(ray.Direction)
	if math.Abs(denom) < 1e-10 {
		return false
	}
	t := d.Facing.Dot(d.Center.Subtract(ray.Origin)) / denom
	r2 := ray.At(t).Subtract(d.Center).LengthSquared()
	if r2 > d.Radius*d.Radius || r2 < d.HoleRadius*d.HoleRadius {
		return false
	}
	return pushHit(d, ray, t, depths)
}

// Inside reports whether p lies behind the disc's plane
func (d *Disc) Inside(p core.Vec3) bool {
	in := p.Subtract(d.Center).Dot(d.Facing) < 0
	return in != d.Has(object.Inverted)
}

// Normal is constant over the disc
func (d *Disc) Normal(p core.Vec3, isect *object.Intersection) core.Vec3 {
	return d.Facing
}

// UVCoord maps the angle around the center to u and the radius to v
func (d *Disc) UVCoord(isect *object.Intersection) core.Vec2 {
	off := isect.IPoint.Subtract(d.Center)
	x, y := off.Dot(d.right), off.Dot(d.up)
	u := (math.Atan2(y, x) + math.Pi) / (2 * math.Pi)
	return core.Vec2{U: u, V: math.Sqrt(x*x+y*y) / d.Radius}
}
