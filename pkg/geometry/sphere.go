package geometry

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
)

// Sphere represents a sphere shape
type Sphere struct {
	object.Base
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, texture *material.Texture) *Sphere {
	return &Sphere{
		Base:   object.Base{Texture: texture},
		Center: center,
		Radius: radius,
	}
}

// Bounds returns the axis-aligned bounding box for this sphere
func (s *Sphere) Bounds() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// AllIntersections pushes both roots of the ray/sphere quadratic
func (s *Sphere) AllIntersections(ray *core.Ray, depths *object.IStack) bool {
	oc := ray.Origin.Subtract(s.Center)

	// at² + 2bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	found := pushHit(s, ray, (-halfB-sqrtD)/a, depths)
	if pushHit(s, ray, (-halfB+sqrtD)/a, depths) {
		found = true
	}
	return found
}

// Inside reports whether p lies within the sphere
func (s *Sphere) Inside(p core.Vec3) bool {
	in := p.Subtract(s.Center).LengthSquared() < s.Radius*s.Radius
	return in != s.Has(object.Inverted)
}

// Normal points from the center through the hit point
func (s *Sphere) Normal(p core.Vec3, isect *object.Intersection) core.Vec3 {
	return p.Subtract(s.Center).Multiply(1.0 / s.Radius)
}

// UVCoord maps longitude to u and latitude to v
func (s *Sphere) UVCoord(isect *object.Intersection) core.Vec2 {
	d := isect.IPoint.Subtract(s.Center).Normalize()
	u := (math.Atan2(d.X, d.Z) + math.Pi) / (2 * math.Pi)
	v := 1.0 - math.Acos(math.Max(-1, math.Min(1, d.Y)))/math.Pi
	return core.Vec2{U: u, V: v}
}
