package geometry

import (
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
)

// Triangle is a flat, open triangle. It has no inside; the side its
// normal points to is treated as the outside for Inside tests.
type Triangle struct {
	object.Base
	V0, V1, V2 core.Vec3
	normal     core.Vec3
}

// NewTriangle creates a triangle; its normal follows the winding V0, V1, V2
func NewTriangle(v0, v1, v2 core.Vec3, texture *material.Texture) *Triangle {
	return &Triangle{
		Base:   object.Base{Texture: texture},
		V0:     v0,
		V1:     v1,
		V2:     v2,
		normal: v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize(),
	}
}

// Bounds encloses the three vertices
func (t *Triangle) Bounds() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2)
}

// AllIntersections uses the Möller-Trumbore test
func (t *Triangle) AllIntersections(ray *core.Ray, depths *object.IStack) bool {
	const epsilon = 1e-12

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return false
	}
	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return false
	}
	return pushHit(t, ray, f*edge2.Dot(q), depths)
}

// Inside is always false unless the triangle is inverted
func (t *Triangle) Inside(p core.Vec3) bool {
	return t.Has(object.Inverted)
}

// Normal is constant over the triangle
func (t *Triangle) Normal(p core.Vec3, isect *object.Intersection) core.Vec3 {
	return t.normal
}

// UVCoord returns the barycentric weights of V1 and V2
func (t *Triangle) UVCoord(isect *object.Intersection) core.Vec2 {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	d := isect.IPoint.Subtract(t.V0)

	d11, d12, d22 := edge1.Dot(edge1), edge1.Dot(edge2), edge2.Dot(edge2)
	denom := d11*d22 - d12*d12
	if denom == 0 {
		return core.Vec2{}
	}
	p1, p2 := d.Dot(edge1), d.Dot(edge2)
	return core.Vec2{U: (d22*p1 - d12*p2) / denom, V: (d11*p2 - d12*p1) / denom}
}
