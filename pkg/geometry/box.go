package geometry

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
)

// Face indexes the six sides of a box
type Face int

const (
	FaceMinX Face = iota
	FaceMaxX
	FaceMinY
	FaceMaxY
	FaceMinZ
	FaceMaxZ
)

// Box is an axis-aligned box. Faces may carry their own textures, in
// which case the box is multi-textured.
type Box struct {
	object.Base
	Min, Max core.Vec3
	// FaceTextures overrides the base texture per face where non-nil
	FaceTextures [6]*material.Texture
}

// NewBox creates a box spanning the two corners
func NewBox(corner1, corner2 core.Vec3, texture *material.Texture) *Box {
	b := core.NewAABBFromPoints(corner1, corner2)
	return &Box{
		Base: object.Base{Texture: texture},
		Min:  b.Min,
		Max:  b.Max,
	}
}

// SetFaceTexture assigns a texture to one face and marks the box
// multi-textured
func (b *Box) SetFaceTexture(f Face, t *material.Texture) {
	b.FaceTextures[f] = t
	b.Flags |= object.MultiTextured
}

// Bounds returns the box itself
func (b *Box) Bounds() core.AABB {
	return core.NewAABB(b.Min, b.Max)
}

// AllIntersections pushes the entry and exit of the slab interval
func (b *Box) AllIntersections(ray *core.Ray, depths *object.IStack) bool {
	tmin, tmax := -math.MaxFloat64, math.MaxFloat64
	for axis := 0; axis < 3; axis++ {
		o := ray.Origin.Get(axis)
		d := ray.Direction.Get(axis)
		lo, hi := b.Min.Get(axis), b.Max.Get(axis)
		if math.Abs(d) < 1e-10 {
			if o < lo || o > hi {
				return false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}

	found := pushHit(b, ray, tmin, depths)
	if pushHit(b, ray, tmax, depths) {
		found = true
	}
	return found
}

// Inside reports whether p lies strictly within the box
func (b *Box) Inside(p core.Vec3) bool {
	in := p.X > b.Min.X && p.X < b.Max.X &&
		p.Y > b.Min.Y && p.Y < b.Max.Y &&
		p.Z > b.Min.Z && p.Z < b.Max.Z
	return in != b.Has(object.Inverted)
}

// FaceAt returns the face nearest to p
func (b *Box) FaceAt(p core.Vec3) Face {
	best := FaceMinX
	bestDist := math.MaxFloat64
	for axis := 0; axis < 3; axis++ {
		if d := math.Abs(p.Get(axis) - b.Min.Get(axis)); d < bestDist {
			best, bestDist = Face(2*axis), d
		}
		if d := math.Abs(p.Get(axis) - b.Max.Get(axis)); d < bestDist {
			best, bestDist = Face(2*axis+1), d
		}
	}
	return best
}

// Normal is the outward axis of the face containing p
func (b *Box) Normal(p core.Vec3, isect *object.Intersection) core.Vec3 {
	f := b.FaceAt(p)
	sign := -1.0
	if f%2 == 1 {
		sign = 1.0
	}
	return core.Vec3{}.Set(int(f)/2, sign)
}

// UVCoord maps the hit face onto the unit square
func (b *Box) UVCoord(isect *object.Intersection) core.Vec2 {
	axis := int(b.FaceAt(isect.IPoint)) / 2
	ua, va := (axis+1)%3, (axis+2)%3
	size := b.Max.Subtract(b.Min)
	rel := isect.IPoint.Subtract(b.Min)
	var uv core.Vec2
	if s := size.Get(ua); s > 0 {
		uv.U = rel.Get(ua) / s
	}
	if s := size.Get(va); s > 0 {
		uv.V = rel.Get(va) / s
	}
	return uv
}

// DetermineTextures picks the texture of the face that was hit
func (b *Box) DetermineTextures(isect *object.Intersection, inside bool, out []object.WeightedTexture) []object.WeightedTexture {
	if inside && b.InteriorTexture != nil {
		return append(out, object.WeightedTexture{Weight: 1, Texture: b.InteriorTexture})
	}
	t := b.FaceTextures[b.FaceAt(isect.IPoint)]
	if t == nil {
		t = b.Texture
	}
	return append(out, object.WeightedTexture{Weight: 1, Texture: t})
}
