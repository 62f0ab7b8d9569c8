// Package object defines what the trace engine needs from scene objects:
// their flags, materials, bounds and ray intersections.
package object

import (
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
)

// Flags control how rays interact with an object
type Flags uint32

const (
	NoShadow Flags = 1 << iota
	NoImage
	NoReflection
	NoRadiosity
	// Inverted objects report normals pointing inward
	Inverted
	// UVMapped objects are textured at (u, v, 0)
	UVMapped
	// MultiTextured objects choose textures per hit via DetermineTextures
	MultiTextured
	DoubleIlluminate
	IgnoreRadiosity
	// Opaque objects never let any light through
	Opaque
	PhotonTarget
	IgnorePhotons
	PhotonRefractOn
	PhotonRefractOff
	NoGlobalLights
	Cutaway
)

// Has reports whether every bit of f is set
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

// Base holds the properties every object carries
type Base struct {
	Flags           Flags
	Texture         *material.Texture
	InteriorTexture *material.Texture
	// Interior is nil for objects that do not enclose a medium
	Interior *core.Interior

	// BoundedBy lists objects a ray must hit or start inside before this
	// object is tested
	BoundedBy []Object

	// LightGroup is the index plus one of the scene light group whose
	// lights shine on this object; zero means none
	LightGroup int
}

// Props returns the base properties
func (b *Base) Props() *Base { return b }

// Has reports whether the object carries every bit of f
func (b *Base) Has(f Flags) bool { return b.Flags.Has(f) }

// Object is a primitive or a composite the engine can intersect and shade
type Object interface {
	Props() *Base
	// Bounds returns the world bounding box; unbounded objects return
	// core.InfiniteAABB
	Bounds() core.AABB
	// AllIntersections pushes every hit along the ray onto depths and
	// reports whether there was any
	AllIntersections(ray *core.Ray, depths *IStack) bool
	Inside(p core.Vec3) bool
	// Normal returns the raw outward normal at a hit point
	Normal(p core.Vec3, isect *Intersection) core.Vec3
	UVCoord(isect *Intersection) core.Vec2
}

// WeightedTexture is one of the textures blended at a multi-textured hit
type WeightedTexture struct {
	Weight  float64
	Texture *material.Texture
}

// MultiTexturer is implemented by objects flagged MultiTextured
type MultiTexturer interface {
	// DetermineTextures appends the textures active at the hit; inside
	// selects interior textures
	DetermineTextures(isect *Intersection, inside bool, out []WeightedTexture) []WeightedTexture
}

// IsInfinite reports whether the object has no finite bounds
func IsInfinite(o Object) bool {
	return o.Bounds().IsInfinite()
}
