package object

import "github.com/df07/go-trace-core/pkg/core"

// Intersection is the nearest-hit record of one search
type Intersection struct {
	Depth  float64
	IPoint core.Vec3
	// INormal is the raw geometric normal, PNormal the perturbed one
	INormal core.Vec3
	PNormal core.Vec3
	UV      core.Vec2

	Object Object
	// Csg is the composite the hit object belongs to, if any
	Csg Object
}

// Owner returns the composite the hit belongs to, or the object itself
func (i *Intersection) Owner() Object {
	if i.Csg != nil {
		return i.Csg
	}
	return i.Object
}

// IStack is the scratch stack primitives push their hits onto
type IStack = core.Stack[Intersection]

// NewIStackPool creates the per-engine pool of intersection stacks
func NewIStackPool() *core.Pool[Intersection] {
	return &core.Pool[Intersection]{Name: "intersection stack"}
}

// IntersectBBox is the cheap pre-test of a ray given by origin and inverse
// direction against the object's bounds, accepting entries closer than
// maxDepth
func IntersectBBox(o Object, octant int, origin, invDir core.Vec3, maxDepth float64) bool {
	b := o.Bounds()
	if b.IsInfinite() {
		return true
	}
	_, hit := b.HitInverse(octant, origin, invDir, maxDepth)
	return hit
}

// RayInBound reports whether the ray passes every clipping bound of the
// object, either by hitting it or by starting inside it
func RayInBound(o Object, ray *core.Ray, pool *core.Pool[Intersection]) bool {
	for _, b := range o.Props().BoundedBy {
		if b.Inside(ray.Origin) {
			continue
		}
		depths := pool.Acquire()
		hit := b.AllIntersections(ray, depths)
		depths.Clear()
		pool.Release(depths)
		if !hit {
			return false
		}
	}
	return true
}
