// Package intersect finds the nearest object along a ray using one of three
// interchangeable strategies.
package intersect

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/object"
	"github.com/df07/go-trace-core/pkg/scene"
)

const (
	// BoundHuge is the depth of a ray that hits nothing
	BoundHuge = 2.0e10
	// MinDepth rejects hits this close to the ray origin, except for
	// subsurface rays which start on the surface by construction
	MinDepth = 1.0e-4
)

// Condition filters candidates. Before intersecting it is called with
// depth 0 to reject whole objects; afterwards with each candidate depth.
// A nil Condition accepts everything.
type Condition func(ray *core.Ray, o object.Object, depth float64) bool

func (c Condition) accepts(ray *core.Ray, o object.Object, depth float64) bool {
	return c == nil || c(ray, o, depth)
}

// Index is the read-only acceleration data for one scene. It is shared by
// every engine; per-engine scratch state lives in a Finder.
type Index struct {
	Method   scene.BoundingMethod
	Objects  []object.Object
	Finite   []object.Object
	Infinite []object.Object

	slabs *slabNode
	bsp   *bspNode
}

// NewIndex builds the structure the method needs
func NewIndex(objs []object.Object, method scene.BoundingMethod) *Index {
	ix := &Index{Method: method, Objects: objs}
	for _, o := range objs {
		if object.IsInfinite(o) {
			ix.Infinite = append(ix.Infinite, o)
		} else {
			ix.Finite = append(ix.Finite, o)
		}
	}

	switch method {
	case scene.SlabTree:
		ix.slabs = buildSlabTree(ix.Finite, ix.Infinite)
	case scene.BSPTree:
		ix.bsp = buildBSP(ix.Finite)
	}
	return ix
}

// Finder runs queries against an Index. It owns scratch buffers and must
// not be shared between goroutines.
type Finder struct {
	ix      *Index
	pool    *core.Pool[object.Intersection]
	mailbox *bitset.BitSet
	queue   slabQueue

	// ObjectTests counts exact intersection tests
	ObjectTests uint64
}

// NewFinder creates a finder drawing its depth stacks from pool
func (ix *Index) NewFinder(pool *core.Pool[object.Intersection]) *Finder {
	return &Finder{
		ix:      ix,
		pool:    pool,
		mailbox: bitset.New(uint(len(ix.Finite))),
	}
}

// Index returns the index the finder searches
func (f *Finder) Index() *Index { return f.ix }

// Find searches for the nearest hit closer than best.Depth and stores it
// in best. Reports whether best was replaced.
func (f *Finder) Find(ray *core.Ray, best *object.Intersection, pre, post Condition) bool {
	switch f.ix.Method {
	case scene.BSPTree:
		found := f.findBSP(ray, best, pre, post)
		if f.scan(f.ix.Infinite, ray, best, pre, post) {
			found = true
		}
		return found
	case scene.SlabTree:
		if f.ix.slabs != nil {
			return f.findSlabs(ray, best, pre, post)
		}
	}
	return f.scan(f.ix.Objects, ray, best, pre, post)
}

// scan tests objects one by one
func (f *Finder) scan(objs []object.Object, ray *core.Ray, best *object.Intersection, pre, post Condition) bool {
	found := false
	for _, o := range objs {
		if !pre.accepts(ray, o, 0) {
			continue
		}
		if isect, ok := f.FindObject(o, ray, post, BoundHuge); ok && isect.Depth < best.Depth {
			*best = isect
			found = true
		}
	}
	return found
}

// rayInfo caches the inverse direction and its octant
type rayInfo struct {
	origin, invDir core.Vec3
	octant         int
}

func newRayInfo(ray *core.Ray) rayInfo {
	inv := core.NewVec3(1.0/ray.Direction.X, 1.0/ray.Direction.Y, 1.0/ray.Direction.Z)
	return rayInfo{origin: ray.Origin, invDir: inv, octant: core.Octant(inv)}
}

// FindObject returns the nearest hit of one object closer than closest
// that passes post
func (f *Finder) FindObject(o object.Object, ray *core.Ray, post Condition, closest float64) (object.Intersection, bool) {
	return f.findObject(o, ray, newRayInfo(ray), post, closest)
}

func (f *Finder) findObject(o object.Object, ray *core.Ray, ri rayInfo, post Condition, closest float64) (object.Intersection, bool) {
	var isect object.Intersection

	if !object.IntersectBBox(o, ri.octant, ri.origin, ri.invDir, closest) {
		return isect, false
	}
	if len(o.Props().BoundedBy) > 0 && !object.RayInBound(o, ray, f.pool) {
		return isect, false
	}

	f.ObjectTests++
	depths := f.pool.Acquire()
	defer f.pool.Release(depths)

	found := false
	if o.AllIntersections(ray, depths) {
		for !depths.Empty() {
			top := depths.Pop()
			d := top.Depth
			if d < closest && (ray.IsSubsurfaceRay() || d >= MinDepth) && post.accepts(ray, o, d) {
				isect = top
				closest = d
				found = true
			}
		}
	}
	return isect, found
}
