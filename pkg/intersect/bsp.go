package intersect

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/object"
)

const (
	bspMaxDepth = 24
	bspLeafSize = 2
)

// bspNode splits space at a plane; objects straddling the plane are
// referenced from both sides, so a traversal needs a mailbox to test each
// object once
type bspNode struct {
	bounds core.AABB

	axis        int
	split       float64
	below, over *bspNode

	// objects indexes Index.Finite; only set on leaves
	objects []int
}

func (n *bspNode) leaf() bool { return n.below == nil }

// buildBSP builds the tree over finite objects, referenced by index
func buildBSP(finite []object.Object) *bspNode {
	if len(finite) == 0 {
		return nil
	}
	bounds := finite[0].Bounds()
	idx := make([]int, len(finite))
	for i, o := range finite {
		idx[i] = i
		bounds = bounds.Union(o.Bounds())
	}
	return splitBSP(finite, idx, bounds, 0)
}

func splitBSP(objs []object.Object, idx []int, bounds core.AABB, depth int) *bspNode {
	node := &bspNode{bounds: bounds}
	if len(idx) <= bspLeafSize || depth >= bspMaxDepth {
		node.objects = idx
		return node
	}

	axis := bounds.LongestAxis()
	split := (bounds.Min.Get(axis) + bounds.Max.Get(axis)) / 2

	var below, over []int
	for _, i := range idx {
		b := objs[i].Bounds()
		if b.Min.Get(axis) < split {
			below = append(below, i)
		}
		if b.Max.Get(axis) >= split {
			over = append(over, i)
		}
	}
	// nothing was separated
	if len(below) == len(idx) && len(over) == len(idx) {
		node.objects = idx
		return node
	}

	belowBounds, overBounds := bounds, bounds
	belowBounds.Max = belowBounds.Max.Set(axis, split)
	overBounds.Min = overBounds.Min.Set(axis, split)

	node.axis = axis
	node.split = split
	node.below = splitBSP(objs, below, belowBounds, depth+1)
	node.over = splitBSP(objs, over, overBounds, depth+1)
	return node
}

// bspQuery carries one traversal
type bspQuery struct {
	f         *Finder
	ray       *core.Ray
	ri        rayInfo
	best      *object.Intersection
	pre, post Condition
	found     bool
}

// findBSP walks the tree front to back, testing each object at most once
func (f *Finder) findBSP(ray *core.Ray, best *object.Intersection, pre, post Condition) bool {
	root := f.ix.bsp
	if root == nil {
		return false
	}
	tmin, tmax, ok := clipRay(root.bounds, ray)
	if !ok {
		return false
	}

	f.mailbox.ClearAll()
	q := bspQuery{f: f, ray: ray, ri: newRayInfo(ray), best: best, pre: pre, post: post}
	q.walk(root, tmin, tmax)
	return q.found
}

func (q *bspQuery) walk(n *bspNode, tmin, tmax float64) {
	if n.leaf() {
		for _, i := range n.objects {
			if q.f.mailbox.Test(uint(i)) {
				continue
			}
			q.f.mailbox.Set(uint(i))
			q.test(i)
		}
		return
	}

	o := q.ray.Origin.Get(n.axis)
	d := q.ray.Direction.Get(n.axis)

	near, far := n.below, n.over
	if o > n.split || (o == n.split && d > 0) {
		near, far = far, near
	}
	if d == 0 {
		q.walk(near, tmin, tmax)
		return
	}

	tsplit := (n.split - o) / d
	switch {
	case tsplit > tmax || tsplit <= 0:
		q.walk(near, tmin, tmax)
	case tsplit < tmin:
		q.walk(far, tmin, tmax)
	default:
		q.walk(near, tmin, tsplit)
		// everything beyond the plane is further than the best hit
		if q.best.Depth < tsplit {
			return
		}
		q.walk(far, tsplit, tmax)
	}
}

func (q *bspQuery) test(i int) {
	obj := q.f.ix.Finite[i]
	if !q.pre.accepts(q.ray, obj, 0) {
		return
	}
	if isect, ok := q.f.findObject(obj, q.ray, q.ri, q.post, BoundHuge); ok && isect.Depth < q.best.Depth {
		*q.best = isect
		q.found = true
	}
}

// clipRay returns the parameter interval the ray spends inside b
func clipRay(b core.AABB, ray *core.Ray) (float64, float64, bool) {
	tmin, tmax := 0.0, math.MaxFloat64
	for axis := 0; axis < 3; axis++ {
		o := ray.Origin.Get(axis)
		d := ray.Direction.Get(axis)
		lo, hi := b.Min.Get(axis), b.Max.Get(axis)
		if d == 0 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		t1, t2 := (lo-o)/d, (hi-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, true
}
