package intersect

import (
	"container/heap"
	"math"
	"sort"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/object"
)

// bunching is the most children a slab node groups before splitting
const bunching = 4

// slabNode is a node of the bounding slab tree. Leaves hold exactly one
// object; unbounded objects sit directly under the root.
type slabNode struct {
	bounds   core.AABB
	infinite bool
	children []*slabNode
	object   object.Object
}

func leafNode(o object.Object) *slabNode {
	return &slabNode{bounds: o.Bounds(), infinite: object.IsInfinite(o), object: o}
}

// buildSlabTree builds the hierarchy over the finite objects and hangs the
// infinite ones off the root
func buildSlabTree(finite, infinite []object.Object) *slabNode {
	if len(finite) == 0 && len(infinite) == 0 {
		return nil
	}

	objs := make([]object.Object, len(finite))
	copy(objs, finite)

	root := &slabNode{bounds: core.InfiniteAABB(), infinite: len(infinite) > 0}
	if len(objs) > 0 {
		sub := buildSlabs(objs)
		if !root.infinite {
			return sub
		}
		root.children = append(root.children, sub)
	}
	for _, o := range infinite {
		root.children = append(root.children, leafNode(o))
	}
	return root
}

// buildSlabs recursively groups objects by median split on the longest axis
func buildSlabs(objs []object.Object) *slabNode {
	if len(objs) == 1 {
		return leafNode(objs[0])
	}

	bounds := objs[0].Bounds()
	for _, o := range objs[1:] {
		bounds = bounds.Union(o.Bounds())
	}

	node := &slabNode{bounds: bounds}
	if len(objs) <= bunching {
		for _, o := range objs {
			node.children = append(node.children, leafNode(o))
		}
		return node
	}

	axis := bounds.LongestAxis()
	sort.Slice(objs, func(i, j int) bool {
		return objs[i].Bounds().Center().Get(axis) < objs[j].Bounds().Center().Get(axis)
	})

	mid := len(objs) / 2
	node.children = []*slabNode{buildSlabs(objs[:mid]), buildSlabs(objs[mid:])}
	return node
}

// queued is a slab node waiting to be opened, keyed by its entry depth
type queued struct {
	depth float64
	node  *slabNode
}

// slabQueue is a min-heap of nodes ordered by entry depth
type slabQueue []queued

func (q slabQueue) Len() int            { return len(q) }
func (q slabQueue) Less(i, j int) bool  { return q[i].depth < q[j].depth }
func (q slabQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *slabQueue) Push(x interface{}) { *q = append(*q, x.(queued)) }
func (q *slabQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// checkAndEnqueue queues node if the ray enters its bounds in front of
// the origin. Unbounded nodes are always queued first.
func (f *Finder) checkAndEnqueue(node *slabNode, ri rayInfo) {
	if node.infinite {
		heap.Push(&f.queue, queued{depth: -math.MaxFloat64, node: node})
		return
	}
	if depth, ok := node.bounds.HitInverse(ri.octant, ri.origin, ri.invDir, math.MaxFloat64); ok {
		heap.Push(&f.queue, queued{depth: depth, node: node})
	}
}

// findSlabs opens nodes nearest first and stops once the next node starts
// beyond the best hit
func (f *Finder) findSlabs(ray *core.Ray, best *object.Intersection, pre, post Condition) bool {
	ri := newRayInfo(ray)
	f.queue = f.queue[:0]
	found := false

	f.checkAndEnqueue(f.ix.slabs, ri)
	for f.queue.Len() > 0 {
		item := heap.Pop(&f.queue).(queued)
		if item.depth > best.Depth {
			break
		}

		node := item.node
		if node.object == nil {
			for _, child := range node.children {
				f.checkAndEnqueue(child, ri)
			}
			continue
		}

		if !pre.accepts(ray, node.object, 0) {
			continue
		}
		if isect, ok := f.findObject(node.object, ray, ri, post, BoundHuge); ok && isect.Depth < best.Depth {
			*best = isect
			found = true
		}
	}
	f.queue = f.queue[:0]
	return found
}
