package photons

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/df07/go-trace-core/pkg/core"
)

// pointTolerance is the extent given to each photon in the index
const pointTolerance = 1e-6

type indexed struct {
	*Photon
	bounds rtreego.Rect
}

func (p *indexed) Bounds() rtreego.Rect { return p.bounds }

// Map is a spatial index of surface photons. It is filled before
// rendering and read concurrently afterwards.
type Map struct {
	tree   *rtreego.Rtree
	tables *SinCosTables
	count  int
}

// NewMap creates an empty photon map
func NewMap() *Map {
	return &Map{
		tree:   rtreego.NewTree(3, 25, 50),
		tables: NewSinCosTables(),
	}
}

// Store adds a photon
func (m *Map) Store(p Photon) {
	pt := rtreego.Point{float64(p.Loc[0]), float64(p.Loc[1]), float64(p.Loc[2])}
	m.tree.Insert(&indexed{Photon: &p, bounds: pt.ToRect(pointTolerance)})
	m.count++
}

// Len returns the number of stored photons
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.count
}

// Direction decodes the direction towards the light of a stored photon
func (m *Map) Direction(p *Photon) core.Vec3 {
	return m.tables.Direction(p)
}

// Gathered is a photon found near a query point
type Gathered struct {
	Photon *Photon
	DistSq float64
}

// Gather returns up to max photons within radius of point, nearest
// first, and the radius the returned set covers. When the limit cuts the
// set short the radius shrinks to the farthest photon kept.
func (m *Map) Gather(point core.Vec3, radius float64, max int, out []Gathered) ([]Gathered, float64) {
	out = out[:0]
	if m.Len() == 0 || radius <= 0 {
		return out, radius
	}

	p := rtreego.Point{point.X - radius, point.Y - radius, point.Z - radius}
	bb, err := rtreego.NewRect(p, []float64{2 * radius, 2 * radius, 2 * radius})
	if err != nil {
		return out, radius
	}

	r2 := radius * radius
	for _, s := range m.tree.SearchIntersect(bb) {
		ph := s.(*indexed).Photon
		d2 := ph.Position().Subtract(point).LengthSquared()
		if d2 <= r2 {
			out = append(out, Gathered{Photon: ph, DistSq: d2})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DistSq < out[j].DistSq })
	if max > 0 && len(out) > max {
		out = out[:max]
		if r := math.Sqrt(out[len(out)-1].DistSq); r > pointTolerance {
			return out, r
		}
	}
	return out, radius
}
