package pattern

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/noise"
)

// Facets snaps normals to the nearest of a lattice of random points. It is
// a normal-only pattern.
type Facets struct {
	Size float64
	// Coords perturbs by point position instead of snapping the normal;
	// its value scales the perturbation
	Coords float64
	// Metric selects the distance: 2 squared Euclidean, 1 coordinate sum,
	// anything else the general power sum
	Metric float64
}

func (k *Facets) Raw(p core.Vec3, e *Eval) float64 { return 0.0 }

// PickInCube returns a random point inside the unit cube containing tv and
// the seed identifying that cube
func PickInCube(tv core.Vec3) (core.Vec3, int) {
	flo := core.NewVec3(math.Floor(tv.X-epsilon), math.Floor(tv.Y-epsilon), math.Floor(tv.Z-epsilon))
	seed := noise.Hash3d(int(flo.X), int(flo.Y), int(flo.Z))
	return core.NewVec3(
		flo.X+core.PatternRands(seed),
		flo.Y+core.PatternRands(seed+1),
		flo.Z+core.PatternRands(seed+2),
	), seed
}

func (k *Facets) distance(dv core.Vec3) float64 {
	switch k.Metric {
	case 2:
		return dv.LengthSquared()
	case 1:
		return dv.X + dv.Y + dv.Z
	}
	return math.Pow(math.Abs(dv.X), k.Metric) + math.Pow(math.Abs(dv.Y), k.Metric) + math.Pow(math.Abs(dv.Z), k.Metric)
}

// fillCube caches the random points of the cube around tv and every
// neighbour within a knight's move
func (c *Context) fillCube(tv core.Vec3, seed int) {
	if seed == c.facetsSeed {
		return
	}
	n := 0
	for ax := -2.0; ax < 2.5; ax++ {
		for ay := -2.0; ay < 2.5; ay++ {
			for az := -2.0; az < 2.5; az++ {
				far := 0
				for _, a := range [3]float64{ax, ay, az} {
					if math.Abs(a) > 1.5 {
						far++
					}
				}
				if far > 1 {
					continue
				}
				c.facetsCube[n], _ = PickInCube(tv.Add(core.NewVec3(ax, ay, az)))
				n++
			}
		}
	}
	c.facetsSeed = seed
	c.facetsCount = n
}

func (k *Facets) perturb(normal, p core.Vec3, amount float64, e *Eval) core.Vec3 {
	normal = normal.Normalize()

	tv := normal
	if k.Coords != 0 {
		tv = p
	}
	scale := 1e6
	if k.Size >= 1e-6 {
		scale = 1.0 / k.Size
	}
	tv = tv.Multiply(scale)

	_, seed := PickInCube(tv)
	ctx := e.Ctx
	ctx.fillCube(tv, seed)

	nearest := ctx.facetsCube[0]
	best := k.distance(nearest.Subtract(tv))
	for _, cv := range ctx.facetsCube[1:ctx.facetsCount] {
		if d := k.distance(cv.Subtract(tv)); d < best {
			best = d
			nearest = cv
		}
	}

	if k.Coords == 0 {
		return nearest
	}

	pert := noise.DNoise(nearest)
	pert = pert.Subtract(normal.Multiply(pert.Dot(normal)))
	return normal.Add(pert.Multiply(k.Coords))
}
