// Package geometry provides the primitives scenes are built from
package geometry

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/object"
)

const (
	// depthTolerance rejects hits this close to the ray origin
	depthTolerance = 1.0e-4
	maxDistance    = 1.0e7
)

// pushHit records a hit of o at depth along ray if the depth is usable
func pushHit(o object.Object, ray *core.Ray, depth float64, depths *object.IStack) bool {
	if depth <= depthTolerance || depth >= maxDistance {
		return false
	}
	depths.Push(object.Intersection{Depth: depth, IPoint: ray.At(depth), Object: o})
	return true
}

// tangents returns two unit vectors spanning the plane perpendicular to n
func tangents(n core.Vec3) (core.Vec3, core.Vec3) {
	var a core.Vec3
	if math.Abs(n.X) > 0.9 {
		a = core.NewVec3(0, 1, 0)
	} else {
		a = core.NewVec3(1, 0, 0)
	}
	u := n.Cross(a).Normalize()
	return u, n.Cross(u)
}

func fract(v float64) float64 {
	return v - math.Floor(v)
}
