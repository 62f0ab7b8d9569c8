package core

import "math"

// BoundLimit is the extent beyond which a box counts as unbounded
const BoundLimit = 1.0e10

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// InfiniteAABB returns the box used by unbounded objects
func InfiniteAABB() AABB {
	return AABB{
		Min: NewVec3(-BoundLimit, -BoundLimit, -BoundLimit),
		Max: NewVec3(BoundLimit, BoundLimit, BoundLimit),
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return AABB{Min: min, Max: max}
}

// Hit tests if a ray intersects with this AABB using the slab method
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		min := aabb.Min.Get(axis)
		max := aabb.Max.Get(axis)
		origin := ray.Origin.Get(axis)
		direction := ray.Direction.Get(axis)

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-8 {
			if origin < min || origin > max {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}

// Octant returns the direction variant of an inverse direction: bit 2 for
// negative X, bit 1 for negative Y, bit 0 for negative Z
func Octant(invDir Vec3) int {
	octant := 0
	if invDir.X < 0 {
		octant |= 4
	}
	if invDir.Y < 0 {
		octant |= 2
	}
	if invDir.Z < 0 {
		octant |= 1
	}
	return octant
}

// HitInverse tests the box against a ray given by origin and inverse
// direction, accepting only entries closer than maxDepth. The octant selects
// which corner is the near one on each axis. Returns the entry depth.
func (aabb AABB) HitInverse(octant int, origin, invDir Vec3, maxDepth float64) (float64, bool) {
	near, far := aabb.Min, aabb.Max
	if octant&4 != 0 {
		near.X, far.X = far.X, near.X
	}
	if octant&2 != 0 {
		near.Y, far.Y = far.Y, near.Y
	}
	if octant&1 != 0 {
		near.Z, far.Z = far.Z, near.Z
	}

	tmin := (near.X - origin.X) * invDir.X
	tmax := (far.X - origin.X) * invDir.X
	tymin := (near.Y - origin.Y) * invDir.Y
	tymax := (far.Y - origin.Y) * invDir.Y
	// NaN from 0*Inf compares false, which leaves the other slab in charge
	if tymin > tmin {
		tmin = tymin
	}
	if tymax < tmax {
		tmax = tymax
	}
	tzmin := (near.Z - origin.Z) * invDir.Z
	tzmax := (far.Z - origin.Z) * invDir.Z
	if tzmin > tmin {
		tmin = tzmin
	}
	if tzmax < tmax {
		tmax = tzmax
	}

	if tmin > tmax || tmax < 0 || tmin > maxDepth {
		return 0, false
	}
	return math.Max(tmin, 0), true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	min := Vec3{
		X: math.Min(aabb.Min.X, other.Min.X),
		Y: math.Min(aabb.Min.Y, other.Min.Y),
		Z: math.Min(aabb.Min.Z, other.Min.Z),
	}
	max := Vec3{
		X: math.Max(aabb.Max.X, other.Max.X),
		Y: math.Max(aabb.Max.Y, other.Max.Y),
		Z: math.Max(aabb.Max.Z, other.Max.Z),
	}
	return AABB{Min: min, Max: max}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// IsInfinite reports whether any side reaches the unbounded limit
func (aabb AABB) IsInfinite() bool {
	return aabb.Min.X <= -BoundLimit || aabb.Min.Y <= -BoundLimit || aabb.Min.Z <= -BoundLimit ||
		aabb.Max.X >= BoundLimit || aabb.Max.Y >= BoundLimit || aabb.Max.Z >= BoundLimit
}

// Contains reports whether p lies inside or on the box
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}
