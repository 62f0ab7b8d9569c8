package warp

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Transform applies the inverse of an affine object transform to points,
// which is how a pattern follows its transformed object
type Transform struct {
	Matrix  mgl64.Mat4
	Inverse mgl64.Mat4
}

// Identity4 returns the 4x4 identity matrix
func Identity4() mgl64.Mat4 {
	return mgl64.Ident4()
}

// NewTransform creates a transform warp for an invertible matrix
func NewTransform(m mgl64.Mat4) *Transform {
	return &Transform{Matrix: m, Inverse: m.Inv()}
}

// NewTranslate creates a translation warp
func NewTranslate(v core.Vec3) *Transform {
	return NewTransform(mgl64.Translate3D(v.X, v.Y, v.Z))
}

// NewScale creates a scaling warp. Zero factors are replaced by 1.
func NewScale(v core.Vec3) *Transform {
	fix := func(f float64) float64 {
		if f == 0 {
			return 1
		}
		return f
	}
	return NewTransform(mgl64.Scale3D(fix(v.X), fix(v.Y), fix(v.Z)))
}

// NewRotate creates a rotation warp from angles in degrees, applied about
// X, then Y, then Z
func NewRotate(degrees core.Vec3) *Transform {
	rx := mgl64.HomogRotate3DX(degrees.X * math.Pi / 180)
	ry := mgl64.HomogRotate3DY(degrees.Y * math.Pi / 180)
	rz := mgl64.HomogRotate3DZ(degrees.Z * math.Pi / 180)
	return NewTransform(rz.Mul4(ry).Mul4(rx))
}

// Compose returns the transform that applies t and then next to an object
func (t *Transform) Compose(next *Transform) *Transform {
	return NewTransform(next.Matrix.Mul4(t.Matrix))
}

func mulPoint(m mgl64.Mat4, p core.Vec3) core.Vec3 {
	r := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return core.NewVec3(r[0], r[1], r[2])
}

func mulTransposedDirection(m mgl64.Mat4, v core.Vec3) core.Vec3 {
	r := m.Mat3().Transpose().Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return core.NewVec3(r[0], r[1], r[2])
}

// WarpPoint maps an object-space point into the untransformed pattern space
func (t *Transform) WarpPoint(p core.Vec3) (core.Vec3, bool) {
	return mulPoint(t.Inverse, p), true
}

// WarpNormal maps a normal alongside WarpPoint
func (t *Transform) WarpNormal(n core.Vec3) (core.Vec3, bool) {
	return mulTransposedDirection(t.Matrix, n), true
}

// UnwarpNormal is the inverse of WarpNormal
func (t *Transform) UnwarpNormal(n core.Vec3) (core.Vec3, bool) {
	return mulTransposedDirection(t.Inverse, n), true
}

func (t *Transform) Clone() Warp {
	c := *t
	return &c
}
