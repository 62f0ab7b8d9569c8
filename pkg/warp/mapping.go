package warp

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
)

// Mapping holds the parameters shared by the angular unwrap warps
type Mapping struct {
	// Orientation is the axis the mapping is built around; (0,0,1) leaves
	// the unwrapped coordinates as they are
	Orientation core.Vec3
	// DistExp scales the angular coordinates by dist^DistExp; 0 disables
	// the scaling
	DistExp float64
}

// DefaultMapping returns the default orientation with no distance scaling
func DefaultMapping() Mapping {
	return Mapping{Orientation: core.NewVec3(0, 0, 1)}
}

// scale applies the distance exponent to an angular coordinate
func (m Mapping) scale(v, dist float64) float64 {
	if m.DistExp == 1.0 {
		return v * dist
	}
	if m.DistExp != 0.0 {
		return v * math.Pow(dist, m.DistExp)
	}
	return v
}

// orient re-projects the unwrapped triple through the orientation vector
func orient(o core.Vec3, x, y, z float64) core.Vec3 {
	if o.X == 0.0 && o.Y == 0.0 && o.Z == 1.0 {
		return core.NewVec3(x, y, z)
	}
	return core.NewVec3(
		o.X*z+o.Y*x+o.Z*x,
		o.X*y-o.Y*z+o.Z*y,
		-o.X*x+o.Y*y+o.Z*z,
	)
}

// azimuth returns the angle of (x, z) from the +X axis in [0, 2pi)
func azimuth(x, z, length float64) float64 {
	if z == 0.0 {
		if x > 0 {
			return 0
		}
		return math.Pi
	}
	theta := math.Acos(x / length)
	if z < 0.0 {
		theta = 2*math.Pi - theta
	}
	return theta
}

// Cylindrical unwraps space around the Y axis
type Cylindrical struct {
	noNormals
	Mapping
}

func (w *Cylindrical) WarpPoint(p core.Vec3) (core.Vec3, bool) {
	length := math.Sqrt(p.X*p.X + p.Z*p.Z)
	if length == 0.0 {
		return p, false
	}
	theta := azimuth(p.X, p.Z, length) / (2 * math.Pi)
	theta = w.scale(theta, length)
	return orient(w.Orientation, theta, p.Y, length), true
}

func (w *Cylindrical) Clone() Warp {
	c := *w
	return &c
}

// Spherical unwraps space into longitude, latitude and distance
type Spherical struct {
	noNormals
	Mapping
}

func (w *Spherical) WarpPoint(p core.Vec3) (core.Vec3, bool) {
	dist := p.Length()
	if dist == 0.0 {
		return p, false
	}
	x, y, z := p.X/dist, p.Y/dist, p.Z/dist

	phi := 0.5 + math.Asin(y)/math.Pi

	theta := 0.0
	// At the poles any longitude will do
	if length := math.Sqrt(x*x + z*z); length != 0.0 {
		theta = azimuth(x, z, length) / (2 * math.Pi)
	}

	theta = w.scale(theta, dist)
	phi = w.scale(phi, dist)
	return orient(w.Orientation, theta, phi, dist), true
}

func (w *Spherical) Clone() Warp {
	c := *w
	return &c
}

// Toroidal unwraps space around a torus of radius MajorRadius
type Toroidal struct {
	noNormals
	Mapping
	MajorRadius float64
}

func (w *Toroidal) WarpPoint(p core.Vec3) (core.Vec3, bool) {
	length := math.Sqrt(p.X*p.X + p.Z*p.Z)
	if length == 0.0 {
		return p, false
	}
	theta := -azimuth(p.X, p.Z, length)

	// Rotate about Y into the x-y plane of the tube
	x := length - w.MajorRadius
	length = math.Sqrt(x*x + p.Y*p.Y)
	phi := math.Acos(-x / length)
	if p.Y > 0.0 {
		phi = 2*math.Pi - phi
	}

	theta /= -2 * math.Pi
	phi /= 2 * math.Pi

	theta = w.scale(theta, length)
	phi = w.scale(phi, length)
	return orient(w.Orientation, theta, phi, length), true
}

func (w *Toroidal) Clone() Warp {
	c := *w
	return &c
}

// Planar projects space onto a plane at a fixed depth
type Planar struct {
	noNormals
	Orientation core.Vec3
	Offset      float64
}

func (w *Planar) WarpPoint(p core.Vec3) (core.Vec3, bool) {
	return orient(w.Orientation, p.X, p.Y, w.Offset), true
}

func (w *Planar) Clone() Warp {
	c := *w
	return &c
}

// Cubic maps the six faces of a cube onto a cross-shaped unit square
// layout, keeping the distance to the face in Z
type Cubic struct {
	noNormals
}

func (w *Cubic) WarpPoint(p core.Vec3) (core.Vec3, bool) {
	if p.IsZero() {
		return p, false
	}
	x, y, z := p.X, p.Y, p.Z
	ax, ay, az := math.Abs(x), math.Abs(y), math.Abs(z)
	const third = 1.0 / 3.0

	switch {
	case x >= 0 && x >= ay && x >= az:
		return core.NewVec3(0.75-0.25*(z/x+1.0)/2.0, third+third*(y/x+1.0)/2.0, x), true
	case y >= 0 && y >= ax && y >= az:
		return core.NewVec3(0.25+0.25*(x/y+1.0)/2.0, 1.0-third*(z/y+1.0)/2.0, y), true
	case z >= 0 && z >= ax && z >= ay:
		return core.NewVec3(0.25+0.25*(x/z+1.0)/2.0, third+third*(y/z+1.0)/2.0, z), true
	case x < 0 && x <= -ay && x <= -az:
		x = -x
		return core.NewVec3(0.25*(z/x+1.0)/2.0, third+third*(y/x+1.0)/2.0, x), true
	case y < 0 && y <= -ax && y <= -az:
		y = -y
		return core.NewVec3(0.25+0.25*(x/y+1.0)/2.0, third*(z/y+1.0)/2.0, y), true
	default:
		z = -z
		return core.NewVec3(1.0-0.25*(x/z+1.0)/2.0, third+third*(y/z+1.0)/2.0, z), true
	}
}

func (w *Cubic) Clone() Warp {
	return &Cubic{}
}
