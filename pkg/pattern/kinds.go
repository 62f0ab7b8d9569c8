package pattern

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/noise"
)

// epsilon nudges lattice lookups off exact cell boundaries
const epsilon = 1.0e-10

// Agate is turbulence fed through a sine with a fixed gamma
type Agate struct {
	TurbScale float64
}

func (k *Agate) Raw(p core.Vec3, e *Eval) float64 {
	turb := noise.DefaultTurbulence()
	if t := e.Turbulence(); t != nil {
		turb = t.Turbulence
	}
	turbVal := k.TurbScale * noise.TurbulenceValue(p, &turb, e.Generator)

	value := 0.5 * (cycloidal(1.3*turbVal+1.1*p.Z) + 1.0)
	if value < 0.0 {
		return 0.0
	}
	return math.Pow(math.Min(1.0, value), 0.77)
}

// AOI is the angle of incidence between the ray and the surface normal
type AOI struct{}

func (k *AOI) Raw(p core.Vec3, e *Eval) float64 {
	if e.Hit == nil {
		return 0.0
	}
	c := e.Hit.Normal.Normalize().Dot(e.Hit.Direction.Normalize())
	c = math.Max(-1.0, math.Min(1.0, c))
	return math.Acos(c) / math.Pi
}

// Average marks a pigment or normal that averages the entries of its map
type Average struct{}

func (k *Average) Raw(p core.Vec3, e *Eval) float64 { return 0.0 }

// Boxed falls off linearly towards the faces of the unit cube
type Boxed struct{}

func (k *Boxed) Raw(p core.Vec3, e *Eval) float64 {
	return clipDensity(math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z))))
}

// Bozo is plain noise
type Bozo struct{}

func (k *Bozo) Raw(p core.Vec3, e *Eval) float64 { return noise.Noise(p, e.Generator) }

// Spotted is plain noise
type Spotted struct{}

func (k *Spotted) Raw(p core.Vec3, e *Eval) float64 { return noise.Noise(p, e.Generator) }

// Bumps is plain noise as a pattern and vector noise as a normal
type Bumps struct{}

func (k *Bumps) Raw(p core.Vec3, e *Eval) float64 { return noise.Noise(p, e.Generator) }

// Brick returns 0 in the mortar and 1 in the bricks
type Brick struct {
	Size   core.Vec3
	Mortar float64
}

// NewBrick creates a brick pattern with the classic proportions
func NewBrick() *Brick {
	return &Brick{Size: core.NewVec3(8, 3, 4.5), Mortar: 0.5}
}

func (k *Brick) Entries() int { return 2 }

// fract is the fractional part after truncation, wrapped into [0, 1)
func fract(v float64) float64 {
	v -= float64(int(v))
	if v < 0.0 {
		v += 1.0
	}
	return v
}

func (k *Brick) Raw(p core.Vec3, e *Eval) float64 {
	fudge := epsilon + k.Mortar
	x, y, z := p.X+fudge, p.Y+fudge, p.Z+fudge

	mortarWidth := k.Mortar / k.Size.X
	mortarHeight := k.Mortar / k.Size.Y
	mortarDepth := k.Mortar / k.Size.Z

	// Horizontal mortar layers
	if fract(y/k.Size.Y) <= mortarHeight {
		return 0.0
	}
	course := fract(y / k.Size.Y * 0.5)

	// Brick ends alternate by course
	if fract(x/k.Size.X) <= mortarWidth && course <= 0.5 {
		return 0.0
	}
	if fract(x/k.Size.X+0.5) <= mortarWidth && course > 0.5 {
		return 0.0
	}

	// Brick faces
	if fract(z/k.Size.Z) <= mortarDepth && course > 0.5 {
		return 0.0
	}
	if fract(z/k.Size.Z+0.5) <= mortarDepth && course <= 0.5 {
		return 0.0
	}
	return 1.0
}

func cellOf(p core.Vec3) (int, int, int) {
	return int(math.Floor(p.X + epsilon)), int(math.Floor(p.Y + epsilon)), int(math.Floor(p.Z + epsilon))
}

// Cells gives every unit cube a random value
type Cells struct{}

func (k *Cells) Raw(p core.Vec3, e *Eval) float64 {
	x, y, z := cellOf(p)
	return math.Min(core.PatternRands(noise.Hash3d(x, y, z)), 1.0)
}

// Checker alternates 0 and 1 between unit cubes
type Checker struct{}

func (k *Checker) Entries() int { return 2 }

func (k *Checker) Raw(p core.Vec3, e *Eval) float64 {
	x, y, z := cellOf(p)
	if (x+y+z)&1 != 0 {
		return 1.0
	}
	return 0.0
}

// Cubic numbers the six pyramids around the axes
type Cubic struct{}

func (k *Cubic) Entries() int { return 6 }

func (k *Cubic) Raw(p core.Vec3, e *Eval) float64 {
	x, y, z := p.X, p.Y, p.Z
	ax, ay, az := math.Abs(x), math.Abs(y), math.Abs(z)
	switch {
	case x >= 0 && x >= ay && x >= az:
		return 0.0
	case y >= 0 && y >= ax && y >= az:
		return 1.0
	case z >= 0 && z >= ax && z >= ay:
		return 2.0
	case x < 0 && x <= -ay && x <= -az:
		return 3.0
	case y < 0 && y <= -ax && y <= -az:
		return 4.0
	}
	return 5.0
}

// Cylindrical falls off with distance from the Y axis
type Cylindrical struct{}

func (k *Cylindrical) Raw(p core.Vec3, e *Eval) float64 {
	return clipDensity(math.Sqrt(p.X*p.X + p.Z*p.Z))
}

// Dents is cubed noise
type Dents struct{}

func (k *Dents) Raw(p core.Vec3, e *Eval) float64 {
	n := noise.Noise(p, e.Generator)
	return n * n * n
}

// Gradient ramps along a vector
type Gradient struct {
	Vector core.Vec3
}

func (k *Gradient) Raw(p core.Vec3, e *Eval) float64 {
	r := p.Dot(k.Vector)
	if r > 1.0 {
		return math.Mod(r, 1.0)
	}
	return r
}

// Granite sums six octaves of absolute noise
type Granite struct{}

func (k *Granite) Raw(p core.Vec3, e *Eval) float64 {
	base := p.Multiply(4.0)
	value, freq := 0.0, 1.0
	for i := 0; i < 6; i++ {
		n := noise.Noise(base.Multiply(freq), e.Generator)
		var temp float64
		if e.Generator == noise.Original {
			temp = math.Abs(0.5 - n)
		} else {
			temp = math.Min(math.Abs(1.0-2.0*n), 0.5)
		}
		value += temp / freq
		freq *= 2.0
	}
	return value
}

// Hexagon tiles the XZ plane with hexagons of three values
type Hexagon struct{}

func (k *Hexagon) Entries() int { return 3 }

const (
	hexXFactor = 0.5
	hexZFactor = 0.866025404
)

func (k *Hexagon) Raw(p core.Vec3, e *Eval) float64 {
	x := math.Abs(p.X)
	z := p.Z
	// Avoid mirroring across the X axis
	if z < 0.0 {
		z = 5.196152424 - math.Abs(z)
	}

	xs := x / hexXFactor
	zs := z / hexZFactor
	xs -= math.Floor(xs/6.0) * 6.0
	zs -= math.Floor(zs/6.0) * 6.0

	xm := int(math.Floor(xs)) % 6
	zm := int(math.Floor(zs)) % 6

	switch xm {
	case 0, 5:
		switch zm {
		case 1, 2:
			return 1
		case 3, 4:
			return 2
		}
		return 0
	case 2, 3:
		switch zm {
		case 0, 1:
			return 2
		case 4, 5:
			return 1
		}
		return 0
	}

	// Blocks split diagonally by the angled hexagon edges
	xl := xs - float64(xm)
	zl := zs - float64(zm)
	if (xm+zm)%2 == 1 {
		xl = 1.0 - xl
	}
	if xl == 0.0 {
		xl = 0.0001
	}
	if zl/xl < 1.0 {
		switch zm {
		case 2, 5:
			return 1
		case 1, 4:
			return 2
		}
		return 0
	}
	switch zm {
	case 0, 3:
		return 2
	case 1, 4:
		return 1
	}
	return 0
}

// Leopard is the square of the averaged sines of the coordinates
type Leopard struct{}

func (k *Leopard) Raw(p core.Vec3, e *Eval) float64 {
	v := (math.Sin(p.X) + math.Sin(p.Y) + math.Sin(p.Z)) / 3.0
	return v * v
}

// Marble ramps along X, displaced by its own turbulence
type Marble struct{}

func (k *Marble) readsTurbulence() {}

func (k *Marble) Raw(p core.Vec3, e *Eval) float64 {
	turbVal := 0.0
	if t := e.Turbulence(); t != nil {
		turbVal = t.Amplitude.X * noise.TurbulenceValue(p, &t.Turbulence, e.Generator)
	}
	return p.X + turbVal
}

// Onion repeats concentric spheres
type Onion struct{}

func (k *Onion) Raw(p core.Vec3, e *Eval) float64 {
	return math.Mod(p.Length(), 1.0)
}

// Planar falls off with distance from the XZ plane
type Planar struct{}

func (k *Planar) Raw(p core.Vec3, e *Eval) float64 {
	return clipDensity(math.Abs(p.Y))
}

// Quilted bulges each unit cube towards its centre
type Quilted struct {
	Control0, Control1 float64
}

func quiltOffset(p core.Vec3) core.Vec3 {
	return core.NewVec3(p.X-math.Floor(p.X)-0.5, p.Y-math.Floor(p.Y)-0.5, p.Z-math.Floor(p.Z)-0.5)
}

const invSqrt34 = 1.154700538

// quiltCubic is a Bezier falloff with fixed end points 0 and 1
func quiltCubic(t, p1, p2 float64) float64 {
	it := 1 - t
	return (t*t*t + 3.0*t*it*it*p1 + 3.0*t*t*it*p2) * invSqrt34
}

func (k *Quilted) Raw(p core.Vec3, e *Eval) float64 {
	v := quiltOffset(p)
	t := quiltCubic(v.Length(), k.Control0, k.Control1)
	v = v.Multiply(t)
	return (math.Abs(v.X) + math.Abs(v.Y) + math.Abs(v.Z)) / 3.0
}

// Radial ramps around the Y axis
type Radial struct{}

func (k *Radial) Raw(p core.Vec3, e *Eval) float64 {
	if math.Abs(p.X) < 0.001 && math.Abs(p.Z) < 0.001 {
		return 0.25
	}
	return 0.25 + (math.Atan2(p.X, p.Z)+math.Pi)/(2*math.Pi)
}

// Ripples sums concentric sine waves from the context's wave sources
type Ripples struct{}

func (k *Ripples) Raw(p core.Vec3, e *Eval) float64 {
	sources := e.Ctx.WaveSources
	scalar := 0.0
	for _, src := range sources {
		length := p.Subtract(src).Length()
		if length == 0.0 {
			length = 1.0
		}
		scalar += cycloidal(length*e.Pattern.Wave.Frequency + e.Pattern.Wave.Phase)
	}
	return 0.5 * (1.0 + scalar/float64(len(sources)))
}

// Waves sums sine waves with per-source frequencies
type Waves struct{}

func (k *Waves) Raw(p core.Vec3, e *Eval) float64 {
	sources := e.Ctx.WaveSources
	scalar := 0.0
	for i, src := range sources {
		length := p.Subtract(src).Length()
		if length == 0.0 {
			length = 1.0
		}
		f := e.Ctx.WaveFrequencies[i]
		scalar += cycloidal(length*e.Pattern.Wave.Frequency*f+e.Pattern.Wave.Phase) / f
	}
	return 0.2 * (2.5 + scalar/float64(len(sources)))
}

// Slope maps the surface inclination, optionally mixed with altitude
type Slope struct {
	Vector   core.Vec3
	PointAt  bool
	SlopeLen float64
	SlopeMod core.Vec2

	Altitude    core.Vec3
	AltitudeLen float64
	AltitudeMod core.Vec2
}

func wrapUnit(v float64) float64 {
	if v < 0.0 {
		return 1.0 + math.Mod(v, 1.0)
	}
	return math.Mod(v, 1.0)
}

func (k *Slope) Raw(p core.Vec3, e *Eval) float64 {
	if e.Hit == nil {
		return 0.0
	}

	var value1 float64
	if k.PointAt {
		value1 = e.Hit.Normal.Dot(k.Vector.Subtract(e.Hit.Point).Normalize())
	} else {
		value1 = e.Hit.Normal.Dot(k.Vector)
	}
	value1 = math.Max(-1.0, math.Min(1.0, value1))
	value1 = math.Asin(value1) / math.Pi * 2
	value1 = (value1 + 1.0) * 0.5

	if k.SlopeMod.V != 0.0 {
		value1 = (value1 - k.SlopeMod.U) / k.SlopeMod.V
	}

	if k.AltitudeLen == 0.0 {
		if value1 == 1.0 {
			return value1 - epsilon
		}
		return wrapUnit(value1)
	}

	value2 := p.Dot(k.Altitude)
	if k.AltitudeMod.V != 0.0 {
		value2 = (value2 - k.AltitudeMod.U) / k.AltitudeMod.V
	}

	value := k.SlopeLen*value1 + k.AltitudeLen*value2
	// 1.0 is common enough that it must not wrap to the bottom of the map
	if value-1.0 < epsilon && value >= 1.0 {
		return value - epsilon
	}
	return wrapUnit(value)
}

// Spherical falls off with distance from the origin
type Spherical struct{}

func (k *Spherical) Raw(p core.Vec3, e *Eval) float64 {
	return clipDensity(p.Length())
}

// spiralTerms returns the distance from the Z axis, the angle in the XY
// plane and the turbulence offset shared by both spirals
func spiralTerms(p core.Vec3, e *Eval) (rad, phi, turbVal float64) {
	if t := e.Turbulence(); t != nil {
		turbVal = t.Amplitude.X * noise.TurbulenceValue(p, &t.Turbulence, e.Generator)
	}
	rad = math.Sqrt(p.X*p.X + p.Y*p.Y)
	if rad != 0.0 {
		if p.X < 0.0 {
			phi = 3.0*math.Pi/2 - math.Asin(p.Y/rad)
		} else {
			phi = math.Pi/2 + math.Asin(p.Y/rad)
		}
	}
	return rad, phi, turbVal
}

// Spiral1 winds Arms ramps around the Z axis
type Spiral1 struct {
	Arms int
}

func (k *Spiral1) Raw(p core.Vec3, e *Eval) float64 {
	rad, phi, turbVal := spiralTerms(p, e)
	return p.Z + rad + float64(k.Arms)*phi/(2*math.Pi) + turbVal
}

// Spiral2 crosses two triangle-waved spirals
type Spiral2 struct {
	Arms int
}

func (k *Spiral2) Raw(p core.Vec3, e *Eval) float64 {
	rad, phi, turbVal := spiralTerms(p, e)
	turbVal = triangleWave(p.Z + rad + float64(k.Arms)*phi/(2*math.Pi) + turbVal)
	return triangleWave(rad) + turbVal
}

// Square tiles the XZ plane with four values
type Square struct{}

func (k *Square) Entries() int { return 4 }

func (k *Square) Raw(p core.Vec3, e *Eval) float64 {
	x := int(math.Floor(p.X))
	z := int(math.Floor(p.Z))
	if x&1 != 0 {
		if z&1 != 0 {
			return 2.0
		}
		return 3.0
	}
	if z&1 != 0 {
		return 1.0
	}
	return 0.0
}

// Wood is concentric cylinders around Z, distorted by its turbulence
type Wood struct{}

func (k *Wood) readsTurbulence() {}

func (k *Wood) Raw(p core.Vec3, e *Eval) float64 {
	var x, y float64
	if t := e.Turbulence(); t != nil {
		wt := noise.DTurbulence(p, &t.Turbulence)
		x = cycloidal((p.X + wt.X) * t.Amplitude.X)
		y = cycloidal((p.Y + wt.Y) * t.Amplitude.Y)
	}
	x += p.X
	y += p.Y
	return math.Sqrt(x*x + y*y)
}

// Wrinkles sums ten octaves of noise
type Wrinkles struct{}

func (k *Wrinkles) Raw(p core.Vec3, e *Eval) float64 {
	stretched := e.Generator > noise.Original
	octave := func(q core.Vec3) float64 {
		n := noise.Noise(q, e.Generator)
		if stretched {
			return math.Min(math.Max(n*2.0-0.5, 0.0), 1.0)
		}
		return n
	}

	value := octave(p)
	lambda, omega := 2.0, 0.5
	for i := 1; i < 10; i++ {
		value += omega * octave(p.Multiply(lambda))
		lambda *= 2.0
		omega *= 0.5
	}
	return value / 2.0
}
