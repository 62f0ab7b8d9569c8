package noise

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
)

// Gradient noise tables. noiseEntries must be a power of two because
// lattice indices are wrapped with a mask.
const (
	noiseEntries = 2048
	rollover     = 10000000.023157213
)

var (
	noisePermutation [2 * (noiseEntries + 1)]int
	noiseGradients   [2 * (noiseEntries + 1)]core.Vec3
)

func initSolidNoise() {
	next := int32(1)
	for i := 0; i < noiseEntries; i++ {
		var v core.Vec3
		var s float64
		for {
			for j := 0; j < 3; j++ {
				next = lcg(next)
				c := float64(lcgValue(next)%(noiseEntries<<1)-noiseEntries) / noiseEntries
				v = v.Set(j, c)
			}
			s = v.LengthSquared()
			if s <= 1.0 && s >= 1.0e-5 {
				break
			}
		}
		noiseGradients[i] = v.Multiply(1 / math.Sqrt(s))
	}

	for i := 0; i < noiseEntries; i++ {
		noisePermutation[i] = i
	}
	for i := noiseEntries; i > 0; i -= 2 {
		k := noisePermutation[i]
		next = lcg(next)
		j := lcgValue(next) % noiseEntries
		noisePermutation[i] = noisePermutation[j]
		noisePermutation[j] = k
	}
	for i := 0; i < noiseEntries+2; i++ {
		noisePermutation[noiseEntries+i] = noisePermutation[i]
		noiseGradients[noiseEntries+i] = noiseGradients[i]
	}
}

func setupSolid(v float64) (b0, b1 int, r0, r1 float64) {
	t := v + rollover
	it := int(math.Floor(t))
	b0 = it & (noiseEntries - 1)
	b1 = (b0 + 1) & (noiseEntries - 1)
	r0 = t - float64(it)
	r1 = r0 - 1.0
	return
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func vlerp(t float64, a, b core.Vec3) core.Vec3 {
	return core.Vec3{X: lerp(t, a.X, b.X), Y: lerp(t, a.Y, b.Y), Z: lerp(t, a.Z, b.Z)}
}

func gradAt(q core.Vec3, rx, ry, rz float64) float64 {
	return rx*q.X + ry*q.Y + rz*q.Z
}

type solidCell struct {
	bz0, bz1           int
	b00, b10, b01, b11 int
	rx0, rx1           float64
	ry0, ry1           float64
	rz0, rz1           float64
	sx, sy, sz         float64
}

func newSolidCell(p core.Vec3) solidCell {
	var c solidCell
	var bx0, bx1, by0, by1 int
	bx0, bx1, c.rx0, c.rx1 = setupSolid(p.X)
	by0, by1, c.ry0, c.ry1 = setupSolid(p.Y)
	c.bz0, c.bz1, c.rz0, c.rz1 = setupSolid(p.Z)

	i := noisePermutation[bx0]
	j := noisePermutation[bx1]
	c.b00 = noisePermutation[i+by0]
	c.b10 = noisePermutation[j+by0]
	c.b01 = noisePermutation[i+by1]
	c.b11 = noisePermutation[j+by1]

	c.sx = scurve(c.rx0)
	c.sy = scurve(c.ry0)
	c.sz = scurve(c.rz0)
	return c
}

// SolidNoise is classic Perlin gradient noise, roughly in [-1, 1]
func SolidNoise(p core.Vec3) float64 {
	c := newSolidCell(p)

	u := gradAt(noiseGradients[c.b00+c.bz0], c.rx0, c.ry0, c.rz0)
	v := gradAt(noiseGradients[c.b10+c.bz0], c.rx1, c.ry0, c.rz0)
	a := lerp(c.sx, u, v)

	u = gradAt(noiseGradients[c.b01+c.bz0], c.rx0, c.ry1, c.rz0)
	v = gradAt(noiseGradients[c.b11+c.bz0], c.rx1, c.ry1, c.rz0)
	b := lerp(c.sx, u, v)

	near := lerp(c.sy, a, b)

	u = gradAt(noiseGradients[c.b00+c.bz1], c.rx0, c.ry0, c.rz1)
	v = gradAt(noiseGradients[c.b10+c.bz1], c.rx1, c.ry0, c.rz1)
	a = lerp(c.sx, u, v)

	u = gradAt(noiseGradients[c.b01+c.bz1], c.rx0, c.ry1, c.rz1)
	v = gradAt(noiseGradients[c.b11+c.bz1], c.rx1, c.ry1, c.rz1)
	b = lerp(c.sx, u, v)

	far := lerp(c.sy, a, b)

	return lerp(c.sz, near, far)
}

// SolidDNoise interpolates the lattice gradients around p
func SolidDNoise(p core.Vec3) core.Vec3 {
	c := newSolidCell(p)

	a := vlerp(c.sx, noiseGradients[c.b00+c.bz0], noiseGradients[c.b10+c.bz0])
	b := vlerp(c.sx, noiseGradients[c.b01+c.bz0], noiseGradients[c.b11+c.bz0])
	near := vlerp(c.sy, a, b)

	a = vlerp(c.sx, noiseGradients[c.b00+c.bz1], noiseGradients[c.b10+c.bz1])
	b = vlerp(c.sx, noiseGradients[c.b01+c.bz1], noiseGradients[c.b11+c.bz1])
	far := vlerp(c.sy, a, b)

	return vlerp(c.sz, near, far)
}
