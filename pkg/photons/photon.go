// Package photons stores surface photons in compact form and gathers the
// ones near a shading point.
package photons

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-trace-core/pkg/core"
)

// angleSteps is the number of packed angle steps either side of zero
const angleSteps = 127

// RGBE is a colour stored as three mantissas sharing one exponent
type RGBE [4]uint8

// EncodeRGBE packs a colour; channels below about 1e-32 become black
func EncodeRGBE(c core.Colour) RGBE {
	r, g, b := float32(c.R), float32(c.G), float32(c.B)
	v := math32.Max(r, math32.Max(g, b))
	if v < 1e-32 {
		return RGBE{}
	}
	m, e := math32.Frexp(v)
	scale := m * 256.0 / v
	return RGBE{uint8(r * scale), uint8(g * scale), uint8(b * scale), uint8(e + 128)}
}

// Colour unpacks the stored colour
func (c RGBE) Colour() core.Colour {
	if c[3] == 0 {
		return core.Colour{}
	}
	f := math32.Ldexp(1.0, int(c[3])-(128+8))
	return core.NewColour(
		float64((float32(c[0])+0.5)*f),
		float64((float32(c[1])+0.5)*f),
		float64((float32(c[2])+0.5)*f),
	)
}

// Photon is one stored light packet
type Photon struct {
	Loc    [3]float32
	Colour RGBE
	// Theta and Phi pack the direction towards the light in steps of
	// pi/127
	Theta int8
	Phi   int8
}

// Position returns the location as a vector
func (p *Photon) Position() core.Vec3 {
	return core.NewVec3(float64(p.Loc[0]), float64(p.Loc[1]), float64(p.Loc[2]))
}

func packAngle(a float32) int8 {
	i := math32.Floor(a*angleSteps/math32.Pi + 0.5)
	return int8(math32.Max(-angleSteps, math32.Min(angleSteps, i)))
}

// NewPhoton packs a photon at pos; dir points back towards the light it
// came from
func NewPhoton(pos core.Vec3, colour core.Colour, dir core.Vec3) Photon {
	d := dir.Normalize()
	theta := math32.Asin(math32.Max(-1, math32.Min(1, float32(d.Y))))
	phi := math32.Atan2(float32(d.Z), float32(d.X))
	return Photon{
		Loc:    [3]float32{float32(pos.X), float32(pos.Y), float32(pos.Z)},
		Colour: EncodeRGBE(colour),
		Theta:  packAngle(theta),
		Phi:    packAngle(phi),
	}
}

// SinCosTables hold sin and cos of every packed angle step, indexed by the
// packed value plus 127
type SinCosTables struct {
	Sin [2*angleSteps + 1]float64
	Cos [2*angleSteps + 1]float64
}

// NewSinCosTables fills the tables
func NewSinCosTables() *SinCosTables {
	t := &SinCosTables{}
	for i := range t.Sin {
		theta := float32(i-angleSteps) * math32.Pi / angleSteps
		t.Sin[i] = float64(math32.Sin(theta))
		t.Cos[i] = float64(math32.Cos(theta))
	}
	return t
}

// Direction decodes the packed direction of p
func (t *SinCosTables) Direction(p *Photon) core.Vec3 {
	theta := int(p.Theta) + angleSteps
	phi := int(p.Phi) + angleSteps
	x := t.Cos[theta]
	return core.NewVec3(x*t.Cos[phi], t.Sin[theta], x*t.Sin[phi])
}
