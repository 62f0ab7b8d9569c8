package core

import "math"

// Interior describes the medium inside a closed object
type Interior struct {
	IOR        float64
	Dispersion float64
	// DispersionSamples is the number of spectral bands traced when the
	// medium disperses light
	DispersionSamples int

	FadeDistance float64
	FadePower    float64
	FadeColour   Colour

	Caustics   float64
	OldRefract float64

	Hollow bool

	// Subsurface is nil unless the medium scatters light below its surface
	Subsurface *SubsurfaceInterior
}

// NewInterior creates an interior with neutral optical properties
func NewInterior() *Interior {
	return &Interior{
		IOR:               1.0,
		Dispersion:        1.0,
		DispersionSamples: 7,
		OldRefract:        1.0,
	}
}

// Disperses reports whether the medium splits light into spectral bands
func (i *Interior) Disperses() bool {
	return i.Dispersion != 1.0 && i.DispersionSamples > 1
}

// SubsurfaceInterior holds the precomputed diffuse reflectance inversion of
// the dipole model for one relative index of refraction
type SubsurfaceInterior struct {
	Eta float64
	// A is the internal reflection parameter (1 + Fdr) / (1 - Fdr)
	A float64

	albedos []float64
	rd      []float64
}

const subsurfaceTableSize = 256

// NewSubsurfaceInterior precomputes the reduced albedo lookup for eta
func NewSubsurfaceInterior(eta float64) *SubsurfaceInterior {
	fdr := FresnelDiffuseReflectance(eta)
	s := &SubsurfaceInterior{
		Eta:     eta,
		A:       (1 + fdr) / (1 - fdr),
		albedos: make([]float64, subsurfaceTableSize+1),
		rd:      make([]float64, subsurfaceTableSize+1),
	}
	for i := 0; i <= subsurfaceTableSize; i++ {
		alpha := float64(i) / subsurfaceTableSize
		s.albedos[i] = alpha
		s.rd[i] = s.diffuseReflectance(alpha)
	}
	return s
}

// diffuseReflectance is the total diffuse reflectance of a semi-infinite
// medium with reduced albedo alpha
func (s *SubsurfaceInterior) diffuseReflectance(alpha float64) float64 {
	root := math.Sqrt(3 * (1 - alpha))
	return alpha / 2 * (1 + math.Exp(-4.0/3.0*s.A*root)) * math.Exp(-root)
}

// ReducedAlbedo returns, per channel, the reduced scattering albedo whose
// diffuse reflectance matches the given diffuse colour
func (s *SubsurfaceInterior) ReducedAlbedo(diffuse Colour) Colour {
	var out Colour
	for ch := 0; ch < 3; ch++ {
		out = out.Set(ch, s.invert(diffuse.Get(ch)))
	}
	return out
}

func (s *SubsurfaceInterior) invert(rd float64) float64 {
	if rd <= 0 {
		return 0
	}
	last := len(s.rd) - 1
	if rd >= s.rd[last] {
		return 1
	}
	lo, hi := 0, last
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s.rd[mid] < rd {
			lo = mid
		} else {
			hi = mid
		}
	}
	span := s.rd[hi] - s.rd[lo]
	if span <= 0 {
		return s.albedos[lo]
	}
	f := (rd - s.rd[lo]) / span
	return s.albedos[lo] + f*(s.albedos[hi]-s.albedos[lo])
}

// FresnelDiffuseReflectance is the polynomial fit of the average diffuse
// Fresnel reflectance for relative index eta
func FresnelDiffuseReflectance(eta float64) float64 {
	if eta < 1 {
		return -0.4399 + 0.7099/eta - 0.3319/(eta*eta) + 0.0636/(eta*eta*eta)
	}
	return -1.4399/(eta*eta) + 0.7099/eta + 0.6681 + 0.0636*eta
}
