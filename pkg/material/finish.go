package material

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
)

const epsilon = 1e-10

// ReflectionModel selects how reflectivity varies with the angle of incidence
type ReflectionModel int

const (
	// StandardReflection interpolates between ReflectionMin and
	// ReflectionMax by (1 - cos)^falloff
	StandardReflection ReflectionModel = iota
	// FresnelReflection interpolates by the Fresnel reflectance and needs
	// the relative index of refraction of an interior
	FresnelReflection
)

// Finish describes how a layer's surface reacts to light
type Finish struct {
	Diffuse     float64
	DiffuseBack float64
	Brilliance  float64
	// BrillianceOut shapes the outgoing direction of diffuse light
	BrillianceOut float64
	// Crand subtracts a random amount from every diffuse sample
	Crand float64
	// DiffuseAlbedo makes a diffuse of 1 reflect all incoming light
	// regardless of brilliance
	DiffuseAlbedo bool

	Ambient  core.Colour
	Emission core.Colour

	Specular float64
	// Roughness is the specular spread; smaller is sharper
	Roughness float64
	Phong     float64
	PhongSize float64
	Metallic  float64

	Irid              float64
	IridFilmThickness float64
	IridTurb          float64

	ReflectionMax     core.Colour
	ReflectionMin     core.Colour
	ReflectionModel   ReflectionModel
	ReflectionFalloff float64
	ReflectExp        float64
	ReflectMetallic   float64
	ConserveEnergy    bool

	// Fresnel scales the Fresnel loss applied to diffuse, emission and
	// highlights; zero disables it
	Fresnel       float64
	AlphaKnockout bool

	UseSubsurface bool
	// SubsurfaceTranslucency is the mean free path per channel, in mm
	SubsurfaceTranslucency core.Colour
}

// NewFinish returns the default finish
func NewFinish() *Finish {
	return &Finish{
		Diffuse:           0.6,
		Brilliance:        1.0,
		BrillianceOut:     1.0,
		Ambient:           core.Grey(0.1),
		Roughness:         0.05,
		PhongSize:         40.0,
		IridFilmThickness: 0.0,
		ReflectionFalloff: 1.0,
		ReflectExp:        1.0,
	}
}

// BrillianceAdjust scales direct diffuse light
func (f *Finish) BrillianceAdjust() float64 {
	if f.DiffuseAlbedo {
		return (f.Brilliance + 1.0) / 2.0
	}
	return 1.0
}

// BrillianceAdjustRad scales radiosity diffuse light
func (f *Finish) BrillianceAdjustRad() float64 {
	if f.DiffuseAlbedo {
		return 1.0
	}
	return 2.0 / (f.Brilliance + 1.0)
}

// SpecularExponent is the highlight exponent for the roughness
func (f *Finish) SpecularExponent() float64 {
	if f.Roughness <= 0 {
		return 1.0 / epsilon
	}
	return 1.0 / f.Roughness
}

// Reflects reports whether the finish has any reflection at all
func (f *Finish) Reflects() bool {
	return !f.ReflectionMax.IsZero() || !f.ReflectionMin.IsZero()
}

// Lit reports whether any direct lighting term is active
func (f *Finish) Lit() bool {
	return f.Diffuse != 0 || f.DiffuseBack != 0 || f.Specular != 0 || f.Phong != 0
}

// Reflectivity returns the reflected colour at the given cosine of the
// angle of incidence and the factor that scales the reflected ray's weight
func (f *Finish) Reflectivity(cosIncidence, relativeIOR float64) (core.Colour, float64) {
	if f.ReflectionModel == FresnelReflection {
		r := FresnelR(cosIncidence, relativeIOR)
		refl := f.ReflectionMax.Multiply(r).Add(f.ReflectionMin.Multiply(1 - r))
		return refl, refl.WeightMax()
	}

	weight := math.Max(f.ReflectionMax.WeightMax(), f.ReflectionMin.WeightMax())

	var frac float64
	if math.Abs(f.ReflectionFalloff-1.0) > epsilon {
		frac = math.Pow(1.0-cosIncidence, f.ReflectionFalloff)
	} else {
		frac = 1.0 - cosIncidence
	}

	switch {
	case math.Abs(frac) < epsilon:
		return f.ReflectionMin, weight
	case math.Abs(frac-1.0) < epsilon:
		return f.ReflectionMax, weight
	}
	return f.ReflectionMax.Multiply(frac).Add(f.ReflectionMin.Multiply(1 - frac)), weight
}

// FresnelR is the reflectance of unpolarised light at relative index n.
// A non-positive discriminant means total reflection.
func FresnelR(cosTi, n float64) float64 {
	sqrg := n*n + cosTi*cosTi - 1.0
	if sqrg <= 0.0 {
		return 1.0
	}
	g := math.Sqrt(sqrg)

	q1 := (g - cosTi) / (g + cosTi)
	q2 := (cosTi*(g+cosTi) - 1.0) / (cosTi*(g-cosTi) + 1.0)

	return clip(0.5*q1*q1*(1.0+q2*q2), 0.0, 1.0)
}

// MetallicTint tints colour towards tint by the empirical metallic
// reflectivity curve at the given cosine
func MetallicTint(colour core.Colour, metallic float64, tint core.Colour, cosAngle float64) core.Colour {
	if metallic == 0.0 {
		return colour
	}
	x := math.Abs(math.Acos(clip(cosAngle, -1, 1))) / (math.Pi / 2)
	d := x - 1.12
	F := clip(0.014567225/(d*d)-0.011612903, 0.0, 1.0)

	scale := tint.AddScalar(-1).Multiply(metallic * (1.0 - F)).AddScalar(1)
	return colour.MultiplyColour(scale)
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
