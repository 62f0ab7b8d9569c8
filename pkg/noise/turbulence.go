package noise

import "github.com/df07/go-trace-core/pkg/core"

// Turbulence holds the fractal sum parameters shared by turbulence warps
// and the patterns that consume them directly
type Turbulence struct {
	Octaves   int
	Omega     float64
	Lambda    float64
	Amplitude core.Vec3
}

// DefaultTurbulence returns the parameters a turbulence warp starts with
func DefaultTurbulence() Turbulence {
	return Turbulence{Octaves: 6, Omega: 0.5, Lambda: 2.0}
}

// octaveNoise maps a raw noise sample to the octave contribution for g.
// Original keeps the raw value; the other generators stretch it.
func octaveNoise(p core.Vec3, g Generator, clip bool) float64 {
	n := Noise(p, g)
	if g == Default || g == Original {
		return n
	}
	v := 2.0*n - 0.5
	if clip {
		v = clamp01(v)
	}
	return v
}

// TurbulenceValue computes the fractal Brownian motion sum of scalar noise
func TurbulenceValue(p core.Vec3, t *Turbulence, g Generator) float64 {
	value := octaveNoise(p, g, true)

	l, o := t.Lambda, t.Omega
	for i := 2; i <= t.Octaves; i++ {
		value += o * octaveNoise(p.Multiply(l), g, false)
		if i < t.Octaves {
			l *= t.Lambda
			o *= t.Omega
		}
	}
	return value
}

// DTurbulence computes the fractal Brownian motion sum of vector noise
func DTurbulence(p core.Vec3, t *Turbulence) core.Vec3 {
	result := DNoise(p)

	l, o := t.Lambda, t.Omega
	for i := 2; i <= t.Octaves; i++ {
		result = result.Add(DNoise(p.Multiply(l)).Multiply(o))
		if i < t.Octaves {
			l *= t.Lambda
			o *= t.Omega
		}
	}
	return result
}
