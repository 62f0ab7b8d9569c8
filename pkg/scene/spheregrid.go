package scene

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/geometry"
	"github.com/df07/go-trace-core/pkg/lights"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Colour {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewColour(
		math.Max(0, math.Min(1, r)),
		math.Max(0, math.Min(1, g)),
		math.Max(0, math.Min(1, blue)),
	)
}

// NewSphereGridScene creates a gridSize x gridSize grid of metallic spheres
// on a floor. With hundreds of bounded objects it exercises the
// intersection index.
func NewSphereGridScene(gridSize int) *SceneData {
	s := NewSceneData()
	s.Camera = CameraConfig{
		Center:      core.NewVec3(4.5, 6, -9),
		LookAt:      core.NewVec3(4.5, 0.8, 4.5),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}
	s.Background = core.Opaque(core.NewColour(0.5, 0.7, 1.0))
	s.AmbientLight = core.Grey(0.2)

	ground := geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), material.NewPlainTexture(
		material.NewPlainPigment(core.Opaque(core.Grey(0.5))), material.NewFinish()))
	ground.Flags |= object.Opaque
	s.Add(ground)

	// Fit the grid into the same 9x9 area whatever its size
	targetArea := 9.0
	spacing := targetArea / float64(max(1, gridSize-1))
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	// Hue varies along x, chroma along z
	baseLightness := 0.65
	minChroma, maxChroma := 0.05, 0.25
	steps := float64(max(1, gridSize-1))

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5

			hue := float64(i) / steps * 360.0
			chroma := minChroma + float64(j)/steps*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			finish := material.NewFinish()
			finish.Diffuse = 0.3
			finish.Metallic = 1
			finish.Specular = 0.6
			finish.Roughness = 0.01 + 0.02*float64((i+j)%3)
			reflect := 0.4 + 0.1*float64((i+j)%3)
			finish.ReflectionMax = core.Grey(reflect)
			finish.ReflectionMin = core.Grey(reflect)

			sphere := geometry.NewSphere(core.NewVec3(x, radius, z), radius, material.NewPlainTexture(
				material.NewPlainPigment(core.Opaque(oklchToRGB(lightness, chroma, hue))), finish))
			sphere.Flags |= object.Opaque
			s.Add(sphere)
		}
	}

	s.AddLight(lights.NewPointLight(core.NewVec3(20, 25, -20), core.NewColour(1.0, 0.96, 0.9)))
	return s
}
