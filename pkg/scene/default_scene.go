package scene

import (
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/geometry"
	"github.com/df07/go-trace-core/pkg/lights"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
	"github.com/df07/go-trace-core/pkg/pattern"
)

// NewDefaultScene creates a checkered floor with a bumpy matte sphere, a
// mirror sphere and a glass sphere under a point light and an area light
func NewDefaultScene() *SceneData {
	s := NewSceneData()
	s.Camera = CameraConfig{
		Center:      core.NewVec3(0, 1.5, -6),
		LookAt:      core.NewVec3(0, 0.8, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 4.0 / 3.0,
	}
	s.Background = core.Opaque(core.NewColour(0.55, 0.7, 0.95))
	s.AmbientLight = core.Grey(0.1)

	// Floor: checker pigment with a faint reflection
	checker := material.NewColourMapPigment(pattern.NewPattern(&pattern.Checker{}),
		pattern.BlendEntry[core.TransColour]{Key: 0, Value: core.Opaque(core.Grey(0.9))},
		pattern.BlendEntry[core.TransColour]{Key: 1, Value: core.Opaque(core.Grey(0.2))},
	)
	floorFinish := material.NewFinish()
	floorFinish.ReflectionMax = core.Grey(0.15)
	floorFinish.ReflectionMin = core.Grey(0.15)
	floor := geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), material.NewPlainTexture(checker, floorFinish))

	// Matte red sphere with bumps and a phong highlight
	matteFinish := material.NewFinish()
	matteFinish.Phong = 0.6
	matteFinish.PhongSize = 40
	bumps := pattern.NewNormal(pattern.NewPattern(&pattern.Bumps{}))
	bumps.Amount = 0.3
	matte := geometry.NewSphere(core.NewVec3(-1.6, 1, 0.5), 1, material.NewLayeredTexture(&material.Layer{
		Pigment: material.NewPlainPigment(core.Opaque(core.NewColour(0.8, 0.2, 0.15))),
		Normal:  bumps,
		Finish:  matteFinish,
	}))

	// Mirror
	mirrorFinish := material.NewFinish()
	mirrorFinish.Diffuse = 0.1
	mirrorFinish.ReflectionMax = core.Grey(0.85)
	mirrorFinish.ReflectionMin = core.Grey(0.85)
	mirrorFinish.Specular = 0.8
	mirror := geometry.NewSphere(core.NewVec3(0.6, 1, 1.5), 1, material.NewPlainTexture(
		material.NewPlainPigment(core.Opaque(core.Grey(0.7))), mirrorFinish))

	// Glass with a green fade and Fresnel reflection
	glassFinish := material.NewFinish()
	glassFinish.Diffuse = 0
	glassFinish.Ambient = core.Colour{}
	glassFinish.Specular = 0.9
	glassFinish.Roughness = 0.002
	glassFinish.ReflectionModel = material.FresnelReflection
	glassFinish.ReflectionMax = core.White
	glassFinish.ConserveEnergy = true
	glass := geometry.NewSphere(core.NewVec3(1.9, 0.7, -0.6), 0.7, material.NewPlainTexture(
		material.NewPlainPigment(core.NewTransColour(1, 1, 1, 0, 1)), glassFinish))
	glass.Interior = core.NewInterior()
	glass.Interior.IOR = 1.5
	glass.Interior.FadeDistance = 1
	glass.Interior.FadePower = 1001
	glass.Interior.FadeColour = core.NewColour(0.7, 1, 0.8)
	glass.Flags |= object.NoShadow

	// Gold ring lying under the glass sphere and a blue triangle behind
	ringFinish := material.NewFinish()
	ringFinish.Metallic = 1
	ringFinish.Specular = 0.5
	ring := geometry.NewDisc(core.NewVec3(1.9, 0.01, -0.6), core.NewVec3(0, 1, 0), 1.1, material.NewPlainTexture(
		material.NewPlainPigment(core.Opaque(core.NewColour(0.9, 0.7, 0.2))), ringFinish))
	ring.HoleRadius = 0.8
	sail := geometry.NewTriangle(core.NewVec3(-3, 0, 4), core.NewVec3(3, 0, 4), core.NewVec3(0, 3.5, 4),
		material.NewPlainTexture(material.NewPlainPigment(core.Opaque(core.NewColour(0.2, 0.3, 0.8))), material.NewFinish()))

	floor.Flags |= object.Opaque
	matte.Flags |= object.Opaque
	mirror.Flags |= object.Opaque
	ring.Flags |= object.Opaque
	sail.Flags |= object.Opaque

	s.Add(floor, matte, mirror, glass, ring, sail)

	s.AddLight(lights.NewPointLight(core.NewVec3(-5, 8, -6), core.Grey(0.8)))
	area := lights.NewPointLight(core.NewVec3(4, 6, -3), core.Grey(0.5)).
		MakeArea(core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), 3, 3)
	area.Jitter = true
	area.AdaptiveLevel = 1
	s.AddLight(area)

	return s
}
