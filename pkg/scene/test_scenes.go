package scene

import (
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/geometry"
	"github.com/df07/go-trace-core/pkg/lights"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
)

// NewMirrorHallwayScene places the camera between two parallel mirrors
// facing each other, so every reflection spawns another. reflectivity is
// the fraction of light each mirror reflects.
func NewMirrorHallwayScene(reflectivity float64) *SceneData {
	s := NewSceneData()
	s.Camera = CameraConfig{
		Center:      core.NewVec3(0, 0, -1),
		LookAt:      core.NewVec3(0, 0, 1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        30,
		AspectRatio: 1,
	}
	s.Background = core.Opaque(core.NewColour(0.2, 0.3, 0.5))

	f := material.NewFinish()
	f.Diffuse = 0.2
	f.Ambient = core.Colour{}
	f.ReflectionMax = core.Grey(reflectivity)
	f.ReflectionMin = core.Grey(reflectivity)
	tex := material.NewPlainTexture(material.NewPlainPigment(core.Opaque(core.NewColour(0.9, 0.9, 0.8))), f)

	front := geometry.NewPlane(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1), tex)
	back := geometry.NewPlane(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1), tex)
	front.Flags |= object.Opaque
	back.Flags |= object.Opaque
	s.Add(front, back)

	s.AddLight(lights.NewPointLight(core.NewVec3(0, 1.5, 0), core.White))
	return s
}

// NewLayeredFilterScene is a wall at z=0 facing the camera with two
// texture layers: red filtering half its light over opaque blue. A white
// light shines from the camera position.
func NewLayeredFilterScene() *SceneData {
	s := NewSceneData()
	s.Camera = CameraConfig{
		Center:      core.NewVec3(0, 0, -5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        30,
		AspectRatio: 1,
	}

	layerFinish := func() *material.Finish {
		f := material.NewFinish()
		f.Diffuse = 1
		f.Ambient = core.Colour{}
		return f
	}
	tex := material.NewLayeredTexture(
		&material.Layer{
			Pigment: material.NewPlainPigment(core.NewTransColour(1, 0, 0, 0.5, 0)),
			Finish:  layerFinish(),
		},
		&material.Layer{
			Pigment: material.NewPlainPigment(core.Opaque(core.NewColour(0, 0, 1))),
			Finish:  layerFinish(),
		},
	)
	s.Add(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), tex))
	s.AddLight(lights.NewPointLight(core.NewVec3(0, 0, -5), core.White))
	return s
}

// NewShadowScene lights a floor past an opaque box and a half transparent
// sphere, so that shadow rays meet zero, one or both occluders
func NewShadowScene() *SceneData {
	s := NewSceneData()
	s.Camera = CameraConfig{
		Center:      core.NewVec3(0, 6, -6),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        50,
		AspectRatio: 1,
	}
	s.Background = core.Opaque(core.Grey(0.1))

	floor := geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), material.NewSolidTexture(core.Grey(0.8)))
	floor.Flags |= object.Opaque

	box := geometry.NewBox(core.NewVec3(-1.5, 1, -0.5), core.NewVec3(-0.5, 1.5, 0.5), material.NewSolidTexture(core.NewColour(0.3, 0.6, 0.3)))
	box.Flags |= object.Opaque

	tinted := material.NewPlainTexture(material.NewPlainPigment(core.NewTransColour(0.9, 0.4, 0.4, 0.6, 0.2)), material.NewFinish())
	ball := geometry.NewSphere(core.NewVec3(0.8, 1.5, 0), 0.6, tinted)

	s.Add(floor, box, ball)
	s.AddLight(lights.NewPointLight(core.NewVec3(0, 6, 0), core.White))
	return s
}

// NewSubsurfaceScene is a translucent sphere lit from behind and above
func NewSubsurfaceScene() *SceneData {
	s := NewSceneData()
	s.Camera = CameraConfig{
		Center:      core.NewVec3(0, 0, -5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        30,
		AspectRatio: 1,
	}
	s.Subsurface.Enabled = true
	s.Subsurface.SamplesDiffuse = 8
	s.Subsurface.SamplesSingle = 8

	f := material.NewFinish()
	f.Diffuse = 0.8
	f.UseSubsurface = true
	f.SubsurfaceTranslucency = core.NewColour(1.5, 0.8, 0.5)

	wax := geometry.NewSphere(core.Vec3{}, 1, material.NewPlainTexture(
		material.NewPlainPigment(core.Opaque(core.NewColour(0.95, 0.85, 0.7))), f))
	wax.Interior = core.NewInterior()
	wax.Interior.IOR = 1.3
	wax.Interior.Subsurface = core.NewSubsurfaceInterior(1.3)
	s.Add(wax)

	s.AddLight(lights.NewPointLight(core.NewVec3(2, 4, 3), core.White))
	return s
}
