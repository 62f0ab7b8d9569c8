// Package scene holds the read-only data a trace engine renders: objects,
// lights, atmosphere and the quality and feature settings.
package scene

import (
	"fmt"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/lights"
	"github.com/df07/go-trace-core/pkg/noise"
	"github.com/df07/go-trace-core/pkg/object"
	"github.com/df07/go-trace-core/pkg/photons"
)

// BoundingMethod selects the intersection strategy
type BoundingMethod int

const (
	BruteForce BoundingMethod = iota
	// SlabTree is the bounding box hierarchy searched with a priority queue
	SlabTree
	// BSPTree is the binary space partition with a per-ray mailbox
	BSPTree
)

// ParseBoundingMethod maps a configuration name onto a BoundingMethod
func ParseBoundingMethod(name string) (BoundingMethod, error) {
	switch name {
	case "none", "brute", "brute-force":
		return BruteForce, nil
	case "slab", "bvh":
		return SlabTree, nil
	case "bsp":
		return BSPTree, nil
	}
	return BruteForce, fmt.Errorf("unknown bounding method %q", name)
}

// QualityFlags switch rendering features on and off
type QualityFlags struct {
	AmbientOnly bool
	Shadows     bool
	AreaLights  bool
	Normals     bool
	Reflections bool
	Refractions bool
	Media       bool
	Subsurface  bool
	Photons     bool
}

// DefaultQuality enables every feature
func DefaultQuality() QualityFlags {
	return QualityFlags{
		Shadows:     true,
		AreaLights:  true,
		Normals:     true,
		Reflections: true,
		Refractions: true,
		Media:       true,
		Subsurface:  true,
		Photons:     true,
	}
}

// SubsurfaceSettings control the subsurface light transport sampler
type SubsurfaceSettings struct {
	Enabled        bool
	SamplesDiffuse int
	SamplesSingle  int
	// MMPerUnit converts scene units into the millimetres translucency is
	// given in
	MMPerUnit    float64
	UseRadiosity bool
}

// RadiositySettings control how the engine consults the radiosity functor
type RadiositySettings struct {
	Enabled bool
	// Brightness scales the gathered ambient light
	Brightness float64
	// MaxTraceLevel is the deepest level radiosity is sampled at
	MaxTraceLevel int
	// Brilliance applies finish brilliance to radiosity diffuse light
	Brilliance bool
	// DefaultImportance is the importance of objects that set none
	DefaultImportance float64
}

// PhotonSettings describe the surface photon map
type PhotonSettings struct {
	Enabled bool
	Map     *photons.Map
	// Radius and Count bound each gather
	Radius float64
	Count  int
}

// CameraConfig positions the camera for a built-in scene
type CameraConfig struct {
	Center core.Vec3
	LookAt core.Vec3
	Up     core.Vec3
	VFov   float64
	// AspectRatio is width over height
	AspectRatio float64
}

// SceneData contains all the elements a trace engine reads
type SceneData struct {
	Objects []object.Object
	Lights  []*lights.Light
	// LightGroups are lights that only reach objects naming the group
	LightGroups [][]*lights.Light

	AtmosphereIOR        float64
	AtmosphereDispersion float64
	Background           core.TransColour
	SkySphere            *SkySphere
	Fogs                 []*Fog
	Rainbows             []*Rainbow

	AmbientLight    core.Colour
	IridWavelengths core.Colour

	// LanguageVersion is the scene compatibility version times 100
	LanguageVersion int
	Bounding        BoundingMethod
	NoiseGenerator  noise.Generator
	Quality         QualityFlags

	MaxTraceLevel int
	ADCBailout    float64

	Subsurface SubsurfaceSettings
	Radiosity  RadiositySettings
	Photons    PhotonSettings

	Camera CameraConfig
}

// NewSceneData returns an empty scene with default settings
func NewSceneData() *SceneData {
	return &SceneData{
		AtmosphereIOR:        1.0,
		AtmosphereDispersion: 1.0,
		AmbientLight:         core.White,
		IridWavelengths:      core.NewColour(0.25, 0.18, 0.14),
		LanguageVersion:      380,
		Bounding:             BSPTree,
		NoiseGenerator:       noise.RangeCorrected,
		Quality:              DefaultQuality(),
		MaxTraceLevel:        5,
		ADCBailout:           1.0 / 255.0,
		Subsurface: SubsurfaceSettings{
			SamplesDiffuse: 50,
			SamplesSingle:  50,
			MMPerUnit:      10,
		},
		Radiosity: RadiositySettings{Brightness: 1.0, MaxTraceLevel: 1, DefaultImportance: 1.0},
		Camera: CameraConfig{
			Center:      core.NewVec3(0, 0, -5),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        40,
			AspectRatio: 4.0 / 3.0,
		},
	}
}

// Add appends objects to the scene
func (s *SceneData) Add(objs ...object.Object) {
	s.Objects = append(s.Objects, objs...)
}

// AddLight appends a global light
func (s *SceneData) AddLight(l *lights.Light) {
	s.Lights = append(s.Lights, l)
}

// AddLightGroup registers lights that only shine on the given objects and
// tags those objects with the group
func (s *SceneData) AddLightGroup(ls []*lights.Light, objs ...object.Object) {
	for _, l := range ls {
		l.InLightGroup = true
	}
	s.LightGroups = append(s.LightGroups, ls)
	group := len(s.LightGroups)
	for _, o := range objs {
		o.Props().LightGroup = group
	}
}

// GroupLights returns the light group an object is tagged with
func (s *SceneData) GroupLights(o object.Object) []*lights.Light {
	g := o.Props().LightGroup
	if g <= 0 || g > len(s.LightGroups) {
		return nil
	}
	return s.LightGroups[g-1]
}

// Split partitions the objects into bounded and unbounded ones
func (s *SceneData) Split() (finite, infinite []object.Object) {
	for _, o := range s.Objects {
		if object.IsInfinite(o) {
			infinite = append(infinite, o)
		} else {
			finite = append(finite, o)
		}
	}
	return finite, infinite
}

// Validate checks the settings an engine relies on
func (s *SceneData) Validate() error {
	if s.MaxTraceLevel < 1 {
		return fmt.Errorf("max trace level %d must be at least 1", s.MaxTraceLevel)
	}
	if s.ADCBailout < 0 {
		return fmt.Errorf("adc bailout %g must not be negative", s.ADCBailout)
	}
	if err := s.NoiseGenerator.Validate(); err != nil {
		return err
	}
	if s.Subsurface.Enabled && s.Subsurface.MMPerUnit <= 0 {
		return fmt.Errorf("subsurface mm per unit %g must be positive", s.Subsurface.MMPerUnit)
	}
	return nil
}
