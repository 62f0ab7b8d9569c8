// Package trace follows rays into a scene and shades what they hit:
// layered textures, lights and shadows, reflection, refraction,
// subsurface scattering and the atmosphere.
package trace

import (
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/intersect"
	"github.com/df07/go-trace-core/pkg/lights"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
	"github.com/df07/go-trace-core/pkg/pattern"
	"github.com/df07/go-trace-core/pkg/scene"
)

const (
	epsilon = 1e-10
	// shadowTolerance ignores occluders this close to either end of a
	// shadow ray
	shadowTolerance = 1e-3
	// smallTolerance keeps shadow rays from hitting the surface they
	// start on
	smallTolerance = 1e-6
)

// Media attenuates and scatters light travelling through the interiors a
// ray is inside. isect.Depth is the length of the segment.
type Media interface {
	ComputeMedia(interiors []*core.Interior, ray *core.Ray, isect *object.Intersection, colour core.Colour, transm float64) (core.Colour, float64)
}

// Radiosity supplies indirect diffuse light
type Radiosity interface {
	// CheckTraceLevel reports whether radiosity is sampled at the
	// ticket's current depth
	CheckTraceLevel(ticket *core.TraceTicket) bool
	// ComputeAmbient returns the indirect light arriving at point
	ComputeAmbient(point, rawNormal, layerNormal core.Vec3, brilliance, weight float64, ticket *core.TraceTicket) core.Colour
}

// NoMedia leaves light passing through interiors untouched
type NoMedia struct{}

func (NoMedia) ComputeMedia(_ []*core.Interior, _ *core.Ray, _ *object.Intersection, colour core.Colour, transm float64) (core.Colour, float64) {
	return colour, transm
}

// ConstantRadiosity approximates indirect light by the scene's ambient
// light, scaled by the radiosity brightness
type ConstantRadiosity struct {
	Settings *scene.RadiositySettings
	Ambient  core.Colour
}

func (r ConstantRadiosity) CheckTraceLevel(ticket *core.TraceTicket) bool {
	return ticket.TraceLevel <= r.Settings.MaxTraceLevel
}

func (r ConstantRadiosity) ComputeAmbient(_, _, _ core.Vec3, _, _ float64, _ *core.TraceTicket) core.Colour {
	return r.Ambient.Multiply(r.Settings.Brightness)
}

// Options configure an Engine
type Options struct {
	// Cooperate is polled on primary rays and every sixteenth ray; a
	// non-nil error aborts the trace
	Cooperate func() error
	Media     Media
	Radiosity Radiosity
	// DisableShadowCache makes every shadow ray search all occluders
	DisableShadowCache bool
	// Seed drives jitter, crand and subsurface sampling
	Seed int64
}

// lightSample caches the shadowed colour of one light at one trace level
type lightSample struct {
	tested bool
	colour core.Colour
}

// gridSample caches one area light sample during an adaptive shadow test
type gridSample struct {
	valid  bool
	colour core.Colour
}

// reflection is a deferred mirror ray recorded for one texture layer
type reflection struct {
	weight float64
	normal core.Vec3
	reflec core.Colour
	exp    float64
	finish *material.Finish
}

// Engine traces rays through one scene. It owns all per-ray scratch
// state and must not be shared between goroutines; create one per worker.
type Engine struct {
	scene   *scene.SceneData
	quality scene.QualityFlags
	finder  *intersect.Finder

	warps       *core.Pool[*material.Texture]
	reflections *core.Pool[reflection]
	patterns    *pattern.Context

	cooperate   func() error
	media       Media
	radiosity   Radiosity
	shadowCache bool

	// occluders that last fully blocked each global light, split by
	// whether the shadow ray left a primary hit
	level1Cache []object.Object
	otherCache  []object.Object

	lightColours [][]lightSample
	lightLevel   int
	lightGrid    []gridSample

	// litIgnoresPhotons records the photon flag of the object being lit
	litIgnoresPhotons bool

	jitter      *core.RandomGenerator
	crand       *core.RandomGenerator
	ssltDirs    [2]*core.DirectionGenerator
	ssltNumbers [2]*core.RandomGenerator
	subsurfaces map[*core.Interior]*core.SubsurfaceInterior

	stats Stats
}

// NewEngine creates an engine for sd. ix may be shared between engines;
// when nil one is built from the scene's bounding method.
func NewEngine(sd *scene.SceneData, ix *intersect.Index, opts Options) *Engine {
	if ix == nil {
		ix = intersect.NewIndex(sd.Objects, sd.Bounding)
	}
	e := &Engine{
		scene:       sd,
		quality:     sd.Quality,
		finder:      ix.NewFinder(object.NewIStackPool()),
		warps:       &core.Pool[*material.Texture]{Name: "texture warps"},
		reflections: &core.Pool[reflection]{Name: "reflections"},
		patterns:    pattern.NewContext(sd.NoiseGenerator),
		cooperate:   opts.Cooperate,
		media:       opts.Media,
		radiosity:   opts.Radiosity,
		shadowCache: !opts.DisableShadowCache,
		level1Cache: make([]object.Object, len(sd.Lights)),
		otherCache:  make([]object.Object, len(sd.Lights)),
		lightLevel:  -1,
		jitter:      core.NewRandomGenerator(opts.Seed, -0.5, 0.5),
		crand:       core.NewRandomGenerator(opts.Seed+1, 0, 1),
		subsurfaces: make(map[*core.Interior]*core.SubsurfaceInterior),
	}
	for i := range e.ssltDirs {
		e.ssltDirs[i] = core.NewDirectionGenerator()
		e.ssltNumbers[i] = core.NewRandomGenerator(opts.Seed+int64(2+i), 0, 1)
	}
	if e.cooperate == nil {
		e.cooperate = func() error { return nil }
	}
	if e.media == nil {
		e.media = NoMedia{}
	}
	if e.radiosity == nil {
		e.radiosity = ConstantRadiosity{Settings: &sd.Radiosity, Ambient: sd.AmbientLight}
	}
	return e
}

// Stats returns the counters accumulated so far
func (e *Engine) Stats() Stats {
	return e.stats
}

// Scene returns the scene the engine renders
func (e *Engine) Scene() *scene.SceneData { return e.scene }

// ObjectTests returns the number of exact intersection tests run
func (e *Engine) ObjectTests() uint64 { return e.finder.ObjectTests }

// NewPrimaryRay creates a camera ray with a fresh ticket
func (e *Engine) NewPrimaryRay(origin, dir core.Vec3) core.Ray {
	ticket := core.NewTraceTicket(e.scene.MaxTraceLevel, e.scene.ADCBailout)
	r := core.NewRay(origin, dir, ticket)
	r.Kind = core.PrimaryRay
	return r
}

// enterLightLevel starts a fresh row of the light colour cache for one
// shading point
func (e *Engine) enterLightLevel() {
	e.lightLevel++
	if e.lightLevel >= len(e.lightColours) {
		e.lightColours = append(e.lightColours, make([]lightSample, len(e.scene.Lights)))
	}
	row := e.lightColours[e.lightLevel]
	for i := range row {
		row[i].tested = false
	}
}

func (e *Engine) leaveLightLevel() {
	e.lightLevel--
}

// lightCache returns the cache entry of global light index at the current
// shading point, or nil for group lights
func (e *Engine) lightCache(index int) *lightSample {
	if e.lightLevel < 0 || index < 0 || index >= len(e.scene.Lights) {
		return nil
	}
	return &e.lightColours[e.lightLevel][index]
}

// lightsFor calls fn for every light that reaches obj. Global lights
// carry their index into the shadow caches, group lights -1.
func (e *Engine) lightsFor(obj object.Object, fn func(l *lights.Light, index int) error) error {
	if !obj.Props().Has(object.NoGlobalLights) {
		for i, l := range e.scene.Lights {
			if err := fn(l, i); err != nil {
				return err
			}
		}
	}
	for _, l := range e.scene.GroupLights(obj) {
		if err := fn(l, -1); err != nil {
			return err
		}
	}
	return nil
}

// subsurfaceFor returns the scattering tables of interior, building them
// on first use for media that did not precompute any
func (e *Engine) subsurfaceFor(interior *core.Interior, eta float64) *core.SubsurfaceInterior {
	if interior.Subsurface != nil {
		return interior.Subsurface
	}
	s, ok := e.subsurfaces[interior]
	if !ok {
		s = core.NewSubsurfaceInterior(eta)
		e.subsurfaces[interior] = s
	}
	return s
}
