// Package config reads render settings from an INI file.
//
// A file only needs the options it changes; everything else keeps the
// value from Default.
//
//	[render]
//	scene = default
//	width = 400
//	height = 300
//	workers = 0
//	tile_size = 32
//	samples = 4
//	passes = 1
//	sky_image = sky.png
//
//	[trace]
//	max_trace_level = 5
//	adc_bailout = 0.0039
//	bounding = bsp
//	noise_generator = 2
//	noise_implementation = generic
//	language_version = 380
//
//	[quality]
//	shadows = true
//
//	[subsurface]
//	enabled = false
package config

import (
	"fmt"

	"github.com/robfig/config"

	"github.com/df07/go-trace-core/pkg/noise"
	"github.com/df07/go-trace-core/pkg/scene"
)

const (
	sectionRender     = "render"
	sectionTrace      = "trace"
	sectionQuality    = "quality"
	sectionSubsurface = "subsurface"
)

// RenderSettings size the image and the work spent on it
type RenderSettings struct {
	Scene    string
	Width    int
	Height   int
	Workers  int // 0 uses one worker per CPU
	TileSize int
	Samples  int // Jittered camera rays per pixel
	Passes   int // Progressive passes, each adding samples
	// SkyImage is a PNG or JPEG wrapped around the scene; empty keeps the
	// scene's own sky
	SkyImage string
}

// TraceSettings bound the recursion of the trace engine
type TraceSettings struct {
	MaxTraceLevel       int
	ADCBailout          float64
	Bounding            scene.BoundingMethod
	NoiseGenerator      noise.Generator
	NoiseImplementation string // empty keeps the recommended one
	LanguageVersion     int
}

// Config is everything a render run can be configured with
type Config struct {
	Render     RenderSettings
	Trace      TraceSettings
	Quality    scene.QualityFlags
	Subsurface scene.SubsurfaceSettings
}

// Default returns the settings used when no file is given
func Default() *Config {
	sd := scene.NewSceneData()
	return &Config{
		Render: RenderSettings{
			Scene:    "default",
			Width:    400,
			Height:   300,
			TileSize: 32,
			Samples:  1,
			Passes:   1,
		},
		Trace: TraceSettings{
			MaxTraceLevel:   sd.MaxTraceLevel,
			ADCBailout:      sd.ADCBailout,
			Bounding:        sd.Bounding,
			NoiseGenerator:  sd.NoiseGenerator,
			LanguageVersion: sd.LanguageVersion,
		},
		Quality:    sd.Quality,
		Subsurface: sd.Subsurface,
	}
}

// Load reads path over the defaults
func Load(path string) (*Config, error) {
	c, err := config.ReadDefault(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg := Default()
	if err := cfg.apply(c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// reader fetches options that are present and remembers the first error
type reader struct {
	c   *config.Config
	err error
}

func (r *reader) int(section, option string, dst *int) {
	if r.err != nil || !r.c.HasOption(section, option) {
		return
	}
	v, err := r.c.Int(section, option)
	if err != nil {
		r.err = fmt.Errorf("[%s] %s: %w", section, option, err)
		return
	}
	*dst = v
}

func (r *reader) float(section, option string, dst *float64) {
	if r.err != nil || !r.c.HasOption(section, option) {
		return
	}
	v, err := r.c.Float(section, option)
	if err != nil {
		r.err = fmt.Errorf("[%s] %s: %w", section, option, err)
		return
	}
	*dst = v
}

func (r *reader) bool(section, option string, dst *bool) {
	if r.err != nil || !r.c.HasOption(section, option) {
		return
	}
	v, err := r.c.Bool(section, option)
	if err != nil {
		r.err = fmt.Errorf("[%s] %s: %w", section, option, err)
		return
	}
	*dst = v
}

func (r *reader) string(section, option string, dst *string) {
	if r.err != nil || !r.c.HasOption(section, option) {
		return
	}
	v, err := r.c.String(section, option)
	if err != nil {
		r.err = fmt.Errorf("[%s] %s: %w", section, option, err)
		return
	}
	*dst = v
}

func (cfg *Config) apply(c *config.Config) error {
	r := &reader{c: c}

	rs := &cfg.Render
	r.string(sectionRender, "scene", &rs.Scene)
	r.int(sectionRender, "width", &rs.Width)
	r.int(sectionRender, "height", &rs.Height)
	r.int(sectionRender, "workers", &rs.Workers)
	r.int(sectionRender, "tile_size", &rs.TileSize)
	r.int(sectionRender, "samples", &rs.Samples)
	r.int(sectionRender, "passes", &rs.Passes)
	r.string(sectionRender, "sky_image", &rs.SkyImage)

	ts := &cfg.Trace
	r.int(sectionTrace, "max_trace_level", &ts.MaxTraceLevel)
	r.float(sectionTrace, "adc_bailout", &ts.ADCBailout)
	r.int(sectionTrace, "language_version", &ts.LanguageVersion)
	r.string(sectionTrace, "noise_implementation", &ts.NoiseImplementation)

	bounding := ""
	r.string(sectionTrace, "bounding", &bounding)
	if r.err == nil && bounding != "" {
		m, err := scene.ParseBoundingMethod(bounding)
		if err != nil {
			return fmt.Errorf("[%s] bounding: %w", sectionTrace, err)
		}
		ts.Bounding = m
	}

	generator := -1
	r.int(sectionTrace, "noise_generator", &generator)
	if r.err == nil && generator >= 0 {
		g, err := noise.ParseGenerator(generator)
		if err != nil {
			return fmt.Errorf("[%s] noise_generator: %w", sectionTrace, err)
		}
		ts.NoiseGenerator = g
	}

	q := &cfg.Quality
	r.bool(sectionQuality, "ambient_only", &q.AmbientOnly)
	r.bool(sectionQuality, "shadows", &q.Shadows)
	r.bool(sectionQuality, "area_lights", &q.AreaLights)
	r.bool(sectionQuality, "normals", &q.Normals)
	r.bool(sectionQuality, "reflections", &q.Reflections)
	r.bool(sectionQuality, "refractions", &q.Refractions)
	r.bool(sectionQuality, "media", &q.Media)
	r.bool(sectionQuality, "subsurface", &q.Subsurface)
	r.bool(sectionQuality, "photons", &q.Photons)

	ss := &cfg.Subsurface
	r.bool(sectionSubsurface, "enabled", &ss.Enabled)
	r.int(sectionSubsurface, "samples_diffuse", &ss.SamplesDiffuse)
	r.int(sectionSubsurface, "samples_single", &ss.SamplesSingle)
	r.float(sectionSubsurface, "mm_per_unit", &ss.MMPerUnit)
	r.bool(sectionSubsurface, "use_radiosity", &ss.UseRadiosity)

	return r.err
}

// Validate rejects settings no render can run with
func (cfg *Config) Validate() error {
	rs := cfg.Render
	switch {
	case rs.Width <= 0 || rs.Height <= 0:
		return fmt.Errorf("image size %dx%d must be positive", rs.Width, rs.Height)
	case rs.TileSize <= 0:
		return fmt.Errorf("tile size %d must be positive", rs.TileSize)
	case rs.Samples <= 0:
		return fmt.Errorf("samples %d must be positive", rs.Samples)
	case rs.Passes <= 0 || rs.Passes > rs.Samples:
		return fmt.Errorf("passes %d must be between 1 and samples (%d)", rs.Passes, rs.Samples)
	case rs.Workers < 0:
		return fmt.Errorf("workers %d must not be negative", rs.Workers)
	}
	if name := cfg.Trace.NoiseImplementation; name != "" && !knownImplementation(name) {
		return fmt.Errorf("unknown noise implementation %q", name)
	}
	return nil
}

func knownImplementation(name string) bool {
	for _, impl := range noise.Implementations() {
		if impl.Name == name {
			return true
		}
	}
	return false
}

// ApplyTo copies the trace, quality and subsurface settings onto a scene
func (cfg *Config) ApplyTo(sd *scene.SceneData) {
	sd.MaxTraceLevel = cfg.Trace.MaxTraceLevel
	sd.ADCBailout = cfg.Trace.ADCBailout
	sd.Bounding = cfg.Trace.Bounding
	sd.NoiseGenerator = cfg.Trace.NoiseGenerator
	sd.LanguageVersion = cfg.Trace.LanguageVersion
	sd.Quality = cfg.Quality

	// scenes that switch subsurface on themselves keep their own settings
	if !sd.Subsurface.Enabled {
		sd.Subsurface = cfg.Subsurface
	}
}

// Save writes cfg to path in the format Load reads
func (cfg *Config) Save(path string) error {
	c := config.NewDefault()
	add := func(section, option string, value interface{}) {
		c.AddOption(section, option, fmt.Sprint(value))
	}

	rs := cfg.Render
	add(sectionRender, "scene", rs.Scene)
	add(sectionRender, "width", rs.Width)
	add(sectionRender, "height", rs.Height)
	add(sectionRender, "workers", rs.Workers)
	add(sectionRender, "tile_size", rs.TileSize)
	add(sectionRender, "samples", rs.Samples)
	add(sectionRender, "passes", rs.Passes)
	if rs.SkyImage != "" {
		add(sectionRender, "sky_image", rs.SkyImage)
	}

	ts := cfg.Trace
	add(sectionTrace, "max_trace_level", ts.MaxTraceLevel)
	add(sectionTrace, "adc_bailout", ts.ADCBailout)
	add(sectionTrace, "bounding", boundingName(ts.Bounding))
	add(sectionTrace, "noise_generator", int(ts.NoiseGenerator))
	if ts.NoiseImplementation != "" {
		add(sectionTrace, "noise_implementation", ts.NoiseImplementation)
	}
	add(sectionTrace, "language_version", ts.LanguageVersion)

	q := cfg.Quality
	add(sectionQuality, "ambient_only", q.AmbientOnly)
	add(sectionQuality, "shadows", q.Shadows)
	add(sectionQuality, "area_lights", q.AreaLights)
	add(sectionQuality, "normals", q.Normals)
	add(sectionQuality, "reflections", q.Reflections)
	add(sectionQuality, "refractions", q.Refractions)
	add(sectionQuality, "media", q.Media)
	add(sectionQuality, "subsurface", q.Subsurface)
	add(sectionQuality, "photons", q.Photons)

	ss := cfg.Subsurface
	add(sectionSubsurface, "enabled", ss.Enabled)
	add(sectionSubsurface, "samples_diffuse", ss.SamplesDiffuse)
	add(sectionSubsurface, "samples_single", ss.SamplesSingle)
	add(sectionSubsurface, "mm_per_unit", ss.MMPerUnit)
	add(sectionSubsurface, "use_radiosity", ss.UseRadiosity)

	return c.WriteFile(path, 0644, "trace render settings")
}

func boundingName(m scene.BoundingMethod) string {
	switch m {
	case scene.SlabTree:
		return "slab"
	case scene.BSPTree:
		return "bsp"
	}
	return "none"
}
