package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/df07/go-trace-core/pkg/config"
	"github.com/df07/go-trace-core/pkg/loaders"
	"github.com/df07/go-trace-core/pkg/noise"
	"github.com/df07/go-trace-core/pkg/renderer"
	"github.com/df07/go-trace-core/pkg/scene"
)

func main() {
	configFile := flag.String("config", "", "INI file with render settings")
	sceneType := flag.String("scene", "", "Built-in scene, overrides the config file")
	workers := flag.Int("workers", -1, "Number of workers (0 = one per CPU), overrides the config file")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Trace Core")
		fmt.Println("Usage: tracecore [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, s := range scene.ListScenes() {
			fmt.Printf("  %-12s %s\n", s.ID, s.Description)
		}
		fmt.Println()
		fmt.Println("Noise implementations:")
		for _, impl := range noise.Implementations() {
			fmt.Printf("  %-12s supported: %v\n", impl.Name, impl.Supported())
		}
		return
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *sceneType != "" {
		cfg.Render.Scene = *sceneType
	}
	if *workers >= 0 {
		cfg.Render.Workers = *workers
	}

	sd, err := createScene(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	selectNoise(cfg.Trace.NoiseImplementation)
	fmt.Printf("Using %s scene, %s noise\n", cfg.Render.Scene, noise.Active().Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rt := renderer.NewRaytracer(sd, renderer.ConfigFrom(cfg), renderer.NewDefaultLogger())
	start := time.Now()
	_, stats, err := rt.Render(ctx, nil)
	if err != nil {
		fmt.Printf("Render failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render completed in %v\n", time.Since(start))
	fmt.Printf("Samples per pixel: %.1f\n", stats.AverageSamples)
	ts := stats.Trace
	fmt.Printf("Rays: %d (ADC saves %d, max trace level %d)\n", ts.Rays, ts.ADCSaves, ts.MaxTraceLevelFound)
	fmt.Printf("Reflected %d, refracted %d, transmitted %d, internally reflected %d\n",
		ts.ReflectedRays, ts.RefractedRays, ts.TransmittedRays, ts.InternalReflectedRays)
	fmt.Printf("Shadow ray tests: %d, succeeded %d, cache hits %d\n", ts.ShadowRayTests, ts.ShadowRaysSucceeded, ts.ShadowCacheHits)
	fmt.Printf("Subsurface samples: %d diffuse, %d single scatter\n", ts.SubsurfaceSamples, ts.SingleScatterSamples)
	fmt.Printf("Object intersection tests: %d\n", stats.ObjectTests)
}

// createScene builds the configured scene and applies the settings to it
func createScene(cfg *config.Config) (*scene.SceneData, error) {
	sd, err := scene.Build(cfg.Render.Scene)
	if err != nil {
		return nil, err
	}
	cfg.ApplyTo(sd)
	if path := cfg.Render.SkyImage; path != "" {
		m, err := loaders.LoadImageMap(path)
		if err != nil {
			return nil, err
		}
		sd.SkySphere = scene.NewImageSkySphere(m)
	}
	return sd, nil
}

// selectNoise switches to the named noise implementation, falling back to
// the portable one where the CPU lacks support
func selectNoise(name string) {
	if name == "" {
		return
	}
	impl := noise.ByName(name)
	if !impl.Supported() {
		fmt.Printf("Noise implementation %s is not supported here, using %s\n", impl.Name, noise.Portable.Name)
		impl = noise.Portable
	}
	noise.Use(impl)
}
