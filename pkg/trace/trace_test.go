package trace

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/geometry"
	"github.com/df07/go-trace-core/pkg/lights"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/scene"
)

// traceTowards traces a primary ray from the scene camera to target
func traceTowards(t *testing.T, e *Engine, target core.Vec3) (core.Colour, *core.TraceTicket) {
	t.Helper()
	origin := e.Scene().Camera.Center
	ray := e.NewPrimaryRay(origin, target.Subtract(origin).Normalize())
	c, _, _, err := e.TraceRay(&ray, 1, false, 0)
	if err != nil {
		t.Fatalf("TraceRay: %v", err)
	}
	return c, ray.Ticket
}

func TestMirrorHallwayStopsAtMaxTraceLevel(t *testing.T) {
	for _, maxLevel := range []int{1, 3, 10} {
		sd := scene.NewMirrorHallwayScene(1)
		sd.MaxTraceLevel = maxLevel
		e := NewEngine(sd, nil, Options{})

		_, ticket := traceTowards(t, e, core.NewVec3(0, 0, 2))

		if ticket.MaxFoundTraceLevel > ticket.MaxAllowedTraceLevel {
			t.Errorf("max level %d: found level %d exceeds allowed %d", maxLevel, ticket.MaxFoundTraceLevel, ticket.MaxAllowedTraceLevel)
		}
		if got := e.Stats().MaxTraceLevelFound; got != maxLevel {
			t.Errorf("max level %d: deepest level = %d", maxLevel, got)
		}
		if ticket.TraceLevel != 0 {
			t.Errorf("max level %d: trace level not restored, got %d", maxLevel, ticket.TraceLevel)
		}
	}
}

func TestLowerBailoutTracesMoreRays(t *testing.T) {
	bailouts := []float64{0.5, 0.1, 0.02, 0.004, 0.0001}
	counts := make([]uint64, len(bailouts))
	for i, bailout := range bailouts {
		sd := scene.NewMirrorHallwayScene(0.5)
		sd.MaxTraceLevel = 64
		sd.ADCBailout = bailout
		e := NewEngine(sd, nil, Options{})
		traceTowards(t, e, core.NewVec3(0, 0, 2))

		counts[i] = e.Stats().Rays
		if i > 0 && counts[i] < counts[i-1] {
			t.Errorf("bailout %g traced %d rays, fewer than %d at bailout %g", bailout, counts[i], counts[i-1], bailouts[i-1])
		}
		if e.Stats().ADCSaves == 0 {
			t.Errorf("bailout %g: expected the reflection chain to end by bailout", bailout)
		}
	}
	if last := counts[len(counts)-1]; last <= counts[0] {
		t.Errorf("lowest bailout traced %d rays, no more than the highest bailout's %d", last, counts[0])
	}
}

func TestShadowCacheDoesNotChangeColours(t *testing.T) {
	sd := scene.NewShadowScene()
	cached := NewEngine(sd, nil, Options{})
	uncached := NewEngine(sd, nil, Options{DisableShadowCache: true})

	for x := -3.0; x <= 3.0; x += 0.25 {
		for z := -2.0; z <= 2.0; z += 0.25 {
			target := core.NewVec3(x, 0, z)
			a, _ := traceTowards(t, cached, target)
			b, _ := traceTowards(t, uncached, target)
			if a != b {
				t.Fatalf("at %v: cached %v, uncached %v", target, a, b)
			}
		}
	}

	if cached.Stats().ShadowCacheHits == 0 {
		t.Error("expected the box to be served from the shadow cache")
	}
	if uncached.Stats().ShadowCacheHits != 0 {
		t.Errorf("disabled cache reported %d hits", uncached.Stats().ShadowCacheHits)
	}
}

func TestFilteringLayerHidesLayerBelow(t *testing.T) {
	e := NewEngine(scene.NewLayeredFilterScene(), nil, Options{})
	c, _ := traceTowards(t, e, core.Vec3{})

	// the red layer is 1 - 0.5*grey(red) opaque; the blue below is seen
	// only through a red filter
	wantR := 1 - 0.5*0.297
	tolerance := 1e-9
	if math.Abs(c.R-wantR) > tolerance || math.Abs(c.G) > tolerance || math.Abs(c.B) > tolerance {
		t.Errorf("colour = %v, want (%g, 0, 0)", c, wantR)
	}
}

func TestSubsurfaceRecursionDepth(t *testing.T) {
	tests := []struct {
		name        string
		depth       int
		wantDiffuse uint64
		wantSingle  uint64
	}{
		{"nested once takes one sample of each", 1, 1, 1},
		{"nested twice takes none", 2, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(scene.NewSubsurfaceScene(), nil, Options{Seed: 7})
			ray := e.NewPrimaryRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
			ray.Ticket.SubsurfaceRecursionDepth = tt.depth

			if _, _, _, err := e.TraceRay(&ray, 1, false, 0); err != nil {
				t.Fatalf("TraceRay: %v", err)
			}
			stats := e.Stats()
			if stats.SubsurfaceSamples != tt.wantDiffuse {
				t.Errorf("diffuse samples = %d, want %d", stats.SubsurfaceSamples, tt.wantDiffuse)
			}
			if stats.SingleScatterSamples != tt.wantSingle {
				t.Errorf("single scatter samples = %d, want %d", stats.SingleScatterSamples, tt.wantSingle)
			}
			if ray.Ticket.SubsurfaceRecursionDepth != tt.depth {
				t.Errorf("recursion depth not restored: %d", ray.Ticket.SubsurfaceRecursionDepth)
			}
		})
	}
}

func TestSubsurfaceTopLevelUsesConfiguredSamples(t *testing.T) {
	sd := scene.NewSubsurfaceScene()
	e := NewEngine(sd, nil, Options{Seed: 3})
	c, _ := traceTowards(t, e, core.Vec3{})

	if got := e.Stats().SubsurfaceSamples; got < uint64(sd.Subsurface.SamplesDiffuse) {
		t.Errorf("diffuse samples = %d, want at least %d", got, sd.Subsurface.SamplesDiffuse)
	}
	if c.R < 0 || c.G < 0 || c.B < 0 {
		t.Errorf("negative colour %v", c)
	}
}

func TestShadingErrors(t *testing.T) {
	fresnel := material.NewFinish()
	fresnel.ReflectionModel = material.FresnelReflection
	fresnel.ReflectionMax = core.White

	tests := []struct {
		name    string
		texture *material.Texture
		want    error
	}{
		{
			name:    "fresnel without interior",
			texture: material.NewPlainTexture(material.NewPlainPigment(core.Opaque(core.White)), fresnel),
			want:    core.ErrFresnelWithoutInterior,
		},
		{
			name:    "unknown texture type",
			texture: &material.Texture{Type: material.TextureType(42)},
			want:    core.ErrUnknownTexture,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd := scene.NewSceneData()
			sd.Add(geometry.NewSphere(core.Vec3{}, 1, tt.texture))
			sd.AddLight(lights.NewPointLight(core.NewVec3(0, 5, -5), core.White))
			e := NewEngine(sd, nil, Options{})

			ray := e.NewPrimaryRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
			_, _, _, err := e.TraceRay(&ray, 1, false, 0)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCooperateCancelsTrace(t *testing.T) {
	calls := 0
	e := NewEngine(scene.NewDefaultScene(), nil, Options{
		Cooperate: func() error {
			calls++
			return core.ErrCancelled
		},
	})
	ray := e.NewPrimaryRay(core.NewVec3(0, 1.5, -6), core.NewVec3(0, 0, 1))
	_, _, _, err := e.TraceRay(&ray, 1, false, 0)
	if !errors.Is(err, core.ErrCancelled) {
		t.Fatalf("error = %v, want ErrCancelled", err)
	}
	if calls != 1 {
		t.Errorf("cooperate called %d times, want 1", calls)
	}
}

func TestMissReturnsSky(t *testing.T) {
	sd := scene.NewSceneData()
	sd.Background = core.Opaque(core.NewColour(0.1, 0.2, 0.3))
	e := NewEngine(sd, nil, Options{})

	ray := e.NewPrimaryRay(core.Vec3{}, core.NewVec3(0, 0, 1))
	c, _, depth, err := e.TraceRay(&ray, 1, false, 0)
	if err != nil {
		t.Fatalf("TraceRay: %v", err)
	}
	if c != sd.Background.Colour {
		t.Errorf("colour = %v, want background %v", c, sd.Background.Colour)
	}
	if depth < 1e9 {
		t.Errorf("miss depth = %g, want the huge bound", depth)
	}
}
