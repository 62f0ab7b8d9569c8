package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-trace-core/pkg/config"
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/noise"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"default scene", "default", false},
		{"hallway scene", "hallway", false},
		{"spheregrid scene", "spheregrid", false},
		{"subsurface scene", "subsurface", false},
		{"unknown scene", "nonexistent", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Render.Scene = tt.sceneType
			cfg.Trace.MaxTraceLevel = 7

			sd, err := createScene(cfg)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				return
			}
			if err != nil {
				t.Fatalf("createScene(%q): %v", tt.sceneType, err)
			}
			if sd.MaxTraceLevel != 7 {
				t.Errorf("settings not applied: max trace level %d", sd.MaxTraceLevel)
			}
		})
	}
}

func TestCreateSceneWithSkyImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.png")
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.RGBA{B: 255, A: 255})
		img.Set(x, 1, color.RGBA{G: 255, A: 255})
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := config.Default()
	cfg.Render.SkyImage = path
	sd, err := createScene(cfg)
	if err != nil {
		t.Fatalf("createScene: %v", err)
	}
	if sd.SkySphere == nil {
		t.Fatal("sky image not applied")
	}

	// looking up sees the top row, looking down the bottom row
	up, _, err := sd.Sky(core.NewVec3(0.1, 1, 0), false, nil)
	if err != nil {
		t.Fatalf("Sky: %v", err)
	}
	down, _, err := sd.Sky(core.NewVec3(0.1, -1, 0), false, nil)
	if err != nil {
		t.Fatalf("Sky: %v", err)
	}
	if up.B < 0.99 || down.G < 0.99 {
		t.Errorf("sky up = %v, down = %v", up, down)
	}

	cfg.Render.SkyImage = filepath.Join(t.TempDir(), "missing.png")
	if _, err := createScene(cfg); err == nil {
		t.Error("expected an error for a missing sky image")
	}
}

func TestSelectNoise(t *testing.T) {
	defer noise.Use(noise.Portable)

	selectNoise("")
	if noise.Active() != noise.Portable {
		t.Errorf("empty name changed the implementation to %s", noise.Active().Name)
	}
	for _, impl := range noise.Implementations() {
		selectNoise(impl.Name)
		want := impl
		if !impl.Supported() {
			want = noise.Portable
		}
		if noise.Active() != want {
			t.Errorf("selectNoise(%q) activated %s", impl.Name, noise.Active().Name)
		}
	}
}
