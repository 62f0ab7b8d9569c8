package material

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/noise"
	"github.com/df07/go-trace-core/pkg/pattern"
)

func gradientX() *pattern.Pattern {
	return pattern.NewPattern(&pattern.Gradient{Vector: core.NewVec3(1, 0, 0)})
}

func transClose(a, b core.TransColour) bool {
	return colourClose(a.Colour, b.Colour, tolerance) &&
		math.Abs(a.Filter-b.Filter) <= tolerance && math.Abs(a.Transmit-b.Transmit) <= tolerance
}

func TestColourMapPigment(t *testing.T) {
	ctx := pattern.NewContext(noise.Original)
	red := core.NewTransColour(1, 0, 0, 0, 0)
	blue := core.NewTransColour(0, 0, 1, 0, 1)
	p := NewColourMapPigment(gradientX(),
		pattern.BlendEntry[core.TransColour]{Key: 0, Value: red},
		pattern.BlendEntry[core.TransColour]{Key: 1, Value: blue},
	)

	tests := []struct {
		name string
		x    float64
		want core.TransColour
	}{
		{"start", 0, red},
		{"quarter", 0.25, core.NewTransColour(0.75, 0, 0.25, 0, 0.25)},
		{"half", 0.5, core.NewTransColour(0.5, 0, 0.5, 0, 0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := p.Compute(core.NewVec3(tt.x, 0, 0), ctx, nil)
			if err != nil || !found {
				t.Fatalf("found %v err %v", found, err)
			}
			if !transClose(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPigmentMapFoundIfEitherSideFound(t *testing.T) {
	ctx := pattern.NewContext(noise.Original)
	img := NewImageMap(1, 1, []core.TransColour{white})
	img.Once = true
	inner := NewImagePigment(img)
	plain := NewPlainPigment(core.NewTransColour(0, 1, 0, 0, 0))

	p := NewPigmentMapPigment(gradientX(),
		pattern.BlendEntry[*Pigment]{Key: 0, Value: inner},
		pattern.BlendEntry[*Pigment]{Key: 1, Value: plain},
	)

	// x=0.5 lies inside the image: both sides coloured
	got, found, err := p.Compute(core.NewVec3(0.5, 0.5, 0), ctx, nil)
	if err != nil || !found {
		t.Fatalf("found %v err %v", found, err)
	}
	if !transClose(got, core.NewTransColour(0.5, 1, 0.5, 0, 0)) {
		t.Errorf("got %v", got)
	}

	// Below the image the once-only side is uncoloured but plain still is
	got, found, _ = p.Compute(core.NewVec3(0.5, -1, 0), ctx, nil)
	if !found || !transClose(got, core.NewTransColour(0, 0.5, 0, 0, 0)) {
		t.Errorf("got %v found %v", got, found)
	}

	// At the start of the map only the image is consulted
	if _, found, _ = inner.Compute(core.NewVec3(0, -1, 0), ctx, nil); found {
		t.Error("once-only image should leave the point uncoloured")
	}
}

func TestAveragePigment(t *testing.T) {
	p := &Pigment{Type: AveragePigment, PigmentMap: pattern.NewBlendMap(
		pattern.BlendEntry[*Pigment]{Key: 1, Value: NewPlainPigment(core.NewTransColour(1, 0, 0, 0, 0))},
		pattern.BlendEntry[*Pigment]{Key: 3, Value: NewPlainPigment(core.NewTransColour(0, 0, 1, 1, 0))},
	)}
	got, found, err := p.Compute(core.Vec3{}, nil, nil)
	if err != nil || !found {
		t.Fatalf("found %v err %v", found, err)
	}
	if want := core.NewTransColour(0.25, 0, 0.75, 0.75, 0); !transClose(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestUVMapPigment(t *testing.T) {
	img := NewImageMap(2, 1, []core.TransColour{black, white})
	p := &Pigment{Type: UVMapPigment, PigmentMap: pattern.NewBlendMap(
		pattern.BlendEntry[*Pigment]{Value: NewImagePigment(img)},
	)}

	got, _, err := p.Compute(core.NewVec3(0.1, 0.1, 0), nil, &pattern.Hit{UV: core.Vec2{U: 0.9, V: 0.5}})
	if err != nil || got != white {
		t.Errorf("got %v err %v, want the UV pixel", got, err)
	}

	if _, _, err := p.Compute(core.Vec3{}, nil, nil); !errors.Is(err, core.ErrUnknownPattern) {
		t.Errorf("uv map without a surface should fail, got %v", err)
	}
}

func TestUnknownPigmentType(t *testing.T) {
	p := &Pigment{Type: PigmentType(99)}
	if _, _, err := p.Compute(core.Vec3{}, nil, nil); !errors.Is(err, core.ErrUnknownPattern) {
		t.Errorf("got %v", err)
	}
}

func TestTextureCloneIsDeep(t *testing.T) {
	nested := NewSolidTexture(core.White)
	tex := NewPatternedTexture(gradientX(), pattern.BlendEntry[*Texture]{Key: 0, Value: nested})
	c := tex.Clone()

	c.Map.Entries[0].Value.Layers[0].Pigment.Colour = black
	if nested.Layers[0].Pigment.Colour != white {
		t.Error("clone shares nested pigments")
	}
	if c.Map.Entries[0].Value.Layers[0].Finish != nested.Layers[0].Finish {
		t.Error("finishes are shared between clones")
	}
	if tex.Finish() != nil || nested.Finish() == nil {
		t.Error("only layered textures report a finish")
	}
}
