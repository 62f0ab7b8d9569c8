package material

import (
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
)

var (
	white = core.Opaque(core.White)
	black = core.Opaque(core.Colour{})
)

// TestImageMapLookup tests basic image sampling
func TestImageMapLookup(t *testing.T) {
	// Layout:
	//   white black
	//   black white
	m := NewImageMap(2, 2, []core.TransColour{white, black, black, white})

	tests := []struct {
		name string
		p    core.Vec3
		want core.TransColour
	}{
		{"bottom left", core.NewVec3(0.1, 0.1, 0), black},
		{"bottom right", core.NewVec3(0.9, 0.1, 0), white},
		{"top left", core.NewVec3(0.1, 0.9, 0), white},
		{"top right", core.NewVec3(0.9, 0.9, 0), black},
		{"z is ignored", core.NewVec3(0.9, 0.9, 7), black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Lookup(tt.p)
			if !ok || got != tt.want {
				t.Errorf("got %v (%v), want %v", got, ok, tt.want)
			}
		})
	}
}

// TestImageMapWrapping tests repetition outside the unit square
func TestImageMapWrapping(t *testing.T) {
	red := core.Opaque(core.NewColour(1, 0, 0))
	m := NewImageMap(1, 1, []core.TransColour{red})

	for _, p := range []core.Vec3{
		core.NewVec3(0.5, 0.5, 0),
		core.NewVec3(1.5, 0.5, 0),
		core.NewVec3(-0.5, -0.5, 0),
		core.NewVec3(2.3, 3.7, 0),
	} {
		if got, ok := m.Lookup(p); !ok || got != red {
			t.Errorf("%v: got %v", p, got)
		}
	}
}

func TestImageMapOnce(t *testing.T) {
	m := NewCheckerImage(4, 4, 2, white, black)
	m.Once = true

	if _, ok := m.Lookup(core.NewVec3(0.5, 0.5, 0)); !ok {
		t.Error("inside the unit square should be coloured")
	}
	for _, p := range []core.Vec3{
		core.NewVec3(1.0, 0.5, 0),
		core.NewVec3(-0.01, 0.5, 0),
		core.NewVec3(0.5, 1.2, 0),
	} {
		if _, ok := m.Lookup(p); ok {
			t.Errorf("%v should be outside a once-only image", p)
		}
	}
}
