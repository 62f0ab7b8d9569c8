package noise

import (
	"fmt"
	"sync/atomic"

	"github.com/df07/go-trace-core/pkg/core"
)

// Generator selects the scalar noise variant
type Generator int

const (
	// Default is replaced by the scene-wide generator before evaluation;
	// if it does reach the noise code it behaves like Original
	Default Generator = iota
	Original
	RangeCorrected
	Perlin
)

// ParseGenerator validates a generator number from scene settings
func ParseGenerator(n int) (Generator, error) {
	g := Generator(n)
	if err := g.Validate(); err != nil {
		return Default, err
	}
	return g, nil
}

// Validate reports ErrUnknownGenerator for values outside the enum
func (g Generator) Validate() error {
	if g < Default || g > Perlin {
		return fmt.Errorf("generator %d: %w", int(g), core.ErrUnknownGenerator)
	}
	return nil
}

// Resolve replaces Default with fallback
func (g Generator) Resolve(fallback Generator) Generator {
	if g == Default {
		return fallback
	}
	return g
}

func (g Generator) String() string {
	switch g {
	case Default:
		return "default"
	case Original:
		return "original"
	case RangeCorrected:
		return "range-corrected"
	case Perlin:
		return "perlin"
	}
	return fmt.Sprintf("generator(%d)", int(g))
}

// Implementation is one interchangeable noise kernel. Every
// implementation must agree with Portable to within Tolerance.
type Implementation struct {
	Name string
	Info string

	Noise  func(p core.Vec3, g Generator) float64
	DNoise func(p core.Vec3) core.Vec3

	// Enabled lets settings switch an implementation off
	Enabled bool
	// Supported reports whether the host can run the kernel
	Supported func() bool
	// Recommended reports whether the kernel is preferable on this host
	Recommended func() bool
}

// Tolerance is the maximum absolute difference allowed between any
// implementation and Portable
const Tolerance = 1e-10

// Portable is the reference implementation; it is always available
var Portable = &Implementation{
	Name:        "generic",
	Info:        "portable",
	Noise:       PortableNoise,
	DNoise:      PortableDNoise,
	Enabled:     true,
	Supported:   func() bool { return true },
	Recommended: func() bool { return true },
}

// optimized lists the alternatives in preference order
var optimized = []*Implementation{
	{
		Name:        "fma",
		Info:        "fused multiply-add",
		Noise:       FMANoise,
		DNoise:      FMADNoise,
		Enabled:     true,
		Supported:   fmaSupported,
		Recommended: fmaRecommended,
	},
}

var active atomic.Pointer[Implementation]

// Implementations returns every registered implementation, Portable first
func Implementations() []*Implementation {
	return append([]*Implementation{Portable}, optimized...)
}

// Recommended returns the first enabled, supported and recommended
// optimized implementation, or Portable when none qualifies
func Recommended() *Implementation {
	for _, impl := range optimized {
		if impl.Enabled && impl.Supported() && (impl.Recommended == nil || impl.Recommended()) {
			return impl
		}
	}
	return Portable
}

// ByName returns the enabled implementation with the given name, or
// Portable when there is none
func ByName(name string) *Implementation {
	for _, impl := range optimized {
		if impl.Enabled && impl.Name == name {
			return impl
		}
	}
	return Portable
}

func selectImplementation() {
	active.Store(Recommended())
}

// Use makes impl the implementation behind Noise and DNoise. Call it during
// startup, before any worker evaluates noise.
func Use(impl *Implementation) {
	Initialize()
	active.Store(impl)
}

// Active returns the implementation behind Noise and DNoise
func Active() *Implementation {
	Initialize()
	return active.Load()
}

// Noise evaluates scalar noise in [0, 1] with the active implementation
func Noise(p core.Vec3, g Generator) float64 {
	return Active().Noise(p, g)
}

// DNoise evaluates vector noise with the active implementation
func DNoise(p core.Vec3) core.Vec3 {
	return Active().DNoise(p)
}
