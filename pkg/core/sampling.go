package core

import (
	"math"
	"math/rand"
	"sync"
)

// DoubleGenerator yields a deterministic stream of numbers. Each trace
// engine owns its generators; they are never shared between workers.
type DoubleGenerator interface {
	Next() float64
}

// RandomGenerator draws uniform numbers in [Min, Max) from a seeded source
type RandomGenerator struct {
	random   *rand.Rand
	Min, Max float64
}

// NewRandomGenerator creates a generator for [min, max) seeded with seed
func NewRandomGenerator(seed int64, min, max float64) *RandomGenerator {
	return &RandomGenerator{random: rand.New(rand.NewSource(seed)), Min: min, Max: max}
}

// Next returns the next number
func (g *RandomGenerator) Next() float64 {
	return g.Min + g.random.Float64()*(g.Max-g.Min)
}

// HaltonGenerator yields the radical inverse sequence in the given base
type HaltonGenerator struct {
	Base  int
	index int
}

// NewHaltonGenerator creates a Halton sequence starting at index 1
func NewHaltonGenerator(base int) *HaltonGenerator {
	return &HaltonGenerator{Base: base}
}

// Next returns the next number in [0, 1)
func (h *HaltonGenerator) Next() float64 {
	h.index++
	return RadicalInverse(h.index, h.Base)
}

// RadicalInverse mirrors the base-b digits of i about the radix point
func RadicalInverse(i, base int) float64 {
	inv := 1.0 / float64(base)
	f := inv
	result := 0.0
	for i > 0 {
		result += f * float64(i%base)
		i /= base
		f *= inv
	}
	return result
}

// DirectionGenerator yields uniformly distributed unit vectors from a pair
// of Halton sequences
type DirectionGenerator struct {
	u, v *HaltonGenerator
}

// NewDirectionGenerator creates a direction stream over bases 2 and 3
func NewDirectionGenerator() *DirectionGenerator {
	return &DirectionGenerator{u: NewHaltonGenerator(2), v: NewHaltonGenerator(3)}
}

// Next returns the next direction
func (d *DirectionGenerator) Next() Vec3 {
	return SampleOnUnitSphere(Vec2{U: d.u.Next(), V: d.v.Next()})
}

// SampleOnUnitSphere maps a unit-square sample to a uniform direction
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.U
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.V
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// RandomSequence is a fixed table of pseudo-random numbers indexed by an
// integer seed, so the same seed always gives the same number
type RandomSequence struct {
	values []float64
}

// NewRandomSequence fills count numbers in [min, max)
func NewRandomSequence(seed int64, min, max float64, count int) *RandomSequence {
	g := NewRandomGenerator(seed, min, max)
	values := make([]float64, count)
	for i := range values {
		values[i] = g.Next()
	}
	return &RandomSequence{values: values}
}

// At returns the number for index, wrapping around the table
func (s *RandomSequence) At(index int) float64 {
	n := len(s.values)
	index %= n
	if index < 0 {
		index += n
	}
	return s.values[index]
}

// Len returns the table size
func (s *RandomSequence) Len() int {
	return len(s.values)
}

const randomTableSize = 32768

var (
	patternRandsOnce sync.Once
	patternRands     *RandomSequence
	warpRandsOnce    sync.Once
	warpRands        *RandomSequence
)

// PatternRands returns the shared table used for jittering pattern cells
func PatternRands(index int) float64 {
	patternRandsOnce.Do(func() {
		patternRands = NewRandomSequence(0, 0, 1, randomTableSize)
	})
	return patternRands.At(index)
}

// WarpRands returns the shared table used for jittering black hole centres
func WarpRands(index int) float64 {
	warpRandsOnce.Do(func() {
		warpRands = NewRandomSequence(1, 0, 1, randomTableSize)
	})
	return warpRands.At(index)
}
