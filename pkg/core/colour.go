package core

import "math"

// Colour is a linear RGB triple used for light, pigment and filter values
type Colour struct {
	R, G, B float64
}

// NewColour creates a new Colour
func NewColour(r, g, b float64) Colour {
	return Colour{R: r, G: g, B: b}
}

// Grey returns a colour with all channels set to v
func Grey(v float64) Colour {
	return Colour{v, v, v}
}

// White is the neutral filter colour
var White = Colour{1, 1, 1}

// Add returns the channel-wise sum
func (c Colour) Add(o Colour) Colour {
	return Colour{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Subtract returns the channel-wise difference
func (c Colour) Subtract(o Colour) Colour {
	return Colour{c.R - o.R, c.G - o.G, c.B - o.B}
}

// Multiply scales every channel
func (c Colour) Multiply(s float64) Colour {
	return Colour{c.R * s, c.G * s, c.B * s}
}

// MultiplyColour returns the channel-wise product
func (c Colour) MultiplyColour(o Colour) Colour {
	return Colour{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Divide divides every channel by s
func (c Colour) Divide(s float64) Colour {
	return Colour{c.R / s, c.G / s, c.B / s}
}

// AddScalar adds s to every channel
func (c Colour) AddScalar(s float64) Colour {
	return Colour{c.R + s, c.G + s, c.B + s}
}

// Exp returns e raised to each channel
func (c Colour) Exp() Colour {
	return Colour{math.Exp(c.R), math.Exp(c.G), math.Exp(c.B)}
}

// Pow raises each channel to the power p
func (c Colour) Pow(p float64) Colour {
	return Colour{math.Pow(c.R, p), math.Pow(c.G, p), math.Pow(c.B, p)}
}

// Get returns channel i (0=R, 1=G, 2=B)
func (c Colour) Get(i int) float64 {
	switch i {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

// Set returns a copy with channel i replaced
func (c Colour) Set(i int, v float64) Colour {
	switch i {
	case 0:
		c.R = v
	case 1:
		c.G = v
	default:
		c.B = v
	}
	return c
}

// Greyscale returns the perceptual grey value of the colour
func (c Colour) Greyscale() float64 {
	return 0.297*c.R + 0.589*c.G + 0.114*c.B
}

// Weight returns the channel average
func (c Colour) Weight() float64 {
	return (c.R + c.G + c.B) / 3.0
}

// WeightMax returns the largest channel
func (c Colour) WeightMax() float64 {
	return math.Max(c.R, math.Max(c.G, c.B))
}

// WeightMaxAbs returns the largest absolute channel
func (c Colour) WeightMaxAbs() float64 {
	return math.Max(math.Abs(c.R), math.Max(math.Abs(c.G), math.Abs(c.B)))
}

// IsZero reports whether every channel is exactly zero
func (c Colour) IsZero() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// IsNearZero reports whether every channel is within eps of zero
func (c Colour) IsNearZero(eps float64) bool {
	return math.Abs(c.R) < eps && math.Abs(c.G) < eps && math.Abs(c.B) < eps
}

// ClippedUpper clamps each channel to at most limit
func (c Colour) ClippedUpper(limit float64) Colour {
	return Colour{math.Min(c.R, limit), math.Min(c.G, limit), math.Min(c.B, limit)}
}

// ColourDistance returns the sum of absolute channel differences
func ColourDistance(a, b Colour) float64 {
	return math.Abs(a.R-b.R) + math.Abs(a.G-b.G) + math.Abs(a.B-b.B)
}

// TransColour is a colour with filter and transmit channels
type TransColour struct {
	Colour   Colour
	Filter   float64
	Transmit float64
}

// NewTransColour creates a TransColour
func NewTransColour(r, g, b, filter, transmit float64) TransColour {
	return TransColour{Colour: Colour{r, g, b}, Filter: filter, Transmit: transmit}
}

// Opaque wraps a colour with zero filter and transmit
func Opaque(c Colour) TransColour {
	return TransColour{Colour: c}
}

// Opacity is the 3.7+ layer opacity: 1 - filter*grey - transmit
func (t TransColour) Opacity() float64 {
	return 1.0 - t.Filter*t.Colour.Greyscale() - t.Transmit
}

// LegacyOpacity is the opacity used by scenes older than version 3.7
func (t TransColour) LegacyOpacity() float64 {
	return 1.0 - (t.Filter*t.Colour.WeightMax() + t.Transmit)
}

// TransmittedColour returns the colour passed through the layer
func (t TransColour) TransmittedColour() Colour {
	return t.Colour.Multiply(t.Filter).AddScalar(t.Transmit)
}

// Add returns the channel-wise sum including filter and transmit
func (t TransColour) Add(o TransColour) TransColour {
	return TransColour{Colour: t.Colour.Add(o.Colour), Filter: t.Filter + o.Filter, Transmit: t.Transmit + o.Transmit}
}

// Multiply scales all five channels
func (t TransColour) Multiply(s float64) TransColour {
	return TransColour{Colour: t.Colour.Multiply(s), Filter: t.Filter * s, Transmit: t.Transmit * s}
}
