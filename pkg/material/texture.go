package material

import (
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/pattern"
)

// TextureType selects how a texture resolves to layers at a point
type TextureType int

const (
	// PlainTexture is a stack of layers, outermost first
	PlainTexture TextureType = iota
	// PatternedTexture blends nested textures by the pattern value
	PatternedTexture
	// AverageTexture averages nested textures weighted by their map keys
	AverageTexture
	// UVMapTexture evaluates the first nested texture at the surface UV
	UVMapTexture
	// MaterialMapTexture picks a nested texture from an index raster
	MaterialMapTexture
)

// Layer is one level of a plain texture
type Layer struct {
	Pigment *Pigment
	// Normal is nil for unperturbed layers
	Normal *pattern.Normal
	Finish *Finish
}

// Texture is a layered material description
type Texture struct {
	Type   TextureType
	Layers []*Layer

	// Pattern drives patterned textures; for the other non-plain types
	// only its warps are used
	Pattern *pattern.Pattern
	Map     *pattern.BlendMap[*Texture]

	Materials   []*Texture
	MaterialMap *MaterialMap
}

// NewPlainTexture creates a single-layer texture
func NewPlainTexture(pigment *Pigment, finish *Finish) *Texture {
	return NewLayeredTexture(&Layer{Pigment: pigment, Finish: finish})
}

// NewLayeredTexture creates a texture from layers, outermost first
func NewLayeredTexture(layers ...*Layer) *Texture {
	return &Texture{Type: PlainTexture, Layers: layers}
}

// NewSolidTexture creates a plain texture of one opaque colour with the
// default finish
func NewSolidTexture(c core.Colour) *Texture {
	return NewPlainTexture(NewPlainPigment(core.Opaque(c)), NewFinish())
}

// NewPatternedTexture creates a texture blending nested textures
func NewPatternedTexture(p *pattern.Pattern, entries ...pattern.BlendEntry[*Texture]) *Texture {
	return &Texture{Type: PatternedTexture, Pattern: p, Map: pattern.NewBlendMap(entries...)}
}

// WarpPoint maps a world point into the texture's pattern space
func (t *Texture) WarpPoint(point core.Vec3) core.Vec3 {
	if t.Pattern == nil {
		return point
	}
	return t.Pattern.WarpPoint(point)
}

// Finish returns the finish of the outermost layer, or nil
func (t *Texture) Finish() *Finish {
	if len(t.Layers) == 0 {
		return nil
	}
	return t.Layers[0].Finish
}

// Clone deep-copies patterns, pigments, normals and nested textures.
// Finishes are immutable and shared.
func (t *Texture) Clone() *Texture {
	if t == nil {
		return nil
	}
	c := *t
	if t.Pattern != nil {
		c.Pattern = t.Pattern.Clone()
	}
	c.Layers = make([]*Layer, len(t.Layers))
	for i, l := range t.Layers {
		c.Layers[i] = &Layer{Pigment: l.Pigment.Clone(), Normal: l.Normal.Clone(), Finish: l.Finish}
	}
	if t.Map != nil {
		c.Map = t.Map.Clone()
		for i := range c.Map.Entries {
			c.Map.Entries[i].Value = c.Map.Entries[i].Value.Clone()
		}
	}
	c.Materials = make([]*Texture, len(t.Materials))
	for i, m := range t.Materials {
		c.Materials[i] = m.Clone()
	}
	return &c
}
