package material

import (
	"fmt"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/pattern"
)

// PigmentType selects how a pigment computes its colour
type PigmentType int

const (
	PlainPigment PigmentType = iota
	// ColourMapPigment blends ColourMap entries by the pattern value
	ColourMapPigment
	// PigmentMapPigment blends nested pigments by the pattern value
	PigmentMapPigment
	// AveragePigment averages PigmentMap entries weighted by their keys
	AveragePigment
	// UVMapPigment evaluates the first PigmentMap entry at the surface UV
	UVMapPigment
	// ImagePigment looks the colour up in Image
	ImagePigment
)

// Pigment is a spatial colour function with filter and transmit
type Pigment struct {
	Type   PigmentType
	Colour core.TransColour

	// Pattern drives the maps; for average and image pigments only its
	// warps are used
	Pattern    *pattern.Pattern
	ColourMap  *pattern.BlendMap[core.TransColour]
	PigmentMap *pattern.BlendMap[*Pigment]
	Image      *ImageMap
}

// NewPlainPigment creates a pigment of a single colour
func NewPlainPigment(c core.TransColour) *Pigment {
	return &Pigment{Type: PlainPigment, Colour: c}
}

// NewColourMapPigment creates a pigment blending colours by a pattern
func NewColourMapPigment(p *pattern.Pattern, entries ...pattern.BlendEntry[core.TransColour]) *Pigment {
	return &Pigment{Type: ColourMapPigment, Pattern: p, ColourMap: pattern.NewBlendMap(entries...)}
}

// NewPigmentMapPigment creates a pigment blending nested pigments
func NewPigmentMapPigment(p *pattern.Pattern, entries ...pattern.BlendEntry[*Pigment]) *Pigment {
	return &Pigment{Type: PigmentMapPigment, Pattern: p, PigmentMap: pattern.NewBlendMap(entries...)}
}

// NewImagePigment creates a pigment from an image map
func NewImagePigment(m *ImageMap) *Pigment {
	return &Pigment{Type: ImagePigment, Image: m}
}

func (p *Pigment) warpPoint(point core.Vec3) core.Vec3 {
	if p.Pattern == nil {
		return point
	}
	return p.Pattern.WarpPoint(point)
}

// Compute returns the colour at a world point. found is false where the
// pigment leaves the point uncoloured, as outside a once-only image.
func (p *Pigment) Compute(point core.Vec3, ctx *pattern.Context, hit *pattern.Hit) (colour core.TransColour, found bool, err error) {
	switch p.Type {
	case PlainPigment:
		return p.Colour, true, nil

	case AveragePigment:
		tp := p.warpPoint(point)
		var sum core.TransColour
		total := 0.0
		for _, e := range p.PigmentMap.Entries {
			c, _, err := e.Value.Compute(tp, ctx, hit)
			if err != nil {
				return colour, false, err
			}
			sum = sum.Add(c.Multiply(e.Key))
			total += e.Key
		}
		if total != 0 {
			sum = sum.Multiply(1.0 / total)
		}
		return sum, true, nil

	case UVMapPigment:
		if hit == nil {
			return colour, false, fmt.Errorf("uv mapped pigment evaluated away from a surface: %w", core.ErrUnknownPattern)
		}
		uv := core.NewVec3(hit.UV.U, hit.UV.V, 0)
		return p.PigmentMap.Entries[0].Value.Compute(uv, ctx, hit)

	case ImagePigment:
		colour, found = p.Image.Lookup(p.warpPoint(point))
		return colour, found, nil

	case ColourMapPigment:
		tp := p.Pattern.WarpPoint(point)
		prev, cur, prevWeight, curWeight := p.ColourMap.Search(p.Pattern.Evaluate(tp, ctx, hit))
		if prev == cur {
			return cur.Value, true, nil
		}
		return prev.Value.Multiply(prevWeight).Add(cur.Value.Multiply(curWeight)), true, nil

	case PigmentMapPigment:
		tp := p.Pattern.WarpPoint(point)
		prev, cur, prevWeight, curWeight := p.PigmentMap.Search(p.Pattern.Evaluate(tp, ctx, hit))
		colour, found, err = cur.Value.Compute(tp, ctx, hit)
		if err != nil || prev == cur {
			return colour, found, err
		}
		other, otherFound, err := prev.Value.Compute(tp, ctx, hit)
		if err != nil {
			return colour, false, err
		}
		return other.Multiply(prevWeight).Add(colour.Multiply(curWeight)), found || otherFound, nil
	}
	return colour, false, fmt.Errorf("pigment type %d: %w", int(p.Type), core.ErrUnknownPattern)
}

// Clone deep-copies the pigment, its pattern warps and nested pigments
func (p *Pigment) Clone() *Pigment {
	if p == nil {
		return nil
	}
	c := *p
	if p.Pattern != nil {
		c.Pattern = p.Pattern.Clone()
	}
	c.ColourMap = p.ColourMap.Clone()
	if p.PigmentMap != nil {
		c.PigmentMap = p.PigmentMap.Clone()
		for i := range c.PigmentMap.Entries {
			c.PigmentMap.Entries[i].Value = c.PigmentMap.Entries[i].Value.Clone()
		}
	}
	return &c
}
