package trace

import (
	"fmt"
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/object"
	"github.com/df07/go-trace-core/pkg/pattern"
)

type warpStack = core.Stack[*material.Texture]

// surface is the shading context shared by every texture evaluated at one
// hit
type surface struct {
	isect *object.Intersection
	// point is the texture space point: the hit, or its UV coordinates
	// for UV mapped objects
	point core.Vec3
	// raw is the geometric normal facing the incoming ray
	raw core.Vec3
	hit *pattern.Hit
}

// newSurface computes the facing normal and texture point of a hit
func (e *Engine) newSurface(isect *object.Intersection, ray *core.Ray) (surface, float64) {
	obj := isect.Object
	raw := obj.Normal(isect.IPoint, isect)
	if obj.Props().Has(object.Inverted) {
		raw = raw.Negate()
	}
	normalDirection := raw.Dot(ray.Direction)
	if normalDirection > 0 {
		raw = raw.Negate()
	}
	isect.INormal, isect.PNormal = raw, raw

	point := isect.IPoint
	if obj.Props().Has(object.UVMapped) {
		isect.UV = obj.UVCoord(isect)
		point = core.NewVec3(isect.UV.U, isect.UV.V, 0)
	}

	hit := &pattern.Hit{Point: isect.IPoint, Normal: raw, Direction: ray.Direction, UV: isect.UV}
	return surface{isect: isect, point: point, raw: raw, hit: hit}, normalDirection
}

// determineTextures appends the weighted textures active at the hit
func determineTextures(isect *object.Intersection, inside bool, out []object.WeightedTexture) []object.WeightedTexture {
	b := isect.Object.Props()
	if b.Has(object.MultiTextured) || (b.Texture == nil && b.Has(object.Cutaway)) {
		if mt, ok := isect.Object.(object.MultiTexturer); ok {
			return mt.DetermineTextures(isect, inside, out)
		}
		return out
	}
	switch {
	case inside && b.InteriorTexture != nil:
		return append(out, object.WeightedTexture{Weight: 1, Texture: b.InteriorTexture})
	case b.Texture != nil:
		return append(out, object.WeightedTexture{Weight: 1, Texture: b.Texture})
	}
	return out
}

// computeTextureColour shades a hit with every texture active there
func (e *Engine) computeTextureColour(isect *object.Intersection, ray *core.Ray, weight float64) (core.Colour, float64, error) {
	e.enterLightLevel()
	defer e.leaveLightLevel()

	s, normalDirection := e.newSurface(isect, ray)

	var buf [4]object.WeightedTexture
	textures := determineTextures(isect, normalDirection > 0, buf[:0])

	var colour core.Colour
	var transm float64
	for _, wt := range textures {
		if wt.Texture == nil || wt.Weight < ray.Ticket.ADCBailout {
			continue
		}
		warps := e.warps.Acquire()
		c, t, err := e.computeOneTextureColour(wt.Texture, warps, &s, ray, weight, false)
		e.warps.Release(warps)
		if err != nil {
			return colour, transm, err
		}
		colour = colour.Add(c.Multiply(wt.Weight))
		transm += t * wt.Weight
	}

	if e.quality.Media && len(ray.Interiors) > 0 && ray.IsHollowRay() {
		colour, transm = e.media.ComputeMedia(ray.Interiors, ray, isect, colour, transm)
	}
	return colour, transm, nil
}

// computeOneTextureColour resolves a texture to plain layers and shades
// them. Every non-plain texture passed through on the way is on warps, so
// layer normals can be carried into and out of its pattern space.
func (e *Engine) computeOneTextureColour(tex *material.Texture, warps *warpStack, s *surface, ray *core.Ray, weight float64, shadow bool) (core.Colour, float64, error) {
	if tex.Type != material.PlainTexture {
		warps.Push(tex)
		defer warps.Pop()
	}

	switch tex.Type {
	case material.PlainTexture:
		if shadow {
			c, err := e.computeShadowTexture(tex, warps, s, ray)
			return c, 0, err
		}
		return e.computeLightedTexture(tex, warps, s, ray, weight)

	case material.PatternedTexture:
		value := tex.Pattern.Evaluate(tex.WarpPoint(s.point), e.patterns, s.hit)
		prev, cur, prevW, curW := tex.Map.Search(value)
		c, t, err := e.computeOneTextureColour(cur.Value, warps, s, ray, weight, shadow)
		if err != nil || prev == cur {
			return c, t, err
		}
		c2, t2, err := e.computeOneTextureColour(prev.Value, warps, s, ray, weight, shadow)
		return c.Multiply(curW).Add(c2.Multiply(prevW)), t*curW + t2*prevW, err

	case material.AverageTexture:
		return e.averageTextureColours(tex, warps, s, ray, weight, shadow)

	case material.UVMapTexture:
		uv := s.isect.Object.UVCoord(s.isect)
		mapped := *s
		mapped.point = core.NewVec3(uv.U, uv.V, 0)
		return e.computeOneTextureColour(tex.Map.Entries[0].Value, warps, &mapped, ray, weight, shadow)

	case material.MaterialMapTexture:
		i := tex.MaterialMap.Lookup(tex.WarpPoint(s.point))
		return e.computeOneTextureColour(tex.Materials[i%len(tex.Materials)], warps, s, ray, weight, shadow)
	}
	return core.Colour{}, 0, fmt.Errorf("texture type %d: %w", tex.Type, core.ErrUnknownTexture)
}

// averageTextureColours weights the nested textures by their map keys
func (e *Engine) averageTextureColours(tex *material.Texture, warps *warpStack, s *surface, ray *core.Ray, weight float64, shadow bool) (core.Colour, float64, error) {
	var colour core.Colour
	var transm, total float64
	for _, entry := range tex.Map.Entries {
		c, t, err := e.computeOneTextureColour(entry.Value, warps, s, ray, weight, shadow)
		if err != nil {
			return colour, transm, err
		}
		colour = colour.Add(c.Multiply(entry.Key))
		transm += t * entry.Key
		total += entry.Key
	}
	if total == 0 {
		return colour, transm, nil
	}
	return colour.Divide(total), transm / total, nil
}

// perturbNormal applies a layer normal pattern in the space of the
// textures enclosing the layer
func (e *Engine) perturbNormal(n *pattern.Normal, warps *warpStack, s *surface) core.Vec3 {
	normal := s.raw
	items := warps.Items()
	for _, t := range items {
		if t.Pattern != nil {
			normal = t.Pattern.Warps.Normal(normal, n.DontScaleBumps)
		}
	}
	normal = n.Perturb(normal, s.point, e.patterns, s.hit)
	if n.DontScaleBumps {
		normal = normal.Normalize()
	}
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Pattern != nil {
			normal = items[i].Pattern.Warps.UnwarpNormal(normal, n.DontScaleBumps)
		}
	}
	return normal
}

func (e *Engine) computePigment(p *material.Pigment, s *surface) (core.TransColour, bool, error) {
	if p == nil {
		return core.TransColour{}, false, nil
	}
	return p.Compute(s.point, e.patterns, s.hit)
}

// relativeIOR returns the ratio of refractive indices across the surface
// the ray is hitting
func (e *Engine) relativeIOR(ray *core.Ray, interior *core.Interior) float64 {
	if interior == nil {
		return 1
	}
	n := len(ray.Interiors)
	switch {
	case n == 0:
		return interior.IOR / e.scene.AtmosphereIOR
	case ray.IsInterior(interior):
		// leaving into the next medium out
		for i := n - 1; i >= 0; i-- {
			if ray.Interiors[i] != interior {
				return ray.Interiors[i].IOR / interior.IOR
			}
		}
		return e.scene.AtmosphereIOR / interior.IOR
	}
	return interior.IOR / ray.Interiors[n-1].IOR
}

// fade returns the filter colour of light that travelled depth through
// interior
func fade(interior *core.Interior, depth float64) core.Colour {
	one := core.Grey(1)
	if interior.FadePower >= 1000 {
		return one.Subtract(interior.FadeColour).Multiply(-depth / interior.FadeDistance).Exp()
	}
	a := 1 + math.Pow(depth/interior.FadeDistance, interior.FadePower)
	return interior.FadeColour.Add(one.Subtract(interior.FadeColour).Divide(a))
}

// computeShadowTexture returns the filter a plain texture applies to light
// passing through it
func (e *Engine) computeShadowTexture(tex *material.Texture, warps *warpStack, s *surface, ray *core.Ray) (core.Colour, error) {
	interior := s.isect.Object.Props().Interior
	filter := core.Grey(1)

	for _, layer := range tex.Layers {
		c, found, err := e.computePigment(layer.Pigment, s)
		if err != nil {
			return filter, err
		}
		if found {
			filter = filter.MultiplyColour(c.TransmittedColour())
		}
		if interior != nil && interior.Caustics != 0 {
			n := s.raw
			if e.quality.Normals && layer.Normal != nil {
				n = e.perturbNormal(layer.Normal, warps, s)
			}
			k := 1 + math.Pow(math.Abs(n.Dot(ray.Direction)), interior.Caustics)
			filter = filter.Multiply(k)
		}
	}

	if interior != nil && ray.IsInterior(interior) && interior.FadePower > 0 && math.Abs(interior.FadeDistance) > epsilon {
		filter = filter.MultiplyColour(fade(interior, s.isect.Depth))
	}
	return filter, nil
}
