package trace

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/intersect"
	"github.com/df07/go-trace-core/pkg/lights"
	"github.com/df07/go-trace-core/pkg/object"
)

// traceShadowRay filters colour by everything between point and l.
// lightRay points from point towards the light, depth away. index is
// the light's slot in the shadow caches, or -1.
func (e *Engine) traceShadowRay(l *lights.Light, index int, depth float64, lightRay *core.Ray, point core.Vec3, colour core.Colour) (core.Colour, error) {
	t := lightRay.Ticket
	if t.TraceLevel > t.MaxAllowedTraceLevel {
		return core.Colour{}, nil
	}
	t.MaxFoundTraceLevel = max(t.MaxFoundTraceLevel, t.TraceLevel)
	t.TraceLevel++
	defer func() { t.TraceLevel-- }()

	ray := core.NewRayFrom(core.OtherRay, lightRay, lightRay.Origin, lightRay.Direction)
	ray.ShadowTest = true
	ray.Photon = false

	var err error
	if l.Area && e.quality.AreaLights {
		colour, depth, err = e.traceAreaLightShadowRay(l, index, depth, &ray, point, colour)
	} else {
		colour, depth, err = e.tracePointLightShadowRay(l, index, depth, &ray, colour)
	}
	if err != nil {
		return colour, err
	}

	if depth > shadowTolerance && l.MediaInteraction && l.MediaAttenuation {
		colour = e.computeShadowMedia(&ray, nil, depth, colour, true)
	}
	return colour, nil
}

// tracePointLightShadowRay walks ray towards the light through every
// occluder, returning the filtered colour and the distance left to the
// light from the last occluder passed
func (e *Engine) tracePointLightShadowRay(l *lights.Light, index int, depth float64, ray *core.Ray, colour core.Colour) (core.Colour, float64, error) {
	projectedDepth := 0.0
	if l.ProjectedThrough != nil {
		isect, ok := e.finder.FindObject(l.ProjectedThrough, ray, nil, intersect.BoundHuge)
		if !ok || isect.Depth >= depth {
			return core.Colour{}, depth, nil
		}
		projectedDepth = depth - math.Abs(isect.Depth) + smallTolerance
		if l.Type == lights.Fill {
			return colour, depth, nil
		}
	}

	useCache := e.shadowCache && !l.InLightGroup && index >= 0
	var cached object.Object
	if useCache {
		cached = e.cachedOccluder(index, ray.Ticket.TraceLevel)
		if cached != nil {
			isect, ok := e.finder.FindObject(cached, ray, beyondSurface, depth-projectedDepth)
			if ok && !isect.Object.Props().Has(object.NoShadow) &&
				isect.Depth > shadowTolerance && isect.Depth < depth-shadowTolerance {
				var err error
				colour, err = e.computeShadowColour(l, &isect, ray, colour)
				if err != nil {
					return colour, depth, err
				}
				if colour.IsNearZero(epsilon) && isect.Owner().Props().Has(object.Opaque) {
					e.stats.ShadowRayTests++
					e.stats.ShadowRaysSucceeded++
					e.stats.ShadowCacheHits++
					return colour, depth, nil
				}
			} else {
				cached = nil
			}
		}
	}

	foundTransparent := false
	for {
		best := object.Intersection{Depth: depth - projectedDepth}
		e.stats.ShadowRayTests++
		if !e.finder.Find(ray, &best, castsShadow, beyondSurface) {
			break
		}
		if (cached != nil && best.Object == cached) ||
			best.Depth >= depth-shadowTolerance ||
			depth-best.Depth <= projectedDepth ||
			best.Depth <= shadowTolerance {
			break
		}

		e.stats.ShadowRaysSucceeded++
		var err error
		colour, err = e.computeShadowColour(l, &best, ray, colour)
		if err != nil {
			return colour, depth, err
		}

		owner := best.Owner()
		if colour.IsNearZero(epsilon) && owner.Props().Has(object.Opaque) {
			if useCache && !foundTransparent {
				e.storeOccluder(index, ray.Ticket.TraceLevel, owner)
			}
			break
		}

		foundTransparent = true
		depth -= best.Depth
		ray.Origin = best.IPoint
	}
	return colour, depth, nil
}

// cachedOccluder returns the object that last blocked light index. Shadow
// rays leaving primary hits keep their own cache.
func (e *Engine) cachedOccluder(index, level int) object.Object {
	if level == 2 && e.level1Cache[index] != nil {
		return e.level1Cache[index]
	}
	return e.otherCache[index]
}

func (e *Engine) storeOccluder(index, level int, o object.Object) {
	if level == 2 {
		e.level1Cache[index] = o
	} else {
		e.otherCache[index] = o
	}
}

// traceAreaLightShadowRay averages shadow rays to a grid of points on an
// area light, refining the grid only where the samples disagree
func (e *Engine) traceAreaLightShadowRay(l *lights.Light, index int, depth float64, ray *core.Ray, point core.Vec3, colour core.Colour) (core.Colour, float64, error) {
	n := l.AreaSize1 * l.AreaSize2
	if cap(e.lightGrid) < n {
		e.lightGrid = make([]gridSample, n)
	}
	e.lightGrid = e.lightGrid[:n]
	for i := range e.lightGrid {
		e.lightGrid[i].valid = false
	}

	axis1, axis2 := l.Axis1, l.Axis2
	if l.Orient {
		dir, d := l.WhiteRay(point, core.Vec3{})
		depth = d
		axis1, axis2 = l.OrientedAxes(dir)
	}

	c, err := e.traceAreaLightSubset(l, index, ray, point, colour, axis1, axis2, 0, 0, l.AreaSize1-1, l.AreaSize2-1, 0)
	return c, depth, err
}

func (e *Engine) traceAreaLightSubset(l *lights.Light, index int, ray *core.Ray, point core.Vec3, colour core.Colour,
	axis1, axis2 core.Vec3, u1, v1, u2, v2, level int) (core.Colour, error) {
	corners := [4][2]int{{u1, v1}, {u2, v1}, {u1, v2}, {u2, v2}}
	var samples [4]core.Colour

	for i, c := range corners {
		u, v := c[0], c[1]
		cell := &e.lightGrid[u*l.AreaSize2+v]
		if cell.valid {
			samples[i] = cell.colour
			continue
		}

		ju, jv := float64(u), float64(v)
		if l.Jitter {
			ju += e.jitter.Next()
			jv += e.jitter.Next()
		}
		dir, d := l.WhiteRay(point, l.GridOffset(ju, jv, axis1, axis2))
		sampleRay := core.NewRayFrom(ray.Kind, ray, point, dir)

		sample, _, err := e.tracePointLightShadowRay(l, index, d, &sampleRay, colour)
		if err != nil {
			return core.Colour{}, err
		}
		samples[i] = sample
		cell.colour = sample
		cell.valid = true
	}

	if u2-u1 > 1 || v2-v1 > 1 {
		if level < l.AdaptiveLevel ||
			core.ColourDistance(samples[0], samples[1]) > 0.1 ||
			core.ColourDistance(samples[1], samples[3]) > 0.1 ||
			core.ColourDistance(samples[3], samples[2]) > 0.1 ||
			core.ColourDistance(samples[2], samples[0]) > 0.1 {
			nu := float64(u1+u2) / 2
			nv := float64(v1+v2) / 2
			lo1, hi1 := int(math.Floor(nu)), int(math.Ceil(nu))
			lo2, hi2 := int(math.Floor(nv)), int(math.Ceil(nv))

			quads := [4][4]int{
				{u1, v1, lo1, lo2},
				{hi1, v1, u2, lo2},
				{u1, hi2, lo1, v2},
				{hi1, hi2, u2, v2},
			}
			for i, q := range quads {
				var err error
				samples[i], err = e.traceAreaLightSubset(l, index, ray, point, colour, axis1, axis2, q[0], q[1], q[2], q[3], level+1)
				if err != nil {
					return core.Colour{}, err
				}
			}
		}
	}

	return samples[0].Add(samples[1]).Add(samples[2]).Add(samples[3]).Multiply(0.25), nil
}

// computeShadowColour filters colour by the object hit along a shadow ray
func (e *Engine) computeShadowColour(l *lights.Light, isect *object.Intersection, ray *core.Ray, colour core.Colour) (core.Colour, error) {
	props := isect.Object.Props()

	// photons already carry light refracted through photon targets
	if e.quality.Photons && e.scene.Photons.Enabled && e.scene.Photons.Map.Len() > 0 && !e.litIgnoresPhotons &&
		props.Has(object.PhotonTarget) && props.Has(object.PhotonRefractOn) && !props.Has(object.PhotonRefractOff) {
		return core.Colour{}, nil
	}
	if !e.quality.Shadows {
		return colour, nil
	}
	if props.Has(object.Opaque) {
		return core.Colour{}, nil
	}

	e.enterLightLevel()
	s, normalDirection := e.newSurface(isect, ray)
	var buf [4]object.WeightedTexture
	textures := determineTextures(isect, normalDirection > 0, buf[:0])

	var filter core.Colour
	for _, wt := range textures {
		if wt.Texture == nil || wt.Weight < ray.Ticket.ADCBailout {
			continue
		}
		warps := e.warps.Acquire()
		c, _, err := e.computeOneTextureColour(wt.Texture, warps, &s, ray, 0, true)
		e.warps.Release(warps)
		if err != nil {
			e.leaveLightLevel()
			return colour, err
		}
		filter = filter.Add(c.Multiply(wt.Weight))
	}
	e.leaveLightLevel()

	if math.Abs(filter.Weight()) < ray.Ticket.ADCBailout {
		return core.Colour{}, nil
	}

	if e.quality.Media && len(ray.Interiors) > 0 && ray.IsHollowRay() {
		filter, _ = e.media.ComputeMedia(ray.Interiors, ray, isect, filter, 0)
	}
	colour = colour.MultiplyColour(filter)
	return e.computeShadowMedia(ray, isect.Object, isect.Depth, colour, l.MediaInteraction && l.MediaAttenuation), nil
}

// computeShadowMedia attenuates colour through the media between the ray
// origin and depth, then steps the ray through the surface of obj
func (e *Engine) computeShadowMedia(ray *core.Ray, obj object.Object, depth float64, colour core.Colour, mediaOn bool) core.Colour {
	if colour.IsNearZero(epsilon) {
		return colour
	}

	var interior *core.Interior
	if obj != nil {
		interior = obj.Props().Interior
	}

	if mediaOn && e.quality.Media && (ray.IsHollowRay() || interior != nil) {
		isect := object.Intersection{Depth: depth, Object: obj}
		colour, _ = e.media.ComputeMedia(ray.Interiors, ray, &isect, colour, 0)
		if ray.IsHollowRay() && !ray.Photon {
			colour, _ = e.scene.ApplyFog(ray.Origin, ray.Direction, depth, true, colour, 0)
		}
	}

	if interior != nil && !ray.RemoveInterior(interior) {
		ray.AppendInterior(interior)
	}
	return colour
}
