package trace

import (
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/intersect"
	"github.com/df07/go-trace-core/pkg/object"
)

// TraceRay returns the colour and transmittance seen along ray and the
// depth of the nearest hit. weight is the ray's remaining contribution to
// the pixel; rays under the bailout are not traced. A continued ray
// carries on through a transparent interface without counting as a new
// trace level. maxDepth, when positive, limits the search.
func (e *Engine) TraceRay(ray *core.Ray, weight float64, continued bool, maxDepth float64) (core.Colour, float64, float64, error) {
	n := e.stats.Rays
	e.stats.Rays++
	if ray.IsPrimaryRay() || n&0x0f == 0 {
		if err := e.cooperate(); err != nil {
			return core.Colour{}, 0, intersect.BoundHuge, err
		}
	}

	t := ray.Ticket
	if t.TraceLevel >= t.MaxAllowedTraceLevel || weight < t.ADCBailout {
		if weight < t.ADCBailout {
			e.stats.ADCSaves++
		}
		return core.Colour{}, 0, intersect.BoundHuge, nil
	}

	best := object.Intersection{Depth: intersect.BoundHuge}
	if maxDepth >= epsilon {
		best.Depth = maxDepth
	}
	found := e.finder.Find(ray, &best, visibleTo, nil)

	// a radiosity sample only cares whether something important was hit
	if t.RadiosityImportanceQueried >= 0 {
		t.RadiosityImportanceFound = e.scene.Radiosity.DefaultImportance
		if t.RadiosityImportanceFound < t.RadiosityImportanceQueried {
			return core.Colour{}, 0, best.Depth, nil
		}
	}
	t.RadiosityImportanceQueried = -1

	if !continued {
		t.TraceLevel++
		t.MaxFoundTraceLevel = max(t.MaxFoundTraceLevel, t.TraceLevel)
	}

	var colour core.Colour
	var transm float64
	var err error

	if e.quality.Media && ray.Photon && ray.IsHollowRay() {
		colour, transm = e.computeAtmosphere(ray, &best, colour, transm)
	}

	if found {
		colour, transm, err = e.computeTextureColour(&best, ray, weight)
	} else {
		colour, transm, err = e.scene.Sky(ray.Direction, t.AlphaBackground, e.patterns)
	}

	if err == nil && e.quality.Media && !ray.Photon && ray.IsHollowRay() {
		if len(e.scene.Rainbows) > 0 && !ray.ShadowTest {
			colour, transm, err = e.scene.ApplyRainbows(ray.Direction, best.Depth, colour, transm, e.patterns, nil, e.crand.Next)
		}
		if err == nil {
			colour, transm = e.computeAtmosphere(ray, &best, colour, transm)
		}
	}

	if !continued {
		e.stats.MaxTraceLevelFound = max(e.stats.MaxTraceLevelFound, t.TraceLevel)
		t.TraceLevel--
	}
	return colour, transm, best.Depth, err
}

// computeAtmosphere applies the media outside every object and then fog
func (e *Engine) computeAtmosphere(ray *core.Ray, isect *object.Intersection, colour core.Colour, transm float64) (core.Colour, float64) {
	colour, transm = e.media.ComputeMedia(nil, ray, isect, colour, transm)
	return e.scene.ApplyFog(ray.Origin, ray.Direction, isect.Depth, ray.ShadowTest, colour, transm)
}

// visibleTo rejects objects hidden from the kind of ray being traced
func visibleTo(ray *core.Ray, o object.Object, _ float64) bool {
	b := o.Props()
	switch {
	case ray.IsImageRay() && b.Has(object.NoImage):
		return false
	case ray.IsReflectionRay() && b.Has(object.NoReflection):
		return false
	case ray.Radiosity && b.Has(object.NoRadiosity):
		return false
	case ray.Photon && b.Has(object.NoShadow):
		return false
	}
	return true
}

// castsShadow rejects objects that never block light
func castsShadow(_ *core.Ray, o object.Object, _ float64) bool {
	return !o.Props().Has(object.NoShadow)
}

// beyondSurface rejects hits on the surface a shadow ray starts from
func beyondSurface(_ *core.Ray, _ object.Object, depth float64) bool {
	return depth > smallTolerance
}
