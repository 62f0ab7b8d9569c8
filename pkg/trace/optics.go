package trace

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
)

// computeReflection traces the mirror ray off a layer with the given
// normal. The perturbed normal may point away from the eye; the mirror
// direction is then pushed back above the geometric surface.
func (e *Engine) computeReflection(f *material.Finish, s *surface, ray *core.Ray, normal core.Vec3, weight float64) (core.Colour, error) {
	raw := s.raw
	dir := ray.Direction.Add(normal.Multiply(-2 * ray.Direction.Dot(normal)))

	if n := dir.Dot(raw); n < 0 {
		if ray.Direction.Dot(normal) < 0 {
			dir = ray.Direction.Add(raw.Multiply(-2 * ray.Direction.Dot(raw)))
		} else {
			dir = dir.Add(raw.Multiply(-2 * n))
		}
	}

	nray := core.NewRayFrom(core.ReflectionRay, ray, s.isect.IPoint, dir.Normalize())
	e.stats.ReflectedRays++

	// reflections of the background are never transparent
	alpha := ray.Ticket.AlphaBackground
	ray.Ticket.AlphaBackground = false
	colour, _, _, err := e.TraceRay(&nray, weight, false, 0)
	ray.Ticket.AlphaBackground = alpha
	if err != nil {
		return colour, err
	}

	if f != nil && f.Irid > 0 && !ray.Photon {
		colour = e.iridColour(f, nray.Direction, ray.Direction, normal, s.isect.IPoint, colour)
	}
	return colour, nil
}

// computeRefraction traces the ray transmitted through the surface,
// splitting it into spectral bands when the media disperse light. Reports
// total internal reflection.
func (e *Engine) computeRefraction(f *material.Finish, interior *core.Interior, s *surface, ray *core.Ray, normal core.Vec3, weight float64) (core.Colour, float64, bool, error) {
	nray := core.NewRayFrom(core.RefractionRay, ray, s.isect.IPoint, ray.Direction)

	samples := interior.DispersionSamples
	var ior, dispersion float64
	n := len(nray.Interiors)
	switch {
	case n == 0:
		// entering from the atmosphere
		nray.AppendInterior(interior)
		ior = e.scene.AtmosphereIOR / interior.IOR
		dispersion = e.scene.AtmosphereDispersion / interior.Dispersion

	case nray.Interiors[n-1] == interior:
		// leaving the innermost medium
		nray.RemoveInterior(interior)
		if len(nray.Interiors) == 0 {
			ior = interior.IOR / e.scene.AtmosphereIOR
			dispersion = interior.Dispersion / e.scene.AtmosphereDispersion
		} else {
			outer := nray.Interiors[len(nray.Interiors)-1]
			ior = interior.IOR / outer.IOR
			dispersion = interior.Dispersion / outer.Dispersion
			samples = max(samples, outer.DispersionSamples)
		}

	case nray.RemoveInterior(interior):
		// leaving a medium that overlaps the innermost one
		ior, dispersion = 1, 1

	default:
		outer := nray.Interiors[n-1]
		ior = outer.IOR / interior.IOR
		dispersion = outer.Dispersion / interior.Dispersion
		nray.AppendInterior(interior)
	}

	disperses := math.Abs(dispersion-1) >= epsilon && samples > 1
	if math.Abs(ior-1) < epsilon && !disperses {
		e.stats.TransmittedRays++
		colour, transm, _, err := e.TraceRay(&nray, weight, true, 0)
		return colour, transm, false, err
	}

	cos := ray.Direction.Dot(normal)
	local := normal
	if cos <= 0 {
		cos = -cos
	} else {
		local = normal.Negate()
	}

	switch {
	case !disperses:
		return e.traceRefractionRay(f, s, ray, &nray, ior, cos, normal, local, weight)
	case ray.Monochromatic:
		return e.traceRefractionRay(f, s, ray, &nray, ray.Band.DispersionIOR(ior, dispersion), cos, normal, local, weight)
	}

	var colour core.Colour
	var transm float64
	for i := 0; i < samples; i++ {
		band := core.NewSpectralBand(i, samples)
		nray.Band = band
		nray.Monochromatic = true
		c, t, _, err := e.traceRefractionRay(f, s, ray, &nray, band.DispersionIOR(ior, dispersion), cos, normal, local, weight)
		if err != nil {
			return colour, transm, false, err
		}
		colour = colour.Add(c.MultiplyColour(band.Hue()))
		transm += t
	}
	return colour.Divide(float64(samples)), transm / float64(samples), false, nil
}

// traceRefractionRay bends nray by ior per Snell's law, reflecting instead
// when no refracted direction exists
func (e *Engine) traceRefractionRay(f *material.Finish, s *surface, ray, nray *core.Ray, ior, cos float64, normal, local core.Vec3, weight float64) (core.Colour, float64, bool, error) {
	t := 1 + ior*ior*(cos*cos-1)
	if t < 0 {
		e.stats.InternalReflectedRays++
		colour, err := e.computeReflection(f, s, ray, normal, weight)
		return colour, 0, true, err
	}

	t = ior*cos - math.Sqrt(t)
	nray.Direction = ray.Direction.Multiply(ior).Add(local.Multiply(t))
	e.stats.RefractedRays++

	colour, transm, _, err := e.TraceRay(nray, weight, false, 0)
	return colour, transm, false, err
}
