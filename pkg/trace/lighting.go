package trace

import (
	"fmt"
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/lights"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/noise"
	"github.com/df07/go-trace-core/pkg/object"
	"github.com/df07/go-trace-core/pkg/photons"
)

var defaultFinish = material.NewFinish()

// shading is what every light needs to know about the layer it lights
type shading struct {
	finish  *material.Finish
	point   core.Vec3
	normal  core.Vec3
	pigment core.Colour
	// att is the layer opacity, scaling everything the layer emits
	att    float64
	relIOR float64
	obj    object.Object
	eye    *core.Ray
}

// photonGather holds the photons found near one shading point
type photonGather struct {
	done   bool
	radius float64
	found  []photons.Gathered
}

// computeLightedTexture shades a plain texture layer by layer, outermost
// first, then adds the light refracted through and reflected off it
func (e *Engine) computeLightedTexture(tex *material.Texture, warps *warpStack, s *surface, ray *core.Ray, weight float64) (core.Colour, float64, error) {
	obj := s.isect.Object
	props := obj.Props()
	interior := props.Interior
	ticket := ray.Ticket
	bailout := ticket.ADCBailout

	relIOR := e.relativeIOR(ray, interior)

	reflections := e.reflections.Acquire()
	defer e.reflections.ReleaseCleared(reflections)

	var result core.Colour
	var resultTransm float64
	filCol := core.Grey(1)
	trans := 1.0

	radiosityNeeded := e.scene.Radiosity.Enabled && e.radiosity.CheckTraceLevel(ticket) && !props.Has(object.IgnoreRadiosity)
	var ambient, ambientBack core.Colour
	ambientDone, ambientBackDone := false, false

	usePhotons := e.quality.Photons && e.scene.Photons.Enabled && e.scene.Photons.Map.Len() > 0 && !props.Has(object.IgnorePhotons)
	var gather photonGather

	oneColourFound := false
	var topNormal core.Vec3

	for i, layer := range tex.Layers {
		if trans <= bailout {
			break
		}

		layNormal := s.raw
		if e.quality.Normals && layer.Normal != nil {
			layNormal = e.perturbNormal(layer.Normal, warps, s)
		}
		if i == 0 {
			topNormal = layNormal
		}

		newWeight := weight * trans

		layCol, found, err := e.computePigment(layer.Pigment, s)
		if err != nil {
			return result, resultTransm, err
		}
		oneColourFound = oneColourFound || found

		finish := layer.Finish
		if finish == nil {
			finish = defaultFinish
		}

		if e.quality.AmbientOnly {
			result = layCol.Colour
			resultTransm = 0
			break
		}

		cosIncidence := -ray.Direction.Dot(layNormal)
		if finish.ReflectionModel == material.FresnelReflection && interior == nil {
			return result, resultTransm, fmt.Errorf("layer %d: %w", i, core.ErrFresnelWithoutInterior)
		}
		reflec, factor := finish.Reflectivity(cosIncidence, relIOR)
		reflec = material.MetallicTint(reflec, finish.ReflectMetallic, layCol.Colour, cosIncidence)

		var att float64
		if e.scene.LanguageVersion < 370 {
			att = layCol.LegacyOpacity()
		} else {
			att = layCol.Opacity()
		}
		if finish.AlphaKnockout {
			reflec = reflec.Multiply(att)
		}
		reflections.Push(reflection{weight: newWeight * factor, normal: layNormal, reflec: reflec, exp: finish.ReflectExp, finish: finish})

		sh := shading{
			finish:  finish,
			point:   s.isect.IPoint,
			normal:  layNormal,
			pigment: layCol.Colour,
			att:     att,
			relIOR:  relIOR,
			obj:     obj,
			eye:     ray,
		}

		var tmp core.Colour

		if e.scene.Subsurface.Enabled && finish.UseSubsurface && e.quality.Subsurface {
			c, err := e.computeSubsurface(&sh, s.isect)
			if err != nil {
				return result, resultTransm, err
			}
			tmp = tmp.Add(c)
			if e.scene.Subsurface.UseRadiosity {
				radiosityNeeded = false
			}
		}

		if radiosityNeeded {
			diffuse, brilliance := finish.Diffuse, 1.0
			if e.scene.Radiosity.Brilliance {
				diffuse *= finish.BrillianceAdjustRad()
				brilliance = finish.Brilliance
			}
			if !ambientDone {
				maxContribution := filCol.MultiplyColour(layCol.Colour).Greyscale() * att * diffuse
				if maxContribution > bailout {
					ambient = e.radiosity.ComputeAmbient(s.isect.IPoint, s.raw, layNormal, brilliance, weight*maxContribution, ticket)
					ambientDone = true
				}
			}
			rad := layCol.Colour.MultiplyColour(ambient).Multiply(att * diffuse)

			if finish.DiffuseBack != 0 {
				back := finish.DiffuseBack
				if e.scene.Radiosity.Brilliance {
					back *= finish.BrillianceAdjustRad()
				}
				if !ambientBackDone {
					maxContribution := filCol.MultiplyColour(layCol.Colour).Greyscale() * att * back
					if maxContribution > bailout {
						ambientBack = e.radiosity.ComputeAmbient(s.isect.IPoint, s.raw.Negate(), layNormal.Negate(), brilliance, weight*maxContribution, ticket)
						ambientBackDone = true
					}
				}
				rad = rad.Add(layCol.Colour.MultiplyColour(ambientBack).Multiply(att * back))
			}

			if e.scene.Radiosity.Brilliance && finish.BrillianceOut != 1 {
				rad = rad.Multiply(brillianceOut(finish, cosIncidence))
			}
			if finish.Fresnel != 0 {
				rad = rad.Multiply(1 - finish.Fresnel*material.FresnelR(cosIncidence, relIOR))
			}
			tmp = tmp.Add(rad)
		}

		emission := finish.Emission
		if !e.scene.Radiosity.Enabled || e.scene.LanguageVersion < 370 {
			emission = emission.Add(finish.Ambient.MultiplyColour(e.scene.AmbientLight))
		}
		if finish.Fresnel != 0 {
			emission = emission.Multiply(1 - finish.Fresnel*material.FresnelR(cosIncidence, relIOR))
		}
		tmp = tmp.Add(layCol.Colour.MultiplyColour(emission).Multiply(att))

		e.litIgnoresPhotons = props.Has(object.IgnorePhotons)

		if !ray.Pretrace && finish.Lit() && (!finish.AlphaKnockout || att != 0) {
			c, err := e.computeDiffuseLight(&sh)
			if err != nil {
				return result, resultTransm, err
			}
			if finish.BrillianceOut != 1 {
				c = c.Multiply(brillianceOut(finish, cosIncidence))
			}
			tmp = tmp.Add(c)
		}

		if usePhotons {
			tmp = tmp.Add(e.computePhotonDiffuseLight(&sh, s.raw, &gather))
		}

		result = result.Add(tmp.MultiplyColour(filCol))

		if found {
			filCol = filCol.MultiplyColour(layCol.TransmittedColour())
			if finish.ConserveEnergy {
				filCol = filCol.MultiplyColour(core.Grey(1).Subtract(reflec).ClippedUpper(1))
			}
		}
		trans = math.Min(1, math.Abs(filCol.Greyscale()))
	}

	tir := false
	if interior != nil && trans > bailout && e.quality.Refractions {
		w := weight * filCol.WeightMaxAbs()
		rfrCol, rfrTransm, internal, err := e.computeRefraction(tex.Finish(), interior, s, ray, topNormal, w)
		if err != nil {
			return result, resultTransm, err
		}
		tir = internal

		attCol := core.Grey(interior.OldRefract)
		if ray.IsInterior(interior) && math.Abs(interior.FadeDistance) > epsilon {
			attCol = attCol.MultiplyColour(fade(interior, s.isect.Depth))
		}

		switch {
		case tir:
			result = result.Add(attCol.MultiplyColour(rfrCol))
		case oneColourFound:
			result = result.Add(attCol.MultiplyColour(rfrCol).MultiplyColour(filCol))
			resultTransm = attCol.Greyscale() * rfrTransm * trans
		default:
			result = result.Add(attCol.MultiplyColour(rfrCol))
			resultTransm = attCol.Greyscale() * rfrTransm
		}
	}

	if e.quality.Reflections {
		for i := 0; i < reflections.Len(); i++ {
			r := reflections.At(i)
			// the refraction already reflected off the top layer
			if tir && r.normal.Subtract(topNormal).Length() < epsilon {
				continue
			}
			if r.reflec.IsZero() {
				continue
			}
			rfl, err := e.computeReflection(r.finish, s, ray, r.normal, r.weight)
			if err != nil {
				return result, resultTransm, err
			}
			if r.exp != 1 {
				rfl = rfl.Pow(r.exp)
			}
			result = result.Add(r.reflec.MultiplyColour(rfl))
		}
	}

	return result, resultTransm, nil
}

// brillianceOut scales light leaving the surface by the outgoing
// brilliance, normalised so that 1 leaves it unchanged
func brillianceOut(f *material.Finish, cosIncidence float64) float64 {
	return math.Pow(math.Abs(cosIncidence), f.BrillianceOut-1) * (f.BrillianceOut + 7) / 8
}

// computeDiffuseLight sums the direct light from every light reaching the
// layer
func (e *Engine) computeDiffuseLight(sh *shading) (core.Colour, error) {
	var colour core.Colour
	err := e.lightsFor(sh.obj, func(l *lights.Light, index int) error {
		c, err := e.computeOneDiffuseLight(l, index, sh)
		colour = colour.Add(c)
		return err
	})
	return colour, err
}

// computeOneLightRay builds the ray from point towards l and the light
// colour arriving along it before shadowing. Full area lights attenuate
// per sample later unless forceAttenuate is set.
func (e *Engine) computeOneLightRay(l *lights.Light, parent *core.Ray, point core.Vec3, forceAttenuate bool) (core.Ray, float64, core.Colour) {
	dir, depth := l.WhiteRay(point, core.Vec3{})
	ray := core.NewRayFrom(parent.Kind, parent, point, dir)

	att := 1.0
	if forceAttenuate || !(l.Area && l.FullAreaLighting && e.quality.AreaLights) {
		att = l.Attenuate(point, dir, depth)
	}
	return ray, depth, l.Colour.Multiply(att)
}

func (e *Engine) computeOneDiffuseLight(l *lights.Light, index int, sh *shading) (core.Colour, error) {
	lightRay, depth, lightColour := e.computeOneLightRay(l, sh.eye, sh.point, false)
	if lightColour.IsNearZero(epsilon) {
		return core.Colour{}, nil
	}

	backside := false
	if !sh.obj.Props().Has(object.DoubleIlluminate) && !l.FullAreaLighting {
		if sh.normal.Dot(lightRay.Direction) < epsilon {
			if sh.finish.DiffuseBack == 0 {
				return core.Colour{}, nil
			}
			backside = true
		}
	}

	if e.quality.Shadows && l.CastsShadows() {
		var err error
		if cached := e.lightCache(index); cached != nil && cached.tested {
			lightColour = cached.colour
		} else {
			lightColour, err = e.traceShadowRay(l, index, depth, &lightRay, sh.point, lightColour)
			if err != nil {
				return core.Colour{}, err
			}
			if cached := e.lightCache(index); cached != nil {
				cached.tested = true
				cached.colour = lightColour
			}
		}
	}
	if lightColour.IsNearZero(epsilon) {
		return core.Colour{}, nil
	}

	if l.Area && l.FullAreaLighting && e.quality.AreaLights {
		return e.computeFullAreaDiffuseLight(l, lightColour, sh), nil
	}
	return e.shadeLight(l, lightRay.Direction, lightColour, backside, sh), nil
}

// shadeLight returns the diffuse and highlight response of a layer to
// light arriving from dir
func (e *Engine) shadeLight(l *lights.Light, dir core.Vec3, lightColour core.Colour, backside bool, sh *shading) core.Colour {
	f := sh.finish
	var tmp core.Colour
	if !(e.scene.Subsurface.Enabled && f.UseSubsurface) {
		tmp = e.diffuseColour(f, dir, sh.eye.Direction, sh.normal, lightColour, sh.pigment, sh.relIOR, sh.att, backside)
	}

	tempLight := lightColour
	if f.AlphaKnockout {
		tempLight = tempLight.Multiply(sh.att)
	}
	if l.Type != lights.Fill && !sh.eye.Radiosity && !backside {
		if f.Phong > 0 {
			tmp = tmp.Add(phongColour(f, dir, sh.eye.Direction, sh.normal, tempLight, sh.pigment, sh.relIOR))
		}
		if f.Specular > 0 {
			tmp = tmp.Add(specularColour(f, dir, sh.eye.Direction.Negate(), sh.normal, tempLight, sh.pigment, sh.relIOR))
		}
	}

	if f.Irid > 0 {
		tmp = e.iridColour(f, dir, sh.eye.Direction, sh.normal, sh.point, tmp)
	}
	return tmp
}

// computeFullAreaDiffuseLight shades every sample of an area light on its
// own instead of treating the light as one averaged source
func (e *Engine) computeFullAreaDiffuseLight(l *lights.Light, lightColour core.Colour, sh *shading) core.Colour {
	axis1, axis2 := l.Axis1, l.Axis2
	if l.Orient {
		dir, _ := l.WhiteRay(sh.point, core.Vec3{})
		axis1, axis2 = l.OrientedAxes(dir)
	}

	sample := lightColour.Divide(float64(l.AreaSize1 * l.AreaSize2))
	var colour core.Colour
	for v := 0; v < l.AreaSize2; v++ {
		for u := 0; u < l.AreaSize1; u++ {
			ju, jv := float64(u), float64(v)
			if l.Jitter {
				ju += e.jitter.Next()
				jv += e.jitter.Next()
			}
			dir, depth := l.WhiteRay(sh.point, l.GridOffset(ju, jv, axis1, axis2))
			c := sample.Multiply(l.Attenuate(sh.point, dir, depth))

			backside := false
			if !sh.obj.Props().Has(object.DoubleIlluminate) && sh.normal.Dot(dir) < epsilon {
				if sh.finish.DiffuseBack == 0 {
					continue
				}
				backside = true
			}
			colour = colour.Add(e.shadeLight(l, dir, c, backside, sh))
		}
	}
	return colour
}

// computePhotonDiffuseLight shades the layer with the photons stored
// around the point as if each were a tiny light
func (e *Engine) computePhotonDiffuseLight(sh *shading, raw core.Vec3, g *photonGather) core.Colour {
	if !sh.finish.Lit() {
		return core.Colour{}
	}
	m := e.scene.Photons.Map
	if !g.done {
		e.stats.GathersPerformed++
		g.found, g.radius = m.Gather(sh.point, e.scene.Photons.Radius, e.scene.Photons.Count, nil)
		g.done = true
	}
	if len(g.found) == 0 {
		return core.Colour{}
	}

	var colour core.Colour
	for _, p := range g.found {
		dir := m.Direction(p.Photon)
		lightColour := p.Photon.Colour.Colour()

		// photons arriving at grazing angles spread over a larger area
		cos := raw.Dot(dir)
		cos = math.Max(0.1, math.Min(1, math.Abs(cos)))
		lightColour = lightColour.Multiply(1 / cos)

		backside := false
		if sh.normal.Dot(dir) < epsilon {
			if sh.finish.DiffuseBack == 0 {
				continue
			}
			backside = true
		}

		f := sh.finish
		var tmp core.Colour
		if !(e.scene.Subsurface.Enabled && f.UseSubsurface) {
			tmp = e.diffuseColour(f, dir, sh.eye.Direction, sh.normal, lightColour, sh.pigment, sh.relIOR, sh.att, backside)
		}
		if !sh.eye.Radiosity && !backside {
			if f.Phong > 0 {
				tmp = tmp.Add(phongColour(f, dir, sh.eye.Direction, sh.normal, lightColour, sh.pigment, sh.relIOR))
			}
			if f.Specular > 0 {
				tmp = tmp.Add(specularColour(f, dir, sh.eye.Direction.Negate(), sh.normal, lightColour, sh.pigment, sh.relIOR))
			}
		}
		if f.Irid > 0 {
			tmp = e.iridColour(f, dir, sh.eye.Direction, sh.normal, sh.point, tmp)
		}
		colour = colour.Add(tmp)
	}
	return colour.Divide(math.Pi * g.radius * g.radius)
}

// diffuseColour is Lambertian light sharpened by brilliance
func (e *Engine) diffuseColour(f *material.Finish, lightDir, eyeDir, normal core.Vec3, light, pigment core.Colour, relIOR, att float64, backside bool) core.Colour {
	d := f.Diffuse
	if backside {
		d = f.DiffuseBack
	}
	d *= f.BrillianceAdjust()
	if d <= 0 {
		return core.Colour{}
	}

	cos := normal.Dot(lightDir)
	intensity := math.Abs(cos)
	if f.Brilliance != 1 {
		intensity = math.Pow(intensity, f.Brilliance)
	}
	intensity *= d * att
	if f.Crand > 0 {
		intensity -= e.crand.Next() * f.Crand
	}

	c := pigment.MultiplyColour(light).Multiply(intensity)
	if f.Fresnel != 0 {
		f1 := f.Fresnel * material.FresnelR(cos, relIOR)
		f2 := f.Fresnel * material.FresnelR(-normal.Dot(eyeDir), relIOR)
		c = c.Multiply((1 - f1) * (1 - f2))
	}
	return c
}

// phongColour is the highlight around the mirror direction of the eye
func phongColour(f *material.Finish, lightDir, eyeDir, normal core.Vec3, light, pigment core.Colour, relIOR float64) core.Colour {
	reflectDir := eyeDir.Add(normal.Multiply(-2 * eyeDir.Dot(normal)))
	cos := reflectDir.Dot(lightDir)
	if cos <= 0 || (f.PhongSize >= 60 && cos <= 0.0008) {
		return core.Colour{}
	}

	intensity := f.Phong * math.Pow(cos, f.PhongSize)
	cs := core.Grey(1)
	if f.Fresnel != 0 || f.Metallic != 0 {
		ndotl := normal.Dot(lightDir)
		if f.Fresnel != 0 {
			cs = cs.Multiply(f.Fresnel * material.FresnelR(ndotl, relIOR))
		}
		cs = material.MetallicTint(cs, f.Metallic, pigment, ndotl)
	}
	return light.MultiplyColour(cs).Multiply(intensity)
}

// specularColour is the Blinn highlight around the halfway vector. eyeDir
// points from the surface towards the eye.
func specularColour(f *material.Finish, lightDir, eyeDir, normal core.Vec3, light, pigment core.Colour, relIOR float64) core.Colour {
	halfway := eyeDir.Add(lightDir).Multiply(0.5)
	length := halfway.Length()
	if length == 0 {
		return core.Colour{}
	}
	cos := halfway.Dot(normal) / length
	if cos <= 0 {
		return core.Colour{}
	}

	intensity := f.Specular * math.Pow(cos, f.SpecularExponent())
	cs := core.Grey(1)
	if f.Fresnel != 0 || f.Metallic != 0 {
		cosHL := halfway.Dot(lightDir) / length
		if f.Fresnel != 0 {
			cs = cs.Multiply(f.Fresnel * material.FresnelR(cosHL, relIOR))
		}
		cs = material.MetallicTint(cs, f.Metallic, pigment, cosHL)
	}
	return light.MultiplyColour(cs).Multiply(intensity)
}

var iridTurbulence = noise.Turbulence{Octaves: 5, Omega: 0.5, Lambda: 2}

// iridColour tints colour by thin film interference
func (e *Engine) iridColour(f *material.Finish, lightDir, eyeDir, normal, point core.Vec3, colour core.Colour) core.Colour {
	thickness := f.IridFilmThickness
	if f.IridTurb != 0 {
		t := noise.TurbulenceValue(point, &iridTurbulence, e.scene.NoiseGenerator)
		thickness *= 1 + (2*t-1)*f.IridTurb
	}

	interference := 2 * math.Pi * thickness * (math.Abs(normal.Dot(lightDir)) + math.Abs(normal.Dot(eyeDir)))
	w := e.scene.IridWavelengths
	tint := core.NewColour(
		1+f.Irid*math.Cos(interference/w.R),
		1+f.Irid*math.Cos(interference/w.G),
		1+f.Irid*math.Cos(interference/w.B),
	)
	return colour.MultiplyColour(tint)
}
