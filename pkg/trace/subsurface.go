package trace

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/intersect"
	"github.com/df07/go-trace-core/pkg/lights"
	"github.com/df07/go-trace-core/pkg/object"
)

// scattering holds the per channel coefficients of a translucent layer,
// in inverse millimetres
type scattering struct {
	sigmaPrimeS core.Colour // reduced scattering
	sigmaPrimeT core.Colour // reduced extinction
	sigmaA      core.Colour // absorption
	eta         float64
	sub         *core.SubsurfaceInterior
}

// computeSubsurface returns the light scattered below the surface at out
// and leaving towards the eye: multiple scattering by the dipole
// approximation, single scattering along the refracted eye ray, and light
// passing straight through thin parts of the object
func (e *Engine) computeSubsurface(sh *shading, out *object.Intersection) (core.Colour, error) {
	ticket := sh.eye.Ticket
	settings := e.scene.Subsurface
	samplesDiffuse, samplesSingle := settings.SamplesDiffuse, settings.SamplesSingle

	// nested subsurface rays get one sample of each kind; deeper ones none
	switch {
	case ticket.SubsurfaceRecursionDepth >= 2:
		return core.Colour{}, nil
	case ticket.SubsurfaceRecursionDepth == 1:
		samplesDiffuse, samplesSingle = 1, 1
	}
	ticket.SubsurfaceRecursionDepth++
	defer func() { ticket.SubsurfaceRecursionDepth-- }()

	interior := out.Object.Props().Interior
	if interior == nil {
		return core.Colour{}, nil
	}

	eta := sh.relIOR
	sc := scattering{eta: eta, sub: e.subsurfaceFor(interior, eta)}
	alphaPrime := sc.sub.ReducedAlbedo(sh.pigment.Multiply(sh.finish.Diffuse))
	for ch := 0; ch < 3; ch++ {
		s := 1 / sh.finish.SubsurfaceTranslucency.Get(ch)
		a := alphaPrime.Get(ch)
		t := s
		if a > 0 {
			t = s / a
		}
		sc.sigmaPrimeS = sc.sigmaPrimeS.Set(ch, s)
		sc.sigmaPrimeT = sc.sigmaPrimeT.Set(ch, t)
		sc.sigmaA = sc.sigmaA.Set(ch, t-s)
	}

	mm := settings.MMPerUnit
	vOut := sh.eye.Direction.Negate()
	radiosityNeeded := e.scene.Radiosity.Enabled && settings.UseRadiosity &&
		e.radiosity.CheckTraceLevel(ticket) && !sh.obj.Props().Has(object.IgnoreRadiosity)

	var total core.Colour

	// multiple scattering
	avgFreeDist := 1 / (sc.sigmaPrimeT.Weight() * mm)
	base := e.diffuseSampleBase(out, vOut, avgFreeDist, ticket)
	var diffuse core.Colour
	count := 0
	for i := 0; i < samplesDiffuse; i++ {
		in, area := e.diffuseSamplePoint(base, ticket)
		if area == 0 {
			continue
		}
		count++
		e.stats.SubsurfaceSamples++
		if !sameMedium(in.Object, out.Object) {
			continue
		}
		if radiosityNeeded {
			ambient := e.radiosity.ComputeAmbient(in.IPoint, in.INormal, in.INormal, 1, area, ticket)
			diffuse = diffuse.Add(e.dipole(&sc, out, vOut, &in, 1, ambient, area))
		}
		err := e.lightsFor(out.Object, func(l *lights.Light, index int) error {
			c, err := e.diffuseContribution(l, index, &sc, out, vOut, &in, area, ticket)
			diffuse = diffuse.Add(c)
			return err
		})
		if err != nil {
			return total, err
		}
	}
	if count > 0 {
		total = diffuse.Divide(float64(count))
	}

	refracted, ok := refractedDirection(sh.eye.Direction, out.INormal, 1/eta)
	if !ok {
		return total, nil
	}

	rray := core.NewRay(out.IPoint, refracted, ticket)
	rray.Kind = core.SubsurfaceRay
	unscattered := object.Intersection{Depth: intersect.BoundHuge}
	found := e.finder.Find(&rray, &unscattered, nil, nil)
	dist := intersect.BoundHuge
	if found {
		dist = unscattered.IPoint.Subtract(out.IPoint).Length() * mm
	}

	// single scattering
	cosOut := vOut.Dot(out.INormal)
	cosOutPrime := math.Sqrt(math.Max(0, 1-(1/(eta*eta))*(1-cosOut*cosOut)))
	phiOut := math.Acos(math.Max(-1, math.Min(1, cosOut)))
	for i := 0; i < samplesSingle; i++ {
		e.stats.SingleScatterSamples++
		for ch := 0; ch < 3; ch++ {
			c, err := e.singleScattering(&sc, out, ch, dist, phiOut, cosOutPrime, refracted, ticket)
			if err != nil {
				return total, err
			}
			total = total.Set(ch, total.Get(ch)+c/float64(samplesSingle))
		}
	}

	// light passing through without scattering
	att := core.NewColour(
		math.Exp(-sc.sigmaPrimeT.R*dist),
		math.Exp(-sc.sigmaPrimeT.G*dist),
		math.Exp(-sc.sigmaPrimeT.B*dist),
	)
	weight := att.WeightMax()
	if weight > ticket.ADCBailout && found && sameMedium(unscattered.Object, out.Object) {
		n := unscattered.Object.Normal(unscattered.IPoint, &unscattered)
		if refracted.Dot(n) > 0 {
			n = n.Negate()
		}
		if through, ok := refractedDirection(refracted, n, eta); ok {
			tray := core.NewRayFrom(core.RefractionRay, &rray, unscattered.IPoint, through)
			c, _, _, err := e.TraceRay(&tray, weight, false, 0)
			if err != nil {
				return total, err
			}
			total = total.Add(c.MultiplyColour(att))
		}
	}
	return total, nil
}

// sameMedium reports whether two hits belong to the same translucent body
func sameMedium(a, b object.Object) bool {
	return a != nil && b != nil && a.Props().Interior == b.Props().Interior
}

// refractedDirection bends dir through a surface with normal n, pointing
// against dir, by the relative index eta
func refractedDirection(dir, n core.Vec3, eta float64) (core.Vec3, bool) {
	cos := -dir.Dot(n)
	k := 1 - eta*eta*(1-cos*cos)
	if k < 0 {
		return core.Vec3{}, false
	}
	return dir.Multiply(eta).Add(n.Multiply(eta*cos - math.Sqrt(k))).Normalize(), true
}

// diffuseSampleBase picks the point inside the object that diffuse sample
// rays start from: one mean free path in, or halfway through thin parts
func (e *Engine) diffuseSampleBase(out *object.Intersection, vOut core.Vec3, avgFreeDist float64, ticket *core.TraceTicket) core.Vec3 {
	n := out.INormal
	if n.Dot(vOut) > 0 {
		n = n.Negate()
	}

	ray := core.NewRay(out.IPoint, n, ticket)
	ray.Kind = core.SubsurfaceRay
	back := object.Intersection{Depth: avgFreeDist * 2}
	if !e.finder.Find(&ray, &back, nil, nil) {
		return out.IPoint.Add(n.Multiply(avgFreeDist))
	}
	if sameMedium(back.Object, out.Object) {
		return out.IPoint.Add(n.Multiply(back.Depth / 2))
	}
	return out.IPoint.Add(n.Multiply(math.Min(avgFreeDist, back.Depth-epsilon)))
}

// diffuseSamplePoint shoots a ray from base in the next sample direction
// and returns where it leaves the object with the surface area the sample
// stands for. Zero area means the ray escaped.
func (e *Engine) diffuseSamplePoint(base core.Vec3, ticket *core.TraceTicket) (object.Intersection, float64) {
	depth := min(ticket.SubsurfaceRecursionDepth-1, len(e.ssltDirs)-1)
	dir := e.ssltDirs[depth].Next()

	ray := core.NewRay(base, dir, ticket)
	ray.Kind = core.SubsurfaceRay
	in := object.Intersection{Depth: intersect.BoundHuge}
	if !e.finder.Find(&ray, &in, nil, nil) {
		return in, 0
	}
	in.INormal = in.Object.Normal(in.IPoint, &in)
	in.PNormal = in.INormal

	delta := in.IPoint.Subtract(base)
	dist := delta.Length()
	cosPhi := math.Max(0.01, math.Abs(delta.Multiply(1/dist).Dot(in.INormal)))
	r := dist * e.scene.Subsurface.MMPerUnit
	return in, 4 * math.Pi * r * r / cosPhi
}

// diffuseContribution is the light from l entering at in and leaving at
// out after multiple scattering
func (e *Engine) diffuseContribution(l *lights.Light, index int, sc *scattering, out *object.Intersection, vOut core.Vec3,
	in *object.Intersection, weight float64, ticket *core.TraceTicket) (core.Colour, error) {
	parent := core.NewRay(in.IPoint, core.Vec3{}, ticket)
	lightRay, depth, lightColour := e.computeOneLightRay(l, &parent, in.IPoint, true)
	if lightColour.IsNearZero(epsilon) {
		return core.Colour{}, nil
	}

	cosIn := math.Abs(in.INormal.Dot(lightRay.Direction))

	if e.quality.Shadows && l.CastsShadows() {
		var err error
		lightColour, err = e.traceShadowRay(l, index, depth, &lightRay, in.IPoint, lightColour)
		if err != nil || lightColour.IsNearZero(epsilon) {
			return core.Colour{}, err
		}
	}

	return e.dipole(sc, out, vOut, in, cosIn, lightColour.Multiply(cosIn), weight), nil
}

// dipole weights light arriving at in, cosIn off the normal, by the
// diffuse reflectance of the dipole model towards the exit point out
func (e *Engine) dipole(sc *scattering, out *object.Intersection, vOut core.Vec3, in *object.Intersection, cosIn float64, light core.Colour, weight float64) core.Colour {
	mm := e.scene.Subsurface.MMPerUnit
	r := in.IPoint.Subtract(out.IPoint).Length() * mm
	r2 := r * r

	cosOut := math.Abs(vOut.Dot(out.INormal))
	ftOut := fresnelTransmittance(math.Acos(math.Min(1, cosOut)), sc.eta)
	ftIn := fresnelTransmittance(math.Acos(math.Min(1, cosIn)), sc.eta)

	var result core.Colour
	for ch := 0; ch < 3; ch++ {
		sigmaPrimeS := sc.sigmaPrimeS.Get(ch)
		sigmaA := sc.sigmaA.Get(ch)
		sigmaPrimeT := sigmaPrimeS + sigmaA
		if sigmaPrimeT <= 0 {
			continue
		}
		alphaPrime := sigmaPrimeS / sigmaPrimeT
		sigmaTr := math.Sqrt(3 * sigmaA * sigmaPrimeT)

		zr := 1 / sigmaPrimeT
		zv := zr * (1 + 4.0/3.0*sc.sub.A)
		dr := math.Sqrt(r2 + zr*zr)
		dv := math.Sqrt(r2 + zv*zv)

		rd := alphaPrime / (4 * math.Pi) *
			(zr*(sigmaTr*dr+1)*math.Exp(-sigmaTr*dr)/(dr*dr*dr) +
				zv*(sigmaTr*dv+1)*math.Exp(-sigmaTr*dv)/(dv*dv*dv))

		sd := ftIn * ftOut * rd / math.Pi * weight
		result = result.Set(ch, light.Get(ch)*sd)
	}
	return result
}

// singleScattering samples one scattering event along the refracted eye
// ray for channel ch and gathers the light reaching it from every light
func (e *Engine) singleScattering(sc *scattering, out *object.Intersection, ch int, dist, phiOut, cosOutPrime float64,
	refracted core.Vec3, ticket *core.TraceTicket) (float64, error) {
	sigmaT := sc.sigmaPrimeT.Get(ch)
	if sigmaT <= 0 {
		return 0, nil
	}
	depth := min(ticket.SubsurfaceRecursionDepth-1, len(e.ssltNumbers)-1)
	u := e.ssltNumbers[depth].Next()
	sPrimeOut := math.Abs(math.Log(1-u)) / sigmaT
	if sPrimeOut >= dist {
		return 0, nil
	}

	mm := e.scene.Subsurface.MMPerUnit
	bend := out.IPoint.Add(refracted.Multiply(sPrimeOut / mm))

	var total float64
	err := e.lightsFor(out.Object, func(l *lights.Light, index int) error {
		c, err := e.singleScatteringLight(l, index, sc, out, ch, sPrimeOut, phiOut, cosOutPrime, bend, ticket)
		total += c
		return err
	})
	return total, err
}

func (e *Engine) singleScatteringLight(l *lights.Light, index int, sc *scattering, out *object.Intersection, ch int,
	sPrimeOut, phiOut, cosOutPrime float64, bend core.Vec3, ticket *core.TraceTicket) (float64, error) {
	dir, _ := l.WhiteRay(bend, core.Vec3{})
	probe := core.NewRay(bend, dir, ticket)
	probe.Kind = core.SubsurfaceRay

	xi := object.Intersection{Depth: intersect.BoundHuge}
	if !e.finder.Find(&probe, &xi, nil, nil) || !sameMedium(xi.Object, out.Object) {
		return 0, nil
	}
	xi.INormal = xi.Object.Normal(xi.IPoint, &xi)

	lightRay, depth, lightColour := e.computeOneLightRay(l, &probe, xi.IPoint, true)
	if lightColour.IsNearZero(epsilon) {
		return 0, nil
	}
	cosIn := xi.INormal.Dot(lightRay.Direction)
	if cosIn < 0 {
		cosIn = -cosIn
	}
	if cosIn < epsilon {
		return 0, nil
	}

	if e.quality.Shadows && l.CastsShadows() {
		var err error
		lightColour, err = e.traceShadowRay(l, index, depth, &lightRay, xi.IPoint, lightColour)
		if err != nil || lightColour.IsNearZero(epsilon) {
			return 0, err
		}
	}

	cosInPrime := math.Sqrt(math.Max(0, 1-(1/(sc.eta*sc.eta))*(1-cosIn*cosIn)))
	if cosInPrime < epsilon {
		return 0, nil
	}
	light := lightColour.Get(ch) * cosIn

	mm := e.scene.Subsurface.MMPerUnit
	si := bend.Subtract(xi.IPoint).Length() * mm
	sPrimeI := si * cosIn / cosInPrime

	sigmaT := sc.sigmaPrimeT.Get(ch)
	sigmaS := sc.sigmaPrimeS.Get(ch)
	f := fresnelTransmittance(math.Acos(math.Min(1, cosIn)), sc.eta) * fresnelTransmittance(phiOut, sc.eta)
	g := math.Abs(cosOutPrime / cosInPrime)
	sigmaTc := sigmaT + g*sigmaT
	const phase = 0.25

	factor := sigmaS * f * phase / sigmaTc * math.Exp(-sPrimeI*sigmaT) * math.Exp(-sPrimeOut*sigmaT)
	return math.Min(light*factor, math.MaxFloat64), nil
}

// fresnelTransmittance is the fraction of unpolarised light transmitted at
// incidence angle phi across a boundary of relative index eta
func fresnelTransmittance(phi, eta float64) float64 {
	cos := math.Cos(phi)
	g2 := eta*eta + cos*cos - 1
	if g2 <= 0 {
		return 0
	}
	g := math.Sqrt(g2)
	a := (g - cos) / (g + cos)
	b := (cos*(g+cos) - 1) / (cos*(g-cos) + 1)
	f := 0.5 * a * a * (1 + b*b)
	return 1 - math.Max(0, math.Min(1, f))
}
