package pattern

import (
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/noise"
)

// pyramid is the tetrahedral sampling pattern for slope gradients
var pyramid = [4]core.Vec3{
	{X: 0.942809041, Y: -0.333333333, Z: 0.0},
	{X: -0.471404521, Y: -0.333333333, Z: 0.816496581},
	{X: -0.471404521, Y: -0.333333333, Z: -0.816496581},
	{X: 0.0, Y: 1.0, Z: 0.0},
}

// bumper is implemented by kinds with their own normal perturbation
type bumper interface {
	perturb(normal, p core.Vec3, amount float64, e *Eval) core.Vec3
}

// Normal perturbs surface normals with a pattern
type Normal struct {
	Pattern *Pattern
	Amount  float64
	// Delta is the sampling distance for slope gradients
	Delta          float64
	DontScaleBumps bool

	// Map blends nested normals by pattern value; for Average patterns the
	// keys are weights
	Map *BlendMap[*Normal]
	// Slope reshapes scalar pattern values before the gradient is taken
	Slope *BlendMap[core.Vec2]
	// UVMapped evaluates the first map entry at the surface UV coordinates
	UVMapped bool
}

// NewNormal creates a normal with the default amount and delta
func NewNormal(p *Pattern) *Normal {
	return &Normal{Pattern: p, Amount: 0.5, Delta: 0.02}
}

// Clone deep-copies the pattern and every nested normal
func (n *Normal) Clone() *Normal {
	if n == nil {
		return nil
	}
	c := *n
	c.Pattern = n.Pattern.Clone()
	c.Slope = n.Slope.Clone()
	if n.Map != nil {
		c.Map = n.Map.Clone()
		for i := range c.Map.Entries {
			c.Map.Entries[i].Value = c.Map.Entries[i].Value.Clone()
		}
	}
	return &c
}

// Perturb returns the layer normal perturbed at the world point. When hit
// is not nil its Normal is updated, since nested slope patterns read it.
func (n *Normal) Perturb(normal, point core.Vec3, ctx *Context, hit *Hit) core.Vec3 {
	if n == nil {
		return normal
	}

	pat := n.Pattern
	_, average := pat.Kind.(*Average)

	if n.Map != nil && !average {
		if n.UVMapped && hit != nil {
			tp := core.NewVec3(hit.UV.U, hit.UV.V, 0)
			normal = n.Map.Entries[0].Value.Perturb(normal, tp, ctx, hit).Normalize()
		} else {
			normal = n.perturbMapped(normal, point, ctx, hit)
		}
		if hit != nil {
			hit.Normal = normal
		}
		return normal
	}

	normal = pat.Warps.Normal(normal, n.DontScaleBumps)
	tp := pat.WarpPoint(point)

	if b, ok := pat.Kind.(bumper); ok {
		e := Eval{Ctx: ctx, Pattern: pat, Hit: hit, Generator: ctx.resolve(pat.Generator)}
		normal = b.perturb(normal, tp, n.Amount, &e)
	} else if average {
		normal = n.average(normal, tp, ctx, hit)
	} else {
		normal = n.slopeGradient(normal, tp, ctx, hit)
	}

	normal = pat.Warps.UnwarpNormal(normal, n.DontScaleBumps)
	if hit != nil {
		hit.Normal = normal
	}
	return normal
}

func (n *Normal) perturbMapped(normal, point core.Vec3, ctx *Context, hit *Hit) core.Vec3 {
	pat := n.Pattern
	tp := pat.WarpPoint(point)
	value := pat.Evaluate(tp, ctx, hit)
	prev, cur, prevWeight, curWeight := n.Map.Search(value)

	normal = pat.Warps.Normal(normal, n.DontScaleBumps)
	p1 := normal
	normal = cur.Value.Perturb(normal, tp, ctx, hit)
	if prev != cur {
		p1 = prev.Value.Perturb(p1, tp, ctx, hit)
		normal = p1.Multiply(prevWeight).Add(normal.Multiply(curWeight))
	}
	return pat.Warps.UnwarpNormal(normal, n.DontScaleBumps).Normalize()
}

// average weights the nested normals by their map keys
func (n *Normal) average(normal, p core.Vec3, ctx *Context, hit *Hit) core.Vec3 {
	if n.Map == nil {
		return normal
	}
	var sum core.Vec3
	total := 0.0
	for _, entry := range n.Map.Entries {
		sum = sum.Add(entry.Value.Perturb(normal, p, ctx, hit).Multiply(entry.Key))
		total += entry.Key
	}
	if total == 0 {
		return normal
	}
	return sum.Multiply(1.0 / total)
}

// slopeGradient estimates the gradient of a scalar pattern from four taps
func (n *Normal) slopeGradient(normal, p core.Vec3, ctx *Context, hit *Hit) core.Vec3 {
	amount := n.Amount * -5.0
	amount *= 0.02 / n.Delta
	for _, v := range pyramid {
		value := slopeMap(n.Pattern.Evaluate(p.Add(v.Multiply(n.Delta)), ctx, hit), n.Slope)
		normal = normal.Add(v.Multiply(value * amount))
	}
	return normal
}

func slopeMap(value float64, m *BlendMap[core.Vec2]) float64 {
	if m == nil {
		return value
	}
	prev, cur, _, curWeight := m.Search(value)
	if prev == cur {
		return cur.Value.U
	}
	return hermiteCubic(curWeight, prev.Value, cur.Value)
}

// hermiteCubic interpolates between (value, slope) control points
func hermiteCubic(t float64, a, b core.Vec2) float64 {
	tt := t * t
	ttt := tt * t
	rv := ttt * (a.V + b.V + 2.0*(a.U-b.U))
	rv += -tt * (2.0*a.V + b.V + 3.0*(a.U-b.U))
	rv += t*a.V + a.U
	return rv
}

func (k *Bumps) perturb(normal, p core.Vec3, amount float64, e *Eval) core.Vec3 {
	return normal.Add(noise.DNoise(p).Multiply(amount))
}

func (k *Dents) perturb(normal, p core.Vec3, amount float64, e *Eval) core.Vec3 {
	n := noise.Noise(p, e.Generator)
	n = n * n * n * amount
	return normal.Add(noise.DNoise(p).Multiply(n))
}

func (k *Wrinkles) perturb(normal, p core.Vec3, amount float64, e *Eval) core.Vec3 {
	var result core.Vec3
	scale := 1.0
	for i := 0; i < 10; i++ {
		v := noise.DNoise(p.Multiply(scale))
		result = result.Add(v.Multiply(1.0 / scale).Abs())
		scale *= 2.0
	}
	return normal.Add(result.Multiply(amount))
}

func (k *Quilted) perturb(normal, p core.Vec3, amount float64, e *Eval) core.Vec3 {
	v := quiltOffset(p)
	v = v.Multiply(quiltCubic(v.Length(), k.Control0, k.Control1))
	return normal.Add(v.Multiply(amount))
}

func (k *Ripples) perturb(normal, p core.Vec3, amount float64, e *Eval) core.Vec3 {
	sources := e.Ctx.WaveSources
	count := float64(len(sources))
	w := e.Pattern.Wave
	for _, src := range sources {
		d := p.Subtract(src)
		length := d.Length()
		if length == 0.0 {
			length = 1.0
		}
		scalar := cycloidal(length*w.Frequency+w.Phase) * amount
		normal = normal.Add(d.Multiply(scalar / (length * count)))
	}
	return normal
}

func (k *Waves) perturb(normal, p core.Vec3, amount float64, e *Eval) core.Vec3 {
	sources := e.Ctx.WaveSources
	count := float64(len(sources))
	w := e.Pattern.Wave
	for i, src := range sources {
		d := p.Subtract(src)
		length := d.Length()
		if length == 0.0 {
			length = 1.0
		}
		f := e.Ctx.WaveFrequencies[i]
		scalar := cycloidal(length*w.Frequency*f+w.Phase) * amount / f
		normal = normal.Add(d.Multiply(scalar / (length * count)))
	}
	return normal
}
