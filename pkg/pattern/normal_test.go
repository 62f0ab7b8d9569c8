package pattern

import (
	"math"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/noise"
	"github.com/df07/go-trace-core/pkg/warp"
)

func vecClose(a, b core.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func bumpsNormal(amount float64) *Normal {
	p, _ := New("bumps")
	n := NewNormal(p)
	n.Amount = amount
	return n
}

func TestNilNormalLeavesNormalAlone(t *testing.T) {
	var n *Normal
	in := core.NewVec3(0, 3, 0)
	if got := n.Perturb(in, core.Vec3{}, nil, nil); got != in {
		t.Errorf("got %v", got)
	}
}

func TestBumpsPerturbation(t *testing.T) {
	ctx := NewContext(noise.Original)
	normal := core.NewVec3(0, 0, 1)
	point := core.NewVec3(0.3, 1.2, -0.7)

	got := bumpsNormal(0.8).Perturb(normal, point, ctx, nil)
	want := normal.Add(noise.DNoise(point).Multiply(0.8)).Normalize()
	if !vecClose(got, want, tolerance) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := bumpsNormal(0).Perturb(normal, point, ctx, nil); !vecClose(got, normal, tolerance) {
		t.Errorf("zero amount should not move the normal, got %v", got)
	}
}

func TestDentsPerturbation(t *testing.T) {
	ctx := NewContext(noise.Original)
	p, _ := New("dents")
	n := NewNormal(p)
	normal := core.NewVec3(0, 1, 0)
	point := core.NewVec3(2.3, 0.2, 0.9)

	d := noise.Noise(point, noise.Original)
	want := normal.Add(noise.DNoise(point).Multiply(d * d * d * n.Amount)).Normalize()
	if got := n.Perturb(normal, point, ctx, nil); !vecClose(got, want, tolerance) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDontScaleBumpsSkipsNormalisation(t *testing.T) {
	ctx := NewContext(noise.Original)
	n := bumpsNormal(0)
	n.DontScaleBumps = true
	in := core.NewVec3(0, 0, 3)
	if got := n.Perturb(in, core.Vec3{}, ctx, nil); got != in {
		t.Errorf("got %v, want %v unchanged", got, in)
	}
}

func TestWarpedNormalRoundTrip(t *testing.T) {
	ctx := NewContext(noise.Original)
	n := bumpsNormal(0)
	n.Pattern.AddWarp(warp.NewScale(core.NewVec3(3, 0.5, 1)))
	n.Pattern.AddWarp(warp.NewRotate(core.NewVec3(30, 10, 45)))
	in := core.NewVec3(1, 2, 2).Normalize()
	if got := n.Perturb(in, core.NewVec3(1, 1, 1), ctx, nil); !vecClose(got, in, 1e-9) {
		t.Errorf("a zero perturbation through warps should round trip: %v vs %v", got, in)
	}
}

func TestSlopeGradient(t *testing.T) {
	ctx := NewContext(noise.Original)
	n := NewNormal(NewPattern(&Gradient{Vector: core.NewVec3(0, 1, 0)}))
	normal := core.NewVec3(0, 0, 1)

	// Gradient along Y: only the Y taps differ, by Delta*pyramid.Y
	got := n.Perturb(normal, core.NewVec3(0, 0.5, 0), ctx, nil)
	amount := n.Amount * -5.0 * 0.02 / n.Delta
	want := core.NewVec3(0, 4.0/3.0*n.Delta*amount, 1).Normalize()
	if !vecClose(got, want, 1e-6) {
		t.Errorf("got %v, want %v", got, want)
	}

	flat := NewNormal(NewPattern(&constKind{0.4}))
	if got := flat.Perturb(normal, core.Vec3{}, ctx, nil); !vecClose(got, normal, 1e-6) {
		t.Errorf("a constant pattern has no gradient, got %v", got)
	}
}

func TestSlopeMapHermite(t *testing.T) {
	m := NewBlendMap(
		BlendEntry[core.Vec2]{Key: 0, Value: core.Vec2{U: 0.2, V: 1}},
		BlendEntry[core.Vec2]{Key: 1, Value: core.Vec2{U: 0.8, V: -1}},
	)
	if got := slopeMap(0, m); got != 0.2 {
		t.Errorf("start got %v", got)
	}
	if got := slopeMap(1, m); got != 0.8 {
		t.Errorf("end got %v", got)
	}
	if got := hermiteCubic(1, m.Entries[0].Value, m.Entries[1].Value); math.Abs(got-0.8) > tolerance {
		t.Errorf("hermite end got %v", got)
	}
	if got := slopeMap(0.7, nil); got != 0.7 {
		t.Error("no map should pass the value through")
	}
}

func TestAverageNormals(t *testing.T) {
	ctx := NewContext(noise.Original)
	flat := bumpsNormal(0)
	bumpy := bumpsNormal(1)
	avg := NewNormal(NewPattern(&Average{}))
	avg.Map = NewBlendMap(
		BlendEntry[*Normal]{Key: 1, Value: flat},
		BlendEntry[*Normal]{Key: 3, Value: bumpy},
	)

	normal := core.NewVec3(0, 1, 0)
	point := core.NewVec3(0.1, 0.2, 0.3)
	want := normal.Add(bumpy.Perturb(normal, point, ctx, nil).Multiply(3)).Multiply(0.25).Normalize()
	if got := avg.Perturb(normal, point, ctx, nil); !vecClose(got, want, tolerance) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalMapBlendsEntries(t *testing.T) {
	ctx := NewContext(noise.Original)
	bumpy := bumpsNormal(1)
	mapped := NewNormal(NewPattern(&constKind{0.25}))
	mapped.Map = NewBlendMap(
		BlendEntry[*Normal]{Key: 0, Value: bumpsNormal(0)},
		BlendEntry[*Normal]{Key: 1, Value: bumpy},
	)

	normal := core.NewVec3(1, 0, 0)
	point := core.NewVec3(-0.4, 0.6, 2)
	want := normal.Multiply(0.75).Add(bumpy.Perturb(normal, point, ctx, nil).Multiply(0.25)).Normalize()

	hit := &Hit{}
	got := mapped.Perturb(normal, point, ctx, hit)
	if !vecClose(got, want, tolerance) {
		t.Errorf("got %v, want %v", got, want)
	}
	if hit.Normal != got {
		t.Error("the hit should carry the perturbed normal")
	}
}

func TestUVMappedNormal(t *testing.T) {
	ctx := NewContext(noise.Original)
	bumpy := bumpsNormal(1)
	uv := NewNormal(NewPattern(&constKind{0}))
	uv.UVMapped = true
	uv.Map = NewBlendMap(BlendEntry[*Normal]{Key: 0, Value: bumpy})

	hit := &Hit{UV: core.Vec2{U: 0.25, V: 0.75}}
	normal := core.NewVec3(0, 0, 1)
	want := bumpy.Perturb(normal, core.NewVec3(0.25, 0.75, 0), ctx, nil).Normalize()
	if got := uv.Perturb(normal, core.NewVec3(9, 9, 9), ctx, hit); !vecClose(got, want, tolerance) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFacetsSnapToLatticePoint(t *testing.T) {
	p, _ := New("facets")
	n := NewNormal(p)
	normal := core.NewVec3(0.3, 0.9, 0.1)

	ctx := NewContext(noise.Original)
	a := n.Perturb(normal, core.Vec3{}, ctx, nil)
	b := n.Perturb(normal, core.Vec3{}, ctx, nil)
	c := n.Perturb(normal, core.Vec3{}, NewContext(noise.Original), nil)
	if a != b || a != c {
		t.Errorf("facets must not depend on the cache state: %v %v %v", a, b, c)
	}
	if math.Abs(a.Length()-1) > tolerance {
		t.Errorf("facet normal not normalised: %v", a)
	}

	// Every cached candidate lies within its own unit cube
	for _, cv := range ctx.facetsCube[:ctx.facetsCount] {
		_, seed := PickInCube(cv)
		if seed < 0 {
			t.Fatalf("bad seed for %v", cv)
		}
	}
	if ctx.facetsCount != facetsNeighbours {
		t.Errorf("expected %d neighbour cells, got %d", facetsNeighbours, ctx.facetsCount)
	}
}

func TestNormalClone(t *testing.T) {
	n := bumpsNormal(1)
	n.Map = NewBlendMap(BlendEntry[*Normal]{Key: 0, Value: bumpsNormal(0.5)})
	c := n.Clone()
	c.Map.Entries[0].Value.Amount = 2
	if n.Map.Entries[0].Value.Amount != 0.5 {
		t.Error("clone shares nested normals")
	}
}
