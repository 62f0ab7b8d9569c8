package noise

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"golang.org/x/sys/cpu"
)

// corners lays the eight lattice corners out as parallel arrays so both
// kernels below run one tight loop over them
type corners struct {
	m       [8]int
	s       [8]float64
	x, y, z [8]float64
}

func (c *cell) scalarCorners() corners {
	var k corners
	iz := c.iz
	k.m = [8]int{
		hash1dRTableIndex(c.ixiyHash, iz), hash1dRTableIndex(c.jxiyHash, iz),
		hash1dRTableIndex(c.ixjyHash, iz), hash1dRTableIndex(c.jxjyHash, iz),
		hash1dRTableIndex(c.ixiyHash, iz+1), hash1dRTableIndex(c.jxiyHash, iz+1),
		hash1dRTableIndex(c.ixjyHash, iz+1), hash1dRTableIndex(c.jxjyHash, iz+1),
	}
	k.s = [8]float64{
		c.txty * c.tz, c.sxty * c.tz, c.txsy * c.tz, c.sxsy * c.tz,
		c.txty * c.sz, c.sxty * c.sz, c.txsy * c.sz, c.sxsy * c.sz,
	}
	k.x = [8]float64{c.xi, c.xj, c.xi, c.xj, c.xi, c.xj, c.xi, c.xj}
	k.y = [8]float64{c.yi, c.yi, c.yj, c.yj, c.yi, c.yi, c.yj, c.yj}
	k.z = [8]float64{c.zi, c.zi, c.zi, c.zi, c.zj, c.zj, c.zj, c.zj}
	return k
}

func fmaTerm(m int, s, x, y, z float64) float64 {
	t := math.FMA(rTable[m+2], x, rTable[m+1])
	t = math.FMA(rTable[m+4], y, t)
	t = math.FMA(rTable[m+6], z, t)
	return s * t
}

// FMANoise evaluates the lattice noise with fused multiply-adds
func FMANoise(p core.Vec3, g Generator) float64 {
	if g == Perlin {
		return perlinNoise(p)
	}
	c := newCell(p)
	k := c.scalarCorners()
	sum := 0.0
	for i := 0; i < 8; i++ {
		sum += fmaTerm(k.m[i], k.s[i], k.x[i], k.y[i], k.z[i])
	}
	return finishNoise(sum, g)
}

// FMADNoise evaluates the vector lattice noise with fused multiply-adds
func FMADNoise(p core.Vec3) core.Vec3 {
	c := newCell(p)
	k := c.scalarCorners()
	var r core.Vec3
	for i := 0; i < 8; i++ {
		m := k.m[i]
		r.X += fmaTerm(m, k.s[i], k.x[i], k.y[i], k.z[i])
		r.Y += fmaTerm(m+8, k.s[i], k.x[i], k.y[i], k.z[i])
		r.Z += fmaTerm(m+16, k.s[i], k.x[i], k.y[i], k.z[i])
	}
	return r
}

func fmaSupported() bool {
	return cpu.X86.HasFMA || cpu.ARM64.HasASIMD
}

func fmaRecommended() bool {
	return cpu.X86.HasFMA && cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD
}
