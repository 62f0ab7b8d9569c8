package noise

import "github.com/df07/go-trace-core/pkg/core"

// cell is the lattice neighbourhood of a point shared by Noise and DNoise
type cell struct {
	iz                                     int
	xi, xj, yi, yj, zi, zj                 float64
	sz, tz                                 float64
	txty, sxty, txsy, sxsy                 float64
	ixiyHash, jxiyHash, ixjyHash, jxjyHash int
}

func newCell(p core.Vec3) cell {
	var c cell
	var ix, iy int
	ix, c.xi = lattice(p.X, noiseMinX)
	iy, c.yi = lattice(p.Y, noiseMinY)
	c.iz, c.zi = lattice(p.Z, noiseMinZ)

	c.xj = c.xi - 1
	c.yj = c.yi - 1
	c.zj = c.zi - 1

	sx, sy := scurve(c.xi), scurve(c.yi)
	c.sz = scurve(c.zi)
	tx, ty := 1-sx, 1-sy
	c.tz = 1 - c.sz

	c.txty = tx * ty
	c.sxty = sx * ty
	c.txsy = tx * sy
	c.sxsy = sx * sy

	c.ixiyHash = hash2d(ix, iy)
	c.jxiyHash = hash2d(ix+1, iy)
	c.ixjyHash = hash2d(ix, iy+1)
	c.jxjyHash = hash2d(ix+1, iy+1)
	return c
}

// incrSum is one corner's contribution using the coefficients at m
func incrSum(m int, s, x, y, z float64) float64 {
	return s * (rTable[m+1] + rTable[m+2]*x + rTable[m+4]*y + rTable[m+6]*z)
}

func finishNoise(sum float64, g Generator) float64 {
	if g == RangeCorrected {
		sum = (sum + 1.05242) * 0.48985582
	} else {
		sum += 0.5
	}
	return clamp01(sum)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func perlinNoise(p core.Vec3) float64 {
	// 1.59 and 0.985 correct the bias of the gradient table generator
	return clamp01(0.5 * (1.59*SolidNoise(p) + 0.985))
}

// PortableNoise is the reference scalar lattice noise in [0, 1]
func PortableNoise(p core.Vec3, g Generator) float64 {
	if g == Perlin {
		return perlinNoise(p)
	}

	c := newCell(p)
	iz := c.iz

	sum := incrSum(hash1dRTableIndex(c.ixiyHash, iz), c.txty*c.tz, c.xi, c.yi, c.zi)
	sum += incrSum(hash1dRTableIndex(c.jxiyHash, iz), c.sxty*c.tz, c.xj, c.yi, c.zi)
	sum += incrSum(hash1dRTableIndex(c.ixjyHash, iz), c.txsy*c.tz, c.xi, c.yj, c.zi)
	sum += incrSum(hash1dRTableIndex(c.jxjyHash, iz), c.sxsy*c.tz, c.xj, c.yj, c.zi)
	sum += incrSum(hash1dRTableIndex(c.ixiyHash, iz+1), c.txty*c.sz, c.xi, c.yi, c.zj)
	sum += incrSum(hash1dRTableIndex(c.jxiyHash, iz+1), c.sxty*c.sz, c.xj, c.yi, c.zj)
	sum += incrSum(hash1dRTableIndex(c.ixjyHash, iz+1), c.txsy*c.sz, c.xi, c.yj, c.zj)
	sum += incrSum(hash1dRTableIndex(c.jxjyHash, iz+1), c.sxsy*c.sz, c.xj, c.yj, c.zj)

	return finishNoise(sum, g)
}

// dCorner adds one corner's vector contribution; the Y and Z coefficient
// blocks follow X at strides of 8
func dCorner(acc core.Vec3, m int, s, x, y, z float64) core.Vec3 {
	acc.X += incrSum(m, s, x, y, z)
	acc.Y += incrSum(m+8, s, x, y, z)
	acc.Z += incrSum(m+16, s, x, y, z)
	return acc
}

// PortableDNoise is the reference vector lattice noise
func PortableDNoise(p core.Vec3) core.Vec3 {
	c := newCell(p)
	iz := c.iz

	var r core.Vec3
	r = dCorner(r, hash1dRTableIndex(c.ixiyHash, iz), c.txty*c.tz, c.xi, c.yi, c.zi)
	r = dCorner(r, hash1dRTableIndex(c.jxiyHash, iz), c.sxty*c.tz, c.xj, c.yi, c.zi)
	r = dCorner(r, hash1dRTableIndex(c.jxjyHash, iz), c.sxsy*c.tz, c.xj, c.yj, c.zi)
	r = dCorner(r, hash1dRTableIndex(c.ixjyHash, iz), c.txsy*c.tz, c.xi, c.yj, c.zi)
	r = dCorner(r, hash1dRTableIndex(c.ixjyHash, iz+1), c.txsy*c.sz, c.xi, c.yj, c.zj)
	r = dCorner(r, hash1dRTableIndex(c.jxjyHash, iz+1), c.sxsy*c.sz, c.xj, c.yj, c.zj)
	r = dCorner(r, hash1dRTableIndex(c.jxiyHash, iz+1), c.sxty*c.sz, c.xj, c.yi, c.zj)
	r = dCorner(r, hash1dRTableIndex(c.ixiyHash, iz+1), c.txty*c.sz, c.xi, c.yi, c.zj)
	return r
}
