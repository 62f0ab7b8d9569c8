package renderer

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/scene"
)

// Camera generates primary ray directions for image pixels. Scenes use a
// left-handed frame: looking down +z with +y up puts +x on the right.
type Camera struct {
	origin  core.Vec3
	forward core.Vec3
	right   core.Vec3 // scaled to half the viewport width
	up      core.Vec3 // scaled to half the viewport height
	width   int
	height  int
}

// NewCamera creates a pinhole camera covering a width x height image
func NewCamera(cfg scene.CameraConfig, width, height int) *Camera {
	forward := cfg.LookAt.Subtract(cfg.Center)
	if forward.IsZero() {
		forward = core.NewVec3(0, 0, 1)
	}
	forward = forward.Normalize()

	up := cfg.Up
	if up.IsZero() {
		up = core.NewVec3(0, 1, 0)
	}
	right := up.Cross(forward).Normalize()
	trueUp := forward.Cross(right)

	halfHeight := math.Tan(cfg.VFov * math.Pi / 360)
	halfWidth := halfHeight * float64(width) / float64(height)

	return &Camera{
		origin:  cfg.Center,
		forward: forward,
		right:   right.Multiply(halfWidth),
		up:      trueUp.Multiply(halfHeight),
		width:   width,
		height:  height,
	}
}

// Origin returns the eye point every primary ray starts from
func (c *Camera) Origin() core.Vec3 { return c.origin }

// Direction returns the unit direction through pixel (i, j), offset by
// (du, dv) pixels from its centre. Row 0 is the top of the image.
func (c *Camera) Direction(i, j int, du, dv float64) core.Vec3 {
	s := 2*(float64(i)+0.5+du)/float64(c.width) - 1
	t := 1 - 2*(float64(j)+0.5+dv)/float64(c.height)
	return c.forward.Add(c.right.Multiply(s)).Add(c.up.Multiply(t)).Normalize()
}
