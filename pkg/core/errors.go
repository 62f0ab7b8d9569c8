package core

import (
	"errors"
	"fmt"
)

// Fatal configuration errors. They are returned through every recursive
// frame of a trace and abort the render.
var (
	ErrUnknownPattern         = errors.New("unknown pattern type")
	ErrUnknownWarp            = errors.New("unknown warp type")
	ErrUnknownTexture         = errors.New("unknown texture type")
	ErrUnknownGenerator       = errors.New("unknown noise generator")
	ErrFresnelWithoutInterior = errors.New("fresnel reflection requires an interior")
	ErrCancelled              = errors.New("render cancelled")
	ErrPoolNotEmpty           = errors.New("pooled stack not empty")
)

func poolMisuse(name string) error {
	if name == "" {
		return ErrPoolNotEmpty
	}
	return fmt.Errorf("%s: %w", name, ErrPoolNotEmpty)
}
