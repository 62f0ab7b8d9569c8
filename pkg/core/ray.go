package core

// RayKind names the reason a ray segment was spawned
type RayKind int

const (
	OtherRay RayKind = iota
	PrimaryRay
	ReflectionRay
	RefractionRay
	SubsurfaceRay
)

// Ray is a single path segment with its interaction flags and the stack of
// media it is currently travelling through
type Ray struct {
	Origin    Vec3
	Direction Vec3

	Kind          RayKind
	ShadowTest    bool
	Photon        bool
	Radiosity     bool
	Monochromatic bool
	Pretrace      bool

	// Band selects a dispersion sample; only meaningful when Monochromatic
	Band SpectralBand

	Interiors []*Interior
	// solid is set while any medium on the stack is not hollow
	solid bool

	Ticket *TraceTicket
}

// NewRay creates an ordinary ray that is not inside any medium
func NewRay(origin, direction Vec3, ticket *TraceTicket) Ray {
	return Ray{Origin: origin, Direction: direction, Ticket: ticket}
}

// NewRayFrom creates a child ray of the given kind that inherits the
// parent's interaction flags, spectral band, media stack and ticket
func NewRayFrom(kind RayKind, parent *Ray, origin, direction Vec3) Ray {
	r := Ray{Origin: origin, Direction: direction, Ticket: parent.Ticket}
	r.SetFlags(kind, parent)
	r.Band = parent.Band
	r.Interiors = append([]*Interior(nil), parent.Interiors...)
	r.solid = parent.solid
	return r
}

// SetFlags sets the ray kind and copies the remaining flags from other
func (r *Ray) SetFlags(kind RayKind, other *Ray) {
	r.Kind = kind
	r.ShadowTest = other.ShadowTest
	r.Photon = other.Photon
	r.Radiosity = other.Radiosity
	r.Monochromatic = other.Monochromatic
	r.Pretrace = other.Pretrace
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

func (r *Ray) IsPrimaryRay() bool    { return r.Kind == PrimaryRay }
func (r *Ray) IsImageRay() bool      { return r.Kind == PrimaryRay }
func (r *Ray) IsReflectionRay() bool { return r.Kind == ReflectionRay }
func (r *Ray) IsRefractionRay() bool { return r.Kind == RefractionRay }
func (r *Ray) IsSubsurfaceRay() bool { return r.Kind == SubsurfaceRay }

// IsHollowRay reports whether every medium on the stack is hollow
func (r *Ray) IsHollowRay() bool {
	return !r.solid
}

// AppendInterior pushes a medium the ray has entered
func (r *Ray) AppendInterior(i *Interior) {
	r.solid = r.solid || !i.Hollow
	r.Interiors = append(r.Interiors, i)
}

// RemoveInterior removes a medium the ray has left. Reports whether it was
// on the stack.
func (r *Ray) RemoveInterior(i *Interior) bool {
	found := false
	for idx, cur := range r.Interiors {
		if cur == i {
			r.Interiors = append(r.Interiors[:idx:idx], r.Interiors[idx+1:]...)
			found = true
			break
		}
	}
	r.solid = false
	for _, cur := range r.Interiors {
		r.solid = r.solid || !cur.Hollow
	}
	return found
}

// IsInterior reports whether the ray is inside the given medium
func (r *Ray) IsInterior(i *Interior) bool {
	for _, cur := range r.Interiors {
		if cur == i {
			return true
		}
	}
	return false
}

// ClearInteriors empties the media stack
func (r *Ray) ClearInteriors() {
	r.Interiors = r.Interiors[:0]
	r.solid = false
}
