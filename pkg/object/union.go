package object

import "github.com/df07/go-trace-core/pkg/core"

// Union is a composite of child objects. Hits report the child as the
// object and the union as the composite.
type Union struct {
	Base
	Children []Object
}

// NewUnion creates a union. Children without a texture or interior take
// the union's.
func NewUnion(base Base, children ...Object) *Union {
	u := &Union{Base: base, Children: children}
	for _, c := range children {
		p := c.Props()
		if p.Texture == nil {
			p.Texture = base.Texture
		}
		if p.InteriorTexture == nil {
			p.InteriorTexture = base.InteriorTexture
		}
		if p.Interior == nil {
			p.Interior = base.Interior
		}
		if p.LightGroup == 0 {
			p.LightGroup = base.LightGroup
		}
		p.Flags |= base.Flags & (NoShadow | NoImage | NoReflection | NoGlobalLights)
	}
	return u
}

func (u *Union) Bounds() core.AABB {
	if len(u.Children) == 0 {
		return core.NewAABB(core.Vec3{}, core.Vec3{})
	}
	b := u.Children[0].Bounds()
	for _, c := range u.Children[1:] {
		b = b.Union(c.Bounds())
	}
	return b
}

func (u *Union) AllIntersections(ray *core.Ray, depths *IStack) bool {
	found := false
	for _, c := range u.Children {
		start := depths.Len()
		if !c.AllIntersections(ray, depths) {
			continue
		}
		found = true
		for i := start; i < depths.Len(); i++ {
			depths.At(i).Csg = u
		}
	}
	return found
}

func (u *Union) Inside(p core.Vec3) bool {
	for _, c := range u.Children {
		if c.Inside(p) {
			return true
		}
	}
	return false
}

// Normal defers to the child that was hit
func (u *Union) Normal(p core.Vec3, isect *Intersection) core.Vec3 {
	return isect.Object.Normal(p, isect)
}

func (u *Union) UVCoord(isect *Intersection) core.Vec2 {
	return isect.Object.UVCoord(isect)
}
