package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3 // Minimum corner
	Max mgl64.Vec3 // Maximum corner
}

// NewAABB creates a box from two opposite corners in any order
func NewAABB(a, b mgl64.Vec3) AABB {
	return AABB{
		Min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// IntersectP clips the ray parameter range [0, tMax] against the box using the
// slab method and returns the overlapping interval
func (aabb AABB) IntersectP(ray Ray, tMax float64) (float64, float64, bool) {
	t0, t1 := 0.0, tMax
	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin[axis]
		direction := ray.Direction[axis]

		// Ray parallel to this slab
		if direction == 0 {
			if origin < aabb.Min[axis] || origin > aabb.Max[axis] {
				return 0, 0, false
			}
			continue
		}

		invDirection := 1.0 / direction
		tNear := (aabb.Min[axis] - origin) * invDirection
		tFar := (aabb.Max[axis] - origin) * invDirection
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}

		t0 = math.Max(t0, tNear)
		t1 = math.Min(t1, tFar)
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// Offset returns the position of p relative to the box corners, [0,1]^3 inside the box
func (aabb AABB) Offset(p mgl64.Vec3) mgl64.Vec3 {
	o := p.Sub(aabb.Min)
	size := aabb.Size()
	for i := 0; i < 3; i++ {
		if size[i] > 0 {
			o[i] /= size[i]
		}
	}
	return o
}

// Inside reports whether p lies within the closed box
func (aabb AABB) Inside(p mgl64.Vec3) bool {
	return p[0] >= aabb.Min[0] && p[0] <= aabb.Max[0] &&
		p[1] >= aabb.Min[1] && p[1] <= aabb.Max[1] &&
		p[2] >= aabb.Min[2] && p[2] <= aabb.Max[2]
}

// Center returns the center point of the AABB
func (aabb AABB) Center() mgl64.Vec3 {
	return aabb.Min.Add(aabb.Max).Mul(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() mgl64.Vec3 {
	return aabb.Max.Sub(aabb.Min)
}

// BoundingSphere returns the center and radius of a sphere enclosing the box
func (aabb AABB) BoundingSphere() (mgl64.Vec3, float64) {
	center := aabb.Center()
	if !aabb.IsValid() {
		return center, 0
	}
	return center, aabb.Max.Sub(center).Len()
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min[0] <= aabb.Max[0] &&
		aabb.Min[1] <= aabb.Max[1] &&
		aabb.Min[2] <= aabb.Max[2]
}

// Union returns the smallest box containing both boxes
func (aabb AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{math.Min(aabb.Min[0], o.Min[0]), math.Min(aabb.Min[1], o.Min[1]), math.Min(aabb.Min[2], o.Min[2])},
		Max: mgl64.Vec3{math.Max(aabb.Max[0], o.Max[0]), math.Max(aabb.Max[1], o.Max[1]), math.Max(aabb.Max[2], o.Max[2])},
	}
}
