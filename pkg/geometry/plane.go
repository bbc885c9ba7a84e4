package geometry

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

const largeValue = 1e6

// Plane represents a plane defined by a point and normal. A positive Extent
// limits it to the disc of that radius around Point.
type Plane struct {
	Point   mgl64.Vec3 // A point on the plane
	Normal  mgl64.Vec3 // Unit normal
	Extent  float64
	Surface Surface
}

// NewPlane creates a new unbounded plane
func NewPlane(point, normal mgl64.Vec3, surface Surface) *Plane {
	return &Plane{
		Point:   point,
		Normal:  normal.Normalize(),
		Surface: surface,
	}
}

// NewGroundDisc creates a horizontal disc facing +Y. Scenes use it instead of
// an infinite plane so the scene bounds stay finite.
func NewGroundDisc(center mgl64.Vec3, radius float64, surface Surface) *Plane {
	p := NewPlane(center, mgl64.Vec3{0, 1, 0}, surface)
	p.Extent = radius
	return p
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)
	if math.Abs(denominator) < 1e-8 {
		return HitRecord{}, false
	}

	t := p.Point.Sub(ray.Origin).Dot(p.Normal) / denominator
	if t <= tMin || t >= tMax {
		return HitRecord{}, false
	}

	point := ray.At(t)
	local := point.Sub(p.Point)
	if p.Extent > 0 && local.LenSqr() > p.Extent*p.Extent {
		return HitRecord{}, false
	}

	h := HitRecord{T: t, Point: point, UV: p.uv(local)}
	h.setFaceNormal(ray, p.Normal)
	p.Surface.apply(&h)
	return h, true
}

// uv projects the offset from Point onto the plane's tangent frame
func (p *Plane) uv(local mgl64.Vec3) mgl64.Vec2 {
	u, v := core.CoordinateSystem(p.Normal)
	return mgl64.Vec2{local.Dot(u), local.Dot(v)}
}

// BoundingBox returns a bounding box for this plane. Unbounded planes get a
// large box.
func (p *Plane) BoundingBox() core.AABB {
	if p.Extent <= 0 {
		return core.NewAABB(
			mgl64.Vec3{-largeValue, -largeValue, -largeValue},
			mgl64.Vec3{largeValue, largeValue, largeValue},
		)
	}
	// Per-axis extent of a disc with normal n is r*sqrt(1-n_i^2)
	var e mgl64.Vec3
	for i := range 3 {
		e[i] = p.Extent*math.Sqrt(max(0, 1-p.Normal[i]*p.Normal[i])) + 1e-3
	}
	return core.NewAABB(p.Point.Sub(e), p.Point.Add(e))
}
