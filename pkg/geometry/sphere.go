package geometry

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center  mgl64.Vec3
	Radius  float64
	Surface Surface
}

// NewSphere creates a new sphere
func NewSphere(center mgl64.Vec3, radius float64, surface Surface) *Sphere {
	return &Sphere{
		Center:  center,
		Radius:  radius,
		Surface: surface,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	oc := ray.Origin.Sub(s.Center)

	// at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return HitRecord{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return HitRecord{}, false
		}
	}

	p := ray.At(root)
	outward := p.Sub(s.Center).Mul(1 / s.Radius)
	h := HitRecord{T: root, Point: p, UV: sphereUV(outward)}
	h.setFaceNormal(ray, outward)
	s.Surface.apply(&h)
	return h, true
}

// sphereUV maps a unit normal to (phi, theta) texture coordinates in [0,1]
func sphereUV(n mgl64.Vec3) mgl64.Vec2 {
	theta := math.Acos(max(-1, min(1, -n.Y())))
	phi := math.Atan2(-n.Z(), n.X()) + math.Pi
	return mgl64.Vec2{phi / (2 * math.Pi), theta / math.Pi}
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	return core.NewAABB(s.Center.Sub(r), s.Center.Add(r))
}
