package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShadowEpsilon shortens shadow rays so they stop just before the light sample
const ShadowEpsilon = 0.0001

// RayEpsilon is the distance spawned rays are pushed off a surface along its normal
const RayEpsilon = 1e-4

// Ray is a parametric ray; Direction is not required to be normalized
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	Time      float64
}

// NewRay creates a new ray at time zero
func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// OffsetRayOrigin moves p off the surface with normal n towards the side w points into.
// A zero normal (medium vertices) leaves p unchanged.
func OffsetRayOrigin(p, n, w mgl64.Vec3) mgl64.Vec3 {
	if n.LenSqr() == 0 {
		return p
	}
	offset := n.Mul(RayEpsilon)
	if w.Dot(n) < 0 {
		offset = offset.Mul(-1)
	}
	return p.Add(offset)
}

// SpawnRay leaves the surface point p (normal n) in direction d
func SpawnRay(p, n mgl64.Vec3, time float64, d mgl64.Vec3) Ray {
	return Ray{Origin: OffsetRayOrigin(p, n, d), Direction: d, Time: time}
}

// SpawnRayTo creates a ray from p (normal n) whose parameter t=1 lands on target
func SpawnRayTo(p, n mgl64.Vec3, time float64, target mgl64.Vec3) Ray {
	origin := OffsetRayOrigin(p, n, target.Sub(p))
	return Ray{Origin: origin, Direction: target.Sub(origin), Time: time}
}

// SafeNormalize returns a unit vector, or the zero vector for degenerate input
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// CoordinateSystem builds two unit vectors orthogonal to the unit vector v1
func CoordinateSystem(v1 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	sign := math.Copysign(1, v1.Z())
	a := -1 / (sign + v1.Z())
	b := v1.X() * v1.Y() * a
	v2 := mgl64.Vec3{1 + sign*v1.X()*v1.X()*a, sign * b, -sign * v1.X()}
	v3 := mgl64.Vec3{b, sign + v1.Y()*v1.Y()*a, -v1.Y()}
	return v2, v3
}

// Frame is an orthonormal basis
type Frame struct {
	X, Y, Z mgl64.Vec3
}

// FrameFromZ builds a frame whose z axis is the unit vector z
func FrameFromZ(z mgl64.Vec3) Frame {
	x, y := CoordinateSystem(z)
	return Frame{X: x, Y: y, Z: z}
}

// FromLocal transforms v from frame coordinates to world coordinates
func (f Frame) FromLocal(v mgl64.Vec3) mgl64.Vec3 {
	return f.X.Mul(v.X()).Add(f.Y.Mul(v.Y())).Add(f.Z.Mul(v.Z()))
}

// ToLocal transforms v from world coordinates to frame coordinates
func (f Frame) ToLocal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.Dot(f.X), v.Dot(f.Y), v.Dot(f.Z)}
}

// SphericalDirection converts spherical coordinates to a unit vector
func SphericalDirection(sinTheta, cosTheta, phi float64) mgl64.Vec3 {
	sinTheta = mgl64.Clamp(sinTheta, -1, 1)
	return mgl64.Vec3{sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), mgl64.Clamp(cosTheta, -1, 1)}
}
