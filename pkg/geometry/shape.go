// Package geometry provides the analytic shapes used by the demo scenes and
// the closest-hit and occlusion queries the wavefront passes depend on.
package geometry

import (
	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/lights"
	"github.com/df07/go-wavefront-media/pkg/material"
	"github.com/df07/go-wavefront-media/pkg/medium"
	"github.com/go-gl/mathgl/mgl64"
)

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T         float64
	Point     mgl64.Vec3
	Normal    mgl64.Vec3 // Outward geometric normal, not flipped toward the ray
	UV        mgl64.Vec2
	FrontFace bool // Ray arrived from the side the normal points to

	Material        material.Material       // Nil marks a medium boundary
	AreaLight       lights.Light            // Non-nil when the surface emits
	MediumInterface *medium.MediumInterface // Nil when the surface does not change media
}

// setFaceNormal records which side of the surface the ray came from
func (h *HitRecord) setFaceNormal(ray core.Ray, outwardNormal mgl64.Vec3) {
	h.Normal = outwardNormal
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
}

// Surface holds what a shape attaches to its hits
type Surface struct {
	Material        material.Material
	AreaLight       lights.Light
	MediumInterface *medium.MediumInterface
}

func (s Surface) apply(h *HitRecord) {
	h.Material = s.Material
	h.AreaLight = s.AreaLight
	h.MediumInterface = s.MediumInterface
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool)
	BoundingBox() core.AABB
}
