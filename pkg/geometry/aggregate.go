package geometry

import (
	"github.com/df07/go-wavefront-media/pkg/core"
)

// minHitT keeps spawned rays from re-hitting the surface they leave
const minHitT = 1e-6

// Aggregate answers closest-hit and any-hit queries over a list of shapes
type Aggregate struct {
	shapes []Shape
	bounds core.AABB
}

// NewAggregate creates an aggregate over shapes
func NewAggregate(shapes ...Shape) *Aggregate {
	a := &Aggregate{shapes: shapes}
	if len(shapes) > 0 {
		a.bounds = shapes[0].BoundingBox()
		for _, s := range shapes[1:] {
			a.bounds = a.bounds.Union(s.BoundingBox())
		}
	}
	return a
}

// Shapes returns the shapes in the aggregate
func (a *Aggregate) Shapes() []Shape { return a.shapes }

// Bounds returns the union of the shapes' bounding boxes
func (a *Aggregate) Bounds() core.AABB { return a.bounds }

// Intersect returns the closest hit along ray before tMax
func (a *Aggregate) Intersect(ray core.Ray, tMax float64) (HitRecord, bool) {
	var closest HitRecord
	hitAnything := false
	closestSoFar := tMax
	for _, shape := range a.shapes {
		if hit, ok := shape.Hit(ray, minHitT, closestSoFar); ok {
			hitAnything = true
			closestSoFar = hit.T
			closest = hit
		}
	}
	return closest, hitAnything
}

// Occluded reports whether any surface other than a medium boundary lies
// on ray before tMax. Boundaries are transparent to shadow rays.
func (a *Aggregate) Occluded(ray core.Ray, tMax float64) bool {
	for _, shape := range a.shapes {
		if hit, ok := shape.Hit(ray, minHitT, tMax); ok && hit.Material != nil {
			return true
		}
	}
	return false
}

