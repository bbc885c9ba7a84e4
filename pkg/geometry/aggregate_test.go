package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/material"
	"github.com/df07/go-wavefront-media/pkg/medium"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateIntersectClosest(t *testing.T) {
	diffuse := material.NewDiffuse(nil)
	near := NewSphere(mgl64.Vec3{0, 0, -3}, 1, Surface{Material: diffuse})
	far := NewSphere(mgl64.Vec3{0, 0, -10}, 1, Surface{})
	agg := NewAggregate(far, near)

	hit, ok := agg.Intersect(core.NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}), math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 2.0, hit.T, 1e-9)
	assert.Same(t, diffuse, hit.Material)

	_, ok = agg.Intersect(core.NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}), 1.5)
	assert.False(t, ok, "tMax bounds the search")

	_, ok = agg.Intersect(core.NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}), math.Inf(1))
	assert.False(t, ok)
}

func TestAggregateOccludedIgnoresBoundaries(t *testing.T) {
	fog := medium.NewHomogeneousMedium(core.NewConstantSpectrum(0.1), core.NewConstantSpectrum(0.1), 1, nil, 0, 0)
	boundary := NewSphere(mgl64.Vec3{0, 0, 0}, 2, Surface{MediumInterface: &medium.MediumInterface{Inside: fog}})
	wall := NewPlane(mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, 1}, Surface{Material: material.NewDiffuse(nil)})
	agg := NewAggregate(boundary, wall)

	// Segment from the center to z=-4 crosses only the boundary
	assert.False(t, agg.Occluded(core.NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, -4}), 1))
	// Extending it to z=-6 crosses the wall
	assert.True(t, agg.Occluded(core.NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, -6}), 1))
}

func TestAggregateBounds(t *testing.T) {
	agg := NewAggregate(
		NewSphere(mgl64.Vec3{-1, 0, 0}, 1, Surface{}),
		NewSphere(mgl64.Vec3{3, 0, 0}, 0.5, Surface{}),
	)
	b := agg.Bounds()
	assert.True(t, b.Min.ApproxEqual(mgl64.Vec3{-2, -1, -1}))
	assert.True(t, b.Max.ApproxEqual(mgl64.Vec3{3.5, 1, 1}))
	assert.Len(t, agg.Shapes(), 2)

	assert.Equal(t, core.AABB{}, NewAggregate().Bounds())
}
