package medium

import (
	"math"
	"testing"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHGIsotropic(t *testing.T) {
	hg := NewHGPhaseFunction(0)
	wo := mgl64.Vec3{0, 0, 1}
	for _, wi := range []mgl64.Vec3{{0, 0, 1}, {1, 0, 0}, {0, 0, -1}} {
		assert.InDelta(t, 1/(4*math.Pi), hg.P(wo, wi), 1e-12)
	}
}

func TestHGNormalized(t *testing.T) {
	for _, g := range []float64{-0.7, 0, 0.3, 0.85} {
		hg := NewHGPhaseFunction(g)
		wo := mgl64.Vec3{0, 1, 0}
		rng := core.NewRNG(21, 0)

		// Uniform sphere estimate of the integral of p over all directions
		const n = 200000
		sum := 0.0
		for i := 0; i < n; i++ {
			wi := core.SampleUniformSphere(rng.Get2D())
			sum += hg.P(wo, wi) / core.UniformSpherePDF()
		}
		assert.InDelta(t, 1.0, sum/n, 0.05, "g=%f", g)
	}
}

func TestHGSampleConsistent(t *testing.T) {
	hg := NewHGPhaseFunction(0.6)
	wo := mgl64.Vec3{1, 1, 0}.Normalize()
	rng := core.NewRNG(8, 0)

	const n = 100000
	meanCos := 0.0
	for i := 0; i < n; i++ {
		ps, ok := hg.SampleP(wo, rng.Get2D())
		require.True(t, ok)
		require.InDelta(t, 1.0, ps.Wi.Len(), 1e-9)
		assert.InDelta(t, hg.PDF(wo, ps.Wi), ps.PDF, 1e-6*ps.PDF)
		assert.Equal(t, ps.P, ps.PDF)
		// Forward scattering continues along -wo
		meanCos += ps.Wi.Dot(wo.Mul(-1))
	}
	assert.InDelta(t, 0.6, meanCos/n, 0.01)
}
