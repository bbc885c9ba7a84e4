package integrator

import (
	"testing"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/lights"
	"github.com/df07/go-wavefront-media/pkg/medium"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRussianRouletteSurvival(t *testing.T) {
	tests := []struct {
		name   string
		rrBeta core.SampledSpectrum
		depth  int
		q      float64
		apply  bool
	}{
		{"bright path", spectrum(1.5, 0.2, 0.2, 0.2), 5, 0, false},
		{"exactly one", core.NewSampledSpectrum(1), 5, 0, false},
		{"dim path", spectrum(0.25, 0.1, 0, 0), 5, 0.75, true},
		{"dim but shallow", spectrum(0.25, 0.1, 0, 0), 1, 0, false},
		{"zero throughput", core.SampledSpectrum{}, 2, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, apply := RussianRouletteSurvival(tt.rrBeta, tt.depth, 1)
			assert.Equal(t, tt.apply, apply)
			assert.InDelta(t, tt.q, q, 1e-12)
			assert.GreaterOrEqual(t, q, 0.0)
			assert.LessOrEqual(t, q, 1.0)
		})
	}
}

func scatterItem(m medium.Medium, beta, pdfUni core.SampledSpectrum, rayIndex int) MediumScatterWorkItem {
	return MediumScatterWorkItem{
		P:          mgl64.Vec3{0, 0, 0},
		Lambda:     testLambda,
		Beta:       beta,
		PdfUni:     pdfUni,
		RayIndex:   rayIndex,
		Phase:      medium.NewHGPhaseFunction(0),
		Wo:         mgl64.Vec3{0, 0, -1},
		EtaScale:   1,
		Medium:     m,
		PixelIndex: rayIndex % 64,
	}
}

// Sampling an area light queues one shadow ray carrying both densities
func TestSampleMediumScatteringShadowRay(t *testing.T) {
	ls := lights.LightLiSample{
		L:      core.NewSampledSpectrum(2),
		Wi:     mgl64.Vec3{0, 0, 1},
		PDF:    0.5,
		PLight: mgl64.Vec3{0, 0, 2},
	}
	area1 := &fakeLight{typ: lights.LightTypeArea, ls: ls}
	area2 := &fakeLight{typ: lights.LightTypeArea, ls: ls}
	in := newTestIntegrator(t, testConfig(), Scene{
		Lights:       []lights.Light{area1, area2},
		LightSampler: lights.NewUniformLightSampler([]lights.Light{area1, area2}),
	})

	beta := spectrum(0.5, 0.5, 1, 1)
	pdfUni := spectrum(2, 2, 2, 2)
	in.MediumScatterQueue().Push(scatterItem(nil, beta, pdfUni, 0))
	require.NoError(t, in.SampleMediumScattering(0))

	require.Equal(t, 1, in.ShadowRayQueue().Size())
	sr := in.ShadowRayQueue().At(0)
	phase := core.Inv4Pi
	assert.Equal(t, pdfUni.MulScalar(0.5*0.5), sr.PdfNEE, "light pdf times selection probability")
	assert.Equal(t, pdfUni.MulScalar(phase), sr.PdfUni, "phase function pdf")
	assert.Equal(t, beta.MulScalar(phase).Mul(ls.L), sr.Ld)
	assert.Equal(t, 1-core.ShadowEpsilon, sr.TMax)
	assert.Equal(t, mgl64.Vec3{0, 0, 2}, sr.Ray.Direction, "t=1 lands on the light")
	assert.Equal(t, 1, in.NextRayQueue(0).Size(), "indirect bounce is independent of NEE")
}

func TestSampleMediumScatteringDeltaLight(t *testing.T) {
	point := lights.NewPointLight(mgl64.Vec3{0, 3, 0}, core.NewConstantSpectrum(9), 1)
	in := newTestIntegrator(t, testConfig(), Scene{Lights: []lights.Light{point}})

	in.MediumScatterQueue().Push(scatterItem(nil, core.NewSampledSpectrum(1), core.NewSampledSpectrum(1), 0))
	require.NoError(t, in.SampleMediumScattering(0))

	require.Equal(t, 1, in.ShadowRayQueue().Size())
	sr := in.ShadowRayQueue().At(0)
	assert.True(t, sr.PdfUni.IsZero(), "delta lights cannot be hit by phase sampling")
	assert.Equal(t, core.NewSampledSpectrum(1), sr.PdfNEE)
	assert.InDelta(t, core.Inv4Pi, sr.Ld[0], 1e-12)
}

func TestSampleMediumScatteringNoLights(t *testing.T) {
	in := newTestIntegrator(t, testConfig(), Scene{})
	in.MediumScatterQueue().Push(scatterItem(nil, core.NewSampledSpectrum(1), core.NewSampledSpectrum(1), 0))
	require.NoError(t, in.SampleMediumScattering(0))
	assert.Zero(t, in.ShadowRayQueue().Size())
	assert.Equal(t, 1, in.NextRayQueue(0).Size())
}

func TestSampleMediumScatteringIndirect(t *testing.T) {
	fog := medium.NewHomogeneousMedium(core.NewConstantSpectrum(0), core.NewConstantSpectrum(1), 1, nil, 0, 0)
	in := newTestIntegrator(t, testConfig(), Scene{})
	in.RayQueue(1).SetSamples(3, RaySamples{Indirect: IndirectSamples{U: mgl64.Vec2{0.5, 0.25}, Rr: 0.99}})

	beta := spectrum(2, 2, 2, 2)
	pdfUni := spectrum(1, 1, 1, 1)
	item := scatterItem(fog, beta, pdfUni, 3)
	item.P = mgl64.Vec3{1, 1, 1}
	item.EtaScale = 1.25
	in.MediumScatterQueue().Push(item)
	require.NoError(t, in.SampleMediumScattering(1))

	next := in.NextRayQueue(1)
	assert.Same(t, in.RayQueue(0), next)
	require.Equal(t, 1, next.Size())
	r := next.At(0)
	ps, ok := item.Phase.SampleP(item.Wo, mgl64.Vec2{0.5, 0.25})
	require.True(t, ok)
	assert.Equal(t, beta.MulScalar(ps.P), r.Beta)
	assert.Equal(t, pdfUni.MulScalar(ps.PDF), r.PdfUni)
	assert.Equal(t, pdfUni, r.PdfNEE, "NEE density restarts from the vertex")
	assert.Equal(t, ps.Wi, r.Ray.Direction)
	assert.Equal(t, item.P, r.Ray.Origin)
	assert.Equal(t, item.P, r.PiPrev)
	assert.Equal(t, mgl64.Vec3{}, r.NPrev)
	assert.False(t, r.IsSpecularBounce)
	assert.True(t, r.AnyNonSpecularBounces)
	assert.Equal(t, 1.25, r.EtaScale)
	assert.Same(t, fog, r.Medium)
}

func TestSampleMediumScatteringRouletteScaling(t *testing.T) {
	in := newTestIntegrator(t, testConfig(), Scene{})
	in.RayQueue(2).SetSamples(0, RaySamples{Indirect: IndirectSamples{U: mgl64.Vec2{0.3, 0.3}, Rr: 0.9}})

	// HG sampling has P == PDF, so rrBeta = beta / pdfUni.Average() = 0.25
	in.MediumScatterQueue().Push(scatterItem(nil, core.NewSampledSpectrum(0.25), core.NewSampledSpectrum(1), 0))
	require.NoError(t, in.SampleMediumScattering(2))

	require.Equal(t, 1, in.NextRayQueue(2).Size())
	r := in.NextRayQueue(2).At(0)
	ps, _ := medium.NewHGPhaseFunction(0).SampleP(mgl64.Vec3{0, 0, -1}, mgl64.Vec2{0.3, 0.3})
	assert.InDelta(t, ps.PDF*0.25, r.PdfUni[0], 1e-12)
	assert.InDelta(t, 0.25, r.PdfNEE[0], 1e-12)
	assert.InDelta(t, r.PdfUni[0]/ps.PDF, r.PdfNEE[0], 1e-12, "both densities scaled by 1-q")
}

// Dim paths survive roulette with probability equal to their largest
// throughput component
func TestSampleMediumScatteringRouletteStatistics(t *testing.T) {
	const n = 10000
	cfg := testConfig()
	cfg.MaxQueueSize = n
	cfg.ChunkSize = 256
	in := newTestIntegrator(t, cfg, Scene{})

	rq := in.RayQueue(3)
	rng := core.NewRNG(42, 0)
	for i := 0; i < n; i++ {
		rq.SetSamples(i, RaySamples{Indirect: IndirectSamples{U: rng.Get2D(), Rr: rng.Uniform()}})
		in.MediumScatterQueue().Push(scatterItem(nil, spectrum(0.3, 0.1, 0.2, 0.1), core.NewSampledSpectrum(1), i))
	}
	require.NoError(t, in.SampleMediumScattering(3))

	survived := float64(in.NextRayQueue(3).Size()) / n
	assert.InDelta(t, 0.3, survived, 0.02)
}
