package lights

import (
	"math"
	"testing"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLambda = core.SampleUniformWavelengths(0.3)

func TestPointLight_SampleLi(t *testing.T) {
	light := NewPointLight(mgl64.Vec3{0, 2, 0}, core.NewConstantSpectrum(8), 1)
	ctx := LightSampleContext{P: mgl64.Vec3{0, 0, 0}}

	ls, ok := light.SampleLi(ctx, mgl64.Vec2{0.5, 0.5}, testLambda, WithMIS)
	require.True(t, ok)
	assert.InDelta(t, 2.0, ls.L[0], 1e-12, "inverse square falloff")
	assert.InDelta(t, 1.0, ls.Wi.Y(), 1e-12)
	assert.Equal(t, 1.0, ls.PDF)
	assert.Equal(t, mgl64.Vec3{0, 2, 0}, ls.PLight)
	assert.True(t, light.IsDelta())
	assert.Zero(t, light.PDFLi(ctx, ls.Wi, WithMIS))
}

func TestPointLight_CoincidentPoint(t *testing.T) {
	light := NewPointLight(mgl64.Vec3{1, 1, 1}, core.NewConstantSpectrum(1), 1)
	_, ok := light.SampleLi(LightSampleContext{P: mgl64.Vec3{1, 1, 1}}, mgl64.Vec2{}, testLambda, WithMIS)
	assert.False(t, ok)
}

func TestSpotLight_Falloff(t *testing.T) {
	light := NewSpotLight(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, 0, 0}, core.NewConstantSpectrum(25), 1, 30, 5)

	// Directly below: full intensity
	below, ok := light.SampleLi(LightSampleContext{P: mgl64.Vec3{0, 0, 0}}, mgl64.Vec2{}, testLambda, WithMIS)
	require.True(t, ok)
	assert.InDelta(t, 1.0, below.L[0], 1e-12)

	// Far off axis: outside the cone
	_, ok = light.SampleLi(LightSampleContext{P: mgl64.Vec3{10, 4, 0}}, mgl64.Vec2{}, testLambda, WithMIS)
	assert.False(t, ok)

	// Inside the falloff band: attenuated but non-zero
	angle := mgl64.DegToRad(27.5)
	p := mgl64.Vec3{5 * math.Tan(angle), 0, 0}
	band, ok := light.SampleLi(LightSampleContext{P: p}, mgl64.Vec2{}, testLambda, WithMIS)
	require.True(t, ok)
	full := 25.0 / p.Sub(mgl64.Vec3{0, 5, 0}).LenSqr()
	assert.Greater(t, band.L[0], 0.0)
	assert.Less(t, band.L[0], full)
}

func TestUniformInfiniteLight(t *testing.T) {
	light := NewUniformInfiniteLight(core.NewConstantSpectrum(0.5), 2)
	light.Preprocess(core.NewAABB(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1}))

	ctx := LightSampleContext{}
	ls, ok := light.SampleLi(ctx, mgl64.Vec2{0.25, 0.75}, testLambda, WithMIS)
	require.True(t, ok)
	assert.InDelta(t, 1.0, ls.L[0], 1e-12)
	assert.InDelta(t, 1/(4*math.Pi), ls.PDF, 1e-12)
	assert.InDelta(t, 1.0, ls.Wi.Len(), 1e-9)
	assert.Greater(t, ls.PLight.Len(), math.Sqrt(3), "light point lies outside the scene")

	le := light.Le(core.NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}), testLambda)
	assert.Equal(t, core.NewSampledSpectrum(1), le)
	assert.Equal(t, LightTypeInfinite, light.Type())
}

func TestDiffuseSphereLight_ConeSampling(t *testing.T) {
	light := NewDiffuseSphereLight(mgl64.Vec3{0, 0, 5}, 1, core.NewConstantSpectrum(3), 1)
	ctx := LightSampleContext{P: mgl64.Vec3{}}
	rng := core.NewRNG(7, 0)

	cosThetaMax := math.Sqrt(1 - 1.0/25.0)
	for i := 0; i < 1000; i++ {
		ls, ok := light.SampleLi(ctx, rng.Get2D(), testLambda, WithMIS)
		require.True(t, ok)
		assert.InDelta(t, core.UniformConePDF(cosThetaMax), ls.PDF, 1e-9)
		assert.InDelta(t, 1.0, ls.PLight.Sub(light.Center).Len(), 1e-6, "sample lies on the sphere")
		assert.GreaterOrEqual(t, ls.Wi.Z(), cosThetaMax-1e-9)
		assert.InDelta(t, ls.PDF, light.PDFLi(ctx, ls.Wi, WithMIS), 1e-9)
		assert.Equal(t, 3.0, ls.L[0])
	}

	assert.Zero(t, light.PDFLi(ctx, mgl64.Vec3{0, 0, -1}, WithMIS))
}

func TestDiffuseSphereLight_InsideUsesSolidAngle(t *testing.T) {
	light := NewDiffuseSphereLight(mgl64.Vec3{}, 2, core.NewConstantSpectrum(1), 1)
	ctx := LightSampleContext{P: mgl64.Vec3{}}

	// From the center every direction hits at distance r with cos 1, but the
	// surface faces away so no radiance arrives
	_, ok := light.SampleLi(ctx, mgl64.Vec2{0.3, 0.6}, testLambda, WithMIS)
	assert.False(t, ok)

	pdf := light.PDFLi(ctx, mgl64.Vec3{1, 0, 0}, WithMIS)
	assert.InDelta(t, 1/(4*math.Pi), pdf, 1e-12)
}

func TestDiffuseSphereLight_FrontFaceOnly(t *testing.T) {
	light := NewDiffuseSphereLight(mgl64.Vec3{}, 1, core.NewConstantSpectrum(4), 1)
	n := mgl64.Vec3{0, 1, 0}
	assert.Equal(t, 4.0, light.L(n, n, mgl64.Vec2{}, n, testLambda)[0])
	assert.True(t, light.L(n, n, mgl64.Vec2{}, n.Mul(-1), testLambda).IsZero())
}

func TestWeightedLightSampler(t *testing.T) {
	a := NewPointLight(mgl64.Vec3{}, core.NewConstantSpectrum(1), 1)
	b := NewPointLight(mgl64.Vec3{1, 0, 0}, core.NewConstantSpectrum(1), 1)
	ws := NewWeightedLightSampler([]Light{a, b}, []float64{3, 1})

	sl, ok := ws.Sample(LightSampleContext{}, 0.5)
	require.True(t, ok)
	assert.Same(t, a, sl.Light)
	assert.InDelta(t, 0.75, sl.P, 1e-12)

	sl, ok = ws.Sample(LightSampleContext{}, 0.9)
	require.True(t, ok)
	assert.Same(t, b, sl.Light)
	assert.InDelta(t, 0.25, sl.P, 1e-12)

	assert.InDelta(t, 0.25, ws.PMF(LightSampleContext{}, b), 1e-12)
	other := NewPointLight(mgl64.Vec3{}, core.NewConstantSpectrum(1), 1)
	assert.Zero(t, ws.PMF(LightSampleContext{}, other))
	assert.Contains(t, ws.String(), "75.0%")
}

func TestWeightedLightSampler_Misuse(t *testing.T) {
	a := NewPointLight(mgl64.Vec3{}, core.NewConstantSpectrum(1), 1)
	assert.Panics(t, func() { NewWeightedLightSampler([]Light{a}, []float64{1, 2}) })
	assert.Panics(t, func() { NewWeightedLightSampler([]Light{a}, []float64{-1}) })

	// All zero weights fall back to uniform
	ws := NewWeightedLightSampler([]Light{a}, []float64{0})
	assert.Equal(t, 1.0, ws.PMF(LightSampleContext{}, a))
}

func TestUniformLightSampler_Empty(t *testing.T) {
	ws := NewUniformLightSampler(nil)
	_, ok := ws.Sample(LightSampleContext{}, 0.4)
	assert.False(t, ok)
	assert.Equal(t, "WeightedLightSampler{no lights}", ws.String())
}

func TestPowerLightSampler(t *testing.T) {
	dim := NewPointLight(mgl64.Vec3{}, core.NewConstantSpectrum(1), 1)
	bright := NewPointLight(mgl64.Vec3{}, core.NewConstantSpectrum(3), 1)
	ws := NewPowerLightSampler([]Light{dim, bright})

	assert.InDelta(t, 0.25, ws.PMF(LightSampleContext{}, dim), 1e-12)
	assert.InDelta(t, 0.75, ws.PMF(LightSampleContext{}, bright), 1e-12)
}
