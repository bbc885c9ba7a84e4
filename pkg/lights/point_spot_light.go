package lights

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// PointLight emits intensity I uniformly in all directions from a point
type PointLight struct {
	position mgl64.Vec3
	i        core.Spectrum
	scale    float64
}

// NewPointLight creates a point light at position with intensity i*scale
func NewPointLight(position mgl64.Vec3, i core.Spectrum, scale float64) *PointLight {
	return &PointLight{position: position, i: i, scale: scale}
}

func (pl *PointLight) Type() LightType { return LightTypeDeltaPosition }
func (pl *PointLight) IsDelta() bool   { return true }

// SampleLi implements Light
func (pl *PointLight) SampleLi(ctx LightSampleContext, u mgl64.Vec2, lambda core.SampledWavelengths, mode SamplingMode) (LightLiSample, bool) {
	toLight := pl.position.Sub(ctx.P)
	dist2 := toLight.LenSqr()
	if dist2 == 0 {
		return LightLiSample{}, false
	}
	li := core.SampleSpectrum(pl.i, lambda).MulScalar(pl.scale / dist2)
	return LightLiSample{
		L:      li,
		Wi:     toLight.Mul(1 / math.Sqrt(dist2)),
		PDF:    1,
		PLight: pl.position,
	}, true
}

// PDFLi implements Light; delta lights cannot be hit by chance
func (pl *PointLight) PDFLi(ctx LightSampleContext, wi mgl64.Vec3, mode SamplingMode) float64 {
	return 0
}

func (pl *PointLight) L(p, n mgl64.Vec3, uv mgl64.Vec2, w mgl64.Vec3, lambda core.SampledWavelengths) core.SampledSpectrum {
	return core.SampledSpectrum{}
}

func (pl *PointLight) Le(ray core.Ray, lambda core.SampledWavelengths) core.SampledSpectrum {
	return core.SampledSpectrum{}
}

// Phi implements Light
func (pl *PointLight) Phi(lambda core.SampledWavelengths) core.SampledSpectrum {
	return core.SampleSpectrum(pl.i, lambda).MulScalar(4 * math.Pi * pl.scale)
}

// SpotLight is a point light restricted to a cone with a smooth falloff
type SpotLight struct {
	PointLight
	direction       mgl64.Vec3 // Normalized direction vector (from -> to)
	cosTotalWidth   float64    // Cosine of total cone angle (outer edge)
	cosFalloffStart float64    // Cosine of falloff start angle (inner cone)
}

// NewSpotLight creates a spot light at from aimed at to. coneAngleDegrees is
// the total cone half-angle and coneDeltaAngleDegrees the width of the falloff band.
func NewSpotLight(from, to mgl64.Vec3, i core.Spectrum, scale, coneAngleDegrees, coneDeltaAngleDegrees float64) *SpotLight {
	return &SpotLight{
		PointLight:      PointLight{position: from, i: i, scale: scale},
		direction:       core.SafeNormalize(to.Sub(from)),
		cosTotalWidth:   math.Cos(mgl64.DegToRad(coneAngleDegrees)),
		cosFalloffStart: math.Cos(mgl64.DegToRad(coneAngleDegrees - coneDeltaAngleDegrees)),
	}
}

// SampleLi implements Light
func (sl *SpotLight) SampleLi(ctx LightSampleContext, u mgl64.Vec2, lambda core.SampledWavelengths, mode SamplingMode) (LightLiSample, bool) {
	ls, ok := sl.PointLight.SampleLi(ctx, u, lambda, mode)
	if !ok {
		return ls, false
	}
	ls.L = ls.L.MulScalar(sl.falloff(sl.direction.Dot(ls.Wi.Mul(-1))))
	if ls.L.IsZero() {
		return LightLiSample{}, false
	}
	return ls, true
}

// Phi implements Light
func (sl *SpotLight) Phi(lambda core.SampledWavelengths) core.SampledSpectrum {
	solidAngle := 2 * math.Pi * ((1 - sl.cosFalloffStart) + (sl.cosFalloffStart-sl.cosTotalWidth)/2)
	return core.SampleSpectrum(sl.i, lambda).MulScalar(sl.scale * solidAngle)
}

// falloff is 1 inside the inner cone, 0 outside the outer cone and a
// smoothstep ramp in between
func (sl *SpotLight) falloff(cosAngle float64) float64 {
	return core.SmoothStep(cosAngle, sl.cosTotalWidth, sl.cosFalloffStart)
}
