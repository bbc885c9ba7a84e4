package lights

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// UniformInfiniteLight represents constant emission from every direction at infinity
type UniformInfiniteLight struct {
	lemit       core.Spectrum
	scale       float64
	worldCenter mgl64.Vec3 // Finite scene center
	worldRadius float64    // Finite scene radius
}

// NewUniformInfiniteLight creates a new uniform infinite light
func NewUniformInfiniteLight(lemit core.Spectrum, scale float64) *UniformInfiniteLight {
	return &UniformInfiniteLight{lemit: lemit, scale: scale, worldRadius: 1}
}

func (uil *UniformInfiniteLight) Type() LightType { return LightTypeInfinite }
func (uil *UniformInfiniteLight) IsDelta() bool   { return false }

// Preprocess implements Preprocessor - sets world bounds from scene
func (uil *UniformInfiniteLight) Preprocess(sceneBounds core.AABB) {
	uil.worldCenter, uil.worldRadius = sceneBounds.BoundingSphere()
}

// SampleLi samples the full sphere of directions uniformly
func (uil *UniformInfiniteLight) SampleLi(ctx LightSampleContext, u mgl64.Vec2, lambda core.SampledWavelengths, mode SamplingMode) (LightLiSample, bool) {
	wi := core.SampleUniformSphere(u)
	return LightLiSample{
		L:      core.SampleSpectrum(uil.lemit, lambda).MulScalar(uil.scale),
		Wi:     wi,
		PDF:    core.UniformSpherePDF(),
		PLight: ctx.P.Add(wi.Mul(2 * uil.worldRadius)),
	}, true
}

// PDFLi implements Light
func (uil *UniformInfiniteLight) PDFLi(ctx LightSampleContext, wi mgl64.Vec3, mode SamplingMode) float64 {
	return core.UniformSpherePDF()
}

func (uil *UniformInfiniteLight) L(p, n mgl64.Vec3, uv mgl64.Vec2, w mgl64.Vec3, lambda core.SampledWavelengths) core.SampledSpectrum {
	return core.SampledSpectrum{}
}

// Le implements Light - uniform emission regardless of direction
func (uil *UniformInfiniteLight) Le(ray core.Ray, lambda core.SampledWavelengths) core.SampledSpectrum {
	return core.SampleSpectrum(uil.lemit, lambda).MulScalar(uil.scale)
}

// Phi implements Light
func (uil *UniformInfiniteLight) Phi(lambda core.SampledWavelengths) core.SampledSpectrum {
	return core.SampleSpectrum(uil.lemit, lambda).MulScalar(4 * math.Pi * math.Pi * uil.worldRadius * uil.worldRadius * uil.scale)
}
