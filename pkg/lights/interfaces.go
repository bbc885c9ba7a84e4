// Package lights defines the light sources and light-selection distributions
// used for next-event estimation.
package lights

import (
	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

type LightType int

const (
	LightTypeDeltaPosition LightType = iota
	LightTypeDeltaDirection
	LightTypeArea
	LightTypeInfinite
)

func (lt LightType) String() string {
	switch lt {
	case LightTypeDeltaPosition:
		return "delta-position"
	case LightTypeDeltaDirection:
		return "delta-direction"
	case LightTypeArea:
		return "area"
	case LightTypeInfinite:
		return "infinite"
	default:
		return "unknown"
	}
}

// IsDeltaLight reports whether lights of this type can only be reached by light sampling
func IsDeltaLight(lt LightType) bool {
	return lt == LightTypeDeltaPosition || lt == LightTypeDeltaDirection
}

// SamplingMode tells a light whether its sample will be combined with MIS
type SamplingMode int

const (
	WithoutMIS SamplingMode = iota
	WithMIS
)

// LightSampleContext is the receiving point of a light sample. Medium
// vertices have zero normals.
type LightSampleContext struct {
	P  mgl64.Vec3
	N  mgl64.Vec3
	Ns mgl64.Vec3
}

// LightLiSample is incident radiance sampled from a light
type LightLiSample struct {
	L      core.SampledSpectrum // Incident radiance
	Wi     mgl64.Vec3           // Unit direction from the receiving point toward the light
	PDF    float64              // Solid angle density (1 for delta lights)
	PLight mgl64.Vec3           // Sampled point on the light
	NLight mgl64.Vec3           // Light surface normal at PLight, zero for point lights
}

// Light interface for sources that can be sampled for direct lighting
type Light interface {
	Type() LightType

	// IsDelta reports whether the light is a delta distribution
	IsDelta() bool

	// SampleLi samples incident radiance at ctx; ok is false when no
	// contribution is possible
	SampleLi(ctx LightSampleContext, u mgl64.Vec2, lambda core.SampledWavelengths, mode SamplingMode) (LightLiSample, bool)

	// PDFLi is the solid angle density with which SampleLi would choose wi
	PDFLi(ctx LightSampleContext, wi mgl64.Vec3, mode SamplingMode) float64

	// L is the radiance leaving an area light's surface point p (normal n) in direction w
	L(p, n mgl64.Vec3, uv mgl64.Vec2, w mgl64.Vec3, lambda core.SampledWavelengths) core.SampledSpectrum

	// Le is the radiance an infinite light contributes to an escaping ray
	Le(ray core.Ray, lambda core.SampledWavelengths) core.SampledSpectrum

	// Phi is the total emitted power, used by power-based light selection
	Phi(lambda core.SampledWavelengths) core.SampledSpectrum
}

// Preprocessor is implemented by lights that need the scene bounds
type Preprocessor interface {
	Preprocess(sceneBounds core.AABB)
}

// SampledLight is a light chosen by a LightSampler with its selection probability
type SampledLight struct {
	Light Light
	P     float64
}

// LightSampler interface for different light selection strategies
type LightSampler interface {
	// Sample picks a light for the receiving point; ok is false when there are no lights
	Sample(ctx LightSampleContext, u float64) (SampledLight, bool)

	// PMF returns the probability that Sample picks light at ctx
	PMF(ctx LightSampleContext, light Light) float64
}
