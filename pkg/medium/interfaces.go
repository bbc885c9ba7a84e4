// Package medium defines participating media and the majorant-driven
// free-flight sampling they expose to the transport passes.
package medium

import (
	"iter"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Medium is a participating medium with a majorant-bounded extinction field
type Medium interface {
	// IsEmissive reports whether any point of the medium emits
	IsEmissive() bool

	// SampleFreeFlight walks ray over [0, tMax] by sampling candidate points
	// from the majorant. Each candidate is yielded with the majorant
	// transmittance since the previous one; a final sample with a nil
	// Interaction carries the transmittance over the remaining interaction-free
	// segment. Stopping the iteration stops the walk.
	SampleFreeFlight(ray core.Ray, tMax float64, rng *core.RNG, lambda core.SampledWavelengths) iter.Seq[MajorantSample]
}

// MajorantSample is one step of a free-flight walk
type MajorantSample struct {
	Tmaj core.SampledSpectrum // Majorant transmittance since the previous step
	Intr *Interaction         // Nil once the end of the ray is reached
}

// Interaction describes the medium at a sampled point
type Interaction struct {
	P        mgl64.Vec3
	Wo       mgl64.Vec3 // Unit direction back along the ray
	Time     float64
	SigmaA   core.SampledSpectrum
	SigmaS   core.SampledSpectrum
	SigmaMaj core.SampledSpectrum
	Le       core.SampledSpectrum
	Phase    PhaseFunction
}

// SigmaN returns the null-collision coefficient, clamped to be non-negative
func (mi *Interaction) SigmaN() core.SampledSpectrum {
	return mi.SigmaMaj.Sub(mi.SigmaA).Sub(mi.SigmaS).ClampZero()
}

// PhaseFunction describes angular scattering at a medium point. wo and wi
// both point away from the scattering point.
type PhaseFunction interface {
	P(wo, wi mgl64.Vec3) float64
	PDF(wo, wi mgl64.Vec3) float64
	SampleP(wo mgl64.Vec3, u mgl64.Vec2) (PhaseFunctionSample, bool)
}

// PhaseFunctionSample is a sampled incident direction
type PhaseFunctionSample struct {
	P   float64
	Wi  mgl64.Vec3
	PDF float64
}

// MediumInterface records the media on either side of a surface. The
// outside is the side the geometric normal points into.
type MediumInterface struct {
	Inside  Medium
	Outside Medium
}

// NewMediumInterface creates an interface with the same medium on both sides
func NewMediumInterface(m Medium) MediumInterface {
	return MediumInterface{Inside: m, Outside: m}
}

// IsTransition reports whether crossing the surface changes the medium
func (mi MediumInterface) IsTransition() bool {
	return mi.Inside != mi.Outside
}

// Select returns the medium a ray leaving the surface in direction w enters
func (mi MediumInterface) Select(w, n mgl64.Vec3) Medium {
	if w.Dot(n) > 0 {
		return mi.Outside
	}
	return mi.Inside
}
