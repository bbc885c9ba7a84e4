package medium

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// HGPhaseFunction is the Henyey-Greenstein phase function with asymmetry g
type HGPhaseFunction struct {
	g float64
}

// NewHGPhaseFunction creates an HG phase function; g in (-1, 1), 0 is isotropic
func NewHGPhaseFunction(g float64) *HGPhaseFunction {
	return &HGPhaseFunction{g: g}
}

// G returns the asymmetry parameter
func (hg *HGPhaseFunction) G() float64 {
	return hg.g
}

// P implements PhaseFunction
func (hg *HGPhaseFunction) P(wo, wi mgl64.Vec3) float64 {
	return HenyeyGreenstein(wo.Dot(wi), hg.g)
}

// PDF implements PhaseFunction; HG is sampled exactly so PDF equals P
func (hg *HGPhaseFunction) PDF(wo, wi mgl64.Vec3) float64 {
	return hg.P(wo, wi)
}

// SampleP implements PhaseFunction
func (hg *HGPhaseFunction) SampleP(wo mgl64.Vec3, u mgl64.Vec2) (PhaseFunctionSample, bool) {
	wi, pdf := SampleHenyeyGreenstein(wo, hg.g, u)
	if pdf == 0 || math.IsNaN(pdf) {
		return PhaseFunctionSample{}, false
	}
	return PhaseFunctionSample{P: pdf, Wi: wi, PDF: pdf}, true
}

// HenyeyGreenstein evaluates the HG distribution for the cosine between wo and wi
func HenyeyGreenstein(cosTheta, g float64) float64 {
	g = mgl64.Clamp(g, -0.99, 0.99)
	denom := 1 + g*g + 2*g*cosTheta
	if denom <= 0 {
		return 0
	}
	return core.Inv4Pi * (1 - g*g) / (denom * math.Sqrt(denom))
}

// SampleHenyeyGreenstein samples wi with density HenyeyGreenstein(wo·wi, g)
func SampleHenyeyGreenstein(wo mgl64.Vec3, g float64, u mgl64.Vec2) (mgl64.Vec3, float64) {
	// cosTheta is numerically unstable as |g| approaches 1
	g = mgl64.Clamp(g, -0.99, 0.99)

	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u[0]
	} else {
		sq := (1 - g*g) / (1 + g - 2*g*u[0])
		cosTheta = -1 / (2 * g) * (1 + g*g - sq*sq)
	}
	cosTheta = mgl64.Clamp(cosTheta, -1, 1)

	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u[1]
	frame := core.FrameFromZ(core.SafeNormalize(wo))
	wi := frame.FromLocal(core.SphericalDirection(sinTheta, cosTheta, phi))

	return wi, HenyeyGreenstein(cosTheta, g)
}
