package medium

import (
	"iter"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// HomogeneousMedium has the same coefficients everywhere, so its majorant is
// the true extinction and every null-collision probability is zero
type HomogeneousMedium struct {
	sigmaA  core.Spectrum
	sigmaS  core.Spectrum
	scale   float64
	le      core.Spectrum
	leScale float64
	phase   *HGPhaseFunction
}

// NewHomogeneousMedium creates a medium with absorption sigmaA and scattering
// sigmaS (both multiplied by scale) and Henyey-Greenstein asymmetry g.
// le may be nil for a non-emissive medium.
func NewHomogeneousMedium(sigmaA, sigmaS core.Spectrum, scale float64, le core.Spectrum, leScale, g float64) *HomogeneousMedium {
	return &HomogeneousMedium{
		sigmaA:  sigmaA,
		sigmaS:  sigmaS,
		scale:   scale,
		le:      le,
		leScale: leScale,
		phase:   NewHGPhaseFunction(g),
	}
}

// IsEmissive implements Medium
func (hm *HomogeneousMedium) IsEmissive() bool {
	return hm.le != nil && hm.leScale > 0
}

// SampleFreeFlight implements Medium
func (hm *HomogeneousMedium) SampleFreeFlight(ray core.Ray, tMax float64, rng *core.RNG, lambda core.SampledWavelengths) iter.Seq[MajorantSample] {
	return func(yield func(MajorantSample) bool) {
		sigmaA := core.SampleSpectrum(hm.sigmaA, lambda).MulScalar(hm.scale)
		sigmaS := core.SampleSpectrum(hm.sigmaS, lambda).MulScalar(hm.scale)
		var le core.SampledSpectrum
		if hm.IsEmissive() {
			le = core.SampleSpectrum(hm.le, lambda).MulScalar(hm.leScale)
		}

		ray, tMax := normalizeRay(ray, tMax)
		segments := []majorantSegment{{tMin: 0, tMax: tMax, sigmaMaj: sigmaA.Add(sigmaS)}}
		sampleMajorants(ray, segments, rng, func(p mgl64.Vec3, sigmaMaj core.SampledSpectrum) Interaction {
			return Interaction{
				P:        p,
				SigmaA:   sigmaA,
				SigmaS:   sigmaS,
				SigmaMaj: sigmaMaj,
				Le:       le,
				Phase:    hm.phase,
			}
		}, yield)
	}
}
