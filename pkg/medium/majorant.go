package medium

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// majorantSegment is a ray interval over which the majorant is constant
type majorantSegment struct {
	tMin, tMax float64
	sigmaMaj   core.SampledSpectrum
}

// pointSampler evaluates the medium at p for a given segment majorant
type pointSampler func(p mgl64.Vec3, sigmaMaj core.SampledSpectrum) Interaction

// sampleMajorants implements delta-tracking candidate generation shared by all
// media. ray must have a unit direction and segments must be ordered along it.
func sampleMajorants(ray core.Ray, segments []majorantSegment, rng *core.RNG, samplePoint pointSampler, yield func(MajorantSample) bool) {
	tMaj := core.NewSampledSpectrum(1)
	u := rng.Uniform()

	for _, seg := range segments {
		if seg.sigmaMaj[0] == 0 {
			tMaj = tMaj.Mul(segmentTransmittance(seg.tMax-seg.tMin, seg.sigmaMaj))
			continue
		}

		tMin := seg.tMin
		for {
			t := tMin + core.SampleExponential(u, seg.sigmaMaj[0])
			u = rng.Uniform()
			if t >= seg.tMax {
				tMaj = tMaj.Mul(segmentTransmittance(seg.tMax-tMin, seg.sigmaMaj))
				break
			}

			tMaj = tMaj.Mul(segmentTransmittance(t-tMin, seg.sigmaMaj))
			intr := samplePoint(ray.At(t), seg.sigmaMaj)
			intr.Wo = ray.Direction.Mul(-1)
			intr.Time = ray.Time
			if !yield(MajorantSample{Tmaj: tMaj, Intr: &intr}) {
				return
			}
			tMaj = core.NewSampledSpectrum(1)
			tMin = t
		}
	}

	yield(MajorantSample{Tmaj: tMaj})
}

// segmentTransmittance is exp(-dt*sigmaMaj), with infinite lengths clamped so
// that a zero majorant gives exactly one
func segmentTransmittance(dt float64, sigmaMaj core.SampledSpectrum) core.SampledSpectrum {
	if math.IsInf(dt, 1) {
		dt = math.MaxFloat64
	}
	var out core.SampledSpectrum
	for i, s := range sigmaMaj {
		if s == 0 {
			out[i] = 1
		} else {
			out[i] = math.Exp(-dt * s)
		}
	}
	return out
}

// normalizeRay rescales tMax so the walk can run on a unit-direction ray
func normalizeRay(ray core.Ray, tMax float64) (core.Ray, float64) {
	l := ray.Direction.Len()
	if l == 0 {
		return ray, 0
	}
	ray.Direction = ray.Direction.Mul(1 / l)
	return ray, tMax * l
}
