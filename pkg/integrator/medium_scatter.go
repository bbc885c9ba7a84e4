package integrator

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/lights"
	"github.com/go-gl/mathgl/mgl64"
)

const passSampleScattering = "Sample direct/indirect - phase function"

// RussianRouletteSurvival returns the termination probability q for a path
// with roulette throughput rrBeta at depth. apply is false while the path
// is not eligible for roulette.
func RussianRouletteSurvival(rrBeta core.SampledSpectrum, depth, minDepth int) (q float64, apply bool) {
	maxComponent := rrBeta.MaxComponentValue()
	if maxComponent >= 1 || depth <= minDepth {
		return 0, false
	}
	return math.Max(0, 1-maxComponent), true
}

// SampleMediumScattering performs next-event estimation and samples the
// continuation direction at every real scattering vertex
func (in *Integrator) SampleMediumScattering(depth int) error {
	rayQueue := in.RayQueue(depth)
	next := in.NextRayQueue(depth)
	return drain(in, passSampleScattering, depth, in.mediumScatterQueue, func(ms MediumScatterWorkItem, _ int) {
		rs := rayQueue.Samples(ms.RayIndex)
		in.sampleMediumDirect(ms, rs.Direct)
		in.sampleMediumIndirect(depth, ms, rs.Indirect, next)
	})
}

// sampleMediumDirect enqueues a shadow ray toward one sampled light. The MIS
// weight is resolved once the shadow ray's transmittance is known.
func (in *Integrator) sampleMediumDirect(ms MediumScatterWorkItem, u DirectSamples) {
	ctx := lights.LightSampleContext{P: ms.P}
	sampled, ok := in.lightSampler.Sample(ctx, u.Uc)
	if !ok || sampled.Light == nil {
		return
	}
	light := sampled.Light

	ls, ok := light.SampleLi(ctx, u.U, ms.Lambda, lights.WithMIS)
	if !ok || ls.L.IsZero() || ls.PDF == 0 {
		return
	}

	wi := ls.Wi
	beta := ms.Beta.MulScalar(ms.Phase.P(ms.Wo, wi))
	ld := beta.Mul(ls.L)
	if ld.IsZero() {
		return
	}

	lightPDF := ls.PDF * sampled.P
	phasePDF := 0.0
	if !lights.IsDeltaLight(light.Type()) {
		phasePDF = ms.Phase.PDF(ms.Wo, wi)
	}

	in.shadowRayQueue.Push(ShadowRayWorkItem{
		Ray:        core.Ray{Origin: ms.P, Direction: ls.PLight.Sub(ms.P), Time: ms.Time},
		TMax:       1 - core.ShadowEpsilon,
		Medium:     ms.Medium,
		Lambda:     ms.Lambda,
		Ld:         ld,
		PdfUni:     ms.PdfUni.MulScalar(phasePDF),
		PdfNEE:     ms.PdfUni.MulScalar(lightPDF),
		PixelIndex: ms.PixelIndex,
	})
}

// sampleMediumIndirect samples the phase function for the next ray and
// applies Russian roulette
func (in *Integrator) sampleMediumIndirect(depth int, ms MediumScatterWorkItem, u IndirectSamples, next *RayQueue) {
	ps, ok := ms.Phase.SampleP(ms.Wo, u.U)
	if !ok || ps.PDF == 0 {
		in.metrics.terminated(reasonPhaseSampleFailed)
		return
	}

	beta := ms.Beta.MulScalar(ps.P)
	pdfUni := ms.PdfUni.MulScalar(ps.PDF)
	pdfNEE := ms.PdfUni

	rrBeta := beta.MulScalar(ms.EtaScale).DivScalar(pdfUni.Average())
	if q, apply := RussianRouletteSurvival(rrBeta, depth, in.cfg.RussianRouletteMinDepth); apply {
		if u.Rr < q {
			in.metrics.terminated(reasonRoulette)
			return
		}
		pdfUni = pdfUni.MulScalar(1 - q)
		pdfNEE = pdfNEE.MulScalar(1 - q)
	}

	ray := core.Ray{Origin: ms.P, Direction: ps.Wi, Time: ms.Time}
	// Medium vertices have no surface normal
	var zero mgl64.Vec3
	next.PushIndirect(ray, ms.Medium, ms.P, zero, zero, beta, pdfUni, pdfNEE, ms.Lambda, ms.EtaScale,
		false, true, ms.PixelIndex)
}
