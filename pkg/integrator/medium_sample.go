package integrator

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/medium"
)

const passSampleMedium = "Sample medium interaction"

// stopReason says why a free-flight walk ended
type stopReason int

const (
	reachedEnd stopReason = iota
	absorbed
	scattered
)

func (r stopReason) String() string {
	switch r {
	case reachedEnd:
		return "reached-end"
	case absorbed:
		return "absorbed"
	case scattered:
		return "scattered"
	default:
		return "unknown"
	}
}

// stepResult is the outcome of one walk step: continue, or stop for a reason
type stepResult struct {
	stop   bool
	reason stopReason
}

func continueWalk() stepResult             { return stepResult{} }
func stopWalk(reason stopReason) stepResult { return stepResult{stop: true, reason: reason} }

// freeFlightWalk is the state threaded through the steps of one
// delta-tracking walk
type freeFlightWalk struct {
	rng      *core.RNG
	addLe    bool // Emission is only gathered below the maximum depth
	beta     core.SampledSpectrum
	pdfUni   core.SampledSpectrum
	pdfNEE   core.SampledSpectrum
	L        core.SampledSpectrum
	scatter  *medium.Interaction // Set when the walk stops with scattered
	nullHits int
}

func newFreeFlightWalk(ms MediumSampleWorkItem, depth, maxDepth int, rng *core.RNG) *freeFlightWalk {
	return &freeFlightWalk{
		rng:    rng,
		addLe:  depth < maxDepth,
		beta:   ms.Beta,
		pdfUni: ms.PdfUni,
		pdfNEE: ms.PdfNEE,
	}
}

// step consumes one majorant sample
func (w *freeFlightWalk) step(s medium.MajorantSample) stepResult {
	if s.Intr == nil {
		// Transmittance over the final interaction-free segment
		w.beta = w.beta.Mul(s.Tmaj)
		w.pdfUni = w.pdfUni.Mul(s.Tmaj)
		return stopWalk(reachedEnd)
	}

	intr := s.Intr
	sigmaA, sigmaS, sigmaMaj := intr.SigmaA, intr.SigmaS, intr.SigmaMaj

	// Emission is gathered at every candidate, weighted by the density of
	// reaching it, whichever event is chosen below
	if w.addLe && intr.Le.NonZero() {
		w.L = w.L.Add(w.beta.Mul(intr.Le).Mul(sigmaA).DivScalar(sigmaMaj[0] * w.pdfUni.Average()))
	}

	pAbsorb, pScatter, pNull := eventProbabilities(sigmaA, sigmaS, sigmaMaj)
	mode, _ := core.SampleDiscrete([]float64{pAbsorb, pScatter, pNull}, w.rng.Uniform())
	switch mode {
	case 0:
		w.beta = core.SampledSpectrum{}
		return stopWalk(absorbed)
	case 1:
		f := s.Tmaj.Mul(sigmaS)
		w.beta = w.beta.Mul(f)
		w.pdfUni = w.pdfUni.Mul(f)
		w.scatter = intr
		return stopWalk(scattered)
	default:
		f := s.Tmaj.Mul(intr.SigmaN())
		w.beta = w.beta.Mul(f)
		w.pdfUni = w.pdfUni.Mul(f)
		w.pdfNEE = w.pdfNEE.Mul(s.Tmaj.Mul(sigmaMaj))
		core.RescaleIfLarge(&w.beta, &w.pdfUni, &w.pdfNEE)
		w.nullHits++
		return continueWalk()
	}
}

// eventProbabilities returns the probabilities of absorption, real scattering
// and null scattering at a candidate, from the first wavelength. pNull is
// clamped at zero when the coefficients exceed the majorant.
func eventProbabilities(sigmaA, sigmaS, sigmaMaj core.SampledSpectrum) (pAbsorb, pScatter, pNull float64) {
	pAbsorb = sigmaA[0] / sigmaMaj[0]
	pScatter = sigmaS[0] / sigmaMaj[0]
	pNull = math.Max(0, 1-pAbsorb-pScatter)
	return pAbsorb, pScatter, pNull
}

// run drives the walk over the medium's majorant samples
func (w *freeFlightWalk) run(m medium.Medium, ms MediumSampleWorkItem) stopReason {
	result := stopWalk(reachedEnd)
	if m == nil {
		return result.reason
	}
	for s := range m.SampleFreeFlight(ms.Ray, ms.TMax, w.rng, ms.Lambda) {
		if result = w.step(s); result.stop {
			break
		}
	}
	return result.reason
}

// SampleMediumInteraction walks every queued ray segment through its medium,
// deciding whether the path is absorbed, scatters in the medium or reaches
// the end of the segment.
func (in *Integrator) SampleMediumInteraction(depth int) error {
	return drain(in, passSampleMedium, depth, in.mediumSampleQueue, func(ms MediumSampleWorkItem, _ int) {
		rng := core.NewRNG(core.HashFloat(ms.TMax), core.HashVec(ms.Ray.Direction))
		walk := newFreeFlightWalk(ms, depth, in.cfg.MaxDepth, rng)
		reason := walk.run(ms.Medium, ms)

		in.metrics.mediumEvent(eventNull, walk.nullHits)
		if walk.L.NonZero() {
			in.pixels.AddL(ms.PixelIndex, walk.L)
		}

		switch reason {
		case absorbed:
			in.metrics.mediumEvent(eventAbsorb, 1)
			in.metrics.terminated(reasonAbsorbed)
			return
		case scattered:
			in.metrics.mediumEvent(eventScatter, 1)
			in.mediumScatterQueue.Push(MediumScatterWorkItem{
				P:          walk.scatter.P,
				Lambda:     ms.Lambda,
				Beta:       walk.beta,
				PdfUni:     walk.pdfUni,
				RayIndex:   ms.RayIndex,
				Phase:      walk.scatter.Phase,
				Wo:         walk.scatter.Wo,
				Time:       ms.Ray.Time,
				EtaScale:   ms.EtaScale,
				Medium:     ms.Medium,
				PixelIndex: ms.PixelIndex,
			})
			return
		}

		if walk.beta.IsZero() {
			in.metrics.terminated(reasonZeroThroughput)
			return
		}
		in.forwardSegmentEnd(ms, walk.beta, walk.pdfUni, walk.pdfNEE)
	})
}

// forwardSegmentEnd routes a ray that crossed its medium without scattering
// to whatever is at the end of the segment
func (in *Integrator) forwardSegmentEnd(ms MediumSampleWorkItem, beta, pdfUni, pdfNEE core.SampledSpectrum) {
	ray := ms.Ray
	if math.IsInf(ms.TMax, 1) {
		if in.escapedRayQueue != nil {
			in.escapedRayQueue.Push(EscapedRayWorkItem{
				RayO:             ray.Origin,
				RayD:             ray.Direction,
				Lambda:           ms.Lambda,
				Beta:             beta,
				PdfUni:           pdfUni,
				PdfNEE:           pdfNEE,
				PiPrev:           ms.PiPrev,
				NPrev:            ms.NPrev,
				NsPrev:           ms.NsPrev,
				IsSpecularBounce: ms.IsSpecularBounce,
				PixelIndex:       ms.PixelIndex,
			})
		}
		return
	}

	hit := ms.Hit
	if hit.Material == nil {
		next := ms.Medium
		if hit.MediumInterface != nil {
			next = hit.MediumInterface.Select(ray.Direction, hit.N)
		}
		in.mediumTransitionQueue.Push(MediumTransitionWorkItem{
			Ray:                   core.SpawnRay(hit.P, hit.N, ray.Time, ray.Direction),
			Medium:                next,
			Lambda:                ms.Lambda,
			Beta:                  beta,
			PdfUni:                pdfUni,
			PdfNEE:                pdfNEE,
			PiPrev:                ms.PiPrev,
			NPrev:                 ms.NPrev,
			NsPrev:                ms.NsPrev,
			IsSpecularBounce:      ms.IsSpecularBounce,
			AnyNonSpecularBounces: ms.AnyNonSpecularBounces,
			EtaScale:              ms.EtaScale,
			PixelIndex:            ms.PixelIndex,
		})
		return
	}

	if hit.AreaLight != nil {
		in.hitAreaLightQueue.Push(HitAreaLightWorkItem{
			AreaLight:        hit.AreaLight,
			Lambda:           ms.Lambda,
			Beta:             beta,
			PdfUni:           pdfUni,
			PdfNEE:           pdfNEE,
			P:                hit.P,
			N:                hit.N,
			UV:               hit.UV,
			Wo:               ray.Direction.Mul(-1),
			PiPrev:           ms.PiPrev,
			RayD:             ray.Direction,
			Time:             ray.Time,
			NPrev:            ms.NPrev,
			NsPrev:           ms.NsPrev,
			IsSpecularBounce: ms.IsSpecularBounce,
			PixelIndex:       ms.PixelIndex,
		})
	}

	in.materialEvalQueues.Push(hit.Material, MaterialEvalWorkItem{
		Material:              hit.Material,
		Lambda:                ms.Lambda,
		Beta:                  beta,
		PdfUni:                pdfUni,
		P:                     hit.P,
		N:                     hit.N,
		Ns:                    hit.Ns,
		Dpdus:                 hit.Dpdus,
		Dpdvs:                 hit.Dpdvs,
		Wo:                    ray.Direction.Mul(-1),
		UV:                    hit.UV,
		Time:                  ray.Time,
		AnyNonSpecularBounces: ms.AnyNonSpecularBounces,
		EtaScale:              ms.EtaScale,
		MediumInterface:       hit.MediumInterface,
		RayIndex:              ms.RayIndex,
		PixelIndex:            ms.PixelIndex,
	})
}
