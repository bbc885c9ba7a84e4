package integrator

import (
	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/lights"
	"github.com/df07/go-wavefront-media/pkg/medium"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	passShadowRays    = "Trace shadow rays"
	passEscapedRays   = "Handle escaped rays"
	passEmitterHits   = "Handle emitters hit by indirect rays"
	rouletteThreshold = 0.05
)

// TraceShadowRays resolves visibility and transmittance of every queued
// shadow ray and adds the MIS-weighted contribution of unoccluded ones
func (in *Integrator) TraceShadowRays(depth int) error {
	return drain(in, passShadowRays, depth, in.shadowRayQueue, func(sr ShadowRayWorkItem, _ int) {
		if in.scene.Occluder != nil && in.scene.Occluder.Occluded(sr.Ray, sr.TMax) {
			return
		}
		tRay, rU, rL := traceTransmittance(sr)
		if tRay.IsZero() {
			return
		}
		denom := sr.PdfUni.Mul(rU).Add(sr.PdfNEE.Mul(rL)).Average()
		if denom == 0 {
			return
		}
		in.pixels.AddL(sr.PixelIndex, sr.Ld.Mul(tRay).DivScalar(denom))
	})
}

// traceTransmittance ratio-tracks the shadow ray through its medium. It
// returns the transmittance estimate and the rescaled unidirectional and
// light path densities used for the MIS weight.
func traceTransmittance(sr ShadowRayWorkItem) (tRay, rU, rL core.SampledSpectrum) {
	one := core.NewSampledSpectrum(1)
	tRay, rU, rL = one, one, one
	if sr.Medium == nil {
		return tRay, rU, rL
	}

	rng := core.NewRNG(core.HashVec(sr.Ray.Origin), core.HashVec(sr.Ray.Direction))
	for s := range sr.Medium.SampleFreeFlight(sr.Ray, sr.TMax, rng, sr.Lambda) {
		if s.Intr == nil {
			if s.Tmaj[0] == 0 {
				return core.SampledSpectrum{}, rU, rL
			}
			f := s.Tmaj.DivScalar(s.Tmaj[0])
			return tRay.Mul(f), rU.Mul(f), rL.Mul(f)
		}
		if !ratioTrackStep(s, rng, &tRay, &rU, &rL) {
			return core.SampledSpectrum{}, rU, rL
		}
	}
	return tRay, rU, rL
}

// ratioTrackStep applies one null collision to the ratio-tracking estimate,
// with roulette once the estimate gets small. It reports whether tracking
// should continue.
func ratioTrackStep(s medium.MajorantSample, rng *core.RNG, tRay, rU, rL *core.SampledSpectrum) bool {
	intr := s.Intr
	sigmaN := intr.SigmaN()
	pdf := s.Tmaj[0] * intr.SigmaMaj[0]
	if pdf == 0 {
		*tRay = core.SampledSpectrum{}
		return false
	}
	*tRay = tRay.Mul(s.Tmaj.Mul(sigmaN)).DivScalar(pdf)
	*rL = rL.Mul(s.Tmaj.Mul(intr.SigmaMaj)).DivScalar(pdf)
	*rU = rU.Mul(s.Tmaj.Mul(sigmaN)).DivScalar(pdf)

	tr := tRay.DivScalar(rL.Add(*rU).Average())
	if tr.MaxComponentValue() < rouletteThreshold {
		if rng.Uniform() < 0.75 {
			*tRay = core.SampledSpectrum{}
		} else {
			*tRay = tRay.DivScalar(0.25)
		}
	}
	return tRay.NonZero()
}

// HandleEscapedRays adds the emission of infinite lights seen by rays that
// left the scene
func (in *Integrator) HandleEscapedRays(depth int) error {
	if in.escapedRayQueue == nil {
		return nil
	}
	return drain(in, passEscapedRays, depth, in.escapedRayQueue, func(er EscapedRayWorkItem, _ int) {
		ray := core.NewRay(er.RayO, er.RayD)
		wi := core.SafeNormalize(er.RayD)
		ctx := lights.LightSampleContext{P: er.PiPrev, N: er.NPrev, Ns: er.NsPrev}

		var l core.SampledSpectrum
		for _, light := range in.infiniteLights {
			le := light.Le(ray, er.Lambda)
			if le.IsZero() {
				continue
			}
			l = l.Add(in.weightEmission(depth, er.IsSpecularBounce, er.Beta, er.PdfUni, er.PdfNEE, le, light, ctx, wi))
		}
		if l.NonZero() {
			in.pixels.AddL(er.PixelIndex, l)
		}
	})
}

// HandleEmissiveIntersection adds the emission of area lights hit by rays
func (in *Integrator) HandleEmissiveIntersection(depth int) error {
	return drain(in, passEmitterHits, depth, in.hitAreaLightQueue, func(w HitAreaLightWorkItem, _ int) {
		le := w.AreaLight.L(w.P, w.N, w.UV, w.Wo, w.Lambda)
		if le.IsZero() {
			return
		}
		ctx := lights.LightSampleContext{P: w.PiPrev, N: w.NPrev, Ns: w.NsPrev}
		l := in.weightEmission(depth, w.IsSpecularBounce, w.Beta, w.PdfUni, w.PdfNEE, le, w.AreaLight, ctx, core.SafeNormalize(w.RayD))
		if l.NonZero() {
			in.pixels.AddL(w.PixelIndex, l)
		}
	})
}

// weightEmission applies the MIS weight for emission found by a
// unidirectional path. Camera rays and specular bounces could not have been
// light sampled, so they take the emission unweighted.
func (in *Integrator) weightEmission(depth int, specular bool, beta, pdfUni, pdfNEE, le core.SampledSpectrum,
	light lights.Light, ctx lights.LightSampleContext, wi mgl64.Vec3) core.SampledSpectrum {
	if depth == 0 || specular {
		return beta.Mul(le).DivScalar(pdfUni.Average())
	}
	lightChoicePDF := in.lightSampler.PMF(ctx, light)
	pdfNEE = pdfNEE.MulScalar(lightChoicePDF * light.PDFLi(ctx, wi, lights.WithMIS))
	return beta.Mul(le).DivScalar(pdfUni.Add(pdfNEE).Average())
}
