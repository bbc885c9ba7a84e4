package integrator

import (
	"github.com/df07/go-wavefront-media/pkg/core"
)

const passGenerateSamples = "Generate ray samples"

// GenerateRaySamples fills the samples of every ray in the depth's queue.
// Samples depend only on pixel, sample index, depth and seed, so a pass
// can be re-run with identical results.
func (in *Integrator) GenerateRaySamples(depth, sampleIndex int) error {
	rq := in.RayQueue(depth)
	return drain(in, passGenerateSamples, depth, rq.WorkQueue, func(r RayWorkItem, index int) {
		rng := core.NewRNG(core.Hash(uint64(r.PixelIndex), uint64(sampleIndex), uint64(depth)), in.cfg.Seed)
		rq.SetSamples(index, RaySamples{
			Direct: DirectSamples{
				Uc: rng.Uniform(),
				U:  rng.Get2D(),
			},
			Indirect: IndirectSamples{
				Uc: rng.Uniform(),
				U:  rng.Get2D(),
				Rr: rng.Uniform(),
			},
		})
	})
}
