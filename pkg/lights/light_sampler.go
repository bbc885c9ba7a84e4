package lights

import (
	"fmt"
	"strings"

	"github.com/df07/go-wavefront-media/pkg/core"
)

// WeightedLightSampler selects lights with fixed probabilities that do not
// depend on the reference point. Weights match the order of lights.
type WeightedLightSampler struct {
	lights  []Light
	weights []float64
	index   map[Light]int
}

// NewWeightedLightSampler creates a light sampler with specified weights.
// weights will be normalized to sum to 1.
func NewWeightedLightSampler(lights []Light, weights []float64) *WeightedLightSampler {
	if len(lights) != len(weights) {
		panic(fmt.Sprintf("lights length (%d) must match weights length (%d)", len(lights), len(weights)))
	}

	normalized := make([]float64, len(weights))
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			panic("weights must be non-negative")
		}
		total += w
	}
	for i, w := range weights {
		if total == 0 {
			normalized[i] = 1 / float64(len(weights))
		} else {
			normalized[i] = w / total
		}
	}

	index := make(map[Light]int, len(lights))
	for i, l := range lights {
		index[l] = i
	}
	return &WeightedLightSampler{lights: lights, weights: normalized, index: index}
}

// NewUniformLightSampler gives every light the same selection probability
func NewUniformLightSampler(lights []Light) *WeightedLightSampler {
	weights := make([]float64, len(lights))
	for i := range weights {
		weights[i] = 1
	}
	return NewWeightedLightSampler(lights, weights)
}

// NewPowerLightSampler weights lights by their emitted power averaged over
// the visible range
func NewPowerLightSampler(lights []Light) *WeightedLightSampler {
	lambda := core.SampleUniformWavelengths(0.5)
	weights := make([]float64, len(lights))
	for i, l := range lights {
		weights[i] = l.Phi(lambda).ClampZero().Average()
	}
	return NewWeightedLightSampler(lights, weights)
}

// Sample implements LightSampler
func (ws *WeightedLightSampler) Sample(ctx LightSampleContext, u float64) (SampledLight, bool) {
	i, pmf := core.SampleDiscrete(ws.weights, u)
	if i < 0 {
		return SampledLight{}, false
	}
	return SampledLight{Light: ws.lights[i], P: pmf}, true
}

// PMF implements LightSampler
func (ws *WeightedLightSampler) PMF(ctx LightSampleContext, light Light) float64 {
	i, ok := ws.index[light]
	if !ok {
		return 0
	}
	return ws.weights[i]
}

// Lights returns the lights this sampler chooses between
func (ws *WeightedLightSampler) Lights() []Light {
	return ws.lights
}

// String returns a string representation for debugging
func (ws *WeightedLightSampler) String() string {
	if len(ws.lights) == 0 {
		return "WeightedLightSampler{no lights}"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "WeightedLightSampler{%d lights with fixed weights:\n", len(ws.lights))
	for i, l := range ws.lights {
		fmt.Fprintf(&b, "  [%d] %s: %.1f%%\n", i, l.Type(), ws.weights[i]*100)
	}
	b.WriteString("}")
	return b.String()
}
