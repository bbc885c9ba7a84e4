package core

import "math"

// Visible wavelength range in nanometers used for hero wavelength sampling
const (
	LambdaMin = 360.0
	LambdaMax = 830.0
)

// SampledWavelengths is the set of hero wavelengths a path carries. It is
// created once per camera sample and never modified afterwards.
type SampledWavelengths struct {
	lambda [NSpectrumSamples]float64
	pdf    [NSpectrumSamples]float64
}

// SampleUniformWavelengths stratifies NSpectrumSamples wavelengths over the
// visible range starting from the single uniform variate u
func SampleUniformWavelengths(u float64) SampledWavelengths {
	var swl SampledWavelengths
	span := LambdaMax - LambdaMin
	swl.lambda[0] = LambdaMin + u*span
	delta := span / NSpectrumSamples
	for i := 1; i < NSpectrumSamples; i++ {
		swl.lambda[i] = swl.lambda[i-1] + delta
		if swl.lambda[i] > LambdaMax {
			swl.lambda[i] = LambdaMin + (swl.lambda[i] - LambdaMax)
		}
	}
	for i := range swl.pdf {
		swl.pdf[i] = 1 / span
	}
	return swl
}

// Lambda returns the i-th wavelength in nanometers
func (swl SampledWavelengths) Lambda(i int) float64 {
	return swl.lambda[i]
}

// PDF returns the sampling density of every wavelength
func (swl SampledWavelengths) PDF() SampledSpectrum {
	return SampledSpectrum(swl.pdf)
}

// Spectrum is a continuous spectral distribution
type Spectrum interface {
	Evaluate(lambda float64) float64
}

// SampleSpectrum evaluates s at each of the hero wavelengths
func SampleSpectrum(s Spectrum, swl SampledWavelengths) SampledSpectrum {
	var out SampledSpectrum
	if s == nil {
		return out
	}
	for i := range out {
		out[i] = s.Evaluate(swl.lambda[i])
	}
	return out
}

// ConstantSpectrum has the same value at every wavelength
type ConstantSpectrum struct {
	C float64
}

// NewConstantSpectrum creates a constant spectrum
func NewConstantSpectrum(c float64) *ConstantSpectrum {
	return &ConstantSpectrum{C: c}
}

// Evaluate returns the constant value
func (cs *ConstantSpectrum) Evaluate(lambda float64) float64 {
	return cs.C
}

// BlackbodySpectrum is Planck's law normalized so its peak is 1
type BlackbodySpectrum struct {
	T          float64
	normFactor float64
}

// NewBlackbodySpectrum creates a normalized blackbody emitter at temperature T (Kelvin)
func NewBlackbodySpectrum(T float64) *BlackbodySpectrum {
	lambdaMax := 2.8977721e-3 / T
	return &BlackbodySpectrum{
		T:          T,
		normFactor: 1 / blackbody(lambdaMax*1e9, T),
	}
}

// Evaluate returns the normalized emitted radiance at lambda nanometers
func (bb *BlackbodySpectrum) Evaluate(lambda float64) float64 {
	return blackbody(lambda, bb.T) * bb.normFactor
}

func blackbody(lambda, T float64) float64 {
	if T <= 0 {
		return 0
	}
	const (
		c  = 299792458.0
		h  = 6.62606957e-34
		kb = 1.3806488e-23
	)
	l := lambda * 1e-9
	return (2 * h * c * c) / (math.Pow(l, 5) * (math.Exp((h*c)/(l*kb*T)) - 1))
}
