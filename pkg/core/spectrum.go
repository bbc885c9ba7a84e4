package core

import "math"

// NSpectrumSamples is the number of hero wavelengths carried by each path
const NSpectrumSamples = 4

// RescaleThreshold is the magnitude above which path spectra are rescaled.
// It is a power of two so that rescaling never loses precision.
const RescaleThreshold = 0x1p24

// SampledSpectrum holds a radiometric quantity evaluated at the wavelengths
// of a SampledWavelengths
type SampledSpectrum [NSpectrumSamples]float64

// NewSampledSpectrum returns a spectrum with every channel set to c
func NewSampledSpectrum(c float64) SampledSpectrum {
	return SampledSpectrum{c, c, c, c}
}

// Add returns the component-wise sum
func (s SampledSpectrum) Add(o SampledSpectrum) SampledSpectrum {
	for i := range s {
		s[i] += o[i]
	}
	return s
}

// Sub returns the component-wise difference
func (s SampledSpectrum) Sub(o SampledSpectrum) SampledSpectrum {
	for i := range s {
		s[i] -= o[i]
	}
	return s
}

// Mul returns the component-wise product
func (s SampledSpectrum) Mul(o SampledSpectrum) SampledSpectrum {
	for i := range s {
		s[i] *= o[i]
	}
	return s
}

// MulScalar scales every channel by f
func (s SampledSpectrum) MulScalar(f float64) SampledSpectrum {
	for i := range s {
		s[i] *= f
	}
	return s
}

// Div returns the component-wise quotient; channels with a zero divisor are zero
func (s SampledSpectrum) Div(o SampledSpectrum) SampledSpectrum {
	for i := range s {
		if o[i] != 0 {
			s[i] /= o[i]
		} else {
			s[i] = 0
		}
	}
	return s
}

// DivScalar divides every channel by f, returning zero when f is zero
func (s SampledSpectrum) DivScalar(f float64) SampledSpectrum {
	if f == 0 {
		return SampledSpectrum{}
	}
	return s.MulScalar(1 / f)
}

// Exp returns e^s component-wise
func (s SampledSpectrum) Exp() SampledSpectrum {
	for i := range s {
		s[i] = math.Exp(s[i])
	}
	return s
}

// ClampZero replaces negative channels with zero
func (s SampledSpectrum) ClampZero() SampledSpectrum {
	for i := range s {
		s[i] = math.Max(0, s[i])
	}
	return s
}

// Average returns the mean of all channels
func (s SampledSpectrum) Average() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum / NSpectrumSamples
}

// MaxComponentValue returns the largest channel
func (s SampledSpectrum) MaxComponentValue() float64 {
	m := s[0]
	for _, v := range s[1:] {
		m = math.Max(m, v)
	}
	return m
}

// MinComponentValue returns the smallest channel
func (s SampledSpectrum) MinComponentValue() float64 {
	m := s[0]
	for _, v := range s[1:] {
		m = math.Min(m, v)
	}
	return m
}

// NonZero reports whether any channel is non-zero
func (s SampledSpectrum) NonZero() bool {
	for _, v := range s {
		if v != 0 {
			return true
		}
	}
	return false
}

// IsZero reports whether every channel is zero
func (s SampledSpectrum) IsZero() bool {
	return !s.NonZero()
}

// HasNaN reports whether any channel is NaN
func (s SampledSpectrum) HasNaN() bool {
	for _, v := range s {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// RescaleIfLarge divides beta, pdfUni and pdfNEE by RescaleThreshold when any
// of them has a channel above it. Repeated null scattering drives all three
// towards large magnitudes while their ratios stay near one; the shared
// power-of-two divisor keeps the ratios bit-exact.
func RescaleIfLarge(beta, pdfUni, pdfNEE *SampledSpectrum) bool {
	if beta.MaxComponentValue() <= RescaleThreshold &&
		pdfUni.MaxComponentValue() <= RescaleThreshold &&
		pdfNEE.MaxComponentValue() <= RescaleThreshold {
		return false
	}
	const inv = 1 / RescaleThreshold
	*beta = beta.MulScalar(inv)
	*pdfUni = pdfUni.MulScalar(inv)
	*pdfNEE = pdfNEE.MulScalar(inv)
	return true
}
