// Package film holds the per-pixel radiance accumulator that every pass of a
// frame adds into.
package film

import (
	"math"
	"sync/atomic"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/google/uuid"
)

// atomicSpectrum stores float64 bits so each channel can be added with CAS
type atomicSpectrum [core.NSpectrumSamples]atomic.Uint64

func (as *atomicSpectrum) add(s core.SampledSpectrum) {
	for i, v := range s {
		if v == 0 {
			continue
		}
		for {
			old := as[i].Load()
			next := math.Float64bits(math.Float64frombits(old) + v)
			if as[i].CompareAndSwap(old, next) {
				break
			}
		}
	}
}

func (as *atomicSpectrum) load() core.SampledSpectrum {
	var s core.SampledSpectrum
	for i := range s {
		s[i] = math.Float64frombits(as[i].Load())
	}
	return s
}

func (as *atomicSpectrum) reset() {
	for i := range as {
		as[i].Store(0)
	}
}

// PixelSampleState is the radiance accumulator for one frame. Any number of
// passes may add to the same pixel concurrently; reads are only meaningful
// after every depth of the frame has drained.
type PixelSampleState struct {
	frameID uuid.UUID
	l       []atomicSpectrum
	lambda  []core.SampledWavelengths
	samples []atomic.Int64
}

// NewPixelSampleState creates an accumulator for numPixels pixels and starts a frame
func NewPixelSampleState(numPixels int) *PixelSampleState {
	ps := &PixelSampleState{
		l:       make([]atomicSpectrum, numPixels),
		lambda:  make([]core.SampledWavelengths, numPixels),
		samples: make([]atomic.Int64, numPixels),
	}
	ps.frameID = uuid.New()
	return ps
}

// Reset clears every pixel and assigns a new frame id. It must not run
// concurrently with any pass.
func (ps *PixelSampleState) Reset() {
	for i := range ps.l {
		ps.l[i].reset()
		ps.samples[i].Store(0)
	}
	ps.frameID = uuid.New()
}

// FrameID identifies the frame currently being accumulated
func (ps *PixelSampleState) FrameID() uuid.UUID {
	return ps.frameID
}

// NumPixels returns the number of pixels tracked
func (ps *PixelSampleState) NumPixels() int {
	return len(ps.l)
}

// AddL atomically adds radiance to a pixel
func (ps *PixelSampleState) AddL(pixelIndex int, l core.SampledSpectrum) {
	ps.l[pixelIndex].add(l)
}

// L returns the radiance accumulated at a pixel
func (ps *PixelSampleState) L(pixelIndex int) core.SampledSpectrum {
	return ps.l[pixelIndex].load()
}

// SetWavelengths records the wavelengths of the camera sample started at a pixel
func (ps *PixelSampleState) SetWavelengths(pixelIndex int, lambda core.SampledWavelengths) {
	ps.lambda[pixelIndex] = lambda
	ps.samples[pixelIndex].Add(1)
}

// Wavelengths returns the wavelengths of the pixel's current camera sample
func (ps *PixelSampleState) Wavelengths(pixelIndex int) core.SampledWavelengths {
	return ps.lambda[pixelIndex]
}

// FrameStats contains statistics about the frame accumulated so far
type FrameStats struct {
	TotalPixels  int     // Total number of pixels tracked
	TotalSamples int     // Camera samples started this frame
	LitPixels    int     // Pixels with any non-zero radiance
	MeanRadiance float64 // Average of L.Average() over all pixels
}

// Stats summarizes the frame. Call only after the frame has drained.
func (ps *PixelSampleState) Stats() FrameStats {
	stats := FrameStats{TotalPixels: len(ps.l)}
	sum := 0.0
	for i := range ps.l {
		l := ps.l[i].load()
		if l.NonZero() {
			stats.LitPixels++
		}
		sum += l.Average()
		stats.TotalSamples += int(ps.samples[i].Load())
	}
	if stats.TotalPixels > 0 {
		stats.MeanRadiance = sum / float64(stats.TotalPixels)
	}
	return stats
}
