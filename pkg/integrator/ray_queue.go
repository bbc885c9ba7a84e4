package integrator

import (
	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/medium"
	"github.com/df07/go-wavefront-media/pkg/queue"
	"github.com/go-gl/mathgl/mgl64"
)

// RayQueue holds the rays of one depth plus the samples generated for each
// slot. Two of them alternate by depth parity.
type RayQueue struct {
	*queue.WorkQueue[RayWorkItem]
	samples []RaySamples
}

// NewRayQueue creates a ray queue of the given capacity
func NewRayQueue(name string, capacity int, metrics *queue.Metrics) *RayQueue {
	return &RayQueue{
		WorkQueue: queue.NewWorkQueue[RayWorkItem](name, capacity, metrics),
		samples:   make([]RaySamples, capacity),
	}
}

// PushCameraRay starts a new path with unit throughput and densities
func (rq *RayQueue) PushCameraRay(ray core.Ray, m medium.Medium, lambda core.SampledWavelengths, pixelIndex int) int {
	one := core.NewSampledSpectrum(1)
	return rq.Push(RayWorkItem{
		Ray:        ray,
		Medium:     m,
		Lambda:     lambda,
		PixelIndex: pixelIndex,
		Beta:       one,
		PdfUni:     one,
		PdfNEE:     one,
		EtaScale:   1,
	})
}

// PushIndirect continues an existing path from the vertex (piPrev, nPrev, nsPrev)
func (rq *RayQueue) PushIndirect(ray core.Ray, m medium.Medium, piPrev, nPrev, nsPrev mgl64.Vec3,
	beta, pdfUni, pdfNEE core.SampledSpectrum, lambda core.SampledWavelengths, etaScale float64,
	isSpecularBounce, anyNonSpecularBounces bool, pixelIndex int) int {
	return rq.Push(RayWorkItem{
		Ray:                   ray,
		Medium:                m,
		Lambda:                lambda,
		PixelIndex:            pixelIndex,
		Beta:                  beta,
		PdfUni:                pdfUni,
		PdfNEE:                pdfNEE,
		PiPrev:                piPrev,
		NPrev:                 nPrev,
		NsPrev:                nsPrev,
		IsSpecularBounce:      isSpecularBounce,
		AnyNonSpecularBounces: anyNonSpecularBounces,
		EtaScale:              etaScale,
	})
}

// Samples returns the samples generated for slot i
func (rq *RayQueue) Samples(i int) RaySamples {
	return rq.samples[i]
}

// SetSamples stores the samples for slot i
func (rq *RayQueue) SetSamples(i int, rs RaySamples) {
	rq.samples[i] = rs
}
