package integrator

import (
	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/lights"
	"github.com/df07/go-wavefront-media/pkg/material"
	"github.com/df07/go-wavefront-media/pkg/medium"
	"github.com/go-gl/mathgl/mgl64"
)

// Work items are snapshots of path state. Queues hold them by value and each
// one is consumed by exactly one drain invocation.

// DirectSamples are the variates for next-event estimation at a vertex
type DirectSamples struct {
	Uc float64    // Light selection
	U  mgl64.Vec2 // Point on the light
}

// IndirectSamples are the variates for the continuation bounce at a vertex
type IndirectSamples struct {
	Uc float64    // Lobe selection
	U  mgl64.Vec2 // Direction
	Rr float64    // Russian roulette
}

// RaySamples are generated per ray before the depth's passes run
type RaySamples struct {
	Direct   DirectSamples
	Indirect IndirectSamples
}

// RayWorkItem is a ray waiting to be intersected at the current depth
type RayWorkItem struct {
	Ray                   core.Ray
	Medium                medium.Medium // Medium the ray travels through, nil for vacuum
	Lambda                core.SampledWavelengths
	PixelIndex            int
	Beta                  core.SampledSpectrum
	PdfUni                core.SampledSpectrum
	PdfNEE                core.SampledSpectrum
	PiPrev                mgl64.Vec3
	NPrev                 mgl64.Vec3
	NsPrev                mgl64.Vec3
	IsSpecularBounce      bool
	AnyNonSpecularBounces bool
	EtaScale              float64
}

// SurfaceHit is what the intersection stage found at the end of a ray segment
type SurfaceHit struct {
	P               mgl64.Vec3
	N               mgl64.Vec3 // Geometric normal
	Ns              mgl64.Vec3 // Shading normal
	UV              mgl64.Vec2
	Dpdus           mgl64.Vec3
	Dpdvs           mgl64.Vec3
	Material        material.Material // Nil for a medium boundary
	AreaLight       lights.Light      // Non-nil when the surface emits
	MediumInterface *medium.MediumInterface
}

// MediumSampleWorkItem is a ray segment that must be walked through its medium
type MediumSampleWorkItem struct {
	Ray                   core.Ray
	Medium                medium.Medium
	TMax                  float64 // +Inf when nothing was hit
	Lambda                core.SampledWavelengths
	Beta                  core.SampledSpectrum
	PdfUni                core.SampledSpectrum
	PdfNEE                core.SampledSpectrum
	RayIndex              int
	PixelIndex            int
	PiPrev                mgl64.Vec3
	NPrev                 mgl64.Vec3
	NsPrev                mgl64.Vec3
	IsSpecularBounce      bool
	AnyNonSpecularBounces bool
	EtaScale              float64
	Hit                   SurfaceHit // Valid only when TMax is finite
}

// MediumScatterWorkItem is a real scattering vertex inside a medium
type MediumScatterWorkItem struct {
	P          mgl64.Vec3
	Lambda     core.SampledWavelengths
	Beta       core.SampledSpectrum
	PdfUni     core.SampledSpectrum
	RayIndex   int
	Phase      medium.PhaseFunction
	Wo         mgl64.Vec3
	Time       float64
	EtaScale   float64
	Medium     medium.Medium
	PixelIndex int
}

// MediumTransitionWorkItem is a ray continuing through a material-less boundary
type MediumTransitionWorkItem struct {
	Ray                   core.Ray
	Medium                medium.Medium
	Lambda                core.SampledWavelengths
	Beta                  core.SampledSpectrum
	PdfUni                core.SampledSpectrum
	PdfNEE                core.SampledSpectrum
	PiPrev                mgl64.Vec3
	NPrev                 mgl64.Vec3
	NsPrev                mgl64.Vec3
	IsSpecularBounce      bool
	AnyNonSpecularBounces bool
	EtaScale              float64
	PixelIndex            int
}

// EscapedRayWorkItem is a ray that left the scene
type EscapedRayWorkItem struct {
	RayO             mgl64.Vec3
	RayD             mgl64.Vec3
	Lambda           core.SampledWavelengths
	Beta             core.SampledSpectrum
	PdfUni           core.SampledSpectrum
	PdfNEE           core.SampledSpectrum
	PiPrev           mgl64.Vec3
	NPrev            mgl64.Vec3
	NsPrev           mgl64.Vec3
	IsSpecularBounce bool
	PixelIndex       int
}

// HitAreaLightWorkItem is a ray that reached an emissive surface
type HitAreaLightWorkItem struct {
	AreaLight        lights.Light
	Lambda           core.SampledWavelengths
	Beta             core.SampledSpectrum
	PdfUni           core.SampledSpectrum
	PdfNEE           core.SampledSpectrum
	P                mgl64.Vec3
	N                mgl64.Vec3
	UV               mgl64.Vec2
	Wo               mgl64.Vec3
	PiPrev           mgl64.Vec3
	RayD             mgl64.Vec3
	Time             float64
	NPrev            mgl64.Vec3
	NsPrev           mgl64.Vec3
	IsSpecularBounce bool
	PixelIndex       int
}

// ShadowRayWorkItem is a candidate direct-lighting contribution awaiting
// its visibility and transmittance
type ShadowRayWorkItem struct {
	Ray        core.Ray
	TMax       float64
	Medium     medium.Medium
	Lambda     core.SampledWavelengths
	Ld         core.SampledSpectrum
	PdfUni     core.SampledSpectrum
	PdfNEE     core.SampledSpectrum
	PixelIndex int
}

// MaterialEvalWorkItem is a surface hit handed to BSDF evaluation
type MaterialEvalWorkItem struct {
	Material              material.Material
	Lambda                core.SampledWavelengths
	Beta                  core.SampledSpectrum
	PdfUni                core.SampledSpectrum
	P                     mgl64.Vec3
	N                     mgl64.Vec3
	Ns                    mgl64.Vec3
	Dpdus                 mgl64.Vec3
	Dpdvs                 mgl64.Vec3
	Wo                    mgl64.Vec3
	UV                    mgl64.Vec2
	Time                  float64
	AnyNonSpecularBounces bool
	EtaScale              float64
	MediumInterface       *medium.MediumInterface
	RayIndex              int
	PixelIndex            int
}
