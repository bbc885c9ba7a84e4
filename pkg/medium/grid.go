package medium

import (
	"fmt"
	"iter"
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// GridMedium is a heterogeneous medium whose density is trilinearly
// interpolated from a voxel grid spanning bounds. A single majorant,
// the maximum density times the base extinction, bounds the whole box.
type GridMedium struct {
	bounds     core.AABB
	nx, ny, nz int
	density    []float64
	maxDensity float64

	sigmaA  core.Spectrum
	sigmaS  core.Spectrum
	scale   float64
	le      core.Spectrum
	leScale float64
	phase   *HGPhaseFunction

	// majorantScale multiplies the majorant; values below one make it an
	// underestimate, which the transport passes must tolerate
	majorantScale float64
}

// NewGridMedium creates a grid medium. density is indexed x-fastest and must
// hold nx*ny*nz non-negative values.
func NewGridMedium(bounds core.AABB, nx, ny, nz int, density []float64, sigmaA, sigmaS core.Spectrum, scale float64, le core.Spectrum, leScale, g float64) *GridMedium {
	if nx <= 0 || ny <= 0 || nz <= 0 || len(density) != nx*ny*nz {
		panic(fmt.Sprintf("grid medium: %d density values for %dx%dx%d grid", len(density), nx, ny, nz))
	}
	maxDensity := 0.0
	for _, d := range density {
		if d < 0 {
			panic("grid medium: density must be non-negative")
		}
		maxDensity = math.Max(maxDensity, d)
	}
	return &GridMedium{
		bounds:        bounds,
		nx:            nx,
		ny:            ny,
		nz:            nz,
		density:       density,
		maxDensity:    maxDensity,
		sigmaA:        sigmaA,
		sigmaS:        sigmaS,
		scale:         scale,
		le:            le,
		leScale:       leScale,
		phase:         NewHGPhaseFunction(g),
		majorantScale: 1,
	}
}

// WithMajorantScale returns a copy whose majorant is scaled by s
func (gm *GridMedium) WithMajorantScale(s float64) *GridMedium {
	c := *gm
	c.majorantScale = s
	return &c
}

// IsEmissive implements Medium
func (gm *GridMedium) IsEmissive() bool {
	return gm.le != nil && gm.leScale > 0
}

// Density returns the interpolated density at world point p, zero outside the bounds
func (gm *GridMedium) Density(p mgl64.Vec3) float64 {
	if !gm.bounds.Inside(p) {
		return 0
	}
	o := gm.bounds.Offset(p)
	// Voxel centers sit at (i+0.5)/n
	x := o[0]*float64(gm.nx) - 0.5
	y := o[1]*float64(gm.ny) - 0.5
	z := o[2]*float64(gm.nz) - 0.5
	ix, iy, iz := int(math.Floor(x)), int(math.Floor(y)), int(math.Floor(z))
	dx, dy, dz := x-float64(ix), y-float64(iy), z-float64(iz)

	lerp := func(t, a, b float64) float64 { return (1-t)*a + t*b }
	d00 := lerp(dx, gm.lookup(ix, iy, iz), gm.lookup(ix+1, iy, iz))
	d10 := lerp(dx, gm.lookup(ix, iy+1, iz), gm.lookup(ix+1, iy+1, iz))
	d01 := lerp(dx, gm.lookup(ix, iy, iz+1), gm.lookup(ix+1, iy, iz+1))
	d11 := lerp(dx, gm.lookup(ix, iy+1, iz+1), gm.lookup(ix+1, iy+1, iz+1))
	return lerp(dz, lerp(dy, d00, d10), lerp(dy, d01, d11))
}

// lookup clamps to the grid edge
func (gm *GridMedium) lookup(x, y, z int) float64 {
	x = max(0, min(x, gm.nx-1))
	y = max(0, min(y, gm.ny-1))
	z = max(0, min(z, gm.nz-1))
	return gm.density[(z*gm.ny+y)*gm.nx+x]
}

// SampleFreeFlight implements Medium
func (gm *GridMedium) SampleFreeFlight(ray core.Ray, tMax float64, rng *core.RNG, lambda core.SampledWavelengths) iter.Seq[MajorantSample] {
	return func(yield func(MajorantSample) bool) {
		sigmaA := core.SampleSpectrum(gm.sigmaA, lambda).MulScalar(gm.scale)
		sigmaS := core.SampleSpectrum(gm.sigmaS, lambda).MulScalar(gm.scale)
		var le core.SampledSpectrum
		if gm.IsEmissive() {
			le = core.SampleSpectrum(gm.le, lambda).MulScalar(gm.leScale)
		}

		ray, tMax := normalizeRay(ray, tMax)
		var segments []majorantSegment
		if t0, t1, ok := gm.bounds.IntersectP(ray, tMax); ok && t1 > t0 {
			sigmaMaj := sigmaA.Add(sigmaS).MulScalar(gm.maxDensity * gm.majorantScale)
			segments = append(segments, majorantSegment{tMin: t0, tMax: t1, sigmaMaj: sigmaMaj})
		}

		sampleMajorants(ray, segments, rng, func(p mgl64.Vec3, sigmaMaj core.SampledSpectrum) Interaction {
			d := gm.Density(p)
			return Interaction{
				P:        p,
				SigmaA:   sigmaA.MulScalar(d),
				SigmaS:   sigmaS.MulScalar(d),
				SigmaMaj: sigmaMaj,
				Le:       le.MulScalar(d),
				Phase:    gm.phase,
			}
		}, yield)
	}
}
