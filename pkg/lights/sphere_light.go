package lights

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// DiffuseSphereLight is a spherical area light emitting Lemit*scale from
// its outward-facing surface
type DiffuseSphereLight struct {
	Center mgl64.Vec3
	Radius float64
	lemit  core.Spectrum
	scale  float64
}

// NewDiffuseSphereLight creates a new spherical area light
func NewDiffuseSphereLight(center mgl64.Vec3, radius float64, lemit core.Spectrum, scale float64) *DiffuseSphereLight {
	if radius <= 0 {
		panic("lights: sphere light radius must be positive")
	}
	return &DiffuseSphereLight{Center: center, Radius: radius, lemit: lemit, scale: scale}
}

func (sl *DiffuseSphereLight) Type() LightType { return LightTypeArea }
func (sl *DiffuseSphereLight) IsDelta() bool   { return false }

// SampleLi samples the cone of directions subtended by the sphere, or the
// whole surface when the reference point is inside it
func (sl *DiffuseSphereLight) SampleLi(ctx LightSampleContext, u mgl64.Vec2, lambda core.SampledWavelengths, mode SamplingMode) (LightLiSample, bool) {
	toCenter := sl.Center.Sub(ctx.P)
	dc2 := toCenter.LenSqr()
	if dc2 <= sl.Radius*sl.Radius {
		return sl.sampleArea(ctx, u, lambda)
	}

	dc := math.Sqrt(dc2)
	sinThetaMax := sl.Radius / dc
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMax*sinThetaMax))
	frame := core.FrameFromZ(toCenter.Mul(1 / dc))
	wi := frame.FromLocal(core.SampleUniformCone(u, cosThetaMax))

	t, hit := sl.intersect(ctx.P, wi)
	if !hit {
		// Grazing directions at the cone edge can miss numerically
		t = toCenter.Dot(wi)
	}
	pLight := ctx.P.Add(wi.Mul(t))
	nLight := core.SafeNormalize(pLight.Sub(sl.Center))

	le := sl.L(pLight, nLight, mgl64.Vec2{}, wi.Mul(-1), lambda)
	if le.IsZero() {
		return LightLiSample{}, false
	}
	return LightLiSample{
		L:      le,
		Wi:     wi,
		PDF:    core.UniformConePDF(cosThetaMax),
		PLight: pLight,
		NLight: nLight,
	}, true
}

// sampleArea picks a uniform point on the surface and converts the area
// density to solid angle
func (sl *DiffuseSphereLight) sampleArea(ctx LightSampleContext, u mgl64.Vec2, lambda core.SampledWavelengths) (LightLiSample, bool) {
	n := core.SampleUniformSphere(u)
	pLight := sl.Center.Add(n.Mul(sl.Radius))
	toLight := pLight.Sub(ctx.P)
	dist2 := toLight.LenSqr()
	if dist2 == 0 {
		return LightLiSample{}, false
	}
	wi := toLight.Mul(1 / math.Sqrt(dist2))
	absCos := math.Abs(n.Dot(wi))
	if absCos == 0 {
		return LightLiSample{}, false
	}
	le := sl.L(pLight, n, mgl64.Vec2{}, wi.Mul(-1), lambda)
	if le.IsZero() {
		return LightLiSample{}, false
	}
	areaPDF := 1 / (4 * math.Pi * sl.Radius * sl.Radius)
	return LightLiSample{
		L:      le,
		Wi:     wi,
		PDF:    areaPDF * dist2 / absCos,
		PLight: pLight,
		NLight: n,
	}, true
}

// PDFLi returns the solid angle density of SampleLi choosing wi
func (sl *DiffuseSphereLight) PDFLi(ctx LightSampleContext, wi mgl64.Vec3, mode SamplingMode) float64 {
	t, hit := sl.intersect(ctx.P, wi)
	if !hit {
		return 0
	}
	toCenter := sl.Center.Sub(ctx.P)
	dc2 := toCenter.LenSqr()
	if dc2 <= sl.Radius*sl.Radius {
		pLight := ctx.P.Add(wi.Mul(t))
		n := core.SafeNormalize(pLight.Sub(sl.Center))
		absCos := math.Abs(n.Dot(wi))
		if absCos == 0 {
			return 0
		}
		return t * t / (absCos * 4 * math.Pi * sl.Radius * sl.Radius)
	}
	sin2ThetaMax := sl.Radius * sl.Radius / dc2
	cosThetaMax := math.Sqrt(math.Max(0, 1-sin2ThetaMax))
	return core.UniformConePDF(cosThetaMax)
}

// L returns emitted radiance leaving the surface at p with normal n in direction w
func (sl *DiffuseSphereLight) L(p, n mgl64.Vec3, uv mgl64.Vec2, w mgl64.Vec3, lambda core.SampledWavelengths) core.SampledSpectrum {
	if n.Dot(w) <= 0 {
		return core.SampledSpectrum{}
	}
	return core.SampleSpectrum(sl.lemit, lambda).MulScalar(sl.scale)
}

func (sl *DiffuseSphereLight) Le(ray core.Ray, lambda core.SampledWavelengths) core.SampledSpectrum {
	return core.SampledSpectrum{}
}

// Phi implements Light
func (sl *DiffuseSphereLight) Phi(lambda core.SampledWavelengths) core.SampledSpectrum {
	area := 4 * math.Pi * sl.Radius * sl.Radius
	return core.SampleSpectrum(sl.lemit, lambda).MulScalar(math.Pi * area * sl.scale)
}

// intersect returns the nearest positive hit distance along the unit direction d
func (sl *DiffuseSphereLight) intersect(o, d mgl64.Vec3) (float64, bool) {
	oc := o.Sub(sl.Center)
	b := oc.Dot(d)
	c := oc.LenSqr() - sl.Radius*sl.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t <= 0 {
		t = -b + sq
	}
	if t <= 0 {
		return 0, false
	}
	return t, true
}
