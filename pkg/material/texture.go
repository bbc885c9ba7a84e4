package material

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// TextureEvalContext is the surface point a texture is looked up at
type TextureEvalContext struct {
	P  mgl64.Vec3
	UV mgl64.Vec2
}

// FloatTexture provides a spatially varying scalar
type FloatTexture interface {
	Evaluate(ctx TextureEvalContext) float64
}

// SpectrumTexture provides a spatially varying spectrum
type SpectrumTexture interface {
	Evaluate(ctx TextureEvalContext, lambda core.SampledWavelengths) core.SampledSpectrum
}

// ConstantFloatTexture returns the same value everywhere
type ConstantFloatTexture struct {
	Value float64
}

func NewConstantFloatTexture(v float64) *ConstantFloatTexture {
	return &ConstantFloatTexture{Value: v}
}

func (t *ConstantFloatTexture) Evaluate(ctx TextureEvalContext) float64 {
	return t.Value
}

// ConstantSpectrumTexture returns the same spectrum everywhere
type ConstantSpectrumTexture struct {
	Value core.Spectrum
}

func NewConstantSpectrumTexture(s core.Spectrum) *ConstantSpectrumTexture {
	return &ConstantSpectrumTexture{Value: s}
}

func (t *ConstantSpectrumTexture) Evaluate(ctx TextureEvalContext, lambda core.SampledWavelengths) core.SampledSpectrum {
	return core.SampleSpectrum(t.Value, lambda)
}

// ImageFloatTexture looks up a scalar image with nearest-neighbor filtering
type ImageFloatTexture struct {
	Width  int
	Height int
	Pixels []float64 // Row-major: Pixels[y*Width + x]
}

// NewImageFloatTexture creates a new image texture
func NewImageFloatTexture(width, height int, pixels []float64) *ImageFloatTexture {
	if width <= 0 || height <= 0 || len(pixels) != width*height {
		panic("material: image texture size does not match pixel count")
	}
	return &ImageFloatTexture{Width: width, Height: height, Pixels: pixels}
}

// Evaluate wraps UV into [0,1) and samples the nearest texel. V=0 is the
// bottom row of the image.
func (t *ImageFloatTexture) Evaluate(ctx TextureEvalContext) float64 {
	u := ctx.UV.X() - math.Floor(ctx.UV.X())
	v := ctx.UV.Y() - math.Floor(ctx.UV.Y())

	x := min(max(int(u*float64(t.Width)), 0), t.Width-1)
	y := min(max(int((1-v)*float64(t.Height)), 0), t.Height-1)
	return t.Pixels[y*t.Width+x]
}

// CheckerboardTexture alternates between two spectra on a UV grid
type CheckerboardTexture struct {
	Even, Odd SpectrumTexture
	Checks    float64 // Checks per unit of UV
}

func NewCheckerboardTexture(even, odd SpectrumTexture, checks float64) *CheckerboardTexture {
	return &CheckerboardTexture{Even: even, Odd: odd, Checks: checks}
}

func (t *CheckerboardTexture) Evaluate(ctx TextureEvalContext, lambda core.SampledWavelengths) core.SampledSpectrum {
	cx := int(math.Floor(ctx.UV.X() * t.Checks))
	cy := int(math.Floor(ctx.UV.Y() * t.Checks))
	if (cx+cy)%2 == 0 {
		return t.Even.Evaluate(ctx, lambda)
	}
	return t.Odd.Evaluate(ctx, lambda)
}
