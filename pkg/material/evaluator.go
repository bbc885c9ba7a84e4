package material

// TextureEvaluator reports which textures it can evaluate
type TextureEvaluator interface {
	CanEvaluate(ftex []FloatTexture, stex []SpectrumTexture) bool
}

// BasicTextureEvaluator handles only constant and image textures. Materials
// using nothing else can take the fast evaluation path.
type BasicTextureEvaluator struct{}

func (BasicTextureEvaluator) CanEvaluate(ftex []FloatTexture, stex []SpectrumTexture) bool {
	for _, f := range ftex {
		switch f.(type) {
		case nil, *ConstantFloatTexture, *ImageFloatTexture:
		default:
			return false
		}
	}
	for _, s := range stex {
		switch s.(type) {
		case nil, *ConstantSpectrumTexture:
		default:
			return false
		}
	}
	return true
}

// UniversalTextureEvaluator can evaluate any texture
type UniversalTextureEvaluator struct{}

func (UniversalTextureEvaluator) CanEvaluate(ftex []FloatTexture, stex []SpectrumTexture) bool {
	return true
}
