package material

// Material is a surface material at a ray hit
type Material interface {
	// Kind selects the evaluation queue for this material
	Kind() Kind

	// CanEvaluateTextures reports whether e can evaluate every texture the material reads
	CanEvaluateTextures(e TextureEvaluator) bool

	// Displacement returns the displacement texture, or nil
	Displacement() FloatTexture
}

// UsesBasicEvaluator reports whether m and its displacement can be
// evaluated by BasicTextureEvaluator
func UsesBasicEvaluator(m Material) bool {
	var basic BasicTextureEvaluator
	if !m.CanEvaluateTextures(basic) {
		return false
	}
	d := m.Displacement()
	return d == nil || basic.CanEvaluate([]FloatTexture{d}, nil)
}
