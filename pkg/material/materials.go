package material

// Diffuse is a Lambertian reflector
type Diffuse struct {
	Reflectance  SpectrumTexture
	displacement FloatTexture
}

// NewDiffuse creates a diffuse material with the given reflectance
func NewDiffuse(reflectance SpectrumTexture) *Diffuse {
	return &Diffuse{Reflectance: reflectance}
}

// WithDisplacement attaches a displacement texture
func (d *Diffuse) WithDisplacement(t FloatTexture) *Diffuse {
	d.displacement = t
	return d
}

func (d *Diffuse) Kind() Kind                 { return KindDiffuse }
func (d *Diffuse) Displacement() FloatTexture { return d.displacement }

func (d *Diffuse) CanEvaluateTextures(e TextureEvaluator) bool {
	return e.CanEvaluate(nil, []SpectrumTexture{d.Reflectance})
}

// Conductor is a metal with microfacet roughness
type Conductor struct {
	Eta, K    SpectrumTexture
	Roughness FloatTexture
}

func NewConductor(eta, k SpectrumTexture, roughness FloatTexture) *Conductor {
	return &Conductor{Eta: eta, K: k, Roughness: roughness}
}

func (c *Conductor) Kind() Kind                 { return KindConductor }
func (c *Conductor) Displacement() FloatTexture { return nil }

func (c *Conductor) CanEvaluateTextures(e TextureEvaluator) bool {
	return e.CanEvaluate([]FloatTexture{c.Roughness}, []SpectrumTexture{c.Eta, c.K})
}

// Dielectric is a smooth or rough refractive boundary. It is the only
// kind that changes etaScale.
type Dielectric struct {
	Eta       float64
	Roughness FloatTexture
}

func NewDielectric(eta float64, roughness FloatTexture) *Dielectric {
	return &Dielectric{Eta: eta, Roughness: roughness}
}

func (d *Dielectric) Kind() Kind                 { return KindDielectric }
func (d *Dielectric) Displacement() FloatTexture { return nil }

func (d *Dielectric) CanEvaluateTextures(e TextureEvaluator) bool {
	return e.CanEvaluate([]FloatTexture{d.Roughness}, nil)
}

// CoatedDiffuse is a diffuse base under a dielectric coat
type CoatedDiffuse struct {
	Reflectance SpectrumTexture
	Thickness   FloatTexture
	Eta         float64
}

func NewCoatedDiffuse(reflectance SpectrumTexture, thickness FloatTexture, eta float64) *CoatedDiffuse {
	return &CoatedDiffuse{Reflectance: reflectance, Thickness: thickness, Eta: eta}
}

func (c *CoatedDiffuse) Kind() Kind                 { return KindCoatedDiffuse }
func (c *CoatedDiffuse) Displacement() FloatTexture { return nil }

func (c *CoatedDiffuse) CanEvaluateTextures(e TextureEvaluator) bool {
	return e.CanEvaluate([]FloatTexture{c.Thickness}, []SpectrumTexture{c.Reflectance})
}
