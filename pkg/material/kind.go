// Package material describes surface materials as far as the transport
// core needs them: their kind, the textures they read and whether a
// simple texture evaluator can handle them.
package material

// Kind identifies a concrete material type. Evaluation work is queued per kind.
type Kind int

const (
	KindDiffuse Kind = iota
	KindConductor
	KindDielectric
	KindCoatedDiffuse

	// NumKinds is the number of material kinds
	NumKinds
)

func (k Kind) String() string {
	switch k {
	case KindDiffuse:
		return "diffuse"
	case KindConductor:
		return "conductor"
	case KindDielectric:
		return "dielectric"
	case KindCoatedDiffuse:
		return "coated-diffuse"
	default:
		return "unknown"
	}
}
