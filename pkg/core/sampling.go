package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Inv4Pi is 1/(4π), the density of uniform sphere sampling
const Inv4Pi = 1 / (4 * math.Pi)

// SampleDiscrete picks an index with probability proportional to weights
// by inverting the discrete CDF at u. It returns -1 when every weight is zero.
func SampleDiscrete(weights []float64, u float64) (int, float64) {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		return -1, 0
	}

	up := u * sum
	if up == sum {
		up = math.Nextafter(up, 0)
	}

	offset := 0
	cumulative := 0.0
	for ; offset < len(weights); offset++ {
		if cumulative+weights[offset] > up {
			break
		}
		cumulative += weights[offset]
	}
	// Rounding can walk past the last positive weight
	if offset == len(weights) {
		offset = len(weights) - 1
		for offset > 0 && weights[offset] == 0 {
			offset--
		}
	}
	return offset, weights[offset] / sum
}

// SampleExponential samples t from the density a*exp(-a*t)
func SampleExponential(u, a float64) float64 {
	return -math.Log(1-u) / a
}

// SampleUniformSphere generates a uniform random direction on the unit sphere
func SampleUniformSphere(u mgl64.Vec2) mgl64.Vec3 {
	z := 1.0 - 2.0*u[0]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * u[1]
	return mgl64.Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// UniformSpherePDF is the solid angle density of SampleUniformSphere
func UniformSpherePDF() float64 {
	return Inv4Pi
}

// SampleUniformCone samples a direction around +z within the cone cos(theta) >= cosThetaMax
func SampleUniformCone(u mgl64.Vec2, cosThetaMax float64) mgl64.Vec3 {
	cosTheta := (1 - u[0]) + u[0]*cosThetaMax
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := u[1] * 2 * math.Pi
	return SphericalDirection(sinTheta, cosTheta, phi)
}

// UniformConePDF calculates the PDF for uniform sampling within a cone
func UniformConePDF(cosThetaMax float64) float64 {
	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}

// PowerHeuristic calculates the power heuristic for multiple importance sampling
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if math.IsInf(f*f, 1) {
		return 1
	}
	if f == 0 && g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}

// BalanceHeuristic calculates the balance heuristic for multiple importance sampling
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f+g == 0 {
		return 0
	}
	return f / (f + g)
}

// SmoothStep is the cubic Hermite ramp between a and b
func SmoothStep(x, a, b float64) float64 {
	if a == b {
		if x < a {
			return 0
		}
		return 1
	}
	t := mgl64.Clamp((x-a)/(b-a), 0, 1)
	return t * t * (3 - 2*t)
}
