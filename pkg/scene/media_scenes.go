package scene

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/geometry"
	"github.com/df07/go-wavefront-media/pkg/lights"
	"github.com/df07/go-wavefront-media/pkg/material"
	"github.com/df07/go-wavefront-media/pkg/medium"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	defaultWidth  = 160
	defaultHeight = 90
)

func defaultSampling() SamplingConfig {
	return SamplingConfig{Width: defaultWidth, Height: defaultHeight, SamplesPerPixel: 16}
}

func groundDisc(albedo float64) *geometry.Plane {
	floor := material.NewDiffuse(material.NewConstantSpectrumTexture(core.NewConstantSpectrum(albedo)))
	return geometry.NewGroundDisc(mgl64.Vec3{0, 0, 0}, 8, geometry.Surface{Material: floor})
}

// NewFogScene fills the whole scene with thin forward-scattering fog lit by
// a spotlight and a small spherical lamp
func NewFogScene() *Scene {
	fog := medium.NewHomogeneousMedium(
		core.NewConstantSpectrum(0.02), core.NewConstantSpectrum(0.12), 1, nil, 0, 0.4)

	spot := lights.NewSpotLight(mgl64.Vec3{0.5, 4, 0}, mgl64.Vec3{0, 0, 0},
		core.NewBlackbodySpectrum(3000), 25, 30, 5)

	lampCenter := mgl64.Vec3{-1.5, 1, -1}
	lamp := lights.NewDiffuseSphereLight(lampCenter, 0.3, core.NewBlackbodySpectrum(6500), 4)
	lampMaterial := material.NewDiffuse(material.NewConstantSpectrumTexture(core.NewConstantSpectrum(0.8)))
	lampShape := geometry.NewSphere(lampCenter, 0.3, geometry.Surface{Material: lampMaterial, AreaLight: lamp})

	sampling := defaultSampling()
	return &Scene{
		Name:           "fog",
		Camera:         geometry.NewCamera(defaultCamera(float64(sampling.Width) / float64(sampling.Height))),
		CameraMedium:   fog,
		Shapes:         geometry.NewAggregate(groundDisc(0.6), lampShape),
		Lights:         []lights.Light{spot, lamp},
		SamplingConfig: sampling,
	}
}

// NewCloudScene places a heterogeneous cloud inside a spherical medium
// boundary under a uniform sky and a point light
func NewCloudScene() *Scene {
	const res = 16
	center := mgl64.Vec3{0, 1.2, 0}
	bounds := core.NewAABB(center.Sub(mgl64.Vec3{1, 1, 1}), center.Add(mgl64.Vec3{1, 1, 1}))
	cloud := medium.NewGridMedium(bounds, res, res, res, cloudDensity(res),
		core.NewConstantSpectrum(0.1), core.NewConstantSpectrum(2.5), 1, nil, 0, 0.2)

	boundary := geometry.NewSphere(center, 1, geometry.Surface{
		MediumInterface: &medium.MediumInterface{Inside: cloud, Outside: nil},
	})

	sky := lights.NewUniformInfiniteLight(core.NewConstantSpectrum(0.4), 1)
	sun := lights.NewPointLight(mgl64.Vec3{2, 5, 2}, core.NewBlackbodySpectrum(5500), 30)

	sampling := defaultSampling()
	return &Scene{
		Name:           "cloud",
		Camera:         geometry.NewCamera(defaultCamera(float64(sampling.Width) / float64(sampling.Height))),
		Shapes:         geometry.NewAggregate(groundDisc(0.4), boundary),
		Lights:         []lights.Light{sky, sun},
		LightSampler:   lights.NewWeightedLightSampler([]lights.Light{sky, sun}, []float64{0.3, 0.7}),
		SamplingConfig: sampling,
	}
}

// cloudDensity is a soft ball with density falling off toward the grid edge
func cloudDensity(res int) []float64 {
	density := make([]float64, res*res*res)
	for z := range res {
		for y := range res {
			for x := range res {
				p := mgl64.Vec3{
					(float64(x)+0.5)/float64(res)*2 - 1,
					(float64(y)+0.5)/float64(res)*2 - 1,
					(float64(z)+0.5)/float64(res)*2 - 1,
				}
				d := 1 - p.Len()
				// Cheap lumpiness so the majorant is not tight
				lumps := 0.5 + 0.5*math.Sin(7*p.X())*math.Sin(5*p.Y()+1)*math.Sin(6*p.Z()+2)
				density[(z*res+y)*res+x] = max(0, d) * lumps
			}
		}
	}
	return density
}

// NewGlowScene has no lights: all radiance comes from an emissive medium
func NewGlowScene() *Scene {
	center := mgl64.Vec3{0, 1, 0}
	ember := medium.NewHomogeneousMedium(
		core.NewConstantSpectrum(1.5), core.NewConstantSpectrum(0.5), 1,
		core.NewBlackbodySpectrum(1800), 2, 0)
	boundary := geometry.NewSphere(center, 0.8, geometry.Surface{
		MediumInterface: &medium.MediumInterface{Inside: ember, Outside: nil},
	})

	sampling := defaultSampling()
	return &Scene{
		Name:           "glow",
		Camera:         geometry.NewCamera(defaultCamera(float64(sampling.Width) / float64(sampling.Height))),
		Shapes:         geometry.NewAggregate(groundDisc(0.5), boundary),
		SamplingConfig: sampling,
	}
}
