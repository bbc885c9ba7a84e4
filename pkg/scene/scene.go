// Package scene builds the demo scenes rendered by the command line tool
package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-wavefront-media/pkg/geometry"
	"github.com/df07/go-wavefront-media/pkg/integrator"
	"github.com/df07/go-wavefront-media/pkg/lights"
	"github.com/df07/go-wavefront-media/pkg/medium"
	"github.com/go-gl/mathgl/mgl64"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	CameraMedium   medium.Medium // Medium the camera sits in, nil for vacuum
	Shapes         *geometry.Aggregate
	Lights         []lights.Light
	LightSampler   lights.LightSampler // Nil selects lights by power
	SamplingConfig SamplingConfig
}

// SamplingConfig contains the image settings of a scene
type SamplingConfig struct {
	Width           int
	Height          int
	SamplesPerPixel int
}

// Integrator returns what the wavefront passes need from the scene
func (s *Scene) Integrator() integrator.Scene {
	return integrator.Scene{
		Lights:       s.Lights,
		LightSampler: s.LightSampler,
		Bounds:       s.Shapes.Bounds(),
		Occluder:     s.Shapes,
	}
}

var builders = map[string]func() *Scene{
	"fog":   NewFogScene,
	"cloud": NewCloudScene,
	"glow":  NewGlowScene,
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named scene
func New(name string) (*Scene, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return build(), nil
}

func defaultCamera(aspect float64) geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:      mgl64.Vec3{0, 1.2, 5},
		LookAt:      mgl64.Vec3{0, 0.8, 0},
		Up:          mgl64.Vec3{0, 1, 0},
		AspectRatio: aspect,
		VFov:        40,
	}
}
