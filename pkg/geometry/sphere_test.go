package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/medium"
	"github.com/go-gl/mathgl/mgl64"
)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(mgl64.Vec3{0, 0, 0}, 1.0, Surface{})
	ray := core.NewRay(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 1, 0})

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(mgl64.Vec3{0, 0, 0}, 1.0, Surface{})

	tests := []struct {
		name           string
		rayOrigin      mgl64.Vec3
		rayDirection   mgl64.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal mgl64.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      mgl64.Vec3{0, 0, 2},
			rayDirection:   mgl64.Vec3{0, 0, -1},
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: mgl64.Vec3{0, 0, 1},
		},
		{
			// The normal stays outward so medium interfaces can pick a side
			name:           "back face hit",
			rayOrigin:      mgl64.Vec3{0, 0, 0},
			rayDirection:   mgl64.Vec3{0, 0, 1},
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: mgl64.Vec3{0, 0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected FrontFace=%v, got %v", tt.expectedFront, hit.FrontFace)
			}
			if !hit.Normal.ApproxEqual(tt.expectedNormal) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_RespectsRange(t *testing.T) {
	sphere := NewSphere(mgl64.Vec3{0, 0, -5}, 1.0, Surface{})
	ray := core.NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -1})

	if _, isHit := sphere.Hit(ray, 0.001, 3.0); isHit {
		t.Error("Expected miss when sphere lies beyond tMax")
	}
	hit, isHit := sphere.Hit(ray, 4.5, 1000.0)
	if !isHit {
		t.Fatal("Expected hit on the far side")
	}
	if math.Abs(hit.T-6.0) > 1e-9 {
		t.Errorf("Expected far root t=6, got t=%f", hit.T)
	}
}

func TestSphere_Hit_CarriesSurface(t *testing.T) {
	mi := &medium.MediumInterface{}
	sphere := NewSphere(mgl64.Vec3{0, 0, 0}, 1.0, Surface{MediumInterface: mi})
	hit, isHit := sphere.Hit(core.NewRay(mgl64.Vec3{0, 0, 3}, mgl64.Vec3{0, 0, -1}), 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.MediumInterface != mi {
		t.Error("Expected hit to carry the sphere's medium interface")
	}
	if hit.Material != nil {
		t.Errorf("Expected boundary without material, got %T", hit.Material)
	}
	if hit.UV.X() < 0 || hit.UV.X() > 1 || hit.UV.Y() < 0 || hit.UV.Y() > 1 {
		t.Errorf("Expected uv in [0,1], got %v", hit.UV)
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	sphere := NewSphere(mgl64.Vec3{1, 2, 3}, 0.5, Surface{})
	box := sphere.BoundingBox()
	if !box.Min.ApproxEqual(mgl64.Vec3{0.5, 1.5, 2.5}) || !box.Max.ApproxEqual(mgl64.Vec3{1.5, 2.5, 3.5}) {
		t.Errorf("Unexpected bounding box %v", box)
	}
}
