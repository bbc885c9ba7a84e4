package geometry

import (
	"math"

	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// CameraConfig describes a pinhole camera
type CameraConfig struct {
	Center      mgl64.Vec3 // Camera position
	LookAt      mgl64.Vec3 // Point the camera is looking at
	Up          mgl64.Vec3 // Up direction
	AspectRatio float64    // Width / height
	VFov        float64    // Vertical field of view in degrees
}

// Camera generates rays for rendering
type Camera struct {
	origin          mgl64.Vec3
	lowerLeftCorner mgl64.Vec3
	horizontal      mgl64.Vec3
	vertical        mgl64.Vec3
}

// NewCamera creates a pinhole camera from cfg
func NewCamera(cfg CameraConfig) *Camera {
	theta := mgl64.DegToRad(cfg.VFov)
	viewportHeight := 2 * math.Tan(theta/2)
	viewportWidth := cfg.AspectRatio * viewportHeight

	w := cfg.Center.Sub(cfg.LookAt).Normalize()
	u := cfg.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Mul(viewportWidth)
	vertical := v.Mul(viewportHeight)
	lowerLeftCorner := cfg.Center.
		Sub(horizontal.Mul(0.5)).
		Sub(vertical.Mul(0.5)).
		Sub(w)

	return &Camera{
		origin:          cfg.Center,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1
// and t grows upward. The direction is unit length.
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Mul(s)).
		Add(c.vertical.Mul(t)).
		Sub(c.origin)
	return core.NewRay(c.origin, direction.Normalize())
}
