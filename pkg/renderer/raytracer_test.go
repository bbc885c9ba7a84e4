package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-wavefront-media/pkg/config"
	"github.com/df07/go-wavefront-media/pkg/geometry"
	"github.com/df07/go-wavefront-media/pkg/material"
	"github.com/df07/go-wavefront-media/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.MaxQueueSize = 4096
	cfg.NumWorkers = 4
	cfg.ChunkSize = 32
	cfg.MaxDepth = 4
	return cfg
}

func smallScene(t *testing.T, name string) *scene.Scene {
	t.Helper()
	s, err := scene.New(name)
	require.NoError(t, err)
	s.SamplingConfig = scene.SamplingConfig{Width: 16, Height: 9, SamplesPerPixel: 2}
	return s
}

func newTestRaytracer(t *testing.T, s *scene.Scene, cfg config.Config, opts ...Option) *Raytracer {
	t.Helper()
	rt, err := NewRaytracer(s, cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt
}

func TestNewRaytracerRejectsSmallQueues(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 100
	_, err := NewRaytracer(smallScene(t, "fog"), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestNewRaytracerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ChunkSize = 0
	_, err := NewRaytracer(smallScene(t, "fog"), cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRenderSkyPixelSeesSkyRadiance(t *testing.T) {
	rt := newTestRaytracer(t, smallScene(t, "cloud"), testConfig())
	stats, err := rt.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Frames)
	assert.Equal(t, 16*9, stats.TotalPixels)
	// The top-left camera ray escapes without touching the cloud or ground
	assert.InDelta(t, 0.4, rt.Radiance(0, 0), 1e-9)
	assert.Positive(t, stats.SurfaceHits, "ground is hit but not shaded")
}

func TestRenderEmissiveMediumWithoutLights(t *testing.T) {
	rt := newTestRaytracer(t, smallScene(t, "glow"), testConfig())
	stats, err := rt.Render(context.Background())
	require.NoError(t, err)

	assert.Positive(t, stats.MeanRadiance)
	assert.Positive(t, stats.LitPixels)
	// The pixels around the center look into the glowing sphere
	center := 0.0
	for y := 3; y <= 5; y++ {
		for x := 7; x <= 9; x++ {
			center += rt.Radiance(x, y)
		}
	}
	assert.Positive(t, center)
	// Corner pixel sees only empty sky and there are no lights
	assert.Zero(t, rt.Radiance(0, 0))
}

func TestRenderIsRepeatable(t *testing.T) {
	first := newTestRaytracer(t, smallScene(t, "fog"), testConfig())
	_, err := first.Render(context.Background())
	require.NoError(t, err)

	second := newTestRaytracer(t, smallScene(t, "fog"), testConfig())
	_, err = second.Render(context.Background())
	require.NoError(t, err)

	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			assert.InDelta(t, first.Radiance(x, y), second.Radiance(x, y), 1e-9, "pixel (%d, %d)", x, y)
		}
	}
	assert.Positive(t, first.meanRadiance(), "fog scatters light toward the camera")
}

func TestRenderVacuumSceneIsDark(t *testing.T) {
	s := &scene.Scene{
		Name: "empty",
		Camera: geometry.NewCamera(geometry.CameraConfig{
			Center: mgl64.Vec3{0, 1, 5}, LookAt: mgl64.Vec3{0, 0, 0}, Up: mgl64.Vec3{0, 1, 0},
			AspectRatio: 1, VFov: 40,
		}),
		Shapes: geometry.NewAggregate(geometry.NewGroundDisc(mgl64.Vec3{}, 100,
			geometry.Surface{Material: material.NewDiffuse(nil)})),
		SamplingConfig: scene.SamplingConfig{Width: 8, Height: 8, SamplesPerPixel: 1},
	}
	rt := newTestRaytracer(t, s, testConfig())
	stats, err := rt.Render(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.MeanRadiance)
	assert.Zero(t, stats.LitPixels)
	assert.Equal(t, 1, stats.Depths, "no path continues past the first depth")
	assert.Positive(t, stats.SurfaceHits)
}

func TestRenderHonorsCancellation(t *testing.T) {
	rt := newTestRaytracer(t, smallScene(t, "fog"), testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := rt.Render(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Frames)
}

func TestRenderRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rt := newTestRaytracer(t, smallScene(t, "glow"), testConfig(), WithRegisterer(reg))
	_, err := rt.RenderFrame(0)
	require.NoError(t, err)

	pushes, err := testutil.GatherAndCount(reg, "wavefront_queue_pushes_total")
	require.NoError(t, err)
	assert.Positive(t, pushes)
}

func TestImageDimensions(t *testing.T) {
	rt := newTestRaytracer(t, smallScene(t, "glow"), testConfig())
	fs, err := rt.RenderFrame(0)
	require.NoError(t, err)
	require.Positive(t, fs.LitPixels)

	img := rt.Image(1)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 9, img.Bounds().Dy())
	assert.Zero(t, img.GrayAt(0, 0).Y)

	// A single sample can miss every emission candidate along one ray, so
	// only the image as a whole is checked
	lit := 0
	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			if img.GrayAt(x, y).Y > 0 {
				lit++
			}
		}
	}
	assert.Positive(t, lit)
}
