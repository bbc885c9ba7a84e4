// Package renderer drives the wavefront passes over a scene: it generates
// camera rays, intersects each depth's ray queue and runs the passes in
// order until every path has terminated.
package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/df07/go-wavefront-media/pkg/config"
	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/film"
	"github.com/df07/go-wavefront-media/pkg/integrator"
	"github.com/df07/go-wavefront-media/pkg/queue"
	"github.com/df07/go-wavefront-media/pkg/scene"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	passCameraRays = "Generate camera rays"
	passIntersect  = "Intersect closest"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Frames        int           // Camera samples per pixel rendered
	Depths        int           // Depths processed over all frames
	SurfaceHits   int           // Hits left for material evaluation
	MeanRadiance  float64       // Mean pixel radiance over all frames
	LitPixels     int           // Pixels with radiance in the last frame
	TotalPixels   int           // Pixels in the image
	RenderingTime time.Duration // Wall time of Render
}

// Option configures a Raytracer
type Option func(*Raytracer)

// WithLogger sets the logger shared with the integrator
func WithLogger(l core.Logger) Option {
	return func(rt *Raytracer) { rt.logger = l }
}

// WithRegisterer registers queue and integrator metrics with reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(rt *Raytracer) { rt.registerer = reg }
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene      *scene.Scene
	cfg        config.Config
	logger     core.Logger
	registerer prometheus.Registerer

	width, height int
	pixels        *film.PixelSampleState
	in            *integrator.Integrator
	pool          *queue.Pool

	sum    []float64 // Per-pixel sum of frame radiance
	frames int
}

// NewRaytracer creates a raytracer for s. Call Close when done.
func NewRaytracer(s *scene.Scene, cfg config.Config, opts ...Option) (*Raytracer, error) {
	rt := &Raytracer{
		scene:  s,
		cfg:    cfg,
		logger: core.NopLogger{},
		width:  s.SamplingConfig.Width,
		height: s.SamplingConfig.Height,
	}
	for _, opt := range opts {
		opt(rt)
	}

	n := rt.width * rt.height
	if n <= 0 {
		return nil, fmt.Errorf("renderer: scene %q has empty image %dx%d", s.Name, rt.width, rt.height)
	}
	if cfg.MaxQueueSize < n {
		return nil, fmt.Errorf("%w: max_queue_size %d is smaller than the %d camera rays of scene %q",
			config.ErrInvalidConfig, cfg.MaxQueueSize, n, s.Name)
	}

	rt.pixels = film.NewPixelSampleState(n)
	in, err := integrator.New(cfg, s.Integrator(), rt.pixels,
		integrator.WithLogger(rt.logger), integrator.WithRegisterer(rt.registerer))
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	rt.in = in
	rt.pool = queue.NewPool(cfg.NumWorkers, cfg.ChunkSize)
	rt.pool.Start()
	rt.sum = make([]float64, n)
	return rt, nil
}

// Close stops the worker pools
func (rt *Raytracer) Close() {
	rt.pool.Stop()
	rt.in.Close()
}

// Render renders SamplesPerPixel frames, stopping early if ctx is cancelled
func (rt *Raytracer) Render(ctx context.Context) (RenderStats, error) {
	start := time.Now()
	stats := RenderStats{TotalPixels: rt.width * rt.height}
	for sampleIndex := 0; sampleIndex < rt.scene.SamplingConfig.SamplesPerPixel; sampleIndex++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		fs, err := rt.RenderFrame(sampleIndex)
		if err != nil {
			return stats, err
		}
		stats.Frames++
		stats.Depths += fs.Depths
		stats.SurfaceHits += fs.SurfaceHits
		stats.LitPixels = fs.LitPixels
		rt.logger.Debugf("frame %d: %d depths, mean radiance %.4f, %d/%d pixels lit",
			sampleIndex, fs.Depths, fs.MeanRadiance, fs.LitPixels, fs.TotalPixels)
	}
	stats.MeanRadiance = rt.meanRadiance()
	stats.RenderingTime = time.Since(start)
	return stats, nil
}

// FrameResult summarizes one rendered frame
type FrameResult struct {
	film.FrameStats
	Depths      int // Depths processed
	SurfaceHits int // Hits left for material evaluation
}

// RenderFrame traces one camera sample through every pixel and folds the
// frame's radiance into the running image
func (rt *Raytracer) RenderFrame(sampleIndex int) (FrameResult, error) {
	rt.pixels.Reset()
	if err := rt.generateCameraRays(sampleIndex); err != nil {
		return FrameResult{}, err
	}

	var res FrameResult
	for depth := 0; ; depth++ {
		if rt.in.RayQueue(depth).Size() == 0 {
			break
		}
		res.Depths++
		last := depth == rt.cfg.MaxDepth
		hits, err := rt.traceDepth(depth, sampleIndex, last)
		if err != nil {
			return res, fmt.Errorf("frame %d: %w", sampleIndex, err)
		}
		res.SurfaceHits += hits
		if last {
			break
		}
	}

	res.FrameStats = rt.pixels.Stats()
	for i := range rt.sum {
		rt.sum[i] += rt.pixels.L(i).Average()
	}
	rt.frames++
	return res, nil
}

func (rt *Raytracer) generateCameraRays(sampleIndex int) error {
	camera := rt.in.RayQueue(0)
	camera.Reset()
	cam := rt.scene.Camera
	return rt.pool.ParallelFor(passCameraRays, rt.width*rt.height, func(i int) {
		x, y := i%rt.width, i/rt.width
		rng := core.NewRNG(core.Hash(uint64(i), uint64(sampleIndex)), rt.cfg.Seed)
		u := rng.Get2D()
		s := (float64(x) + u.X()) / float64(rt.width)
		t := 1 - (float64(y)+u.Y())/float64(rt.height)
		lambda := core.SampleUniformWavelengths(rng.Uniform())
		rt.pixels.SetWavelengths(i, lambda)
		camera.PushCameraRay(cam.GetRay(s, t), rt.scene.CameraMedium, lambda, i)
	})
}

// traceDepth runs the passes of one depth. At the last depth only emission
// reaching the current vertices is gathered. It returns the number of
// surface hits queued for material evaluation.
func (rt *Raytracer) traceDepth(depth, sampleIndex int, last bool) (int, error) {
	in := rt.in
	in.ResetQueues(depth)
	if err := in.GenerateRaySamples(depth, sampleIndex); err != nil {
		return 0, err
	}
	if err := rt.intersect(depth); err != nil {
		return 0, err
	}

	var err error
	if last {
		err = in.SampleMediumInteraction(depth)
	} else {
		err = in.ProcessMediumDepth(depth)
	}
	if err != nil {
		return 0, err
	}
	if err := in.HandleEscapedRays(depth); err != nil {
		return 0, err
	}
	if err := in.HandleEmissiveIntersection(depth); err != nil {
		return 0, err
	}
	surfaceHits := in.MaterialEvalQueues().Size()
	if last {
		return surfaceHits, nil
	}
	return surfaceHits, in.TraceShadowRays(depth)
}

// intersect finds the closest surface along every ray of the depth's queue
// and hands the segment to the medium sampler
func (rt *Raytracer) intersect(depth int) error {
	rq := rt.in.RayQueue(depth)
	shapes := rt.scene.Shapes
	return queue.ForAllQueued(rt.pool, passIntersect, rq.WorkQueue, func(r integrator.RayWorkItem, index int) {
		hit, ok := shapes.Intersect(r.Ray, math.Inf(1))
		if !ok {
			rt.in.PushMediumSample(r, index, math.Inf(1), integrator.SurfaceHit{})
			return
		}
		rt.in.PushMediumSample(r, index, hit.T, integrator.SurfaceHit{
			P:               hit.Point,
			N:               hit.Normal,
			Ns:              hit.Normal,
			UV:              hit.UV,
			Material:        hit.Material,
			AreaLight:       hit.AreaLight,
			MediumInterface: hit.MediumInterface,
		})
	})
}

func (rt *Raytracer) meanRadiance() float64 {
	if rt.frames == 0 {
		return 0
	}
	total := 0.0
	for _, s := range rt.sum {
		total += s
	}
	return total / float64(len(rt.sum)*rt.frames)
}

// Radiance returns the mean radiance of pixel (x, y) over the rendered frames
func (rt *Raytracer) Radiance(x, y int) float64 {
	if rt.frames == 0 {
		return 0
	}
	return rt.sum[y*rt.width+x] / float64(rt.frames)
}

// Image tone maps the accumulated radiance with an exponential curve and
// gamma 2.2
func (rt *Raytracer) Image(exposure float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, rt.width, rt.height))
	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			v := 1 - math.Exp(-rt.Radiance(x, y)*exposure)
			v = math.Pow(math.Max(0, v), 1/2.2)
			img.SetGray(x, y, color.Gray{Y: uint8(math.Min(255, v*255+0.5))})
		}
	}
	return img
}
