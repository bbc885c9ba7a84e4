// Package integrator implements the volumetric passes of a wavefront path
// tracer. Every pass drains one work queue in parallel and feeds the queues
// of later passes; depths alternate between two ray queues.
package integrator

import (
	"fmt"

	"github.com/df07/go-wavefront-media/pkg/config"
	"github.com/df07/go-wavefront-media/pkg/core"
	"github.com/df07/go-wavefront-media/pkg/film"
	"github.com/df07/go-wavefront-media/pkg/lights"
	"github.com/df07/go-wavefront-media/pkg/material"
	"github.com/df07/go-wavefront-media/pkg/queue"
	"github.com/prometheus/client_golang/prometheus"
)

// Occluder resolves visibility for shadow rays. It reports whether any
// surface blocks ray over the parametric range (0, tMax).
type Occluder interface {
	Occluded(ray core.Ray, tMax float64) bool
}

// Scene is what the passes need from the scene
type Scene struct {
	Lights       []lights.Light
	LightSampler lights.LightSampler // Nil selects lights by power
	Bounds       core.AABB
	Occluder     Occluder // Nil means nothing blocks shadow rays
}

// Option configures an Integrator
type Option func(*Integrator)

// WithLogger sets the logger (default: core.NopLogger)
func WithLogger(l core.Logger) Option {
	return func(in *Integrator) { in.logger = l }
}

// WithRegisterer registers queue and integrator metrics with reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(in *Integrator) { in.registerer = reg }
}

// Integrator owns the work queues of the medium passes
type Integrator struct {
	cfg        config.Config
	logger     core.Logger
	registerer prometheus.Registerer
	metrics    *Metrics
	pool       *queue.Pool

	rayQueues             [2]*RayQueue
	mediumSampleQueue     *queue.WorkQueue[MediumSampleWorkItem]
	mediumScatterQueue    *queue.WorkQueue[MediumScatterWorkItem]
	mediumTransitionQueue *queue.WorkQueue[MediumTransitionWorkItem]
	escapedRayQueue       *queue.WorkQueue[EscapedRayWorkItem] // Nil unless escaped rays are handled
	hitAreaLightQueue     *queue.WorkQueue[HitAreaLightWorkItem]
	shadowRayQueue        *queue.WorkQueue[ShadowRayWorkItem]
	materialEvalQueues    *material.EvalQueues[MaterialEvalWorkItem]

	scene          Scene
	lightSampler   lights.LightSampler
	infiniteLights []lights.Light
	pixels         *film.PixelSampleState
}

// New creates an integrator and starts its worker pool. Call Close when done.
func New(cfg config.Config, scene Scene, pixels *film.PixelSampleState, opts ...Option) (*Integrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pixels == nil {
		return nil, fmt.Errorf("integrator: pixel sample state is required")
	}

	in := &Integrator{
		cfg:    cfg,
		logger: core.NopLogger{},
		scene:  scene,
		pixels: pixels,
	}
	for _, opt := range opts {
		opt(in)
	}
	in.metrics = NewMetrics(in.registerer)
	qm := queue.NewMetrics(in.registerer)

	for _, l := range scene.Lights {
		if p, ok := l.(lights.Preprocessor); ok {
			p.Preprocess(scene.Bounds)
		}
		if l.Type() == lights.LightTypeInfinite {
			in.infiniteLights = append(in.infiniteLights, l)
		}
	}
	in.lightSampler = scene.LightSampler
	if in.lightSampler == nil {
		in.lightSampler = lights.NewPowerLightSampler(scene.Lights)
	}

	size := cfg.MaxQueueSize
	in.rayQueues[0] = NewRayQueue("ray_even", size, qm)
	in.rayQueues[1] = NewRayQueue("ray_odd", size, qm)
	in.mediumSampleQueue = queue.NewWorkQueue[MediumSampleWorkItem]("medium_sample", size, qm)
	in.mediumScatterQueue = queue.NewWorkQueue[MediumScatterWorkItem]("medium_scatter", size, qm)
	in.mediumTransitionQueue = queue.NewWorkQueue[MediumTransitionWorkItem]("medium_transition", size, qm)
	if cfg.HaveEscapedRays || len(in.infiniteLights) > 0 {
		in.escapedRayQueue = queue.NewWorkQueue[EscapedRayWorkItem]("escaped_ray", size, qm)
	}
	in.hitAreaLightQueue = queue.NewWorkQueue[HitAreaLightWorkItem]("hit_area_light", size, qm)
	in.shadowRayQueue = queue.NewWorkQueue[ShadowRayWorkItem]("shadow_ray", size, qm)
	in.materialEvalQueues = material.NewEvalQueues[MaterialEvalWorkItem](size, qm)

	in.pool = queue.NewPool(cfg.NumWorkers, cfg.ChunkSize)
	in.pool.Start()

	in.logger.Infof("integrator: %d workers, queue capacity %d, %d lights (%d infinite), max depth %d",
		in.pool.NumWorkers(), size, len(scene.Lights), len(in.infiniteLights), cfg.MaxDepth)
	return in, nil
}

// Close stops the worker pool
func (in *Integrator) Close() {
	in.pool.Stop()
}

// Config returns the configuration the integrator was built with
func (in *Integrator) Config() config.Config { return in.cfg }

// Pixels returns the per-pixel accumulator
func (in *Integrator) Pixels() *film.PixelSampleState { return in.pixels }

// RayQueue returns the queue read at depth
func (in *Integrator) RayQueue(depth int) *RayQueue { return in.rayQueues[depth&1] }

// NextRayQueue returns the queue written at depth and read at depth+1
func (in *Integrator) NextRayQueue(depth int) *RayQueue { return in.rayQueues[(depth+1)&1] }

func (in *Integrator) MediumSampleQueue() *queue.WorkQueue[MediumSampleWorkItem] {
	return in.mediumSampleQueue
}

func (in *Integrator) MediumScatterQueue() *queue.WorkQueue[MediumScatterWorkItem] {
	return in.mediumScatterQueue
}

func (in *Integrator) MediumTransitionQueue() *queue.WorkQueue[MediumTransitionWorkItem] {
	return in.mediumTransitionQueue
}

// EscapedRayQueue returns nil when escaped rays are not handled
func (in *Integrator) EscapedRayQueue() *queue.WorkQueue[EscapedRayWorkItem] {
	return in.escapedRayQueue
}

func (in *Integrator) HitAreaLightQueue() *queue.WorkQueue[HitAreaLightWorkItem] {
	return in.hitAreaLightQueue
}

func (in *Integrator) ShadowRayQueue() *queue.WorkQueue[ShadowRayWorkItem] {
	return in.shadowRayQueue
}

func (in *Integrator) MaterialEvalQueues() *material.EvalQueues[MaterialEvalWorkItem] {
	return in.materialEvalQueues
}

// PushMediumSample hands a ray from the current ray queue, together with
// the result of intersecting it, to the medium sampler. tMax is +Inf when
// the ray hit nothing; hit is ignored in that case.
func (in *Integrator) PushMediumSample(r RayWorkItem, rayIndex int, tMax float64, hit SurfaceHit) int {
	return in.mediumSampleQueue.Push(MediumSampleWorkItem{
		Ray:                   r.Ray,
		Medium:                r.Medium,
		TMax:                  tMax,
		Lambda:                r.Lambda,
		Beta:                  r.Beta,
		PdfUni:                r.PdfUni,
		PdfNEE:                r.PdfNEE,
		RayIndex:              rayIndex,
		PixelIndex:            r.PixelIndex,
		PiPrev:                r.PiPrev,
		NPrev:                 r.NPrev,
		NsPrev:                r.NsPrev,
		IsSpecularBounce:      r.IsSpecularBounce,
		AnyNonSpecularBounces: r.AnyNonSpecularBounces,
		EtaScale:              r.EtaScale,
		Hit:                   hit,
	})
}

// ResetQueues empties every per-depth queue and the ray queue that depth
// will fill. It must run before the intersection stage of depth.
func (in *Integrator) ResetQueues(depth int) {
	in.NextRayQueue(depth).Reset()
	in.mediumSampleQueue.Reset()
	in.mediumScatterQueue.Reset()
	in.mediumTransitionQueue.Reset()
	if in.escapedRayQueue != nil {
		in.escapedRayQueue.Reset()
	}
	in.hitAreaLightQueue.Reset()
	in.shadowRayQueue.Reset()
	in.materialEvalQueues.Reset()
}

// ProcessMediumDepth runs the medium passes of one depth in order. Each
// pass completes before the next starts.
func (in *Integrator) ProcessMediumDepth(depth int) error {
	passes := []func(int) error{
		in.SampleMediumInteraction,
		in.SampleMediumScattering,
		in.HandleMediumTransitions,
	}
	for _, pass := range passes {
		if err := pass(depth); err != nil {
			in.logger.Errorf("depth %d: %v", depth, err)
			return fmt.Errorf("depth %d: %w", depth, err)
		}
	}
	return nil
}

// drain runs fn over q as a named pass and records its size
func drain[T any](in *Integrator, name string, depth int, q *queue.WorkQueue[T], fn func(item T, index int)) error {
	n := q.Size()
	if in.logger.DebugEnabled() {
		in.logger.Debugf("depth %d: %s: %d items", depth, name, n)
	}
	in.metrics.drained(name, n)
	return queue.ForAllQueued(in.pool, name, q, fn)
}
