package queue

import (
	"fmt"
	"runtime"
	"sync"
)

// chunkTask is a contiguous range of item indices handed to one worker
type chunkTask struct {
	start, end int
	fn         func(index int)
	pass       *passState
}

// passState collects completion and the first failure of one parallel pass
type passState struct {
	name string
	wg   sync.WaitGroup
	once sync.Once
	err  error
}

func (ps *passState) fail(err error) {
	ps.once.Do(func() { ps.err = err })
}

// Pool manages the goroutines that drain work queues. Every drain is a full
// barrier: it returns only after every item has been processed.
type Pool struct {
	taskQueue  chan chunkTask
	numWorkers int
	chunkSize  int
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// NewPool creates a pool with the specified number of workers (0 = NumCPU)
// handing out chunkSize items per task
func NewPool(numWorkers, chunkSize int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if chunkSize <= 0 {
		chunkSize = 1
	}
	return &Pool{
		taskQueue:  make(chan chunkTask, numWorkers*4),
		numWorkers: numWorkers,
		chunkSize:  chunkSize,
	}
}

// Start begins all workers
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

// Stop gracefully shuts down all workers
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.taskQueue) // No more tasks
		p.wg.Wait()        // Wait for workers to finish
	})
}

// NumWorkers returns the number of workers in the pool
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// ParallelFor calls fn(i) for every i in [0, n) across the workers, with no
// ordering guarantee, and waits for all of them. A panic inside fn (such as
// an *OverflowError from a nested Push) does not stop the other items but is
// returned as the pass error. ParallelFor must not be called from inside fn.
func (p *Pool) ParallelFor(name string, n int, fn func(index int)) error {
	if n <= 0 {
		return nil
	}
	pass := &passState{name: name}
	for start := 0; start < n; start += p.chunkSize {
		end := min(start+p.chunkSize, n)
		pass.wg.Add(1)
		p.taskQueue <- chunkTask{start: start, end: end, fn: fn, pass: pass}
	}
	pass.wg.Wait()
	return pass.err
}

// run is the main worker loop
func (p *Pool) run() {
	defer p.wg.Done()
	for task := range p.taskQueue {
		p.execute(task)
	}
}

func (p *Pool) execute(task chunkTask) {
	defer task.pass.wg.Done()
	for i := task.start; i < task.end; i++ {
		p.invoke(task, i)
	}
}

func (p *Pool) invoke(task chunkTask, index int) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				task.pass.fail(fmt.Errorf("%s: item %d: %w", task.pass.name, index, err))
			} else {
				task.pass.fail(fmt.Errorf("%s: item %d: panic: %v", task.pass.name, index, r))
			}
		}
	}()
	task.fn(index)
}

// ForAllQueued invokes fn once for every item currently in q, in parallel.
// q must not be pushed to while it is being drained.
func ForAllQueued[T any](p *Pool, name string, q *WorkQueue[T], fn func(item T, index int)) error {
	n := q.Size()
	return p.ParallelFor(name, n, func(i int) {
		fn(q.items[i], i)
	})
}
