package material

import (
	"fmt"

	"github.com/df07/go-wavefront-media/pkg/queue"
)

// EvalQueues holds one material-evaluation queue per kind for each texture
// evaluator. The queue for a material is chosen when the work is enqueued.
type EvalQueues[T any] struct {
	basic     [NumKinds]*queue.WorkQueue[T]
	universal [NumKinds]*queue.WorkQueue[T]
}

// NewEvalQueues allocates 2*NumKinds queues of the given capacity
func NewEvalQueues[T any](capacity int, metrics *queue.Metrics) *EvalQueues[T] {
	eq := &EvalQueues[T]{}
	for k := Kind(0); k < NumKinds; k++ {
		eq.basic[k] = queue.NewWorkQueue[T](fmt.Sprintf("material_basic_%s", k), capacity, metrics)
		eq.universal[k] = queue.NewWorkQueue[T](fmt.Sprintf("material_universal_%s", k), capacity, metrics)
	}
	return eq
}

// Queue returns the queue that evaluates m
func (eq *EvalQueues[T]) Queue(m Material) *queue.WorkQueue[T] {
	k := m.Kind()
	if k < 0 || k >= NumKinds {
		panic(fmt.Sprintf("material: unknown kind %d", k))
	}
	if UsesBasicEvaluator(m) {
		return eq.basic[k]
	}
	return eq.universal[k]
}

// Push enqueues item on the queue for m
func (eq *EvalQueues[T]) Push(m Material, item T) int {
	return eq.Queue(m).Push(item)
}

// Basic returns the basic-evaluator queue for kind k
func (eq *EvalQueues[T]) Basic(k Kind) *queue.WorkQueue[T] { return eq.basic[k] }

// Universal returns the universal-evaluator queue for kind k
func (eq *EvalQueues[T]) Universal(k Kind) *queue.WorkQueue[T] { return eq.universal[k] }

// Size returns the total number of queued items
func (eq *EvalQueues[T]) Size() int {
	n := 0
	for k := Kind(0); k < NumKinds; k++ {
		n += eq.basic[k].Size() + eq.universal[k].Size()
	}
	return n
}

// Reset empties every queue
func (eq *EvalQueues[T]) Reset() {
	for k := Kind(0); k < NumKinds; k++ {
		eq.basic[k].Reset()
		eq.universal[k].Reset()
	}
}
