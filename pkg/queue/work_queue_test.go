package queue

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	ID    int
	Value float64
}

func TestWorkQueuePush(t *testing.T) {
	q := NewWorkQueue[testItem]("test", 8, nil)

	// Test initial state
	if size := q.Size(); size != 0 {
		t.Errorf("Expected empty queue, got %d items", size)
	}

	for i := 0; i < 3; i++ {
		if idx := q.Push(testItem{ID: i, Value: float64(i) * 0.5}); idx != i {
			t.Errorf("Expected slot %d, got %d", i, idx)
		}
	}

	if size := q.Size(); size != 3 {
		t.Errorf("Expected 3 items, got %d", size)
	}
	assert.Equal(t, testItem{ID: 1, Value: 0.5}, q.At(1))
	assert.Equal(t, 8, q.Capacity())
	assert.Equal(t, "test", q.Name())
}

func TestWorkQueueReset(t *testing.T) {
	q := NewWorkQueue[testItem]("test", 4, nil)
	q.Push(testItem{ID: 1})
	q.Push(testItem{ID: 2})

	q.Reset()

	if size := q.Size(); size != 0 {
		t.Errorf("Expected empty queue after reset, got %d", size)
	}
	assert.Equal(t, 0, q.Push(testItem{ID: 3}), "reset queue starts at slot 0")
}

func TestWorkQueueConcurrentPush(t *testing.T) {
	q := NewWorkQueue[testItem]("test", 1000, nil)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(testItem{ID: id*100 + j})
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, 1000, q.Size())

	// Every item lands in its own slot
	seen := make(map[int]bool)
	for _, item := range q.Items() {
		if seen[item.ID] {
			t.Fatalf("item %d stored twice", item.ID)
		}
		seen[item.ID] = true
	}
	assert.Len(t, seen, 1000)
}

func TestWorkQueueOverflowPanics(t *testing.T) {
	q := NewWorkQueue[testItem]("tiny", 2, nil)
	q.Push(testItem{})
	q.Push(testItem{})

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected overflow panic")
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrOverflow)

		var overflow *OverflowError
		require.True(t, errors.As(err, &overflow))
		assert.Equal(t, "tiny", overflow.Queue)
		assert.Equal(t, 2, overflow.Capacity)
	}()
	q.Push(testItem{})
}

func TestWorkQueueMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	q := NewWorkQueue[testItem]("counted", 2, m)

	q.Push(testItem{})
	q.Push(testItem{})
	func() {
		defer func() { _ = recover() }()
		q.Push(testItem{})
	}()
	q.Reset()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.pushes.WithLabelValues("counted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.overflows.WithLabelValues("counted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.drained.WithLabelValues("counted")))
}

func TestForAllQueuedVisitsEveryItemOnce(t *testing.T) {
	pool := NewPool(4, 7)
	pool.Start()
	defer pool.Stop()

	q := NewWorkQueue[testItem]("items", 500, nil)
	for i := 0; i < 500; i++ {
		q.Push(testItem{ID: i})
	}

	var visits [500]int32
	err := ForAllQueued(pool, "visit", q, func(item testItem, index int) {
		assert.Equal(t, index, item.ID)
		atomic.AddInt32(&visits[item.ID], 1)
	})
	require.NoError(t, err)

	for i, v := range visits {
		if v != 1 {
			t.Fatalf("item %d visited %d times", i, v)
		}
	}
}

func TestForAllQueuedEmptyQueue(t *testing.T) {
	pool := NewPool(2, 4)
	pool.Start()
	defer pool.Stop()

	q := NewWorkQueue[testItem]("empty", 4, nil)
	called := false
	require.NoError(t, ForAllQueued(pool, "noop", q, func(testItem, int) { called = true }))
	assert.False(t, called)
}

func TestForAllQueuedReportsOverflow(t *testing.T) {
	pool := NewPool(3, 2)
	pool.Start()
	defer pool.Stop()

	src := NewWorkQueue[testItem]("src", 10, nil)
	for i := 0; i < 10; i++ {
		src.Push(testItem{ID: i})
	}
	dst := NewWorkQueue[testItem]("dst", 4, nil)

	err := ForAllQueued(pool, "fan-out", src, func(item testItem, _ int) {
		dst.Push(item)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Contains(t, err.Error(), "fan-out")
	assert.Equal(t, 4, dst.Size())
}

func TestPoolReusableAcrossPasses(t *testing.T) {
	pool := NewPool(2, 3)
	pool.Start()
	defer pool.Stop()

	var total int64
	for pass := 0; pass < 5; pass++ {
		require.NoError(t, pool.ParallelFor("sum", 10, func(i int) {
			atomic.AddInt64(&total, int64(i))
		}))
	}
	assert.Equal(t, int64(5*45), total)
}
