package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrTileFailed wraps any error or panic raised while rendering a tile
var ErrTileFailed = errors.New("tile failed")

// WorkerPool runs numbered tasks with a bounded number in flight. Tasks are
// admitted in order: when the pool is full, dispatch waits for the oldest
// in-flight task to finish, even if a younger one is already done.
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run calls task(i) for i in [0, n). With one worker the tasks run inline
// in order. Otherwise each task gets its own goroutine. The first failure
// stops further dispatch; tasks already in flight are joined before Run
// returns that failure.
func (wp *WorkerPool) Run(n int, task func(i int) error) error {
	if wp.numWorkers == 1 {
		for i := 0; i < n; i++ {
			if err := runTask(i, task); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		g      errgroup.Group
		failed atomic.Bool
	)

	// Completion channels of in-flight tasks, oldest first
	inFlight := make([]chan struct{}, 0, wp.numWorkers)

	for i := 0; i < n; i++ {
		if len(inFlight) == wp.numWorkers {
			<-inFlight[0]
			inFlight = inFlight[1:]
		}
		if failed.Load() {
			break
		}

		i := i
		done := make(chan struct{})
		inFlight = append(inFlight, done)
		g.Go(func() error {
			err := runTask(i, task)
			if err != nil {
				failed.Store(true)
			}
			close(done)
			return err
		})
	}

	return g.Wait()
}

// runTask calls task(i), converting a panic into an error
func runTask(i int, task func(i int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: task %d panicked: %v", ErrTileFailed, i, r)
		}
	}()

	if err := task(i); err != nil {
		return fmt.Errorf("%w: task %d: %w", ErrTileFailed, i, err)
	}
	return nil
}
