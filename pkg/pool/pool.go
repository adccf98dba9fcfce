package pool

import (
	"context"
	"sync"
)

// WorkerFunc processes one item and may return an error.
type WorkerFunc[T any] func(ctx context.Context, item T) error

// Task is a unit of work for Tasks.
type Task func(ctx context.Context) error

// Run processes items with at most numWorkers goroutines. It returns the
// non-nil errors in item order. numWorkers below one means one worker.
// Items not yet started when ctx is cancelled are skipped.
func Run[T any](ctx context.Context, items []T, numWorkers int, workerFunc WorkerFunc[T]) []error {
	if len(items) == 0 {
		return nil
	}
	numWorkers = max(1, min(numWorkers, len(items)))

	results := make([]error, len(items))
	indexes := make(chan int)
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if ctx.Err() != nil {
					continue
				}
				results[i] = workerFunc(ctx, items[i])
			}
		}()
	}

feed:
	for i := range items {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	var errs []error
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Tasks runs every task concurrently and waits for all of them.
func Tasks(ctx context.Context, tasks ...Task) []error {
	return Run(ctx, tasks, len(tasks), func(ctx context.Context, task Task) error {
		return task(ctx)
	})
}
