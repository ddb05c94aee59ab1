package application

import (
	"context"
	"sync"
)

// RunAll executes count tasks on at most workers goroutines and waits for
// every started task to finish. A cancelled context stops handing out new
// tasks but never interrupts tasks already running, so results recorded by
// finished tasks are always complete. Tasks report failure through their
// own captured state; one failing task does not affect the others.
func RunAll(ctx context.Context, workers, count int, task func(i int)) {
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := 0; i < count; i++ {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			task(i)
		}(i)
	}
	wg.Wait()
}
