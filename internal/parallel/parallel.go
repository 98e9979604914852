// Package parallel runs index-addressed loops across a bounded set of goroutines.
//
// Each index is handed to exactly one worker, so callers that write only to
// slot i of a pre-allocated output need no further synchronization.
package parallel

import (
	"runtime"
	"sync"
)

// Workers returns n when positive, otherwise GOMAXPROCS.
func Workers(n int) int {
	if n > 0 {
		return n
	}

	return runtime.GOMAXPROCS(0)
}

// For calls fn(worker, i) for every i in [0, n). worker identifies the
// goroutine in [0, workers) so callers can keep per-worker scratch buffers.
// With workers <= 1 or n <= 1 the loop runs on the calling goroutine.
func For(n, workers int, fn func(worker, i int)) {
	if n <= 0 {
		return
	}

	workers = Workers(workers)
	if workers > n {
		workers = n
	}

	if workers <= 1 {
		for i := range n {
			fn(0, i)
		}

		return
	}

	var (
		wg   sync.WaitGroup
		next = make(chan int, n)
	)

	for i := range n {
		next <- i
	}
	close(next)

	wg.Add(workers)
	for w := range workers {
		go func(w int) {
			defer wg.Done()
			for i := range next {
				fn(w, i)
			}
		}(w)
	}
	wg.Wait()
}
