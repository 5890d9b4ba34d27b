// Package parallel splits index ranges across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the row count below which callers should stay sequential.
const DefaultThreshold = 1000

// Parallelize splits [0, items) into contiguous chunks and runs fn on each
// chunk in its own goroutine. workers <= 0 means one worker per CPU. fn must
// only touch state owned by its own range.
func Parallelize(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}

	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) inline when items <= threshold
// and falls back to Parallelize with one worker per CPU otherwise.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, 0, fn)
}
