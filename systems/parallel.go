package systems

import "golang.org/x/sync/errgroup"

// parallelThreshold is the minimum observer count to split a pass across
// workers. Below this, goroutine overhead outweighs the O(n²) work.
const parallelThreshold = 64

// forEachChunk splits [0, n) into at most workers contiguous ranges and runs
// fn on each concurrently, returning when all are done. fn must only write
// state owned by its own range.
func forEachChunk(n, workers int, fn func(start, end int)) {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
