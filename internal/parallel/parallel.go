// Package parallel provides parallel execution utilities for densenet.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
	}
}

// Sequential returns a config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// Chunk is a half-open index range [Start, End).
type Chunk struct {
	Start int
	End   int
}

// Len returns the number of indices in the chunk.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// Chunks partitions [0, n) into contiguous chunks, one per worker.
// A disabled config, or n below MinChunkSize, yields a single chunk.
// n <= 0 yields no chunks.
func Chunks(n int, cfg Config) []Chunk {
	if n <= 0 {
		return nil
	}
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < cfg.MinChunkSize {
		return []Chunk{{Start: 0, End: n}}
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
	chunks := make([]Chunk, 0, (n+chunkSize-1)/chunkSize)
	for start := 0; start < n; start += chunkSize {
		chunks = append(chunks, Chunk{Start: start, End: min(start+chunkSize, n)})
	}
	return chunks
}

// ForChunks executes f(i, chunks[i]) for every chunk of [0, n), one
// goroutine per chunk, and waits for all of them. A single chunk runs on
// the calling goroutine, so a disabled config or a small n is sequential.
// It returns the chunks so callers can merge per-chunk results in index
// order.
//
// Example:
//
//	sums := make([]int, len(parallel.Chunks(n, cfg)))
//	parallel.ForChunks(n, func(i int, c parallel.Chunk) {
//	    for j := c.Start; j < c.End; j++ {
//	        sums[i] += j
//	    }
//	}, cfg)
func ForChunks(n int, f func(i int, c Chunk), cfg Config) []Chunk {
	chunks := Chunks(n, cfg)
	if len(chunks) == 1 {
		f(0, chunks[0])
		return chunks
	}

	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(i, c)
		}()
	}
	wg.Wait()
	return chunks
}
