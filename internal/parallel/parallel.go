// Package parallel splits element-wise work over disjoint index ranges.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultMinChunkSize is the smallest range handed to a worker by default.
const DefaultMinChunkSize = 4096

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: DefaultMinChunkSize,
	}
}

// Chunks returns how many ranges ForRange would split n items into.
func (c Config) Chunks(n int) int {
	if n <= 0 {
		return 0
	}
	if !c.Enabled || c.NumWorkers < 2 || n < 2*max(c.MinChunkSize, 1) {
		return 1
	}
	size := c.chunkSize(n)
	return (n + size - 1) / size
}

func (c Config) chunkSize(n int) int {
	return max((n+c.NumWorkers-1)/c.NumWorkers, c.MinChunkSize, 1)
}

// ForRange calls f on disjoint [start, end) ranges covering [0, n) and
// returns once every range is done. Small inputs run on the calling
// goroutine.
func ForRange(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	if cfg.Chunks(n) <= 1 {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	size := cfg.chunkSize(n)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
