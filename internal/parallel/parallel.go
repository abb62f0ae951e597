// Package parallel provides the worker fan-out used by the corpus builder.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Number of worker goroutines to use.
	MinItems   int  // Below this many items, run sequentially.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
		MinItems:   2,
	}
}

// WithWorkers returns cfg using n workers; n <= 0 keeps the CPU default.
func (cfg Config) WithWorkers(n int) Config {
	if n <= 0 {
		return cfg
	}
	cfg.NumWorkers = n
	cfg.Enabled = n > 1
	return cfg
}

// For executes f(i) for i in [0, n).
//
// Workers claim indices one at a time. f must only write state owned by i.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < max(cfg.MinItems, 2) {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var (
		wg   sync.WaitGroup
		next atomic.Int64
	)
	workers := min(cfg.NumWorkers, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1) - 1)
				if i >= n {
					return
				}
				f(i)
			}
		}()
	}
	wg.Wait()
}
