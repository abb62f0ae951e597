package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_EachIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinItems: 2}

	n := 257
	hits := make([]int32, n)
	For(n, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	}, cfg)

	for i, h := range hits {
		if h != 1 {
			t.Errorf("index %d visited %d times", i, h)
		}
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var order []int
	For(5, func(i int) {
		order = append(order, i)
	}, cfg)

	for i, v := range order {
		if v != i {
			t.Fatalf("Expected sequential order, got %v", order)
		}
	}
	if len(order) != 5 {
		t.Errorf("Expected 5 calls, got %d", len(order))
	}
}

func TestFor_BelowMinItems(t *testing.T) {
	// Test that small work units fall back to sequential.
	cfg := Config{Enabled: true, NumWorkers: 8, MinItems: 10}

	var order []int
	For(3, func(i int) {
		order = append(order, i)
	}, cfg)

	if len(order) != 3 || order[0] != 0 || order[2] != 2 {
		t.Errorf("Expected sequential [0 1 2], got %v", order)
	}
}

func TestFor_Zero(t *testing.T) {
	called := false
	For(0, func(_ int) { called = true }, DefaultConfig())
	if called {
		t.Error("f must not be called for n == 0")
	}
}

func TestWithWorkers(t *testing.T) {
	cfg := DefaultConfig().WithWorkers(1)
	if cfg.Enabled || cfg.NumWorkers != 1 {
		t.Errorf("Expected single sequential worker, got %+v", cfg)
	}

	cfg = DefaultConfig().WithWorkers(6)
	if !cfg.Enabled || cfg.NumWorkers != 6 {
		t.Errorf("Expected 6 workers, got %+v", cfg)
	}

	def := DefaultConfig()
	if got := def.WithWorkers(0); got != def {
		t.Errorf("Expected defaults to be kept, got %+v", got)
	}
}
