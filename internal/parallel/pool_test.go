package parallel

import (
	"image"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		if pool.Workers() != runtime.GOMAXPROCS(0) {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want GOMAXPROCS", n, pool.Workers())
		}
		pool.Close()
	}
}

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}
	pool.ExecuteAll(work)

	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPool_ExecuteAllAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("pool running after Close")
	}
	ran := 0
	pool.ExecuteAll([]func(){func() { ran++ }, func() { ran++ }})
	if ran != 2 {
		t.Errorf("ran = %d after Close, want 2 on the caller", ran)
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		name    string
		r       image.Rectangle
		n, min  int
		wantLen int
	}{
		{"even", image.Rect(0, 0, 10, 100), 4, 1, 4},
		{"remainder", image.Rect(5, 3, 9, 13), 3, 1, 3},
		{"min rows caps count", image.Rect(0, 0, 10, 40), 8, 16, 2},
		{"short", image.Rect(0, 0, 10, 3), 4, 16, 1},
		{"empty", image.Rect(0, 0, 0, 10), 4, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bands := Bands(tt.r, tt.n, tt.min)
			if len(bands) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(bands), tt.wantLen)
			}
			if len(bands) == 0 {
				return
			}
			y := tt.r.Min.Y
			for _, b := range bands {
				if b.Min.Y != y || b.Min.X != tt.r.Min.X || b.Max.X != tt.r.Max.X || b.Empty() {
					t.Fatalf("band %v does not continue at y=%d", b, y)
				}
				y = b.Max.Y
			}
			if y != tt.r.Max.Y {
				t.Errorf("bands end at %d, want %d", y, tt.r.Max.Y)
			}
		})
	}
}

func TestWorkerPool_CloseDuringExecute(t *testing.T) {
	pool := NewWorkerPool(2)
	var counter atomic.Int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 20 {
			work := make([]func(), 8)
			for i := range work {
				work[i] = func() { counter.Add(1) }
			}
			pool.ExecuteAll(work)
		}
	}()
	pool.Close()
	<-done

	if counter.Load() != 160 {
		t.Errorf("counter = %d, want every item run once", counter.Load())
	}
}
