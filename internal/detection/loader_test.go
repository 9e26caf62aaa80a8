package detection

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

// stubDetector returns a fixed answer.
type stubDetector struct {
	quad geom.Quad
	ok   bool
}

func (s *stubDetector) DetectQuad(*image.Gray) (geom.Quad, bool) {
	return s.quad, s.ok
}

func TestLoader_SharesOneInitialization(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	want := &stubDetector{}
	l := NewLoader(func(ctx context.Context) (QuadDetector, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return want, nil
	})

	var wg sync.WaitGroup
	results := make(chan QuadDetector, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			det, err := l.Load(context.Background())
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			results <- det
		}()
	}

	if l.Ready() {
		t.Error("Ready should be false while initialization is blocked")
	}
	close(release)
	wg.Wait()
	close(results)

	for det := range results {
		if det != want {
			t.Errorf("got detector %p, want %p", det, want)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("init called %d times, want 1", n)
	}
	if !l.Ready() {
		t.Error("Ready should be true after initialization")
	}
}

func TestLoader_ErrorIsSticky(t *testing.T) {
	var calls int32
	boom := errors.New("no native library")
	l := NewLoader(func(context.Context) (QuadDetector, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	})

	for i := 0; i < 3; i++ {
		det, err := l.Load(context.Background())
		if !errors.Is(err, boom) {
			t.Errorf("attempt %d: got %v, want wrapped %v", i, err, boom)
		}
		if det != nil {
			t.Errorf("attempt %d: detector should be nil on failure", i)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("init called %d times, want 1", n)
	}
}

func TestLoader_NilDetectorIsAnError(t *testing.T) {
	l := NewLoader(func(context.Context) (QuadDetector, error) { return nil, nil })
	if _, err := l.Load(context.Background()); err == nil {
		t.Error("a nil detector without error should be reported as a failure")
	}
}

func TestLoader_CancelledWaitDoesNotAbortInit(t *testing.T) {
	release := make(chan struct{})
	want := &stubDetector{}
	l := NewLoader(func(ctx context.Context) (QuadDetector, error) {
		select {
		case <-release:
			return want, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Load(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want deadline exceeded", err)
	}

	close(release)
	det, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load after release: %v", err)
	}
	if det != want {
		t.Error("later caller should receive the detector from the first attempt")
	}
}

func TestNewDefaultLoader(t *testing.T) {
	det, err := NewDefaultLoader().Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if det == nil {
		t.Fatal("default detector is nil")
	}
}
