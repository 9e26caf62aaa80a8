package detection

import (
	"context"
	"fmt"
	"sync"
)

// InitFunc builds a detector. It may block, for example while native
// libraries load.
type InitFunc func(ctx context.Context) (QuadDetector, error)

// Loader initializes a detector once and hands the same handle to every
// caller. The first Load starts initialization in the background; callers
// that arrive while it runs wait on the same attempt. The outcome, error
// included, is kept for the Loader's lifetime.
type Loader struct {
	init InitFunc

	once sync.Once
	done chan struct{}
	det  QuadDetector
	err  error
}

// NewLoader returns a Loader that runs init on first use.
func NewLoader(init InitFunc) *Loader {
	return &Loader{init: init, done: make(chan struct{})}
}

// NewDefaultLoader returns a Loader for the build's default detector.
func NewDefaultLoader() *Loader {
	return NewLoader(func(context.Context) (QuadDetector, error) {
		return defaultDetector(), nil
	})
}

// Load returns the detector, starting initialization if needed. A
// cancelled ctx abandons the wait but not the initialization, which keeps
// running for later callers.
func (l *Loader) Load(ctx context.Context) (QuadDetector, error) {
	l.once.Do(func() {
		initCtx := context.WithoutCancel(ctx)
		go func() {
			defer close(l.done)
			det, err := l.init(initCtx)
			if err == nil && det == nil {
				err = fmt.Errorf("detector initialization returned no detector")
			}
			if err != nil {
				l.err = fmt.Errorf("failed to initialize detector: %w", err)
				return
			}
			l.det = det
		}()
	})

	select {
	case <-l.done:
		return l.det, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready reports whether initialization has finished, successfully or not.
func (l *Loader) Ready() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
