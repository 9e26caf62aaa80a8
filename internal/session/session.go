package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/door-ar-mcp/internal/calibration"
	"github.com/ironsheep/door-ar-mcp/internal/detection"
	"github.com/ironsheep/door-ar-mcp/internal/geom"
	"github.com/ironsheep/door-ar-mcp/internal/imaging"
	"github.com/ironsheep/door-ar-mcp/internal/measure"
	"github.com/ironsheep/door-ar-mcp/internal/tracking"
)

// Options tunes a session. Zero fields take the DefaultOptions value.
type Options struct {
	DetectWidth       int
	DetectEveryN      int
	RenderInterval    time.Duration
	FirstFrameTimeout time.Duration
	SmoothAlpha       float64
	MinSide           float64
	EdgeLow           int
	EdgeHigh          int

	// ViewW and ViewH size the screen space; zero means the native frame.
	ViewW int
	ViewH int
	Fit   geom.FitMode

	Debug bool
}

// DefaultOptions matches the server's built-in configuration.
func DefaultOptions() Options {
	return Options{
		DetectWidth:       detection.DefaultDetectWidth,
		DetectEveryN:      6,
		RenderInterval:    16 * time.Millisecond,
		FirstFrameTimeout: 5 * time.Second,
		SmoothAlpha:       tracking.DefaultAlpha,
		MinSide:           geom.MinSideLength,
		EdgeLow:           imaging.DefaultEdgeLow,
		EdgeHigh:          imaging.DefaultEdgeHigh,
		Fit:               geom.FitCover,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DetectWidth <= 0 {
		o.DetectWidth = d.DetectWidth
	}
	if o.DetectEveryN <= 0 {
		o.DetectEveryN = d.DetectEveryN
	}
	if o.RenderInterval <= 0 {
		o.RenderInterval = d.RenderInterval
	}
	if o.FirstFrameTimeout <= 0 {
		o.FirstFrameTimeout = d.FirstFrameTimeout
	}
	if o.SmoothAlpha <= 0 {
		o.SmoothAlpha = d.SmoothAlpha
	}
	if o.MinSide <= 0 {
		o.MinSide = d.MinSide
	}
	if o.EdgeLow <= 0 && o.EdgeHigh <= 0 {
		o.EdgeLow, o.EdgeHigh = d.EdgeLow, d.EdgeHigh
	}
	return o
}

// Status is a snapshot of a session.
type Status struct {
	ID          string     `json:"id"`
	State       State      `json:"state"`
	Running     bool       `json:"running"`
	Dragging    bool       `json:"dragging"`
	Searching   bool       `json:"searching"`
	Calibrated  bool       `json:"calibrated"`
	Quad        *geom.Quad `json:"quad,omitempty"`
	FrameWidth  int        `json:"frame_width,omitempty"`
	FrameHeight int        `json:"frame_height,omitempty"`
	Ticks       int        `json:"ticks"`
	Detections  int        `json:"detections"`
	Misses      int        `json:"misses"`
	Err         string     `json:"error,omitempty"`
}

// Session is one run of the AR flow against one frame source. It is safe
// for concurrent use; a session runs at most once.
type Session struct {
	id     string
	source FrameSource
	loader *detection.Loader
	opts   Options

	mu         sync.Mutex
	state      State
	live       *tracking.Live
	scale      *calibration.Scale
	frame      image.Image
	mapper     *geom.Mapper
	ticks      int
	detections int
	misses     int
	searching  bool
	running    bool
	err        error
	cancel     context.CancelFunc
	done       chan struct{}
}

// New creates a session in StateCalibrate with a fresh ID.
func New(source FrameSource, loader *detection.Loader, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		id:     uuid.NewString(),
		source: source,
		loader: loader,
		opts:   opts,
		state:  StateCalibrate,
		live:   tracking.NewLive(opts.SmoothAlpha, opts.MinSide),
	}
}

// ID returns the session's identifier.
func (s *Session) ID() string {
	return s.id
}

// Run drives the session until ctx is cancelled, Stop is called, or a
// fatal error occurs. Cancellation is a clean exit and returns nil.
func (s *Session) Run(ctx context.Context) error {
	ctx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	return s.execute(ctx)
}

// Start runs the session in a new goroutine.
func (s *Session) Start(ctx context.Context) error {
	ctx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	go s.execute(ctx)
	return nil
}

// Stop cancels the run and waits for teardown. It returns the terminal
// error, if any. Stopping a session that never ran is a no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed once the run has torn down. It is nil before Run/Start.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Session) begin(parent context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return nil, ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel, s.done, s.running = cancel, make(chan struct{}), true
	return ctx, nil
}

func (s *Session) execute(ctx context.Context) error {
	err := s.loop(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	s.mu.Lock()
	s.running, s.err = false, err
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if err != nil {
		log.Printf("session %s: %v", s.id, err)
	}
	cancel()
	close(done)
	return err
}

// loop acquires the source, waits for the first frame, then ticks.
func (s *Session) loop(ctx context.Context) error {
	defer func() {
		if err := s.source.Close(); err != nil {
			log.Printf("session %s: failed to close frame source: %v", s.id, err)
		}
	}()

	if err := s.source.Open(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !errors.Is(err, ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		return err
	}

	det, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load detector: %w", err)
	}
	pipeline := detection.NewPipeline(det, s.opts.DetectWidth)
	pipeline.EdgeLow, pipeline.EdgeHigh = s.opts.EdgeLow, s.opts.EdgeHigh

	first, err := s.awaitFirstFrame(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	err = s.setFrameLocked(first)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.debugf("first frame %dx%d", first.Bounds().Dx(), first.Bounds().Dy())

	ticker := time.NewTicker(s.opts.RenderInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick(pipeline)
		}
	}
}

func (s *Session) awaitFirstFrame(ctx context.Context) (image.Image, error) {
	deadline := time.NewTimer(s.opts.FirstFrameTimeout)
	defer deadline.Stop()
	poll := time.NewTicker(s.opts.RenderInterval)
	defer poll.Stop()

	for {
		if img, ok := s.source.Frame(); ok && img != nil && !img.Bounds().Empty() {
			return img, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("%w after %v", ErrFirstFrameTimeout, s.opts.FirstFrameTimeout)
		case <-poll.C:
		}
	}
}

// tick is one render step: take the newest frame and, on every
// DetectEveryN-th tick in AutoDetect without a drag, run detection. The
// pipeline runs without the lock; its result is dropped if the state
// changed or a drag started meanwhile.
func (s *Session) tick(p *detection.Pipeline) {
	img, ok := s.source.Frame()

	s.mu.Lock()
	if ok && img != nil && !img.Bounds().Empty() {
		if err := s.setFrameLocked(img); err != nil {
			s.debugf("dropping frame: %v", err)
		}
	}
	s.ticks++
	due := s.ticks%s.opts.DetectEveryN == 0 && s.state == StateAutoDetect && !s.live.Dragging()
	frame := s.frame
	s.mu.Unlock()

	if !due || frame == nil {
		return
	}

	det, err := p.Detect(frame, s.opts.ViewW, s.opts.ViewH, s.opts.Fit)

	s.mu.Lock()
	defer s.mu.Unlock()
	// The state may have changed while detection ran unlocked.
	if s.state != StateAutoDetect {
		return
	}
	if err != nil {
		s.misses++
		s.debugf("detection failed: %v", err)
		return
	}
	if !det.Found {
		s.misses++
		s.searching = true
		return
	}
	if s.live.Observe(det.Screen) {
		s.detections++
		s.searching = false
	}
}

func (s *Session) setFrameLocked(img image.Image) error {
	b := img.Bounds()
	if s.mapper == nil || s.mapper.NativeW != b.Dx() || s.mapper.NativeH != b.Dy() {
		m, err := geom.NewMapper(b.Dx(), b.Dy(), s.opts.DetectWidth, s.opts.ViewW, s.opts.ViewH, s.opts.Fit)
		if err != nil {
			return fmt.Errorf("failed to map frame: %w", err)
		}
		s.mapper = m
	}
	s.frame = img
	return nil
}

// BeginDetection leaves calibration. scale may be nil when the user skips
// calibration; measurements then carry pixels only.
func (s *Session) BeginDetection(scale *calibration.Scale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !next(s.state, StateAutoDetect) {
		return transitionError(s.state, StateAutoDetect)
	}
	if scale != nil {
		sc := *scale
		s.scale = &sc
	}
	s.state = StateAutoDetect
	s.searching = true
	return nil
}

// Confirm freezes the live quad and returns its measurement. An active
// drag is ended first.
func (s *Session) Confirm() (measure.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !next(s.state, StateConfirmed) {
		return measure.Result{}, transitionError(s.state, StateConfirmed)
	}
	q, ok := s.live.Quad()
	if !ok {
		return measure.Result{}, fmt.Errorf("cannot confirm: %w", tracking.ErrNoQuad)
	}
	s.live.EndDrag()
	s.state = StateConfirmed
	s.searching = false
	return measure.New(q, s.scale), nil
}

// Reset returns to StateCalibrate from any state, dropping the quad and
// the scale.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateCalibrate
	s.live.Clear()
	s.scale = nil
	s.searching = false
}

// BeginDrag starts moving a corner. Dragging is allowed in AutoDetect and
// Confirmed.
func (s *Session) BeginDrag(c geom.Corner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCalibrate {
		return fmt.Errorf("%w: cannot drag while calibrating", ErrInvalidTransition)
	}
	return s.live.BeginDrag(c)
}

// DragTo moves the dragged corner to a screen-space point and returns the
// resulting quad. ok is false when no drag is active or the move would
// collapse the quad.
func (s *Session) DragTo(p geom.Point) (geom.Quad, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.live.DragTo(p)
	q, _ := s.live.Quad()
	return q, ok
}

// EndDrag releases the corner. Detection resumes on its own in AutoDetect.
func (s *Session) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live.EndDrag()
}

// Measurement measures the current quad without changing state.
func (s *Session) Measurement() (measure.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.live.Quad()
	if !ok {
		return measure.Result{}, tracking.ErrNoQuad
	}
	return measure.New(q, s.scale), nil
}

// Status returns a snapshot.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		ID:         s.id,
		State:      s.state,
		Running:    s.running,
		Dragging:   s.live.Dragging(),
		Searching:  s.searching,
		Calibrated: s.scale != nil,
		Ticks:      s.ticks,
		Detections: s.detections,
		Misses:     s.misses,
	}
	if q, ok := s.live.Quad(); ok {
		st.Quad = &q
	}
	if s.frame != nil {
		st.FrameWidth, st.FrameHeight = s.frame.Bounds().Dx(), s.frame.Bounds().Dy()
	}
	if s.err != nil {
		st.Err = s.err.Error()
	}
	return st
}

// Preview renders the newest frame into the viewport with the live quad
// outlined.
func (s *Session) Preview() (*image.RGBA, error) {
	s.mu.Lock()
	frame, m := s.frame, s.mapper
	q, ok := s.live.Quad()
	s.mu.Unlock()

	if frame == nil || m == nil {
		return nil, fmt.Errorf("no frame yet")
	}
	view := imaging.RenderViewport(frame, m, color.Black)
	if !ok {
		return view, nil
	}
	return imaging.DrawQuadOverlay(view, q, imaging.OutlineColor), nil
}

func (s *Session) debugf(format string, args ...interface{}) {
	if s.opts.Debug {
		log.Printf("session %s: "+format, append([]interface{}{s.id}, args...)...)
	}
}
