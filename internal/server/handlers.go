package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/door-ar-mcp/internal/calibration"
	"github.com/ironsheep/door-ar-mcp/internal/composite"
	"github.com/ironsheep/door-ar-mcp/internal/detection"
	"github.com/ironsheep/door-ar-mcp/internal/geom"
	"github.com/ironsheep/door-ar-mcp/internal/imaging"
	"github.com/ironsheep/door-ar-mcp/internal/layer"
	"github.com/ironsheep/door-ar-mcp/internal/measure"
	"github.com/ironsheep/door-ar-mcp/internal/pose"
	"github.com/ironsheep/door-ar-mcp/internal/session"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug() {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Detection and mapping
	case "ar_detect_quad":
		return s.handleDetectQuad(args)
	case "ar_edge_preview":
		return s.handleEdgePreview(args)
	case "ar_map_point":
		return s.handleMapPoint(args)
	case "ar_capture_region":
		return s.handleCaptureRegion(args)

	// Calibration and measurement
	case "ar_calibration_presets":
		return s.handleCalibrationPresets(args)
	case "ar_calibrate":
		return s.handleCalibrate(args)
	case "ar_measure":
		return s.handleMeasure(args)

	// Rendering
	case "ar_pose_quad":
		return s.handlePoseQuad(args)
	case "ar_compose_layers":
		return s.handleComposeLayers(args)
	case "ar_composite":
		return s.handleComposite(args)

	// Live sessions
	case "ar_session_start":
		return s.handleSessionStart(args)
	case "ar_session_detect":
		return s.handleSessionDetect(args)
	case "ar_session_status":
		return s.handleSessionStatus(args)
	case "ar_session_drag":
		return s.handleSessionDrag(args)
	case "ar_session_confirm":
		return s.handleSessionConfirm(args)
	case "ar_session_reset":
		return s.handleSessionReset(args)
	case "ar_session_stop":
		return s.handleSessionStop(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared argument shapes ===

// viewArgs describes the viewport a frame is shown in. A zero size means
// the native frame size.
type viewArgs struct {
	ViewWidth  int    `json:"view_width"`
	ViewHeight int    `json:"view_height"`
	Fit        string `json:"fit"`
}

func (v viewArgs) mode() (geom.FitMode, error) {
	return geom.ParseFitMode(v.Fit)
}

type size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type rectArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r rectArgs) rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

func rectOf(r image.Rectangle) rectArgs {
	return rectArgs{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

func (s *Server) pipeline(detectWidth int) (*detection.Pipeline, error) {
	det, err := s.loader.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load detector: %w", err)
	}
	if detectWidth <= 0 {
		detectWidth = s.cfg.DetectWidth
	}
	p := detection.NewPipeline(det, detectWidth)
	p.EdgeLow, p.EdgeHigh = s.cfg.EdgeLow, s.cfg.EdgeHigh
	return p, nil
}

// resolveScale picks the scale for a measurement: an explicit mm/px wins,
// then the persisted calibration unless ignoreStored is set. A nil scale
// means pixels only.
func (s *Server) resolveScale(mmPerPx float64, ignoreStored bool) (*calibration.Scale, error) {
	if mmPerPx > 0 {
		return &calibration.Scale{MmPerPx: mmPerPx}, nil
	}
	if ignoreStored {
		return nil, nil
	}
	sc, ok, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

type measurementResult struct {
	Measurement measure.Result `json:"measurement"`
	Query       string         `json:"query"`
	SavedTo     string         `json:"saved_to,omitempty"`
}

func newMeasurementResult(r measure.Result, outputPath string) (*measurementResult, error) {
	out := &measurementResult{Measurement: r, Query: r.QueryValues().Encode()}
	if outputPath != "" {
		if err := r.Save(outputPath); err != nil {
			return nil, err
		}
		out.SavedTo = outputPath
	}
	return out, nil
}

type renderResult struct {
	*imaging.EncodedImage
	Quad    *geom.Quad `json:"quad,omitempty"`
	SavedTo string     `json:"saved_to,omitempty"`
}

func encodeAndSave(img image.Image, outputPath string) (*renderResult, error) {
	enc, err := imaging.Encode(img)
	if err != nil {
		return nil, err
	}
	out := &renderResult{EncodedImage: enc}
	if outputPath != "" {
		if err := imaging.SavePNG(img, outputPath); err != nil {
			return nil, err
		}
		out.SavedTo = outputPath
	}
	return out, nil
}

// === Detection and mapping handlers ===

type detectQuadArgs struct {
	Path        string `json:"path"`
	DetectWidth int    `json:"detect_width"`
	viewArgs
}

type detectQuadResult struct {
	Found         bool       `json:"found"`
	Quad          *geom.Quad `json:"quad,omitempty"`
	DetectionQuad *geom.Quad `json:"detection_quad,omitempty"`
	NativeQuad    *geom.Quad `json:"native_quad,omitempty"`
	Native        size       `json:"native"`
	Detection     size       `json:"detection"`
	Viewport      size       `json:"viewport"`
	Fit           string     `json:"fit"`
}

func (s *Server) handleDetectQuad(args json.RawMessage) (interface{}, error) {
	var a detectQuadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := a.mode()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	p, err := s.pipeline(a.DetectWidth)
	if err != nil {
		return nil, err
	}

	det, err := p.Detect(img, a.ViewWidth, a.ViewHeight, mode)
	if err != nil {
		return nil, err
	}

	m := det.Mapper
	out := &detectQuadResult{
		Found:     det.Found,
		Native:    size{m.NativeW, m.NativeH},
		Detection: size{m.DetW, m.DetH},
		Viewport:  size{m.ViewW, m.ViewH},
		Fit:       m.Mode.String(),
	}
	if !det.Found {
		return out, nil
	}

	native, err := m.Between(geom.SpaceDetection, geom.SpaceNative).ApplyQuad(det.Quad)
	if err != nil {
		return nil, err
	}
	out.Quad, out.DetectionQuad, out.NativeQuad = &det.Screen, &det.Quad, &native
	return out, nil
}

type edgePreviewArgs struct {
	Path        string `json:"path"`
	DetectWidth int    `json:"detect_width"`
}

type edgePreviewResult struct {
	*imaging.EncodedImage
	EdgePixels int `json:"edge_pixels"`
}

func (s *Server) handleEdgePreview(args json.RawMessage) (interface{}, error) {
	var a edgePreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	p, err := s.pipeline(a.DetectWidth)
	if err != nil {
		return nil, err
	}
	_, edges, err := p.Prepare(img, 0, 0, geom.FitCover)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, v := range edges.Pix {
		if v > 0 {
			count++
		}
	}
	enc, err := imaging.Encode(edges)
	if err != nil {
		return nil, err
	}
	return &edgePreviewResult{EncodedImage: enc, EdgePixels: count}, nil
}

type mapPointArgs struct {
	Path         string  `json:"path"`
	NativeWidth  int     `json:"native_width"`
	NativeHeight int     `json:"native_height"`
	DetectWidth  int     `json:"detect_width"`
	From         string  `json:"from"`
	To           string  `json:"to"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	viewArgs
}

type mapPointResult struct {
	geom.Point
	Space string `json:"space"`
}

func (s *Server) handleMapPoint(args json.RawMessage) (interface{}, error) {
	var a mapPointArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	from, err := geom.ParseSpace(a.From)
	if err != nil {
		return nil, err
	}
	to, err := geom.ParseSpace(a.To)
	if err != nil {
		return nil, err
	}
	mode, err := a.mode()
	if err != nil {
		return nil, err
	}

	w, h := a.NativeWidth, a.NativeHeight
	if a.Path != "" {
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		w, h = img.Bounds().Dx(), img.Bounds().Dy()
	}
	detW := a.DetectWidth
	if detW <= 0 {
		detW = s.cfg.DetectWidth
	}
	m, err := geom.NewMapper(w, h, detW, a.ViewWidth, a.ViewHeight, mode)
	if err != nil {
		return nil, err
	}

	p := m.Between(from, to).Apply(geom.Pt(a.X, a.Y))
	return &mapPointResult{Point: p, Space: to.String()}, nil
}

type captureRegionArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
	rectArgs
	viewArgs
}

type captureRegionResult struct {
	*renderResult
	Native rectArgs `json:"native"`
}

func (s *Server) handleCaptureRegion(args json.RawMessage) (interface{}, error) {
	var a captureRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := a.mode()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	m, err := geom.NewMapper(b.Dx(), b.Dy(), s.cfg.DetectWidth, a.ViewWidth, a.ViewHeight, mode)
	if err != nil {
		return nil, err
	}

	screen := a.rect()
	crop, err := imaging.CaptureRegion(img, m, screen)
	if err != nil {
		return nil, err
	}
	rendered, err := encodeAndSave(crop, a.OutputPath)
	if err != nil {
		return nil, err
	}
	return &captureRegionResult{renderResult: rendered, Native: rectOf(m.ScreenRectToNative(screen))}, nil
}

// === Calibration and measurement handlers ===

type calibrationPresetsResult struct {
	Presets []calibration.Preset `json:"presets"`
	Current *calibration.Scale   `json:"current,omitempty"`
}

func (s *Server) handleCalibrationPresets(args json.RawMessage) (interface{}, error) {
	out := &calibrationPresetsResult{Presets: calibration.Presets()}
	sc, ok, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if ok {
		out.Current = &sc
	}
	return out, nil
}

type calibrateArgs struct {
	A                 geom.Point `json:"a"`
	B                 geom.Point `json:"b"`
	Preset            string     `json:"preset"`
	ReferenceLengthMm float64    `json:"reference_length_mm"`
	Persist           bool       `json:"persist"`
}

type calibrateResult struct {
	Scale     calibration.Scale `json:"scale"`
	Persisted bool              `json:"persisted"`
	Path      string            `json:"path,omitempty"`
}

func (s *Server) handleCalibrate(args json.RawMessage) (interface{}, error) {
	var a calibrateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var preset calibration.Preset
	switch {
	case a.Preset != "":
		p, err := calibration.LookupPreset(a.Preset)
		if err != nil {
			return nil, err
		}
		preset = p
	case a.ReferenceLengthMm != 0:
		preset = calibration.Preset{ID: "custom", Label: "Custom length", ReferenceLengthMm: a.ReferenceLengthMm}
	default:
		return nil, fmt.Errorf("preset or reference_length_mm is required")
	}

	sc, err := calibration.Calibrate(a.A, a.B, preset)
	if err != nil {
		return nil, err
	}

	out := &calibrateResult{Scale: sc}
	if a.Persist {
		if err := s.store.Save(sc); err != nil {
			return nil, err
		}
		out.Persisted, out.Path = true, s.store.Path()
	}
	return out, nil
}

type measureArgs struct {
	Quad         geom.Quad `json:"quad"`
	MmPerPx      float64   `json:"mm_per_px"`
	IgnoreStored bool      `json:"ignore_stored"`
	OutputPath   string    `json:"output_path"`
}

func (s *Server) handleMeasure(args json.RawMessage) (interface{}, error) {
	var a measureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sc, err := s.resolveScale(a.MmPerPx, a.IgnoreStored)
	if err != nil {
		return nil, err
	}
	return newMeasurementResult(measure.New(a.Quad, sc), a.OutputPath)
}

// === Rendering handlers ===

type poseQuadArgs struct {
	pose.Params
	AssetPath      string  `json:"asset_path"`
	BackgroundPath string  `json:"background_path"`
	AssetWidth     float64 `json:"asset_width"`
	AssetHeight    float64 `json:"asset_height"`
	CanvasWidth    float64 `json:"canvas_width"`
	CanvasHeight   float64 `json:"canvas_height"`
}

type poseQuadResult struct {
	Quad   geom.Quad `json:"quad"`
	Bounds rectArgs  `json:"bounds"`
}

func (s *Server) handlePoseQuad(args json.RawMessage) (interface{}, error) {
	var a poseQuadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.AssetPath != "" {
		img, err := s.cache.Load(a.AssetPath)
		if err != nil {
			return nil, err
		}
		a.AssetWidth, a.AssetHeight = float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	}
	if a.BackgroundPath != "" {
		img, err := s.cache.Load(a.BackgroundPath)
		if err != nil {
			return nil, err
		}
		a.CanvasWidth, a.CanvasHeight = float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	}
	if a.AssetWidth <= 0 || a.AssetHeight <= 0 || a.CanvasWidth <= 0 || a.CanvasHeight <= 0 {
		return nil, fmt.Errorf("asset and canvas sizes must be positive")
	}

	q := pose.Project(a.Params, a.AssetWidth, a.AssetHeight, a.CanvasWidth, a.CanvasHeight)
	return &poseQuadResult{Quad: q, Bounds: rectOf(q.Bounds())}, nil
}

type composeLayersArgs struct {
	FramePath  string `json:"frame_path"`
	Glass      string `json:"glass"`
	FrameColor string `json:"frame_color"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleComposeLayers(args json.RawMessage) (interface{}, error) {
	var a composeLayersArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frame, err := s.cache.Load(a.FramePath)
	if err != nil {
		return nil, err
	}
	img, err := layer.Compose(frame, layer.Config{
		AssetID:    a.FramePath,
		FrameColor: a.FrameColor,
		Glass:      layer.ParseGlass(a.Glass),
	})
	if err != nil {
		return nil, err
	}
	return encodeAndSave(img, a.OutputPath)
}

type compositeArgs struct {
	BackgroundPath string       `json:"background_path"`
	AssetPath      string       `json:"asset_path"`
	Quad           *geom.Quad   `json:"quad"`
	Pose           *pose.Params `json:"pose"`
	Glass          string       `json:"glass"`
	FrameColor     string       `json:"frame_color"`
	Opacity        *float64     `json:"opacity"`
	Sampling       string       `json:"sampling"`
	OutputPath     string       `json:"output_path"`
}

// handleComposite warps the asset onto the background. The quad is in the
// background's pixel space; without one, the pose (default upright) is
// projected onto the background.
func (s *Server) handleComposite(args json.RawMessage) (interface{}, error) {
	var a compositeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	bg, err := s.cache.Load(a.BackgroundPath)
	if err != nil {
		return nil, err
	}
	asset, err := s.cache.Load(a.AssetPath)
	if err != nil {
		return nil, err
	}

	opts := composite.DefaultOptions()
	opts.Sampling = s.sampling
	if a.Sampling != "" {
		if opts.Sampling, err = composite.ParseSampling(a.Sampling); err != nil {
			return nil, err
		}
	}
	if a.Opacity != nil {
		opts.Opacity = *a.Opacity
	}

	if a.Glass != "" || a.FrameColor != "" {
		layered, err := layer.Compose(asset, layer.Config{
			AssetID:    a.AssetPath,
			FrameColor: a.FrameColor,
			Glass:      layer.ParseGlass(a.Glass),
			Opacity:    opts.Opacity,
		})
		if err != nil {
			return nil, err
		}
		asset = layered
	}

	var q geom.Quad
	switch {
	case a.Quad != nil:
		q = *a.Quad
	default:
		var p pose.Params
		if a.Pose != nil {
			p = *a.Pose
		}
		ab, bb := asset.Bounds(), bg.Bounds()
		q = pose.Project(p, float64(ab.Dx()), float64(ab.Dy()), float64(bb.Dx()), float64(bb.Dy()))
	}

	out, err := composite.Composite(bg, asset, q, opts)
	if err != nil {
		return nil, err
	}
	rendered, err := encodeAndSave(out, a.OutputPath)
	if err != nil {
		return nil, err
	}
	rendered.Quad = &q
	return rendered, nil
}

// === Live session handlers ===

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

type sessionStartArgs struct {
	Path      string `json:"path"`
	FramesDir string `json:"frames_dir"`
	viewArgs
}

func (s *Server) handleSessionStart(args json.RawMessage) (interface{}, error) {
	var a sessionStartArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := a.mode()
	if err != nil {
		return nil, err
	}

	var src session.FrameSource
	switch {
	case a.Path != "" && a.FramesDir != "":
		return nil, fmt.Errorf("path and frames_dir are mutually exclusive")
	case a.Path != "":
		src = session.NewStillFile(s.cache, a.Path)
	case a.FramesDir != "":
		src = session.NewSequenceSource(s.cache, a.FramesDir)
	default:
		return nil, fmt.Errorf("path or frames_dir is required")
	}

	sess := session.New(src, s.loader, session.Options{
		DetectWidth:       s.cfg.DetectWidth,
		DetectEveryN:      s.cfg.DetectEveryN,
		RenderInterval:    s.cfg.RenderInterval,
		FirstFrameTimeout: s.cfg.FirstFrameTimeout,
		SmoothAlpha:       s.cfg.SmoothAlpha,
		MinSide:           s.cfg.MinSidePx,
		EdgeLow:           s.cfg.EdgeLow,
		EdgeHigh:          s.cfg.EdgeHigh,
		ViewW:             a.ViewWidth,
		ViewH:             a.ViewHeight,
		Fit:               mode,
		Debug:             s.cfg.Debug(),
	})
	if err := sess.Start(context.Background()); err != nil {
		return nil, err
	}
	s.register(sess)
	return sess.Status(), nil
}

type sessionDetectArgs struct {
	sessionArgs
	MmPerPx      float64 `json:"mm_per_px"`
	IgnoreStored bool    `json:"ignore_stored"`
}

func (s *Server) handleSessionDetect(args json.RawMessage) (interface{}, error) {
	var a sessionDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}
	sc, err := s.resolveScale(a.MmPerPx, a.IgnoreStored)
	if err != nil {
		return nil, err
	}
	if err := sess.BeginDetection(sc); err != nil {
		return nil, err
	}
	return sess.Status(), nil
}

type sessionStatusArgs struct {
	sessionArgs
	Preview bool `json:"preview"`
}

type sessionStatusResult struct {
	session.Status
	Preview *imaging.EncodedImage `json:"preview,omitempty"`
}

func (s *Server) handleSessionStatus(args json.RawMessage) (interface{}, error) {
	var a sessionStatusArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}

	out := &sessionStatusResult{Status: sess.Status()}
	if a.Preview {
		img, err := sess.Preview()
		if err != nil {
			return nil, err
		}
		if out.Preview, err = imaging.Encode(img); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type sessionDragArgs struct {
	sessionArgs
	Action string  `json:"action"`
	Corner string  `json:"corner"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type sessionDragResult struct {
	Quad     *geom.Quad `json:"quad,omitempty"`
	Accepted bool       `json:"accepted"`
	Dragging bool       `json:"dragging"`
}

func (s *Server) handleSessionDrag(args json.RawMessage) (interface{}, error) {
	var a sessionDragArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}

	accepted := true
	switch a.Action {
	case "begin":
		c, ok := geom.ParseCorner(a.Corner)
		if !ok {
			return nil, fmt.Errorf("unknown corner: %q", a.Corner)
		}
		if err := sess.BeginDrag(c); err != nil {
			return nil, err
		}
	case "move":
		_, accepted = sess.DragTo(geom.Pt(a.X, a.Y))
	case "end":
		sess.EndDrag()
	default:
		return nil, fmt.Errorf("unknown drag action: %q (want begin, move or end)", a.Action)
	}

	st := sess.Status()
	return &sessionDragResult{Quad: st.Quad, Accepted: accepted, Dragging: st.Dragging}, nil
}

type sessionConfirmArgs struct {
	sessionArgs
	OutputPath string `json:"output_path"`
}

func (s *Server) handleSessionConfirm(args json.RawMessage) (interface{}, error) {
	var a sessionConfirmArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}
	r, err := sess.Confirm()
	if err != nil {
		return nil, err
	}
	return newMeasurementResult(r, a.OutputPath)
}

func (s *Server) handleSessionReset(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.lookup(a.SessionID)
	if err != nil {
		return nil, err
	}
	sess.Reset()
	return sess.Status(), nil
}

type sessionStopResult struct {
	ID      string `json:"id"`
	Stopped bool   `json:"stopped"`
	Err     string `json:"error,omitempty"`
}

func (s *Server) handleSessionStop(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.remove(a.SessionID)
	if err != nil {
		return nil, err
	}
	out := &sessionStopResult{ID: sess.ID(), Stopped: true}
	if err := sess.Stop(); err != nil {
		out.Err = err.Error()
	}
	return out, nil
}
