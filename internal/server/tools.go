package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func enumProp(description string, values ...string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description, "enum": values}
}

func pointSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
}

func quadSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"tl":    pointSchema("Top-left corner"),
			"tr":    pointSchema("Top-right corner"),
			"br":    pointSchema("Bottom-right corner"),
			"bl":    pointSchema("Bottom-left corner"),
			"space": enumProp("Coordinate space of the corners", "native", "detection", "screen"),
		},
		"required": []string{"tl", "tr", "br", "bl"},
	}
}

// schema builds an object schema from property groups, later groups
// overriding earlier ones.
func schema(required []string, groups ...map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{}
	for _, g := range groups {
		for k, v := range g {
			props[k] = v
		}
	}
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

var viewProps = map[string]interface{}{
	"view_width":  prop("integer", "Viewport width in pixels. Omit to use the native frame size"),
	"view_height": prop("integer", "Viewport height in pixels. Omit to use the native frame size"),
	"fit":         enumProp("How the frame fills the viewport. Default cover", "cover", "contain"),
}

var rectProps = map[string]interface{}{
	"x1": prop("integer", "Left edge X coordinate (0-based)"),
	"y1": prop("integer", "Top edge Y coordinate (0-based)"),
	"x2": prop("integer", "Right edge X coordinate (exclusive)"),
	"y2": prop("integer", "Bottom edge Y coordinate (exclusive)"),
}

var poseProps = map[string]interface{}{
	"yaw":   prop("number", "Rotation about the vertical axis in degrees"),
	"pitch": prop("number", "Rotation about the horizontal axis in degrees"),
	"roll":  prop("number", "Rotation in the image plane in degrees"),
	"scale": prop("number", "Uniform scale. Default 1"),
}

var sessionProps = map[string]interface{}{
	"session_id": prop("string", "ID returned by ar_session_start"),
}

var outputProps = map[string]interface{}{
	"output_path": prop("string", "Optional file path to also write the result to"),
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Detection and mapping
		{
			Name:        "ar_detect_quad",
			Description: "Detect the largest door-like quadrilateral in an image. Returns the quad in screen (viewport), detection and native coordinates, or found=false when no candidate passes the filters.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path":         prop("string", "Absolute path to the frame image"),
				"detect_width": prop("integer", "Detection buffer width. Default from DOOR_AR_DETECT_WIDTH"),
			}, viewProps),
		},
		{
			Name:        "ar_edge_preview",
			Description: "Return the dilated edge map the quad detector sees, as base64-encoded PNG at detection resolution.",
			InputSchema: schema([]string{"path"}, map[string]interface{}{
				"path":         prop("string", "Absolute path to the frame image"),
				"detect_width": prop("integer", "Detection buffer width. Default from DOOR_AR_DETECT_WIDTH"),
			}),
		},
		{
			Name:        "ar_map_point",
			Description: "Map a point between native, detection and screen coordinates for a frame and viewport.",
			InputSchema: schema([]string{"from", "to", "x", "y"}, map[string]interface{}{
				"path":          prop("string", "Frame image; its size overrides native_width/native_height"),
				"native_width":  prop("integer", "Native frame width when no path is given"),
				"native_height": prop("integer", "Native frame height when no path is given"),
				"detect_width":  prop("integer", "Detection buffer width. Default from DOOR_AR_DETECT_WIDTH"),
				"from":          enumProp("Source space", "native", "detection", "screen"),
				"to":            enumProp("Target space", "native", "detection", "screen"),
				"x":             prop("number", "X coordinate in the source space"),
				"y":             prop("number", "Y coordinate in the source space"),
			}, viewProps),
		},
		{
			Name:        "ar_capture_region",
			Description: "Crop the native-resolution pixels behind a screen-space rectangle. Selections spilling outside the frame are clamped.",
			InputSchema: schema([]string{"path", "x1", "y1", "x2", "y2"}, map[string]interface{}{
				"path": prop("string", "Absolute path to the frame image"),
			}, rectProps, viewProps, outputProps),
		},

		// Calibration and measurement
		{
			Name:        "ar_calibration_presets",
			Description: "List the reference objects available for calibration and the currently stored scale, if any.",
			InputSchema: schema(nil),
		},
		{
			Name:        "ar_calibrate",
			Description: "Compute millimetres per pixel from two screen points spanning a reference object. Optionally persist the scale for later measurements.",
			InputSchema: schema([]string{"a", "b"}, map[string]interface{}{
				"a":                   pointSchema("First end of the reference object"),
				"b":                   pointSchema("Second end of the reference object"),
				"preset":              prop("string", "Preset ID from ar_calibration_presets"),
				"reference_length_mm": prop("number", "Custom reference length when no preset is given"),
				"persist":             prop("boolean", "Store the scale for later tool calls and sessions"),
			}),
		},
		{
			Name:        "ar_measure",
			Description: "Measure a quad in pixels and, when a scale is known, millimetres. Returns the measurement and its query-string encoding.",
			InputSchema: schema([]string{"quad"}, map[string]interface{}{
				"quad":          quadSchema("Quad to measure"),
				"mm_per_px":     prop("number", "Explicit scale; overrides the stored calibration"),
				"ignore_stored": prop("boolean", "Measure in pixels only even if a calibration is stored"),
			}, outputProps),
		},

		// Rendering
		{
			Name:        "ar_pose_quad",
			Description: "Project an asset rectangle rotated by yaw, pitch and roll onto a canvas and return the resulting quad.",
			InputSchema: schema(nil, map[string]interface{}{
				"asset_path":      prop("string", "Asset image; its size overrides asset_width/asset_height"),
				"background_path": prop("string", "Background image; its size overrides canvas_width/canvas_height"),
				"asset_width":     prop("number", "Asset width in pixels"),
				"asset_height":    prop("number", "Asset height in pixels"),
				"canvas_width":    prop("number", "Canvas width in pixels"),
				"canvas_height":   prop("number", "Canvas height in pixels"),
			}, poseProps),
		},
		{
			Name:        "ar_compose_layers",
			Description: "Fill a door frame asset with a glass style and optionally tint the frame. Returns base64-encoded PNG.",
			InputSchema: schema([]string{"frame_path"}, map[string]interface{}{
				"frame_path":  prop("string", "Frame asset with transparent glass openings"),
				"glass":       enumProp("Glass style. Unknown styles fall back to clear", "clear", "satin", "dark", "bronze", "fluted"),
				"frame_color": prop("string", "Hex tint multiplied into the frame, e.g. #2b2b2b. Default #ffffff (none)"),
			}, outputProps),
		},
		{
			Name:        "ar_composite",
			Description: "Warp a door asset onto a background photo inside a quad (or a pose projection when no quad is given) and return base64-encoded PNG.",
			InputSchema: schema([]string{"background_path", "asset_path"}, map[string]interface{}{
				"background_path": prop("string", "Background photo"),
				"asset_path":      prop("string", "Door asset"),
				"quad":            quadSchema("Target quad in background pixels; corners match the asset's TL, TR, BR, BL"),
				"pose": map[string]interface{}{
					"type":        "object",
					"description": "Pose used when no quad is given. Default upright and centered",
					"properties":  poseProps,
				},
				"glass":       enumProp("Glass style applied before warping", "clear", "satin", "dark", "bronze", "fluted"),
				"frame_color": prop("string", "Hex frame tint applied before warping"),
				"opacity":     prop("number", "Asset opacity in [0,1]. Default 1"),
				"sampling":    enumProp("Source sampling. Default from DOOR_AR_SAMPLING", "nearest", "bilinear"),
			}, outputProps),
		},

		// Live sessions
		{
			Name:        "ar_session_start",
			Description: "Start a live AR session on a still image or a directory of frames. The session begins in the calibrate state.",
			InputSchema: schema(nil, map[string]interface{}{
				"path":       prop("string", "Single frame image"),
				"frames_dir": prop("string", "Directory of frames played in name order"),
			}, viewProps),
		},
		{
			Name:        "ar_session_detect",
			Description: "Finish calibration and start automatic door detection in a session.",
			InputSchema: schema([]string{"session_id"}, sessionProps, map[string]interface{}{
				"mm_per_px":     prop("number", "Explicit scale; overrides the stored calibration"),
				"ignore_stored": prop("boolean", "Skip the stored calibration and measure in pixels"),
			}),
		},
		{
			Name:        "ar_session_status",
			Description: "Report a session's state, live quad and counters, optionally with a preview of the viewport and quad overlay.",
			InputSchema: schema([]string{"session_id"}, sessionProps, map[string]interface{}{
				"preview": prop("boolean", "Include a base64-encoded PNG preview"),
			}),
		},
		{
			Name:        "ar_session_drag",
			Description: "Move a quad corner by hand. Detection pauses from begin until end.",
			InputSchema: schema([]string{"session_id", "action"}, sessionProps, map[string]interface{}{
				"action": enumProp("Drag step", "begin", "move", "end"),
				"corner": enumProp("Corner to drag; required for begin", "tl", "tr", "br", "bl"),
				"x":      prop("number", "Screen X for move"),
				"y":      prop("number", "Screen Y for move"),
			}),
		},
		{
			Name:        "ar_session_confirm",
			Description: "Freeze the live quad and return its measurement.",
			InputSchema: schema([]string{"session_id"}, sessionProps, outputProps),
		},
		{
			Name:        "ar_session_reset",
			Description: "Return a session to the calibrate state, dropping its quad and scale.",
			InputSchema: schema([]string{"session_id"}, sessionProps),
		},
		{
			Name:        "ar_session_stop",
			Description: "Stop a session and release its frame source.",
			InputSchema: schema([]string{"session_id"}, sessionProps),
		},
	}
}
