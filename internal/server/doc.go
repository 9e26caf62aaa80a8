// Package server implements the MCP (Model Context Protocol) server for the
// door AR tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Detection and mapping:
//   - ar_detect_quad: Find the door quad in a frame
//   - ar_edge_preview: Show the edge map the detector sees
//   - ar_map_point: Convert a point between coordinate spaces
//   - ar_capture_region: Crop native pixels behind a screen rectangle
//
// Calibration and measurement:
//   - ar_calibration_presets: List reference objects
//   - ar_calibrate: Compute and optionally store mm per pixel
//   - ar_measure: Measure a quad
//
// Rendering:
//   - ar_pose_quad: Project a posed asset to a quad
//   - ar_compose_layers: Glass infill and frame tint
//   - ar_composite: Perspective-warp an asset onto a photo
//
// Live sessions:
//   - ar_session_start, ar_session_detect, ar_session_status,
//     ar_session_drag, ar_session_confirm, ar_session_reset,
//     ar_session_stop
//
// Sessions run in their own goroutine and are addressed by UUID. They are
// stopped when the input stream ends.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
