// Package geom provides the point, quad and coordinate-space primitives shared
// by every stage of the AR measurement pipeline.
//
// # Coordinate Spaces
//
// Three pixel spaces are in play at once:
//
//   - Native: the camera frame or uploaded photo at its intrinsic resolution.
//   - Detection: a downsampled working buffer (typically 320-360 px wide)
//     that bounds per-frame edge detection cost.
//   - Screen: the rendered viewport, which shows the native frame under a
//     cover or contain fit.
//
// A Quad carries the space it was produced in. Moving between spaces goes
// through a Transform, which knows its own From and To spaces and refuses to
// map a quad tagged with any other space. All screen/native/detection
// arithmetic lives in transform.go; nothing else in the module scales or
// offsets coordinates by hand.
//
// # Corner Ordering
//
// Quads are stored in canonical order: TL has the minimum x+y, BR the maximum
// x+y, TR the maximum x-y, and BL the minimum x-y. OrderCorners establishes
// that order from any four points.
package geom
