// Package detection finds the door opening in a frame.
//
// Detection runs on the small detection buffer, never on native pixels. A
// Pipeline downsamples the frame, builds a binary edge map, and hands it to
// a QuadDetector which returns the best four-cornered candidate in
// detection space. Callers map the result to the viewport through the
// Pipeline's geom.Mapper.
//
// # Detectors
//
// ContourDetector is the default and is written in Go: connected edge
// components are traced along their outer boundary, simplified with
// Douglas-Peucker, and filtered. OpenCVDetector does the same with gocv and
// is compiled only with the "gocv" build tag, in which case it also becomes
// the default.
//
// # Filters
//
// A candidate must simplify to exactly four vertices, be convex, cover
// between 12% and 94% of the frame by bounding-box area, and have a
// bounding-box aspect ratio between 0.35 and 2.9. Among survivors the
// largest bounding box wins.
//
// # Initialization
//
// Detector construction may be slow (OpenCV loads native libraries), so it
// goes through a Loader: the first Load starts initialization, concurrent
// callers share the same attempt, and its outcome is kept.
package detection
