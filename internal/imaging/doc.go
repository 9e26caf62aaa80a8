// Package imaging holds the raster plumbing around the door preview: frame
// and asset loading, the Canny edge map fed to quad detection, resampling
// between native, detection and viewport sizes, region capture, overlay
// drawing and PNG encoding.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left, X increasing
// rightward and Y increasing downward. Rectangles follow image.Rectangle:
// Min is inclusive, Max is exclusive. Conversions between the native,
// detection and screen spaces go through a geom.Mapper; functions here never
// guess a scale on their own.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Every other function is stateless
// and returns a fresh image, leaving its input untouched.
//
// # Libraries
//
// Grayscale conversion and blur use bild, cropping and resizing use
// disintegration/imaging, viewport scaling uses golang.org/x/image/draw and
// color parsing uses go-colorful.
package imaging
