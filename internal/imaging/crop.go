package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

// CaptureRegion crops the native-resolution pixels behind a screen-space
// selection. The selection is mapped through m and clamped to the frame, so
// a selection that spills into the letterbox or the cropped-off margin only
// captures what exists.
func CaptureRegion(img image.Image, m *geom.Mapper, screen image.Rectangle) (*image.NRGBA, error) {
	if screen.Empty() {
		return nil, fmt.Errorf("invalid capture region: %v is empty", screen)
	}

	native := m.ScreenRectToNative(screen)
	if native.Empty() {
		return nil, fmt.Errorf("capture region %v lies outside the frame", screen)
	}

	b := img.Bounds()
	return imaging.Crop(img, native.Add(b.Min)), nil
}
