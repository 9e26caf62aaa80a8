//go:build !gocv

package detection

func defaultDetector() QuadDetector {
	return NewContourDetector()
}
