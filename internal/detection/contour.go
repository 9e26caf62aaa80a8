package detection

import (
	"image"
	"math"

	"github.com/ironsheep/door-ar-mcp/internal/geom"
)

// minComponentPixels drops specks that cannot outline a door.
const minComponentPixels = 16

// ContourDetector finds quads by tracing the outer boundary of each
// connected edge component.
//
// # Algorithm
//
//  1. Components: raster scan for unvisited edge pixels and flood-fill each
//     8-connected component. The first pixel found is the component's
//     top-most, left-most pixel.
//  2. Boundary: Moore-neighbour trace of the component's outer boundary,
//     starting from that pixel.
//  3. Approximation: closed Douglas-Peucker with epsilon =
//     ApproxFactor x arc length, followed by removal of vertices that lie
//     within epsilon of the line through their neighbours.
//  4. Filters: see Filters.
//  5. Selection: largest bounding box among accepted candidates.
type ContourDetector struct {
	Filters Filters
}

// NewContourDetector returns a detector with DefaultFilters.
func NewContourDetector() *ContourDetector {
	return &ContourDetector{Filters: DefaultFilters()}
}

// DetectQuad implements QuadDetector.
func (d *ContourDetector) DetectQuad(edges *image.Gray) (geom.Quad, bool) {
	b := edges.Bounds()
	width, height := b.Dx(), b.Dy()
	if width < 3 || height < 3 {
		return geom.Quad{}, false
	}

	mask := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mask[y*width+x] = edges.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 0
		}
	}

	exterior := exteriorBackground(mask, width, height)
	visited := make([]bool, width*height)
	var pick best
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !mask[i] || visited[i] {
				continue
			}
			start := image.Pt(x, y)
			count, outer := floodFill(mask, visited, exterior, start, width, height)
			if count < minComponentPixels || !outer {
				continue
			}

			boundary := traceBoundary(mask, start, width, height)
			if len(boundary) < 4 {
				continue
			}
			eps := d.Filters.ApproxFactor * arcLength(boundary)
			poly := approxClosed(boundary, eps)
			if area, ok := d.Filters.accept(poly, width, height); ok {
				pick.offer(poly, area)
			}
		}
	}

	if !pick.found {
		return geom.Quad{}, false
	}
	return pick.quad, true
}

// exteriorBackground marks the background reachable from the buffer border
// through 4-connected background pixels. Holes enclosed by a component stay
// unmarked, so anything drawn inside them is nested.
func exteriorBackground(mask []bool, width, height int) []bool {
	exterior := make([]bool, width*height)
	var stack []image.Point
	push := func(x, y int) {
		if x < 0 || x >= width || y < 0 || y >= height {
			return
		}
		i := y*width + x
		if mask[i] || exterior[i] {
			return
		}
		exterior[i] = true
		stack = append(stack, image.Pt(x, y))
	}
	for x := 0; x < width; x++ {
		push(x, 0)
		push(x, height-1)
	}
	for y := 0; y < height; y++ {
		push(0, y)
		push(width-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X-1, p.Y)
		push(p.X+1, p.Y)
		push(p.X, p.Y-1)
		push(p.X, p.Y+1)
	}
	return exterior
}

// floodFill marks the 8-connected component containing start as visited
// and returns its pixel count. outer reports whether the component touches
// the buffer border or the exterior background, i.e. it is not nested in
// another component's hole. The stack keeps deep components off the call
// stack.
func floodFill(mask, visited, exterior []bool, start image.Point, width, height int) (count int, outer bool) {
	stack := []image.Point{start}
	onExterior := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return true
		}
		return exterior[y*width+x]
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		i := p.Y*width + p.X
		if visited[i] || !mask[i] {
			continue
		}
		visited[i] = true
		count++
		if !outer {
			outer = onExterior(p.X-1, p.Y) || onExterior(p.X+1, p.Y) ||
				onExterior(p.X, p.Y-1) || onExterior(p.X, p.Y+1)
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Pt(p.X+dx, p.Y+dy))
			}
		}
	}
	return count, outer
}

// mooreOffsets lists the 8 neighbours clockwise (y down), starting west.
var mooreOffsets = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

func offsetIndex(d image.Point) int {
	for i, o := range mooreOffsets {
		if o == d {
			return i
		}
	}
	return 0
}

// traceBoundary walks the outer boundary of the component containing start
// clockwise. start must be the component's top-most, left-most pixel so its
// west neighbour is background. The trace stops when it is about to repeat
// its first step.
func traceBoundary(mask []bool, start image.Point, width, height int) []geom.Point {
	on := func(p image.Point) bool {
		return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height && mask[p.Y*width+p.X]
	}

	pts := []image.Point{start}
	p := start
	back := 0 // direction from p to the background pixel we came from
	maxSteps := 4 * width * height

	for step := 0; step < maxSteps; step++ {
		next, found := image.Point{}, false
		for k := 1; k <= 8; k++ {
			dir := (back + k) % 8
			q := p.Add(mooreOffsets[dir])
			if on(q) {
				prev := p.Add(mooreOffsets[(dir+7)%8])
				back = offsetIndex(prev.Sub(q))
				next, found = q, true
				break
			}
		}
		if !found {
			break
		}

		last := pts[len(pts)-1]
		if len(pts) > 1 && last == start && next == pts[1] {
			pts = pts[:len(pts)-1]
			break
		}
		pts = append(pts, next)
		p = next
	}

	out := make([]geom.Point, len(pts))
	for i, q := range pts {
		out[i] = geom.Pt(float64(q.X), float64(q.Y))
	}
	return out
}

// arcLength returns the perimeter of the closed polyline.
func arcLength(pts []geom.Point) float64 {
	var total float64
	for i := range pts {
		total += geom.Distance(pts[i], pts[(i+1)%len(pts)])
	}
	return total
}

// approxClosed simplifies a closed polyline. The ring is split at the
// vertex farthest from pts[0] and each half is simplified as an open chain.
func approxClosed(pts []geom.Point, eps float64) []geom.Point {
	n := len(pts)
	if n < 3 {
		return append([]geom.Point(nil), pts...)
	}

	far, farDist := 0, -1.0
	for i := 1; i < n; i++ {
		if d := geom.Distance(pts[0], pts[i]); d > farDist {
			far, farDist = i, d
		}
	}

	second := make([]geom.Point, 0, n-far+1)
	second = append(second, pts[far:]...)
	second = append(second, pts[0])

	a := simplify(pts[:far+1], eps)
	c := simplify(second, eps)

	poly := make([]geom.Point, 0, len(a)+len(c))
	poly = append(poly, a[:len(a)-1]...)
	poly = append(poly, c[:len(c)-1]...)
	return dropCollinear(poly, eps)
}

// simplify is open-chain Douglas-Peucker; both endpoints are kept.
func simplify(pts []geom.Point, eps float64) []geom.Point {
	if len(pts) < 3 {
		return append([]geom.Point(nil), pts...)
	}

	keep := make([]bool, len(pts))
	keep[0], keep[len(pts)-1] = true, true

	type span struct{ lo, hi int }
	stack := []span{{0, len(pts) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx, maxDist := -1, eps
		for i := s.lo + 1; i < s.hi; i++ {
			if d := lineDistance(pts[i], pts[s.lo], pts[s.hi]); d > maxDist {
				idx, maxDist = i, d
			}
		}
		if idx < 0 {
			continue
		}
		keep[idx] = true
		stack = append(stack, span{s.lo, idx}, span{idx, s.hi})
	}

	out := make([]geom.Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// dropCollinear removes vertices within eps of the line through their
// neighbours until none remain. The trace start kept by approxClosed is not
// a corner in general, so it is usually removed here.
func dropCollinear(poly []geom.Point, eps float64) []geom.Point {
	for changed := true; changed && len(poly) > 3; {
		changed = false
		n := len(poly)
		for i := 0; i < n; i++ {
			prev, next := poly[(i+n-1)%n], poly[(i+1)%n]
			if lineDistance(poly[i], prev, next) < eps {
				poly = append(poly[:i], poly[i+1:]...)
				changed = true
				break
			}
		}
	}
	return poly
}

// lineDistance is the distance from p to the line through a and b, or to a
// when a and b coincide.
func lineDistance(p, a, b geom.Point) float64 {
	l := geom.Distance(a, b)
	if l == 0 {
		return geom.Distance(p, a)
	}
	return math.Abs(geom.Cross(a, b, p)) / l
}
