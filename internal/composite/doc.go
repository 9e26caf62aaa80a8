// Package composite warps a source asset onto a destination quad.
//
// Warp works backwards: for every destination pixel whose center lies in
// the quad it maps the center through the inverse homography into the
// source, samples there, and alpha-blends into the destination in place.
// Pixels that map outside the source are skipped. A degenerate quad is
// reported as an error before any pixel is touched.
package composite
