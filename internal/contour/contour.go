package contour

import "image"

// Box is an axis-aligned bounding box. W and H count pixels, so a single
// point has W == H == 1.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Area returns W*H.
func (b Box) Area() int {
	return b.W * b.H
}

// Aspect returns W/H. It is zero for a box with no height.
func (b Box) Aspect() float64 {
	if b.H == 0 {
		return 0
	}
	return float64(b.W) / float64(b.H)
}

// Rect returns the box as a half-open image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Contour is an ordered closed sequence of border points.
type Contour struct {
	// Points in tracing order. The last point is adjacent to the first for
	// any border produced by Trace.
	Points []image.Point

	// Hole is true for the inner border of a component and false for its
	// outer border.
	Hole bool

	box Box
}

// New builds a contour and computes its bounding box.
func New(points []image.Point, hole bool) Contour {
	c := Contour{Points: points, Hole: hole}
	if len(points) == 0 {
		return c
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	c.box = Box{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
	return c
}

// Box returns the bounding box computed by New.
func (c Contour) Box() Box {
	return c.box
}

// Closed reports whether the first and last points are within one pixel of
// each other on both axes.
func (c Contour) Closed() bool {
	n := len(c.Points)
	if n == 0 {
		return false
	}
	first, last := c.Points[0], c.Points[n-1]
	return abs(first.X-last.X) <= 1 && abs(first.Y-last.Y) <= 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
