package contour

import "image"

// Trace follows every border in img, treating nonzero pixels as foreground,
// and returns the contours with their nesting.
//
// # Algorithm
//
// The image is copied into a label grid with a one-pixel zero frame, and
// rows are scanned top to bottom. A foreground pixel whose left neighbor is
// background starts an outer border; a foreground pixel whose right neighbor
// is background starts a hole border unless it was already claimed. Each
// border is followed counterclockwise, writing its sequence number into the
// grid (negated where the pixel's right neighbor is background) so later
// scans neither restart it nor lose track of the last border crossed.
//
// The parent of a new border B follows from the last border B' crossed on
// the current row: when both are outer borders or both are holes, B shares
// B''s parent; otherwise B' is the parent. The frame acts as a hole with no
// parent, so top-level outer borders are roots.
//
// A foreground pixel with no foreground neighbors yields a one-point contour.
func Trace(img *image.Gray) *Forest {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	t := newTracer(width, height)
	for y := 0; y < height; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < width; x++ {
			if row[x] != 0 {
				t.grid[(y+1)*t.stride+x+1] = 1
			}
		}
	}

	var (
		contours []Contour
		parents  []int
	)

	// Border numbers start at 2; 1 is the frame.
	nbd := int32(1)
	for y := 1; y <= height; y++ {
		lnbd := int32(1)
		for x := 1; x <= width; x++ {
			i := y*t.stride + x
			v := t.grid[i]
			if v == 0 {
				continue
			}

			var hole bool
			var from int
			switch {
			case v == 1 && t.grid[i-1] == 0:
				from = dirWest
			case v >= 1 && t.grid[i+1] == 0:
				hole = true
				from = dirEast
				if v > 1 {
					lnbd = v
				}
			default:
				if v != 1 {
					lnbd = abs32(v)
				}
				continue
			}

			nbd++

			// The frame is a hole without a parent.
			lastHole, lastParent, last := true, None, None
			if lnbd > 1 {
				last = int(lnbd - 2)
				lastHole, lastParent = contours[last].Hole, parents[last]
			}
			parent := last
			if hole == lastHole {
				parent = lastParent
			}

			pts := t.follow(i, from, nbd)
			for k := range pts {
				pts[k] = pts[k].Add(b.Min)
			}
			contours = append(contours, New(pts, hole))
			parents = append(parents, parent)

			if t.grid[i] != 1 {
				lnbd = abs32(t.grid[i])
			}
		}
	}

	forest, err := FromParents(contours, parents)
	if err != nil {
		// Parents always precede their children, so this cannot happen.
		panic(err)
	}
	return forest
}

// Neighbor directions, counterclockwise on screen starting east.
const (
	dirEast = 0
	dirWest = 4
)

type tracer struct {
	grid   []int32
	stride int
	offset [8]int
}

func newTracer(width, height int) *tracer {
	s := width + 2
	return &tracer{
		grid:   make([]int32, s*(height+2)),
		stride: s,
		offset: [8]int{1, -s + 1, -s, -s - 1, -1, s - 1, s, s + 1},
	}
}

func (t *tracer) point(i int) image.Point {
	return image.Pt(i%t.stride-1, i/t.stride-1)
}

// follow traces the border starting at start, whose background neighbor lies
// in direction from, labels it nbd and returns its points.
func (t *tracer) follow(start, from int, nbd int32) []image.Point {
	// Look clockwise for the first foreground neighbor.
	dir := -1
	for k := 0; k < 8; k++ {
		d := (from - k + 8) % 8
		if t.grid[start+t.offset[d]] != 0 {
			dir = d
			break
		}
	}
	if dir < 0 {
		t.grid[start] = -nbd
		return []image.Point{t.point(start)}
	}

	first := start + t.offset[dir]
	cur, back := start, dir
	var pts []image.Point

	for {
		// Look counterclockwise from just past the pixel we came from.
		eastZero := false
		next, nextDir := -1, -1
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			j := cur + t.offset[d]
			if t.grid[j] != 0 {
				next, nextDir = j, d
				break
			}
			if d == dirEast {
				eastZero = true
			}
		}

		switch {
		case eastZero:
			t.grid[cur] = -nbd
		case t.grid[cur] == 1:
			t.grid[cur] = nbd
		}
		pts = append(pts, t.point(cur))

		if next == start && cur == first {
			return pts
		}
		cur, back = next, (nextDir+4)%8
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
