package binarize

import "github.com/ironsheep/image-translator-mcp/internal/contour"

// ClusterLimit is the number of glyph-like descendants at or below which a
// group is treated as noise, and above which a single contour is treated as
// a container.
const ClusterLimit = 4

// Keeper is a contour accepted as a glyph candidate.
type Keeper struct {
	Index int         `json:"index"`
	Box   contour.Box `json:"box"`
}

// FilterKeepers applies cls to every contour and then removes noise
// clusters and containers using the forest structure. Keepers are returned
// in contour order.
//
// A contour c survives when all of the following hold:
//   - cls accepts c;
//   - c has no parent, or the nearest accepted ancestor of c has more than
//     ClusterLimit accepted descendants;
//   - c itself has at most ClusterLimit accepted descendants.
//
// When no ancestor of c is accepted, the topmost ancestor stands in for it.
func FilterKeepers(f *contour.Forest, cls Classifier) []Keeper {
	h := newHierarchy(f, cls)

	var keepers []Keeper
	for i := 0; i < f.Len(); i++ {
		if h.keep(i) {
			keepers = append(keepers, Keeper{Index: i, Box: f.Contour(i).Box()})
		}
	}
	return keepers
}

type hierarchy struct {
	forest *contour.Forest
	kept   []bool
	counts []int
}

func newHierarchy(f *contour.Forest, cls Classifier) *hierarchy {
	n := f.Len()
	h := &hierarchy{
		forest: f,
		kept:   make([]bool, n),
		counts: make([]int, n),
	}
	for i := 0; i < n; i++ {
		h.kept[i] = cls.Keep(f.Contour(i))
		h.counts[i] = -1
	}
	return h
}

func (h *hierarchy) keep(c int) bool {
	if !h.kept[c] {
		return false
	}
	if anc, ok := h.nearestKeptAncestor(c); ok && h.countKeptDescendants(anc) <= ClusterLimit {
		return false
	}
	return h.countKeptDescendants(c) <= ClusterLimit
}

// nearestKeptAncestor walks up from c's parent. ok is false only when c is
// a root.
func (h *hierarchy) nearestKeptAncestor(c int) (int, bool) {
	p := h.forest.Link(c).Parent
	if p == contour.None {
		return contour.None, false
	}
	for {
		if h.kept[p] {
			return p, true
		}
		up := h.forest.Link(p).Parent
		if up == contour.None {
			return p, true
		}
		p = up
	}
}

// countKeptDescendants counts accepted contours below c. Sibling chains are
// walked in both directions from wherever they are entered, so the count
// does not depend on which end of a chain FirstChild points at.
func (h *hierarchy) countKeptDescendants(c int) int {
	if h.counts[c] >= 0 {
		return h.counts[c]
	}

	visited := make(map[int]bool)
	count := 0
	work := []int{h.forest.Link(c).FirstChild}

	visit := func(s int) {
		if visited[s] {
			return
		}
		visited[s] = true
		if h.kept[s] {
			count++
		}
		if fc := h.forest.Link(s).FirstChild; fc != contour.None {
			work = append(work, fc)
		}
	}

	for len(work) > 0 {
		start := work[len(work)-1]
		work = work[:len(work)-1]
		if start == contour.None || visited[start] {
			continue
		}
		for s := start; s != contour.None && !visited[s]; s = h.forest.Link(s).Next {
			visit(s)
		}
		for s := h.forest.Link(start).Prev; s != contour.None && !visited[s]; s = h.forest.Link(s).Prev {
			visit(s)
		}
	}

	h.counts[c] = count
	return count
}
