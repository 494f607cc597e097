package contour

import (
	"errors"
	"fmt"
)

// None marks an absent relation in a Link.
const None = -1

// Link holds the relations of one contour. Every field is either None or a
// valid index into the forest.
type Link struct {
	Parent     int `json:"parent"`
	FirstChild int `json:"first_child"`
	Next       int `json:"next"`
	Prev       int `json:"prev"`
}

var noLink = Link{Parent: None, FirstChild: None, Next: None, Prev: None}

// ErrMalformedForest is returned when links reference missing contours or
// form a cycle.
var ErrMalformedForest = errors.New("malformed contour forest")

// Forest is an immutable set of contours and their nesting relations.
type Forest struct {
	contours []Contour
	links    []Link
	roots    []int
}

// NewForest validates links against contours and returns the forest.
//
// Validation checks that every index is None or in range, that no contour
// is its own relative, that Next and Prev agree with each other, and that
// following Parent from any contour reaches a root.
func NewForest(contours []Contour, links []Link) (*Forest, error) {
	n := len(contours)
	if len(links) != n {
		return nil, fmt.Errorf("%w: %d contours but %d links", ErrMalformedForest, n, len(links))
	}

	valid := func(i int) bool { return i == None || (i >= 0 && i < n) }
	for i, l := range links {
		if !valid(l.Parent) || !valid(l.FirstChild) || !valid(l.Next) || !valid(l.Prev) {
			return nil, fmt.Errorf("%w: contour %d links out of range: %+v", ErrMalformedForest, i, l)
		}
		if l.Parent == i || l.FirstChild == i || l.Next == i || l.Prev == i {
			return nil, fmt.Errorf("%w: contour %d refers to itself", ErrMalformedForest, i)
		}
		if l.Next != None && links[l.Next].Prev != i {
			return nil, fmt.Errorf("%w: contour %d next/prev mismatch", ErrMalformedForest, i)
		}
		if l.Prev != None && links[l.Prev].Next != i {
			return nil, fmt.Errorf("%w: contour %d prev/next mismatch", ErrMalformedForest, i)
		}
		if l.FirstChild != None && links[l.FirstChild].Parent != i {
			return nil, fmt.Errorf("%w: contour %d first child has another parent", ErrMalformedForest, i)
		}
	}

	// 0 unvisited, 1 on the current parent path, 2 known to reach a root
	state := make([]uint8, n)
	path := make([]int, 0, 16)
	for i := range links {
		path = path[:0]
		j := i
		for j != None && state[j] == 0 {
			state[j] = 1
			path = append(path, j)
			j = links[j].Parent
		}
		if j != None && state[j] == 1 {
			return nil, fmt.Errorf("%w: parent cycle through contour %d", ErrMalformedForest, j)
		}
		for _, k := range path {
			state[k] = 2
		}
	}

	var roots []int
	for i, l := range links {
		if l.Parent == None && l.Prev == None {
			for j := i; j != None && len(roots) <= n; j = links[j].Next {
				roots = append(roots, j)
			}
		}
	}
	if len(roots) > n {
		return nil, fmt.Errorf("%w: sibling cycle among roots", ErrMalformedForest)
	}

	return &Forest{contours: contours, links: links, roots: roots}, nil
}

// FromParents builds a forest from each contour's parent index. Children
// and roots are linked in index order.
func FromParents(contours []Contour, parents []int) (*Forest, error) {
	if len(parents) != len(contours) {
		return nil, fmt.Errorf("%w: %d contours but %d parents", ErrMalformedForest, len(contours), len(parents))
	}

	links := make([]Link, len(contours))
	for i := range links {
		links[i] = noLink
	}

	lastChild := make([]int, len(contours))
	for i := range lastChild {
		lastChild[i] = None
	}
	lastRoot := None

	for i, p := range parents {
		if p != None && (p < 0 || p >= len(contours) || p == i) {
			return nil, fmt.Errorf("%w: contour %d has invalid parent %d", ErrMalformedForest, i, p)
		}
		links[i].Parent = p

		prev := lastRoot
		if p != None {
			prev = lastChild[p]
		}
		if prev == None {
			if p != None {
				links[p].FirstChild = i
			}
		} else {
			links[prev].Next = i
			links[i].Prev = prev
		}

		if p == None {
			lastRoot = i
		} else {
			lastChild[p] = i
		}
	}

	return NewForest(contours, links)
}

// Len returns the number of contours.
func (f *Forest) Len() int {
	return len(f.contours)
}

// Contour returns contour i.
func (f *Forest) Contour(i int) Contour {
	return f.contours[i]
}

// Link returns the relations of contour i.
func (f *Forest) Link(i int) Link {
	return f.links[i]
}

// Roots returns the top-level contours in discovery order.
func (f *Forest) Roots() []int {
	return append([]int(nil), f.roots...)
}

// Children returns the direct children of i in discovery order.
func (f *Forest) Children(i int) []int {
	var out []int
	for c := f.links[i].FirstChild; c != None && len(out) < len(f.links); c = f.links[c].Next {
		out = append(out, c)
	}
	return out
}

// Depth returns the number of ancestors of i.
func (f *Forest) Depth(i int) int {
	d := 0
	for p := f.links[i].Parent; p != None; p = f.links[p].Parent {
		d++
	}
	return d
}
