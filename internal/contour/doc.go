// Package contour traces closed borders in binary images and records how
// they nest.
//
// Trace implements Suzuki and Abe's border following in tree mode: every
// border of every connected component is followed point by point (no
// vertex simplification), and each border learns its parent, first child
// and siblings as it is discovered.
//
// # Forest Layout
//
// Contours live in a single append-only slice and relations are plain
// indices into it. None (-1) means "no relation"; index 0 is an ordinary
// contour. Children keep discovery order: Link.FirstChild is the child found
// first, Link.Next points to the one found after it and Link.Prev to the one
// found before. Top-level contours are chained the same way and reported by
// Roots.
//
// # Coordinates
//
// Points are reported in the coordinate space of the traced image. The image
// is treated as if surrounded by a one-pixel frame of zeros, so components
// touching the edge still yield closed borders.
package contour
