// Package binarize turns a color crop containing text into a two-level image
// suited to OCR.
//
// # Pipeline
//
//  1. Edges: Canny on each color plane, unioned (imaging.UnionEdges).
//  2. Contours: full-hierarchy border following over the edge map
//     (contour.Trace).
//  3. Classification: a contour is glyph-like when its bounding box has an
//     aspect ratio in [0.1, 10] and an area in [15, 3000] pixels, and its
//     trace closes on itself.
//  4. Hierarchy filtering: glyph-like contours that sit in a small cluster
//     (their nearest glyph-like ancestor has at most four glyph-like
//     descendants) are dropped as noise, and contours with more than four
//     glyph-like descendants are dropped as containers.
//  5. Polarity: for each kept contour the mean luma along the border is
//     compared with the median luma just outside the box corners.
//  6. Painting: every kept box is thresholded at its border luma into a
//     white canvas, then the canvas gets a 2x2 box blur.
//
// # Polarity
//
// Each region is painted with a pair of values. Ink goes to pixels whose
// luma is at or below the region's border luma and Background to brighter
// pixels. When the border is at least as bright as the surrounding corners
// (a light shape on a dark surround) the pair is Ink 255, Background 0;
// otherwise it is Ink 0, Background 255. The choice uses only estimates taken
// around that one region, so regions of the same image are decided
// independently and callers must not assume a single ink color across the
// output. Pixels outside every kept box stay 255.
//
// # Concurrency
//
// Binarizer holds only configuration and may be shared between goroutines.
// One call allocates all of its working state and never blocks.
package binarize
