// Package detection finds regions of an image that are likely to contain
// text and groups them into paragraphs.
//
// It is the front of the photo translation pipeline: each paragraph box it
// returns is cropped and handed to the binarizer, then to OCR.
//
// # Region Heuristic
//
// EdgeDensityDetector slides windows of several sizes across a luminance
// gradient map and scores each window:
//
//  1. Edge density must fall between 5% and 40%. Flat areas have too few
//     edges and noise or fine texture too many.
//  2. The horizontal score is the share of horizontal edge runs among all
//     runs, since lines of text are laid out horizontally.
//  3. Confidence is the horizontal score scaled by how close the density is
//     to 20%.
//
// Windows above the confidence threshold are merged where they overlap and
// returned highest confidence first.
//
// # Paragraphs
//
// GroupParagraphs grows every region by a fixed padding and merges boxes
// that then overlap, repeating until no two boxes touch. The default
// padding of 9 pixels joins words and lines separated by ordinary spacing.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//
// # Limitations
//
// The heuristic works best on printed text with reasonable contrast. Dense
// textures such as foliage or fabric may score as text; very large display
// type may be split across windows before grouping joins it again.
package detection
