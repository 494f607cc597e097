// Package imaging provides the image plumbing shared by the translator: image
// acquisition and normalization, edge extraction, cropping, color sampling and
// region annotation.
//
// Every image that enters the system passes through Normalize (directly or via
// Acquire, DecodeBytes or ImageCache), which yields an opaque *image.NRGBA with
// its origin at (0,0). Downstream packages rely on that shape and do not
// re-check it.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Edge Extraction
//
// UnionEdges runs Canny on the red, green and blue planes separately and ORs
// the results. Canny is implemented here rather than borrowed from a general
// image library because the text binarizer depends on its exact
// non-maximum-suppression and hysteresis behavior.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//   - Luma: 0.30 R + 0.59 G + 0.11 B
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Invalid region specifications (x1 >= x2 or y1 >= y2)
//   - File, network and decoding errors during acquisition
//   - Encoding errors during image output
package imaging
