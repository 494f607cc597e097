package detection

import (
	"image"
	"sort"
)

// ParagraphPad is the default growth applied to each region before grouping.
const ParagraphPad = 9

// GroupParagraphs merges nearby regions into paragraph boxes.
//
// Each region is grown by pad pixels on every side and clipped to limit.
// Boxes that overlap are replaced by their union, repeatedly, until no two
// boxes overlap. Regions entirely outside limit are dropped. The result is
// in reading order: top to bottom, then left to right.
func GroupParagraphs(regions []Bounds, pad int, limit image.Rectangle) []Bounds {
	boxes := make([]Bounds, 0, len(regions))
	for _, r := range regions {
		grown := r.Rect().Inset(-pad).Intersect(limit)
		if grown.Empty() {
			continue
		}
		boxes = append(boxes, BoundsFromRect(grown))
	}

	for merged := true; merged; {
		merged = false
		for i := 0; i < len(boxes) && !merged; i++ {
			for j := i + 1; j < len(boxes); j++ {
				if regionsOverlap(boxes[i], boxes[j]) {
					boxes[i] = mergeBounds(boxes[i], boxes[j])
					boxes = append(boxes[:j], boxes[j+1:]...)
					merged = true
					break
				}
			}
		}
	}

	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].Y1 != boxes[j].Y1 {
			return boxes[i].Y1 < boxes[j].Y1
		}
		return boxes[i].X1 < boxes[j].X1
	})
	return boxes
}
