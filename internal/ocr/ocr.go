// Package ocr provides the optical text extraction capability.
//
// The production engine shells out to tesseract; the Engine interface keeps
// the pipeline testable and the engine swappable.
package ocr

import (
	"sort"
	"strings"
)

// Region is one recognized text region within a frame.
type Region struct {
	Text       string
	Confidence float64 // 0-100
	X, Y, W, H int
}

// rowQuantum groups regions whose tops fall within the same horizontal band
// so that words on one rendered line sort left to right despite baseline
// jitter in the recognizer output.
const rowQuantum = 16

// FrameText filters regions below minConfidence and joins the survivors in
// reading order (vertical bands top to bottom, left to right within a band).
// An empty result means the frame has no legible on-screen text.
func FrameText(regions []Region, minConfidence float64) string {
	kept := make([]Region, 0, len(regions))
	for _, r := range regions {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if r.Confidence < minConfidence {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		ri, rj := kept[i].Y/rowQuantum, kept[j].Y/rowQuantum
		if ri != rj {
			return ri < rj
		}
		return kept[i].X < kept[j].X
	})

	words := make([]string, len(kept))
	for i, r := range kept {
		words[i] = strings.TrimSpace(r.Text)
	}
	return strings.Join(words, " ")
}
