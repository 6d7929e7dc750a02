package editor

import (
	"github.com/MADrickx/Layma/internal/document"
)

// HitTest returns the id of the topmost element containing the page
// point (x, y) in millimetres, or "" when nothing is hit. Elements are
// tested front to back, so the last painted element wins.
func HitTest(doc document.Document, x, y float64) string {
	for i := len(doc.Elements) - 1; i >= 0; i-- {
		e := doc.Elements[i]
		if e.Box().Contains(x, y) {
			return e.ID
		}
	}
	return ""
}
