package editor

import (
	"github.com/MADrickx/Layma/internal/document"
	"github.com/MADrickx/Layma/internal/geometry"
)

// Selection tracks the set of selected element ids in selection order.
// The first id is the primary selection: the z-order anchor and the
// owner of resize handles.
type Selection struct {
	ids []string
}

// Select updates the selection with id. Non-additive selection replaces
// the whole set; additive selection toggles membership.
func (s *Selection) Select(id string, additive bool) {
	if !additive {
		s.ids = []string{id}
		return
	}
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
}

// SetAll replaces the selection with the given ids.
func (s *Selection) SetAll(ids []string) {
	s.ids = append([]string(nil), ids...)
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Len returns the number of selected elements.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns a copy of the selected ids in selection order.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

// PrimaryID returns the primary selected id, or "" when empty. It is
// stable for as long as its element stays selected.
func (s *Selection) PrimaryID() string {
	if len(s.ids) == 0 {
		return ""
	}
	return s.ids[0]
}

// Single returns the sole selected id when exactly one element is
// selected. Resize handles are only valid in that state.
func (s *Selection) Single() (string, bool) {
	if len(s.ids) == 1 {
		return s.ids[0], true
	}
	return "", false
}

// Prune drops ids the document no longer contains. Called whenever the
// document is replaced from outside the editor.
func (s *Selection) Prune(doc document.Document) {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if doc.IndexOf(id) >= 0 {
			kept = append(kept, id)
		}
	}
	s.ids = kept
}

// SelectedElements returns the selected elements in document order.
func (s *Selection) SelectedElements(doc document.Document) []document.Element {
	var out []document.Element
	for _, e := range doc.Elements {
		if s.Contains(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// SelectedElement returns the selected element only when exactly one is
// selected.
func (s *Selection) SelectedElement(doc document.Document) (document.Element, bool) {
	id, ok := s.Single()
	if !ok {
		return document.Element{}, false
	}
	return doc.ElementByID(id)
}

// BoundingBox returns the union of the selected elements' boxes.
func (s *Selection) BoundingBox(doc document.Document) geometry.Box {
	var box geometry.Box
	for _, e := range s.SelectedElements(doc) {
		box = box.Union(e.Box())
	}
	return box
}
