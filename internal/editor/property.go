package editor

import (
	"encoding/json"
	"strings"

	"github.com/MADrickx/Layma/internal/document"
)

// SetProperty applies a property edit from the properties panel to
// every selected element whose shape matches the path. Paths are dotted
// JSON field names ("xMm", "text.content", "image.opacity"). The write
// is structural — field names are not whitelisted — and the store's
// invariant pass corrects any derived invariant a bad value breaks.
func (e *Editor) SetProperty(path string, value json.RawMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selection.Len() == 0 || path == "" {
		return
	}

	doc := e.store.Document()
	next := doc.Clone()
	changed := false
	for i := range next.Elements {
		if !e.selection.Contains(next.Elements[i].ID) {
			continue
		}
		patched, ok := patchElement(next.Elements[i], path, value)
		if !ok {
			continue
		}
		next.Elements[i] = patched
		changed = true
	}
	if changed {
		e.store.Apply(next)
	}
}

// patchElement round-trips the element through JSON to set an arbitrary
// field path. Elements whose shape does not contain the path are left
// alone, as are writes that would change identity or fail to decode.
func patchElement(el document.Element, path string, value json.RawMessage) (document.Element, bool) {
	raw, err := json.Marshal(el)
	if err != nil {
		return el, false
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return el, false
	}

	var v any
	if err := json.Unmarshal(value, &v); err != nil {
		return el, false
	}
	if !setPath(m, strings.Split(path, "."), v) {
		return el, false
	}

	patched, err := json.Marshal(m)
	if err != nil {
		return el, false
	}
	var out document.Element
	if err := json.Unmarshal(patched, &out); err != nil {
		return el, false
	}
	// Identity and variant type are immutable.
	if out.ID != el.ID || out.Type != el.Type {
		return el, false
	}
	return out, true
}

func setPath(m map[string]any, parts []string, v any) bool {
	if len(parts) == 1 {
		m[parts[0]] = v
		return true
	}
	child, ok := m[parts[0]].(map[string]any)
	if !ok {
		return false
	}
	return setPath(child, parts[1:], v)
}
