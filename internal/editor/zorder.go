package editor

import (
	"github.com/MADrickx/Layma/internal/document"
)

// Z-order operations on the element list. Index 0 is the bottom of the
// stack. Each function returns the input slice unchanged with
// changed=false when the move is a boundary no-op or the id is absent,
// so callers can detect that nothing happened.

// BringForward swaps the element one step toward the top.
func BringForward(elements []document.Element, id string) ([]document.Element, bool) {
	i := indexOf(elements, id)
	if i < 0 || i >= len(elements)-1 {
		return elements, false
	}
	out := append([]document.Element(nil), elements...)
	out[i], out[i+1] = out[i+1], out[i]
	return out, true
}

// SendBackward swaps the element one step toward the bottom.
func SendBackward(elements []document.Element, id string) ([]document.Element, bool) {
	i := indexOf(elements, id)
	if i <= 0 {
		return elements, false
	}
	out := append([]document.Element(nil), elements...)
	out[i], out[i-1] = out[i-1], out[i]
	return out, true
}

// BringToFront moves the element to the top of the stack.
func BringToFront(elements []document.Element, id string) ([]document.Element, bool) {
	i := indexOf(elements, id)
	if i < 0 || i == len(elements)-1 {
		return elements, false
	}
	out := make([]document.Element, 0, len(elements))
	out = append(out, elements[:i]...)
	out = append(out, elements[i+1:]...)
	out = append(out, elements[i])
	return out, true
}

// SendToBack moves the element to the bottom of the stack.
func SendToBack(elements []document.Element, id string) ([]document.Element, bool) {
	i := indexOf(elements, id)
	if i <= 0 {
		return elements, false
	}
	out := make([]document.Element, 0, len(elements))
	out = append(out, elements[i])
	out = append(out, elements[:i]...)
	out = append(out, elements[i+1:]...)
	return out, true
}

func indexOf(elements []document.Element, id string) int {
	if id == "" {
		return -1
	}
	for i, e := range elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}
