package geometry

import "testing"

func TestBoundsFor(t *testing.T) {
	const pageH = 297.0

	tests := []struct {
		name    string
		section Section
		header  float64
		footer  float64
		want    SectionBounds
	}{
		{"header", SectionHeader, 30, 20, SectionBounds{Top: 0, Bottom: 30}},
		{"body", SectionBody, 30, 20, SectionBounds{Top: 30, Bottom: 277}},
		{"footer", SectionFooter, 30, 20, SectionBounds{Top: 277, Bottom: 297}},
		{"no header or footer", SectionBody, 0, 0, SectionBounds{Top: 0, Bottom: 297}},
		{"negative heights clamp to zero", SectionHeader, -10, -10, SectionBounds{Top: 0, Bottom: 0}},
		{"oversized header clamps to page", SectionHeader, 500, 0, SectionBounds{Top: 0, Bottom: 297}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BoundsFor(tt.section, tt.header, tt.footer, pageH)
			if got != tt.want {
				t.Errorf("BoundsFor(%s) = %+v, want %+v", tt.section, got, tt.want)
			}
		})
	}
}

func TestBoundsForDegenerateBody(t *testing.T) {
	// Header + footer exceeding the page height degrades to a zero-height
	// body rather than inverted bounds.
	got := BoundsFor(SectionBody, 200, 200, 297)
	if got.Height() != 0 {
		t.Errorf("expected zero-height body, got %+v", got)
	}
	if got.Bottom < got.Top {
		t.Errorf("bounds inverted: %+v", got)
	}
}
