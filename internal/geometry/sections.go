package geometry

// Section is one of the three fixed vertical page zones. Every element
// is pinned to exactly one and may never move or grow outside it.
type Section string

const (
	SectionHeader Section = "header"
	SectionBody   Section = "body"
	SectionFooter Section = "footer"
)

// SectionBounds is the vertical extent of a section in millimetres.
type SectionBounds struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Height returns the vertical size of the band, never negative.
func (s SectionBounds) Height() float64 {
	if s.Bottom < s.Top {
		return 0
	}
	return s.Bottom - s.Top
}

// BoundsFor derives the vertical band for a section from the page
// height and the configured header/footer heights. Heights are clamped
// to [0, pageHeight] first, so an oversized header/footer degrades to a
// zero-height body instead of inverted bounds.
func BoundsFor(section Section, headerMm, footerMm, pageHeightMm float64) SectionBounds {
	header := Clamp(headerMm, 0, pageHeightMm)
	footer := Clamp(footerMm, 0, pageHeightMm)

	switch section {
	case SectionHeader:
		return SectionBounds{Top: 0, Bottom: header}
	case SectionFooter:
		return SectionBounds{Top: pageHeightMm - footer, Bottom: pageHeightMm}
	default:
		top := header
		bottom := pageHeightMm - footer
		if bottom < top {
			bottom = top
		}
		return SectionBounds{Top: top, Bottom: bottom}
	}
}
