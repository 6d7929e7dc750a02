package geometry

import "math"

// SurfaceRect is the on-screen bounding rectangle of the page surface,
// in device pixels. Reported by the frontend whenever layout or zoom
// changes.
type SurfaceRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Mapper converts device-pixel pointer coordinates into page-relative
// physical millimetres. The mapping is a pure linear scale between the
// measured surface rect and the declared physical page size, so zoom
// never affects stored units.
type Mapper struct {
	Surface    SurfaceRect
	PageWidth  float64 // mm
	PageHeight float64 // mm
}

// ToPage maps a device coordinate to page millimetres. The second
// return is false when the surface has no measured area yet (not laid
// out) or the input is not finite; callers skip the event in that case.
// Out-of-page results are valid intermediates and are not clamped here.
func (m Mapper) ToPage(deviceX, deviceY float64) (Point, bool) {
	if m.Surface.Width <= 0 || m.Surface.Height <= 0 {
		return Point{}, false
	}
	if !isFinite(deviceX) || !isFinite(deviceY) {
		return Point{}, false
	}
	return Point{
		X: (deviceX - m.Surface.Left) * m.PageWidth / m.Surface.Width,
		Y: (deviceY - m.Surface.Top) * m.PageHeight / m.Surface.Height,
	}, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
