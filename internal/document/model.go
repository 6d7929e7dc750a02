package document

import (
	"github.com/MADrickx/Layma/internal/geometry"
)

// MinElementSizeMm is the smallest width/height an element may have.
// Resizes below it are clamped, never rejected.
const MinElementSizeMm = 1.0

// MinLineThicknessMm is the smallest thickness a line element renders
// at, regardless of its stored box.
const MinLineThicknessMm = 0.3

type ElementType string

const (
	ElementText  ElementType = "text"
	ElementRect  ElementType = "rect"
	ElementLine  ElementType = "line"
	ElementImage ElementType = "image"
	ElementTable ElementType = "table"
)

// PageSize is the physical page size in millimetres.
type PageSize struct {
	WidthMm  float64 `json:"widthMm"`
	HeightMm float64 `json:"heightMm"`
}

// Document is the full layout document. Element order is paint order:
// index 0 is the bottom of the stack.
type Document struct {
	Page           PageSize  `json:"page"`
	HeaderHeightMm float64   `json:"headerHeightMm"`
	FooterHeightMm float64   `json:"footerHeightMm"`
	Elements       []Element `json:"elements"`
}

// Element is one positioned item on the page. Exactly one of the
// variant prop pointers matching Type is set. The id is generated once
// at creation and never reused.
type Element struct {
	ID      string           `json:"id"`
	Type    ElementType      `json:"type"`
	Section geometry.Section `json:"section"`

	XMm      float64 `json:"xMm"`
	YMm      float64 `json:"yMm"`
	WidthMm  float64 `json:"widthMm"`
	HeightMm float64 `json:"heightMm"`

	Text  *TextProps  `json:"text,omitempty"`
	Rect  *RectProps  `json:"rect,omitempty"`
	Line  *LineProps  `json:"line,omitempty"`
	Image *ImageProps `json:"image,omitempty"`
	Table *TableProps `json:"table,omitempty"`
}

type TextProps struct {
	Content    string  `json:"content"`
	FontFamily string  `json:"fontFamily"`
	FontSizePt float64 `json:"fontSizePt"`
	Color      string  `json:"color"`
	Align      string  `json:"align"` // left, center, right
	PaddingMm  float64 `json:"paddingMm"`
}

type RectProps struct {
	Fill           string  `json:"fill"`
	BorderColor    string  `json:"borderColor"`
	BorderWidthMm  float64 `json:"borderWidthMm"`
	CornerRadiusMm float64 `json:"cornerRadiusMm"`
}

type LineProps struct {
	Color string `json:"color"`
}

type ImageProps struct {
	Source            string  `json:"source"` // asset URL or data reference
	Fit               string  `json:"fit"`    // contain, cover, stretch
	Opacity           float64 `json:"opacity"`
	CornerRadiusMm    float64 `json:"cornerRadiusMm"`
	AspectRatioLocked bool    `json:"aspectRatioLocked"`
	NaturalWidth      int     `json:"naturalWidth,omitempty"`
	NaturalHeight     int     `json:"naturalHeight,omitempty"`
}

type TableColumn struct {
	WidthMm float64 `json:"widthMm"`
}

type TableProps struct {
	Columns       []TableColumn `json:"columns"`
	HeaderCells   []string      `json:"headerCells"`
	BodyCells     []string      `json:"bodyCells"`
	FooterCells   []string      `json:"footerCells,omitempty"`
	BorderColor   string        `json:"borderColor"`
	BorderWidthMm float64       `json:"borderWidthMm"`
	HeaderFill    string        `json:"headerFill"`
	HeaderColor   string        `json:"headerColor"`
	Binding       string        `json:"binding,omitempty"` // repeating data source name
}

// Box returns the element's geometry as a box.
func (e Element) Box() geometry.Box {
	return geometry.Box{X: e.XMm, Y: e.YMm, W: e.WidthMm, H: e.HeightMm}
}

// SetBox writes box geometry back onto the element.
func (e *Element) SetBox(b geometry.Box) {
	e.XMm = b.X
	e.YMm = b.Y
	e.WidthMm = b.W
	e.HeightMm = b.H
}

// AspectRatio returns the element's width/height ratio, or 0 when the
// height is zero.
func (e Element) AspectRatio() float64 {
	if e.HeightMm == 0 {
		return 0
	}
	return e.WidthMm / e.HeightMm
}

// Clone returns a deep copy of the element, including variant props.
func (e Element) Clone() Element {
	out := e
	if e.Text != nil {
		t := *e.Text
		out.Text = &t
	}
	if e.Rect != nil {
		r := *e.Rect
		out.Rect = &r
	}
	if e.Line != nil {
		l := *e.Line
		out.Line = &l
	}
	if e.Image != nil {
		img := *e.Image
		out.Image = &img
	}
	if e.Table != nil {
		tbl := *e.Table
		tbl.Columns = append([]TableColumn(nil), e.Table.Columns...)
		tbl.HeaderCells = append([]string(nil), e.Table.HeaderCells...)
		tbl.BodyCells = append([]string(nil), e.Table.BodyCells...)
		tbl.FooterCells = append([]string(nil), e.Table.FooterCells...)
		out.Table = &tbl
	}
	return out
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	out.Elements = make([]Element, len(d.Elements))
	for i, e := range d.Elements {
		out.Elements[i] = e.Clone()
	}
	return out
}

// IndexOf returns the stacking index of the element with the given id,
// or -1 when absent.
func (d Document) IndexOf(id string) int {
	for i, e := range d.Elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// ElementByID looks up an element by id.
func (d Document) ElementByID(id string) (Element, bool) {
	if i := d.IndexOf(id); i >= 0 {
		return d.Elements[i], true
	}
	return Element{}, false
}
