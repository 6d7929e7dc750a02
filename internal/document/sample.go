package document

import (
	"github.com/MADrickx/Layma/internal/geometry"
	"github.com/MADrickx/Layma/internal/typeid"
)

// NewSampleDocument builds the document used by the anonymous
// playground session: an A4 page with header, body, and footer content
// covering every element type.
func NewSampleDocument() Document {
	return Document{
		Page:           PageSize{WidthMm: 210, HeightMm: 297},
		HeaderHeightMm: 30,
		FooterHeightMm: 20,
		Elements: []Element{
			{
				ID:      typeid.NewElementID(),
				Type:    ElementText,
				Section: geometry.SectionHeader,
				XMm:     10, YMm: 8, WidthMm: 120, HeightMm: 12,
				Text: &TextProps{
					Content:    "Quarterly Report",
					FontFamily: "Helvetica",
					FontSizePt: 18,
					Color:      "#1a1a2e",
					Align:      "left",
					PaddingMm:  1,
				},
			},
			{
				ID:      typeid.NewElementID(),
				Type:    ElementLine,
				Section: geometry.SectionHeader,
				XMm:     10, YMm: 26, WidthMm: 190, HeightMm: 1,
				Line: &LineProps{Color: "#1a1a2e"},
			},
			{
				ID:      typeid.NewElementID(),
				Type:    ElementRect,
				Section: geometry.SectionBody,
				XMm:     10, YMm: 40, WidthMm: 90, HeightMm: 50,
				Rect: &RectProps{
					Fill:           "#e9e9f4",
					BorderColor:    "#1a1a2e",
					BorderWidthMm:  0.3,
					CornerRadiusMm: 2,
				},
			},
			{
				ID:      typeid.NewElementID(),
				Type:    ElementImage,
				Section: geometry.SectionBody,
				XMm:     110, YMm: 40, WidthMm: 60, HeightMm: 45,
				Image: &ImageProps{
					Fit:               "contain",
					Opacity:           1,
					AspectRatioLocked: true,
					NaturalWidth:      800,
					NaturalHeight:     600,
				},
			},
			{
				ID:      typeid.NewElementID(),
				Type:    ElementTable,
				Section: geometry.SectionBody,
				XMm:     10, YMm: 110, WidthMm: 190, HeightMm: 60,
				Table: &TableProps{
					Columns: []TableColumn{
						{WidthMm: 63.3333}, {WidthMm: 63.3333}, {WidthMm: 63.3333},
					},
					HeaderCells:   []string{"Region", "Units", "Revenue"},
					BodyCells:     []string{"=region", "=units", "=revenue"},
					BorderColor:   "#444444",
					BorderWidthMm: 0.3,
					HeaderFill:    "#1a1a2e",
					HeaderColor:   "#ffffff",
					Binding:       "sales",
				},
			},
			{
				ID:      typeid.NewElementID(),
				Type:    ElementText,
				Section: geometry.SectionFooter,
				XMm:     10, YMm: 282, WidthMm: 190, HeightMm: 10,
				Text: &TextProps{
					Content:    "Page 1",
					FontFamily: "Helvetica",
					FontSizePt: 9,
					Color:      "#666666",
					Align:      "center",
					PaddingMm:  1,
				},
			},
		},
	}
}
