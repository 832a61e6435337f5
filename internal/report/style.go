package report

import (
	"image/color"

	"gonum.org/v1/plot/vg"
)

// Range is a fixed y-axis window.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Style carries every presentation knob for the chart renderer. It is
// an explicit value passed in at construction; there is no process-wide
// style state.
type Style struct {
	// LeftFill and RightFill color the boxes and scatter points by side.
	LeftFill  color.Color
	RightFill color.Color

	// SpecLimit is the distance of the fixed USL/LSL reference lines
	// from zero, drawn on every panel.
	SpecLimit float64

	// BoxFixed and ControlFixed are the fixed-scale y windows.
	BoxFixed     Range
	ControlFixed Range

	// PanelWidth and PanelHeight size one chart panel.
	PanelWidth  vg.Length
	PanelHeight vg.Length
}

// DefaultStyle mirrors the plant's reviewed report styling: sky blue
// left, orange right, spec lines at +/-0.25.
func DefaultStyle() Style {
	return Style{
		LeftFill:     color.RGBA{R: 0x87, G: 0xCE, B: 0xEB, A: 0xFF},
		RightFill:    color.RGBA{R: 0xFF, G: 0xA5, B: 0x00, A: 0xFF},
		SpecLimit:    0.25,
		BoxFixed:     Range{Min: -1.5, Max: 1.5},
		ControlFixed: Range{Min: -0.3, Max: 0.3},
		PanelWidth:   6 * vg.Inch,
		PanelHeight:  2.4 * vg.Inch,
	}
}

func (s Style) fillFor(label string) color.Color {
	if len(label) > 0 && label[0] == 'R' {
		return s.RightFill
	}
	return s.LeftFill
}
