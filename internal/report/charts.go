package report

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"optiqc/internal/infrastructure"
	"optiqc/pkg/contracts/domain"
)

// Renderer turns an assembled Dataset into PNG chart images.
type Renderer struct {
	style  Style
	logger *slog.Logger
}

// NewRenderer creates a renderer with the given style.
func NewRenderer(style Style, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		style:  style,
		logger: infrastructure.WithComponent(logger, "chart_renderer"),
	}
}

// BoxPlot renders the two-panel distribution chart: one panel per
// direction (H above V), boxes grouped by display label in plot order
// and filled by side. yr of nil means auto scale.
func (r *Renderer) BoxPlot(ds domain.Dataset, title string, yr *Range) ([]byte, error) {
	panels := make([]*plot.Plot, 0, 2)
	for _, dir := range []domain.Direction{domain.DirectionH, domain.DirectionV} {
		p, err := r.boxPanel(ds.ByDirection(dir), fmt.Sprintf("%s - %s", title, dir), yr)
		if err != nil {
			return nil, fmt.Errorf("box panel %s: %w", dir, err)
		}
		panels = append(panels, p)
	}
	return r.renderGrid(panels, 2, 1)
}

// boxPanel builds one direction's panel. Labels absent from the subset
// are skipped, never reserved as empty slots.
func (r *Renderer) boxPanel(sub domain.Dataset, title string, yr *Range) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Value"

	labels := sub.PresentLabels()
	values := make(map[string]plotter.Values, len(labels))
	for _, rec := range sub.Records {
		label := rec.DisplayLabel()
		values[label] = append(values[label], rec.Value)
	}

	leftCount := 0
	for i, label := range labels {
		box, err := plotter.NewBoxPlot(vg.Points(18), float64(i), values[label])
		if err != nil {
			return nil, fmt.Errorf("box %s: %w", label, err)
		}
		box.FillColor = r.style.fillFor(label)
		p.Add(box)
		if label[0] == 'L' {
			leftCount++
		}
	}

	if len(labels) > 0 {
		p.NominalX(labels...)
		p.X.Min, p.X.Max = -0.5, float64(len(labels))-0.5
	} else {
		// Keep an empty panel renderable so degraded datasets still
		// produce a chart instead of an error.
		p.X.Min, p.X.Max = -0.5, 0.5
	}

	// Divider between the Left and Right groups.
	if leftCount > 0 && leftCount < len(labels) {
		p.Add(&verticalRule{X: float64(leftCount) - 0.5, Color: color.Gray{Y: 0x80}})
	}

	r.addSpecLines(p, p.X.Min, p.X.Max)
	applyRange(p, yr)
	p.Add(plotter.NewGrid())
	return p, nil
}

// ControlChart renders the 2x2 time-ordered scatter for the
// AfterBaking station: direction rows, side columns. Records without a
// usable CreateTime cannot be placed on the time axis and are omitted.
func (r *Renderer) ControlChart(ds domain.Dataset, yr *Range) ([]byte, error) {
	ab := ds.ByStation(domain.StationAfterBaking)

	panels := make([]*plot.Plot, 0, 4)
	for _, dir := range []domain.Direction{domain.DirectionH, domain.DirectionV} {
		for _, side := range []domain.Side{domain.SideLeft, domain.SideRight} {
			sub := ab.Filter(func(rec domain.Record) bool {
				return rec.Direction == dir && rec.Side == side && !rec.CreateTime.IsZero()
			})
			p, err := r.controlPanel(sub, fmt.Sprintf("%s - %s", dir, side), side, yr)
			if err != nil {
				return nil, fmt.Errorf("control panel %s/%s: %w", dir, side, err)
			}
			panels = append(panels, p)
		}
	}
	return r.renderGrid(panels, 2, 2)
}

func (r *Renderer) controlPanel(sub domain.Dataset, title string, side domain.Side, yr *Range) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Value"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02 15:04"}

	recs := append([]domain.Record(nil), sub.Records...)
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreateTime.Before(recs[j].CreateTime) })

	if len(recs) > 0 {
		pts := make(plotter.XYs, len(recs))
		for i, rec := range recs {
			pts[i] = plotter.XY{X: float64(rec.CreateTime.Unix()), Y: rec.Value}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = r.style.fillFor(side.Initial())
		sc.GlyphStyle.Radius = vg.Points(2.5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		r.addSpecLines(p, pts[0].X, pts[len(pts)-1].X)
	} else {
		// Empty subsets still render a titled panel with spec lines.
		p.X.Min, p.X.Max = 0, 1
		r.addSpecLines(p, 0, 1)
	}

	applyRange(p, yr)
	p.Add(plotter.NewGrid())
	return p, nil
}

// addSpecLines draws the fixed USL/LSL reference lines.
func (r *Renderer) addSpecLines(p *plot.Plot, xmin, xmax float64) {
	if xmax <= xmin {
		xmax = xmin + 1
	}
	red := color.RGBA{R: 0xD0, A: 0xFF}
	for _, y := range []float64{r.style.SpecLimit, -r.style.SpecLimit} {
		l, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: y}, {X: xmax, Y: y}})
		if err != nil {
			continue
		}
		l.Color = red
		l.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(l)
	}
}

// renderGrid lays panels out in a rows x cols grid and encodes the
// whole canvas as one PNG.
func (r *Renderer) renderGrid(panels []*plot.Plot, rows, cols int) ([]byte, error) {
	img := vgimg.New(r.style.PanelWidth*vg.Length(cols), r.style.PanelHeight*vg.Length(rows))
	dc := draw.New(img)

	grid := make([][]*plot.Plot, rows)
	for ri := 0; ri < rows; ri++ {
		grid[ri] = make([]*plot.Plot, cols)
		for ci := 0; ci < cols; ci++ {
			grid[ri][ci] = panels[ri*cols+ci]
		}
	}

	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Points(6),
		PadY: vg.Points(6),
	}
	canvases := plot.Align(grid, tiles, dc)
	for ri := 0; ri < rows; ri++ {
		for ci := 0; ci < cols; ci++ {
			grid[ri][ci].Draw(canvases[ri][ci])
		}
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// applyRange fixes the y window when a fixed scale was requested.
func applyRange(p *plot.Plot, yr *Range) {
	if yr == nil {
		return
	}
	p.Y.Min, p.Y.Max = yr.Min, yr.Max
}

// verticalRule is a plotter that draws a dashed vertical line across
// the full data window, used to separate the L and R label groups.
type verticalRule struct {
	X     float64
	Color color.Color
}

func (v *verticalRule) Plot(c draw.Canvas, p *plot.Plot) {
	trX, _ := p.Transforms(&c)
	x := trX(v.X)
	c.StrokeLine2(draw.LineStyle{
		Color:  v.Color,
		Width:  vg.Points(1),
		Dashes: []vg.Length{vg.Points(4), vg.Points(2)},
	}, x, c.Min.Y, x, c.Max.Y)
}
