package report

import (
	"fmt"
	"log/slog"
	"time"

	"optiqc/pkg/contracts/domain"
)

// ChartSet holds every chart image a report deck needs, each family
// rendered at both an auto and a fixed y-scale.
type ChartSet struct {
	OverallAuto  []byte
	OverallFixed []byte
	LatestAuto   []byte
	LatestFixed  []byte
	ControlAuto  []byte
	ControlFixed []byte

	// LatestDate is the calendar date the Latest charts are restricted
	// to; LatestOK is false when the dataset carried no usable
	// timestamps and the Latest charts fall back to the overall ones.
	LatestDate time.Time
	LatestOK   bool
}

// LatestTitle returns the dated slide title for the Latest charts.
func (cs *ChartSet) LatestTitle() string {
	if !cs.LatestOK {
		return "Latest Data (N/A)"
	}
	return fmt.Sprintf("Latest Data (%s)", cs.LatestDate.Format("2006-01-02"))
}

// RenderAll produces the full chart set for one dataset. The Latest
// variant degrades gracefully: with no dated records it reuses the
// overall charts instead of failing.
func (r *Renderer) RenderAll(ds domain.Dataset) (*ChartSet, error) {
	cs := &ChartSet{}
	var err error

	if cs.OverallAuto, err = r.BoxPlot(ds, "Overall Summary", nil); err != nil {
		return nil, fmt.Errorf("overall box plot: %w", err)
	}
	fixed := r.style.BoxFixed
	if cs.OverallFixed, err = r.BoxPlot(ds, "Overall Summary", &fixed); err != nil {
		return nil, fmt.Errorf("overall box plot (fixed): %w", err)
	}

	if latest, ok := ds.LatestDate(); ok {
		sub := ds.OnDate(latest)
		title := fmt.Sprintf("Latest Data (%s)", latest.Format("2006-01-02"))
		if cs.LatestAuto, err = r.BoxPlot(sub, title, nil); err != nil {
			return nil, fmt.Errorf("latest box plot: %w", err)
		}
		if cs.LatestFixed, err = r.BoxPlot(sub, title, &fixed); err != nil {
			return nil, fmt.Errorf("latest box plot (fixed): %w", err)
		}
		cs.LatestDate = latest
		cs.LatestOK = true
	} else {
		r.logger.Warn("no dated records; latest charts reuse the overall charts")
		cs.LatestAuto = cs.OverallAuto
		cs.LatestFixed = cs.OverallFixed
	}

	if cs.ControlAuto, err = r.ControlChart(ds, nil); err != nil {
		return nil, fmt.Errorf("control chart: %w", err)
	}
	ctlFixed := r.style.ControlFixed
	if cs.ControlFixed, err = r.ControlChart(ds, &ctlFixed); err != nil {
		return nil, fmt.Errorf("control chart (fixed): %w", err)
	}

	r.logger.Info("charts rendered",
		slog.Int("records", ds.Len()),
		slog.Bool("latest_restricted", cs.LatestOK))
	return cs, nil
}

// BuildDeck arranges a chart set into the three-slide report deck,
// each slide pairing the auto-scaled and fixed-scaled image.
func BuildDeck(cs *ChartSet) *Deck {
	return &Deck{Slides: []Slide{
		{
			Title: "Overall Summary",
			Images: []SlideImage{
				{Label: "Auto Scale", PNG: cs.OverallAuto},
				{Label: "Fixed Scale", PNG: cs.OverallFixed},
			},
		},
		{
			Title: cs.LatestTitle(),
			Images: []SlideImage{
				{Label: "Auto Scale", PNG: cs.LatestAuto},
				{Label: "Fixed Scale", PNG: cs.LatestFixed},
			},
		},
		{
			Title: "Control Chart (AfterBaking)",
			Images: []SlideImage{
				{Label: "Auto Scale", PNG: cs.ControlAuto},
				{Label: "Fixed Scale", PNG: cs.ControlFixed},
			},
		},
	}}
}
