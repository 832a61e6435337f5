package domain

import (
	"time"
)

// Side identifies which module side a measurement sheet belongs to,
// derived from the sheet-name suffix (-R or -L).
type Side string

const (
	SideLeft  Side = "Left"
	SideRight Side = "Right"
)

// Initial returns the single-letter prefix used in display labels ("L"/"R").
func (s Side) Initial() string {
	if s == SideRight {
		return "R"
	}
	return "L"
}

// sortRank places all Left-side records strictly before Right-side records.
func (s Side) sortRank() int {
	if s == SideRight {
		return 100
	}
	return 0
}

// Direction is the measurement axis encoded in the raw column name.
// Unknown directions are retained, unlike unrecognized stations.
type Direction string

const (
	DirectionH       Direction = "H"
	DirectionV       Direction = "V"
	DirectionUnknown Direction = "Unknown"
)

// Station is the canonical test-station taxonomy. Raw column names are
// mapped onto this closed set; anything else is discarded.
type Station string

const (
	StationPreAA1      Station = "PreAA_1"
	StationPreAA2      Station = "PreAA_2"
	StationAA          Station = "AA"
	StationAfterExp    Station = "AfterExp"
	StationLooseClaws  Station = "LooseClaws"
	StationAfterBaking Station = "AfterBaking"
)

// StationOrder is the canonical presentation sequence for stations. The
// plot order repeats it once per side, Left first.
var StationOrder = []Station{
	StationPreAA1,
	StationPreAA2,
	StationAA,
	StationAfterExp,
	StationLooseClaws,
	StationAfterBaking,
}

// stationOrderSentinel sorts unrecognized stations after every named one.
const stationOrderSentinel = 1000

// OrderIndex returns the station's position in the canonical sequence,
// or a large sentinel for stations not in the ordered list.
func (s Station) OrderIndex() int {
	for i, st := range StationOrder {
		if st == s {
			return i
		}
	}
	return stationOrderSentinel
}

// Record is one normalized measurement: a single cell of a wide input
// sheet pivoted into long form. CreateTime may be zero when the source
// timestamp was missing or unparseable; Value and Station are always
// valid once a Record has been admitted into a Dataset.
type Record struct {
	CreateTime time.Time `json:"create_time"`
	Side       Side      `json:"side"`
	Station    Station   `json:"station"`
	Direction  Direction `json:"direction"`
	Source     string    `json:"source"`
	Value      float64   `json:"value"`
}

// DisplayLabel returns the presentation label, e.g. "L-PreAA_1".
func (r Record) DisplayLabel() string {
	return r.Side.Initial() + "-" + string(r.Station)
}

// SortKey returns the composite ordering key (station index, side rank).
// Left-side stations sort strictly before Right-side stations while the
// canonical station sequence is preserved within each side.
func (r Record) SortKey() (int, int) {
	return r.Station.OrderIndex(), r.Side.sortRank()
}

// Less reports whether r orders before other under the plot ordering.
func (r Record) Less(other Record) bool {
	si, sr := r.SortKey()
	oi, or := other.SortKey()
	if sr != or {
		return sr < or
	}
	return si < oi
}

// PlotOrder returns the full label sequence for chart x-axes: the
// canonical stations prefixed L-, then the same prefixed R-. Labels
// absent from a dataset are skipped at render time, never padded.
func PlotOrder() []string {
	order := make([]string, 0, 2*len(StationOrder))
	for _, side := range []Side{SideLeft, SideRight} {
		for _, st := range StationOrder {
			order = append(order, side.Initial()+"-"+string(st))
		}
	}
	return order
}
