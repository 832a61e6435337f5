package dataprocessing

import (
	"strings"

	"optiqc/pkg/contracts/domain"
)

// stationRule maps a raw-column-name token onto a canonical station.
// Rules are evaluated in order; the first match wins.
type stationRule struct {
	token   string
	station domain.Station
}

// stationRules is the ordered substring cascade for station
// classification. PreAA is handled separately because it fans out into
// two stations based on the H1/V1 vs H2/V2 marker.
var stationRules = []stationRule{
	{token: "AfterExposure", station: domain.StationAfterExp},
	{token: "LooseClaws", station: domain.StationLooseClaws},
	{token: "AA_M87", station: domain.StationAA},
	{token: "AfterBaking", station: domain.StationAfterBaking},
}

// directionRule maps a raw-column-name token onto a measurement axis.
type directionRule struct {
	token     string
	direction domain.Direction
}

var directionRules = []directionRule{
	{token: "_H_", direction: domain.DirectionH},
	{token: "illu_Boresight_H", direction: domain.DirectionH},
	{token: "_V_", direction: domain.DirectionV},
	{token: "illu_Boresight_V", direction: domain.DirectionV},
}

// opticalFamilyTokens mark a column as carrying optical boresight data.
// "illu_Boresight" contains "Boresight" but is listed explicitly to
// keep the rule set readable next to the source exports.
var opticalFamilyTokens = []string{"Boresight", "illu_Boresight"}

// IsTargetColumn reports whether a raw column name should be retained
// as a measurement column. A target column references the boresight
// optical family and is either a White-illumination column or a PreAA
// column; PreAA exports never carry the White marker, so requiring
// White unconditionally would silently exclude them.
func IsTargetColumn(name string) bool {
	family := false
	for _, tok := range opticalFamilyTokens {
		if strings.Contains(name, tok) {
			family = true
			break
		}
	}
	if !family {
		return false
	}
	return strings.Contains(name, "White") || strings.Contains(name, "PreAA")
}

// ClassifyStation maps a raw column name onto the canonical station
// set. It is total: every input yields either a station or ok=false,
// in which case the record is dropped during assembly.
//
// A PreAA column with neither an H1/V1 nor H2/V2 marker is bucketed
// into PreAA_1, matching the newest instrument exports.
func ClassifyStation(name string) (domain.Station, bool) {
	if strings.Contains(name, "PreAA") {
		switch {
		case strings.Contains(name, "H1"), strings.Contains(name, "V1"):
			return domain.StationPreAA1, true
		case strings.Contains(name, "H2"), strings.Contains(name, "V2"):
			return domain.StationPreAA2, true
		}
		return domain.StationPreAA1, true
	}
	for _, rule := range stationRules {
		if strings.Contains(name, rule.token) {
			return rule.station, true
		}
	}
	return "", false
}

// ClassifyDirection maps a raw column name onto the measurement axis.
// Unlike stations, an unmatched direction is retained as Unknown rather
// than dropped.
func ClassifyDirection(name string) domain.Direction {
	for _, rule := range directionRules {
		if strings.Contains(name, rule.token) {
			return rule.direction
		}
	}
	return domain.DirectionUnknown
}
