package domain

import (
	"sort"
	"time"
)

// Dataset is the assembled long table for one report generation. It is
// derived, immutable in intent, and lives only for the duration of a
// single request; there is no persistence across runs.
type Dataset struct {
	Records []Record `json:"records"`
}

// Empty reports whether the dataset holds no usable records.
func (d Dataset) Empty() bool {
	return len(d.Records) == 0
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Sort orders the records by (station canonical index, side rank) with
// CreateTime as a tiebreaker so repeated assemblies are deterministic.
func (d Dataset) Sort() {
	sort.SliceStable(d.Records, func(i, j int) bool {
		a, b := d.Records[i], d.Records[j]
		ai, ar := a.SortKey()
		bi, br := b.SortKey()
		if ar != br {
			return ar < br
		}
		if ai != bi {
			return ai < bi
		}
		return a.CreateTime.Before(b.CreateTime)
	})
}

// Filter returns a new Dataset holding only records for which keep
// returns true.
func (d Dataset) Filter(keep func(Record) bool) Dataset {
	var out Dataset
	for _, r := range d.Records {
		if keep(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// ByDirection returns the subset of records with the given direction.
func (d Dataset) ByDirection(dir Direction) Dataset {
	return d.Filter(func(r Record) bool { return r.Direction == dir })
}

// ByStation returns the subset of records with the given station.
func (d Dataset) ByStation(st Station) Dataset {
	return d.Filter(func(r Record) bool { return r.Station == st })
}

// HasStation reports whether any record carries the given station.
func (d Dataset) HasStation(st Station) bool {
	for _, r := range d.Records {
		if r.Station == st {
			return true
		}
	}
	return false
}

// LatestDate returns the calendar date of the newest non-zero
// CreateTime in the dataset. ok is false when no record carries a
// usable timestamp.
func (d Dataset) LatestDate() (time.Time, bool) {
	var max time.Time
	for _, r := range d.Records {
		if r.CreateTime.After(max) {
			max = r.CreateTime
		}
	}
	if max.IsZero() {
		return time.Time{}, false
	}
	return time.Date(max.Year(), max.Month(), max.Day(), 0, 0, 0, 0, max.Location()), true
}

// OnDate returns the subset of records whose CreateTime falls on the
// given calendar date.
func (d Dataset) OnDate(date time.Time) Dataset {
	y, m, day := date.Date()
	return d.Filter(func(r Record) bool {
		if r.CreateTime.IsZero() {
			return false
		}
		ry, rm, rd := r.CreateTime.Date()
		return ry == y && rm == m && rd == day
	})
}

// PresentLabels returns the display labels that actually occur in the
// dataset, ordered by PlotOrder. Absent labels are skipped so chart
// axes never reserve empty slots.
func (d Dataset) PresentLabels() []string {
	seen := make(map[string]bool, len(d.Records))
	for _, r := range d.Records {
		seen[r.DisplayLabel()] = true
	}
	var out []string
	for _, label := range PlotOrder() {
		if seen[label] {
			out = append(out, label)
		}
	}
	return out
}
