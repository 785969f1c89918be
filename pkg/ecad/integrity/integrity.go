// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package integrity computes dataset-wide quality and consistency
// reports over a set of weather records.
package integrity

import (
	"fmt"
	"math"
	"sort"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
)

// outOfRangeMinTemp and outOfRangeMaxTemp are the integrity checker's
// own sanity bounds. They are intentionally different from the
// physical-validation thresholds in pkg/ecad/quality: this is a
// separate, looser consistency check flagging implausible values for
// manual review, not the classification that feeds DataQuality.
const (
	outOfRangeMinTemp = -50.0
	outOfRangeMaxTemp = 50.0

	suspiciousJumpThreshold = 20.0
)

// ComputeReport scans records and produces an IntegrityReport: totals
// by the records' source-flag predicates, per-record temperature-ordering
// and out-of-range violations, per-station day-to-day jump violations,
// and per-station summary statistics.
func ComputeReport(records []model.WeatherRecord) *model.IntegrityReport {
	report := &model.IntegrityReport{
		StationStatistics: make(map[uint32]*model.StationStatistics),
	}

	byStation := make(map[uint32][]model.WeatherRecord)
	for _, r := range records {
		countTotals(report, r)
		checkOrderingViolation(report, r)
		checkOutOfRange(report, r)
		accumulateStationStatistics(report, r)
		byStation[r.StationID] = append(byStation[r.StationID], r)
	}

	// Station order is fixed so the violation list is stable across
	// reruns over the same input.
	stationIDs := make([]uint32, 0, len(byStation))
	for id := range byStation {
		stationIDs = append(stationIDs, id)
	}
	sort.Slice(stationIDs, func(i, j int) bool { return stationIDs[i] < stationIDs[j] })

	for _, stationID := range stationIDs {
		recs := byStation[stationID]
		sort.Slice(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
		checkSuspiciousJumps(report, stationID, recs)
	}

	return report
}

func countTotals(report *model.IntegrityReport, r model.WeatherRecord) {
	report.TotalRecords++
	switch {
	case r.HasValidData():
		report.ValidRecords++
	case r.HasSuspectData():
		report.SuspectRecords++
	case r.HasMissingData():
		report.MissingDataRecords++
	default:
		report.InvalidRecords++
	}
}

func checkOrderingViolation(report *model.IntegrityReport, r model.WeatherRecord) {
	if r.TempMin == nil || r.TempAvg == nil || r.TempMax == nil {
		return
	}
	const tolerance = 1.0
	if *r.TempMin > *r.TempAvg+tolerance {
		report.TemperatureViolations = append(report.TemperatureViolations, model.TemperatureViolation{
			StationID: r.StationID,
			Date:      r.Date,
			Type:      model.MinGreaterThanAvg,
			Details:   "min temperature exceeds average temperature beyond tolerance",
		})
	}
	if *r.TempAvg > *r.TempMax+tolerance {
		report.TemperatureViolations = append(report.TemperatureViolations, model.TemperatureViolation{
			StationID: r.StationID,
			Date:      r.Date,
			Type:      model.AvgGreaterThanMax,
			Details:   "average temperature exceeds maximum temperature beyond tolerance",
		})
	}
}

func checkOutOfRange(report *model.IntegrityReport, r model.WeatherRecord) {
	temps := []struct {
		v    *float32
		name string
	}{
		{r.TempMin, "min"},
		{r.TempMax, "max"},
		{r.TempAvg, "avg"},
	}
	for _, t := range temps {
		if t.v == nil {
			continue
		}
		v := float64(*t.v)
		if v < outOfRangeMinTemp || v > outOfRangeMaxTemp {
			report.TemperatureViolations = append(report.TemperatureViolations, model.TemperatureViolation{
				StationID: r.StationID,
				Date:      r.Date,
				Type:      model.OutOfRange,
				Details: fmt.Sprintf("%s temperature %.1f is outside valid range [%.0f, %.0f]",
					t.name, *t.v, outOfRangeMinTemp, outOfRangeMaxTemp),
			})
		}
	}
}

func checkSuspiciousJumps(report *model.IntegrityReport, stationID uint32, recs []model.WeatherRecord) {
	for i := 1; i < len(recs); i++ {
		prev, curr := recs[i-1], recs[i]
		series := []struct {
			prev, curr *float32
			name       string
		}{
			{prev.TempMin, curr.TempMin, "min"},
			{prev.TempMax, curr.TempMax, "max"},
			{prev.TempAvg, curr.TempAvg, "avg"},
		}
		for _, s := range series {
			if s.prev == nil || s.curr == nil {
				continue
			}
			jump := math.Abs(float64(*s.curr) - float64(*s.prev))
			if jump > suspiciousJumpThreshold {
				report.TemperatureViolations = append(report.TemperatureViolations, model.TemperatureViolation{
					StationID: stationID,
					Date:      curr.Date,
					Type:      model.SuspiciousJump,
					Details: fmt.Sprintf("%s temperature jumped %.1f°C from %s to %s",
						s.name, jump, prev.Date.Format("2006-01-02"), curr.Date.Format("2006-01-02")),
				})
			}
		}
	}
}

// accumulateStationStatistics updates per-station record counts and
// min/max temperature, plus a running pairwise average. The average is
// an approximation: each new value is blended 50/50 with the running
// average rather than weighted by sample count.
func accumulateStationStatistics(report *model.IntegrityReport, r model.WeatherRecord) {
	stats, ok := report.StationStatistics[r.StationID]
	if !ok {
		stats = &model.StationStatistics{}
		report.StationStatistics[r.StationID] = stats
	}

	stats.TotalRecords++
	switch {
	case r.HasValidData():
		stats.ValidRecords++
	case r.HasSuspectData():
		stats.SuspectRecords++
	case r.HasMissingData():
		stats.MissingDataRecords++
	}

	if r.TempMin != nil {
		v := *r.TempMin
		if stats.MinTemp == nil || v < *stats.MinTemp {
			val := v
			stats.MinTemp = &val
		}
		if stats.MaxTemp == nil || v > *stats.MaxTemp {
			val := v
			stats.MaxTemp = &val
		}
	}
	if r.TempAvg != nil {
		v := *r.TempAvg
		if stats.AvgTemp == nil {
			val := v
			stats.AvgTemp = &val
		} else {
			blended := (v + *stats.AvgTemp) / 2
			stats.AvgTemp = &blended
		}
	}
}

// CombineReports additively merges a set of per-archive integrity
// reports into one. Station statistics are combined last-writer-wins:
// a station present in more than one source report ends up with
// whichever source's stats were merged in last.
func CombineReports(reports []*model.IntegrityReport) *model.IntegrityReport {
	combined := &model.IntegrityReport{
		StationStatistics: make(map[uint32]*model.StationStatistics),
	}
	for _, r := range reports {
		if r == nil {
			continue
		}
		combined.TotalRecords += r.TotalRecords
		combined.ValidRecords += r.ValidRecords
		combined.SuspectRecords += r.SuspectRecords
		combined.InvalidRecords += r.InvalidRecords
		combined.MissingDataRecords += r.MissingDataRecords
		combined.TemperatureViolations = append(combined.TemperatureViolations, r.TemperatureViolations...)
		for stationID, stats := range r.StationStatistics {
			combined.StationStatistics[stationID] = stats
		}
	}
	return combined
}

