// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package integrity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
)

func f32(v float32) *float32   { return &v }
func str(s string) *string     { return &s }
func vp(v model.PhysicalValidity) *model.PhysicalValidity { return &v }

func day(n int) time.Time { return time.Date(2020, 1, n, 0, 0, 0, 0, time.UTC) }

func TestComputeReportOrderingViolation(t *testing.T) {
	records := []model.WeatherRecord{
		{StationID: 1, Date: day(1), TempMin: f32(30), TempAvg: f32(20), TempMax: f32(25),
			TempQuality: str("000"), TempValidation: vp(model.Valid)},
	}
	report := ComputeReport(records)
	require.Len(t, report.TemperatureViolations, 1)
	assert.Equal(t, model.MinGreaterThanAvg, report.TemperatureViolations[0].Type)
}

func TestComputeReportOutOfRange(t *testing.T) {
	records := []model.WeatherRecord{
		{StationID: 1, Date: day(1), TempMax: f32(55), TempQuality: str("0"), TempValidation: vp(model.Suspect)},
	}
	report := ComputeReport(records)
	require.Len(t, report.TemperatureViolations, 1)
	assert.Equal(t, model.OutOfRange, report.TemperatureViolations[0].Type)
}

func TestComputeReportSuspiciousJump(t *testing.T) {
	records := []model.WeatherRecord{
		{StationID: 1, Date: day(1), TempAvg: f32(10), TempQuality: str("0"), TempValidation: vp(model.Valid)},
		{StationID: 1, Date: day(2), TempAvg: f32(40), TempQuality: str("0"), TempValidation: vp(model.Valid)},
	}
	report := ComputeReport(records)
	found := false
	for _, v := range report.TemperatureViolations {
		if v.Type == model.SuspiciousJump {
			found = true
		}
	}
	assert.True(t, found)
}

func TestComputeReportTotalsAndStationStats(t *testing.T) {
	records := []model.WeatherRecord{
		{StationID: 1, Date: day(1), TempMin: f32(5), TempAvg: f32(10), TempQuality: str("0"), TempValidation: vp(model.Valid)},
		{StationID: 1, Date: day(2), TempMin: f32(7), TempAvg: f32(12), TempQuality: str("0"), TempValidation: vp(model.Valid)},
		{StationID: 2, Date: day(1), TempQuality: str("9")},
	}
	report := ComputeReport(records)
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 1, report.MissingDataRecords)
	assert.Equal(t, 2, report.ValidRecords)

	stats1 := report.StationStatistics[1]
	require.NotNil(t, stats1)
	assert.Equal(t, 2, stats1.TotalRecords)
	assert.Equal(t, 2, stats1.ValidRecords)
	require.NotNil(t, stats1.MinTemp)
	assert.InDelta(t, 5, *stats1.MinTemp, 0.01)
	require.NotNil(t, stats1.MaxTemp)
	assert.InDelta(t, 7, *stats1.MaxTemp, 0.01)
	require.NotNil(t, stats1.AvgTemp)
	assert.InDelta(t, 11, *stats1.AvgTemp, 0.01)
}

func TestSuspiciousJumpPerSeries(t *testing.T) {
	records := []model.WeatherRecord{
		{StationID: 1, Date: day(1), TempMin: f32(-5), TempAvg: f32(2), TempQuality: str("00")},
		{StationID: 1, Date: day(2), TempMin: f32(18), TempAvg: f32(20), TempQuality: str("00")},
	}
	report := ComputeReport(records)
	jumps := 0
	for _, v := range report.TemperatureViolations {
		if v.Type == model.SuspiciousJump {
			jumps++
		}
	}
	assert.Equal(t, 1, jumps) // only the min series jumps by more than 20
}

func TestCombineReportsIsAdditive(t *testing.T) {
	a := &model.IntegrityReport{TotalRecords: 5, ValidRecords: 5, StationStatistics: map[uint32]*model.StationStatistics{
		1: {TotalRecords: 5},
	}}
	b := &model.IntegrityReport{TotalRecords: 3, ValidRecords: 2, SuspectRecords: 1, StationStatistics: map[uint32]*model.StationStatistics{
		1: {TotalRecords: 3},
		2: {TotalRecords: 3},
	}}
	combined := CombineReports([]*model.IntegrityReport{a, b})
	assert.Equal(t, 8, combined.TotalRecords)
	assert.Equal(t, 7, combined.ValidRecords)
	assert.Equal(t, 1, combined.SuspectRecords)
	require.Contains(t, combined.StationStatistics, uint32(1))
	assert.Equal(t, 3, combined.StationStatistics[1].TotalRecords) // last-writer-wins
	assert.Contains(t, combined.StationStatistics, uint32(2))
}

