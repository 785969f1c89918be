// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/skybound-data/ecad-pipeline/pkg/ecaderr"
)

// temperatureTolerance is the slack allowed in the temp_min <= temp_avg
// <= temp_max ordering invariant, since the three series can come from
// different source stations within the same station_id.
const temperatureTolerance = 1.0

// WeatherRecord is the unified, (station_id, date)-keyed output record.
// Every metric slot is optional; a record must carry at least one
// non-absent metric slot to be emitted (enforced by callers, not by
// this type, since a freshly built record may still be empty pending
// population).
type WeatherRecord struct {
	StationID   uint32
	StationName string
	Date        time.Time
	Latitude    float64
	Longitude   float64

	TempMin *float32
	TempMax *float32
	TempAvg *float32

	Precipitation *float32
	WindSpeed     *float32

	TempQuality   *string
	PrecipQuality *string
	WindQuality   *string

	TempValidation   *PhysicalValidity
	PrecipValidation *PhysicalValidity
	WindValidation   *PhysicalValidity
}

// HasTemperatureData reports whether any of the three temperature
// slots is present.
func (r *WeatherRecord) HasTemperatureData() bool {
	return r.TempMin != nil || r.TempMax != nil || r.TempAvg != nil
}

// HasCompleteTemperature reports whether all three temperature slots
// are present.
func (r *WeatherRecord) HasCompleteTemperature() bool {
	return r.TempMin != nil && r.TempMax != nil && r.TempAvg != nil
}

func (r *WeatherRecord) HasPrecipitation() bool { return r.Precipitation != nil }
func (r *WeatherRecord) HasWindSpeed() bool     { return r.WindSpeed != nil }

// AvailableMetrics lists which metric families have at least one
// present value, in temperature/precipitation/wind order.
func (r *WeatherRecord) AvailableMetrics() []string {
	var metrics []string
	if r.HasTemperatureData() {
		metrics = append(metrics, "temperature")
	}
	if r.HasPrecipitation() {
		metrics = append(metrics, "precipitation")
	}
	if r.HasWindSpeed() {
		metrics = append(metrics, "wind_speed")
	}
	return metrics
}

// MetricCoverageScore is the fraction of the three metric families
// present on this record (0, 1/3, 2/3, or 1).
func (r *WeatherRecord) MetricCoverageScore() float32 {
	return float32(len(r.AvailableMetrics())) / 3.0
}

// TemperatureRange is temp_max - temp_min, when both are present.
func (r *WeatherRecord) TemperatureRange() *float32 {
	if r.TempMin == nil || r.TempMax == nil {
		return nil
	}
	v := *r.TempMax - *r.TempMin
	return &v
}

// HasValidTemperatureData reports whether a temperature source flag is
// present and carries no suspect or missing marker.
func (r *WeatherRecord) HasValidTemperatureData() bool {
	return r.TempQuality != nil && allZero(*r.TempQuality)
}

func (r *WeatherRecord) HasValidPrecipitationData() bool {
	return r.PrecipQuality != nil && allZero(*r.PrecipQuality)
}

func (r *WeatherRecord) HasValidWindData() bool {
	return r.WindQuality != nil && allZero(*r.WindQuality)
}

func allZero(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return false
		}
	}
	return len(s) > 0
}

// HasValidData reports whether at least one source flag is present and
// every present flag character is '0'.
func (r *WeatherRecord) HasValidData() bool {
	present := false
	for _, q := range []*string{r.TempQuality, r.PrecipQuality, r.WindQuality} {
		if q == nil {
			continue
		}
		if !allZero(*q) {
			return false
		}
		present = true
	}
	return present
}

// HasSuspectData reports whether any present source flag contains '1'.
func (r *WeatherRecord) HasSuspectData() bool {
	return containsChar(r.TempQuality, '1') || containsChar(r.PrecipQuality, '1') || containsChar(r.WindQuality, '1')
}

// HasMissingData reports whether any present source flag contains '9'.
func (r *WeatherRecord) HasMissingData() bool {
	return containsChar(r.TempQuality, '9') || containsChar(r.PrecipQuality, '9') || containsChar(r.WindQuality, '9')
}

func containsChar(s *string, c byte) bool {
	return s != nil && strings.IndexByte(*s, c) >= 0
}

// ValidateRelationships checks the temperature-triple ordering
// invariant when all three slots are present.
func (r *WeatherRecord) ValidateRelationships() error {
	if r.TempMin != nil && r.TempAvg != nil && r.TempMax != nil {
		min, avg, max := *r.TempMin, *r.TempAvg, *r.TempMax
		if min > avg+temperatureTolerance {
			return ecaderr.New(ecaderr.TemperatureValidation,
				fmt.Sprintf("min temperature %v > avg temperature %v (tolerance=%v)", min, avg, temperatureTolerance))
		}
		if avg > max+temperatureTolerance {
			return ecaderr.New(ecaderr.TemperatureValidation,
				fmt.Sprintf("avg temperature %v > max temperature %v (tolerance=%v)", avg, max, temperatureTolerance))
		}
	}
	return nil
}

