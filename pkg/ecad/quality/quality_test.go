// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
)

func f32(v float32) *float32 { return &v }
func str(s string) *string  { return &s }

func TestPerformPhysicalValidationIdempotent(t *testing.T) {
	r := &model.WeatherRecord{TempMin: f32(10), TempAvg: f32(15), TempMax: f32(20), Precipitation: f32(5)}
	PerformPhysicalValidation(r)
	first := *r.TempValidation
	firstPrecip := *r.PrecipValidation
	PerformPhysicalValidation(r)
	assert.Equal(t, first, *r.TempValidation)
	assert.Equal(t, firstPrecip, *r.PrecipValidation)
}

func TestTemperaturePhysicalThresholds(t *testing.T) {
	r := &model.WeatherRecord{TempMax: f32(70)}
	PerformPhysicalValidation(r)
	assert.Equal(t, model.Invalid, *r.TempValidation)

	r = &model.WeatherRecord{TempMax: f32(40)}
	PerformPhysicalValidation(r)
	assert.Equal(t, model.Suspect, *r.TempValidation)

	r = &model.WeatherRecord{TempMax: f32(20)}
	PerformPhysicalValidation(r)
	assert.Equal(t, model.Valid, *r.TempValidation)
}

func TestAssessTemperatureQualityTable(t *testing.T) {
	missing := &model.WeatherRecord{TempQuality: str("9"), TempMax: f32(20)}
	PerformPhysicalValidation(missing)
	assert.Equal(t, model.QualityMissing, AssessTemperatureQuality(missing))

	invalid := &model.WeatherRecord{TempQuality: str("0"), TempMax: f32(70)}
	PerformPhysicalValidation(invalid)
	assert.Equal(t, model.QualityInvalid, AssessTemperatureQuality(invalid))

	suspectBoth := &model.WeatherRecord{TempQuality: str("1"), TempMax: f32(40)}
	PerformPhysicalValidation(suspectBoth)
	assert.Equal(t, model.QualitySuspectBoth, AssessTemperatureQuality(suspectBoth))

	suspectOriginal := &model.WeatherRecord{TempQuality: str("1"), TempMax: f32(20)}
	PerformPhysicalValidation(suspectOriginal)
	assert.Equal(t, model.QualitySuspectOriginal, AssessTemperatureQuality(suspectOriginal))

	suspectRange := &model.WeatherRecord{TempQuality: str("0"), TempMax: f32(40)}
	PerformPhysicalValidation(suspectRange)
	assert.Equal(t, model.QualitySuspectRange, AssessTemperatureQuality(suspectRange))

	valid := &model.WeatherRecord{TempQuality: str("0"), TempMax: f32(20)}
	PerformPhysicalValidation(valid)
	assert.Equal(t, model.QualityValid, AssessTemperatureQuality(valid))
}

func TestParseSourceFlag(t *testing.T) {
	for _, v := range []uint8{0, 1, 9} {
		_, err := ParseSourceFlag(v)
		assert.NoError(t, err)
	}
	_, err := ParseSourceFlag(5)
	assert.Error(t, err)
}

