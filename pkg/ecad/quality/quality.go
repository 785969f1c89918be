// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package quality implements the two-layer quality model: parsing of
// the upstream ECAD source flag, physical-plausibility assessment
// against fixed thresholds, and the composite DataQuality lookup table
// that combines both.
package quality

import (
	"strings"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
	"github.com/skybound-data/ecad-pipeline/pkg/ecaderr"
)

// ParseSourceFlag recognises only {0, 1, 9}; any other value is a
// parse error.
func ParseSourceFlag(raw uint8) (uint8, error) {
	switch raw {
	case 0, 1, 9:
		return raw, nil
	default:
		return 0, ecaderr.New(ecaderr.InvalidQualityFlag, "source flag must be one of {0, 1, 9}")
	}
}

// PerformPhysicalValidation sets TempValidation, PrecipValidation, and
// WindValidation on the record from its currently populated metric
// slots. It is idempotent: calling it twice with no intervening
// mutation yields the same three assessments.
func PerformPhysicalValidation(r *model.WeatherRecord) {
	r.TempValidation = validateTemperature(r)
	r.PrecipValidation = validatePrecipitation(r)
	r.WindValidation = validateWind(r)
}

func validateTemperature(r *model.WeatherRecord) *model.PhysicalValidity {
	temps := make([]float32, 0, 3)
	for _, t := range []*float32{r.TempMin, r.TempMax, r.TempAvg} {
		if t != nil {
			temps = append(temps, *t)
		}
	}
	if len(temps) == 0 {
		return nil
	}

	worst := model.Valid
	for _, t := range temps {
		if t < -90 || t > 60 {
			invalid := model.Invalid
			return &invalid
		}
		if t < -35 || t > 45 {
			worst = model.Suspect
		}
	}
	return &worst
}

func validatePrecipitation(r *model.WeatherRecord) *model.PhysicalValidity {
	if r.Precipitation == nil {
		return nil
	}
	p := *r.Precipitation
	var v model.PhysicalValidity
	switch {
	case p < 0 || p > 2000:
		v = model.Invalid
	case p > 500:
		v = model.Suspect
	default:
		v = model.Valid
	}
	return &v
}

func validateWind(r *model.WeatherRecord) *model.PhysicalValidity {
	if r.WindSpeed == nil {
		return nil
	}
	w := *r.WindSpeed
	var v model.PhysicalValidity
	switch {
	case w < 0 || w > 120:
		v = model.Invalid
	case w > 50:
		v = model.Suspect
	default:
		v = model.Valid
	}
	return &v
}

// AssessTemperatureQuality derives the composite quality from the
// (possibly multi-character) temperature source-flag string and the
// temperature physical-validity assessment, using substring tests on
// the flag string.
func AssessTemperatureQuality(r *model.WeatherRecord) model.DataQuality {
	return assess(r.TempQuality, r.TempValidation, true)
}

// AssessPrecipitationQuality derives the composite quality for
// precipitation, using an exact single-character flag test.
func AssessPrecipitationQuality(r *model.WeatherRecord) model.DataQuality {
	return assess(r.PrecipQuality, r.PrecipValidation, false)
}

// AssessWindQuality derives the composite quality for wind speed,
// using an exact single-character flag test.
func AssessWindQuality(r *model.WeatherRecord) model.DataQuality {
	return assess(r.WindQuality, r.WindValidation, false)
}

// assess implements the composite-quality lookup table. When substring is true, the
// flag is treated as a multi-character deduplicated set (temperature);
// otherwise the flag must match the single character exactly
// (precipitation, wind).
func assess(flag *string, validity *model.PhysicalValidity, substring bool) model.DataQuality {
	hasChar := func(c byte) bool {
		if flag == nil {
			return false
		}
		if substring {
			return strings.IndexByte(*flag, c) >= 0
		}
		return *flag == string(c)
	}

	if hasChar('9') {
		return model.QualityMissing
	}
	if validity != nil && *validity == model.Invalid {
		return model.QualityInvalid
	}
	if hasChar('1') {
		if validity != nil && *validity == model.Suspect {
			return model.QualitySuspectBoth
		}
		return model.QualitySuspectOriginal
	}
	if validity != nil && *validity == model.Suspect {
		return model.QualitySuspectRange
	}
	return model.QualityValid
}

