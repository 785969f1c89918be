// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package parquet

import (
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
)

// RecordToRow flattens a WeatherRecord into its columnar representation.
func RecordToRow(r *model.WeatherRecord) WeatherRecordRow {
	row := WeatherRecordRow{
		StationID:   int64(r.StationID),
		StationName: r.StationName,
		Date:        r.Date.Unix(),
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,

		TempMin:       r.TempMin,
		TempMax:       r.TempMax,
		TempAvg:       r.TempAvg,
		Precipitation: r.Precipitation,
		WindSpeed:     r.WindSpeed,

		TempQuality:   r.TempQuality,
		PrecipQuality: r.PrecipQuality,
		WindQuality:   r.WindQuality,
	}

	row.TempValidation = validityString(r.TempValidation)
	row.PrecipValidation = validityString(r.PrecipValidation)
	row.WindValidation = validityString(r.WindValidation)
	return row
}

func validityString(v *model.PhysicalValidity) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

