// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package parquet writes unified WeatherRecord rows to columnar
// parquet files, either on the local filesystem or in an
// S3-compatible object store.
package parquet

// WeatherRecordRow is the 16-column output schema: one row per
// (station_id, date), every metric/quality/validation column nullable
// via the "optional" parquet tag since a record need not carry every
// metric family.
type WeatherRecordRow struct {
	StationID   int64   `parquet:"station_id"`
	StationName string  `parquet:"station_name"`
	Date        int64   `parquet:"date"`
	Latitude    float64 `parquet:"latitude"`
	Longitude   float64 `parquet:"longitude"`

	TempMin *float32 `parquet:"temp_min,optional"`
	TempMax *float32 `parquet:"temp_max,optional"`
	TempAvg *float32 `parquet:"temp_avg,optional"`

	Precipitation *float32 `parquet:"precipitation,optional"`
	WindSpeed     *float32 `parquet:"wind_speed,optional"`

	TempQuality   *string `parquet:"temp_quality,optional"`
	PrecipQuality *string `parquet:"precip_quality,optional"`
	WindQuality   *string `parquet:"wind_quality,optional"`

	TempValidation   *string `parquet:"temp_validation,optional"`
	PrecipValidation *string `parquet:"precip_validation,optional"`
	WindValidation   *string `parquet:"wind_validation,optional"`
}

