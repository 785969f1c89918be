// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package model

import (
	"time"

	"github.com/skybound-data/ecad-pipeline/pkg/ecaderr"
)

// WeatherRecordBuilder is a fluent builder for WeatherRecord for
// callers assembling records outside the archive processor (which
// fills in struct literals from the station catalog directly), such as
// tests constructing fixtures without the full field list of a struct
// literal.
type WeatherRecordBuilder struct {
	rec       WeatherRecord
	haveID    bool
	haveName  bool
	haveDate  bool
	haveCoord bool
}

func NewWeatherRecordBuilder() *WeatherRecordBuilder {
	return &WeatherRecordBuilder{}
}

func (b *WeatherRecordBuilder) StationID(id uint32) *WeatherRecordBuilder {
	b.rec.StationID = id
	b.haveID = true
	return b
}

func (b *WeatherRecordBuilder) StationName(name string) *WeatherRecordBuilder {
	b.rec.StationName = name
	b.haveName = true
	return b
}

func (b *WeatherRecordBuilder) Date(d time.Time) *WeatherRecordBuilder {
	b.rec.Date = d
	b.haveDate = true
	return b
}

func (b *WeatherRecordBuilder) Coordinates(lat, lon float64) *WeatherRecordBuilder {
	b.rec.Latitude = lat
	b.rec.Longitude = lon
	b.haveCoord = true
	return b
}

func (b *WeatherRecordBuilder) TempMin(v float32) *WeatherRecordBuilder {
	b.rec.TempMin = &v
	return b
}

func (b *WeatherRecordBuilder) TempMax(v float32) *WeatherRecordBuilder {
	b.rec.TempMax = &v
	return b
}

func (b *WeatherRecordBuilder) TempAvg(v float32) *WeatherRecordBuilder {
	b.rec.TempAvg = &v
	return b
}

func (b *WeatherRecordBuilder) Temperatures(min, avg, max float32) *WeatherRecordBuilder {
	b.rec.TempMin = &min
	b.rec.TempAvg = &avg
	b.rec.TempMax = &max
	return b
}

func (b *WeatherRecordBuilder) Precipitation(v float32) *WeatherRecordBuilder {
	b.rec.Precipitation = &v
	return b
}

func (b *WeatherRecordBuilder) WindSpeed(v float32) *WeatherRecordBuilder {
	b.rec.WindSpeed = &v
	return b
}

func (b *WeatherRecordBuilder) TempQuality(q string) *WeatherRecordBuilder {
	b.rec.TempQuality = &q
	return b
}

func (b *WeatherRecordBuilder) PrecipQuality(q string) *WeatherRecordBuilder {
	b.rec.PrecipQuality = &q
	return b
}

func (b *WeatherRecordBuilder) WindQuality(q string) *WeatherRecordBuilder {
	b.rec.WindQuality = &q
	return b
}

// Build finalizes the record, requiring station_id, station_name,
// date, and coordinates to have been set.
func (b *WeatherRecordBuilder) Build() (WeatherRecord, error) {
	if !b.haveID {
		return WeatherRecord{}, ecaderr.New(ecaderr.MissingData, "station_id")
	}
	if !b.haveName {
		return WeatherRecord{}, ecaderr.New(ecaderr.MissingData, "station_name")
	}
	if !b.haveDate {
		return WeatherRecord{}, ecaderr.New(ecaderr.MissingData, "date")
	}
	if !b.haveCoord {
		return WeatherRecord{}, ecaderr.New(ecaderr.MissingData, "coordinates")
	}
	if err := b.rec.ValidateRelationships(); err != nil {
		return WeatherRecord{}, err
	}
	return b.rec, nil
}

