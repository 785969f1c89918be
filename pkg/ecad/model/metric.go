// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package model holds the shared domain types of the ECAD ingestion
// pipeline: the closed WeatherMetric variant, station metadata, the
// unified WeatherRecord, the quality enumerations, and the report
// types produced along the way. These are deliberately gathered in one
// package so every stage (parsing, validation, merging, writing)
// shares a single vocabulary without importing each other.
package model

// TemperatureType distinguishes the three ECAD temperature series.
type TemperatureType int

const (
	TemperatureMinimum TemperatureType = iota
	TemperatureMaximum
	TemperatureAverage
)

func (t TemperatureType) String() string {
	switch t {
	case TemperatureMinimum:
		return "Min"
	case TemperatureMaximum:
		return "Max"
	case TemperatureAverage:
		return "Avg"
	default:
		return "Unknown"
	}
}

// MetricKind is the closed tag of the WeatherMetric variant.
type MetricKind int

const (
	MetricTemperature MetricKind = iota
	MetricPrecipitation
	MetricWindSpeed
)

// WeatherMetric is the fixed tagged union {Temperature(min|max|avg),
// Precipitation, WindSpeed} the ECAD file-prefix table maps onto. It
// is deliberately closed: callers switch on Kind, never extend it.
type WeatherMetric struct {
	Kind    MetricKind
	TempSub TemperatureType // only meaningful when Kind == MetricTemperature
}

func Temperature(sub TemperatureType) WeatherMetric {
	return WeatherMetric{Kind: MetricTemperature, TempSub: sub}
}

var (
	Precipitation = WeatherMetric{Kind: MetricPrecipitation}
	WindSpeed     = WeatherMetric{Kind: MetricWindSpeed}
)

func (m WeatherMetric) String() string {
	switch m.Kind {
	case MetricTemperature:
		return "Temperature (" + m.TempSub.String() + ")"
	case MetricPrecipitation:
		return "Precipitation"
	case MetricWindSpeed:
		return "WindSpeed"
	default:
		return "Unknown"
	}
}

// DisplayName is the human-readable metric name used by
// diagnostic/summary output.
func (m WeatherMetric) DisplayName() string {
	return m.String()
}

// Units reports the physical unit of the metric, for summary display.
func (m WeatherMetric) Units() string {
	switch m.Kind {
	case MetricTemperature:
		return "°C"
	case MetricPrecipitation:
		return "mm"
	case MetricWindSpeed:
		return "m/s"
	default:
		return ""
	}
}

// ToFilePrefix returns the ECAD two-letter file prefix for this metric.
func (m WeatherMetric) ToFilePrefix() string {
	switch m.Kind {
	case MetricTemperature:
		switch m.TempSub {
		case TemperatureMinimum:
			return "TN"
		case TemperatureMaximum:
			return "TX"
		case TemperatureAverage:
			return "TG"
		}
	case MetricPrecipitation:
		return "RR"
	case MetricWindSpeed:
		return "FG"
	}
	return ""
}

// FromFilePrefix maps an ECAD file prefix to its WeatherMetric, the
// inverse of ToFilePrefix. The second return value is false for any
// prefix outside {TN, TX, TG, RR, FG}.
func FromFilePrefix(prefix string) (WeatherMetric, bool) {
	switch prefix {
	case "TN":
		return Temperature(TemperatureMinimum), true
	case "TX":
		return Temperature(TemperatureMaximum), true
	case "TG":
		return Temperature(TemperatureAverage), true
	case "RR":
		return Precipitation, true
	case "FG":
		return WindSpeed, true
	default:
		return WeatherMetric{}, false
	}
}

