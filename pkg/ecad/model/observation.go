// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package model

import "time"

// MetricObservation is one row of a per-metric per-station data file,
// materialized only transiently during parsing.
type MetricObservation struct {
	StationID  uint32
	SourceID   uint32
	Date       time.Time
	RawValue   int32 // units of 0.1 of the metric's unit; -9999 sentinel already filtered out by the parser
	SourceFlag uint8 // one of {0, 1, 9}
}

// Value converts the raw 0.1-scaled integer into the metric's natural
// unit (°C, mm, m/s).
func (o MetricObservation) Value() float32 {
	return float32(o.RawValue) / 10.0
}

