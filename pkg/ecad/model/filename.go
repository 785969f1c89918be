// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package model

import (
	"strconv"
	"strings"
)

// ParseDataFileName recognizes the ECAD per-metric data file naming
// convention "{PREFIX}_STAID{ID}.txt" and returns the WeatherMetric it
// encodes.
func ParseDataFileName(fileName string) (WeatherMetric, bool) {
	if !strings.HasSuffix(fileName, ".txt") {
		return WeatherMetric{}, false
	}
	nameWithoutExt := fileName[:len(fileName)-4]

	pos := strings.Index(nameWithoutExt, "_STAID")
	if pos < 0 {
		return WeatherMetric{}, false
	}
	return FromFilePrefix(nameWithoutExt[:pos])
}

// ExtractStationIDFromFilename pulls the zero-stripped station id out
// of a name like "TX_STAID000257.txt".
func ExtractStationIDFromFilename(fileName string) (uint32, bool) {
	start := strings.Index(fileName, "STAID")
	if start < 0 {
		return 0, false
	}
	afterStaid := fileName[start+5:]
	end := strings.IndexByte(afterStaid, '.')
	if end < 0 {
		return 0, false
	}
	idStr := strings.TrimLeft(afterStaid[:end], "0")
	if idStr == "" {
		return 0, true // an all-zero id, e.g. "STAID000000", is valid and parses to 0
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}

