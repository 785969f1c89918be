// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package parse reads one ECAD per-metric per-station data file into
// a sequence of model.MetricObservation, via either a buffered reader
// or a memory-mapped reader. Both must produce identical sequences for
// the same input.
package parse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/mmap"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
	"github.com/skybound-data/ecad-pipeline/pkg/ecaderr"
)

// headerLines is the number of leading banner/header lines every ECAD
// data file carries before the first data row.
const headerLines = 20

// dateLayout is ECAD's YYYYMMDD date encoding.
const dateLayout = "20060102"

// ReadBuffered parses a per-metric file via a buffered line reader.
func ReadBuffered(r io.Reader, stationID uint32) ([]model.MetricObservation, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var observations []model.MetricObservation
	lineCount := 0
	for scanner.Scan() {
		lineCount++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if lineCount <= headerLines {
			continue
		}
		obs, ok := parseDataLine(line, stationID)
		if ok {
			observations = append(observations, obs)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, ecaderr.Wrap(ecaderr.IO, "reading metric data file", err)
	}
	return observations, nil
}

// ReadMmap parses a per-metric file by memory-mapping it via
// golang.org/x/exp/mmap, for large archives where avoiding a full
// buffered copy matters. It must agree byte-for-byte with ReadBuffered.
func ReadMmap(path string, stationID uint32) ([]model.MetricObservation, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, ecaderr.Wrap(ecaderr.IO, "mmap open", err)
	}
	defer reader.Close()

	content := make([]byte, reader.Len())
	if _, err := reader.ReadAt(content, 0); err != nil && err != io.EOF {
		return nil, ecaderr.Wrap(ecaderr.IO, "mmap read", err)
	}

	var observations []model.MetricObservation
	lineCount := 0
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		lineCount++
		if strings.TrimSpace(line) == "" {
			continue
		}
		if lineCount <= headerLines {
			continue
		}
		obs, ok := parseDataLine(line, stationID)
		if ok {
			observations = append(observations, obs)
		}
	}
	return observations, nil
}

// parseDataLine applies the row rejection rules to one "SOUID, DATE,
// VALUE, Q_FLAG" row. It returns ok=false for malformed rows and for
// the -9999 missing-value sentinel, neither of which is an error: they
// are simply skipped.
func parseDataLine(line string, stationID uint32) (model.MetricObservation, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return model.MetricObservation{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	sourceID, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return model.MetricObservation{}, false
	}

	date, err := time.Parse(dateLayout, parts[1])
	if err != nil {
		return model.MetricObservation{}, false
	}

	rawValue, err := strconv.ParseInt(parts[2], 10, 32)
	if err != nil {
		return model.MetricObservation{}, false
	}
	if rawValue == -9999 {
		return model.MetricObservation{}, false
	}

	flag, err := strconv.ParseUint(parts[3], 10, 8)
	if err != nil {
		return model.MetricObservation{}, false
	}
	switch flag {
	case 0, 1, 9:
	default:
		return model.MetricObservation{}, false
	}

	return model.MetricObservation{
		StationID:  stationID,
		SourceID:   uint32(sourceID),
		Date:       date,
		RawValue:   int32(rawValue),
		SourceFlag: uint8(flag),
	}, true
}

