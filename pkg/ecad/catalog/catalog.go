// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package catalog parses the ECAD station and element metadata files
// into keyed lookup tables.
package catalog

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/coord"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
	"github.com/skybound-data/ecad-pipeline/pkg/ecaderr"
)

// ReadStations parses stations.txt: comma-separated rows
// `STAID, STANAME, CN, LAT, LON, HGHT`. Header/banner lines are
// skipped by the predicate "first non-space character is not a
// decimal digit".
func ReadStations(r io.Reader) ([]model.StationMetadata, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var stations []model.StationMetadata
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !startsWithDigit(line) {
			continue
		}
		station, ok, err := parseStationLine(line)
		if err != nil {
			return nil, err
		}
		if ok {
			stations = append(stations, station)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, ecaderr.Wrap(ecaderr.IO, "reading stations.txt", err)
	}
	return stations, nil
}

func startsWithDigit(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return false
	}
	c := trimmed[0]
	return c >= '0' && c <= '9'
}

func parseStationLine(line string) (model.StationMetadata, bool, error) {
	parts := splitTrim(line, ',')
	if len(parts) < 6 {
		return model.StationMetadata{}, false, nil
	}

	staid, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return model.StationMetadata{}, false, ecaderr.Wrap(ecaderr.InvalidFormat, "invalid station ID: '"+parts[0]+"'", err)
	}

	latitude, err := coord.ParseCoordinate(parts[3])
	if err != nil {
		return model.StationMetadata{}, false, err
	}
	longitude, err := coord.ParseCoordinate(parts[4])
	if err != nil {
		return model.StationMetadata{}, false, err
	}

	var elevation *int32
	if parts[5] != "" && parts[5] != "-999" {
		v, err := strconv.ParseInt(parts[5], 10, 32)
		if err != nil {
			return model.StationMetadata{}, false, ecaderr.Wrap(ecaderr.InvalidFormat, "invalid elevation: '"+parts[5]+"'", err)
		}
		v32 := int32(v)
		elevation = &v32
	}

	return model.StationMetadata{
		StationID: uint32(staid),
		Name:      parts[1],
		Country:   parts[2],
		Latitude:  latitude,
		Longitude: longitude,
		Elevation: elevation,
	}, true, nil
}

// ReadStationsMap is ReadStations keyed by StationID.
func ReadStationsMap(r io.Reader) (map[uint32]model.StationMetadata, error) {
	stations, err := ReadStations(r)
	if err != nil {
		return nil, err
	}
	m := make(map[uint32]model.StationMetadata, len(stations))
	for _, s := range stations {
		m[s.StationID] = s
	}
	return m, nil
}

// ReadElements parses elements.txt, extracting the metric implied by
// each element id's leading alphabetic run.
func ReadElements(r io.Reader) ([]model.WeatherMetric, error) {
	scanner := bufio.NewScanner(r)
	var metrics []model.WeatherMetric
	seen := map[model.WeatherMetric]bool{}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "ELEID") || strings.HasPrefix(trimmed, "---") {
			continue
		}
		if strings.Contains(trimmed, "EUROPEAN") || strings.Contains(trimmed, "Klein Tank") {
			continue
		}

		parts := splitTrim(line, ',')
		if len(parts) == 0 {
			continue
		}
		prefix := alphabeticPrefix(parts[0])
		metric, ok := model.FromFilePrefix(prefix)
		if !ok {
			continue
		}
		if !seen[metric] {
			seen[metric] = true
			metrics = append(metrics, metric)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, ecaderr.Wrap(ecaderr.IO, "reading elements.txt", err)
	}
	return metrics, nil
}

func alphabeticPrefix(s string) string {
	i := 0
	for i < len(s) && ((s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z')) {
		i++
	}
	return s[:i]
}

func splitTrim(line string, sep byte) []string {
	raw := strings.Split(line, string(sep))
	out := make([]string, len(raw))
	for i, p := range raw {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

