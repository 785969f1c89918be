// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package archive inspects an ECAD bulk zip archive without fully
// extracting it, producing a summary of what it contains.
package archive

import (
	"archive/zip"
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/catalog"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
	"github.com/skybound-data/ecad-pipeline/pkg/ecaderr"
	"github.com/skybound-data/ecad-pipeline/pkg/log"
)

// metadataFiles are the known auxiliary files carried in every bulk
// archive that are not per-station data files.
var metadataFiles = map[string]bool{
	"stations.txt": true,
	"elements.txt": true,
	"metadata.txt": true,
	"sources.txt":  true,
}

// maxSampleFiles and maxSampleLines bound the best-effort date-range
// scan so inspection stays cheap even for archives with thousands of
// per-station files.
const (
	maxSampleFiles  = 5
	maxSampleLines  = 100
	sampleSkipLines = 20
)

// Inspect opens the zip archive at zipPath and summarizes its
// contents: which metrics it carries, how many stations, and the
// approximate date range, without extracting data files to disk.
func Inspect(zipPath string) (*model.ArchiveMetadata, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, ecaderr.Wrap(ecaderr.IO, "opening archive "+zipPath, err)
	}
	defer r.Close()
	return inspect(&r.Reader)
}

func inspect(r *zip.Reader) (*model.ArchiveMetadata, error) {
	fileCounts := map[model.WeatherMetric]int{}
	stationIDs := map[uint32]bool{}
	var dataFiles []*zip.File
	var stationsFile *zip.File
	var elementsFile *zip.File

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := baseName(f.Name)
		if base == "stations.txt" {
			stationsFile = f
			continue
		}
		if base == "elements.txt" {
			elementsFile = f
			continue
		}
		if metadataFiles[base] {
			continue
		}

		metric, ok := model.ParseDataFileName(base)
		if !ok {
			continue
		}
		stationID, ok := model.ExtractStationIDFromFilename(base)
		if !ok {
			continue
		}
		fileCounts[metric]++
		stationIDs[stationID] = true
		dataFiles = append(dataFiles, f)
	}

	if len(dataFiles) == 0 {
		return nil, ecaderr.New(ecaderr.InvalidFormat, "archive contains no recognized per-station data files")
	}

	country, err := inspectCountry(stationsFile)
	if err != nil {
		return nil, err
	}

	if elementsFile != nil {
		if err := crossValidateElements(elementsFile, fileCounts); err != nil {
			log.Warnf("archive inspection: %s", err.Error())
		}
	}

	metrics := make([]model.WeatherMetric, 0, len(fileCounts))
	for m := range fileCounts {
		metrics = append(metrics, m)
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i].String() < metrics[j].String() })

	dateRange := estimateDateRange(dataFiles)

	total := 0
	for _, c := range fileCounts {
		total += c
	}

	return &model.ArchiveMetadata{
		Country:      country,
		Metrics:      metrics,
		StationCount: len(stationIDs),
		DateRange:    dateRange,
		FileCounts:   fileCounts,
		TotalFiles:   total,
	}, nil
}

func baseName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// inspectCountry reads stations.txt and reduces its per-station
// country codes to one deterministic value: the most frequent code,
// ties broken lexicographically, so the result does not depend on zip
// directory ordering.
func inspectCountry(stationsFile *zip.File) (string, error) {
	if stationsFile == nil {
		return "", ecaderr.New(ecaderr.InvalidFormat, "archive has no stations.txt")
	}
	rc, err := stationsFile.Open()
	if err != nil {
		return "", ecaderr.Wrap(ecaderr.IO, "opening stations.txt", err)
	}
	defer rc.Close()

	stations, err := catalog.ReadStations(rc)
	if err != nil {
		return "", err
	}

	counts := map[string]int{}
	for _, s := range stations {
		if s.Country == "" {
			continue
		}
		counts[s.Country]++
	}
	if len(counts) == 0 {
		return "", ecaderr.New(ecaderr.InvalidFormat, "stations.txt has no country codes")
	}

	best := ""
	bestCount := -1
	for code, count := range counts {
		if count > bestCount || (count == bestCount && code < best) {
			best = code
			bestCount = count
		}
	}
	return best, nil
}

// crossValidateElements compares the metrics declared in elements.txt
// against the metrics actually observed among the data files, and
// returns a descriptive error (logged as a warning by the caller, not
// fatal) on mismatch.
func crossValidateElements(elementsFile *zip.File, observed map[model.WeatherMetric]int) error {
	rc, err := elementsFile.Open()
	if err != nil {
		return ecaderr.Wrap(ecaderr.IO, "opening elements.txt", err)
	}
	defer rc.Close()

	declared, err := catalog.ReadElements(rc)
	if err != nil {
		return err
	}

	declaredSet := map[model.WeatherMetric]bool{}
	for _, m := range declared {
		declaredSet[m] = true
	}
	for m := range observed {
		if !declaredSet[m] {
			return ecaderr.New(ecaderr.InvalidFormat, "metric "+m.String()+" present in data files but not declared in elements.txt")
		}
	}
	return nil
}

// estimateDateRange samples at most maxSampleFiles data files, reading
// at most maxSampleLines data rows from each after skipping the leading
// banner, and returns the min/max date observed. It is best-effort: a
// file that fails to parse is simply skipped.
func estimateDateRange(dataFiles []*zip.File) *model.DateRange {
	var result *model.DateRange

	sampled := 0
	for _, f := range dataFiles {
		if sampled >= maxSampleFiles {
			break
		}
		sampled++

		rc, err := f.Open()
		if err != nil {
			continue
		}
		observeDates(rc, &result)
		rc.Close()
	}
	return result
}

func observeDates(r io.Reader, result **model.DateRange) {
	scanner := bufio.NewScanner(r)
	lineCount := 0
	dataLines := 0
	for scanner.Scan() && dataLines < maxSampleLines {
		lineCount++
		if lineCount <= sampleSkipLines {
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		dataLines++

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		dateStr := strings.TrimSpace(parts[1])
		if len(dateStr) != 8 {
			continue
		}
		if _, err := strconv.Atoi(dateStr); err != nil {
			continue
		}
		date, err := time.Parse("20060102", dateStr)
		if err != nil {
			continue
		}

		if *result == nil {
			*result = &model.DateRange{Start: date, End: date}
			continue
		}
		if date.Before((*result).Start) {
			(*result).Start = date
		}
		if date.After((*result).End) {
			(*result).End = date
		}
	}
}

