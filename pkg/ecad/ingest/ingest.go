// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ingest extracts one ECAD bulk archive and turns its
// per-metric files into a unified set of WeatherRecord rows plus an
// integrity report.
package ingest

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/catalog"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/integrity"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/parse"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/quality"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/workerpool"
	"github.com/skybound-data/ecad-pipeline/pkg/ecaderr"
	"github.com/skybound-data/ecad-pipeline/pkg/log"
)

// Options controls Process's extraction and concurrency behavior.
type Options struct {
	// Workers bounds the number of goroutines used to parse per-metric
	// files concurrently. <= 0 means runtime.NumCPU().
	Workers int
	// UseMmap selects the memory-mapped reader over the buffered one.
	UseMmap bool
}

// Result is the output of processing one archive.
type Result struct {
	Records []model.WeatherRecord
	Report  *model.IntegrityReport
}

// Process extracts zipPath to a scratch directory, parses every
// per-station metric file it contains, joins them by (station_id,
// date), runs physical validation, and computes an integrity report.
// The scratch directory is always removed before returning.
func Process(zipPath string, opts Options) (*Result, error) {
	scratchDir, err := os.MkdirTemp("", "ecad-ingest-*")
	if err != nil {
		return nil, ecaderr.Wrap(ecaderr.IO, "creating scratch directory", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratchDir); rmErr != nil {
			log.Warnf("ingest: failed to clean up scratch dir %s: %s", scratchDir, rmErr.Error())
		}
	}()

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, ecaderr.Wrap(ecaderr.IO, "opening archive "+zipPath, err)
	}
	defer reader.Close()

	stations, dataFiles, err := extract(&reader.Reader, scratchDir)
	if err != nil {
		return nil, err
	}
	if len(dataFiles) == 0 {
		return nil, ecaderr.New(ecaderr.InvalidFormat, "archive contains no recognized per-station data files")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	parseOne := func(f extractedFile) (fileResult, error) {
		var observations []model.MetricObservation
		var err error
		if opts.UseMmap {
			observations, err = parse.ReadMmap(f.path, f.stationID)
		} else {
			fh, openErr := os.Open(f.path)
			if openErr != nil {
				return fileResult{}, ecaderr.Wrap(ecaderr.IO, "opening "+f.path, openErr)
			}
			defer fh.Close()
			observations, err = parse.ReadBuffered(fh, f.stationID)
		}
		if err != nil {
			return fileResult{}, err
		}
		return fileResult{metric: f.metric, stationID: f.stationID, observations: observations}, nil
	}

	results, errs := workerpool.Run(workers, dataFiles, parseOne)
	parsed := make([]fileResult, 0, len(results))
	for i, err := range errs {
		if err != nil {
			log.Warnf("ingest: skipping unreadable data file %s: %s", dataFiles[i].path, err.Error())
			continue
		}
		parsed = append(parsed, results[i])
	}

	records := mergeObservations(parsed, stations)

	recordSlice := make([]model.WeatherRecord, 0, len(records))
	for _, r := range records {
		recordSlice = append(recordSlice, *r)
	}
	sort.Slice(recordSlice, func(i, j int) bool {
		if recordSlice[i].StationID != recordSlice[j].StationID {
			return recordSlice[i].StationID < recordSlice[j].StationID
		}
		return recordSlice[i].Date.Before(recordSlice[j].Date)
	})

	report := integrity.ComputeReport(recordSlice)

	return &Result{Records: recordSlice, Report: report}, nil
}

type fileResult struct {
	metric       model.WeatherMetric
	stationID    uint32
	observations []model.MetricObservation
}

// mergeObservations folds parsed per-file observations into
// (station_id, date)-keyed records, accumulating the quality string
// for temperature sub-metrics (one character per TN/TX/TG file that
// contributed, deduplicated) and running physical validation once a
// record's metric slots are fully populated.
func mergeObservations(results []fileResult, stations map[uint32]model.StationMetadata) map[recordKey]*model.WeatherRecord {
	records := make(map[recordKey]*model.WeatherRecord)

	for _, fr := range results {
		station, ok := stations[fr.stationID]
		if !ok {
			log.Warnf("ingest: station %d referenced by a data file is absent from stations.txt, skipping its observations", fr.stationID)
			continue
		}

		for _, obs := range fr.observations {
			key := recordKey{stationID: fr.stationID, date: obs.Date}
			rec, ok := records[key]
			if !ok {
				rec = &model.WeatherRecord{
					StationID:   station.StationID,
					StationName: station.Name,
					Date:        obs.Date,
					Latitude:    station.Latitude,
					Longitude:   station.Longitude,
				}
				records[key] = rec
			}

			value := obs.Value()
			flagChar := strconv.Itoa(int(obs.SourceFlag))

			switch fr.metric.Kind {
			case model.MetricTemperature:
				switch fr.metric.TempSub {
				case model.TemperatureMinimum:
					rec.TempMin = &value
				case model.TemperatureMaximum:
					rec.TempMax = &value
				case model.TemperatureAverage:
					rec.TempAvg = &value
				}
				rec.TempQuality = appendFlagChar(rec.TempQuality, flagChar)
			case model.MetricPrecipitation:
				rec.Precipitation = &value
				flag := flagChar
				rec.PrecipQuality = &flag
			case model.MetricWindSpeed:
				rec.WindSpeed = &value
				flag := flagChar
				rec.WindQuality = &flag
			}
		}
	}

	for _, rec := range records {
		quality.PerformPhysicalValidation(rec)
	}

	return records
}

type recordKey struct {
	stationID uint32
	date      time.Time
}

type extractedFile struct {
	path      string
	metric    model.WeatherMetric
	stationID uint32
}

// extract writes every recognized per-station data file member to
// scratchDir and parses stations.txt directly from the archive,
// returning the station lookup table and the list of extracted data
// files.
func extract(r *zip.Reader, scratchDir string) (map[uint32]model.StationMetadata, []extractedFile, error) {
	var dataFiles []extractedFile
	var stationsEntry *zip.File

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := baseName(f.Name)
		if base == "stations.txt" {
			stationsEntry = f
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

		dest := filepath.Join(scratchDir, base)
		if err := extractEntry(f, dest); err != nil {
			return nil, nil, err
		}
		dataFiles = append(dataFiles, extractedFile{path: dest, metric: metric, stationID: stationID})
	}

	if stationsEntry == nil {
		return nil, nil, ecaderr.New(ecaderr.InvalidFormat, "archive has no stations.txt")
	}
	rc, err := stationsEntry.Open()
	if err != nil {
		return nil, nil, ecaderr.Wrap(ecaderr.IO, "opening stations.txt", err)
	}
	defer rc.Close()
	stations, err := catalog.ReadStationsMap(rc)
	if err != nil {
		return nil, nil, err
	}

	return stations, dataFiles, nil
}

func extractEntry(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return ecaderr.Wrap(ecaderr.IO, "opening "+f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return ecaderr.Wrap(ecaderr.IO, "creating "+dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return ecaderr.Wrap(ecaderr.IO, "extracting "+f.Name, err)
	}
	return nil
}

func baseName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func appendFlagChar(existing *string, flagChar string) *string {
	if existing == nil {
		v := flagChar
		return &v
	}
	if strings.Contains(*existing, flagChar) {
		return existing
	}
	v := *existing + flagChar
	return &v
}

