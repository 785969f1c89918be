// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package merge combines weather records from a directory of ECAD
// archives into one unified dataset, dispatching one ingest task per
// archive across a bounded pool with first-error-cancels-all semantics.
package merge

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/archive"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/ingest"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/integrity"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/quality"
	"github.com/skybound-data/ecad-pipeline/pkg/ecaderr"
	"github.com/skybound-data/ecad-pipeline/pkg/log"
)

// Options controls archive discovery, concurrency, and filtering.
type Options struct {
	// ArchiveWorkers bounds concurrent archive-level ingest tasks.
	// <= 0 means runtime.NumCPU().
	ArchiveWorkers int
	// NameFilter, if non-empty, restricts the scan to archives whose
	// filename contains this substring.
	NameFilter string
	// StationFilter, if non-nil, restricts the merged dataset to one
	// station id.
	StationFilter *uint32
	IngestOptions ingest.Options
}

// Result is the output of merging an entire archive directory.
type Result struct {
	Records     []model.WeatherRecord
	Report      *model.IntegrityReport
	Composition model.DatasetComposition
}

// Merge scans dir for *.zip archives, ingests each, and joins the
// results by (station_id, date) with last-non-absent-wins semantics.
func Merge(ctx context.Context, dir string, opts Options) (*Result, error) {
	candidates, err := discoverArchives(dir, opts.NameFilter)
	if err != nil {
		return nil, err
	}

	// Archives that fail inspection are dropped from the run with a
	// warning; they never reach the ingest stage.
	archivePaths := make([]string, 0, len(candidates))
	for _, path := range candidates {
		if _, err := archive.Inspect(path); err != nil {
			log.Warnf("merge: dropping archive %s: %s", path, err.Error())
			continue
		}
		archivePaths = append(archivePaths, path)
	}
	if len(archivePaths) == 0 {
		return nil, ecaderr.New(ecaderr.InvalidFormat, "no matching archives found in "+dir)
	}

	workers := opts.ArchiveWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	// Results are slotted by archive index so that "last non-absent
	// wins" resolves in archive enumeration order regardless of task
	// completion order: reruns over the same directory produce the same
	// winner for every conflicting slot.
	results := make([]*ingest.Result, len(archivePaths))

	for i, path := range archivePaths {
		i, path := i, path
		group.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			result, err := ingest.Process(path, opts.IngestOptions)
			if err != nil {
				return ecaderr.Wrap(ecaderr.IO, "processing archive "+path, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, ecaderr.Wrap(ecaderr.TaskJoin, "merging archives", err)
	}

	merged, err := mergeRecords(results, opts.StationFilter)
	if err != nil {
		return nil, err
	}

	for i := range merged {
		quality.PerformPhysicalValidation(&merged[i])
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].StationID != merged[j].StationID {
			return merged[i].StationID < merged[j].StationID
		}
		return merged[i].Date.Before(merged[j].Date)
	})

	reports := make([]*model.IntegrityReport, 0, len(results))
	for _, r := range results {
		reports = append(reports, r.Report)
	}
	combinedReport := integrity.CombineReports(reports)

	return &Result{
		Records:     merged,
		Report:      combinedReport,
		Composition: computeComposition(merged),
	}, nil
}

func discoverArchives(dir, nameFilter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ecaderr.Wrap(ecaderr.IO, "reading archive directory "+dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		if nameFilter != "" && !strings.Contains(e.Name(), nameFilter) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

type recordKey struct {
	stationID uint32
	date      int64
}

// mergeRecords joins records from every archive by (station_id, date).
// For an overlapping key, each metric slot is resolved independently:
// the later archive's value wins only if it is non-absent, otherwise
// the earlier archive's value is kept ("last non-absent wins"). A key
// present in more than one archive with a mismatched station name or
// coordinates is a structural error, since it means two archives
// disagree about which station a given id refers to.
func mergeRecords(results []*ingest.Result, stationFilter *uint32) ([]model.WeatherRecord, error) {
	merged := make(map[recordKey]*model.WeatherRecord)

	for _, result := range results {
		for _, rec := range result.Records {
			if stationFilter != nil && rec.StationID != *stationFilter {
				continue
			}
			key := recordKey{stationID: rec.StationID, date: rec.Date.Unix()}
			existing, ok := merged[key]
			if !ok {
				copyRec := rec
				merged[key] = &copyRec
				continue
			}
			if existing.StationName != rec.StationName || existing.Latitude != rec.Latitude || existing.Longitude != rec.Longitude {
				return nil, ecaderr.New(ecaderr.InvalidFormat,
					"conflicting station metadata for station_id "+strconv.FormatUint(uint64(rec.StationID), 10)+" across archives")
			}
			mergeInto(existing, rec)
		}
	}

	out := make([]model.WeatherRecord, 0, len(merged))
	for _, rec := range merged {
		out = append(out, *rec)
	}
	return out, nil
}

func mergeInto(dst *model.WeatherRecord, src model.WeatherRecord) {
	if src.TempMin != nil {
		dst.TempMin = src.TempMin
	}
	if src.TempMax != nil {
		dst.TempMax = src.TempMax
	}
	if src.TempAvg != nil {
		dst.TempAvg = src.TempAvg
	}
	if src.Precipitation != nil {
		dst.Precipitation = src.Precipitation
	}
	if src.WindSpeed != nil {
		dst.WindSpeed = src.WindSpeed
	}
	if src.TempQuality != nil {
		dst.TempQuality = src.TempQuality
	}
	if src.PrecipQuality != nil {
		dst.PrecipQuality = src.PrecipQuality
	}
	if src.WindQuality != nil {
		dst.WindQuality = src.WindQuality
	}
}

func computeComposition(records []model.WeatherRecord) model.DatasetComposition {
	comp := model.DatasetComposition{TotalRecords: len(records)}
	metricSeen := map[string]bool{}
	for _, r := range records {
		if r.HasTemperatureData() {
			comp.RecordsWithTemperature++
			metricSeen["temperature"] = true
		}
		if r.HasPrecipitation() {
			comp.RecordsWithPrecipitation++
			metricSeen["precipitation"] = true
		}
		if r.HasWindSpeed() {
			comp.RecordsWithWindSpeed++
			metricSeen["wind_speed"] = true
		}
	}
	for _, m := range []string{"temperature", "precipitation", "wind_speed"} {
		if metricSeen[m] {
			comp.AvailableMetrics = append(comp.AvailableMetrics, m)
		}
	}
	return comp
}

