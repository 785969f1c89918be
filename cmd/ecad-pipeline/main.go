// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skybound-data/ecad-pipeline/internal/config"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/archive"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/ingest"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/merge"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/parquet"
	"github.com/skybound-data/ecad-pipeline/pkg/log"
)

func main() {
	var archiveDir, archivePath, flagConfigFile, nameFilter string
	var logLevel string
	var dryRun bool

	flag.StringVar(&archiveDir, "archives", "", "Directory of ECAD *.zip archives to merge")
	flag.StringVar(&archivePath, "archive", "", "A single ECAD *.zip archive to process (mutually exclusive with -archives)")
	flag.StringVar(&flagConfigFile, "config", "./config.json", "Path to the pipeline's JSON config file")
	flag.StringVar(&nameFilter, "filter", "", "Restrict -archives to filenames containing this substring")
	flag.StringVar(&logLevel, "loglevel", "info", "Log level: debug, info, warn, err")
	flag.BoolVar(&dryRun, "dry-run", false, "Inspect matching archives and print their summary instead of writing output")
	flag.Parse()

	log.SetLogLevel(logLevel)

	if archiveDir == "" && archivePath == "" {
		log.Fatal("one of -archives or -archive is required")
	}
	if archiveDir != "" && archivePath != "" {
		log.Fatal("-archives and -archive are mutually exclusive")
	}

	if err := config.Init(flagConfigFile); err != nil {
		log.Fatal(err)
	}

	if dryRun {
		runDryRun(archiveDir, archivePath, nameFilter)
		return
	}

	compression, _ := config.ParseCompression(config.Keys.Compression)
	target, err := newTarget()
	if err != nil {
		log.Fatal(err)
	}

	date := time.Now().Format("060102")
	ctx := context.Background()

	if archivePath != "" {
		runSingle(ctx, archivePath, target, compression, date)
		return
	}
	runMerge(ctx, archiveDir, nameFilter, target, compression, date)
}

func newTarget() (parquet.ParquetTarget, error) {
	if config.Keys.S3 != nil {
		return parquet.NewS3Target(*config.Keys.S3)
	}
	return parquet.NewFileTarget(config.Keys.OutputDir)
}

// outputStem applies the configured filename-stem override, if any.
func outputStem(def parquet.Stem) parquet.Stem {
	if config.Keys.OutputStem != "" {
		return parquet.Stem(config.Keys.OutputStem)
	}
	return def
}

func runSingle(ctx context.Context, archivePath string, target parquet.ParquetTarget, compression parquet.Compression, date string) {
	result, err := ingest.Process(archivePath, ingest.Options{
		Workers: config.Keys.FileWorkers,
		UseMmap: config.Keys.UseMmap,
	})
	if err != nil {
		log.Fatal(err)
	}

	stem := outputStem(parquet.StemSingle)
	w := parquet.NewWriter(target, stem, date, compression, config.Keys.RowGroupSize)
	if err := w.WriteRecords(result.Records); err != nil {
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}
	if err := parquet.WriteReport(target, stem, date, result.Report, nil); err != nil {
		log.Fatal(err)
	}

	log.Infof("ecad-pipeline: wrote %d records from %s (valid=%d suspect=%d invalid=%d missing=%d)",
		len(result.Records), archivePath,
		result.Report.ValidRecords, result.Report.SuspectRecords, result.Report.InvalidRecords, result.Report.MissingDataRecords)
}

func runMerge(ctx context.Context, archiveDir, nameFilter string, target parquet.ParquetTarget, compression parquet.Compression, date string) {
	opts := merge.Options{
		ArchiveWorkers: config.Keys.ArchiveWorkers,
		NameFilter:     nameFilter,
		IngestOptions: ingest.Options{
			Workers: config.Keys.FileWorkers,
			UseMmap: config.Keys.UseMmap,
		},
	}
	if config.Keys.StationFilter != nil {
		opts.StationFilter = config.Keys.StationFilter
	}

	result, err := merge.Merge(ctx, archiveDir, opts)
	if err != nil {
		log.Fatal(err)
	}

	stem := outputStem(parquet.StemUnified)
	w := parquet.NewWriter(target, stem, date, compression, config.Keys.RowGroupSize)
	if err := w.WriteRecords(result.Records); err != nil {
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}
	if err := parquet.WriteReport(target, stem, date, result.Report, &result.Composition); err != nil {
		log.Fatal(err)
	}

	log.Infof("ecad-pipeline: merged into %d records, metrics=%v",
		len(result.Records), result.Composition.AvailableMetrics)
}

// runDryRun inspects matching archives without extracting or writing
// any output, printing each ArchiveMetadata's DisplaySummary.
func runDryRun(archiveDir, archivePath, nameFilter string) {
	if archivePath != "" {
		printSummary(archivePath)
		return
	}

	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		if nameFilter != "" && !strings.Contains(e.Name(), nameFilter) {
			continue
		}
		printSummary(filepath.Join(archiveDir, e.Name()))
	}
}

func printSummary(path string) {
	meta, err := archive.Inspect(path)
	if err != nil {
		log.Warnf("ecad-pipeline: %s: %s", path, err.Error())
		return
	}
	fmt.Printf("%s:\n%s\n", path, meta.DisplaySummary())
}
