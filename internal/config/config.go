// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"runtime"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/parquet"
	"github.com/skybound-data/ecad-pipeline/pkg/ecaderr"
	"github.com/skybound-data/ecad-pipeline/pkg/log"
)

// PipelineConfig is the JSON-decoded configuration for the ecad-pipeline
// CLI: how much to parallelize, where output goes, and how it is
// written.
type PipelineConfig struct {
	// ArchiveWorkers bounds concurrent archive-level ingest tasks.
	ArchiveWorkers int `json:"archive_workers"`
	// FileWorkers bounds concurrent per-metric-file parsing within one
	// archive.
	FileWorkers int `json:"file_workers"`
	// OutputDir is the local directory output files are written into;
	// it is created if missing.
	OutputDir string `json:"output_dir"`
	// RowGroupSize overrides parquet.DefaultRowGroupSize.
	RowGroupSize int `json:"row_group_size"`
	// Compression selects the parquet codec: "snappy", "gzip", "lz4",
	// "zstd", or "none".
	Compression string `json:"compression"`
	// StationFilter, if set, restricts a merged (-archives) run to one
	// station id; a single-archive (-archive) run does not apply it.
	StationFilter *uint32 `json:"station_filter,omitempty"`
	// UseMmap selects the memory-mapped metric-file reader.
	UseMmap bool `json:"use_mmap"`
	// OutputStem overrides the default output filename stem
	// ("ecad-weather" / "ecad-weather-unified").
	OutputStem string `json:"output_stem,omitempty"`
	// S3, if set, routes output to an S3-compatible object store
	// instead of the local output directory.
	S3 *parquet.S3TargetConfig `json:"s3,omitempty"`
}

// Keys holds the active configuration, with conservative defaults that
// apply when no config file is given.
var Keys PipelineConfig = PipelineConfig{
	ArchiveWorkers: runtime.NumCPU(),
	FileWorkers:    runtime.NumCPU(),
	OutputDir:      "./output",
	RowGroupSize:   parquet.DefaultRowGroupSize,
	Compression:    "zstd",
	UseMmap:        false,
}

// Init loads and decodes flagConfigFile into Keys, if present. A
// missing file is not an error: the defaults above are used as-is.
func Init(flagConfigFile string) error {
	raw, err := os.ReadFile(flagConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ecaderr.Wrap(ecaderr.Config, "reading config file "+flagConfigFile, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&Keys); err != nil {
		return ecaderr.Wrap(ecaderr.Config, "decoding config file "+flagConfigFile, err)
	}

	if Keys.ArchiveWorkers <= 0 || Keys.FileWorkers <= 0 {
		return ecaderr.New(ecaderr.Config, "archive_workers and file_workers must be positive")
	}
	if _, ok := ParseCompression(Keys.Compression); !ok {
		return ecaderr.New(ecaderr.Config, "unrecognized compression codec: "+Keys.Compression)
	}

	log.Infof("config: loaded %s (archive_workers=%d file_workers=%d compression=%s)",
		flagConfigFile, Keys.ArchiveWorkers, Keys.FileWorkers, Keys.Compression)
	return nil
}

// ParseCompression maps a config string to a parquet.Compression.
func ParseCompression(s string) (parquet.Compression, bool) {
	switch s {
	case "", "none":
		return parquet.CompressionNone, true
	case "snappy":
		return parquet.CompressionSnappy, true
	case "gzip":
		return parquet.CompressionGzip, true
	case "lz4":
		return parquet.CompressionLZ4, true
	case "zstd":
		return parquet.CompressionZstd, true
	default:
		return parquet.CompressionNone, false
	}
}
