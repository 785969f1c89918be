// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package parquet

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
)

// reportManifest is what WriteReport serializes alongside a parquet
// output file: enough for a downstream consumer to judge data quality
// without re-scanning the parquet file itself.
type reportManifest struct {
	Report      *model.IntegrityReport     `json:"integrity_report"`
	Composition *model.DatasetComposition  `json:"dataset_composition,omitempty"`
}

// WriteReport serializes report (and, for a merged run, composition)
// as zstd-compressed JSON and writes it to target under
// "{stem}-{date}.report.json.zst". Unlike the row data itself, this
// manifest is small enough that a single compressed blob (rather than
// parquet's columnar layout) is the simpler fit, so
// klauspost/compress/zstd is used directly here rather than a parquet
// writer.
func WriteReport(target ParquetTarget, stem Stem, date string, report *model.IntegrityReport, composition *model.DatasetComposition) error {
	manifest := reportManifest{Report: report, Composition: composition}

	raw, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshal integrity report: %w", err)
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return fmt.Errorf("compress integrity report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize zstd stream: %w", err)
	}

	fileName := fmt.Sprintf("%s-%s.report.json.zst", stem, date)
	if err := target.WriteFile(fileName, buf.Bytes()); err != nil {
		return fmt.Errorf("write report file %q: %w", fileName, err)
	}
	return nil
}

