// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package parquet

import (
	"bytes"
	"fmt"

	pq "github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
	"github.com/skybound-data/ecad-pipeline/pkg/log"
)

// Compression selects the codec used for the output file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionSnappy
	CompressionGzip
	CompressionLZ4
	CompressionZstd
)

func (c Compression) extension() string {
	switch c {
	case CompressionSnappy:
		return "snappy.parquet"
	case CompressionGzip:
		return "gz.parquet"
	case CompressionLZ4:
		return "lz4.parquet"
	case CompressionZstd:
		return "zst.parquet"
	default:
		return "parquet"
	}
}

func (c Compression) codec() compress.Codec {
	switch c {
	case CompressionSnappy:
		return &pq.Snappy
	case CompressionGzip:
		return &pq.Gzip
	case CompressionLZ4:
		return &pq.Lz4Raw
	case CompressionZstd:
		return &pq.Zstd
	default:
		return &pq.Uncompressed
	}
}

// DefaultRowGroupSize is the number of rows buffered into one parquet
// row group before it is flushed into the file being built.
const DefaultRowGroupSize = 10_000

// Stem is the basename prefix of an output file, per the YYMMDD
// filename policy: "ecad-weather" for a single-archive run,
// "ecad-weather-unified" for a merged run. Callers may substitute
// their own.
type Stem string

const (
	StemSingle  Stem = "ecad-weather"
	StemUnified Stem = "ecad-weather-unified"
)

// Writer accumulates WeatherRecordRows into row groups of
// DefaultRowGroupSize (or a caller-supplied size) within a single
// parquet file. A flush ends one row group inside the still-open file
// rather than starting a new file, since the output filename policy
// calls for exactly one file per run.
type Writer struct {
	target      ParquetTarget
	compression Compression
	rowGroup    int
	fileName    string

	buf      *bytes.Buffer
	pqWriter *pq.GenericWriter[WeatherRecordRow]
	pending  []WeatherRecordRow
	rowCount int
}

// NewWriter creates a Writer that will produce a file named
// "{stem}-{YYMMDD}.{ext}" once Close is called. rowGroupSize <= 0
// defaults to DefaultRowGroupSize.
func NewWriter(target ParquetTarget, stem Stem, date string, compression Compression, rowGroupSize int) *Writer {
	if rowGroupSize <= 0 {
		rowGroupSize = DefaultRowGroupSize
	}
	buf := &bytes.Buffer{}
	pqWriter := pq.NewGenericWriter[WeatherRecordRow](buf,
		pq.Compression(compression.codec()),
		pq.SortingWriterConfig(pq.SortingColumns(
			pq.Ascending("station_id"),
			pq.Ascending("date"),
		)),
	)
	return &Writer{
		target:      target,
		compression: compression,
		rowGroup:    rowGroupSize,
		fileName:    fmt.Sprintf("%s-%s.%s", stem, date, compression.extension()),
		buf:         buf,
		pqWriter:    pqWriter,
	}
}

// WriteRecord adds one record, closing out the current row group once
// rowGroup rows have accumulated.
func (w *Writer) WriteRecord(r *model.WeatherRecord) error {
	w.pending = append(w.pending, RecordToRow(r))
	if len(w.pending) >= w.rowGroup {
		return w.flushRowGroup()
	}
	return nil
}

// WriteRecords adds every record in records.
func (w *Writer) WriteRecords(records []model.WeatherRecord) error {
	for i := range records {
		if err := w.WriteRecord(&records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) flushRowGroup() error {
	if len(w.pending) == 0 {
		return nil
	}
	if _, err := w.pqWriter.Write(w.pending); err != nil {
		return fmt.Errorf("write row group: %w", err)
	}
	if err := w.pqWriter.Flush(); err != nil {
		return fmt.Errorf("flush row group: %w", err)
	}
	w.rowCount += len(w.pending)
	w.pending = w.pending[:0]
	return nil
}

// Close finalizes the parquet file (including any partial row group)
// and writes it to the target under this writer's filename.
func (w *Writer) Close() error {
	if err := w.flushRowGroup(); err != nil {
		return err
	}
	if err := w.pqWriter.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}

	data := w.buf.Bytes()
	if err := w.target.WriteFile(w.fileName, data); err != nil {
		return fmt.Errorf("write parquet file %q: %w", w.fileName, err)
	}
	log.Infof("parquet writer: wrote %s (%d rows, %d bytes)", w.fileName, w.rowCount, len(data))
	return nil
}

