// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parquet

import (
	"bytes"
	"fmt"
	"io"

	pq "github.com/parquet-go/parquet-go"
)

// ReadRows reads every WeatherRecordRow from parquet-encoded bytes, in
// file order. It is the inverse of Writer and exists so consumers (and
// round-trip tests) can verify an output file without an external
// parquet toolchain.
func ReadRows(data []byte) ([]WeatherRecordRow, error) {
	file, err := pq.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := pq.NewGenericReader[WeatherRecordRow](file)
	defer reader.Close()

	numRows := file.NumRows()
	if numRows == 0 {
		return nil, nil
	}
	rows := make([]WeatherRecordRow, numRows)
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read parquet rows: %w", err)
	}

	return rows[:n], nil
}
