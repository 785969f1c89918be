// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
)

const stationsFixture = `STAID, STANAME                                 , CN, LAT    , LON     , HGHT
------,----------------------------------------,---,--------,--------,-----
    1, VAEXJOE                                 , SE, 56:52:00, 14:48:00,  166
    2, BRAGANCA                                , PT, 41:48:00, -6:44:00,  691
    3, BRAGANCA TWO                            , PT, 41:49:00, -6:45:00,  690
`

func header() string {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("header line\n")
	}
	return b.String()
}

func buildZip(t *testing.T, files map[string]string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := t.TempDir() + "/test.zip"
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestInspectMultiMetric(t *testing.T) {
	data := header() + "    1,19500101,  123,0\n    1,19500102,  124,0\n"
	path := buildZip(t, map[string]string{
		"stations.txt":       stationsFixture,
		"TX_STAID000001.txt": data,
		"TN_STAID000001.txt": data,
		"RR_STAID000001.txt": data,
	})

	meta, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, "PT", meta.Country) // PT appears twice, SE once
	assert.Equal(t, 1, meta.StationCount)
	assert.Len(t, meta.Metrics, 3)
	require.NotNil(t, meta.DateRange)
	assert.Equal(t, "19500101", meta.DateRange.Start.Format("20060102"))
	assert.Equal(t, "19500102", meta.DateRange.End.Format("20060102"))
}

func TestInspectNoDataFiles(t *testing.T) {
	path := buildZip(t, map[string]string{"stations.txt": stationsFixture})
	_, err := Inspect(path)
	assert.Error(t, err)
}

func TestInspectNoStationsFile(t *testing.T) {
	data := header() + "    1,19500101,  123,0\n"
	path := buildZip(t, map[string]string{"TX_STAID000001.txt": data})
	_, err := Inspect(path)
	assert.Error(t, err)
}

func TestCrossValidateElementsMismatchWarnsNotFails(t *testing.T) {
	data := header() + "    1,19500101,  123,0\n"
	path := buildZip(t, map[string]string{
		"stations.txt":       stationsFixture,
		"elements.txt":       "ELEID,DESC,UNIT\nRR1,Precipitation,0.1 mm\n",
		"TX_STAID000001.txt": data,
	})
	meta, err := Inspect(path)
	require.NoError(t, err)
	assert.Contains(t, meta.Metrics, model.Temperature(model.TemperatureMaximum))
}

