// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package ingest

import (
	"archive/zip"
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybound-data/ecad-pipeline/pkg/ecad/model"
	"github.com/skybound-data/ecad-pipeline/pkg/ecad/quality"
)

const stationsFixture = `STAID, STANAME                                 , CN, LAT    , LON     , HGHT
------,----------------------------------------,---,--------,--------,-----
    1, VAEXJOE                                 , SE, 56:52:00, 14:48:00,  166
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

func TestProcessMergesMultipleMetrics(t *testing.T) {
	tx := header() + "    1,19500101,  200,0\n"
	tn := header() + "    1,19500101,  100,0\n"
	rr := header() + "    1,19500101,   50,0\n"

	path := buildZip(t, map[string]string{
		"stations.txt":       stationsFixture,
		"TX_STAID000001.txt": tx,
		"TN_STAID000001.txt": tn,
		"RR_STAID000001.txt": rr,
	})

	result, err := Process(path, Options{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, uint32(1), rec.StationID)
	assert.Equal(t, "VAEXJOE", rec.StationName)
	require.NotNil(t, rec.TempMax)
	assert.InDelta(t, 20.0, *rec.TempMax, 0.01)
	require.NotNil(t, rec.TempMin)
	assert.InDelta(t, 10.0, *rec.TempMin, 0.01)
	require.NotNil(t, rec.Precipitation)
	assert.InDelta(t, 5.0, *rec.Precipitation, 0.01)
	require.NotNil(t, rec.TempValidation)
}

func TestProcessSkipsSentinelValues(t *testing.T) {
	tx := header() + "    1,19500101,-9999,0\n    1,19500102,  150,0\n"
	path := buildZip(t, map[string]string{
		"stations.txt":       stationsFixture,
		"TX_STAID000001.txt": tx,
	})

	result, err := Process(path, Options{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.InDelta(t, 15.0, *result.Records[0].TempMax, 0.01)
}

func TestProcessBufferedAndMmapAgree(t *testing.T) {
	tx := header() + "    1,19500101,  200,0\n"
	path := buildZip(t, map[string]string{
		"stations.txt":       stationsFixture,
		"TX_STAID000001.txt": tx,
	})

	buffered, err := Process(path, Options{UseMmap: false})
	require.NoError(t, err)
	mapped, err := Process(path, Options{UseMmap: true})
	require.NoError(t, err)

	require.Len(t, buffered.Records, 1)
	require.Len(t, mapped.Records, 1)
	assert.Equal(t, *buffered.Records[0].TempMax, *mapped.Records[0].TempMax)
}

func TestProcessEmitsRowDespiteOrderingViolation(t *testing.T) {
	tn := header() + "    1,20230715,  200,0\n"
	tx := header() + "    1,20230715,  100,0\n"
	tg := header() + "    1,20230715,  150,0\n"
	path := buildZip(t, map[string]string{
		"stations.txt":       stationsFixture,
		"TN_STAID000001.txt": tn,
		"TX_STAID000001.txt": tx,
		"TG_STAID000001.txt": tg,
	})

	result, err := Process(path, Options{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	found := false
	for _, v := range result.Report.TemperatureViolations {
		if v.Type == model.MinGreaterThanAvg {
			found = true
		}
	}
	assert.True(t, found)
}

func TestProcessFlagsPhysicallyImpossibleValue(t *testing.T) {
	tx := header() + "    1,20230101,  700,0\n"
	path := buildZip(t, map[string]string{
		"stations.txt":       stationsFixture,
		"TX_STAID000001.txt": tx,
	})

	result, err := Process(path, Options{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	require.NotNil(t, rec.TempMax)
	assert.InDelta(t, 70.0, *rec.TempMax, 0.01)
	require.NotNil(t, rec.TempQuality)
	assert.Equal(t, "0", *rec.TempQuality)
	require.NotNil(t, rec.TempValidation)
	assert.Equal(t, model.Invalid, *rec.TempValidation)
	assert.Equal(t, model.QualityInvalid, quality.AssessTemperatureQuality(&rec))

	found := false
	for _, v := range result.Report.TemperatureViolations {
		if v.Type == model.OutOfRange {
			found = true
		}
	}
	assert.True(t, found)
}

func TestProcessRecordsAreUnique(t *testing.T) {
	tx := header() + "    1,19500101,  200,0\n    1,19500102,  210,0\n"
	tn := header() + "    1,19500101,  100,0\n"
	path := buildZip(t, map[string]string{
		"stations.txt":       stationsFixture,
		"TX_STAID000001.txt": tx,
		"TN_STAID000001.txt": tn,
	})

	result, err := Process(path, Options{})
	require.NoError(t, err)

	type key struct {
		id   uint32
		date string
	}
	seen := map[key]bool{}
	for _, r := range result.Records {
		k := key{r.StationID, r.Date.Format("20060102")}
		assert.False(t, seen[k], "duplicate (station, date)")
		seen[k] = true
		assert.NotEmpty(t, r.AvailableMetrics())
	}
}

func TestProcessErrorsWithNoDataFiles(t *testing.T) {
	path := buildZip(t, map[string]string{"stations.txt": stationsFixture})
	_, err := Process(path, Options{})
	assert.Error(t, err)
}

