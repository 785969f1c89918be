// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDMSToDecimal(t *testing.T) {
	v, err := DMSToDecimal("50:30:15")
	require.NoError(t, err)
	assert.InDelta(t, 50.504167, v, 0.000001)

	v, err = DMSToDecimal("51:28:38")
	require.NoError(t, err)
	assert.InDelta(t, 51.477222, v, 0.000001)

	v, err = DMSToDecimal("-0:07:39")
	require.NoError(t, err)
	assert.InDelta(t, -0.1275, v, 0.0001)
}

func TestDMSToDecimalInvalid(t *testing.T) {
	_, err := DMSToDecimal("50:30")
	assert.Error(t, err)

	_, err = DMSToDecimal("50:70:15")
	assert.Error(t, err)

	_, err = DMSToDecimal("50:30:70")
	assert.Error(t, err)
}

func TestDecimalToDMS(t *testing.T) {
	assert.Equal(t, "50:30:15.00", DecimalToDMS(50.504167))
	assert.Equal(t, "-0:07:39.00", DecimalToDMS(-0.1275))
}

func TestParseCoordinate(t *testing.T) {
	v, err := ParseCoordinate("51.5074")
	require.NoError(t, err)
	assert.InDelta(t, 51.5074, v, 0.000001)

	v, err = ParseCoordinate("50:30:15")
	require.NoError(t, err)
	assert.InDelta(t, 50.504167, v, 0.000001)

	v, err = ParseCoordinate(" -0.1278 ")
	require.NoError(t, err)
	assert.InDelta(t, -0.1278, v, 0.000001)
}

