// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package coord parses ECAD's DMS ("+DD:MM:SS") and plain decimal
// coordinate strings into decimal degrees.
package coord

import (
	"strconv"
	"strings"

	"github.com/skybound-data/ecad-pipeline/pkg/ecaderr"
)

// DMSToDecimal converts a "DD:MM:SS" (optionally signed) coordinate
// into decimal degrees. The result is negative when the string begins
// with '-', matching ECAD's "+51:30:00" / "-000:07:00" notation.
func DMSToDecimal(dms string) (float64, error) {
	parts := strings.Split(dms, ":")
	if len(parts) != 3 {
		return 0, ecaderr.New(ecaderr.InvalidCoordinate,
			"invalid DMS format: '"+dms+"', expected 'DD:MM:SS'")
	}

	negative := strings.HasPrefix(dms, "-")

	degrees, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, ecaderr.Wrap(ecaderr.InvalidCoordinate, "invalid degrees value: '"+parts[0]+"'", err)
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, ecaderr.Wrap(ecaderr.InvalidCoordinate, "invalid minutes value: '"+parts[1]+"'", err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, ecaderr.Wrap(ecaderr.InvalidCoordinate, "invalid seconds value: '"+parts[2]+"'", err)
	}

	if minutes < 0 || minutes >= 60 {
		return 0, ecaderr.New(ecaderr.InvalidCoordinate, "minutes must be in [0, 60)")
	}
	if seconds < 0 || seconds >= 60 {
		return 0, ecaderr.New(ecaderr.InvalidCoordinate, "seconds must be in [0, 60)")
	}

	decimal := absFloat(degrees) + minutes/60.0 + seconds/3600.0
	if negative {
		decimal = -decimal
	}
	return decimal, nil
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// DecimalToDMS renders decimal degrees back into "DD:MM:SS.ss" form,
// mainly useful for diagnostics and round-trip tests.
func DecimalToDMS(decimal float64) string {
	sign := ""
	if decimal < 0 {
		sign = "-"
	}
	abs := absFloat(decimal)

	degrees := int(abs)
	minutesDecimal := (abs - float64(degrees)) * 60.0
	minutes := int(minutesDecimal)
	seconds := (minutesDecimal - float64(minutes)) * 60.0

	return sign + strconv.Itoa(degrees) + ":" + pad2(minutes) + ":" + padSeconds(seconds)
}

func pad2(v int) string {
	s := strconv.Itoa(v)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func padSeconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if dot := strings.Index(s, "."); dot < 2 {
		s = strings.Repeat("0", 2-dot) + s
	}
	return s
}

// ParseCoordinate accepts either a DMS string or a plain decimal
// string, trimming surrounding whitespace first.
func ParseCoordinate(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(trimmed, ":") {
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, ecaderr.Wrap(ecaderr.InvalidCoordinate, "invalid coordinate value: '"+raw+"'", err)
		}
		return v, nil
	}
	return DMSToDecimal(trimmed)
}

