// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package model

// StationMetadata is built once per archive when the station catalog
// is parsed; it is immutable thereafter and referenced by StationID.
type StationMetadata struct {
	StationID uint32
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	// Elevation is nil when ECAD's "-999" sentinel is present.
	Elevation *int32
}

