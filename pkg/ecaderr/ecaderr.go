// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ecaderr defines the finite error taxonomy shared across the
// ECAD ingestion pipeline, in place of ad hoc string wrapping.
package ecaderr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error without requiring callers to type-switch on
// concrete error values.
type Kind int

const (
	// Unknown is the zero value and should not be constructed directly.
	Unknown Kind = iota
	IO
	InvalidFormat
	InvalidCoordinate
	InvalidQualityFlag
	InvalidTemperature
	TemperatureValidation
	MissingData
	Config
	TaskJoin
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "io"
	case InvalidFormat:
		return "invalid_format"
	case InvalidCoordinate:
		return "invalid_coordinate"
	case InvalidQualityFlag:
		return "invalid_quality_flag"
	case InvalidTemperature:
		return "invalid_temperature"
	case TemperatureValidation:
		return "temperature_validation"
	case MissingData:
		return "missing_data"
	case Config:
		return "config"
	case TaskJoin:
		return "task_join"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error wraps a cause with a Kind so callers can branch with errors.Is
// against the sentinel Kind values below.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ecaderr.IsIO) work against the sentinel kinds
// defined via kindSentinel below, and also matches two *Error values
// with the same Kind.
func (e *Error) Is(target error) bool {
	if ks, ok := target.(kindSentinel); ok {
		return e.Kind == Kind(ks)
	}
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

type kindSentinel Kind

func (kindSentinel) Error() string { return "" }

// New constructs an Error of the given Kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error of the given Kind around a cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is* sentinel helpers so callers can write errors.Is(err, ecaderr.IsIO).
var (
	IsIO                    error = kindSentinel(IO)
	IsInvalidFormat         error = kindSentinel(InvalidFormat)
	IsInvalidCoordinate     error = kindSentinel(InvalidCoordinate)
	IsInvalidQualityFlag    error = kindSentinel(InvalidQualityFlag)
	IsInvalidTemperature    error = kindSentinel(InvalidTemperature)
	IsTemperatureValidation error = kindSentinel(TemperatureValidation)
	IsMissingData           error = kindSentinel(MissingData)
	IsConfig                error = kindSentinel(Config)
	IsTaskJoin              error = kindSentinel(TaskJoin)
	IsCancelled             error = kindSentinel(Cancelled)
)

