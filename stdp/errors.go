// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"errors"

	"github.com/goki/ki/kit"
)

var (
	// ErrInvalidParam is returned for a non-positive time constant, a non-finite
	// amplitude, or an inverted weight range.  No weights are changed.
	ErrInvalidParam = errors.New("stdp: invalid parameter")

	// ErrDimMismatch is returned when a buffer length disagrees with the declared
	// layer sizes and number of time steps.  No weights are changed.
	ErrDimMismatch = errors.New("stdp: dimension mismatch")
)

// Status is the result code of a flat Apply call
type Status int

//go:generate stringer -type=Status

var KiT_Status = kit.Enums.AddEnum(StatusN, kit.NotBitFlag, nil)

func (ev Status) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Status) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Success means the weights were updated over all time steps
	Success Status = iota

	// InvalidParameter means the rule parameters were rejected before any update
	InvalidParameter

	// DimensionMismatch means buffer sizes disagree with the declared shapes
	DimensionMismatch

	StatusN
)

// StatusFromError maps an error returned by Updater.Update to its Status code.
// Errors that are neither sentinel are reported as InvalidParameter.
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrDimMismatch):
		return DimensionMismatch
	default:
		return InvalidParameter
	}
}

// Err returns the sentinel error for the status, nil for Success
func (ev Status) Err() error {
	switch ev {
	case InvalidParameter:
		return ErrInvalidParam
	case DimensionMismatch:
		return ErrDimMismatch
	}
	return nil
}
