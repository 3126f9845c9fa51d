// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package host

import "errors"

var (
	// ErrMissingResult is returned if the VM terminated without leaving
	// a result file in the workspace.
	ErrMissingResult = errors.New("VM terminated without writing a result file")

	// ErrStaleResultDeclined is returned if a stale result file is
	// present and its removal was not confirmed.
	ErrStaleResultDeclined = errors.New("stale result file present")
)

// PreflightError wraps errors found while validating the workspace before
// launch.
type PreflightError struct {
	Err error
}

func (e *PreflightError) Error() string {
	return "workspace validation failed: " + e.Err.Error()
}

func (e *PreflightError) Is(other error) bool {
	_, ok := other.(*PreflightError)

	return ok
}

func (e *PreflightError) Unwrap() error {
	return e.Err
}
