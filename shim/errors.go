// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package shim

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrByteValueOutOfRange is returned if a serialized byte sequence
	// contains a number outside of the 0 to 255 range.
	ErrByteValueOutOfRange = errors.New("byte value out of range")

	// ErrMalformedEnvelope is returned if a result envelope does not carry
	// exactly one of its two arms.
	ErrMalformedEnvelope = errors.New("malformed result envelope")

	// ErrTaskIDMismatch is returned if an [Executor] produced a result with
	// an ID different from the task it was invoked with.
	ErrTaskIDMismatch = errors.New("result task ID does not match task")
)

// DecodeError wraps any error that occurs while deserializing a descriptor
// file. A descriptor that fails to decode is never partially trusted.
type DecodeError struct {
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

// Is implements the [errors.Is] interface.
func (*DecodeError) Is(other error) bool {
	_, ok := other.(*DecodeError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MountTimeoutError is returned if the workspace mount did not show up in
// the mount table before the configured ceiling. It is fatal for the guest,
// not retried beyond the polling already performed.
type MountTimeoutError struct {
	MountPoint string
	Timeout    time.Duration
}

// Error implements the [error] interface.
func (e *MountTimeoutError) Error() string {
	return fmt.Sprintf(
		"mount %s not present after %s",
		e.MountPoint,
		e.Timeout,
	)
}

// Is implements the [errors.Is] interface.
func (*MountTimeoutError) Is(other error) bool {
	_, ok := other.(*MountTimeoutError)
	return ok
}

// ExecutorError is the failure arm of the result [Envelope]. It carries the
// message of a failed [Executor] run, exactly as the guest recorded it.
type ExecutorError struct {
	Msg string
}

// Error implements the [error] interface.
func (e *ExecutorError) Error() string {
	return e.Msg
}

// Is implements the [errors.Is] interface.
func (*ExecutorError) Is(other error) bool {
	_, ok := other.(*ExecutorError)
	return ok
}
