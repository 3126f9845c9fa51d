// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"errors"
)

// ErrArgumentCollision is returned if two [Argument]s are considered
// equal.
var ErrArgumentCollision = errors.New("colliding args")

// SpecError indicates an inconsistent [CommandSpec].
type SpecError struct {
	msg string
}

// Error implements the [error] interface.
func (e *SpecError) Error() string {
	return "command spec: " + e.msg
}

// Is implements the [errors.Is] interface.
func (*SpecError) Is(other error) bool {
	_, ok := other.(*SpecError)
	return ok
}

// CommandError wraps any host side error that occurs while running the
// QEMU process.
type CommandError struct {
	Err error
}

// Error implements the [error] interface.
func (e *CommandError) Error() string {
	return "qemu: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*CommandError) Is(other error) bool {
	_, ok := other.(*CommandError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ConsoleError wraps any error occurring during console output
// processing.
type ConsoleError struct {
	Err error
}

// Error implements the [error] interface.
func (e *ConsoleError) Error() string {
	return "console: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*ConsoleError) Is(other error) bool {
	_, ok := other.(*ConsoleError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ConsoleError) Unwrap() error {
	return e.Err
}
