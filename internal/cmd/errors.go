// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
)

var (
	// ErrHelp is returned if usage output was requested. The main binary
	// is supposed to exit without an error in this case.
	ErrHelp = flag.ErrHelp

	ErrReadBuildInfo  = errors.New("build info not available")
	ErrEmptyFilePath  = errors.New("file path must not be empty")
	ErrNotRegularFile = errors.New("not a regular file")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
