// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package shim

import (
	"encoding/json"
	"fmt"
	"os"
)

const descriptorFileMode = 0o644

// ReadTaskFile reads and deserializes a task descriptor from the given
// path.
//
// Decoding failures are returned as [DecodeError]. A task is never
// partially populated: on error, nothing is returned.
func ReadTaskFile(path string) (*Task, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open task descriptor: %w", err)
	}
	defer file.Close()

	var task Task

	if err := json.NewDecoder(file).Decode(&task); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	return &task, nil
}

// WriteTaskFile serializes the task descriptor to the given path.
//
// An existing file is truncated. The descriptor is flushed to stable
// storage before the file is closed.
func WriteTaskFile(path string, task *Task) error {
	file, err := os.OpenFile(
		path,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		descriptorFileMode,
	)
	if err != nil {
		return fmt.Errorf("create task descriptor: %w", err)
	}

	return writeJSON(file, task)
}

// ReadResultFile reads and deserializes a result envelope from the given
// path.
//
// A missing file is returned as the wrapped [os.ErrNotExist]. Decoding
// failures are returned as [DecodeError].
func ReadResultFile(path string) (Envelope, error) {
	file, err := os.Open(path)
	if err != nil {
		return Envelope{}, fmt.Errorf("open result descriptor: %w", err)
	}
	defer file.Close()

	var envelope Envelope

	if err := json.NewDecoder(file).Decode(&envelope); err != nil {
		return Envelope{}, &DecodeError{Path: path, Err: err}
	}

	return envelope, nil
}

// WriteResultFile serializes the result envelope to the given path.
//
// The file is created exclusively: if it already exists the write fails
// with the wrapped [os.ErrExist] and the existing file is left untouched.
// This guarantees at most one result write per workspace lifetime.
func WriteResultFile(path string, envelope Envelope) error {
	file, err := os.OpenFile(
		path,
		os.O_RDWR|os.O_CREATE|os.O_EXCL,
		descriptorFileMode,
	)
	if err != nil {
		return fmt.Errorf("create result descriptor: %w", err)
	}

	return writeJSON(file, envelope)
}

// writeJSON encodes value into file, syncs and closes it. The file handle
// is always released, even on error.
func writeJSON(file *os.File, value any) error {
	defer file.Close()

	if err := json.NewEncoder(file).Encode(value); err != nil {
		return fmt.Errorf("encode %s: %w", file.Name(), err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", file.Name(), err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", file.Name(), err)
	}

	return nil
}
