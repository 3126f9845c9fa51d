// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package host drives a single task handoff from the host side.
//
// It stages the task file in the workspace, runs the VM via a [Launcher]
// and collects the result file once the VM has terminated. The package
// does not care how the VM is run; anything satisfying [Launcher] works.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vmshim/vmshim/shim"
)

// Launcher runs a VM with the workspace shared into the guest and blocks
// until it terminates. It returns the VM's exit status. A nonzero exit
// status is not an error; the task outcome is carried by the result file
// alone.
type Launcher interface {
	Launch(ctx context.Context) (int, error)
}

// LauncherFunc is an adapter to allow the use of ordinary functions as
// [Launcher]s.
type LauncherFunc func(ctx context.Context) (int, error)

// Launch calls f(ctx).
func (f LauncherFunc) Launch(ctx context.Context) (int, error) {
	return f(ctx)
}

// Confirmer answers whether a stale result file left over from a previous
// run may be removed.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmerFunc is an adapter to allow the use of ordinary functions as
// [Confirmer]s.
type ConfirmerFunc func(prompt string) (bool, error)

// Confirm calls f(prompt).
func (f ConfirmerFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// Spec describes a single task handoff.
type Spec struct {
	// Workspace is the host directory shared with the guest. It must
	// exist.
	Workspace string

	// Task is written to the workspace before the VM is launched.
	Task shim.Task

	// Confirm gates removal of a stale result file. If nil, a stale
	// result file is always an error.
	Confirm Confirmer
}

func (s *Spec) taskFile() string {
	return filepath.Join(s.Workspace, shim.TaskFileName)
}

func (s *Spec) resultFile() string {
	return filepath.Join(s.Workspace, shim.TaskResultFileName)
}

// preflight validates the workspace and clears a stale result file if the
// confirmer allows it.
func (s *Spec) preflight() error {
	info, err := os.Stat(s.Workspace)
	if err != nil {
		return &PreflightError{Err: err}
	}

	if !info.IsDir() {
		return &PreflightError{
			Err: fmt.Errorf("%s: not a directory", s.Workspace),
		}
	}

	resultFile := s.resultFile()

	if _, err := os.Stat(resultFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return &PreflightError{Err: err}
	}

	if s.Confirm == nil {
		return ErrStaleResultDeclined
	}

	prompt := fmt.Sprintf("remove stale result file %s?", resultFile)

	remove, err := s.Confirm.Confirm(prompt)
	if err != nil {
		return &PreflightError{Err: err}
	}

	if !remove {
		return ErrStaleResultDeclined
	}

	if err := os.Remove(resultFile); err != nil {
		return &PreflightError{Err: err}
	}

	return nil
}

// Run performs the complete handoff: stage the task file, launch the VM,
// wait for it to terminate and collect the result.
//
// A missing result file after VM termination is reported as
// [ErrMissingResult]. A result file carrying the guest's failure arm is
// reported as a [shim.ExecutorError] with the guest's message.
func Run(ctx context.Context, spec Spec, launcher Launcher) (*shim.TaskResult, error) {
	if err := spec.preflight(); err != nil {
		return nil, err
	}

	if err := shim.WriteTaskFile(spec.taskFile(), &spec.Task); err != nil {
		return nil, err
	}

	slog.Info("Launching VM", slog.String("workspace", spec.Workspace))

	exitStatus, err := launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingResult, err)
	}

	slog.Info("VM terminated", slog.Int("exitStatus", exitStatus))

	envelope, err := shim.ReadResultFile(spec.resultFile())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrMissingResult
		}

		return nil, err
	}

	result, err := envelope.Result()
	if err != nil {
		return nil, err
	}

	if result.ID != spec.Task.ID {
		slog.Warn("Result task ID does not match",
			slog.String("want", spec.Task.ID),
			slog.String("got", result.ID),
		)

		return nil, fmt.Errorf("%w: want %s, got %s",
			shim.ErrTaskIDMismatch, spec.Task.ID, result.ID)
	}

	return &result, nil
}
