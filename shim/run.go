// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package shim

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
)

// Executor is the caller supplied logic invoked with the loaded task.
//
// It is run synchronously and single threaded. It may perform arbitrary
// blocking work. Returning an error does not fail the guest run: the error
// message is recorded in the failure arm of the result envelope instead.
type Executor interface {
	Execute(ctx context.Context, task Task) (TaskResult, error)
}

// ExecutorFunc adapts a plain function to the [Executor] interface.
type ExecutorFunc func(ctx context.Context, task Task) (TaskResult, error)

// Execute implements [Executor].
func (f ExecutorFunc) Execute(
	ctx context.Context,
	task Task,
) (TaskResult, error) {
	return f(ctx, task)
}

// Run executes a single task handoff on the guest side.
//
// It waits for the workspace mount to be present, reads the task
// descriptor, invokes the executor and persists the outcome as the result
// descriptor, exactly once.
//
// Any error that prevents the result from being persisted is returned and
// must be treated as fatal by the caller. A result that cannot be durably
// recorded is equivalent to no result at all from the host's perspective.
func Run(ctx context.Context, cfg Config, executor Executor) error {
	cfg = cfg.withDefaults()

	log.Printf("waiting for %s mount to be present", cfg.Workspace)

	if err := WaitForMount(ctx, cfg); err != nil {
		return err
	}

	log.Printf("%s mount is now present", cfg.Workspace)

	task, err := ReadTaskFile(filepath.Join(cfg.Workspace, TaskFileName))
	if err != nil {
		return err
	}

	envelope := execute(ctx, executor, *task)

	resultPath := filepath.Join(cfg.Workspace, TaskResultFileName)

	return WriteResultFile(resultPath, envelope)
}

// execute invokes the executor and wraps its outcome in an [Envelope].
//
// Panics are recovered into the failure arm, so a misbehaving executor
// still produces a result the host can read. A result whose ID does not
// match the task is recorded as a failure as well, it would break result
// correlation on the host side.
func execute(ctx context.Context, executor Executor, task Task) Envelope {
	result, err := safeExecute(ctx, executor, task)
	if err != nil {
		return ErrEnvelope(err.Error())
	}

	if result.ID != task.ID {
		err := fmt.Errorf("%w: %q != %q", ErrTaskIDMismatch, result.ID, task.ID)
		return ErrEnvelope(err.Error())
	}

	return OkEnvelope(result)
}

func safeExecute(
	ctx context.Context,
	executor Executor,
	task Task,
) (result TaskResult, err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		if recoveredErr, ok := rec.(error); ok {
			err = fmt.Errorf("executor panicked: %w", recoveredErr)
		} else {
			err = fmt.Errorf("executor panicked: %v", rec)
		}
	}()

	return executor.Execute(ctx, task)
}
