// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Command is a single runnable QEMU command.
//
// Create it with [NewCommand]. It is the transport layer of the task
// protocol: it turns a task descriptor sitting in the shared workspace
// into an executing guest and reports the guest's exit status. It never
// interprets the exit status, the task outcome travels exclusively through
// the workspace.
type Command struct {
	executable string
	args       []string
}

// NewCommand validates the given spec and compiles it into a [Command].
func NewCommand(spec CommandSpec) (*Command, error) {
	spec.applyDefaults()

	if err := spec.validate(); err != nil {
		return nil, err
	}

	args, err := BuildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, err
	}

	return &Command{
		executable: spec.Executable,
		args:       args,
	}, nil
}

// String implements [fmt.Stringer].
func (c *Command) String() string {
	return c.executable + " " + strings.Join(c.args, " ")
}

// Run starts the guest and blocks until it exits.
//
// The guest's serial console is relayed to stdout line by line. There is
// no timeout on this wait, cancel the context to terminate a hung guest.
//
// The process exit status is returned as is. A nonzero status is not an
// error: whether the task succeeded is decided by the result descriptor,
// not by the hypervisor.
func (c *Command) Run(
	ctx context.Context,
	stdout, stderr io.Writer,
) (int, error) {
	cmd := exec.CommandContext(ctx, c.executable, c.args...)
	cmd.Stderr = stderr

	console, err := cmd.StdoutPipe()
	if err != nil {
		return -1, &CommandError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	processor := consoleProcessor{
		console: console,
		output:  stdout,
	}

	var processorGroup errgroup.Group
	processorGroup.Go(processor.run)

	if err := cmd.Start(); err != nil {
		_ = console.Close()
		_ = processorGroup.Wait()

		return -1, &CommandError{Err: fmt.Errorf("start: %w", err)}
	}

	waitErr := cmd.Wait()
	consoleErr := processorGroup.Wait()

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return -1, &CommandError{Err: fmt.Errorf("wait: %w", waitErr)}
	}

	return cmd.ProcessState.ExitCode(), consoleErr
}
