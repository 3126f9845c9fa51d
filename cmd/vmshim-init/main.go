// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// The vmshim-init binary is a ready to use guest program for the kernel
// boot mode. Run as init, it sets the system up, mounts the workspace
// share, executes the staged task's arguments as a command and records the
// command's stdout as the task result.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/vmshim/vmshim/internal/qemu"
	"github.com/vmshim/vmshim/shim"
	"github.com/vmshim/vmshim/sysinit"
)

// commandExecutor runs the task's arguments as a command in the workspace
// directory. Stdout becomes the result payload, stderr goes to the
// console.
func commandExecutor(workspace string) shim.Executor {
	return shim.ExecutorFunc(
		func(ctx context.Context, task shim.Task) (shim.TaskResult, error) {
			if len(task.Args) == 0 {
				return shim.TaskResult{}, errors.New("task has no arguments")
			}

			var stdout bytes.Buffer

			cmd := exec.CommandContext(ctx, task.Args[0], task.Args[1:]...)
			cmd.Dir = workspace
			cmd.Stdout = &stdout
			cmd.Stderr = os.Stderr

			if err := cmd.Run(); err != nil {
				return shim.TaskResult{}, fmt.Errorf("run command: %w", err)
			}

			return task.Result(stdout.Bytes(), nil), nil
		},
	)
}

func run() error {
	cfg := sysinit.DefaultConfig()
	cfg.WorkspaceTag = qemu.DefaultMountTag
	cfg.WorkspacePath = shim.DefaultWorkspace

	if err := sysinit.Setup(cfg); err != nil {
		return err
	}

	defer sysinit.Poweroff()

	return shim.Run(
		context.Background(),
		shim.DefaultConfig(),
		commandExecutor(shim.DefaultWorkspace),
	)
}

func main() {
	if err := run(); err != nil {
		log.Print("ERROR: ", err.Error())
	}
}
