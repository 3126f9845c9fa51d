// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/vmshim/vmshim/internal/host"
	"github.com/vmshim/vmshim/internal/initramfs"
	"github.com/vmshim/vmshim/internal/qemu"
	"github.com/vmshim/vmshim/shim"
)

const localConfigFile = ".vmshim-args"

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func parseArgs(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags := newFlags(cfg.Stderr)

	err = flags.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	return flags, nil
}

// newInitramfs builds an initramfs archive with the guest program as init.
// It returns the path to the archive file. The caller is responsible for
// removing it.
func newInitramfs(flags *flags) (string, error) {
	archive := initramfs.New(flags.program)

	path, err := archive.Write()
	if err != nil {
		return "", fmt.Errorf("build initramfs: %w", err)
	}

	return path, nil
}

func newQemuCommand(flags *flags, initramfsPath string) (*qemu.Command, error) {
	qemuSpec := qemu.CommandSpec{
		Executable: flags.qemuBin,
		Workspace:  string(flags.workspace),
		Kernel:     string(flags.kernel),
		Initramfs:  initramfsPath,
		SMP:        flags.smp,
		Memory:     flags.memory,
		GPUs:       flags.gpus,
		NoKVM:      flags.noKVM,
		Verbose:    flags.verbose,
	}

	if qemuSpec.Kernel == "" {
		qemuSpec.Image = flags.program
	}

	cmd, err := qemu.NewCommand(qemuSpec)
	if err != nil {
		return nil, fmt.Errorf("new qemu command: %w", err)
	}

	return cmd, nil
}

// promptConfirmer asks on stderr and reads the answer from stdin. Only the
// exact answer "yes" confirms.
func promptConfirmer(cfg IO) host.Confirmer {
	return host.ConfirmerFunc(func(prompt string) (bool, error) {
		fmt.Fprintf(cfg.Stderr, "%s [yes/no]: ", prompt)

		reader := bufio.NewReader(cfg.Stdin)

		answer, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", err)
		}

		return strings.TrimSpace(answer) == "yes", nil
	})
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	err := flags.validateFilePaths()
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	var initramfsPath string

	if flags.kernel != "" {
		initramfsPath, err = newInitramfs(flags)
		if err != nil {
			return err
		}

		slog.Debug("Created initramfs archive",
			slog.String("path", initramfsPath))

		defer removeInitramfs(initramfsPath)
	}

	cmd, err := newQemuCommand(flags, initramfsPath)
	if err != nil {
		return err
	}

	slog.Debug("QEMU command", slog.String("command", cmd.String()))

	// The guest's serial console is relayed to stderr. Stdout is reserved
	// for the result payload.
	launcher := host.LauncherFunc(func(ctx context.Context) (int, error) {
		return cmd.Run(ctx, cfg.Stderr, cfg.Stderr)
	})

	hostSpec := host.Spec{
		Workspace: string(flags.workspace),
		Task: shim.Task{
			ID:    flags.taskID,
			Args:  flags.taskArgs,
			Files: flags.taskFiles,
		},
		Confirm: promptConfirmer(cfg),
	}

	result, err := host.Run(ctx, hostSpec, launcher)
	if err != nil {
		return err
	}

	for _, file := range result.Files {
		slog.Info("Task produced file", slog.String("name", file))
	}

	if _, err := cfg.Stdout.Write(result.Data); err != nil {
		return fmt.Errorf("write result data: %w", err)
	}

	return nil
}

func removeInitramfs(path string) {
	slog.Debug("Removing initramfs archive", slog.String("path", path))

	err := os.Remove(path)
	if err != nil {
		slog.Error(
			"Failed to remove initramfs archive",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return -1
}

func handleRunError(err error) int {
	// The guest ran to completion and recorded a task failure. The
	// message is the one the guest wrote into the result descriptor.
	var execErr *shim.ExecutorError
	if errors.As(err, &execErr) {
		slog.Error("Task failed", slog.String("error", execErr.Msg))
		return 1
	}

	slog.Error(err.Error())

	return -1
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	log.SetOutput(cfg.Stderr)
	log.SetFlags(log.Lmicroseconds)
	log.SetPrefix("VMSHIM: ")

	flags, err := parseArgs(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.debug)

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err)
	}

	return 0
}
