// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package shim

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Mounted reports whether mountPoint is present in the given mount table
// file.
//
// The mount table is scanned line by line and mountPoint is matched by
// substring containment, not by exact path equality. A mount point that
// appears as part of a longer string matches as well. This loose match is
// deliberate and must be kept in mind when choosing workspace paths.
//
// If the mount table cannot be read the error is returned. "cannot
// determine" is never conflated with "not mounted".
func Mounted(mountsFile, mountPoint string) (bool, error) {
	file, err := os.Open(mountsFile)
	if err != nil {
		return false, fmt.Errorf("open mount table: %w", err)
	}
	defer file.Close()

	return scanMountTable(file, mountPoint)
}

func scanMountTable(table io.Reader, mountPoint string) (bool, error) {
	scanner := bufio.NewScanner(table)

	for scanner.Scan() {
		if strings.Contains(scanner.Text(), mountPoint) {
			return true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("read mount table: %w", err)
	}

	return false, nil
}

// WaitForMount blocks until the workspace mount point shows up in the
// mount table.
//
// The table is polled once per [Config.PollInterval]. If the mount is not
// present after [Config.MountTimeout] a [MountTimeoutError] is returned.
// The wait can be canceled early via the context. Mount table read errors
// abort the wait immediately.
func WaitForMount(ctx context.Context, cfg Config) error {
	cfg = cfg.withDefaults()

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	timeout := time.NewTimer(cfg.MountTimeout)
	defer timeout.Stop()

	for {
		mounted, err := Mounted(cfg.MountsFile, cfg.Workspace)
		if err != nil {
			return err
		}

		if mounted {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("mount wait: %w", ctx.Err())
		case <-timeout.C:
			return &MountTimeoutError{
				MountPoint: cfg.Workspace,
				Timeout:    cfg.MountTimeout,
			}
		case <-ticker.C:
		}
	}
}
