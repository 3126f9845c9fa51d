// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package shim

import (
	"time"
)

const (
	// DefaultWorkspace is the directory the workspace share is expected to
	// be mounted at inside the guest.
	DefaultWorkspace = "/workspace"

	// DefaultMountsFile is the kernel's live mount table.
	DefaultMountsFile = "/proc/mounts"

	// DefaultMountTimeout is the ceiling for the workspace mount wait.
	DefaultMountTimeout = 30 * time.Second

	// DefaultPollInterval is the delay between two mount table scans.
	DefaultPollInterval = time.Second
)

// Config carries the parameters for a guest [Run].
//
// Everything the run depends on is explicit here so tests can inject
// temporary directories, fake mount tables and short timeouts.
type Config struct {
	// Workspace is the directory shared with the host. It holds the task
	// descriptor and receives the result descriptor. Its path is also the
	// needle sought in the mount table while waiting for the share to show
	// up.
	Workspace string

	// MountsFile is the mount table to scan. Usually /proc/mounts.
	MountsFile string

	// PollInterval is the delay between two mount table scans.
	PollInterval time.Duration

	// MountTimeout bounds the total mount wait.
	MountTimeout time.Duration
}

// DefaultConfig returns a [Config] with the well known defaults set.
func DefaultConfig() Config {
	return Config{
		Workspace:    DefaultWorkspace,
		MountsFile:   DefaultMountsFile,
		PollInterval: DefaultPollInterval,
		MountTimeout: DefaultMountTimeout,
	}
}

// withDefaults fills unset fields with the default values so a zero
// [Config] behaves like [DefaultConfig].
func (c Config) withDefaults() Config {
	if c.Workspace == "" {
		c.Workspace = DefaultWorkspace
	}

	if c.MountsFile == "" {
		c.MountsFile = DefaultMountsFile
	}

	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}

	if c.MountTimeout <= 0 {
		c.MountTimeout = DefaultMountTimeout
	}

	return c
}
