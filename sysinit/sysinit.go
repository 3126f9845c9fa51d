// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"log"
	"os"
)

// Config defines the system setup performed by [Setup].
type Config struct {
	// MountPoints are the virtual file systems mounted first.
	MountPoints MountPoints

	// WorkspaceTag is the mount tag of the workspace share. If set, the
	// share is mounted at WorkspacePath after the virtual file systems.
	WorkspaceTag string

	// WorkspacePath is the directory the workspace share is mounted at.
	WorkspacePath string

	// ConfigureLoopback determines if the loopback interface is brought
	// up.
	ConfigureLoopback bool
}

// DefaultConfig returns a [Config] with the mount points any guest needs
// for basic operation. The workspace share is not part of it, set
// [Config.WorkspaceTag] to have it mounted.
func DefaultConfig() Config {
	return Config{
		MountPoints: MountPoints{
			"/dev":  {FSType: FSTypeDevTmp},
			"/proc": {FSType: FSTypeProc},
			"/run":  {FSType: FSTypeTmp, MayFail: true},
			"/sys":  {FSType: FSTypeSys, MayFail: true},
			"/tmp":  {FSType: FSTypeTmp},
		},
		ConfigureLoopback: true,
	}
}

// IsPidOne returns true if the running process has PID 1.
func IsPidOne() bool {
	return os.Getpid() == 1
}

// Setup prepares the freshly booted system for running a guest program.
//
// It mounts the configured virtual file systems, attaches the workspace
// share and brings the loopback interface up. It must only be called as
// PID 1, otherwise [ErrNotPidOne] is returned.
func Setup(cfg Config) error {
	if !IsPidOne() {
		return ErrNotPidOne
	}

	if err := MountAll(cfg.MountPoints); err != nil {
		return err
	}

	if cfg.WorkspaceTag != "" {
		err := MountWorkspace(cfg.WorkspaceTag, cfg.WorkspacePath)
		if err != nil {
			return err
		}
	}

	if cfg.ConfigureLoopback {
		if err := InterfaceUp("lo"); err != nil {
			return err
		}
	}

	return nil
}

// Poweroff shuts down the system.
//
// Call it when the guest is done, usually deferred right after [Setup]
// succeeded. Restart is used instead of an ACPI poweroff since it works on
// any machine type. The VM must be started with reboot disabled so the
// restart terminates it.
func Poweroff() {
	// Silence the kernel so shutdown noise does not end up in the console
	// output consumed by the host.
	_ = sysctl("kernel/printk", "0")

	if err := reboot(); err != nil {
		log.Print("ERROR poweroff: ", err.Error())
	}
}
