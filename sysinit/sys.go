// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

func mount(path, source, fsType, data string) error {
	if source == "" {
		source = fsType
	}

	if err := unix.Mount(source, path, fsType, 0, data); err != nil {
		return fmt.Errorf("mount %s: %w", path, err)
	}

	return nil
}

func reboot() error {
	if err := unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART); err != nil {
		return fmt.Errorf("reboot: %w", err)
	}

	return nil
}

func sysctl(key, value string) error {
	path := filepath.Join("/proc/sys", key)

	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("sysctl %s: %w", key, err)
	}

	return nil
}
