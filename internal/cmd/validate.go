// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os/exec"

	"github.com/vmshim/vmshim/internal/qemu"
)

// validateFilePaths checks that all configured files are actually present
// before the VM is launched.
func (f *flags) validateFilePaths() error {
	qemuBin := f.qemuBin
	if qemuBin == "" {
		qemuBin = qemu.DefaultExecutable
	}

	_, err := exec.LookPath(qemuBin)
	if err != nil {
		return fmt.Errorf("qemu binary: %w", err)
	}

	err = ValidateFilePath(f.program)
	if err != nil {
		return fmt.Errorf("program file: %w", err)
	}

	if f.kernel != "" {
		err = ValidateFilePath(string(f.kernel))
		if err != nil {
			return fmt.Errorf("kernel file: %w", err)
		}
	}

	return nil
}
