// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vmshim/vmshim/internal/qemu"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewCommand(t *testing.T) {
	tests := []struct {
		name        string
		spec        qemu.CommandSpec
		contains    []string
		notContains []string
		expectedErr error
	}{
		{
			name: "image boot",
			spec: qemu.CommandSpec{
				Image:     "/images/prover.img",
				Workspace: "/srv/workspace",
				SMP:       2,
				Memory:    1024,
			},
			contains: []string{
				"qemu-system-x86_64",
				"-machine q35",
				"-machine accel=kvm:tcg",
				"-smp 2",
				"-m 1024M",
				"-cpu max",
				"-drive file=/images/prover.img,format=raw,if=none," +
					"id=hd0,readonly=on",
				"-device scsi-hd,bus=scsi0.0,drive=hd0",
				"-serial stdio",
				"-virtfs local,path=/srv/workspace,mount_tag=workspace," +
					"security_model=none,multidevs=remap,id=ws",
			},
			notContains: []string{"-kernel", "-no-reboot"},
		},
		{
			name: "kernel boot",
			spec: qemu.CommandSpec{
				Kernel:    "/boot/vmlinuz",
				Initramfs: "/tmp/initramfs",
				Workspace: "/srv/workspace",
				SMP:       1,
				Memory:    512,
			},
			contains: []string{
				"-kernel /boot/vmlinuz",
				"-initrd /tmp/initramfs",
				"-append console=ttyS0 panic=-1 reboot=t quiet",
				"-no-reboot",
			},
			notContains: []string{"-drive"},
		},
		{
			name: "no kvm",
			spec: qemu.CommandSpec{
				Image:     "/images/prover.img",
				Workspace: "/srv/workspace",
				NoKVM:     true,
			},
			contains:    []string{"-machine accel=tcg"},
			notContains: []string{"kvm"},
		},
		{
			name: "gpu passthrough",
			spec: qemu.CommandSpec{
				Image:     "/images/prover.img",
				Workspace: "/srv/workspace",
				GPUs:      []string{"01:00.0", "02:00.0"},
			},
			contains: []string{
				"-device vfio-pci,rombar=0,host=01:00.0",
				"-device vfio-pci,rombar=0,host=02:00.0",
			},
		},
		{
			name: "custom mount tag",
			spec: qemu.CommandSpec{
				Image:     "/images/prover.img",
				Workspace: "/srv/workspace",
				MountTag:  "0",
			},
			contains: []string{"mount_tag=0"},
		},
		{
			name: "no workspace",
			spec: qemu.CommandSpec{
				Image: "/images/prover.img",
			},
			expectedErr: &qemu.SpecError{},
		},
		{
			name: "no boot source",
			spec: qemu.CommandSpec{
				Workspace: "/srv/workspace",
			},
			expectedErr: &qemu.SpecError{},
		},
		{
			name: "image and kernel",
			spec: qemu.CommandSpec{
				Image:     "/images/prover.img",
				Kernel:    "/boot/vmlinuz",
				Initramfs: "/tmp/initramfs",
				Workspace: "/srv/workspace",
			},
			expectedErr: &qemu.SpecError{},
		},
		{
			name: "kernel without initramfs",
			spec: qemu.CommandSpec{
				Kernel:    "/boot/vmlinuz",
				Workspace: "/srv/workspace",
			},
			expectedErr: &qemu.SpecError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := qemu.NewCommand(tt.spec)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			cmdString := cmd.String()
			for _, expected := range tt.contains {
				assert.Contains(t, cmdString, expected)
			}

			for _, unexpected := range tt.notContains {
				assert.NotContains(t, cmdString, unexpected)
			}
		})
	}
}

func TestCommand_Run(t *testing.T) {
	t.Run("relays console output", func(t *testing.T) {
		// Substitute a harmless binary that echoes its arguments, so the
		// console relay and exit status handling can be verified without
		// an actual hypervisor.
		cmd, err := qemu.NewCommand(qemu.CommandSpec{
			Executable: "echo",
			Image:      "/images/prover.img",
			Workspace:  "/srv/workspace",
		})
		require.NoError(t, err)

		var stdout, stderr bytes.Buffer

		exitCode, err := cmd.Run(context.Background(), &stdout, &stderr)
		require.NoError(t, err)

		assert.Zero(t, exitCode)
		assert.Contains(t, stdout.String(), "-machine q35")
		assert.Empty(t, stderr.String())
	})

	t.Run("missing binary", func(t *testing.T) {
		cmd, err := qemu.NewCommand(qemu.CommandSpec{
			Executable: "vmshim-no-such-hypervisor",
			Image:      "/images/prover.img",
			Workspace:  "/srv/workspace",
		})
		require.NoError(t, err)

		var stdout, stderr bytes.Buffer

		_, err = cmd.Run(context.Background(), &stdout, &stderr)
		require.ErrorIs(t, err, &qemu.CommandError{})
	})
}
