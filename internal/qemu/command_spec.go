// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"strconv"
)

const (
	// DefaultExecutable is the QEMU binary used if none is configured.
	DefaultExecutable = "qemu-system-x86_64"

	// DefaultMountTag is the mount tag the workspace share is exported
	// with. Host and guest agree on it out of band.
	DefaultMountTag = "workspace"

	machineType = "q35"
	cpuType     = "max"
)

// CommandSpec defines the parameters for a [Command].
//
// The guest is always started headless with its serial console on stdio
// and the workspace directory exported as a virtio 9p share.
type CommandSpec struct {
	// Executable is the path to the qemu-system binary.
	Executable string

	// Image is the path to the bootable program image. It is attached read
	// only, the workspace share is the only writable channel.
	Image string

	// Kernel and Initramfs are the alternative boot mode: a kernel booted
	// directly with an initramfs carrying the guest program as init.
	// Exactly one of Image and Kernel must be set.
	Kernel    string
	Initramfs string

	// Workspace is the host directory shared with the guest.
	Workspace string

	// MountTag is the tag the workspace share is exported with. Defaults
	// to [DefaultMountTag].
	MountTag string

	// SMP is the number of CPUs for the guest.
	SMP uint64

	// Memory for the machine in MB.
	Memory uint64

	// GPUs are host PCI device identifiers passed through via vfio.
	GPUs []string

	// NoKVM disables KVM acceleration. Without it, QEMU falls back to TCG
	// which works everywhere but is slow.
	NoKVM bool

	// Verbose keeps the guest kernel chatty instead of quiet.
	Verbose bool
}

// applyDefaults fills unset fields that have well known defaults.
func (s *CommandSpec) applyDefaults() {
	if s.Executable == "" {
		s.Executable = DefaultExecutable
	}

	if s.MountTag == "" {
		s.MountTag = DefaultMountTag
	}
}

// validate checks for inconsistent boot configuration.
func (s *CommandSpec) validate() error {
	switch {
	case s.Workspace == "":
		return &SpecError{"no workspace directory given"}
	case s.Image == "" && s.Kernel == "":
		return &SpecError{"neither image nor kernel given"}
	case s.Image != "" && s.Kernel != "":
		return &SpecError{"image and kernel are mutually exclusive"}
	case s.Image != "" && s.Initramfs != "":
		return &SpecError{"initramfs requires kernel boot"}
	case s.Kernel != "" && s.Initramfs == "":
		return &SpecError{"kernel boot requires an initramfs"}
	}

	return nil
}

// arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) arguments() []Argument {
	args := []Argument{
		RepeatableArg("machine", machineType),
		RepeatableArg("device",
			"pcie-root-port,port=0x10,chassis=1,id=pci.1,bus=pcie.0,"+
				"multifunction=on,addr=0x3"),
		RepeatableArg("device",
			"pcie-root-port,port=0x11,chassis=2,id=pci.2,bus=pcie.0,"+
				"addr=0x3.0x1"),
		RepeatableArg("device",
			"pcie-root-port,port=0x12,chassis=3,id=pci.3,bus=pcie.0,"+
				"addr=0x3.0x2"),
		UniqueArg("vga", "none"),
		UniqueArg("smp", strconv.FormatUint(s.SMP, 10)),
		RepeatableArg("device", "isa-debug-exit"),
		UniqueArg("m", strconv.FormatUint(s.Memory, 10)+"M"),
		RepeatableArg("device", "virtio-rng-pci"),
		RepeatableArg("machine", "accel="+s.accelerators()),
		UniqueArg("cpu", cpuType),
	}

	args = append(args, s.bootArgs()...)

	args = append(args,
		UniqueArg("display", "none"),
		UniqueArg("serial", "stdio"),
		RepeatableArg("virtfs", fmt.Sprintf(
			"local,path=%s,mount_tag=%s,security_model=none,"+
				"multidevs=remap,id=ws",
			s.Workspace,
			s.MountTag,
		)),
	)

	for _, gpu := range s.GPUs {
		args = append(args,
			RepeatableArg("device", "vfio-pci,rombar=0,host="+gpu),
		)
	}

	return args
}

func (s *CommandSpec) accelerators() string {
	if s.NoKVM {
		return "tcg"
	}

	return "kvm:tcg"
}

// bootArgs returns the arguments that differ between the two boot modes.
func (s *CommandSpec) bootArgs() []Argument {
	if s.Kernel != "" {
		return []Argument{
			UniqueArg("kernel", s.Kernel),
			UniqueArg("initrd", s.Initramfs),
			RepeatableArg("append", s.kernelCmdline()),
			// The init program terminates the guest via restart, which
			// must end the QEMU process instead of rebooting.
			UniqueArg("no-reboot"),
		}
	}

	return []Argument{
		UniqueArg("drive", fmt.Sprintf(
			"file=%s,format=raw,if=none,id=hd0,readonly=on",
			s.Image,
		)),
		RepeatableArg("device", "virtio-scsi-pci,bus=pci.2,addr=0x0,id=scsi0"),
		RepeatableArg("device", "scsi-hd,bus=scsi0.0,drive=hd0"),
	}
}

func (s *CommandSpec) kernelCmdline() string {
	cmdline := "console=ttyS0 panic=-1 reboot=t"

	if !s.Verbose {
		cmdline += " quiet"
	}

	return cmdline
}
