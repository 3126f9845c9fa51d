// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"
)

const (
	name = "vmshim"

	taskIDDefault = "task01"

	memDefault = 512
	memMin     = 128
	memMax     = 65536

	smpDefault = 1
	smpMin     = 1
	smpMax     = 64

	usageMessage = `Usage of 'vmshim':
    vmshim -workspace=dir [flags...] program [taskargs...]

The program is booted in a QEMU VM with the workspace directory shared
into the guest. The task described by the flags and the task arguments is
staged in the workspace before boot and the task result is collected from
the workspace after the VM has terminated. The result payload is written
to stdout.

By default the program is a bootable disk image. With -kernel given, the
program is a static guest binary instead and is booted directly as init of
a generated initramfs.

All vmshim flags can also be provided via environment variable VMSHIM_ARGS:
	VMSHIM_ARGS="-workspace=/tmp/ws -debug" vmshim ./image

All vmshim flags can also be provided via file ./.vmshim-args, with one
argument per line.
`
)

type flags struct {
	flagSet *flag.FlagSet

	workspace FilePath
	kernel    FilePath
	program   string
	qemuBin   string
	taskID    string
	taskArgs  []string
	taskFiles stringList
	gpus      stringList
	smp       uint64
	memory    uint64
	noKVM     bool
	verbose   bool
	debug     bool
	version   bool
}

func newFlags(output io.Writer) *flags {
	flags := &flags{
		taskID: taskIDDefault,
		smp:    smpDefault,
		memory: memDefault,
	}

	flags.initFlagset(output)

	return flags
}

func (f *flags) ParseArgs(args []string) error {
	// Parses arguments up to the first one that is not prefixed with a "-"
	// or is "--".
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	if f.workspace == "" {
		return f.fail("no workspace given (use -workspace)", nil)
	}

	if f.taskID == "" {
		return f.fail("task ID must not be empty", nil)
	}

	positionalArgs := f.flagSet.Args()

	// First positional argument is the guest program, either a bootable
	// disk image or, with -kernel given, a static init binary.
	if len(positionalArgs) < 1 {
		return f.fail("no program given", nil)
	}

	program, err := AbsoluteFilePath(positionalArgs[0])
	if err != nil {
		return f.fail("program path", err)
	}

	f.program = program

	// All further positional arguments are recorded in the task descriptor
	// and passed to the guest executor.
	f.taskArgs = positionalArgs[1:]

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.Var(
		&f.workspace,
		"workspace",
		"host directory shared with the guest",
	)

	flagSet.StringVar(
		&f.taskID,
		"taskID",
		f.taskID,
		"ID the task is staged and correlated with",
	)

	flagSet.Var(
		&f.taskFiles,
		"file",
		"workspace relative file name recorded in the task descriptor. "+
			"Flag may be used more than once. Empty value clears the list.",
	)

	flagSet.Var(
		&f.gpus,
		"gpu",
		"host PCI address of a GPU to pass through, e.g. 01:00.0. "+
			"Flag may be used more than once. Empty value clears the list.",
	)

	flagSet.StringVar(
		&f.qemuBin,
		"qemuBin",
		f.qemuBin,
		"QEMU binary to use (default qemu-system-x86_64)",
	)

	flagSet.Var(
		&f.kernel,
		"kernel",
		"kernel to boot directly instead of a disk image",
	)

	flagSet.Var(
		&limitedUintValue{
			Value: &f.memory,
			min:   memMin,
			max:   memMax,
		},
		"memory",
		"memory (in MB) for the QEMU VM",
	)

	flagSet.Var(
		&limitedUintValue{
			Value: &f.smp,
			min:   smpMin,
			max:   smpMax,
		},
		"smp",
		"number of CPUs for the QEMU VM",
	)

	flagSet.BoolVar(
		&f.noKVM,
		"nokvm",
		f.noKVM,
		"disable hardware support",
	)

	flagSet.BoolVar(
		&f.verbose,
		"verbose",
		f.verbose,
		"enable verbose guest system output",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
