// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsParseArgs(t *testing.T) {
	absProgram, err := filepath.Abs("image.raw")
	require.NoError(t, err)

	tests := []struct {
		name        string
		args        []string
		assertFlags func(t *testing.T, flags *flags)
		errExpected error
	}{
		{
			name:        "empty",
			errExpected: &ParseArgsError{},
		},
		{
			name:        "workspace only",
			args:        []string{"-workspace=/tmp/ws"},
			errExpected: &ParseArgsError{},
		},
		{
			name: "minimal",
			args: []string{"-workspace=/tmp/ws", "image.raw"},
			assertFlags: func(t *testing.T, flags *flags) {
				t.Helper()
				assert.Equal(t, FilePath("/tmp/ws"), flags.workspace)
				assert.Equal(t, absProgram, flags.program)
				assert.Equal(t, taskIDDefault, flags.taskID)
				assert.Equal(t, uint64(smpDefault), flags.smp)
				assert.Equal(t, uint64(memDefault), flags.memory)
				assert.Empty(t, flags.taskArgs)
			},
		},
		{
			name: "task args",
			args: []string{
				"-workspace=/tmp/ws", "image.raw", "--flag", "value",
			},
			assertFlags: func(t *testing.T, flags *flags) {
				t.Helper()
				assert.Equal(t, []string{"--flag", "value"}, flags.taskArgs)
			},
		},
		{
			name: "all flags",
			args: []string{
				"-workspace=/tmp/ws",
				"-taskID=mytask",
				"-file=input.bin",
				"-file=weights.bin",
				"-gpu=01:00.0",
				"-smp=4",
				"-memory=2048",
				"-nokvm",
				"-verbose",
				"-debug",
				"image.raw",
			},
			assertFlags: func(t *testing.T, flags *flags) {
				t.Helper()
				assert.Equal(t, "mytask", flags.taskID)
				assert.Equal(t,
					stringList{"input.bin", "weights.bin"},
					flags.taskFiles,
				)
				assert.Equal(t, stringList{"01:00.0"}, flags.gpus)
				assert.Equal(t, uint64(4), flags.smp)
				assert.Equal(t, uint64(2048), flags.memory)
				assert.True(t, flags.noKVM)
				assert.True(t, flags.verbose)
				assert.True(t, flags.debug)
			},
		},
		{
			name: "empty file value clears list",
			args: []string{
				"-workspace=/tmp/ws",
				"-file=input.bin",
				"-file=",
				"image.raw",
			},
			assertFlags: func(t *testing.T, flags *flags) {
				t.Helper()
				assert.Empty(t, flags.taskFiles)
			},
		},
		{
			name: "empty task ID",
			args: []string{
				"-workspace=/tmp/ws", "-taskID=", "image.raw",
			},
			errExpected: &ParseArgsError{},
		},
		{
			name: "smp out of range",
			args: []string{
				"-workspace=/tmp/ws", "-smp=0", "image.raw",
			},
			errExpected: &ParseArgsError{},
		},
		{
			name: "memory out of range",
			args: []string{
				"-workspace=/tmp/ws", "-memory=64", "image.raw",
			},
			errExpected: &ParseArgsError{},
		},
		{
			name:        "version",
			args:        []string{"-version"},
			errExpected: ErrHelp,
		},
		{
			name:        "help",
			args:        []string{"-help"},
			errExpected: ErrHelp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newFlags(io.Discard)

			err := flags.ParseArgs(tt.args)

			if tt.errExpected != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.errExpected)

				return
			}

			require.NoError(t, err)

			if tt.assertFlags != nil {
				tt.assertFlags(t, flags)
			}
		})
	}
}
