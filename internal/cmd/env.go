// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// EnvArgs returns vmshim arguments from the environment.
func EnvArgs() []string {
	return strings.Fields(os.Getenv("VMSHIM_ARGS"))
}

// LocalConfigArgs returns vmshim arguments from a local config file.
//
// The file's format is one argument per line. Environment variables may be
// used and are expanded with [os.ExpandEnv]. A missing file is not an
// error.
func LocalConfigArgs(fsys fs.FS, file string) ([]string, error) {
	conf, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read file: %w", err)
	}

	args := []string{}

	expandedConf := os.ExpandEnv(string(conf))
	for _, line := range strings.Split(expandedConf, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			args = append(args, line)
		}
	}

	return args, nil
}

// MergedArgs merges arguments from the local config file, the environment
// and the command line, in that order. Later sources win for unique flags,
// so command line arguments take precedence.
func MergedArgs(args []string, fsys fs.FS, file string) ([]string, error) {
	localArgs, err := LocalConfigArgs(fsys, file)
	if err != nil {
		return nil, err
	}

	merged := make([]string, 0, len(localArgs)+len(args))
	merged = append(merged, localArgs...)
	merged = append(merged, EnvArgs()...)
	merged = append(merged, args...)

	return merged, nil
}
