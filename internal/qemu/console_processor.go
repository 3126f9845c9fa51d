// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// consoleProcessor relays the guest's serial console to the output writer.
//
// QEMU's serial console emits CRLF line endings, the carriage returns are
// stripped so the output reads like regular host output.
type consoleProcessor struct {
	console io.Reader
	output  io.Writer
}

func (p *consoleProcessor) run() error {
	scanner := bufio.NewScanner(p.console)

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if _, err := fmt.Fprintln(p.output, line); err != nil {
			return &ConsoleError{Err: err}
		}
	}

	if err := scanner.Err(); err != nil {
		return &ConsoleError{Err: err}
	}

	return nil
}
