// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import "strings"

// stringList is a repeatable [flag.Value] collecting plain strings. An
// empty value clears the list.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(s string) error {
	if s == "" {
		*l = nil
		return nil
	}

	*l = append(*l, s)

	return nil
}
