// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"errors"
)

// ErrNotPidOne is returned if [Setup] runs in a process that is not PID 1.
var ErrNotPidOne = errors.New("process does not have ID 1")
