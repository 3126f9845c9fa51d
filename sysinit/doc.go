// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sysinit provides helpers for guest programs that run as the init
// process of the task VM.
//
// A guest binary booted as PID 1 has nothing set up: no /proc, no /dev, no
// workspace share. This package mounts the essential virtual file systems,
// attaches the workspace share by its mount tag and shuts the system down
// when the guest is done. Guests running under a full init system do not
// need any of this and can use the shim package directly.
package sysinit
