// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI command entry point for vmshim. It handles
// flag parsing, error handling, and output handling.
package cmd
