// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package shim implements the guest side of the vmshim task protocol.
//
// A host process writes a task descriptor into a directory that is shared
// with an ephemeral virtual machine. The guest program, built with this
// package, waits for the shared directory to be mounted, reads the task,
// runs a caller supplied [Executor] and persists the outcome as a result
// descriptor. The shared directory is the only communication channel
// between host and guest.
//
// A minimal guest program looks like this:
//
//	func main() {
//	    executor := shim.ExecutorFunc(
//	        func(ctx context.Context, t shim.Task) (shim.TaskResult, error) {
//	            return t.Result([]byte("done"), nil), nil
//	        },
//	    )
//
//	    err := shim.Run(context.Background(), shim.DefaultConfig(), executor)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// The result file is created with O_EXCL, so at most one result is ever
// written per workspace. Executor failures do not fail the guest run: they
// are recorded in the failure arm of the result envelope so the host can
// distinguish "the callback failed" from "the VM never produced a result".
package shim
