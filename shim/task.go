// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package shim

import (
	"path/filepath"
)

// Well known descriptor file names, relative to the workspace root.
const (
	// TaskFileName is the task descriptor written by the host before the VM
	// is started.
	TaskFileName = "task.json"
	// TaskResultFileName is the result descriptor written by the guest
	// before the VM exits.
	TaskResultFileName = "task_result.json"
)

// TaskID identifies a task. It is assigned by the caller and echoed back
// unchanged in the result. It is used for correlation only, uniqueness is
// not enforced.
type TaskID = string

// Task is the unit of work handed to the guest.
//
// It is constructed once by the host, serialized into the workspace and
// never mutated afterwards.
type Task struct {
	// ID is the caller assigned task identifier.
	ID TaskID `json:"id"`

	// Args are passed through to the [Executor] verbatim. Their semantics
	// are owned by the executor.
	Args []string `json:"args"`

	// Files are file names interpreted as paths relative to the workspace
	// root the guest has mounted. They are not checked for existence,
	// resolution happens via [Task.WorkspaceFiles].
	Files []string `json:"files"`
}

// Result derives a [TaskResult] from the task. The task's ID is echoed back
// so host and guest agree on which task the result belongs to.
func (t *Task) Result(data []byte, files []string) TaskResult {
	return TaskResult{
		ID:    t.ID,
		Data:  data,
		Files: files,
	}
}

// TaskFile pairs a task file name with its resolved path inside the
// workspace.
type TaskFile struct {
	Name string
	Path string
}

// WorkspaceFiles resolves [Task.Files] against the given workspace root.
//
// It is pure path resolution. No file system access happens and no file is
// required to exist.
func (t *Task) WorkspaceFiles(workspace string) []TaskFile {
	files := make([]TaskFile, len(t.Files))

	for idx, name := range t.Files {
		files[idx] = TaskFile{
			Name: name,
			Path: filepath.Join(workspace, name),
		}
	}

	return files
}

// TaskResult is the outcome produced by the guest.
type TaskResult struct {
	// ID is copied from the originating [Task].
	ID TaskID `json:"id"`

	// Data is the executor's primary output payload.
	Data ByteSeq `json:"data"`

	// Files are file names the executor additionally produced inside the
	// workspace, analogous to [Task.Files] but representing outputs.
	Files []string `json:"files"`
}
