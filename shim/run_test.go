// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package shim_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmshim/vmshim/shim"
)

// guestConfig returns a [shim.Config] whose workspace is a fresh temp
// directory that is already listed in a fake mount table.
func guestConfig(t *testing.T) shim.Config {
	t.Helper()

	workspace := t.TempDir()
	table := "tag " + workspace + " 9p rw,relatime 0 0\n"

	return shim.Config{
		Workspace:    workspace,
		MountsFile:   writeMountTable(t, table),
		PollInterval: time.Millisecond,
		MountTimeout: 100 * time.Millisecond,
	}
}

func writeTask(t *testing.T, workspace string, task shim.Task) {
	t.Helper()

	path := filepath.Join(workspace, shim.TaskFileName)
	require.NoError(t, shim.WriteTaskFile(path, &task))
}

func readResult(t *testing.T, workspace string) shim.Envelope {
	t.Helper()

	path := filepath.Join(workspace, shim.TaskResultFileName)

	envelope, err := shim.ReadResultFile(path)
	require.NoError(t, err)

	return envelope
}

func TestRun(t *testing.T) {
	cfg := guestConfig(t)

	writeTask(t, cfg.Workspace, shim.Task{
		ID:   "task01",
		Args: []string{"--x"},
	})

	executor := shim.ExecutorFunc(
		func(_ context.Context, task shim.Task) (shim.TaskResult, error) {
			assert.Equal(t, "task01", task.ID)
			assert.Equal(t, []string{"--x"}, task.Args)

			return task.Result([]byte{1, 2, 3}, nil), nil
		},
	)

	require.NoError(t, shim.Run(context.Background(), cfg, executor))

	result, err := readResult(t, cfg.Workspace).Result()
	require.NoError(t, err)

	assert.Equal(t, "task01", result.ID)
	assert.Equal(t, shim.ByteSeq{1, 2, 3}, result.Data)
}

func TestRun_ExecutorFailure(t *testing.T) {
	cfg := guestConfig(t)

	writeTask(t, cfg.Workspace, shim.Task{ID: "task01"})

	executor := shim.ExecutorFunc(
		func(_ context.Context, _ shim.Task) (shim.TaskResult, error) {
			return shim.TaskResult{}, errors.New("boom")
		},
	)

	// Executor failure is a valid outcome, not a guest failure.
	require.NoError(t, shim.Run(context.Background(), cfg, executor))

	_, err := readResult(t, cfg.Workspace).Result()
	require.ErrorIs(t, err, &shim.ExecutorError{})

	assert.Equal(t, "boom", err.Error())
}

func TestRun_ExecutorPanic(t *testing.T) {
	cfg := guestConfig(t)

	writeTask(t, cfg.Workspace, shim.Task{ID: "task01"})

	executor := shim.ExecutorFunc(
		func(_ context.Context, _ shim.Task) (shim.TaskResult, error) {
			panic("kaput")
		},
	)

	require.NoError(t, shim.Run(context.Background(), cfg, executor))

	_, err := readResult(t, cfg.Workspace).Result()
	require.ErrorIs(t, err, &shim.ExecutorError{})

	assert.Contains(t, err.Error(), "kaput")
}

func TestRun_ResultIDMismatch(t *testing.T) {
	cfg := guestConfig(t)

	writeTask(t, cfg.Workspace, shim.Task{ID: "task01"})

	executor := shim.ExecutorFunc(
		func(_ context.Context, _ shim.Task) (shim.TaskResult, error) {
			return shim.TaskResult{ID: "other"}, nil
		},
	)

	require.NoError(t, shim.Run(context.Background(), cfg, executor))

	_, err := readResult(t, cfg.Workspace).Result()
	require.ErrorIs(t, err, &shim.ExecutorError{})

	assert.Contains(t, err.Error(), "does not match")
}

func TestRun_MissingTask(t *testing.T) {
	cfg := guestConfig(t)

	executor := shim.ExecutorFunc(
		func(_ context.Context, _ shim.Task) (shim.TaskResult, error) {
			t.Fatal("executor must not run without a task")
			return shim.TaskResult{}, nil
		},
	)

	err := shim.Run(context.Background(), cfg, executor)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_MalformedTask(t *testing.T) {
	cfg := guestConfig(t)

	path := filepath.Join(cfg.Workspace, shim.TaskFileName)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	executor := shim.ExecutorFunc(
		func(_ context.Context, _ shim.Task) (shim.TaskResult, error) {
			t.Fatal("executor must not run with a malformed task")
			return shim.TaskResult{}, nil
		},
	)

	err := shim.Run(context.Background(), cfg, executor)
	require.ErrorIs(t, err, &shim.DecodeError{})
}

func TestRun_StaleResult(t *testing.T) {
	cfg := guestConfig(t)

	writeTask(t, cfg.Workspace, shim.Task{ID: "task01"})

	stale := []byte(`{"Err":"stale"}`)
	resultPath := filepath.Join(cfg.Workspace, shim.TaskResultFileName)
	require.NoError(t, os.WriteFile(resultPath, stale, 0o644))

	executor := shim.ExecutorFunc(
		func(_ context.Context, task shim.Task) (shim.TaskResult, error) {
			return task.Result(nil, nil), nil
		},
	)

	err := shim.Run(context.Background(), cfg, executor)
	require.ErrorIs(t, err, os.ErrExist)

	// The stale result must survive unchanged.
	actual, err := os.ReadFile(resultPath)
	require.NoError(t, err)

	assert.Equal(t, stale, actual)
}

func TestRun_MountTimeout(t *testing.T) {
	cfg := shim.Config{
		Workspace:    t.TempDir(),
		MountsFile:   writeMountTable(t, "proc /proc proc rw 0 0\n"),
		PollInterval: time.Millisecond,
		MountTimeout: 20 * time.Millisecond,
	}

	executor := shim.ExecutorFunc(
		func(_ context.Context, _ shim.Task) (shim.TaskResult, error) {
			t.Fatal("executor must not run without the mount")
			return shim.TaskResult{}, nil
		},
	)

	err := shim.Run(context.Background(), cfg, executor)
	require.ErrorIs(t, err, &shim.MountTimeoutError{})
}
