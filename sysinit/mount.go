// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"
	"log"
	"os"
	"slices"
)

// FSType is a file system type.
type FSType string

// File system types used by guest setup.
const (
	FSTypeDevTmp FSType = "devtmpfs"
	FSTypeProc   FSType = "proc"
	FSTypeSys    FSType = "sysfs"
	FSTypeTmp    FSType = "tmpfs"
	FSType9p     FSType = "9p"

	defaultDirMode = 0o755
)

// workspace9pData are the mount parameters for a virtio 9p share as
// exposed by the host's launcher.
const workspace9pData = "trans=virtio,version=9p2000.L"

// MountOptions contains parameters for a mount point.
type MountOptions struct {
	// FSType is the file system type. It must be set.
	FSType FSType

	// Source is the source device to mount. If empty, the string of the
	// type is used, which is sufficient for all virtual file systems.
	Source string

	// Data are additional type dependent mount parameters.
	Data string

	// MayFail determines if the mount operation may fail. If set, a mount
	// error does not fail a [MountAll] run. A warning is logged and the
	// next mount point is tried.
	MayFail bool
}

// MountPoints is a set of mount points by path.
type MountPoints map[string]MountOptions

// Mount mounts a file system of the given type at path.
//
// If path does not exist, it is created.
func Mount(path string, opts MountOptions) error {
	if err := os.MkdirAll(path, defaultDirMode); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}

	return mount(path, opts.Source, string(opts.FSType), opts.Data)
}

// MountAll mounts the given set of file systems in lexicographic order of
// the paths, so nested mount points work regardless of map iteration
// order.
func MountAll(mountPoints MountPoints) error {
	for _, path := range sortedPaths(mountPoints) {
		opts := mountPoints[path]

		err := Mount(path, opts)
		if err == nil {
			continue
		}

		if !opts.MayFail {
			return err
		}

		log.Print("WARN optional mount failed: ", err.Error())
	}

	return nil
}

// MountWorkspace attaches the workspace share with the given mount tag at
// path via virtio 9p.
func MountWorkspace(tag, path string) error {
	return Mount(path, MountOptions{
		FSType: FSType9p,
		Source: tag,
		Data:   workspace9pData,
	})
}

func sortedPaths(mountPoints MountPoints) []string {
	paths := make([]string, 0, len(mountPoints))
	for path := range mountPoints {
		paths = append(paths, path)
	}

	slices.Sort(paths)

	return paths
}
