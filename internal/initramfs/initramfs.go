// SPDX-FileCopyrightText: 2026 The vmshim authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package initramfs builds minimal initramfs archives for the kernel boot
// mode.
//
// The archive carries the guest program as "/init" plus any additional
// files in "/files". It deliberately supports static binaries only: the
// guest program is expected to be a Go binary built with CGO disabled.
package initramfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cavaliergopher/cpio"
)

// FilesDir is the archive's directory for additional files beside the
// init program.
const FilesDir = "files"

const (
	execFileMode cpio.FileMode = 0o755
	dirFileMode  cpio.FileMode = cpio.TypeDir | 0o755
)

// Archive describes an initramfs carrying an init program and optional
// additional files.
type Archive struct {
	initPath string
	files    []string
}

// New creates a new [Archive] with the given file as the init program.
func New(initPath string) *Archive {
	return &Archive{initPath: initPath}
}

// AddFiles adds the given files to the archive's [FilesDir]. Each file
// keeps its base name.
func (a *Archive) AddFiles(paths ...string) {
	a.files = append(a.files, paths...)
}

// WriteInto writes the archive in CPIO format to the given writer.
func (a *Archive) WriteInto(writer io.Writer) error {
	cpioWriter := cpio.NewWriter(writer)

	if err := writeRegular(cpioWriter, "init", a.initPath); err != nil {
		return err
	}

	if len(a.files) > 0 {
		err := writeHeader(cpioWriter, &cpio.Header{
			Name: FilesDir,
			Mode: dirFileMode,
		})
		if err != nil {
			return err
		}

		for _, path := range a.files {
			name := filepath.Join(FilesDir, filepath.Base(path))

			if err := writeRegular(cpioWriter, name, path); err != nil {
				return err
			}
		}
	}

	if err := cpioWriter.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	return nil
}

// Write writes the archive to a new temporary file and returns its path.
// It is the caller's responsibility to remove the file when it is no
// longer needed.
func (a *Archive) Write() (string, error) {
	archiveFile, err := os.CreateTemp("", "vmshim-initramfs")
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}
	defer archiveFile.Close()

	if err := a.WriteInto(archiveFile); err != nil {
		_ = os.Remove(archiveFile.Name())
		return "", err
	}

	return archiveFile.Name(), nil
}

func writeRegular(writer *cpio.Writer, name, path string) error {
	source, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	header := &cpio.Header{
		Name: name,
		Mode: execFileMode,
		Size: info.Size(),
	}

	if err := writeHeader(writer, header); err != nil {
		return err
	}

	if _, err := io.Copy(writer, source); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}

func writeHeader(writer *cpio.Writer, header *cpio.Header) error {
	if err := writer.WriteHeader(header); err != nil {
		return fmt.Errorf("write header %s: %w", header.Name, err)
	}

	return nil
}
