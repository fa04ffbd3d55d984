/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package sourcefile manages the on-disk lifecycle of the one file a
// Manager is scoped to: backing its original bytes up to a sibling
// file, writing a mutated variant in its place, and restoring the
// original afterwards. Unlike a workdir-style manager that copies an
// entire source tree into a scratch directory up front, this manager
// works file by file, in place, matching the single-file
// backup/restore contract the orchestrator needs between mutation
// runs — and the sibling backup file is what lets a later process
// recognize and recover from a run that was killed mid-mutation.
package sourcefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// backupSuffix names the sibling backup file deterministically, so a
// fresh Manager for the same path can detect it without any other
// bookkeeping.
const backupSuffix = ".mutantia-orig"

// Manager backs up, mutates, and restores a single source file.
type Manager struct {
	path     string
	mode     os.FileMode
	original []byte
	backedUp bool
}

// New returns a Manager for the file at path. It does not touch disk.
func New(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the managed file's path.
func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) backupPath() string {
	return m.path + backupSuffix
}

// Original returns the bytes captured by the last Backup call. It
// panics if called before Backup, since the orchestrator must never
// parse or mutate a file it hasn't snapshotted yet.
func (m *Manager) Original() []byte {
	if !m.backedUp {
		panic("sourcefile: Original called before Backup")
	}

	return m.original
}

// Backup reads and retains the file's current bytes and mode, writing
// them to a sibling backup file before returning, so a later Restore
// — even from a different process, after a crash — can put them back.
// It is idempotent: a second call before Restore is a no-op, so a
// Manager can be reused across multiple mutation attempts on the same
// file.
func (m *Manager) Backup() error {
	if m.backedUp {
		return nil
	}
	info, err := os.Stat(m.path)
	if err != nil {
		return fmt.Errorf("sourcefile: backing up %s: %w", m.path, err)
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("sourcefile: backing up %s: %w", m.path, err)
	}
	if err := m.atomicWrite(m.backupPath(), data, info.Mode()); err != nil {
		return fmt.Errorf("sourcefile: writing backup for %s: %w", m.path, err)
	}
	m.original = data
	m.mode = info.Mode()
	m.backedUp = true

	return nil
}

// WriteMutated atomically replaces the file's contents with mutated,
// writing to a temp file in the same directory and renaming over the
// target so a crash never leaves a half-written file in place.
func (m *Manager) WriteMutated(mutated []byte) error {
	if err := m.atomicWrite(m.path, mutated, m.mode); err != nil {
		return fmt.Errorf("sourcefile: writing %s: %w", m.path, err)
	}

	return nil
}

// ErrBackupRestoreFailed is returned by Restore when the original
// bytes could not be written back to disk. Callers must treat this as
// fatal for the whole run: the source tree may now be left mutated.
var ErrBackupRestoreFailed = errors.New("sourcefile: failed to restore original file, source tree may be left mutated")

// Restore writes the backed-up original bytes back to path and
// removes the sibling backup file. It is idempotent: restoring twice
// in a row is safe, and restoring before a Backup has been recorded
// is a no-op.
func (m *Manager) Restore() error {
	if !m.backedUp {
		return nil
	}
	if err := m.atomicWrite(m.path, m.original, m.mode); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBackupRestoreFailed, m.path, err)
	}
	_ = os.Remove(m.backupPath())

	return nil
}

func (m *Manager) atomicWrite(target string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".mutantia-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)

		return err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)

		return err
	}

	return os.Rename(tmpPath, target)
}

// HasStaleBackup reports whether a sibling backup file exists on disk
// from a previous run that never reached Restore — either this
// Manager's own pending backup, or one left behind by a process that
// was killed mid-mutation.
func (m *Manager) HasStaleBackup() bool {
	_, err := os.Stat(m.backupPath())

	return err == nil
}

// RestoreIfNeeded restores the original file from whatever backup is
// pending — in memory if this Manager produced it, or from the
// on-disk sibling file left by a previous, interrupted run — and
// clears the pending state either way.
func (m *Manager) RestoreIfNeeded() error {
	if m.backedUp {
		err := m.Restore()
		m.backedUp = false

		return err
	}

	data, info, err := readBackup(m.backupPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("sourcefile: reading stale backup for %s: %w", m.path, err)
	}

	if err := m.atomicWrite(m.path, data, info.Mode()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBackupRestoreFailed, m.path, err)
	}
	_ = os.Remove(m.backupPath())

	return nil
}

func readBackup(path string) ([]byte, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	return data, info, nil
}
