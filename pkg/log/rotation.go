// Log file rotation for the rpt2pnp toolpath encoder
//
// Copyright (C) 2026  rpt2pnp authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// RotatingFileWriter implements io.Writer with automatic size-based
// file rotation. Backups are kept as <name>.1 .. <name>.N, newest first.
type RotatingFileWriter struct {
	mu          sync.Mutex
	filename    string
	maxSize     int64 // maximum file size in bytes before rotation
	maxBackups  int   // maximum number of backup files to keep
	currentSize int64
	file        *os.File
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	// Filename is the path to the log file.
	Filename string

	// MaxSize is the maximum size in megabytes before rotation.
	// Default is 10 MB.
	MaxSize int

	// MaxBackups is the maximum number of old log files to retain.
	// Default is 5.
	MaxBackups int
}

// NewRotatingFileWriter creates a new rotating file writer.
func NewRotatingFileWriter(config RotationConfig) (*RotatingFileWriter, error) {
	if config.Filename == "" {
		return nil, fmt.Errorf("filename is required")
	}

	maxSize := config.MaxSize
	if maxSize <= 0 {
		maxSize = 10
	}

	maxBackups := config.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 5
	}

	w := &RotatingFileWriter{
		filename:   config.Filename,
		maxSize:    int64(maxSize) * 1024 * 1024,
		maxBackups: maxBackups,
	}

	if err := w.openFile(); err != nil {
		return nil, err
	}

	return w, nil
}

// openFile opens or creates the log file and records its current size.
func (w *RotatingFileWriter) openFile() error {
	f, err := os.OpenFile(w.filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	w.file = f
	w.currentSize = info.Size()
	return nil
}

// Write implements io.Writer, rotating first when the write would push
// the file over the size limit.
func (w *RotatingFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentSize+int64(len(p)) > w.maxSize && w.currentSize > 0 {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.currentSize += int64(n)
	return n, err
}

// rotate shifts existing backups up by one and reopens a fresh file.
func (w *RotatingFileWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close for rotation: %w", err)
	}

	// Drop the oldest backup, shift the rest.
	oldest := w.backupName(w.maxBackups)
	if _, err := os.Stat(oldest); err == nil {
		if err := os.Remove(oldest); err != nil {
			return fmt.Errorf("remove oldest backup: %w", err)
		}
	}
	for i := w.maxBackups - 1; i >= 1; i-- {
		src := w.backupName(i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, w.backupName(i+1)); err != nil {
			return fmt.Errorf("shift backup %d: %w", i, err)
		}
	}
	if err := os.Rename(w.filename, w.backupName(1)); err != nil {
		return fmt.Errorf("archive current log: %w", err)
	}

	return w.openFile()
}

// backupName returns the path of the n-th backup file.
func (w *RotatingFileWriter) backupName(n int) string {
	return w.filename + "." + strconv.Itoa(n)
}

// Close closes the underlying file.
func (w *RotatingFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
