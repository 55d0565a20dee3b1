// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"fmt"
	"os"
	"path/filepath"
)

// MemSink collects decoded files in save order. Useful for tests and
// for callers that post-process entries programmatically.
type MemSink struct {
	Files []*File
}

// Save appends one decoded file.
func (s *MemSink) Save(f *File) error {
	if f == nil {
		return ErrNilFile
	}

	s.Files = append(s.Files, f)
	return nil
}

// SaveFileMode controls output file open behavior in DirSink.
type SaveFileMode string

// Output file creation policies.
const (
	// SaveFileModeAuto first tries create-only, then falls back to
	// truncate for existing files.
	SaveFileModeAuto SaveFileMode = "auto"
	// SaveFileModeTruncate opens existing files with truncate and
	// creates missing files.
	SaveFileModeTruncate SaveFileMode = "truncate"
	// SaveFileModeCreateOnly creates files only when absent and fails
	// on existing files.
	SaveFileModeCreateOnly SaveFileMode = "create_only"
)

// SaveOptions configures DirSink behavior.
type SaveOptions struct {
	// OnSaved is called after one file is fully written to disk.
	OnSaved func(name string, written int64, outputPath string) `json:"-" yaml:"-"`
	// FileMode controls output file creation policy.
	FileMode SaveFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// RawNames disables default name sanitization. Traversal and
	// absolute paths are rejected regardless.
	RawNames bool `json:"raw_names,omitempty" yaml:"raw_names,omitempty"`
}

// applyDefaults fills zero-valued save options with defaults.
func (opts *SaveOptions) applyDefaults() {
	if opts.FileMode == "" {
		opts.FileMode = SaveFileModeAuto
	}
}

// DirSink persists decoded files under a root directory. Entry names
// are sanitized to filesystem-safe form by default; absolute and
// traversal paths are always rejected.
type DirSink struct {
	root string
	opts SaveOptions
}

// NewDirSink builds a sink rooted at dir, creating it when missing.
func NewDirSink(dir string, opts SaveOptions) (*DirSink, error) {
	opts.applyDefaults()

	rootAbs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(rootAbs, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	return &DirSink{root: rootAbs, opts: opts}, nil
}

// Root returns the absolute output root directory.
func (s *DirSink) Root() string {
	return s.root
}

// Save writes one decoded file under the sink root.
func (s *DirSink) Save(f *File) error {
	if f == nil {
		return ErrNilFile
	}

	relPath, err := s.resolveName(f.Name)
	if err != nil {
		return fmt.Errorf("entry %q: %w", f.Name, err)
	}

	outPath := filepath.Join(s.root, filepath.FromSlash(relPath))
	if dir := filepath.Dir(outPath); dir != s.root {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	file, err := openSinkFile(outPath, s.opts.FileMode)
	if err != nil {
		return fmt.Errorf("open %s: %w", relPath, err)
	}

	written, writeErr := file.Write(f.Data)
	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("write %s: %w", relPath, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", relPath, closeErr)
	}

	if s.opts.OnSaved != nil {
		s.opts.OnSaved(f.Name, int64(written), outPath)
	}

	return nil
}

// resolveName maps an entry name to a safe relative output path.
func (s *DirSink) resolveName(name string) (string, error) {
	if s.opts.RawNames {
		return normalizeSinkEntryPath(name)
	}

	sanitized, err := SanitizePath(name)
	if err != nil {
		return "", err
	}
	if sanitized == "" {
		return "", ErrInvalidEntryPath
	}

	return sanitized, nil
}

// openSinkFile opens an output path according to the selected mode.
func openSinkFile(path string, mode SaveFileMode) (*os.File, error) {
	switch mode {
	case SaveFileModeAuto:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return file, nil
		}

		if !os.IsExist(err) {
			return nil, err
		}

		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case SaveFileModeTruncate:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case SaveFileModeCreateOnly:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	default:
		return nil, fmt.Errorf("unknown save file mode %q", mode)
	}
}
