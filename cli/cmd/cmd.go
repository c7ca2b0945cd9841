package cmd

import (
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	dataFilesKey struct{}
	bindingsKey  struct{}

	dataFile struct {
		name string
		file *os.File
	}

	dataFiles struct {
		files    []dataFile
		hasStdin bool
	}

	// DataFiles is the ordered, deduplicated set of data sources named on
	// the command line.
	DataFiles interface {
		IsZero() bool
		// All yields each source by name, regular files first and stdin last.
		All() iter.Seq2[string, io.Reader]
		io.Closer
	}
)

// IsZero reports whether there are no data files.
func (s *dataFiles) IsZero() bool { return len(s.files) == 0 && !s.hasStdin }

// All implements [DataFiles].
func (s *dataFiles) All() iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for _, f := range s.files {
			if !yield(f.name, f.file) {
				return
			}
		}

		if s.hasStdin {
			yield(stdinSource, os.Stdin)
		}
	}
}

// Close closes every regular file. Stdin is left open.
func (s *dataFiles) Close() error {
	var errs []error

	for _, f := range s.files {
		errs = append(errs, f.file.Close())
	}

	return errors.Join(errs...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithDataFiles returns a new context.Context containing the [DataFiles]
// opened from the given paths.
//
// Paths are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin source,
// placed last so it is read after all regular files.
func WithDataFiles(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, dataFilesKey{}, buildDataFiles(paths))
}

// WithBindings returns a new context.Context containing the name=expr
// bindings applied after the data files are decoded.
func WithBindings(ctx context.Context, bindings []string) context.Context {
	return context.WithValue(ctx, bindingsKey{}, bindings)
}

// buildDataFiles opens the given paths as DataFiles, or returns nil if none
// could be opened.
func buildDataFiles(paths []string) DataFiles {
	if len(paths) == 0 {
		return nil
	}

	var srcs dataFiles

	srcs.files = make([]dataFile, 0, len(paths))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, path := range paths {
		if path == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		file, ok := openUniqueFile(path, seen)
		if !ok {
			continue
		}

		srcs.files = append(srcs.files, dataFile{name: path, file: file})
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	delete(seen, stdinKey)

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the opened file and true if successful, or nil and false if the file
// is a duplicate or cannot be opened.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if info is nil or its Sys() data is not a *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// dataFilesFrom retrieves the DataFiles stored in ctx by WithDataFiles.
// Returns nil if none were stored.
func dataFilesFrom(ctx context.Context) DataFiles {
	r, _ := ctx.Value(dataFilesKey{}).(DataFiles)

	return r
}

// bindingsFrom retrieves the bindings stored in ctx by WithBindings.
func bindingsFrom(ctx context.Context) []string {
	b, _ := ctx.Value(bindingsKey{}).([]string)

	return b
}
