package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// readDataFiles returns the concatenated content of every source and the
// source names in order.
func readDataFiles(t *testing.T, files DataFiles) (string, []string) {
	t.Helper()

	defer files.Close()

	var (
		content strings.Builder
		names   []string
	)

	for name, r := range files.All() {
		b, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}

		content.Write(b)
		names = append(names, name)
	}

	return content.String(), names
}

// writeFile creates a file under dir with the given content and returns its
// path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// pipeStdin replaces os.Stdin with a pipe carrying content for the duration
// of the test.
func pipeStdin(t *testing.T, content string) {
	t.Helper()

	oldStdin := os.Stdin
	t.Cleanup(func() { os.Stdin = oldStdin })

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	os.Stdin = r

	go func() {
		defer w.Close()
		io.WriteString(w, content)
	}()
}

// TestWithDataFilesEmpty tests that an empty path list stores no data files.
func TestWithDataFilesEmpty(t *testing.T) {
	if files := dataFilesFrom(WithDataFiles(context.Background(), nil)); files != nil {
		t.Error("WithDataFiles(nil) should store nil")
	}

	if files := dataFilesFrom(WithDataFiles(context.Background(), []string{})); files != nil {
		t.Error("WithDataFiles([]) should store nil")
	}

	if files := dataFilesFrom(context.Background()); files != nil {
		t.Error("dataFilesFrom should return nil without WithDataFiles")
	}
}

// TestWithDataFilesOrder tests that files are yielded in command-line order.
func TestWithDataFilesOrder(t *testing.T) {
	dir := t.TempDir()
	file1 := writeFile(t, dir, "file1.yaml", "first")
	file2 := writeFile(t, dir, "file2.yaml", "second")

	files := dataFilesFrom(WithDataFiles(context.Background(), []string{file2, file1}))
	if files == nil {
		t.Fatal("WithDataFiles should store data files")
	}

	content, names := readDataFiles(t, files)

	if content != "secondfirst" {
		t.Errorf("got %q, want %q", content, "secondfirst")
	}

	if len(names) != 2 || names[0] != file2 || names[1] != file1 {
		t.Errorf("names = %v, want [%s %s]", names, file2, file1)
	}
}

// TestWithDataFilesDuplicatePaths tests deduplication of identical, relative
// and symlinked paths to the same file.
func TestWithDataFilesDuplicatePaths(t *testing.T) {
	dir := t.TempDir()
	real := writeFile(t, dir, "real.yaml", "unique")

	link := filepath.Join(dir, "link.yaml")
	if err := os.Symlink(real, link); err != nil {
		t.Fatal(err)
	}

	t.Chdir(dir)

	files := dataFilesFrom(WithDataFiles(context.Background(), []string{
		real,
		"real.yaml",
		link,
		real,
	}))
	if files == nil {
		t.Fatal("WithDataFiles should store data files")
	}

	content, names := readDataFiles(t, files)

	if content != "unique" {
		t.Errorf("got %q, want %q (file should only be read once)", content, "unique")
	}

	if len(names) != 1 || names[0] != real {
		t.Errorf("names = %v, want [%s]", names, real)
	}
}

// TestWithDataFilesStdinLast tests that stdin is placed last and collapsed to
// a single source.
func TestWithDataFilesStdinLast(t *testing.T) {
	file1 := writeFile(t, t.TempDir(), "file1.yaml", "file")

	pipeStdin(t, "stdin")

	files := dataFilesFrom(WithDataFiles(context.Background(), []string{"-", file1, "-"}))
	if files == nil {
		t.Fatal("WithDataFiles should store data files")
	}

	content, names := readDataFiles(t, files)

	if content != "filestdin" {
		t.Errorf("got %q, want %q (stdin should be last)", content, "filestdin")
	}

	if len(names) != 2 || names[1] != stdinSource {
		t.Errorf("names = %v, want stdin last", names)
	}
}

// TestWithDataFilesNonexistent tests that nonexistent files are skipped and
// that nothing is stored when no file could be opened.
func TestWithDataFilesNonexistent(t *testing.T) {
	file := writeFile(t, t.TempDir(), "exists.yaml", "exists")

	files := dataFilesFrom(WithDataFiles(context.Background(), []string{
		"/nonexistent/path/file.yaml",
		file,
		"/another/nonexistent.yaml",
	}))
	if files == nil {
		t.Fatal("WithDataFiles should store data files when at least one exists")
	}

	if content, _ := readDataFiles(t, files); content != "exists" {
		t.Errorf("got %q, want %q", content, "exists")
	}

	files = dataFilesFrom(WithDataFiles(context.Background(), []string{
		"/nonexistent/path/file1.yaml",
		"/nonexistent/path/file2.yaml",
	}))
	if files != nil {
		t.Error("WithDataFiles should store nil when all files are nonexistent")
	}
}

// TestWithDataFilesEarlyStop tests that breaking out of All stops iteration.
func TestWithDataFilesEarlyStop(t *testing.T) {
	dir := t.TempDir()
	file1 := writeFile(t, dir, "a.yaml", "a")
	file2 := writeFile(t, dir, "b.yaml", "b")

	files := dataFilesFrom(WithDataFiles(context.Background(), []string{file1, file2}))
	defer files.Close()

	n := 0
	for range files.All() {
		n++

		break
	}

	if n != 1 {
		t.Errorf("iterated %d sources, want 1", n)
	}
}
