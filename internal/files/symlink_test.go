package files

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func skipWithoutSymlinks(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlink not permitted on Windows")
	}
}

func TestRejectSymlinkPath(t *testing.T) {
	skipWithoutSymlinks(t)
	tmp := t.TempDir()
	booksDir := filepath.Join(tmp, "books", "nested")
	if err := os.MkdirAll(booksDir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	target := filepath.Join(booksDir, "local.json")
	if err := os.WriteFile(target, []byte("{}"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(tmp, "file-link.json")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(tmp, "books"), filepath.Join(tmp, "dir-link")); err != nil {
		t.Fatalf("symlink dir: %v", err)
	}

	cases := []struct {
		name    string
		path    string
		rejects bool
	}{
		{"plain file", target, false},
		{"missing file in real dir", filepath.Join(booksDir, "new.csv"), false},
		{"missing dirs", filepath.Join(tmp, "a", "b", "c.csv"), false},
		{"file symlink", filepath.Join(tmp, "file-link.json"), true},
		{"through parent symlink", filepath.Join(tmp, "dir-link", "out.csv"), true},
		{"through ancestor symlink", filepath.Join(tmp, "dir-link", "nested", "out.csv"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RejectSymlinkPath(tc.path)
			if tc.rejects && !errors.Is(err, ErrSymlink) {
				t.Fatalf("RejectSymlinkPath(%s) = %v, want ErrSymlink", tc.path, err)
			}
			if !tc.rejects && err != nil {
				t.Fatalf("RejectSymlinkPath(%s) = %v, want nil", tc.path, err)
			}
		})
	}
}

func TestRejectSymlinkPath_Empty(t *testing.T) {
	if err := RejectSymlinkPath("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLineage(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
	got := lineage("/a/b/c")
	want := []string{"/", "/a", "/a/b", "/a/b/c"}
	if len(got) != len(want) {
		t.Fatalf("lineage = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lineage = %v, want %v", got, want)
		}
	}
}
