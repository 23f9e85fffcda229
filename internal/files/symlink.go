package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrSymlink is returned when a write target resolves through a link.
var ErrSymlink = errors.New("refusing to write through a symlink")

// RejectSymlinkPath fails when path, or any ancestor that already exists, is
// a symlink or (on Windows) a reparse point. Missing components are fine.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	for _, p := range lineage(abs) {
		info, err := os.Lstat(p)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("inspect %s: %w", p, err)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s (link at %s)", ErrSymlink, abs, p)
		}
		link, err := isLinkLike(p)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", p, err)
		}
		if link {
			return fmt.Errorf("%w: %s (reparse point at %s)", ErrSymlink, abs, p)
		}
	}
	return nil
}

// lineage lists abs and its ancestors, root first.
func lineage(abs string) []string {
	var out []string
	for p := filepath.Clean(abs); ; {
		out = append(out, p)
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	slices.Reverse(out)
	return out
}
