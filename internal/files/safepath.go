package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxNumberedCandidates = 9

// SafePath returns path when nothing exists there; otherwise the first free
// name among path_1 .. path_9 before the extension, then a short UUID suffix.
// The bool reports whether the name changed.
func SafePath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		return "", false, fmt.Errorf("path is empty")
	}
	free, err := notExist(path)
	if err != nil || free {
		return path, false, err
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i <= maxNumberedCandidates; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		free, err := notExist(candidate)
		if err != nil {
			return "", false, err
		}
		if free {
			return candidate, true, nil
		}
	}
	return fmt.Sprintf("%s_%s%s", base, uuid.NewString()[:8], ext), true, nil
}

func notExist(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, os.ErrNotExist):
		return true, nil
	default:
		return false, err
	}
}
