// Package cleanup runs process-exit hooks such as closing the database pool
// and the log file.
package cleanup

import (
	"errors"
	"fmt"
	"sync"
)

type hook struct {
	name string
	run  func() error
}

var (
	mu    sync.Mutex
	hooks []hook
)

// Register adds a named hook. Hooks run in reverse registration order, so a
// resource opened later is released first.
func Register(name string, fn func() error) {
	if fn == nil {
		return
	}
	mu.Lock()
	hooks = append(hooks, hook{name: name, run: fn})
	mu.Unlock()
}

// RegisterFunc adds a hook that cannot fail.
func RegisterFunc(name string, fn func()) {
	if fn == nil {
		return
	}
	Register(name, func() error {
		fn()
		return nil
	})
}

// RunAll executes every registered hook once. Failures are joined, each
// prefixed with its hook name.
func RunAll() error {
	mu.Lock()
	pending := hooks
	hooks = nil
	mu.Unlock()

	var errs []error
	for i := len(pending) - 1; i >= 0; i-- {
		h := pending[i]
		if err := h.run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("cleanup failed: %w", errors.Join(errs...))
}
