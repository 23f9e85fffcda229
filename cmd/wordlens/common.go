package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oukeidos/wordlens/internal/apperrors"
	"github.com/oukeidos/wordlens/internal/auth"
	"github.com/oukeidos/wordlens/internal/cleanup"
	"github.com/oukeidos/wordlens/internal/config"
	"github.com/oukeidos/wordlens/internal/files"
	"github.com/oukeidos/wordlens/internal/logger"
	"github.com/oukeidos/wordlens/internal/translator"
	"github.com/oukeidos/wordlens/internal/vocab"
)

var (
	isTerminal   = term.IsTerminal
	getStatus    = auth.GetStatus
	promptForKey = auth.PromptForAPIKey
	saveKey      = auth.SaveKey
	deleteKey    = auth.DeleteKey
	getEnvKey    = func(service string) (string, bool) {
		key := strings.TrimSpace(os.Getenv(auth.EnvVar(service)))
		return key, key != ""
	}
)

// initLogging applies --debug and --log-file, falling back to the log section
// of the config file once it is loaded. Flags win over the file.
func initLogging(opts *globalOptions, cfg *config.LogConfig) error {
	level := logger.LevelInfo
	path := opts.logFile
	if cfg != nil {
		parsed, err := logger.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		level = parsed
		if path == "" {
			path = cfg.File
		}
	}
	if opts.debug {
		level = logger.LevelDebug
	}
	var logFileW io.Writer
	if path != "" {
		if err := files.RejectSymlinkPath(path); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register("log file", f.Close)
		logFileW = f
	}
	logger.Init(level, logFileW)
	return nil
}

// withApp builds the runtime and runs fn under a context cancelled by SIGINT/SIGTERM.
func withApp(opts *globalOptions, fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signalContext()
	defer stop()
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	return fn(ctx, a)
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}

// resolveBook accepts a book id or a case-insensitive name. Empty selects the
// current book.
func resolveBook(ctx context.Context, books *vocab.Store, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return books.CurrentBook(ctx)
	}
	list, err := books.ListBooks(ctx)
	if err != nil {
		return "", err
	}
	for _, b := range list {
		if b.ID == ref {
			return b.ID, nil
		}
	}
	for _, b := range list {
		if strings.EqualFold(b.Name, ref) {
			return b.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", vocab.ErrBookNotFound, ref)
}

// lookupError turns a translator error into the text shown to the user.
func lookupError(text string, err error) error {
	var exhausted *translator.ExhaustedError
	switch {
	case errors.Is(err, translator.ErrUnclassified):
		return fmt.Errorf("nothing to translate: %q is not an English or Chinese word", text)
	case errors.As(err, &exhausted):
		return fmt.Errorf("translation failed: %s", exhausted.Reason())
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("translation failed: %s", apperrors.PublicMessage(err))
	}
}

func bookFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "book", "", "Vocabulary book id or name (default: current book)")
}
