package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/wordlens/internal/flashcard"
	"github.com/oukeidos/wordlens/internal/logger"
)

type syncOptions struct {
	book  string
	deck  string
	audio bool
}

func newSyncCmd(gopts *globalOptions) *cobra.Command {
	opts := &syncOptions{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push unsynced words of a book to Anki through AnkiConnect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, gopts, opts)
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	bookFlag(cmd, &opts.book)
	cmd.Flags().StringVar(&opts.deck, "deck", "", "Anki deck (default: anki.deck from config, then the book name)")
	cmd.Flags().BoolVar(&opts.audio, "audio", false, "Attach pronunciation audio (default: anki.audio from config)")
	return cmd
}

func runSync(cmd *cobra.Command, gopts *globalOptions, opts *syncOptions) error {
	return withApp(gopts, func(ctx context.Context, a *app) error {
		id, err := resolveBook(ctx, a.books, opts.book)
		if err != nil {
			return err
		}
		sopts := flashcard.Options{Deck: a.cfg.Anki.Deck, Audio: a.cfg.Anki.Audio}
		if opts.deck != "" {
			sopts.Deck = opts.deck
		}
		if cmd.Flags().Changed("audio") {
			sopts.Audio = opts.audio
		}

		out := cmd.OutOrStdout()
		syncer := flashcard.NewSyncer(a.remote, a.books, a.speech, sopts)
		report, err := syncer.Sync(ctx, id, func(done, total int, word string) {
			logger.Info("Synced entry", "index", done, "total", total, "word", word)
		})
		fmt.Fprintf(out, "Deck %q: added %d, skipped %d, failed %d\n", report.Deck, report.Added, report.Skipped, len(report.Errors))
		for _, e := range report.Errors {
			fmt.Fprintf(out, "  %s: %s\n", e.Word, e.Message)
		}
		if err != nil {
			return err
		}
		if len(report.Errors) > 0 {
			return fmt.Errorf("%d word(s) failed to sync", len(report.Errors))
		}
		return nil
	})
}
