package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oukeidos/wordlens/internal/harvest"
	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/logger"
	"github.com/oukeidos/wordlens/internal/vocab"
)

type harvestOptions struct {
	book   string
	lang   string
	dryRun bool
}

var supportedSubtitleExtensions = map[string]struct{}{
	".srt":  {},
	".vtt":  {},
	".ssa":  {},
	".ass":  {},
	".ttml": {},
	".stl":  {},
}

const supportedSubtitleExtensionsLabel = ".srt, .vtt, .ssa, .ass, .ttml, .stl"

func validateSubtitleExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedSubtitleExtensions[ext]; ok {
		return nil
	}
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Errorf("unsupported subtitle extension %q (supported: %s)", ext, supportedSubtitleExtensionsLabel)
}

// parseLangFlag resolves a --lang value. Empty means every language.
func parseLangFlag(value string) (language.ID, error) {
	if strings.TrimSpace(value) == "" {
		return language.None, nil
	}
	l, ok := language.Parse(value)
	if !ok {
		return language.None, fmt.Errorf("unsupported language %q (supported: %s)", value, language.SupportedLabel())
	}
	return l.ID, nil
}

func newHarvestCmd(gopts *globalOptions) *cobra.Command {
	opts := &harvestOptions{}
	cmd := &cobra.Command{
		Use:   "harvest <subtitle>",
		Short: "Look up every new word of a subtitle file and save it to a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHarvest(cmd, gopts, args[0], opts)
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	bookFlag(cmd, &opts.book)
	cmd.Flags().StringVar(&opts.lang, "lang", "", "Only harvest words of one language: "+language.SupportedLabel()+"; BCP 47 tags such as zh-CN also work")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Only list the words that would be looked up")
	return cmd
}

func runHarvest(cmd *cobra.Command, gopts *globalOptions, path string, opts *harvestOptions) error {
	if err := validateSubtitleExtension(path); err != nil {
		return err
	}
	only, err := parseLangFlag(opts.lang)
	if err != nil {
		return err
	}
	words, err := harvest.Load(path, only)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if opts.dryRun {
		for _, w := range words {
			fmt.Fprintln(out, w)
		}
		fmt.Fprintf(out, "%d word(s)\n", len(words))
		return nil
	}

	return withApp(gopts, func(ctx context.Context, a *app) error {
		id, err := resolveBook(ctx, a.books, opts.book)
		if err != nil {
			return err
		}
		var added, existing, failed int
		for i, w := range words {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := a.translator.Translate(ctx, w)
			if err != nil {
				logger.Warn("Lookup failed", "word", w, "error", lookupError(w, err))
				failed++
				continue
			}
			if _, err := a.books.AddEntry(ctx, r, id); err != nil {
				if errors.Is(err, vocab.ErrDuplicate) {
					existing++
					continue
				}
				return err
			}
			added++
			logger.Debug("Harvested word", "index", i+1, "total", len(words), "word", w)
		}
		fmt.Fprintf(out, "Added %d, already saved %d, failed %d (of %d words)\n", added, existing, failed, len(words))
		return nil
	})
}
