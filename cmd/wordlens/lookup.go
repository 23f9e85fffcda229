package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/oukeidos/wordlens/internal/files"
	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/logger"
	"github.com/oukeidos/wordlens/internal/lookup"
	"github.com/oukeidos/wordlens/internal/translator"
)

type lookupOptions struct {
	json     bool
	audioDir string
}

func newLookupCmd(gopts *globalOptions) *cobra.Command {
	opts := &lookupOptions{}
	cmd := &cobra.Command{
		Use:   "lookup <text>",
		Short: "Translate or explain a word or short phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, gopts, args, opts)
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	cmd.Flags().StringVar(&opts.audioDir, "audio-dir", "", "Save pronunciation audio into this directory (also used when autoSpeak is on)")
	return cmd
}

func runLookup(cmd *cobra.Command, gopts *globalOptions, args []string, opts *lookupOptions) error {
	text := strings.Join(args, " ")
	return withApp(gopts, func(ctx context.Context, a *app) error {
		r, err := a.translator.Translate(ctx, text)
		if err != nil {
			return lookupError(text, err)
		}
		out := cmd.OutOrStdout()
		if opts.json {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(r.Display())
		}
		printResult(out, r)
		if dir := audioDir(a, opts); dir != "" {
			if path := saveAudio(ctx, a, r, dir); path != "" {
				fmt.Fprintf(out, "Audio: %s\n", path)
			}
		}
		return nil
	})
}

// audioDir is the --audio-dir flag, or <data dir>/audio when autoSpeak is on.
func audioDir(a *app, opts *lookupOptions) string {
	if opts.audioDir != "" {
		return opts.audioDir
	}
	if !a.settings.Current().AutoSpeak {
		return ""
	}
	dir, err := a.cfg.DataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "audio")
}

func saveAudio(ctx context.Context, a *app, r lookup.Result, dir string) string {
	audio, err := a.speech.Fetch(ctx, r.Text, r.Language)
	if err != nil || audio == nil {
		return ""
	}
	path := filepath.Join(dir, audio.Filename)
	if err := files.AtomicWrite(path, audio.Data, 0644); err != nil {
		logger.Warn("Failed to save audio", "path", path, "error", err)
		return ""
	}
	return path
}

func printResult(w io.Writer, r lookup.Result) {
	r = r.Display()
	fmt.Fprintf(w, "%s  %s  [%s · %s]\n", r.Text, r.Pronunciation, r.Language, r.Source)
	fmt.Fprintln(w, r.PrimaryTranslation)
	if r.Explanation != "" && r.Explanation != r.PrimaryTranslation {
		fmt.Fprintln(w, r.Explanation)
	}
	for i, d := range r.Definitions {
		if d.PartOfSpeech != "" {
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, d.PartOfSpeech, d.Meaning)
		} else {
			fmt.Fprintf(w, "  %d. %s\n", i+1, d.Meaning)
		}
		if d.ExampleSource != "" {
			fmt.Fprintf(w, "     %s\n", d.ExampleSource)
		}
		if d.ExampleTarget != "" {
			fmt.Fprintf(w, "     %s\n", d.ExampleTarget)
		}
	}
	sep := ", "
	if r.Language == language.Chinese {
		sep = "、"
	}
	printList(w, "Synonyms", r.Synonyms, sep)
	printList(w, "Antonyms", r.Antonyms, sep)
	printList(w, "Phrases", r.Phrases, sep)
	if r.Etymology != "" {
		fmt.Fprintf(w, "Etymology: %s\n", r.Etymology)
	}
	if r.Usage != "" {
		fmt.Fprintf(w, "Usage: %s\n", r.Usage)
	}
	if r.NoDictionaryData {
		fmt.Fprintln(w, "(no dictionary data)")
	}
}

func printList(w io.Writer, label string, items []string, sep string) {
	if len(items) > 0 {
		fmt.Fprintf(w, "%s: %s\n", label, strings.Join(items, sep))
	}
}

var watchInput io.Reader = os.Stdin

func newWatchCmd(gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Look up every line read from stdin; a newer line supersedes an older lookup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, gopts, watchInput)
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	return cmd
}

// runWatch starts one lookup per line. A result is printed only if no newer
// line arrived while it was in flight.
func runWatch(cmd *cobra.Command, gopts *globalOptions, in io.Reader) error {
	return withApp(gopts, func(ctx context.Context, a *app) error {
		if !a.settings.Current().Enabled {
			return fmt.Errorf("lookups are disabled; run 'wordlens settings set enabled true'")
		}
		var (
			slot translator.Slot
			mu   sync.Mutex
			wg   sync.WaitGroup
		)
		out := cmd.OutOrStdout()
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			ticket := slot.Begin(line)
			wg.Add(1)
			go func() {
				defer wg.Done()
				r, err := a.translator.Translate(ctx, ticket.Text)
				if !slot.Current(ticket) {
					logger.Debug("Dropping superseded lookup", "word", ticket.Text)
					return
				}
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", ticket.Text, lookupError(ticket.Text, err))
					return
				}
				printResult(out, r)
				fmt.Fprintln(out)
			}()
		}
		wg.Wait()
		return scanner.Err()
	})
}
