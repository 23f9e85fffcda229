package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oukeidos/wordlens/internal/export"
	"github.com/oukeidos/wordlens/internal/files"
)

type exportOptions struct {
	book   string
	output string
	yes    bool
}

func newExportCmd(gopts *globalOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a book as Anki-importable CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, gopts, opts)
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	bookFlag(cmd, &opts.book)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output CSV file (default: stdout)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Overwrite output file without asking")
	return cmd
}

func runExport(cmd *cobra.Command, gopts *globalOptions, opts *exportOptions) error {
	return withApp(gopts, func(ctx context.Context, a *app) error {
		id, err := resolveBook(ctx, a.books, opts.book)
		if err != nil {
			return err
		}
		b, err := a.books.Book(ctx, id)
		if err != nil {
			return err
		}
		if opts.output == "" || opts.output == "-" {
			return export.WriteCSV(cmd.OutOrStdout(), b.Entries)
		}

		path, err := exportPath(opts)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, b.Entries); err != nil {
			return err
		}
		if err := files.AtomicWrite(path, buf.Bytes(), 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d word(s) to %s\n", len(b.Entries), path)
		return nil
	})
}

// exportPath asks before overwriting. A declined overwrite writes next to the
// existing file instead.
func exportPath(opts *exportOptions) (string, error) {
	if _, err := os.Stat(opts.output); err != nil {
		return opts.output, nil
	}
	ok, err := confirmer().ConfirmOverwrite(opts.output, opts.yes)
	if err != nil {
		return "", err
	}
	if ok {
		return opts.output, nil
	}
	alt, _, err := files.SafePath(opts.output)
	return alt, err
}
