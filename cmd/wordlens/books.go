package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/oukeidos/wordlens/internal/prompt"
	"github.com/oukeidos/wordlens/internal/vocab"
)

var confirmer = prompt.DefaultConfirmer

func newAddCmd(gopts *globalOptions) *cobra.Command {
	var book string
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Look up a word and save it to a vocabulary book",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return withApp(gopts, func(ctx context.Context, a *app) error {
				id, err := resolveBook(ctx, a.books, book)
				if err != nil {
					return err
				}
				r, err := a.translator.Translate(ctx, text)
				if err != nil {
					return lookupError(text, err)
				}
				entry, err := a.books.AddEntry(ctx, r, id)
				if errors.Is(err, vocab.ErrDuplicate) {
					fmt.Fprintf(cmd.OutOrStdout(), "%q is already in this book.\n", r.Text)
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s) to %s.\n", entry.Text, entry.PrimaryTranslation, id)
				return nil
			})
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	bookFlag(cmd, &book)
	return cmd
}

func newRemoveCmd(gopts *globalOptions) *cobra.Command {
	var (
		book    string
		addedAt string
	)
	cmd := &cobra.Command{
		Use:   "remove <word>",
		Short: "Remove a word from a vocabulary book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var at time.Time
			if addedAt != "" {
				parsed, err := time.Parse(time.RFC3339, addedAt)
				if err != nil {
					return fmt.Errorf("invalid --added-at (want RFC3339): %w", err)
				}
				at = parsed
			}
			return withApp(gopts, func(ctx context.Context, a *app) error {
				id, err := resolveBook(ctx, a.books, book)
				if err != nil {
					return err
				}
				if err := a.books.RemoveEntry(ctx, id, args[0], at); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from %s.\n", args[0], id)
				return nil
			})
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	bookFlag(cmd, &book)
	cmd.Flags().StringVar(&addedAt, "added-at", "", "Only remove the entry added at this RFC3339 time")
	return cmd
}

func newBooksCmd(gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Manage vocabulary books (lists books if no action given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBooksList(cmd, gopts)
		},
	}
	cmd.SetUsageTemplate(groupUsageTemplate)
	cmd.AddCommand(
		newBooksListCmd(gopts),
		newBooksCreateCmd(gopts),
		newBooksDeleteCmd(gopts),
		newBooksRenameCmd(gopts),
		newBooksUseCmd(gopts),
		newBooksShowCmd(gopts),
	)
	return cmd
}

func newBooksListCmd(gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vocabulary books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBooksList(cmd, gopts)
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	return cmd
}

func runBooksList(cmd *cobra.Command, gopts *globalOptions) error {
	return withApp(gopts, func(ctx context.Context, a *app) error {
		books, err := a.books.ListBooks(ctx)
		if err != nil {
			return err
		}
		current, err := a.books.CurrentBook(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "\tID\tNAME\tWORDS\tUNSYNCED")
		for _, b := range books {
			mark := ""
			if b.ID == current {
				mark = "*"
			}
			unsynced := 0
			for _, e := range b.Entries {
				if e.SyncState == vocab.Unsynced || e.SyncState == "" {
					unsynced++
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", mark, b.ID, b.Name, len(b.Entries), unsynced)
		}
		return tw.Flush()
	})
}

func newBooksCreateCmd(gopts *globalOptions) *cobra.Command {
	var (
		description string
		use         bool
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a vocabulary book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(gopts, func(ctx context.Context, a *app) error {
				id, err := a.books.CreateBook(ctx, args[0], description)
				if err != nil {
					return err
				}
				if use {
					if err := a.books.SetCurrentBook(ctx, id); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created book %q (id %s).\n", args[0], id)
				return nil
			})
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	cmd.Flags().StringVar(&description, "description", "", "Book description")
	cmd.Flags().BoolVar(&use, "use", false, "Make the new book current")
	return cmd
}

func newBooksDeleteCmd(gopts *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <book>",
		Short: "Delete a vocabulary book and its words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(gopts, func(ctx context.Context, a *app) error {
				id, err := resolveBook(ctx, a.books, args[0])
				if err != nil {
					return err
				}
				if id == vocab.DefaultBookID {
					return vocab.ErrProtectedBook
				}
				b, err := a.books.Book(ctx, id)
				if err != nil {
					return err
				}
				ok, err := confirmer().ConfirmDeleteBook(b.Name, len(b.Entries), yes)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				if err := a.books.DeleteBook(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted book %q.\n", b.Name)
				return nil
			})
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func newBooksRenameCmd(gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <book> <name>",
		Short: "Rename a vocabulary book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(gopts, func(ctx context.Context, a *app) error {
				id, err := resolveBook(ctx, a.books, args[0])
				if err != nil {
					return err
				}
				if err := a.books.RenameBook(ctx, id, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q.\n", id, args[1])
				return nil
			})
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	return cmd
}

func newBooksUseCmd(gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <book>",
		Short: "Select the current vocabulary book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(gopts, func(ctx context.Context, a *app) error {
				id, err := resolveBook(ctx, a.books, args[0])
				if err != nil {
					return err
				}
				if err := a.books.SetCurrentBook(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current book: %s\n", id)
				return nil
			})
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	return cmd
}

func newBooksShowCmd(gopts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [book]",
		Short: "List the words of a book (default: current book)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return withApp(gopts, func(ctx context.Context, a *app) error {
				id, err := resolveBook(ctx, a.books, ref)
				if err != nil {
					return err
				}
				b, err := a.books.Book(ctx, id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					enc.SetEscapeHTML(false)
					return enc.Encode(b)
				}
				fmt.Fprintf(out, "%s (%s): %d word(s)\n", b.Name, b.ID, len(b.Entries))
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, e := range b.Entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Text, e.PrimaryTranslation, e.SyncState, e.AddedAt.Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the book as JSON")
	return cmd
}
