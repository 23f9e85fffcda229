package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAboutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Show a short description and link",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "wordlens: English/Chinese word lookup, vocabulary books and Anki sync")
			fmt.Fprintln(out, "Providers: machine translation, Free Dictionary / WordsAPI, OpenAI-compatible or Gemini explanations")
			fmt.Fprintln(out, "https://github.com/oukeidos/wordlens")
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	return cmd
}
