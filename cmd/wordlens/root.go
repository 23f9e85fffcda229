package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oukeidos/wordlens/internal/cleanup"
	"github.com/oukeidos/wordlens/internal/version"
)

type globalOptions struct {
	configPath string
	debug      bool
	logFile    string
	allowEnv   bool
}

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "wordlens",
		Short: "English/Chinese word lookup with vocabulary books and Anki sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if hasAnyFlagSet(cmd) {
					_ = cmd.Usage()
					return fmt.Errorf("a command is required")
				}
				return cmd.Help()
			}
			if isSubcommand(cmd, args[0]) {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return runLookup(cmd, opts, args, &lookupOptions{})
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(opts, nil)
		},
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to the YAML config file (default $WORDLENS_CONFIG)")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&opts.logFile, "log-file", "", "Path to save machine-readable JSONL logs")
	pf.BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading API keys from environment variables")

	cmd.AddCommand(
		newAboutCmd(),
		newLookupCmd(opts),
		newWatchCmd(opts),
		newAddCmd(opts),
		newRemoveCmd(opts),
		newBooksCmd(opts),
		newSyncCmd(opts),
		newExportCmd(opts),
		newHarvestCmd(opts),
		newSettingsCmd(opts),
		newEnvCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.Short = "Generate the autocompletion script for the specified shell"
			sub.SetUsageTemplate(groupUsageTemplate)
			break
		}
	}

	return cmd
}

func hasAnyFlagSet(cmd *cobra.Command) bool {
	changed := false
	cmd.Flags().Visit(func(_ *pflag.Flag) {
		changed = true
	})
	return changed
}

func isSubcommand(cmd *cobra.Command, name string) bool {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}
