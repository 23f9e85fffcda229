package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oukeidos/wordlens/internal/apperrors"
	"github.com/oukeidos/wordlens/internal/explain"
	"github.com/oukeidos/wordlens/internal/lookup"
	"github.com/oukeidos/wordlens/internal/settings"
)

// settingSetters maps a settings key to its parser.
var settingSetters = map[string]func(s *settings.Settings, v string) error{
	"enabled":   boolSetter(func(s *settings.Settings) *bool { return &s.Enabled }),
	"autoSpeak": boolSetter(func(s *settings.Settings) *bool { return &s.AutoSpeak }),
	"clipboard": boolSetter(func(s *settings.Settings) *bool { return &s.ClipboardEnabled }),
	"enrich":    boolSetter(func(s *settings.Settings) *bool { return &s.DictionaryEnrich }),
	"service": func(s *settings.Settings, v string) error {
		src, ok := lookup.ParseSource(v)
		if !ok {
			return fmt.Errorf("unknown translation service %q (want machine-translation, dictionary or explanation)", v)
		}
		s.TranslationService = src
		return nil
	},
	"explain.backend": func(s *settings.Settings, v string) error {
		s.Explain.Backend = v
		return nil
	},
	"explain.baseUrl": func(s *settings.Settings, v string) error {
		s.Explain.BaseURL = v
		return nil
	},
	"explain.model": func(s *settings.Settings, v string) error {
		s.Explain.Model = v
		return nil
	},
	"explain.preset": func(s *settings.Settings, v string) error {
		p, ok := explain.PresetByName(v)
		if !ok {
			return fmt.Errorf("unknown preset %q", v)
		}
		s.Explain.Backend = settings.BackendOpenAI
		s.Explain.BaseURL = p.BaseURL
		s.Explain.Model = p.Model
		return nil
	},
}

func boolSetter(field func(*settings.Settings) *bool) func(*settings.Settings, string) error {
	return func(s *settings.Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("want true or false, got %q", v)
		}
		*field(s) = b
		return nil
	}
}

func settingKeys() []string {
	keys := make([]string, 0, len(settingSetters))
	for k := range settingSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newSettingsCmd(gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change lookup settings (shows settings if no action given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsShow(cmd, gopts)
		},
	}
	cmd.SetUsageTemplate(groupUsageTemplate)

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsShow(cmd, gopts)
		},
	}
	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting (" + strings.Join(settingKeys(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsSet(cmd, gopts, args[0], args[1])
		},
	}
	test := &cobra.Command{
		Use:   "test",
		Short: "Check the explanation backend with a short request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsTest(cmd, gopts)
		},
	}
	for _, sub := range []*cobra.Command{show, set, test} {
		sub.SetUsageTemplate(leafUsageTemplate)
	}
	cmd.AddCommand(show, set, test)
	return cmd
}

func runSettingsShow(cmd *cobra.Command, gopts *globalOptions) error {
	return withApp(gopts, func(ctx context.Context, a *app) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(a.settings.Current()); err != nil {
			return err
		}
		configured := "no"
		if a.explain.Configured() {
			configured = "yes"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Explanation API key configured: %s\n", configured)
		return nil
	})
}

func runSettingsSet(cmd *cobra.Command, gopts *globalOptions, key, value string) error {
	setter, ok := settingSetters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (want one of %s)", key, strings.Join(settingKeys(), ", "))
	}
	value = strings.TrimSpace(value)
	return withApp(gopts, func(ctx context.Context, a *app) error {
		candidate := a.settings.Current()
		if err := setter(&candidate, value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if _, err := a.settings.Update(ctx, func(s *settings.Settings) { _ = setter(s, value) }); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
		return nil
	})
}

func runSettingsTest(cmd *cobra.Command, gopts *globalOptions) error {
	return withApp(gopts, func(ctx context.Context, a *app) error {
		cfg := a.settings.Current().Explain
		if err := a.explain.Validate(ctx); err != nil {
			return fmt.Errorf("%s backend check failed: %s", cfg.Backend, apperrors.PublicMessage(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s backend OK\n", cfg.Backend)
		return nil
	})
}
