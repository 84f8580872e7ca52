// Package main provides the CLI entrypoint for neontype.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/neontype/internal/config"
	"github.com/verte-zerg/neontype/internal/logging"
	"github.com/verte-zerg/neontype/internal/model"
	"github.com/verte-zerg/neontype/internal/passage"
	"github.com/verte-zerg/neontype/internal/session"
	"github.com/verte-zerg/neontype/internal/stats"
	"github.com/verte-zerg/neontype/internal/theme"
	"github.com/verte-zerg/neontype/internal/tui"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := defaultOptions()
	rootCmd := &cobra.Command{
		Use:           "neontype",
		Short:         "Terminal typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTestCmd(cmd, opts)
		},
	}
	bindFlags(rootCmd, opts)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newThemesCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newPassageCmd(opts))
	return rootCmd
}

func bindFlags(cmd *cobra.Command, opts *options) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Mode, "mode", opts.Mode, "test mode: time or words")
	flags.IntVar(&opts.Duration, "duration", opts.Duration, "test length in seconds (time mode)")
	flags.IntVar(&opts.Words, "words", opts.Words, "passage length in words (words mode)")
	flags.StringVar(&opts.Topic, "topic", opts.Topic, "passage topic")
	flags.StringVar(&opts.Theme, "theme", opts.Theme, "color theme")
	flags.BoolVar(&opts.Sound, "sound", opts.Sound, "ring the terminal bell on mistakes and at the end")
	flags.IntVar(&opts.Smooth, "smooth", opts.Smooth, "moving-average window for the results chart, in samples")
	flags.StringVar(&opts.Backend, "backend", opts.Backend, "passage backend: "+strings.Join(backendNames(), ", "))
	flags.StringVar(&opts.Model, "model", opts.Model, "model name for LLM backends")
	flags.StringVar(&opts.BaseURL, "base-url", opts.BaseURL, "API base URL for LLM backends")
	flags.StringVar(&opts.APIKeyEnv, "api-key-env", opts.APIKeyEnv, "environment variable holding the API key")
	flags.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "passage request timeout")
	flags.StringVar(&opts.WordList, "wordlist", opts.WordList, "word list for the words backend")
	flags.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&opts.LogPath, "log-path", opts.LogPath, "log file path")
	flags.StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "config file path")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "print the results summary after exit")
}

func runTestCmd(cmd *cobra.Command, opts *options) error {
	cfg, err := resolveOptions(cmd, opts)
	if err != nil {
		return err
	}
	log, closer, err := openLog(opts)
	if err != nil {
		return err
	}
	defer closeQuietly(closer)

	gen, err := buildGenerator(opts, log)
	if err != nil {
		return err
	}
	src := passage.NewSource(gen, passage.WithTimeout(opts.Timeout), passage.WithLogger(log))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	m := tui.NewModel(ctx, tui.Options{
		Config: cfg,
		Source: src,
		Logger: log,
		Sink:   session.LogSink{Log: log},
		Smooth: opts.Smooth,
	})
	log.Info().Str("backend", opts.Backend).Str("mode", cfg.Mode.String()).Msg("starting")
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if !opts.Plain {
		return nil
	}
	res, ok := m.Result()
	if !ok {
		return nil
	}
	return printResults(cmd.OutOrStdout(), res, opts.Smooth)
}

func printResults(w io.Writer, res model.Stats, smooth int) error {
	if err := stats.RenderResults(w, res); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	width, useColor := 0, false
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		useColor = true
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = cols
		}
	}
	if err := stats.RenderPerformance(w, res.History, smooth, width, 8, useColor); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

func openLog(opts *options) (zerolog.Logger, io.Closer, error) {
	path := opts.LogPath
	if path == "" {
		path = config.DefaultLogPath()
	}
	log, closer, err := logging.Init(path, opts.LogLevel)
	if err != nil {
		return logging.Nop(), nil, fmt.Errorf("failed to open log: %w", err)
	}
	return log, closer, nil
}

func closeQuietly(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logErrf("failed to close log: %v\n", err)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless path exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List color themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, t := range theme.All() {
				line := t.Styles().Accent.Render(fmt.Sprintf("%-10s", t.ID)) + " " + t.Name
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List passage topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, t := range model.Topics {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), t); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

func newPassageCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "passage",
		Short: "Fetch and print one passage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveOptions(cmd, opts)
			if err != nil {
				return err
			}
			log, closer, err := openLog(opts)
			if err != nil {
				return err
			}
			defer closeQuietly(closer)
			gen, err := buildGenerator(opts, log)
			if err != nil {
				return err
			}
			src := passage.NewSource(gen, passage.WithTimeout(opts.Timeout), passage.WithLogger(log))
			text := src.Fetch(cmd.Context(), cfg.Topic, passage.LengthClassFor(cfg))
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), passage.Prepare(text, cfg)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
