package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/neontype/internal/config"
	"github.com/verte-zerg/neontype/internal/logging"
	"github.com/verte-zerg/neontype/internal/model"
	"github.com/verte-zerg/neontype/internal/passage"
	"github.com/verte-zerg/neontype/internal/theme"
)

const (
	defaultMode     = "time"
	defaultDuration = 30
	defaultWords    = 25
	defaultBackend  = "gemini"
	defaultModel    = "gemini-2.5-flash"
)

// options holds flag values, later overlaid with the config file.
type options struct {
	Mode     string
	Duration int
	Words    int
	Topic    string
	Theme    string
	Sound    bool
	Smooth   int

	Backend   string
	Model     string
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
	WordList  string

	LogLevel   string
	LogPath    string
	ConfigPath string
	Plain      bool
}

func defaultOptions() *options {
	return &options{
		Mode:     defaultMode,
		Duration: defaultDuration,
		Words:    defaultWords,
		Topic:    string(model.TopicGeneral),
		Theme:    theme.Default,
		Sound:    true,
		Smooth:   1,
		Backend:  defaultBackend,
		Model:    defaultModel,
		Timeout:  passage.DefaultTimeout,
		LogLevel: "info",
	}
}

// resolveOptions applies the config file to every flag the user did not set
// and returns the validated test settings.
func resolveOptions(cmd *cobra.Command, opts *options) (model.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, opts, fileCfg)
	if err := validateOptions(opts); err != nil {
		return model.Config{}, err
	}
	return testConfig(opts)
}

func applyFileConfig(cmd *cobra.Command, opts *options, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "mode", &opts.Mode, fileCfg.Test.Mode)
	applyIntConfig(cmd, "duration", &opts.Duration, fileCfg.Test.Duration)
	applyIntConfig(cmd, "words", &opts.Words, fileCfg.Test.Words)
	applyStringConfig(cmd, "topic", &opts.Topic, fileCfg.Test.Topic)
	applyStringConfig(cmd, "theme", &opts.Theme, fileCfg.Display.Theme)
	applyBoolConfig(cmd, "sound", &opts.Sound, fileCfg.Display.Sound)
	applyIntConfig(cmd, "smooth", &opts.Smooth, fileCfg.Display.Smooth)
	applyStringConfig(cmd, "backend", &opts.Backend, fileCfg.Provider.Backend)
	applyStringConfig(cmd, "model", &opts.Model, fileCfg.Provider.Model)
	applyStringConfig(cmd, "base-url", &opts.BaseURL, fileCfg.Provider.BaseURL)
	applyStringConfig(cmd, "api-key-env", &opts.APIKeyEnv, fileCfg.Provider.APIKeyEnv)
	applyStringConfig(cmd, "wordlist", &opts.WordList, fileCfg.Provider.WordList)
	if fileCfg.Provider.Timeout != nil {
		d := fileCfg.Provider.Timeout.Duration
		applyDurationConfig(cmd, "timeout", &opts.Timeout, &d)
	}
	applyStringConfig(cmd, "log-level", &opts.LogLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-path", &opts.LogPath, fileCfg.Log.Path)
}

func testConfig(opts *options) (model.Config, error) {
	mode, err := model.ParseMode(opts.Mode)
	if err != nil {
		return model.Config{}, fmt.Errorf("--mode: %w", err)
	}
	topic, err := model.ParseTopic(opts.Topic)
	if err != nil {
		return model.Config{}, fmt.Errorf("--topic: %w", err)
	}
	th, _ := theme.Lookup(opts.Theme)
	return model.Config{
		Mode:      mode,
		Duration:  opts.Duration,
		WordCount: opts.Words,
		Topic:     topic,
		Sound:     opts.Sound,
		Theme:     th.ID,
	}, nil
}

func validateOptions(opts *options) error {
	if _, err := model.ParseMode(opts.Mode); err != nil {
		return fmt.Errorf("--mode: %w", err)
	}
	if _, err := model.ParseTopic(opts.Topic); err != nil {
		return fmt.Errorf("--topic: %w", err)
	}
	if err := theme.Validate(opts.Theme); err != nil {
		return fmt.Errorf("--theme: %w", err)
	}
	if opts.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if opts.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if opts.Smooth < 1 {
		return fmt.Errorf("--smooth must be >= 1")
	}
	if opts.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	if !isKnownBackend(opts.Backend) {
		return fmt.Errorf("--backend: unknown backend %q (available: %s)", opts.Backend, strings.Join(backendNames(), ", "))
	}
	if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target, value *time.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# neontype configuration
# Uncomment a value to enable it. CLI flags override config values.

[test]
# mode = %q              # time or words
# duration = %d            # Seconds per test in time mode
# words = %d               # Passage length in words mode
# topic = %q          # %s

[display]
# theme = %q             # %s
# sound = true               # Ring the terminal bell on mistakes and at the end
# smooth = 1                 # Moving-average window for the results chart, in samples

[provider]
# backend = %q         # %s
# model = %q
# base-url = ""              # Custom API endpoint (OpenAI-compatible servers, remote ollama)
# api-key-env = ""           # Environment variable with the API key (default depends on backend)
# timeout = %q             # Per-passage request timeout
# wordlist = ""              # Word list for the words backend, one word per line

[log]
# level = "info"             # debug, info, warn, error
# path = ""                  # Defaults to %s
`,
		defaultMode,
		defaultDuration,
		defaultWords,
		model.TopicGeneral, topicNames(),
		theme.Default, strings.Join(theme.Names(), ", "),
		defaultBackend, strings.Join(backendNames(), ", "),
		defaultModel,
		passage.DefaultTimeout.String(),
		config.DefaultLogPath(),
	)
}

func topicNames() string {
	names := make([]string, len(model.Topics))
	for i, t := range model.Topics {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
