package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/neontype/internal/config"
	"github.com/verte-zerg/neontype/internal/passage"
)

const (
	backendOpenAI  = "openai-compat"
	backendWords   = "words"
	backendOffline = "offline"
)

var apiKeyEnvs = map[string]string{
	"gemini":      "GEMINI_API_KEY",
	"openai":      "OPENAI_API_KEY",
	backendOpenAI: "OPENAI_API_KEY",
	"anthropic":   "ANTHROPIC_API_KEY",
	"groq":        "GROQ_API_KEY",
	"mistral":     "MISTRAL_API_KEY",
	"deepseek":    "DEEPSEEK_API_KEY",
}

func backendNames() []string {
	names := append([]string(nil), passage.AnyLLMBackends...)
	return append(names, backendOpenAI, backendWords, backendOffline)
}

func isKnownBackend(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, b := range backendNames() {
		if b == name {
			return true
		}
	}
	return false
}

// buildGenerator returns the passage generator for the configured backend.
// A nil generator means built-in passages only.
func buildGenerator(opts *options, log zerolog.Logger) (passage.Generator, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	switch backend {
	case backendOffline:
		return nil, nil
	case backendWords:
		path := opts.WordList
		if path == "" {
			path = config.DefaultWordListPath()
		}
		words, err := passage.LoadWords(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list %s: %w", path, err)
		}
		gen, err := passage.NewWords(words, time.Now().UnixNano())
		if err != nil {
			return nil, fmt.Errorf("failed to load word list %s: %w", path, err)
		}
		return gen, nil
	}

	var llmOpts []passage.Option
	if opts.BaseURL != "" {
		llmOpts = append(llmOpts, passage.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		llmOpts = append(llmOpts, passage.WithHTTPTimeout(opts.Timeout))
	}
	keyEnv := opts.APIKeyEnv
	if keyEnv == "" {
		keyEnv = apiKeyEnvs[backend]
	}
	apiKey := ""
	if keyEnv != "" {
		apiKey = strings.TrimSpace(os.Getenv(keyEnv))
	}
	if apiKey == "" && backend != "ollama" {
		log.Warn().Str("backend", backend).Str("env", keyEnv).Msg("no API key, using built-in passages")
		logErrf("no API key in $%s; using built-in passages\n", keyEnv)
		return nil, nil
	}

	var (
		gen passage.Generator
		err error
	)
	if backend == backendOpenAI {
		gen, err = passage.NewOpenAI(apiKey, opts.Model, llmOpts...)
	} else {
		gen, err = passage.NewAnyLLM(backend, opts.Model, apiKey, llmOpts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set up %s backend: %w", backend, err)
	}
	log.Debug().Str("backend", backend).Str("model", opts.Model).Msg("passage backend ready")
	return gen, nil
}
