package passage

import (
	"context"
	"fmt"
	"strings"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/deepseek"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"

	"github.com/verte-zerg/neontype/internal/model"
)

// AnyLLMBackends lists the backend names NewAnyLLM accepts.
var AnyLLMBackends = []string{"gemini", "openai", "anthropic", "ollama", "groq", "mistral", "deepseek"}

// AnyLLM generates passages through any-llm-go.
type AnyLLM struct {
	backend anyllmlib.Provider
	model   string
	timeout time.Duration
}

// NewAnyLLM constructs a backend by name. When apiKey is empty the
// backend reads its usual environment variable.
func NewAnyLLM(backend, model, apiKey string, opts ...Option) (*AnyLLM, error) {
	if backend == "" {
		return nil, fmt.Errorf("anyllm: backend must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("anyllm: model must not be empty")
	}
	cfg := &backendConfig{}
	for _, o := range opts {
		o(cfg)
	}
	var libOpts []anyllmlib.Option
	if apiKey != "" {
		libOpts = append(libOpts, anyllmlib.WithAPIKey(apiKey))
	}
	if cfg.baseURL != "" {
		libOpts = append(libOpts, anyllmlib.WithBaseURL(cfg.baseURL))
	}
	p, err := createBackend(backend, libOpts...)
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", backend, err)
	}
	return &AnyLLM{backend: p, model: model, timeout: cfg.timeout}, nil
}

func createBackend(name string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(name) {
	case "gemini":
		return gemini.New(opts...)
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	case "groq":
		return groq.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "deepseek":
		return deepseek.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported backend %q; supported: %s", name, strings.Join(AnyLLMBackends, ", "))
	}
}

// Generate implements Generator.
func (p *AnyLLM) Generate(ctx context.Context, topic model.Topic, length model.LengthClass) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	temperature := promptTemperature
	maxTokens := promptMaxTokens
	resp, err := p.backend.Completion(ctx, anyllmlib.CompletionParams{
		Model: p.model,
		Messages: []anyllmlib.Message{
			{Role: anyllmlib.RoleSystem, Content: systemPrompt},
			{Role: "user", Content: userPrompt(topic, length)},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("anyllm: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("anyllm: %w: no choices", ErrEmpty)
	}
	return resp.Choices[0].Message.ContentString(), nil
}
