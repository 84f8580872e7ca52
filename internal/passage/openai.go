package passage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/verte-zerg/neontype/internal/model"
)

// OpenAI generates passages through the OpenAI chat completions API or any
// compatible endpoint.
type OpenAI struct {
	client oai.Client
	model  string
}

type backendConfig struct {
	baseURL string
	timeout time.Duration
}

// Option configures an LLM backend.
type Option func(*backendConfig)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *backendConfig) {
		c.baseURL = url
	}
}

// WithHTTPTimeout sets a per-request HTTP timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *backendConfig) {
		c.timeout = d
	}
}

// NewOpenAI constructs an OpenAI backend.
func NewOpenAI(apiKey, model string, opts ...Option) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("openai: model must not be empty")
	}
	cfg := &backendConfig{}
	for _, o := range opts {
		o(cfg)
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: cfg.timeout}))
	}
	return &OpenAI{client: oai.NewClient(reqOpts...), model: model}, nil
}

// Generate implements Generator.
func (p *OpenAI) Generate(ctx context.Context, topic model.Topic, length model.LengthClass) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(systemPrompt),
			oai.UserMessage(userPrompt(topic, length)),
		},
		Temperature:         param.NewOpt(promptTemperature),
		MaxCompletionTokens: param.NewOpt(int64(promptMaxTokens)),
	}
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w: no choices", ErrEmpty)
	}
	return resp.Choices[0].Message.Content, nil
}
