// Package passage supplies the text a typing session is played against.
package passage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/neontype/internal/model"
)

// ErrEmpty is returned by generators that produced no usable text.
var ErrEmpty = errors.New("empty passage")

// DefaultTimeout bounds a single generator call.
const DefaultTimeout = 15 * time.Second

// Generator produces raw passages and may fail.
type Generator interface {
	Generate(ctx context.Context, topic model.Topic, length model.LengthClass) (string, error)
}

// Source fetches passages and absorbs every generator failure by returning
// the fallback text for the topic.
type Source struct {
	gen     Generator
	timeout time.Duration
	log     zerolog.Logger
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) SourceOption {
	return func(s *Source) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used to report absorbed failures.
func WithLogger(log zerolog.Logger) SourceOption {
	return func(s *Source) {
		s.log = log
	}
}

// NewSource wraps gen. A nil generator always yields fallback text.
func NewSource(gen Generator, opts ...SourceOption) *Source {
	s := &Source{gen: gen, timeout: DefaultTimeout, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns a cleaned passage for topic. It never fails.
func (s *Source) Fetch(ctx context.Context, topic model.Topic, length model.LengthClass) string {
	if s == nil || s.gen == nil {
		return Fallback(topic)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	text, err := s.gen.Generate(ctx, topic, length)
	if err == nil {
		text = Clean(text)
		if text == "" {
			err = ErrEmpty
		}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.log.Debug().Str("topic", string(topic)).Msg("passage request superseded")
		} else {
			s.log.Warn().Err(err).Str("topic", string(topic)).Str("length", string(length)).Msg("passage generation failed, using fallback text")
		}
		return Fallback(topic)
	}
	s.log.Debug().
		Str("topic", string(topic)).
		Str("length", string(length)).
		Int("chars", len(text)).
		Dur("took", time.Since(started)).
		Msg("passage generated")
	return text
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	edgeQuoteRe  = regexp.MustCompile(`^["']|["']$`)
)

// Clean strips surrounding quotes and backticks and collapses whitespace.
func Clean(text string) string {
	text = strings.TrimSpace(text)
	text = edgeQuoteRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "`", "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Truncate keeps at most words space-separated words.
func Truncate(text string, words int) string {
	if words <= 0 {
		return text
	}
	parts := strings.Split(text, " ")
	if len(parts) <= words {
		return text
	}
	return strings.Join(parts[:words], " ")
}

// Prepare cleans a passage and, in word-limited mode, cuts it to the
// configured word count.
func Prepare(text string, cfg model.Config) string {
	text = Clean(text)
	if cfg.Mode == model.WordLimited {
		text = Truncate(text, cfg.WordCount)
	}
	return text
}

// LengthClassFor picks the passage size for the configured test.
func LengthClassFor(cfg model.Config) model.LengthClass {
	if cfg.Mode == model.WordLimited {
		switch {
		case cfg.WordCount <= 25:
			return model.LengthShort
		case cfg.WordCount <= 50:
			return model.LengthMedium
		default:
			return model.LengthLong
		}
	}
	if cfg.Duration <= 30 {
		return model.LengthMedium
	}
	return model.LengthLong
}

var fallbackTexts = map[model.Topic]string{
	model.TopicGeneral:    "The quick brown fox jumps over the lazy dog. Consistency is the key to mastery. Keep typing and you will improve over time.",
	model.TopicCoding:     "function binarySearch(arr, target) { let left = 0; let right = arr.length - 1; while (left <= right) { const mid = Math.floor((left + right) / 2); if (arr[mid] === target) return mid; } return -1; }",
	model.TopicSciFi:      "The stars drifted past the viewscreen like silent ghosts of a bygone era. The warp drive hummed with a latent energy, promising worlds unseen.",
	model.TopicHistory:    "The Industrial Revolution marked a major turning point in history. almost every aspect of daily life was influenced in some way.",
	model.TopicPhilosophy: "I think, therefore I am. The unexamined life is not worth living. To be is to be perceived.",
}

// Fallback returns the fixed passage for topic.
func Fallback(topic model.Topic) string {
	if text, ok := fallbackTexts[topic]; ok {
		return text
	}
	return fallbackTexts[model.TopicGeneral]
}

const systemPrompt = "You are a typing test content generator. Output only plain text. Do not use markdown formatting (no bold, italics, or code blocks). Ensure standard punctuation and capitalization. Do not include a title or header."

const (
	promptTemperature = 0.7
	promptMaxTokens   = 500
)

func userPrompt(topic model.Topic, length model.LengthClass) string {
	desc := string(topic)
	if topic == model.TopicGeneral {
		desc = "general knowledge or interesting facts"
	}
	return fmt.Sprintf("Write a creative, engaging paragraph about %s. The text should be %s.", desc, lengthDescription(length))
}

func lengthDescription(length model.LengthClass) string {
	switch length {
	case model.LengthShort:
		return "approximately 20 words"
	case model.LengthMedium:
		return "approximately 50 words"
	default:
		return "approximately 100 words"
	}
}

// approxWords is the word count offline generators produce for a length
// class. Short covers word-limited tests of up to 25 words.
func approxWords(length model.LengthClass) int {
	switch length {
	case model.LengthShort:
		return 25
	case model.LengthMedium:
		return 50
	default:
		return 100
	}
}
