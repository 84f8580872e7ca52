package passage

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/neontype/internal/model"
)

// Msg carries a finished fetch back into the Bubble Tea loop.
type Msg struct {
	Seq    uint64
	Text   string
	Config model.Config
}

// Sequencer numbers passage requests so that only the most recent one is
// applied. Starting a request cancels the one before it.
type Sequencer struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Next starts a new request derived from parent.
func (s *Sequencer) Next(parent context.Context) (uint64, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.seq++
	s.cancel = cancel
	return s.seq, ctx
}

// Accept reports whether seq is the latest request, and releases it.
func (s *Sequencer) Accept(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

// Latest returns the most recent sequence number.
func (s *Sequencer) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Cancel aborts the outstanding request, if any.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Fetch returns a command that loads and prepares a passage for cfg.
func Fetch(ctx context.Context, src *Source, seq uint64, cfg model.Config) tea.Cmd {
	return func() tea.Msg {
		text := src.Fetch(ctx, cfg.Topic, LengthClassFor(cfg))
		return Msg{Seq: seq, Text: Prepare(text, cfg), Config: cfg}
	}
}
