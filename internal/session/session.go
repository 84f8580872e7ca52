// Package session implements the typing session state machine.
package session

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/neontype/internal/model"
	"github.com/verte-zerg/neontype/internal/stats"
)

// TickOutcome reports what a clock tick did to the session.
type TickOutcome int

const (
	// TickIgnored means the session was not running in time-limited mode.
	TickIgnored TickOutcome = iota
	// TickSampled means the countdown advanced and a sample was recorded.
	TickSampled
	// TickFinished means the countdown ran out and the session finished.
	TickFinished
)

// Session is a single typing attempt against a fixed target text.
// It is not safe for concurrent use; all calls must come from one goroutine.
type Session struct {
	id     string
	cfg    model.Config
	target []rune
	input  []rune

	phase     model.Phase
	startedAt time.Time
	remaining int
	samples   []model.Sample
	result    model.Stats

	now  func() time.Time
	sink FeedbackSink
	log  zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithNow overrides the wall clock.
func WithNow(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSink sets the receiver of keystroke and finish events.
func WithSink(sink FeedbackSink) Option {
	return func(s *Session) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// New creates an idle session for the target text.
func New(cfg model.Config, target string, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		cfg:       cfg,
		target:    []rune(target),
		remaining: cfg.Duration,
		now:       time.Now,
		sink:      nopSink{},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session", s.id).Logger()
	return s
}

// Input offers a candidate for the whole input string. The first accepted
// keystroke starts the session; typing the last character finishes it.
func (s *Session) Input(candidate string) model.Feedback {
	return s.offer([]rune(candidate))
}

// Type appends runes to the current input.
func (s *Session) Type(runes []rune) model.Feedback {
	return s.offer(Append(s.input, runes))
}

// Backspace removes the last typed rune.
func (s *Session) Backspace() {
	s.offer(Backspace(s.input))
}

// DeleteWord removes the last typed word.
func (s *Session) DeleteWord() {
	s.offer(DeleteWord(s.input))
}

func (s *Session) offer(candidate []rune) model.Feedback {
	res := Accept(s.phase, s.input, candidate, s.target)
	if !res.Changed {
		return model.Feedback{}
	}
	if s.phase == model.Idle && len(res.Accepted) > 0 {
		s.phase = model.Running
		s.startedAt = s.now()
		s.log.Debug().Str("mode", s.cfg.Mode.String()).Int("target_len", len(s.target)).Msg("session started")
	}
	s.input = res.Accepted
	if res.Feedback.Typed {
		s.sink.Keystroke(res.Feedback)
	}
	if s.phase == model.Running && len(s.input) >= len(s.target) {
		s.finish("completed")
	}
	return res.Feedback
}

// Tick advances the countdown by one second. The tick that finds one second
// or less remaining finishes the session instead of recording a sample.
func (s *Session) Tick() TickOutcome {
	if s.phase != model.Running || s.cfg.Mode != model.TimeLimited {
		return TickIgnored
	}
	if s.remaining <= 1 {
		s.remaining = 0
		s.finish("time")
		return TickFinished
	}
	s.remaining--
	snap := s.Snapshot()
	elapsed := int(math.Floor(snap.ElapsedSeconds()))
	if n := len(s.samples); n > 0 && elapsed < s.samples[n-1].Elapsed {
		elapsed = s.samples[n-1].Elapsed
	}
	s.samples = append(s.samples, model.Sample{Elapsed: elapsed, WPM: snap.WPM, Raw: snap.RawWPM})
	return TickSampled
}

// End finishes a running session early. It reports false when there is
// nothing to end.
func (s *Session) End() bool {
	if s.phase == model.Finished {
		return false
	}
	if s.phase == model.Idle && len(s.input) == 0 {
		return false
	}
	s.finish("ended")
	return true
}

// Configure replaces the session settings. Settings are only writable while
// the session is idle.
func (s *Session) Configure(cfg model.Config) bool {
	if s.phase != model.Idle {
		s.log.Debug().Str("phase", s.phase.String()).Msg("ignoring config change")
		return false
	}
	s.cfg = cfg
	s.remaining = cfg.Duration
	return true
}

func (s *Session) finish(reason string) {
	if s.phase == model.Finished {
		return
	}
	s.phase = model.Finished
	s.result = stats.Compute(s.target, s.input, s.startedAt, s.now(), s.samples)
	s.log.Info().
		Str("reason", reason).
		Str("mode", s.cfg.Mode.String()).
		Float64("wpm", s.result.WPM).
		Float64("accuracy", s.result.Accuracy).
		Int("samples", len(s.samples)).
		Msg("session finished")
	s.sink.Finished(s.result)
}

// Snapshot returns live stats, or the frozen result once finished.
func (s *Session) Snapshot() model.Stats {
	if s.phase == model.Finished {
		return s.result
	}
	return stats.Compute(s.target, s.input, s.startedAt, s.now(), s.samples)
}

// Result returns the final stats once the session is finished.
func (s *Session) Result() (model.Stats, bool) {
	if s.phase != model.Finished {
		return model.Stats{}, false
	}
	return s.result, true
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Config returns the session settings.
func (s *Session) Config() model.Config { return s.cfg }

// Phase returns the lifecycle state.
func (s *Session) Phase() model.Phase { return s.phase }

// Target returns a copy of the target text.
func (s *Session) Target() []rune { return append([]rune(nil), s.target...) }

// InputRunes returns a copy of the current input.
func (s *Session) InputRunes() []rune { return append([]rune(nil), s.input...) }

// Remaining returns the countdown in seconds.
func (s *Session) Remaining() int { return s.remaining }

// StartedAt returns the time of the first accepted keystroke, or the zero time.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Samples returns a copy of the recorded time series.
func (s *Session) Samples() []model.Sample { return append([]model.Sample(nil), s.samples...) }

// Progress returns the typed and total character counts.
func (s *Session) Progress() (typed, total int) { return len(s.input), len(s.target) }
