package session

import (
	"github.com/rs/zerolog"

	"github.com/verte-zerg/neontype/internal/model"
)

// FeedbackSink receives discrete events for sound, haptics or visual effects.
type FeedbackSink interface {
	// Keystroke is called once per forward keystroke.
	Keystroke(fb model.Feedback)
	// Finished is called once when the session ends.
	Finished(result model.Stats)
}

type nopSink struct{}

func (nopSink) Keystroke(model.Feedback) {}
func (nopSink) Finished(model.Stats)     {}

// MultiSink fans events out to several sinks in order. Nil entries are skipped.
type MultiSink []FeedbackSink

// Keystroke implements FeedbackSink.
func (m MultiSink) Keystroke(fb model.Feedback) {
	for _, s := range m {
		if s != nil {
			s.Keystroke(fb)
		}
	}
}

// Finished implements FeedbackSink.
func (m MultiSink) Finished(result model.Stats) {
	for _, s := range m {
		if s != nil {
			s.Finished(result)
		}
	}
}

// LogSink records feedback events at debug level.
type LogSink struct {
	Log zerolog.Logger
}

// Keystroke implements FeedbackSink.
func (l LogSink) Keystroke(fb model.Feedback) {
	if fb.Correct {
		return
	}
	l.Log.Debug().Int("index", fb.Index).Msg("mistyped character")
}

// Finished implements FeedbackSink.
func (l LogSink) Finished(result model.Stats) {
	l.Log.Debug().
		Int("correct", result.CorrectChars).
		Int("incorrect", result.IncorrectChars).
		Int("missed", result.MissedChars).
		Msg("finish feedback")
}
