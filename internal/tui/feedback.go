package tui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/neontype/internal/model"
)

const shakeDuration = 150 * time.Millisecond

type shakeDoneMsg struct {
	id int
}

// effects collects the terminal feedback raised by the session while one
// message is handled. It is the session's FeedbackSink.
type effects struct {
	sound bool
	bell  bool
	shake bool
}

func (e *effects) Keystroke(fb model.Feedback) {
	if fb.Correct {
		return
	}
	e.shake = true
	if e.sound {
		e.bell = true
	}
}

func (e *effects) Finished(model.Stats) {
	if e.sound {
		e.bell = true
	}
}

func (e *effects) drain() (bell, shake bool) {
	bell, shake = e.bell, e.shake
	e.bell, e.shake = false, false
	return bell, shake
}

func ringBell(w io.Writer) tea.Cmd {
	return func() tea.Msg {
		if _, err := fmt.Fprint(w, "\a"); err != nil {
			// Best-effort bell.
			_ = err
		}
		return nil
	}
}

func endShake(id int) tea.Cmd {
	return tea.Tick(shakeDuration, func(time.Time) tea.Msg {
		return shakeDoneMsg{id: id}
	})
}
