// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/neontype/internal/clock"
	"github.com/verte-zerg/neontype/internal/model"
	"github.com/verte-zerg/neontype/internal/passage"
	"github.com/verte-zerg/neontype/internal/session"
	"github.com/verte-zerg/neontype/internal/theme"
)

// Options configures a Model.
type Options struct {
	Config model.Config
	Source *passage.Source
	Logger zerolog.Logger
	// Sink receives session feedback in addition to the terminal effects.
	Sink session.FeedbackSink
	// Bell is where the terminal bell is written. Defaults to stderr.
	Bell io.Writer
	// Smooth is the moving-average window of the results chart.
	Smooth int
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctx  context.Context
	cfg  model.Config
	src  *passage.Source
	seq  passage.Sequencer
	log  zerolog.Logger
	sink session.FeedbackSink
	bell io.Writer

	smooth int

	session *session.Session
	clock   *clock.Clock
	fx      *effects
	last    *model.Stats

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	theme   theme.Theme
	styles  theme.Styles

	loading bool
	shaking bool
	shakeID int

	width  int
	height int
}

// NewModel constructs a typing TUI model.
func NewModel(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	bell := opts.Bell
	if bell == nil {
		bell = os.Stderr
	}
	m := &Model{
		ctx:     ctx,
		cfg:     opts.Config,
		src:     opts.Source,
		log:     opts.Logger,
		sink:    opts.Sink,
		bell:    bell,
		smooth:  opts.Smooth,
		clock:   clock.New(clock.DefaultPeriod),
		fx:      &effects{sound: opts.Config.Sound},
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading: true,
	}
	m.applyTheme(opts.Config.Theme)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.restart()
}

// Result returns the stats of the last finished session.
func (m *Model) Result() (model.Stats, bool) {
	if m.last == nil {
		return model.Stats{}, false
	}
	return *m.last, true
}

// Config returns the current test settings.
func (m *Model) Config() model.Config {
	return m.cfg
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case passage.Msg:
		return m, m.handlePassage(msg)
	case clock.TickMsg:
		return m, m.handleTick(msg)
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case shakeDoneMsg:
		if msg.id == m.shakeID {
			m.shaking = false
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.seq.Cancel()
		m.clock.Stop()
		return tea.Quit
	case key.Matches(msg, m.keys.Restart):
		return m.restart()
	}

	if m.configurable() {
		if cmd, ok := m.handleConfigKey(msg); ok {
			return cmd
		}
	}
	if m.loading || m.session == nil {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.End):
		if m.session.End() {
			m.clock.Stop()
		}
	case key.Matches(msg, m.keys.DeleteWord):
		m.session.DeleteWord()
	default:
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyDelete:
			m.session.Backspace()
		case tea.KeySpace:
			return m.typeRunes([]rune{' '})
		case tea.KeyRunes:
			return m.typeRunes(msg.Runes)
		}
	}
	return m.afterInput()
}

func (m *Model) typeRunes(runes []rune) tea.Cmd {
	before := m.session.Phase()
	m.session.Type(runes)
	var start tea.Cmd
	if before == model.Idle && m.session.Phase() == model.Running && m.cfg.Mode == model.TimeLimited {
		start = m.clock.Start()
	}
	return tea.Batch(start, m.afterInput())
}

// afterInput stops the clock once the session is over and turns collected
// feedback into commands.
func (m *Model) afterInput() tea.Cmd {
	if m.session != nil && m.session.Phase() == model.Finished {
		m.clock.Stop()
		if res, ok := m.session.Result(); ok {
			m.last = &res
		}
	}
	m.keys.setConfigurable(m.configurable())

	bell, shake := m.fx.drain()
	var cmds []tea.Cmd
	if bell {
		cmds = append(cmds, ringBell(m.bell))
	}
	if shake {
		m.shakeID++
		m.shaking = true
		cmds = append(cmds, endShake(m.shakeID))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleTick(msg clock.TickMsg) tea.Cmd {
	ok, next := m.clock.Update(msg)
	if !ok || m.session == nil {
		return nil
	}
	if m.session.Tick() == session.TickFinished {
		return m.afterInput()
	}
	return next
}

func (m *Model) handlePassage(msg passage.Msg) tea.Cmd {
	if !m.seq.Accept(msg.Seq) {
		m.log.Debug().Uint64("seq", msg.Seq).Uint64("latest", m.seq.Latest()).Msg("discarding stale passage")
		return nil
	}
	sinks := session.MultiSink{m.fx}
	if m.sink != nil {
		sinks = append(sinks, m.sink)
	}
	m.session = session.New(msg.Config, msg.Text,
		session.WithSink(sinks),
		session.WithLogger(m.log),
	)
	m.loading = false
	m.keys.setConfigurable(true)
	return nil
}

// restart drops the current session and requests a new passage.
func (m *Model) restart() tea.Cmd {
	m.clock.Stop()
	m.session = nil
	m.loading = true
	m.shaking = false
	m.keys.setConfigurable(true)
	seq, ctx := m.seq.Next(m.ctx)
	m.log.Debug().Uint64("seq", seq).Str("topic", string(m.cfg.Topic)).Msg("requesting passage")
	return tea.Batch(passage.Fetch(ctx, m.src, seq, m.cfg), m.spinner.Tick)
}

// configurable reports whether settings may change: before the first
// keystroke of a session, or while a passage is loading.
func (m *Model) configurable() bool {
	return m.session == nil || m.session.Phase() == model.Idle
}

func (m *Model) handleConfigKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	cfg := m.cfg
	refetch := true
	switch {
	case key.Matches(msg, m.keys.Mode):
		if cfg.Mode == model.TimeLimited {
			cfg.Mode = model.WordLimited
		} else {
			cfg.Mode = model.TimeLimited
		}
	case key.Matches(msg, m.keys.Duration):
		cfg.Duration = nextOption(model.DurationOptions, cfg.Duration)
	case key.Matches(msg, m.keys.Words):
		cfg.WordCount = nextOption(model.WordCountOptions, cfg.WordCount)
	case key.Matches(msg, m.keys.Topic):
		cfg.Topic = nextTopic(cfg.Topic)
	case key.Matches(msg, m.keys.Sound):
		cfg.Sound = !cfg.Sound
		refetch = false
	case key.Matches(msg, m.keys.Theme):
		cfg.Theme = theme.Next(cfg.Theme).ID
		refetch = false
	default:
		return nil, false
	}
	m.cfg = cfg
	m.fx.sound = cfg.Sound
	m.applyTheme(cfg.Theme)
	m.log.Debug().
		Str("mode", cfg.Mode.String()).
		Int("duration", cfg.Duration).
		Int("words", cfg.WordCount).
		Str("topic", string(cfg.Topic)).
		Msg("config changed")
	if refetch {
		return m.restart(), true
	}
	if m.session != nil {
		m.session.Configure(cfg)
	}
	return nil, true
}

func (m *Model) applyTheme(id string) {
	m.theme = theme.Get(id)
	m.styles = m.theme.Styles()
	m.spinner.Style = m.styles.Accent
}

func nextOption(options []int, current int) int {
	for i, v := range options {
		if v == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func nextTopic(current model.Topic) model.Topic {
	for i, t := range model.Topics {
		if t == current {
			return model.Topics[(i+1)%len(model.Topics)]
		}
	}
	return model.Topics[0]
}
