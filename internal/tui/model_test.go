package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/neontype/internal/clock"
	"github.com/verte-zerg/neontype/internal/model"
	"github.com/verte-zerg/neontype/internal/passage"
	"github.com/verte-zerg/neontype/internal/session"
)

func testConfig() model.Config {
	return model.Config{
		Mode:      model.TimeLimited,
		Duration:  15,
		WordCount: 25,
		Topic:     model.TopicGeneral,
		Sound:     true,
		Theme:     "neon",
	}
}

// newLoadedModel returns a model whose first passage has arrived.
func newLoadedModel(t *testing.T, cfg model.Config, text string) *Model {
	t.Helper()
	m := NewModel(context.Background(), Options{
		Config: cfg,
		Source: passage.NewSource(nil),
		Bell:   &bytes.Buffer{},
	})
	m.Init()
	m.Update(passage.Msg{Seq: m.seq.Latest(), Text: text, Config: cfg})
	if m.loading || m.session == nil {
		t.Fatalf("expected passage to be applied")
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStalePassageIsDiscarded(t *testing.T) {
	cfg := testConfig()
	var logs bytes.Buffer
	m := NewModel(context.Background(), Options{
		Config: cfg,
		Source: passage.NewSource(nil),
		Logger: zerolog.New(&logs).Level(zerolog.DebugLevel),
	})
	m.Init()
	stale := m.seq.Latest()
	m.Init()

	m.Update(passage.Msg{Seq: stale, Text: "old text", Config: cfg})
	if !m.loading || m.session != nil {
		t.Fatalf("expected stale passage to be ignored")
	}
	want := fmt.Sprintf(`"seq":%d,"latest":%d,"message":"discarding stale passage"`, stale, m.seq.Latest())
	if !strings.Contains(logs.String(), want) {
		t.Fatalf("expected discard to be logged with %s, got %s", want, logs.String())
	}
	m.Update(passage.Msg{Seq: m.seq.Latest(), Text: "new text", Config: cfg})
	if m.session == nil || string(m.session.Target()) != "new text" {
		t.Fatalf("expected latest passage to be applied")
	}
}

func TestFirstKeystrokeStartsClock(t *testing.T) {
	m := newLoadedModel(t, testConfig(), "abc def")
	if m.clock.Running() {
		t.Fatalf("expected clock to be idle before typing")
	}
	m.Update(runes("a"))
	if m.session.Phase() != model.Running {
		t.Fatalf("expected running session, got %s", m.session.Phase())
	}
	if !m.clock.Running() {
		t.Fatalf("expected clock to start on first keystroke")
	}
}

func TestWordModeDoesNotStartClock(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = model.WordLimited
	m := newLoadedModel(t, cfg, "abc")
	m.Update(runes("a"))
	if m.clock.Running() {
		t.Fatalf("expected no countdown in word mode")
	}
	m.Update(runes("bc"))
	if m.session.Phase() != model.Finished {
		t.Fatalf("expected completion to finish the session")
	}
	if _, ok := m.Result(); !ok {
		t.Fatalf("expected result to be recorded")
	}
}

func TestTicksCountDown(t *testing.T) {
	m := newLoadedModel(t, testConfig(), strings.Repeat("a", 200))
	m.Update(runes("a"))
	id := m.clock.ID()

	m.Update(clock.TickMsg{ID: id})
	if m.session.Remaining() != 14 {
		t.Fatalf("expected 14 seconds remaining, got %d", m.session.Remaining())
	}
	m.Update(clock.TickMsg{ID: id + 1000})
	if m.session.Remaining() != 14 {
		t.Fatalf("expected stale tick to be ignored")
	}
	for i := 0; i < 14; i++ {
		m.Update(clock.TickMsg{ID: id})
	}
	if m.session.Phase() != model.Finished {
		t.Fatalf("expected countdown to finish the session")
	}
	if m.clock.Running() {
		t.Fatalf("expected clock to stop")
	}
	if len(m.session.Samples()) != 14 {
		t.Fatalf("expected 14 samples, got %d", len(m.session.Samples()))
	}
}

func TestMistypeShakes(t *testing.T) {
	m := newLoadedModel(t, testConfig(), "abc")
	m.Update(runes("x"))
	if !m.shaking {
		t.Fatalf("expected shake after incorrect keystroke")
	}
	shaken := m.View()
	m.Update(shakeDoneMsg{id: m.shakeID - 1})
	if !m.shaking {
		t.Fatalf("expected old shake timer to be ignored")
	}
	m.Update(shakeDoneMsg{id: m.shakeID})
	if m.shaking {
		t.Fatalf("expected shake to end")
	}
	if m.View() == shaken {
		t.Fatalf("expected text to return to its resting position")
	}
}

func TestEffectsSink(t *testing.T) {
	fx := &effects{sound: true}
	fx.Keystroke(model.Feedback{Typed: true, Correct: true})
	if bell, shake := fx.drain(); bell || shake {
		t.Fatalf("expected no effects for a correct keystroke")
	}
	fx.Keystroke(model.Feedback{Typed: true, Correct: false})
	if bell, shake := fx.drain(); !bell || !shake {
		t.Fatalf("expected bell and shake for a mistake")
	}
	fx.sound = false
	fx.Finished(model.Stats{})
	if bell, _ := fx.drain(); bell {
		t.Fatalf("expected silence with sound off")
	}
}

func TestRingBellWrites(t *testing.T) {
	var buf bytes.Buffer
	ringBell(&buf)()
	if buf.String() != "\a" {
		t.Fatalf("expected bell character, got %q", buf.String())
	}
}

func TestEscEndsSession(t *testing.T) {
	m := newLoadedModel(t, testConfig(), "abcdef")
	m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if m.session.Phase() != model.Idle {
		t.Fatalf("expected esc to be ignored before typing")
	}
	m.Update(runes("ab"))
	m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if m.session.Phase() != model.Finished {
		t.Fatalf("expected esc to finish the session")
	}
	if m.clock.Running() {
		t.Fatalf("expected clock to stop")
	}
	res, ok := m.Result()
	if !ok || res.CorrectChars != 2 || res.MissedChars != 4 {
		t.Fatalf("unexpected result %+v", res)
	}
	m.Update(runes("c"))
	if got := string(m.session.InputRunes()); got != "ab" {
		t.Fatalf("expected frozen input, got %q", got)
	}
}

func TestBackspaceAndDeleteWord(t *testing.T) {
	m := newLoadedModel(t, testConfig(), "one two three")
	m.Update(runes("one tw"))
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := string(m.session.InputRunes()); got != "one t" {
		t.Fatalf("expected backspace to remove a rune, got %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	if got := string(m.session.InputRunes()); got != "one " {
		t.Fatalf("expected delete word to remove the partial word, got %q", got)
	}
}

func TestConfigKeysWhileIdle(t *testing.T) {
	m := newLoadedModel(t, testConfig(), "abc")
	before := m.seq.Latest()

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.cfg.Mode != model.WordLimited {
		t.Fatalf("expected mode toggle")
	}
	if !m.loading || m.seq.Latest() == before {
		t.Fatalf("expected mode change to request a new passage")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.cfg.WordCount != 50 {
		t.Fatalf("expected word count 50, got %d", m.cfg.WordCount)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.cfg.Duration != 30 {
		t.Fatalf("expected duration 30, got %d", m.cfg.Duration)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.cfg.Topic != model.TopicCoding {
		t.Fatalf("expected coding topic, got %s", m.cfg.Topic)
	}
	m.Update(passage.Msg{Seq: m.seq.Latest(), Text: "abc", Config: m.cfg})
	if m.session.Config() != m.cfg {
		t.Fatalf("expected session to use the new config")
	}

	latest := m.seq.Latest()
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.cfg.Theme != "matrix" || m.cfg.Sound {
		t.Fatalf("unexpected display settings %+v", m.cfg)
	}
	if m.loading || m.seq.Latest() != latest {
		t.Fatalf("expected theme and sound to apply without a new passage")
	}
	if m.session.Config().Theme != "matrix" {
		t.Fatalf("expected session config to follow display settings")
	}
}

func TestConfigKeysIgnoredWhileRunning(t *testing.T) {
	m := newLoadedModel(t, testConfig(), "abc def")
	m.Update(runes("a"))
	latest := m.seq.Latest()
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if m.cfg != testConfig() {
		t.Fatalf("expected config to stay unchanged, got %+v", m.cfg)
	}
	if m.seq.Latest() != latest || m.session.Phase() != model.Running {
		t.Fatalf("expected running session to continue")
	}
}

func TestRestartDuringRun(t *testing.T) {
	m := newLoadedModel(t, testConfig(), "abc def")
	m.Update(runes("a"))
	id := m.clock.ID()
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.loading || m.session != nil {
		t.Fatalf("expected restart to load a new passage")
	}
	if m.clock.Running() {
		t.Fatalf("expected restart to stop the clock")
	}
	m.Update(clock.TickMsg{ID: id})
	m.Update(passage.Msg{Seq: m.seq.Latest(), Text: "fresh", Config: m.cfg})
	if m.session.Phase() != model.Idle || m.session.Remaining() != 15 {
		t.Fatalf("expected fresh idle session")
	}
}

func TestQuit(t *testing.T) {
	m := newLoadedModel(t, testConfig(), "abc")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestExtraSinkReceivesFinish(t *testing.T) {
	rec := &countingSink{}
	cfg := testConfig()
	m := NewModel(context.Background(), Options{Config: cfg, Source: passage.NewSource(nil), Sink: rec, Bell: &bytes.Buffer{}})
	m.Init()
	m.Update(passage.Msg{Seq: m.seq.Latest(), Text: "ab", Config: cfg})
	m.Update(runes("a"))
	m.Update(runes("b"))
	if rec.keystrokes != 2 || rec.finished != 1 {
		t.Fatalf("unexpected sink calls %+v", rec)
	}
}

type countingSink struct {
	keystrokes int
	finished   int
}

func (c *countingSink) Keystroke(model.Feedback) { c.keystrokes++ }
func (c *countingSink) Finished(model.Stats)     { c.finished++ }

var _ session.FeedbackSink = (*countingSink)(nil)

func TestViews(t *testing.T) {
	m := NewModel(context.Background(), Options{Config: testConfig(), Source: passage.NewSource(nil)})
	m.Init()
	if !strings.Contains(m.View(), "Generating text...") {
		t.Fatalf("expected loading view")
	}

	m = newLoadedModel(t, testConfig(), "abc def")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	for _, want := range []string{"Type to start...", "NeonType", "15", "restart"} {
		if !strings.Contains(view, want) {
			t.Fatalf("typing view missing %q:\n%s", want, view)
		}
	}

	m.Update(runes("abc"))
	m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	view = m.View()
	for _, want := range []string{"wpm", "acc", "No samples recorded.", "tab to restart"} {
		if !strings.Contains(view, want) {
			t.Fatalf("results view missing %q:\n%s", want, view)
		}
	}
}

func TestWordModeHeader(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = model.WordLimited
	m := newLoadedModel(t, cfg, "abcd")
	m.Update(runes("ab"))
	if !strings.Contains(m.View(), "2/4") {
		t.Fatalf("expected progress in header:\n%s", m.View())
	}
}

func TestRenderConfigBar(t *testing.T) {
	cfg := testConfig()
	bar := renderConfigBar(testStyles, cfg)
	for _, want := range []string{"time", "words", "15", "30", "60", "general", "sound on", "Neon"} {
		if !strings.Contains(bar, want) {
			t.Fatalf("config bar missing %q: %s", want, bar)
		}
	}
	cfg.Mode = model.WordLimited
	bar = renderConfigBar(testStyles, cfg)
	if !strings.Contains(bar, "100") || strings.Contains(bar, " 60") {
		t.Fatalf("expected word counts in word mode: %s", bar)
	}
}

func TestNextOption(t *testing.T) {
	if nextOption(model.DurationOptions, 60) != 15 {
		t.Fatalf("expected wrap to 15")
	}
	if nextOption(model.WordCountOptions, 7) != 10 {
		t.Fatalf("expected unknown value to reset to first option")
	}
	if nextTopic(model.TopicPhilosophy) != model.TopicGeneral {
		t.Fatalf("expected topic wrap")
	}
}
