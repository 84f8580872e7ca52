package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/neontype/internal/model"
	"github.com/verte-zerg/neontype/internal/stats"
	"github.com/verte-zerg/neontype/internal/theme"
)

const (
	contentRatio = 0.70
	chartHeight  = 8
)

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch {
	case m.loading || m.session == nil:
		body = m.viewLoading()
	case m.session.Phase() == model.Finished:
		body = m.viewResults()
	default:
		body = m.viewTyping()
	}
	footer := m.help.View(m.keys)
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + footer
	}
	bg := lipgloss.WithWhitespaceBackground(m.theme.BG)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body, bg)
	}
	content := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body, bg)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer, bg)
	return content + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * contentRatio)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) viewLoading() string {
	return m.spinner.View() + m.styles.Muted.Render(" Generating text...")
}

func (m *Model) viewTyping() string {
	target := m.session.Target()
	input := m.session.InputRunes()
	cursorIndex := -1
	if len(input) < len(target) {
		cursorIndex = len(input)
	}
	styled := buildStyledRunes(m.styles, target, input, cursorIndex)
	width := m.contentWidth()
	text := renderStyledRunes(styled)
	if width > 0 {
		text = lipgloss.NewStyle().Width(width).Render(wrapStyledRunes(styled, width))
	}
	if m.shaking {
		text = m.styles.Shake.Render(text)
	}

	lines := []string{m.renderHeader()}
	if m.session.Phase() == model.Idle {
		lines = append(lines, m.renderConfigBar())
	}
	hint := ""
	if m.session.Phase() == model.Idle && len(input) == 0 {
		hint = m.styles.Muted.Render("Type to start...")
	}
	lines = append(lines, "", hint, text)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderHeader() string {
	title := m.styles.Accent.Render("NeonType")
	var status string
	if m.cfg.Mode == model.TimeLimited {
		status = fmt.Sprintf("%d", m.session.Remaining())
	} else {
		typed, total := m.session.Progress()
		status = fmt.Sprintf("%d/%d", typed, total)
	}
	return title + m.styles.Muted.Render("  ") + m.styles.Big.Render(status)
}

func (m *Model) renderConfigBar() string {
	return renderConfigBar(m.styles, m.cfg)
}

func renderConfigBar(st theme.Styles, cfg model.Config) string {
	pick := func(label string, active bool) string {
		if active {
			return st.Accent.Render(label)
		}
		return st.Muted.Render(label)
	}
	sep := st.Muted.Render("  |  ")

	modes := pick("time", cfg.Mode == model.TimeLimited) + " " + pick("words", cfg.Mode == model.WordLimited)
	var amounts []string
	if cfg.Mode == model.TimeLimited {
		for _, d := range model.DurationOptions {
			amounts = append(amounts, pick(fmt.Sprintf("%d", d), d == cfg.Duration))
		}
	} else {
		for _, n := range model.WordCountOptions {
			amounts = append(amounts, pick(fmt.Sprintf("%d", n), n == cfg.WordCount))
		}
	}
	var topics []string
	for _, t := range model.Topics {
		topics = append(topics, pick(strings.ToLower(string(t)), t == cfg.Topic))
	}
	sound := "sound off"
	if cfg.Sound {
		sound = "sound on"
	}
	parts := []string{
		modes,
		strings.Join(amounts, " "),
		strings.Join(topics, " "),
		st.Muted.Render(sound),
		st.Muted.Render(theme.Get(cfg.Theme).Name),
	}
	return strings.Join(parts, sep)
}

func (m *Model) viewResults() string {
	res, ok := m.session.Result()
	if !ok {
		return ""
	}
	st := m.styles
	big := st.Big.Render(fmt.Sprintf("%.0f", math.Round(res.WPM)))
	summary := lipgloss.JoinHorizontal(lipgloss.Center,
		st.Muted.Render("wpm "), big,
		st.Muted.Render("   raw "), st.Base.Render(fmt.Sprintf("%.0f", math.Round(res.RawWPM))),
		st.Muted.Render("   acc "), st.Base.Render(fmt.Sprintf("%.0f%%", math.Round(res.Accuracy))),
		st.Muted.Render("   chars "),
		st.Correct.Render(fmt.Sprintf("%d", res.CorrectChars)),
		st.Muted.Render("/"),
		st.Incorrect.Render(fmt.Sprintf("%d", res.IncorrectChars)),
	)

	var chart strings.Builder
	if err := stats.RenderPerformance(&chart, res.History, m.smooth, m.contentWidth(), chartHeight, true); err != nil {
		m.log.Warn().Err(err).Msg("failed to render performance chart")
	}
	hint := st.Muted.Render("tab to restart")
	return lipgloss.JoinVertical(lipgloss.Left, summary, "", strings.TrimRight(chart.String(), "\n"), "", hint)
}
