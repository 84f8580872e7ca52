// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/verte-zerg/neontype/internal/model"
)

// charsPerWord is the standard typing-test word length.
const charsPerWord = 5.0

// Compute derives a stats snapshot from the target text, the current input and
// the session start. A zero startedAt means the session has not started, so all
// rate metrics are zero. Compute has no side effects.
func Compute(target, input []rune, startedAt, now time.Time, history []model.Sample) model.Stats {
	correct := 0
	for i := 0; i < len(input) && i < len(target); i++ {
		if input[i] == target[i] {
			correct++
		}
	}
	out := model.Stats{
		Accuracy:       100,
		CorrectChars:   correct,
		IncorrectChars: len(input) - correct,
		MissedChars:    len(target) - len(input),
		History:        append([]model.Sample(nil), history...),
	}
	if out.MissedChars < 0 {
		out.MissedChars = 0
	}
	if len(input) > 0 {
		out.Accuracy = float64(correct) / float64(len(input)) * 100
	}
	if startedAt.IsZero() {
		return out
	}
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	out.TimeElapsed = elapsed
	out.WPM, out.RawWPM = Rates(correct, len(input), elapsed)
	return out
}

// Rates computes WPM over correct characters and raw WPM over all typed
// characters for the given elapsed time.
func Rates(correct, typed int, elapsed time.Duration) (wpm, raw float64) {
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0, 0
	}
	wpm = (float64(correct) / charsPerWord) / minutes
	raw = (float64(typed) / charsPerWord) / minutes
	return wpm, raw
}

// MovingAverage smooths values with a trailing mean of up to window points.
// A window of one or less returns a copy.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if n > window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// HistorySeries splits samples into WPM and raw WPM series, smoothing both
// with the given moving-average window.
func HistorySeries(history []model.Sample, window int) []Series {
	if len(history) == 0 {
		return nil
	}
	wpms := make([]float64, len(history))
	raws := make([]float64, len(history))
	for i, s := range history {
		wpms[i] = s.WPM
		raws[i] = s.Raw
	}
	return []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Raw", Values: MovingAverage(raws, window)},
	}
}

// RenderResults prints a results summary table.
func RenderResults(w io.Writer, s model.Stats) error {
	if _, err := fmt.Fprintln(w, "Results"); err != nil {
		return err
	}
	rows := []summaryRow{
		{"WPM", fmt.Sprintf("%.0f", math.Round(s.WPM))},
		{"Raw", fmt.Sprintf("%.0f", math.Round(s.RawWPM))},
		{"Accuracy", fmt.Sprintf("%.0f%%", math.Round(s.Accuracy))},
		{"Correct", fmt.Sprintf("%d", s.CorrectChars)},
		{"Incorrect", fmt.Sprintf("%d", s.IncorrectChars)},
		{"Missed", fmt.Sprintf("%d", s.MissedChars)},
		{"Time", fmt.Sprintf("%.1fs", s.ElapsedSeconds())},
	}
	for _, line := range summaryLines(rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderPerformance plots the WPM history of a finished session, smoothed
// over window samples, into totalWidth columns including the axis.
func RenderPerformance(w io.Writer, history []model.Sample, window, totalWidth, height int, useColor bool) error {
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "No samples recorded.")
		return err
	}
	return Chart{
		Title:  "Performance Over Time",
		Width:  PlotWidthFor(totalWidth),
		Height: height,
		Color:  useColor,
	}.Render(w, HistorySeries(history, window))
}
