package stats

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/neontype/internal/model"
)

func TestComputeCleanRun(t *testing.T) {
	start := time.Unix(1000, 0)
	now := start.Add(6 * time.Second)
	target := []rune("cat dog")

	got := Compute(target, []rune("cat dog"), start, now, nil)
	if got.CorrectChars != 7 || got.IncorrectChars != 0 || got.MissedChars != 0 {
		t.Fatalf("unexpected char counts: %+v", got)
	}
	if got.Accuracy != 100 {
		t.Fatalf("expected accuracy 100, got %v", got.Accuracy)
	}
	if math.Abs(got.WPM-14) > 1e-9 {
		t.Fatalf("expected 14 WPM, got %v", got.WPM)
	}
	if math.Abs(got.RawWPM-14) > 1e-9 {
		t.Fatalf("expected 14 raw WPM, got %v", got.RawWPM)
	}
	if got.TimeElapsed != 6*time.Second {
		t.Fatalf("expected 6s elapsed, got %v", got.TimeElapsed)
	}
}

func TestComputeWithErrors(t *testing.T) {
	start := time.Unix(0, 0)
	now := start.Add(time.Minute)
	got := Compute([]rune("abcdefghij"), []rune("abxdex"), start, now, nil)
	if got.CorrectChars != 4 || got.IncorrectChars != 2 || got.MissedChars != 4 {
		t.Fatalf("unexpected char counts: %+v", got)
	}
	if math.Abs(got.Accuracy-200.0/3) > 1e-9 {
		t.Fatalf("unexpected accuracy %v", got.Accuracy)
	}
	if math.Abs(got.WPM-0.8) > 1e-9 || math.Abs(got.RawWPM-1.2) > 1e-9 {
		t.Fatalf("unexpected rates: wpm=%v raw=%v", got.WPM, got.RawWPM)
	}
}

func TestComputeNotStarted(t *testing.T) {
	got := Compute([]rune("abc"), nil, time.Time{}, time.Now(), nil)
	if got.WPM != 0 || got.RawWPM != 0 || got.TimeElapsed != 0 {
		t.Fatalf("expected zero rates before start: %+v", got)
	}
	if got.Accuracy != 100 {
		t.Fatalf("expected vacuous accuracy 100, got %v", got.Accuracy)
	}
	if got.MissedChars != 3 {
		t.Fatalf("expected 3 missed chars, got %d", got.MissedChars)
	}
}

func TestComputeZeroElapsed(t *testing.T) {
	start := time.Unix(50, 0)
	got := Compute([]rune("abc"), []rune("a"), start, start, nil)
	if got.WPM != 0 || got.RawWPM != 0 {
		t.Fatalf("expected zero rates for zero elapsed time: %+v", got)
	}
}

func TestComputeIsPure(t *testing.T) {
	start := time.Unix(0, 0)
	now := start.Add(10 * time.Second)
	history := []model.Sample{{Elapsed: 1, WPM: 10, Raw: 12}}
	a := Compute([]rune("hello world"), []rune("hellp"), start, now, history)
	b := Compute([]rune("hello world"), []rune("hellp"), start, now, history)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical output, got %+v and %+v", a, b)
	}
	a.History[0].WPM = 99
	if history[0].WPM != 10 {
		t.Fatalf("expected history to be copied")
	}
}

func TestComputeAccuracyBounds(t *testing.T) {
	target := []rune("abcd")
	for _, in := range []string{"", "a", "x", "xxxx", "abcd", "abxx"} {
		got := Compute(target, []rune(in), time.Unix(0, 0), time.Unix(5, 0), nil)
		if got.Accuracy < 0 || got.Accuracy > 100 {
			t.Fatalf("accuracy out of range for %q: %v", in, got.Accuracy)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := MovingAverage([]float64{2, 4}, 1); !reflect.DeepEqual(got, []float64{2, 4}) {
		t.Fatalf("expected window 1 to copy, got %v", got)
	}
}

func TestRenderResults(t *testing.T) {
	var buf bytes.Buffer
	err := RenderResults(&buf, model.Stats{
		WPM:            71.6,
		RawWPM:         80.2,
		Accuracy:       96.4,
		CorrectChars:   180,
		IncorrectChars: 7,
		MissedChars:    13,
		TimeElapsed:    30 * time.Second,
	})
	if err != nil {
		t.Fatalf("render results: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Results", "72", "80", "96%", "180", "30.0s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("results missing %q: %s", want, out)
		}
	}
}

func TestHistorySeries(t *testing.T) {
	series := HistorySeries([]model.Sample{{Elapsed: 1, WPM: 10, Raw: 20}, {Elapsed: 2, WPM: 30, Raw: 40}}, 1)
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	if series[0].Name != "WPM" || !reflect.DeepEqual(series[0].Values, []float64{10, 30}) {
		t.Fatalf("unexpected wpm series %+v", series[0])
	}
	if series[1].Name != "Raw" || !reflect.DeepEqual(series[1].Values, []float64{20, 40}) {
		t.Fatalf("unexpected raw series %+v", series[1])
	}
}

func TestHistorySeriesSmoothed(t *testing.T) {
	history := []model.Sample{
		{Elapsed: 1, WPM: 10, Raw: 10},
		{Elapsed: 2, WPM: 50, Raw: 60},
		{Elapsed: 3, WPM: 20, Raw: 20},
	}
	series := HistorySeries(history, 3)
	if !reflect.DeepEqual(series[0].Values, []float64{10, 30, 80.0 / 3}) {
		t.Fatalf("unexpected smoothed wpm %v", series[0].Values)
	}
	if !reflect.DeepEqual(series[1].Values, []float64{10, 35, 30}) {
		t.Fatalf("unexpected smoothed raw %v", series[1].Values)
	}
}

func TestRenderPerformanceSmoothingChangesScale(t *testing.T) {
	history := []model.Sample{
		{Elapsed: 1, WPM: 10, Raw: 10},
		{Elapsed: 2, WPM: 90, Raw: 90},
		{Elapsed: 3, WPM: 10, Raw: 10},
	}
	var raw, smooth bytes.Buffer
	if err := RenderPerformance(&raw, history, 1, 41, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := RenderPerformance(&smooth, history, 2, 41, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(raw.String(), "\n   90 │") {
		t.Fatalf("expected unsmoothed peak 90, got:\n%s", raw.String())
	}
	if !strings.Contains(smooth.String(), "\n   50 │") {
		t.Fatalf("expected smoothed peak 50, got:\n%s", smooth.String())
	}
}

func TestRenderPerformanceNoSamples(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPerformance(&buf, nil, 1, 40, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No samples recorded.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
