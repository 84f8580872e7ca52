package stats

import "testing"

func TestSummaryLinesAlignsValues(t *testing.T) {
	lines := summaryLines([]summaryRow{
		{"WPM", "72"},
		{"Accuracy", "97%"},
		{"Time", "30.0s"},
	})
	want := []string{
		"WPM         72",
		"Accuracy   97%",
		"Time     30.0s",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestSummaryLinesEmpty(t *testing.T) {
	if lines := summaryLines(nil); len(lines) != 0 {
		t.Fatalf("expected no lines, got %q", lines)
	}
}
