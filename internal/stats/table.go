package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type summaryRow struct {
	label string
	value string
}

// summaryLines lays out label/value rows with labels left-aligned and values
// right-aligned to a shared column.
func summaryLines(rows []summaryRow) []string {
	labelWidth, valueWidth := 0, 0
	for _, r := range rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(r.label))
		valueWidth = max(valueWidth, runewidth.StringWidth(r.value))
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		var b strings.Builder
		b.WriteString(runewidth.FillRight(r.label, labelWidth))
		b.WriteByte(' ')
		b.WriteString(runewidth.FillLeft(r.value, valueWidth))
		lines = append(lines, b.String())
	}
	return lines
}
