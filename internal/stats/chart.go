package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"
)

// Series is a named run of values to plot.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultChartHeight = 10
	defaultTotalWidth  = 80
	minPlotWidth       = 10
	axisLabelWidth     = 5
	axisSeparator      = " │ "
	ansiReset          = "\x1b[0m"
)

// stroke is how one series is drawn. A dash of zero draws a solid line,
// otherwise the line is on for dash dots out of every 2*dash.
type stroke struct {
	label string
	color string
	dash  int
}

var strokes = []stroke{
	{label: "solid", color: "\x1b[36m"},
	{label: "dashed", color: "\x1b[35m", dash: 3},
}

// Chart draws series as braille lines over one shared vertical axis that
// always includes zero.
type Chart struct {
	Title  string
	Width  int
	Height int
	Color  bool
}

// PlotWidthFor returns the plot columns left once the axis is drawn in
// totalWidth columns. A non-positive width assumes an 80 column terminal.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = defaultTotalWidth
	}
	return max(totalWidth-axisLabelWidth-utf8.RuneCountInString(axisSeparator), minPlotWidth)
}

// Render writes the chart. Series without values are skipped and nothing is
// written when none remain.
func (c Chart) Render(w io.Writer, series []Series) error {
	width := max(c.Width, minPlotWidth)
	height := c.Height
	if height <= 0 {
		height = defaultChartHeight
	}

	var fitted []Series
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		fitted = append(fitted, Series{Name: s.Name, Values: fitToWidth(s.Values, width)})
	}
	if len(fitted) == 0 {
		return nil
	}
	lo, hi := sharedRange(fitted)

	layers := make([]*canvas, len(fitted))
	for i, s := range fitted {
		layers[i] = newCanvas(width, height)
		layers[i].trace(s.Values, lo, hi, strokes[i%len(strokes)].dash)
	}

	color := c.Color && os.Getenv("NO_COLOR") == ""
	labels := axisLabels(height, lo, hi)
	var out strings.Builder
	if c.Title != "" {
		out.WriteString(c.Title)
		out.WriteByte('\n')
	}
	for row := 0; row < height; row++ {
		fmt.Fprintf(&out, "%*s%s", axisLabelWidth, labels[row], axisSeparator)
		for col := 0; col < width; col++ {
			mask, owner := 0, -1
			for i, layer := range layers {
				if m := layer.cells[row][col]; m != 0 {
					mask |= int(m)
					if owner < 0 {
						owner = i
					}
				}
			}
			ch := rune(0x2800 + mask)
			if color && owner >= 0 {
				out.WriteString(strokes[owner%len(strokes)].color)
				out.WriteRune(ch)
				out.WriteString(ansiReset)
				continue
			}
			out.WriteRune(ch)
		}
		out.WriteByte('\n')
	}
	out.WriteString(legend(fitted, color))
	out.WriteByte('\n')
	_, err := io.WriteString(w, out.String())
	return err
}

func sharedRange(series []Series) (lo, hi float64) {
	lo, hi = 0, math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1e-9 {
		hi = lo + 1
	}
	return lo, hi
}

func axisLabels(height int, lo, hi float64) []string {
	labels := make([]string, height)
	labels[0] = fmt.Sprintf("%.0f", hi)
	if height > 1 {
		labels[height-1] = fmt.Sprintf("%.0f", lo)
	}
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.0f", (lo+hi)/2)
	}
	return labels
}

func legend(series []Series, color bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		st := strokes[i%len(strokes)]
		part := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, st.label)
		if color {
			part = st.color + part + ansiReset
		}
		parts[i] = part
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// fitToWidth maps values onto n columns, averaging buckets when there are
// more values than columns and interpolating linearly when there are fewer.
func fitToWidth(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == n:
		copy(out, values)
	case len(values) > n:
		for i := range out {
			from := i * len(values) / n
			to := max((i+1)*len(values)/n, from+1)
			var sum float64
			for _, v := range values[from:to] {
				sum += v
			}
			out[i] = sum / float64(to-from)
		}
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		step := float64(len(values)-1) / float64(n-1)
		for i := range out {
			pos := float64(i) * step
			j := min(int(pos), len(values)-2)
			frac := pos - float64(j)
			out[i] = values[j] + (values[j+1]-values[j])*frac
		}
	}
	return out
}

// canvas is a grid of braille cells, each two dots wide and four tall.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

// brailleBits indexes dot bits by [column][row] within a cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (c *canvas) dot(x, y int) {
	row, col := y/4, x/2
	if x < 0 || y < 0 || row >= len(c.cells) || col >= len(c.cells[row]) {
		return
	}
	c.cells[row][col] |= brailleBits[x%2][y%4]
}

// trace joins one point per cell column, drawing in the left dot column.
func (c *canvas) trace(values []float64, lo, hi float64, dash int) {
	dots := len(c.cells) * 4
	plot := func(x, y int) {
		if dash == 0 || x%(2*dash) < dash {
			c.dot(x, y)
		}
	}
	prevX, prevY := -1, -1
	for i, v := range values {
		x := i * 2
		y := int(math.Round((hi - v) / (hi - lo) * float64(dots-1)))
		y = min(max(y, 0), dots-1)
		if prevX < 0 {
			plot(x, y)
		} else {
			line(prevX, prevY, x, y, plot)
		}
		prevX, prevY = x, y
	}
}

// line walks from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
