package demo

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/undock/pkg/geom"
)

// Cell style classes. The canvas tracks a style index per cell and
// applies the lipgloss styles in runs when converting to lines.
const (
	styleNone int8 = iota
	styleChrome
	styleFocus
	styleTitle
	styleActiveTab
	stylePreview
	styleTreePreview
	styleGhost
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#9A9A9A", Dark: "#5C5C5C"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	cellStyles = map[int8]lipgloss.Style{
		styleChrome:      lipgloss.NewStyle().Foreground(subtle),
		styleFocus:       lipgloss.NewStyle().Bold(true).Foreground(highlight),
		styleTitle:       lipgloss.NewStyle().Bold(true),
		styleActiveTab:   lipgloss.NewStyle().Reverse(true),
		stylePreview:     lipgloss.NewStyle().Background(special).Foreground(lipgloss.Color("0")),
		styleTreePreview: lipgloss.NewStyle().Background(highlight).Foreground(lipgloss.Color("0")),
		styleGhost:       lipgloss.NewStyle().Foreground(highlight),
	}
)

// canvas is a rune grid with a per-cell style index. Windows paint over
// each other in z order; styles are applied once at line build time.
type canvas struct {
	w, h   int
	cells  [][]rune
	styles [][]int8
}

func newCanvas(w, h int) *canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &canvas{w: w, h: h}
	c.cells = make([][]rune, h)
	c.styles = make([][]int8, h)
	for y := range c.cells {
		c.cells[y] = make([]rune, w)
		c.styles[y] = make([]int8, w)
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
	return c
}

// cellRect converts desk coordinates to inclusive cell bounds.
func cellRect(r geom.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Round(r.Min.X))
	y0 = int(math.Round(r.Min.Y))
	x1 = int(math.Round(r.Max.X)) - 1
	y1 = int(math.Round(r.Max.Y)) - 1
	return x0, y0, x1, y1
}

func (c *canvas) put(x, y int, ch rune, style int8) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = ch
	c.styles[y][x] = style
}

// shade restyles cells without touching their runes, for highlight
// overlays on top of already drawn content.
func (c *canvas) shade(r geom.Rect, style int8) {
	x0, y0, x1, y1 := cellRect(r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x < 0 || y < 0 || x >= c.w || y >= c.h {
				continue
			}
			c.styles[y][x] = style
		}
	}
}

func (c *canvas) fill(r geom.Rect, ch rune, style int8) {
	x0, y0, x1, y1 := cellRect(r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.put(x, y, ch, style)
		}
	}
}

// box draws a single-line border on the rect's boundary cells.
func (c *canvas) box(r geom.Rect, style int8) {
	c.boxRunes(r, style, '┌', '┐', '└', '┘', '─', '│')
}

// boxDashed is the ghost variant.
func (c *canvas) boxDashed(r geom.Rect, style int8) {
	c.boxRunes(r, style, '+', '+', '+', '+', '┄', '┆')
}

func (c *canvas) boxRunes(r geom.Rect, style int8, tl, tr, bl, br, hor, ver rune) {
	x0, y0, x1, y1 := cellRect(r)
	if x1 < x0 || y1 < y0 {
		return
	}
	for x := x0 + 1; x < x1; x++ {
		c.put(x, y0, hor, style)
		c.put(x, y1, hor, style)
	}
	for y := y0 + 1; y < y1; y++ {
		c.put(x0, y, ver, style)
		c.put(x1, y, ver, style)
	}
	c.put(x0, y0, tl, style)
	c.put(x1, y0, tr, style)
	c.put(x0, y1, bl, style)
	c.put(x1, y1, br, style)
}

// text writes a string starting at a cell, truncated at maxW runes.
func (c *canvas) text(x, y int, s string, maxW int, style int8) {
	if maxW <= 0 {
		return
	}
	i := 0
	for _, ch := range s {
		if i >= maxW {
			break
		}
		c.put(x+i, y, ch, style)
		i++
	}
}

// lines converts the grid to styled strings, one per row, grouping
// equally styled cells into runs.
func (c *canvas) lines() []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var b strings.Builder
		runStart := 0
		runStyle := c.styles[y][0]
		flush := func(end int) {
			seg := string(c.cells[y][runStart:end])
			if st, ok := cellStyles[runStyle]; ok {
				seg = st.Render(seg)
			}
			b.WriteString(seg)
		}
		for x := 1; x < c.w; x++ {
			if c.styles[y][x] != runStyle {
				flush(x)
				runStart = x
				runStyle = c.styles[y][x]
			}
		}
		flush(c.w)
		out[y] = b.String()
	}
	return out
}
