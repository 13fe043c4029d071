// Package cells renders menus into a terminal cell grid.
package cells

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/ownerdraw-menu/internal/menu"
)

// Cell is one terminal position. Rune 0 marks the right half of a wide rune.
type Cell struct {
	Rune rune
	FG   color.Color
	BG   color.Color
	Bold bool
}

// Canvas is a fixed-size cell grid.
type Canvas struct {
	w, h  int
	cells []Cell
}

// NewCanvas fills a w×h grid with blanks in the given colors.
func NewCanvas(w, h int, fg, bg color.Color) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{w: w, h: h, cells: make([]Cell, w*h)}
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' ', FG: fg, BG: bg}
	}
	return c
}

// Size is the grid size in cells.
func (c *Canvas) Size() image.Point { return image.Pt(c.w, c.h) }

// At returns the cell at (x, y); out-of-range positions yield a zero Cell.
func (c *Canvas) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return Cell{}
	}
	return c.cells[y*c.w+x]
}

func (c *Canvas) cell(x, y int) *Cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// Put writes s starting at (x, y), clipped to the canvas.
func (c *Canvas) Put(x, y int, s string, fg, bg color.Color, bold bool) {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if cell := c.cell(x, y); cell != nil {
			*cell = Cell{Rune: r, FG: fg, BG: bg, Bold: bold}
		}
		if rw == 2 {
			if cell := c.cell(x+1, y); cell != nil {
				*cell = Cell{Rune: 0, FG: fg, BG: bg, Bold: bold}
			}
		}
		x += rw
	}
}

// Surface returns a menu drawing surface whose client origin sits at origin.
func (c *Canvas) Surface(origin image.Point) *Surface {
	return &Surface{canvas: c, origin: origin}
}

// Plain returns the grid text without styling, one line per row.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.w; x++ {
			if r := c.cells[y*c.w+x].Rune; r != 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// Render returns the grid as Lip Gloss styled lines.
func (c *Canvas) Render() string {
	lines := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var line strings.Builder
		var run strings.Builder
		var cur Cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			line.WriteString(style(cur).Render(run.String()))
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cell := c.cells[y*c.w+x]
			if cell.Rune == 0 {
				continue
			}
			if run.Len() > 0 && !sameStyle(cur, cell) {
				flush()
			}
			cur = cell
			run.WriteRune(cell.Rune)
		}
		flush()
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

func style(c Cell) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(c.Bold)
	if hex := Hex(c.FG); hex != "" {
		s = s.Foreground(lipgloss.Color(hex))
	}
	if hex := Hex(c.BG); hex != "" {
		s = s.Background(lipgloss.Color(hex))
	}
	return s
}

func sameStyle(a, b Cell) bool {
	return a.Bold == b.Bold && Hex(a.FG) == Hex(b.FG) && Hex(a.BG) == Hex(b.BG)
}

// Hex converts any color to #rrggbb, or "" for nil.
func Hex(c color.Color) string {
	if c == nil {
		return ""
	}
	if cc, ok := c.(colorful.Color); ok {
		return cc.Clamped().Hex()
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return cc.Hex()
}

// Surface implements menu.Surface on a Canvas.
type Surface struct {
	canvas   *Canvas
	origin   image.Point
	excluded []image.Rectangle
}

var _ menu.Surface = (*Surface)(nil)

func (s *Surface) visit(r image.Rectangle, fn func(*Cell)) {
	r = r.Add(s.origin)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.touch(x, y, fn)
		}
	}
}

func (s *Surface) touch(x, y int, fn func(*Cell)) {
	p := image.Pt(x, y)
	for _, ex := range s.excluded {
		if p.In(ex) {
			return
		}
	}
	if cell := s.canvas.cell(x, y); cell != nil {
		fn(cell)
	}
}

func (s *Surface) Fill(r image.Rectangle, c color.Color) {
	s.visit(r, func(cell *Cell) {
		*cell = Cell{Rune: ' ', FG: cell.FG, BG: c}
	})
}

func (s *Surface) Frame(r image.Rectangle, c color.Color) {
	r = r.Add(s.origin)
	if r.Dx() < 2 || r.Dy() < 2 {
		return
	}
	set := func(x, y int, ch rune) {
		s.touch(x, y, func(cell *Cell) {
			cell.Rune = ch
			cell.FG = c
		})
	}
	right, bottom := r.Max.X-1, r.Max.Y-1
	for x := r.Min.X + 1; x < right; x++ {
		set(x, r.Min.Y, '─')
		set(x, bottom, '─')
	}
	for y := r.Min.Y + 1; y < bottom; y++ {
		set(r.Min.X, y, '│')
		set(right, y, '│')
	}
	set(r.Min.X, r.Min.Y, '┌')
	set(right, r.Min.Y, '┐')
	set(r.Min.X, bottom, '└')
	set(right, bottom, '┘')
}

func (s *Surface) HLine(x0, x1, y int, c color.Color) {
	s.visit(image.Rect(x0, y, x1, y+1), func(cell *Cell) {
		cell.Rune = '─'
		cell.FG = c
	})
}

func (s *Surface) Text(r image.Rectangle, text string, st menu.TextStyle) {
	width := r.Dx()
	if width <= 0 || r.Dy() <= 0 {
		return
	}
	text = truncate.StringWithTail(text, uint(width), "…")
	x := r.Min.X
	if st.Align == menu.AlignRight {
		x = r.Max.X - runewidth.StringWidth(text)
	}
	y := r.Min.Y + (r.Dy()-1)/2
	for _, ch := range text {
		rw := runewidth.RuneWidth(ch)
		if rw == 0 {
			continue
		}
		s.put(x, y, ch, st.Color, st.Bold)
		if rw == 2 {
			s.put(x+1, y, 0, st.Color, st.Bold)
		}
		x += rw
	}
}

func (s *Surface) put(x, y int, ch rune, fg color.Color, bold bool) {
	s.touch(x+s.origin.X, y+s.origin.Y, func(cell *Cell) {
		cell.Rune = ch
		cell.FG = fg
		cell.Bold = bold
	})
}

func (s *Surface) Glyph(r image.Rectangle, g menu.Glyph, c color.Color) {
	y := r.Min.Y + max(r.Dy()-1, 0)/2
	ch := '✓'
	if g == menu.GlyphArrow {
		ch = '▸'
	}
	s.put(r.Min.X, y, ch, c, false)
}

func (s *Surface) Exclude(r image.Rectangle) {
	s.excluded = append(s.excluded, r.Add(s.origin))
}
