// Package fontmetrics supplies the menu font and the host screen metrics used
// by menu layout. Faces measures in pixels with the Go fonts; Cells measures
// in terminal cells.
package fontmetrics

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FaceOptions describes the UI font and the host metrics reported alongside it.
type FaceOptions struct {
	Size float64
	DPI  float64

	// MenuItemHeight is the host's standard menu bar/item height.
	MenuItemHeight int
	// CheckGlyphWidth is the host's menu check-mark glyph width.
	CheckGlyphWidth int
	// ArrowWidth is the width reserved for the submenu arrow.
	ArrowWidth int
}

// DefaultFaceOptions mirrors a 9pt UI font at 96 DPI.
func DefaultFaceOptions() FaceOptions {
	return FaceOptions{
		Size:            9,
		DPI:             96,
		MenuItemHeight:  20,
		CheckGlyphWidth: 15,
		ArrowWidth:      17,
	}
}

// Faces is a pixel metrics provider backed by opentype faces.
type Faces struct {
	regular font.Face
	bold    font.Face
	opts    FaceOptions
}

// NewFaces parses the Go regular and bold fonts at the requested size.
func NewFaces(opts FaceOptions) (*Faces, error) {
	if opts.Size <= 0 || opts.DPI <= 0 {
		return nil, fmt.Errorf("invalid font size %.1f at %.0f dpi", opts.Size, opts.DPI)
	}
	regular, err := newFace(goregular.TTF, opts)
	if err != nil {
		return nil, fmt.Errorf("load regular face: %w", err)
	}
	bold, err := newFace(gobold.TTF, opts)
	if err != nil {
		return nil, fmt.Errorf("load bold face: %w", err)
	}
	return &Faces{regular: regular, bold: bold, opts: opts}, nil
}

func newFace(ttf []byte, opts FaceOptions) (font.Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    opts.Size,
		DPI:     opts.DPI,
		Hinting: font.HintingFull,
	})
}

// Face returns the regular or bold face.
func (f *Faces) Face(bold bool) font.Face {
	if bold {
		return f.bold
	}
	return f.regular
}

func (f *Faces) MeasureText(s string, bold bool) (int, error) {
	return font.MeasureString(f.Face(bold), s).Ceil(), nil
}

func (f *Faces) LineHeight(bold bool) (int, error) {
	m := f.Face(bold).Metrics()
	h := (m.Ascent + m.Descent).Ceil()
	if h <= 0 {
		return 0, fmt.Errorf("face reports non-positive line height %d", h)
	}
	return h, nil
}

func (f *Faces) MenuItemHeight() int  { return f.opts.MenuItemHeight }
func (f *Faces) CheckGlyphWidth() int { return f.opts.CheckGlyphWidth }
func (f *Faces) ArrowWidth() int      { return f.opts.ArrowWidth }

// Close releases both faces.
func (f *Faces) Close() error {
	if err := f.regular.Close(); err != nil {
		return err
	}
	return f.bold.Close()
}

// Cells measures text in terminal columns. Every row is one cell high.
type Cells struct{}

func (Cells) MeasureText(s string, bold bool) (int, error) {
	return runewidth.StringWidth(s), nil
}

func (Cells) LineHeight(bool) (int, error) { return 1, nil }
func (Cells) MenuItemHeight() int          { return 1 }
func (Cells) CheckGlyphWidth() int         { return 1 }
func (Cells) ArrowWidth() int              { return 1 }
