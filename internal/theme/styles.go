package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles are the Lip Gloss styles used by the terminal host chrome. A Styles
// value doubles as the theme Resource opened by the terminal host.
type Styles struct {
	dark bool

	Hint         *lipgloss.Style
	Status       *lipgloss.Style
	StatusError  *lipgloss.Style
	StatusResult *lipgloss.Style
}

// NewStyles derives chrome styles from the palette scheme for isDark.
func NewStyles(p Palette, isDark bool) *Styles {
	s := p.Resolve(isDark)
	muted := s.Background.BlendLab(s.Foreground, 0.45)
	return &Styles{
		dark: isDark,
		Hint: ptr(
			lipgloss.NewStyle().Foreground(Color(muted)).Background(Color(s.Border)).Italic(true),
		),
		Status: ptr(
			lipgloss.NewStyle().Foreground(Color(s.Foreground)).Background(Color(s.Border)),
		),
		StatusError: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Background(Color(s.Border)).Bold(true),
		),
		StatusResult: ptr(
			lipgloss.NewStyle().Foreground(Color(s.Foreground)).Background(Color(s.Border)).Bold(true),
		),
	}
}

// Dark implements Resource.
func (s *Styles) Dark() bool { return s.dark }

// Close implements Resource.
func (s *Styles) Close() error { return nil }

// StylesOpener opens Styles resources for the given palette.
func StylesOpener(p Palette) Opener {
	return OpenerFunc(func(isDark bool) (Resource, error) {
		return NewStyles(p, isDark), nil
	})
}

// Color converts a palette color into a Lip Gloss color.
func Color(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
