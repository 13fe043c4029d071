package theme

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	dark "github.com/thiagokokada/dark-mode-go"
)

// Scheme is the resolved color set for one menu surface.
type Scheme struct {
	Foreground colorful.Color
	Border     colorful.Color
	Disabled   colorful.Color
	Background colorful.Color
}

// Palette carries both named schemes.
type Palette struct {
	Dark  Scheme
	Light Scheme
}

var (
	darkScheme = Scheme{
		Foreground: mustHex("#e0e0e7"),
		Border:     mustHex("#454545"),
		Disabled:   mustHex("#595656"),
		Background: mustHex("#262525"),
	}
	lightScheme = Scheme{
		Foreground: mustHex("#0e0e0e"),
		Border:     mustHex("#e2e2e9"),
		Disabled:   mustHex("#595656"),
		Background: mustHex("#f5f5f5"),
	}
)

// mustHex parses a built-in color constant.
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("theme: bad color %q: %v", s, err))
	}
	return c
}

// DefaultPalette returns the stock dark and light schemes.
func DefaultPalette() Palette {
	return Palette{Dark: darkScheme, Light: lightScheme}
}

// Resolve picks the scheme for the requested mode.
func (p Palette) Resolve(isDark bool) Scheme {
	if isDark {
		return p.Dark
	}
	return p.Light
}

// Resolve picks a scheme from the default palette.
func Resolve(isDark bool) Scheme {
	return DefaultPalette().Resolve(isDark)
}

// Brush returns the fill used behind an item. Selected items are painted
// with the border color.
func (s Scheme) Brush(selected bool) color.Color {
	if selected {
		return s.Border
	}
	return s.Background
}

// Mode is the configured theme preference.
type Mode string

const (
	ModeDark   Mode = "dark"
	ModeLight  Mode = "light"
	ModeSystem Mode = "system"
)

// ParseMode accepts dark, light or system (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDark:
		return ModeDark, nil
	case ModeLight:
		return ModeLight, nil
	case ModeSystem, "":
		return ModeSystem, nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark, light or system)", s)
}

// IsDark resolves the mode, consulting the OS preference for ModeSystem.
func (m Mode) IsDark() bool {
	switch m {
	case ModeDark:
		return true
	case ModeLight:
		return false
	}
	return System()
}

var detectDarkMode = dark.IsDarkMode

// System reports whether the OS prefers dark applications. Detection
// failures fall back to light.
func System() bool {
	isDark, err := detectDarkMode()
	if err != nil {
		return false
	}
	return isDark
}
