package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/ownerdraw-menu/internal/catalog"
	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/stats"
	"github.com/atomicstack/ownerdraw-menu/internal/theme"
	"github.com/atomicstack/ownerdraw-menu/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	Width         int
	Height        int
	Theme         theme.Mode
	Menu          string
	Delay         time.Duration
	Layout        menu.Layout
	Settings      catalog.Settings
	Snapshot      string
	SnapshotHover int
}

// Run bootstraps and executes the Bubble Tea program, or writes a snapshot
// when one was requested.
func Run(cfg Config, collector *stats.Collector) error {
	if cfg.Snapshot != "" {
		return Snapshot(cfg, collector)
	}
	themes := theme.NewRegistry(theme.StylesOpener(theme.DefaultPalette()), cfg.Theme.IsDark())
	model, err := ui.NewModel(ui.Options{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Menu:     cfg.Menu,
		Delay:    cfg.Delay,
		Layout:   cfg.Layout,
		Settings: cfg.Settings,
		Themes:   themes,
		Stats:    collector,
	})
	if err != nil {
		return fmt.Errorf("build menus: %w", err)
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	return errors.Join(err, model.Close())
}
