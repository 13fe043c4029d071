package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"reflect"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/ownerdraw-menu/internal/catalog"
	"github.com/atomicstack/ownerdraw-menu/internal/fontmetrics"
	"github.com/atomicstack/ownerdraw-menu/internal/logging/events"
	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/popup"
	"github.com/atomicstack/ownerdraw-menu/internal/stats"
	"github.com/atomicstack/ownerdraw-menu/internal/theme"
)

// Options configure a Model.
type Options struct {
	Width    int
	Height   int
	Menu     string
	Delay    time.Duration
	Layout   menu.Layout
	Settings catalog.Settings
	Themes   *theme.Registry
	Stats    *stats.Collector
}

type msgHandler func(tea.Msg) tea.Cmd

// timerMsg carries a submenu timer back into Update.
type timerMsg struct {
	Token menu.TimerToken
}

type shownMenu struct {
	id     menu.ID
	bounds image.Rectangle
}

// Model implements the Bubble Tea model for the menu host.
type Model struct {
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	keys     keyMap
	registry *catalog.Registry
	themes   *theme.Registry
	stats    *stats.Collector
	settings catalog.Settings
	delay    time.Duration
	target   string

	// popup state, valid while run is non-nil
	run       *popup.Run
	active    *menu.Menu
	shown     []shownMenu
	captured  bool
	resized   *tea.WindowSizeMsg
	redeliver []menu.PointerDown

	pointer image.Point
	pressed menu.Button
	cmds    []tea.Cmd

	status string
	errMsg string

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the catalog menus and initialises the UI state.
func NewModel(opts Options) (*Model, error) {
	themes := opts.Themes
	if themes == nil {
		themes = theme.NewRegistry(theme.StylesOpener(theme.DefaultPalette()), opts.Settings.Theme.IsDark())
	}
	layout := opts.Layout
	if layout == (menu.Layout{}) {
		layout = menu.CellLayout()
	}
	registry := catalog.NewRegistry(menu.Environment{Metrics: fontmetrics.Cells{}, Themes: themes}, opts.Stats)
	if err := registry.RegisterDefaults(opts.Settings, menu.Options{Layout: layout, Dark: themes.Dark()}); err != nil {
		_ = registry.Close()
		return nil, err
	}
	target := opts.Menu
	if _, ok := registry.Find(target); !ok {
		target = catalog.LabelPlayer
	}
	m := &Model{
		keys:     defaultKeyMap(),
		registry: registry,
		themes:   themes,
		stats:    opts.Stats,
		settings: opts.Settings,
		delay:    opts.Delay,
		target:   target,
		pressed:  menu.ButtonPrimary,
		status:   "right-click to open the " + target + " menu",
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.registerHandlers()
	return m, nil
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			m.cmds = append(m.cmds, cmd)
		}
	}
	return m, m.finishUpdate()
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tea.BlurMsg{}):       m.handleBlurMsg,
		reflect.TypeOf(timerMsg{}):          m.handleTimerMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate() tea.Cmd {
	cmds := m.cmds
	m.cmds = nil
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	if m.run != nil {
		m.feed(menu.Foreign{Payload: size})
		return nil
	}
	m.resize(size)
	return nil
}

func (m *Model) resize(size tea.WindowSizeMsg) {
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
}

func (m *Model) handleBlurMsg(tea.Msg) tea.Cmd {
	if m.run != nil {
		m.feed(menu.Deactivated{})
	}
	return nil
}

func (m *Model) handleTimerMsg(msg tea.Msg) tea.Cmd {
	if m.run != nil {
		m.feed(menu.TimerFired{Token: msg.(timerMsg).Token})
	}
	return nil
}

// Target is the label of the menu the next right click opens.
func (m *Model) Target() string { return m.target }

// Settings returns the current player settings.
func (m *Model) Settings() catalog.Settings { return m.settings }

// Active reports whether a popup session is running.
func (m *Model) Active() bool { return m.run != nil }

// Status is the text of the status line.
func (m *Model) Status() string {
	if m.errMsg != "" {
		return m.errMsg
	}
	return m.status
}

// Menu returns the registered menu for label.
func (m *Model) Menu(label string) *menu.Menu {
	mm, _ := m.registry.Find(label)
	return mm
}

// Close destroys every menu the model registered.
func (m *Model) Close() error {
	if m.run != nil {
		m.run.Cancel(context.Canceled)
		m.endRun()
	}
	return m.registry.Close()
}

// open pops up the target menu at p.
func (m *Model) open(p image.Point) {
	root, ok := m.registry.Find(m.target)
	if !ok {
		return
	}
	m.errMsg = ""
	m.active = root
	run, err := popup.Start(m, root, p, popup.Options{Delay: m.delay, Stats: m.stats})
	if err != nil {
		m.active = nil
		m.shown = nil
		m.errMsg = fmt.Sprintf("open %s menu: %v", m.target, err)
		return
	}
	m.run = run
}

// feed hands ev to the running session and wraps up when it ends.
func (m *Model) feed(ev menu.Event) {
	if m.run == nil {
		return
	}
	done := m.run.Feed(ev)
	if !done && m.resized != nil {
		// the popup was placed for the old screen size
		m.run.Cancel(context.Canceled)
		done = true
	}
	if done {
		m.endRun()
	}
}

func (m *Model) endRun() {
	sel, err := m.run.Finish()
	m.run = nil
	m.active = nil
	m.shown = nil
	if m.resized != nil {
		m.resize(*m.resized)
		m.resized = nil
	}
	switch {
	case err != nil && !isCancel(err):
		m.errMsg = err.Error()
	case sel != nil:
		m.applySelection(*sel)
	default:
		m.status = "menu dismissed"
	}
	pending := m.redeliver
	m.redeliver = nil
	for _, ev := range pending {
		events.App.Redelivered(ev.Point.X, ev.Point.Y, ev.Button.String())
		m.ownerPress(ev)
	}
}

func (m *Model) applySelection(sel menu.Selection) {
	next, changed := m.settings.Apply(sel)
	themeChanged := next.Theme != m.settings.Theme
	m.settings = next
	text, _ := menu.Item{Label: sel.Label}.Accelerator()
	m.status = "selected " + text
	if !changed {
		return
	}
	if themeChanged {
		m.setTheme(next.Theme.IsDark())
	}
	m.syncMenus()
}

// syncMenus pushes settings changed through one menu into the others.
func (m *Model) syncMenus() {
	s := m.settings
	if sortMenu, ok := m.registry.Find(catalog.LabelSort); ok {
		sortMenu.SetChecked(catalog.ItemID(catalog.Sort, string(s.Sort)), true)
		sortMenu.SetChecked(catalog.ItemID(catalog.Sort, catalog.GroupBy), s.GroupBy)
	}
	if player, ok := m.registry.Find(catalog.LabelPlayer); ok {
		player.SetChecked(catalog.FitToWindow, s.FitToWindow)
		mode := theme.ModeLight
		if m.themes.Dark() {
			mode = theme.ModeDark
		}
		player.SetChecked(catalog.ItemID(catalog.Theme, string(mode)), true)
	}
}

// toggleTheme flips between dark and light, through the session when a
// popup is open so visible menus repaint.
func (m *Model) toggleTheme() {
	isDark := !m.themes.Dark()
	if isDark {
		m.settings.Theme = theme.ModeDark
	} else {
		m.settings.Theme = theme.ModeLight
	}
	if m.run != nil {
		m.feed(menu.ThemeChanged{Dark: isDark})
	} else {
		m.setTheme(isDark)
	}
	m.syncMenus()
}

func (m *Model) setTheme(isDark bool) {
	if err := m.themes.Changed(isDark); err != nil {
		m.errMsg = err.Error()
	}
}

// ownerPress handles a press that landed on the player surface, including
// presses handed back by a dismissed popup.
func (m *Model) ownerPress(ev menu.PointerDown) {
	m.pointer = ev.Point
	if ev.Button == menu.ButtonPrimary {
		m.status = fmt.Sprintf("clicked at %d,%d", ev.Point.X, ev.Point.Y)
	}
}

func (m *Model) cycleTarget() {
	labels := m.registry.Labels()
	for i, label := range labels {
		if label == m.target {
			m.target = labels[(i+1)%len(labels)]
			break
		}
	}
	m.status = "right-click to open the " + m.target + " menu"
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
