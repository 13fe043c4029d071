package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/atomicstack/ownerdraw-menu/internal/app"
	"github.com/atomicstack/ownerdraw-menu/internal/catalog"
	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/theme"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const envPrefix = "OWNERDRAW_MENU_"

const (
	envTheme         = envPrefix + "THEME"
	envWidth         = envPrefix + "WIDTH"
	envHeight        = envPrefix + "HEIGHT"
	envMenu          = envPrefix + "MENU"
	envDelay         = envPrefix + "DELAY"
	envSnapshot      = envPrefix + "SNAPSHOT"
	envSnapshotHover = envPrefix + "SNAPSHOT_HOVER"
	envTrace         = envPrefix + "TRACE"
	envLogFile       = envPrefix + "LOG_FILE"
	envPlayback      = envPrefix + "PLAYBACK_SPEED"
	envSeek          = envPrefix + "SEEK_SPEED"
	envFit           = envPrefix + "FIT_TO_WINDOW"
	envSort          = envPrefix + "SORT"
	envGroupBy       = envPrefix + "GROUP_BY"
)

// layoutFlags maps each layout flag onto its field.
var layoutFlags = []struct {
	name  string
	usage string
	field func(*menu.Layout) *int
}{
	{"border", "menu border width", func(l *menu.Layout) *int { return &l.BorderWidth }},
	{"vertical-margin", "space above the first and below the last item", func(l *menu.Layout) *int { return &l.VerticalMargin }},
	{"horizontal-margin", "space left and right of the items", func(l *menu.Layout) *int { return &l.HorizontalMargin }},
	{"item-vertical-padding", "padding added to the text height of each item", func(l *menu.Layout) *int { return &l.ItemVerticalPadding }},
	{"item-horizontal-padding", "padding on each side of an item", func(l *menu.Layout) *int { return &l.ItemHorizontalPadding }},
	{"glyph-column", "width of the check and arrow columns", func(l *menu.Layout) *int { return &l.GlyphColumn }},
	{"min-item-height", "minimum item height", func(l *menu.Layout) *int { return &l.MinItemHeight }},
	{"accelerator-spacing", "gap between a label and its accelerator", func(l *menu.Layout) *int { return &l.AcceleratorSpacing }},
	{"submenu-overlap", "horizontal overlap of a submenu with its parent", func(l *menu.Layout) *int { return &l.SubmenuOverlap }},
}

func layoutEnv(name string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)
	defaults := catalog.DefaultSettings()

	fs := pflag.NewFlagSet("ownerdraw-menu", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	themeName := fs.String("theme", envOrDefault(env, envTheme, string(theme.ModeSystem)), "menu theme: dark, light or system")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	menuLabel := fs.String("menu", envOrDefault(env, envMenu, catalog.LabelPlayer), "menu opened by a right click: player, playlist or sort")
	delay := fs.Duration("delay", envOrDuration(env, envDelay, menu.DefaultSubmenuDelay), "hover delay before a submenu opens")
	snapshot := fs.String("snapshot", envOrDefault(env, envSnapshot, ""), "render the menu to this PNG file instead of running interactively")
	hover := fs.Int("snapshot-hover", envOrInt(env, envSnapshotHover, -1), "item index hovered before the snapshot is taken (-1 for none)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	playback := fs.Float64("playback-speed", envOrFloat(env, envPlayback, defaults.PlaybackSpeed), "initial playback speed")
	seek := fs.Float64("seek-speed", envOrFloat(env, envSeek, defaults.SeekSpeed), "initial seek speed in seconds")
	fit := fs.Bool("fit-to-window", envOrBool(env, envFit, defaults.FitToWindow), "initial fit-to-window state")
	sortName := fs.String("sort", envOrDefault(env, envSort, string(defaults.Sort)), "playlist order: NameAsc, NameDesc, DateAsc or DateDesc")
	groupBy := fs.Bool("group-by", envOrBool(env, envGroupBy, defaults.GroupBy), "group the playlist by directory")

	layoutValues := make([]*int, len(layoutFlags))
	for i, lf := range layoutFlags {
		layoutValues[i] = fs.Int(lf.name, envOrInt(env, layoutEnv(lf.name), -1), lf.usage+" (-1 keeps the default)")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *delay < 0 {
		return Config{}, fmt.Errorf("delay must be >= 0 (got %s)", *delay)
	}
	mode, err := theme.ParseMode(*themeName)
	if err != nil {
		return Config{}, err
	}
	order, ok := catalog.ParseSortOrder(*sortName)
	if !ok {
		return Config{}, fmt.Errorf("unknown sort order %q", *sortName)
	}

	layout := menu.CellLayout()
	if *snapshot != "" {
		layout = menu.DefaultLayout()
	}
	flags := map[string]string{
		"theme":         string(mode),
		"width":         strconv.Itoa(*width),
		"height":        strconv.Itoa(*height),
		"menu":          *menuLabel,
		"delay":         delay.String(),
		"snapshot":      *snapshot,
		"snapshotHover": strconv.Itoa(*hover),
		"trace":         strconv.FormatBool(*trace),
		"logFile":       *logFile,
		"playbackSpeed": strconv.FormatFloat(*playback, 'f', -1, 64),
		"seekSpeed":     strconv.FormatFloat(*seek, 'f', -1, 64),
		"fitToWindow":   strconv.FormatBool(*fit),
		"sort":          string(order),
		"groupBy":       strconv.FormatBool(*groupBy),
	}
	for i, lf := range layoutFlags {
		v := *layoutValues[i]
		if v < 0 {
			if v != -1 {
				return Config{}, fmt.Errorf("%s must be >= 0 (got %d)", lf.name, v)
			}
			continue
		}
		*lf.field(&layout) = v
		flags[lf.name] = strconv.Itoa(v)
	}

	cfg := Config{
		App: app.Config{
			Width:         *width,
			Height:        *height,
			Theme:         mode,
			Menu:          *menuLabel,
			Delay:         *delay,
			Layout:        layout,
			Snapshot:      *snapshot,
			SnapshotHover: *hover,
			Settings: catalog.Settings{
				Theme:         mode,
				PlaybackSpeed: *playback,
				SeekSpeed:     *seek,
				FitToWindow:   *fit,
				Sort:          order,
				GroupBy:       *groupBy,
			},
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: flags,
		Args:  append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrFloat(env map[string]string, key string, fallback float64) float64 {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks values that parse but cannot be used.
func Validate(cfg Config) error {
	if err := cfg.App.Layout.Validate(); err != nil {
		return err
	}
	switch cfg.App.Menu {
	case catalog.LabelPlayer, catalog.LabelPlaylist, catalog.LabelSort:
	default:
		return fmt.Errorf("unknown menu %q (want player, playlist or sort)", cfg.App.Menu)
	}
	if s := cfg.App.Settings; s.PlaybackSpeed <= 0 || s.SeekSpeed <= 0 {
		return fmt.Errorf("speeds must be positive (playback %g, seek %g)", s.PlaybackSpeed, s.SeekSpeed)
	}
	return nil
}
