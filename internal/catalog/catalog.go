// Package catalog defines the media player's context menus and folds menu
// selections back into player settings.
package catalog

import (
	"strconv"
	"strings"

	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/theme"
)

// Window labels the menus are registered under.
const (
	LabelPlayer   = "player"
	LabelPlaylist = "playlist"
	LabelSort     = "sort"
)

// Player menu ids. Radio groups use the group name as id prefix.
const (
	PlaybackSpeed        = "PlaybackSpeed"
	SeekSpeed            = "SeekSpeed"
	TogglePlaylistWindow = "TogglePlaylistWindow"
	FitToWindow          = "FitToWindow"
	ToggleFullscreen     = "ToggleFullscreen"
	Theme                = "Theme"
	Capture              = "Capture"
	PictureInPicture     = "PictureInPicture"
)

// Playlist menu ids.
const (
	Remove       = "Remove"
	Trash        = "Trash"
	CopyFileName = "CopyFileName"
	CopyFullpath = "CopyFullpath"
	Reveal       = "Reveal"
	Rename       = "Rename"
	Metadata     = "Metadata"
	Convert      = "Convert"
	Tag          = "Tag"
	ManageTags   = "ManageTags"
	LoadList     = "LoadList"
	SaveList     = "SaveList"
	RemoveAll    = "RemoveAll"
	Sort         = "Sort"
)

// SortOrder is the playlist ordering.
type SortOrder string

const (
	SortNameAsc  SortOrder = "NameAsc"
	SortNameDesc SortOrder = "NameDesc"
	SortDateAsc  SortOrder = "DateAsc"
	SortDateDesc SortOrder = "DateDesc"
)

// GroupBy is the value of the sort menu's group-by-directory check.
const GroupBy = "GroupBy"

var (
	PlaybackSpeeds = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}
	SeekSpeeds     = []float64{0.03, 0.05, 0.1, 0.5, 1, 3, 5, 10, 20}
	SortOrders     = []SortOrder{SortNameAsc, SortNameDesc, SortDateAsc, SortDateDesc}
)

var sortLabels = map[SortOrder]string{
	SortNameAsc:  "Name(Asc)",
	SortNameDesc: "Name(Desc)",
	SortDateAsc:  "Date(Asc)",
	SortDateDesc: "Date(Desc)",
}

// ParseSortOrder accepts the four order names, case-insensitively.
func ParseSortOrder(s string) (SortOrder, bool) {
	for _, o := range SortOrders {
		if strings.EqualFold(string(o), strings.TrimSpace(s)) {
			return o, true
		}
	}
	return "", false
}

// Settings is the player state the menus reflect.
type Settings struct {
	Theme         theme.Mode
	PlaybackSpeed float64
	SeekSpeed     float64
	FitToWindow   bool
	Sort          SortOrder
	GroupBy       bool
}

// DefaultSettings is normal speed, name order, system theme.
func DefaultSettings() Settings {
	return Settings{
		Theme:         theme.ModeSystem,
		PlaybackSpeed: 1,
		SeekSpeed:     5,
		Sort:          SortNameAsc,
	}
}

// ItemID joins a radio group and value into an item id.
func ItemID(group, value string) string {
	return group + ":" + value
}

// SplitID reverses ItemID. Plain ids come back with an empty value.
func SplitID(id string) (group, value string) {
	group, value, _ = strings.Cut(id, ":")
	return group, value
}

func formatSpeed(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NewPlayerMenu builds the player window's context menu.
func NewPlayerMenu(s Settings, opts menu.Options) *menu.Menu {
	m := menu.New(opts)
	speedMenu(m, "Playback Speed", PlaybackSpeed, PlaybackSpeeds, s.PlaybackSpeed)
	speedMenu(m, "Seek Speed", SeekSpeed, SeekSpeeds, s.SeekSpeed)
	m.Check(FitToWindow, "Fit To Window", "", s.FitToWindow).
		Separator().
		Text(TogglePlaylistWindow, "Playlist\tCtrl+P").
		Text(ToggleFullscreen, "Toggle Fullscreen\tF11").
		Text(PictureInPicture, "Picture In Picture").
		Separator().
		Text(Capture, "Capture\tCtrl+S").
		Separator()

	dark := s.Theme == theme.ModeDark || (s.Theme == theme.ModeSystem && opts.Dark)
	themes := m.Submenu("Theme")
	themes.Radio(ItemID(Theme, string(theme.ModeDark)), "Dark", string(theme.ModeDark), Theme, dark).
		Radio(ItemID(Theme, string(theme.ModeLight)), "Light", string(theme.ModeLight), Theme, !dark)
	return m
}

func speedMenu(m *menu.Menu, label, group string, speeds []float64, current float64) {
	sub := m.Submenu(label)
	for _, v := range speeds {
		value := formatSpeed(v)
		sub.Radio(ItemID(group, value), value, value, group, v == current)
	}
}

// NewPlaylistMenu builds the playlist window's context menu.
func NewPlaylistMenu(opts menu.Options) *menu.Menu {
	m := menu.New(opts)
	m.Text(Remove, "Remove\tDelete").
		Text(Trash, "Trash\tShift+Delete").
		Separator().
		Text(CopyFileName, "Copy Name\tCtrl+C").
		Text(CopyFullpath, "Copy Full Path\tCtrl+Shift+C").
		Text(Reveal, "Reveal in File Explorer\tCtrl+R").
		Separator().
		Text(Rename, "Rename\tF2").
		Text(Metadata, "View Metadata").
		Text(Convert, "Convert").
		Separator().
		Text(Tag, "Add Tag to Comment").
		Text(ManageTags, "Manage Tags").
		Separator().
		Text(LoadList, "Load Playlist").
		Text(SaveList, "Save Playlist").
		Separator().
		Text(RemoveAll, "Clear Playlist")
	return m
}

// NewSortMenu builds the playlist sort menu.
func NewSortMenu(s Settings, opts menu.Options) *menu.Menu {
	m := menu.New(opts)
	m.Check(ItemID(Sort, GroupBy), "Group By Directory", GroupBy, s.GroupBy).Separator()
	for _, o := range SortOrders {
		m.Radio(ItemID(Sort, string(o)), sortLabels[o], string(o), Sort, s.Sort == o)
	}
	return m
}

// Apply folds a committed selection into s. Commands that do not change a
// setting report false.
func (s Settings) Apply(sel menu.Selection) (Settings, bool) {
	group, _ := SplitID(sel.ID)
	checked := sel.State == menu.StateChecked
	switch group {
	case PlaybackSpeed, SeekSpeed:
		v, err := strconv.ParseFloat(sel.Value, 64)
		if err != nil {
			return s, false
		}
		if group == PlaybackSpeed {
			s.PlaybackSpeed = v
		} else {
			s.SeekSpeed = v
		}
		return s, true
	case Theme:
		mode, err := theme.ParseMode(sel.Value)
		if err != nil {
			return s, false
		}
		s.Theme = mode
		return s, true
	case FitToWindow:
		s.FitToWindow = checked
		return s, true
	case Sort:
		if sel.Value == GroupBy {
			s.GroupBy = checked
			return s, true
		}
		order, ok := ParseSortOrder(sel.Value)
		if !ok {
			return s, false
		}
		s.Sort = order
		return s, true
	}
	return s, false
}
