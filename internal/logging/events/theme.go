package events

import "github.com/atomicstack/ownerdraw-menu/internal/logging"

type ThemeTracer struct{}

var Theme = ThemeTracer{}

func (ThemeTracer) Open(dark bool) {
	logging.Trace("theme.open", map[string]interface{}{"dark": dark})
}

func (ThemeTracer) Close() {
	logging.Trace("theme.close", nil)
}

func (ThemeTracer) Change(dark bool, subscribers int) {
	logging.Trace("theme.change", map[string]interface{}{"dark": dark, "subscribers": subscribers})
}
