package events

import "github.com/atomicstack/ownerdraw-menu/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Stop(stats map[string]float64) {
	logging.Trace("app.stop", map[string]interface{}{"stats": stats})
}

func (AppTracer) Redelivered(x, y int, button string) {
	logging.Trace("app.redelivered", map[string]interface{}{"x": x, "y": y, "button": button})
}
