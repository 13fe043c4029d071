package events

import "github.com/atomicstack/ownerdraw-menu/internal/logging"

type MenuTracer struct{}

type SessionTracer struct{}

// DismissReason says why a session ended without a selection.
type DismissReason string

const (
	DismissOutside     DismissReason = "outside"
	DismissEscape      DismissReason = "escape"
	DismissDeactivated DismissReason = "deactivated"
	DismissCancelled   DismissReason = "cancelled"
	DismissError       DismissReason = "error"
)

var (
	Menu    = MenuTracer{}
	Session = SessionTracer{}
)

func (MenuTracer) Build(menu, items, width, height int) {
	logging.Trace("menu.build", map[string]interface{}{
		"menu":   menu,
		"items":  items,
		"width":  width,
		"height": height,
	})
}

func (MenuTracer) BuildFailed(menu int, err error) {
	logging.Trace("menu.build.error", map[string]interface{}{"menu": menu, "error": err.Error()})
}

func (MenuTracer) Destroy(menu int) {
	logging.Trace("menu.destroy", map[string]interface{}{"menu": menu})
}

func (SessionTracer) Popup(session string, menu, x, y int) {
	logging.Trace("session.popup", map[string]interface{}{"session": session, "menu": menu, "x": x, "y": y})
}

func (SessionTracer) Hover(session string, menu, index int) {
	logging.Trace("session.hover", map[string]interface{}{"session": session, "menu": menu, "index": index})
}

func (SessionTracer) SubmenuArm(session string, menu, index int) {
	logging.Trace("session.submenu.arm", map[string]interface{}{"session": session, "menu": menu, "index": index})
}

func (SessionTracer) SubmenuShow(session string, menu, x, y int) {
	logging.Trace("session.submenu.show", map[string]interface{}{"session": session, "menu": menu, "x": x, "y": y})
}

func (SessionTracer) SubmenuHide(session string, menu int) {
	logging.Trace("session.submenu.hide", map[string]interface{}{"session": session, "menu": menu})
}

func (SessionTracer) StaleTimer(session string, menu, index int) {
	logging.Trace("session.timer.stale", map[string]interface{}{"session": session, "menu": menu, "index": index})
}

func (SessionTracer) Toggle(session, id string, checked bool) {
	logging.Trace("session.toggle", map[string]interface{}{"session": session, "id": id, "checked": checked})
}

func (SessionTracer) Select(session, id, value string) {
	logging.Trace("session.select", map[string]interface{}{"session": session, "id": id, "value": value})
}

func (SessionTracer) Dismiss(session string, reason DismissReason) {
	logging.Trace("session.dismiss", map[string]interface{}{"session": session, "reason": string(reason)})
}

func (SessionTracer) Redeliver(session string, x, y int) {
	logging.Trace("session.redeliver", map[string]interface{}{"session": session, "x": x, "y": y})
}

func (SessionTracer) Error(session string, err error) {
	if err == nil {
		return
	}
	logging.Trace("session.error", map[string]interface{}{"session": session, "error": err.Error()})
}
