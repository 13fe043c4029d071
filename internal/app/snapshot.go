package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"github.com/atomicstack/ownerdraw-menu/internal/catalog"
	"github.com/atomicstack/ownerdraw-menu/internal/fontmetrics"
	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/placement"
	"github.com/atomicstack/ownerdraw-menu/internal/popup"
	"github.com/atomicstack/ownerdraw-menu/internal/pump"
	"github.com/atomicstack/ownerdraw-menu/internal/render/raster"
	"github.com/atomicstack/ownerdraw-menu/internal/stats"
	"github.com/atomicstack/ownerdraw-menu/internal/theme"
)

const (
	snapshotMargin  = 8
	snapshotTimeout = 10 * time.Second
)

var (
	snapshotScreen = image.Rect(0, 0, 800, 600)
	desktop        = color.RGBA{R: 0x3a, G: 0x6e, B: 0xa5, A: 0xff}
)

// snapshotRequest asks the host to capture the visible menus.
type snapshotRequest struct{}

// Snapshot pops up the configured menu on a virtual screen with the Go fonts,
// optionally hovers one item, and writes the visible menus to cfg.Snapshot
// as a PNG.
func Snapshot(cfg Config, collector *stats.Collector) error {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	img, err := render(ctx, cfg, collector)
	if err != nil {
		return err
	}
	f, err := os.Create(cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := raster.WritePNG(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	return f.Close()
}

func render(ctx context.Context, cfg Config, collector *stats.Collector) (image.Image, error) {
	faces, err := fontmetrics.NewFaces(fontmetrics.DefaultFaceOptions())
	if err != nil {
		return nil, &menu.ResourceError{Resource: "font", Err: err}
	}
	defer faces.Close()

	themes := theme.NewRegistry(nil, cfg.Theme.IsDark())
	registry := catalog.NewRegistry(menu.Environment{Metrics: faces, Themes: themes}, collector)
	defer registry.Close()
	if err := registry.RegisterDefaults(cfg.Settings, menu.Options{Layout: cfg.Layout, Dark: themes.Dark()}); err != nil {
		return nil, err
	}
	root, ok := registry.Find(cfg.Menu)
	if !ok {
		return nil, fmt.Errorf("unknown menu %q", cfg.Menu)
	}

	queue := pump.New(16)
	defer queue.Stop()
	host := &snapshotHost{root: root, faces: faces, queue: queue, screen: snapshotScreen, hover: cfg.SnapshotHover}
	controller := popup.NewController(host, queue, popup.Options{Delay: cfg.Delay, Stats: collector})
	if _, err := controller.PopupAt(ctx, root, snapshotMargin, snapshotMargin); err != nil {
		return nil, err
	}
	if host.img == nil {
		return nil, errors.New("snapshot was not taken")
	}
	return host.img, nil
}

type shownMenu struct {
	id     menu.ID
	bounds image.Rectangle
}

// snapshotHost is a popup.Host with no real windows: shown menus are only
// recorded until a snapshotRequest paints them into an image.
type snapshotHost struct {
	root   *menu.Menu
	faces  *fontmetrics.Faces
	queue  *pump.Queue
	screen image.Rectangle
	hover  int

	shown []shownMenu
	img   *image.RGBA
}

var _ popup.Host = (*snapshotHost)(nil)

func (h *snapshotHost) Monitors() []placement.Monitor {
	return []placement.Monitor{{Bounds: h.screen, Work: h.screen}}
}

func (h *snapshotHost) OwnerBounds() image.Rectangle { return h.screen }

func (h *snapshotHost) Capture() error  { return nil }
func (h *snapshotHost) ReleaseCapture() {}

func (h *snapshotHost) Show(id menu.ID, bounds image.Rectangle) error {
	h.shown = append(h.shown, shownMenu{id: id, bounds: bounds})
	if id != h.root.ID() || h.hover < 0 || h.hover >= h.root.Len() {
		h.request()
		return nil
	}
	it := h.root.Item(h.hover)
	if it.Kind == menu.KindSeparator {
		h.request()
		return nil
	}
	center := bounds.Min.Add(image.Pt(bounds.Dx()/2, (it.Top()+it.Bottom())/2))
	h.queue.Post(menu.PointerMove{Point: center})
	if it.Kind != menu.KindSubmenu || it.Disabled {
		h.request()
	}
	return nil
}

// request queues the capture followed by a dismissal.
func (h *snapshotHost) request() {
	h.queue.Post(menu.Foreign{Payload: snapshotRequest{}})
	h.queue.Post(menu.Deactivated{})
}

func (h *snapshotHost) Hide(id menu.ID) {
	for i := range h.shown {
		if h.shown[i].id == id {
			h.shown = append(h.shown[:i], h.shown[i+1:]...)
			return
		}
	}
}

func (h *snapshotHost) Invalidate(menu.ID, image.Rectangle) {}

func (h *snapshotHost) Schedule(after time.Duration, tok menu.TimerToken) {
	h.queue.ScheduleAfter(after, tok)
}

// Redeliver is a no-op: there is no surface under the snapshot.
func (h *snapshotHost) Redeliver(menu.PointerDown) {}

func (h *snapshotHost) Dispatch(ev menu.Event) {
	if fwd, ok := ev.(menu.Foreign); ok {
		if _, ok := fwd.Payload.(snapshotRequest); ok {
			h.capture()
		}
	}
}

// capture paints every shown menu and crops the image to them.
func (h *snapshotHost) capture() {
	img := raster.NewImage(h.screen, desktop)
	var area image.Rectangle
	for _, s := range h.shown {
		m := h.root.Arena().Get(s.id)
		if m == nil {
			continue
		}
		menu.Paint(raster.New(img, h.faces, s.bounds.Min), m, m.Bounds())
		area = area.Union(s.bounds)
	}
	if area.Empty() {
		return
	}
	area = area.Inset(-snapshotMargin).Intersect(h.screen)
	h.img = img.SubImage(area).(*image.RGBA)
}
