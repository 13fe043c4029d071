package menu

import (
	"image"
	"image/color"
	"testing"
)

type op struct {
	kind  string
	rect  image.Rectangle
	text  string
	color color.Color
	style TextStyle
	glyph Glyph
}

type recorder struct {
	ops []op
}

func (r *recorder) Fill(rect image.Rectangle, c color.Color) {
	r.ops = append(r.ops, op{kind: "fill", rect: rect, color: c})
}

func (r *recorder) Frame(rect image.Rectangle, c color.Color) {
	r.ops = append(r.ops, op{kind: "frame", rect: rect, color: c})
}

func (r *recorder) HLine(x0, x1, y int, c color.Color) {
	r.ops = append(r.ops, op{kind: "hline", rect: image.Rect(x0, y, x1, y+1), color: c})
}

func (r *recorder) Text(rect image.Rectangle, s string, style TextStyle) {
	r.ops = append(r.ops, op{kind: "text", rect: rect, text: s, style: style})
}

func (r *recorder) Glyph(rect image.Rectangle, g Glyph, c color.Color) {
	r.ops = append(r.ops, op{kind: "glyph", rect: rect, glyph: g, color: c})
}

func (r *recorder) Exclude(rect image.Rectangle) {
	r.ops = append(r.ops, op{kind: "exclude", rect: rect})
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, o := range r.ops {
		if o.kind == kind {
			n++
		}
	}
	return n
}

func TestPaintFullDrawsBackgroundAndEveryItem(t *testing.T) {
	m := scenarioMenu(t)
	rec := &recorder{}
	Paint(rec, m, m.Bounds())

	scheme := m.Scheme()
	if first := rec.ops[0]; first.kind != "fill" || first.rect != m.Bounds() || first.color != scheme.Background {
		t.Fatalf("expected background fill first, got %#v", first)
	}
	if rec.ops[1].kind != "frame" || rec.ops[1].color != scheme.Border {
		t.Fatalf("expected border frame, got %#v", rec.ops[1])
	}
	if got := rec.count("exclude"); got != m.Len() {
		t.Fatalf("expected every item excluded, got %d", got)
	}
	if got := rec.count("hline"); got != 1 {
		t.Fatalf("expected one separator rule, got %d", got)
	}
	// b2 is the only checked item
	if got := rec.count("glyph"); got != 1 {
		t.Fatalf("expected one check glyph, got %d", got)
	}
}

func TestPaintSingleItemForItemRect(t *testing.T) {
	m := scenarioMenu(t)
	rec := &recorder{}
	Paint(rec, m, m.ItemRect(0))

	if rec.count("frame") != 0 || rec.count("exclude") != 1 {
		t.Fatalf("expected a single item repaint, got %#v", rec.ops)
	}
	if rec.ops[0].rect != m.ItemRect(0) {
		t.Fatalf("expected fill of the item rect, got %v", rec.ops[0].rect)
	}
}

func TestPaintSelectedUsesHighlight(t *testing.T) {
	m := scenarioMenu(t)
	s, _ := Open(m, image.Pt(100, 100), sessionOptions())
	s.Handle(PointerMove{Point: at(m, 0)})

	rec := &recorder{}
	Paint(rec, m, m.ItemRect(0))
	if rec.ops[0].color != m.Scheme().Border {
		t.Fatalf("expected highlight fill, got %v", rec.ops[0].color)
	}
}

func TestPaintSeparatorRuleAtMidpoint(t *testing.T) {
	m := scenarioMenu(t)
	rec := &recorder{}
	Paint(rec, m, m.ItemRect(1))
	r := m.ItemRect(1)
	for _, o := range rec.ops {
		if o.kind == "hline" {
			if o.rect.Min.Y != r.Min.Y+r.Dy()/2 {
				t.Fatalf("expected rule at %d, got %d", r.Min.Y+r.Dy()/2, o.rect.Min.Y)
			}
			return
		}
	}
	t.Fatalf("no separator rule painted")
}

func TestPaintCheckGlyphInsetSquare(t *testing.T) {
	m := scenarioMenu(t)
	rec := &recorder{}
	Paint(rec, m, m.ItemRect(3))
	r := m.ItemRect(3)
	for _, o := range rec.ops {
		if o.kind == "glyph" {
			want := image.Rect(r.Min.X+1, r.Min.Y+2, r.Min.X+24, r.Min.Y+25)
			if o.glyph != GlyphCheck || o.rect != want {
				t.Fatalf("expected check in %v, got %v", want, o.rect)
			}
			return
		}
	}
	t.Fatalf("no check glyph painted")
}

func TestPaintAcceleratorAndArrow(t *testing.T) {
	m := New(Options{})
	m.Text("playlist", "Playlist\tCtrl+P")
	m.Submenu("More").Text("x", "One")
	if err := m.Build(env()); err != nil {
		t.Fatalf("build: %v", err)
	}
	m.SetEnabled("playlist", true)
	scheme := m.Scheme()

	rec := &recorder{}
	Paint(rec, m, m.ItemRect(0))
	var texts []op
	for _, o := range rec.ops {
		if o.kind == "text" {
			texts = append(texts, o)
		}
	}
	if len(texts) != 2 {
		t.Fatalf("expected label and accelerator, got %#v", texts)
	}
	if texts[0].text != "Playlist" || texts[0].style.Align != AlignLeft || texts[0].style.Color != scheme.Foreground {
		t.Fatalf("unexpected label run %#v", texts[0])
	}
	if texts[1].text != "Ctrl+P" || texts[1].style.Align != AlignRight || texts[1].style.Color != scheme.Disabled {
		t.Fatalf("unexpected accelerator run %#v", texts[1])
	}

	rec = &recorder{}
	Paint(rec, m, m.ItemRect(1))
	r := m.ItemRect(1)
	var arrow, label op
	for _, o := range rec.ops {
		switch o.kind {
		case "glyph":
			arrow = o
		case "text":
			label = o
		}
	}
	if arrow.glyph != GlyphArrow || arrow.rect.Max.X != r.Max.X || arrow.rect.Dx() != 17 {
		t.Fatalf("expected right-aligned arrow, got %#v", arrow)
	}
	if label.rect.Max.X > arrow.rect.Min.X {
		t.Fatalf("label overlaps the arrow: %v vs %v", label.rect, arrow.rect)
	}
}
