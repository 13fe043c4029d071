// Package raster renders menus into RGBA images with the Go fonts, for PNG
// snapshots of the pixel layout.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/atomicstack/ownerdraw-menu/internal/fontmetrics"
	"github.com/atomicstack/ownerdraw-menu/internal/menu"
)

// NewImage allocates an image covering bounds filled with bg.
func NewImage(bounds image.Rectangle, bg color.Color) *image.RGBA {
	img := image.NewRGBA(bounds)
	if bg != nil {
		draw.Draw(img, bounds, image.NewUniform(bg), image.Point{}, draw.Src)
	}
	return img
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Surface implements menu.Surface on an RGBA image. Client coordinates are
// offset by origin.
type Surface struct {
	img      *image.RGBA
	faces    *fontmetrics.Faces
	origin   image.Point
	excluded []image.Rectangle
}

var _ menu.Surface = (*Surface)(nil)

// New returns a surface drawing into img with the menu's client origin at
// origin.
func New(img *image.RGBA, faces *fontmetrics.Faces, origin image.Point) *Surface {
	return &Surface{img: img, faces: faces, origin: origin}
}

// clipped is a draw.Image that drops writes outside limit or inside an
// excluded rectangle.
type clipped struct {
	img      *image.RGBA
	limit    image.Rectangle
	excluded []image.Rectangle
}

func (c *clipped) ColorModel() color.Model { return c.img.ColorModel() }
func (c *clipped) Bounds() image.Rectangle { return c.limit.Intersect(c.img.Bounds()) }
func (c *clipped) At(x, y int) color.Color { return c.img.At(x, y) }

func (c *clipped) Set(x, y int, col color.Color) {
	p := image.Pt(x, y)
	if !p.In(c.limit) {
		return
	}
	for _, ex := range c.excluded {
		if p.In(ex) {
			return
		}
	}
	c.img.Set(x, y, col)
}

func (s *Surface) target(limit image.Rectangle) *clipped {
	return &clipped{img: s.img, limit: limit, excluded: s.excluded}
}

func (s *Surface) Fill(r image.Rectangle, c color.Color) {
	r = r.Add(s.origin)
	draw.Draw(s.target(r), r, image.NewUniform(c), image.Point{}, draw.Src)
}

func (s *Surface) Frame(r image.Rectangle, c color.Color) {
	r = r.Add(s.origin)
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(s.target(e), e, src, image.Point{}, draw.Src)
	}
}

func (s *Surface) HLine(x0, x1, y int, c color.Color) {
	s.Fill(image.Rect(x0, y, x1, y+1), c)
}

func (s *Surface) Text(r image.Rectangle, text string, st menu.TextStyle) {
	r = r.Add(s.origin)
	if r.Empty() || text == "" {
		return
	}
	face := s.faces.Face(st.Bold)
	d := &font.Drawer{
		Dst:  s.target(r),
		Src:  image.NewUniform(st.Color),
		Face: face,
	}
	x := r.Min.X
	if st.Align == menu.AlignRight {
		x = r.Max.X - d.MeasureString(text).Ceil()
	}
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	baseline := r.Min.Y + (r.Dy()-(ascent+descent))/2 + ascent
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}

func (s *Surface) Glyph(r image.Rectangle, g menu.Glyph, c color.Color) {
	r = r.Add(s.origin)
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	fw, fh := float32(w), float32(h)
	z := vector.NewRasterizer(w, h)
	switch g {
	case menu.GlyphCheck:
		z.MoveTo(0.10*fw, 0.55*fh)
		z.LineTo(0.25*fw, 0.40*fh)
		z.LineTo(0.42*fw, 0.58*fh)
		z.LineTo(0.78*fw, 0.20*fh)
		z.LineTo(0.92*fw, 0.34*fh)
		z.LineTo(0.42*fw, 0.85*fh)
		z.ClosePath()
	case menu.GlyphArrow:
		a := float32(min(w, h)) / 4
		cx, cy := fw/2, fh/2
		z.MoveTo(cx-a/2, cy-a)
		z.LineTo(cx+a/2, cy)
		z.LineTo(cx-a/2, cy+a)
		z.ClosePath()
	}
	z.Draw(s.target(r), r, image.NewUniform(c), image.Point{})
}

func (s *Surface) Exclude(r image.Rectangle) {
	s.excluded = append(s.excluded, r.Add(s.origin))
}
