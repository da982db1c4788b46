package layout

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/config"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/engine/glyphtab"
)

// GlyphSource resolves characters to glyphs. A nil display info denotes the
// system font. Missing glyphs are reported as EMISSING.
type GlyphSource interface {
	Glyph(r rune, fdi *font.DisplayInfo) (*glyphtab.Glyph, error)
}

// RowInfo describes a row of text drawn onto a canvas.
type RowInfo struct {
	StartIndex     int // index of the first character of the row
	EndIndex       int // index of the last character of the row
	LineHeight     int // height of the row in pixels
	LineWidth      int // width of the row in pixels
	BaselineOffset int // baseline of the row, from its top
}

// Result is the outcome of a text layout.
type Result struct {
	Canvas *image.RGBA
	Rows   []RowInfo
	// Columns holds the horizontal position of every character relative to
	// the start of its row, or -1 for characters not drawn.
	Columns []int
}

// Compositor draws text and images onto canvases.
type Compositor struct {
	glyphs   GlyphSource
	settings config.Settings
	alloc    core.Allocator
}

// New creates a compositor. a may be nil.
func New(glyphs GlyphSource, settings config.Settings, a core.Allocator) *Compositor {
	return &Compositor{glyphs: glyphs, settings: settings, alloc: a}
}

// NewCanvas allocates a canvas filled with color bg.
func NewCanvas(a core.Allocator, w, h int, bg color.RGBA) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, core.Error(core.EINVALID, "canvas of %dx%d pixels", w, h)
	}
	pix, err := core.Alloc(a, 4*w*h)
	if err != nil {
		return nil, err
	}
	canvas := &image.RGBA{Pix: pix, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	draw.Draw(canvas, canvas.Rect, image.NewUniform(bg), image.Point{}, draw.Src)
	return canvas, nil
}

// item is a character prepared for layout.
type item struct {
	r     rune
	class breakClass
	g     *glyphtab.Glyph // nil if the character is not drawn
}

func (it item) advance() int {
	if it.g == nil {
		return 0
	}
	return it.g.Advance()
}

// StringToImage lays out text and draws it onto canvas at (x,y). If canvas
// is nil, a canvas of the configured default size is allocated, with
// flags reduced to wrapping and line break handling.
func (c *Compositor) StringToImage(flags Flags, text string, fdi *font.DisplayInfo,
	canvas *image.RGBA, x, y int) (*Result, error) {
	//
	if err := flags.validate(canvas != nil); err != nil {
		return nil, err
	}
	colors := fdi
	if colors == nil {
		colors = font.SystemDefault(c.settings.SystemFont, font.DefaultAttribute)
	}
	if canvas == nil {
		var err error
		canvas, err = NewCanvas(c.alloc, c.settings.CanvasWidth, c.settings.CanvasHeight, colors.Background)
		if err != nil {
			return nil, err
		}
		flags &= Wrap | IgnoreIfNoGlyph | IgnoreLineBreak
		tracer().Debugf("allocated default canvas of %dx%d", c.settings.CanvasWidth, c.settings.CanvasHeight)
	}
	b := canvas.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return nil, core.Error(core.EINVALID, "position (%d,%d) outside of canvas %v", x, y, b)
	}
	items, err := c.prepare(flags, text, fdi)
	if err != nil {
		return nil, err
	}
	lt := &typesetter{
		flags:  flags,
		items:  items,
		canvas: canvas,
		origin: b.Min.Add(image.Pt(x, y)),
		maxW:   b.Dx() - x,
		maxH:   b.Dy() - y,
		fg:     colors.Foreground,
		bg:     colors.Background,
		emptyH: font.SystemFontSize,
	}
	if fdi != nil && fdi.Info.Size > 0 {
		lt.emptyH = int(fdi.Info.Size)
	}
	result := &Result{Canvas: canvas, Columns: make([]int, len(items))}
	for i := range result.Columns {
		result.Columns[i] = -1
	}
	lt.run(result)
	tracer().Debugf("laid out %d characters in %d rows, flags %s", len(items), len(result.Rows), flags)
	return result, nil
}

// prepare resolves the glyphs of all characters of text.
func (c *Compositor) prepare(flags Flags, text string, fdi *font.DisplayInfo) ([]item, error) {
	runes := []rune(text)
	items := make([]item, len(runes))
	for i, r := range runes {
		class := classify(r)
		if flags&IgnoreLineBreak != 0 {
			if class == hardBreak {
				items[i] = item{r: r} // not drawn
				continue
			}
			class = ordinary
		}
		items[i] = item{r: r, class: class}
		if class == hardBreak {
			continue
		}
		g, err := c.glyphs.Glyph(r, fdi)
		if core.Failed(err) {
			if core.Code(err) != core.EMISSING {
				return nil, err
			}
			if flags&IgnoreIfNoGlyph != 0 {
				continue
			}
			repl := c.settings.Replacement
			if g, err = c.glyphs.Glyph(repl, fdi); core.Failed(err) {
				return nil, core.WrapError(err, core.EINVALID,
					"no glyph for U+%04X and no replacement glyph U+%04X", r, repl)
			}
		}
		items[i].g = g
	}
	return items, nil
}

// typesetter holds the state of a single layout pass.
type typesetter struct {
	flags  Flags
	items  []item
	canvas *image.RGBA
	origin image.Point // top left corner of the text area
	maxW   int
	maxH   int
	fg, bg color.RGBA
	emptyH int // height of rows without glyphs
}

// run collects characters into rows and draws them.
func (lt *typesetter) run(result *Result) {
	top, i, n := 0, 0, len(lt.items)
	for i < n && top < lt.maxH {
		end, next, ok := lt.fit(i)
		if !ok {
			tracer().Debugf("character %d does not fit into %d pixels", i, lt.maxW)
			return
		}
		row := lt.measure(i, end)
		if top+row.LineHeight > lt.maxH && lt.flags&ClipCleanY != 0 {
			tracer().Debugf("row %d omitted, it does not fit vertically", len(result.Rows))
			return
		}
		lt.draw(row, top, result.Columns)
		result.Rows = append(result.Rows, row)
		top += row.LineHeight
		i = next
	}
}

// fit finds the characters of a row starting at index start. It returns
// the end of the row (exclusive) and the start of the next row. ok is false
// if the row would be empty because its first character must be dropped.
func (lt *typesetter) fit(start int) (end, next int, ok bool) {
	w, j, n := 0, start, len(lt.items)
	for ; j < n; j++ {
		it := lt.items[j]
		if it.class == hardBreak {
			next = j + 1
			if it.r == '\r' && next < n && lt.items[next].r == '\n' {
				next++
			}
			return j, next, true
		}
		if w+it.advance() > lt.maxW {
			break
		}
		w += it.advance()
	}
	if j == n {
		return n, n, true
	}
	// character j overflows the row
	if lt.flags&Wrap != 0 {
		if cut := lt.breakBefore(start, j); cut > start {
			if cut-1 > start && isSpace(lt.items[cut-1].r) {
				return cut - 1, cut, true // the space is consumed by the break
			}
			return cut, cut, true
		}
		tracer().Debugf("no break opportunity in row starting at %d, clipping cleanly", start)
		if j == start {
			return start, start + 1, false
		}
		return j, j + 1, true
	}
	if lt.flags&ClipCleanX != 0 {
		if j == start {
			return start, start + 1, false
		}
		return j, j + 1, true
	}
	// partially visible character ends the row
	return j + 1, j + 1, true
}

// breakBefore returns the right-most position k in (start,j] where a row
// may end before character k, or start if there is none.
func (lt *typesetter) breakBefore(start, j int) int {
	for k := j; k > start; k-- {
		prev := lt.items[k-1].class
		if prev == breakAfter || prev == breakAround || lt.items[k].class == breakAround {
			return k
		}
	}
	return start
}

func (lt *typesetter) measure(start, end int) RowInfo {
	row := RowInfo{StartIndex: start, EndIndex: end - 1}
	for _, it := range lt.items[start:end] {
		if it.g == nil {
			continue
		}
		row.LineWidth += it.advance()
		row.LineHeight = max(row.LineHeight, int(it.g.Cell.Height))
		row.BaselineOffset = max(row.BaselineOffset, int(it.g.Cell.OffsetY))
	}
	if row.LineHeight == 0 {
		row.LineHeight = lt.emptyH
	}
	return row
}

// draw renders a row at vertical position top, clipped to the text area.
func (lt *typesetter) draw(row RowInfo, top int, columns []int) {
	area := image.Rect(0, 0, lt.maxW, lt.maxH).Add(lt.origin)
	if lt.flags&Transparent == 0 {
		r := image.Rect(0, top, row.LineWidth, top+row.LineHeight).Add(lt.origin).Intersect(area)
		draw.Draw(lt.canvas, r, image.NewUniform(lt.bg), image.Point{}, draw.Src)
	}
	pen, prev := 0, 0
	for i := row.StartIndex; i <= row.EndIndex; i++ {
		g := lt.items[i].g
		if g == nil {
			continue
		}
		at := pen
		if g.Attrs&glyphtab.NonSpacing != 0 {
			at = prev
		}
		columns[i] = at
		pos := lt.origin.Add(image.Pt(at, top))
		if g.Attrs&glyphtab.Wide != 0 {
			lt.drawGlyph(g.Half(0), pos, area)
			lt.drawGlyph(g.Half(1), pos.Add(image.Pt(glyphtab.GlyphWidth, 0)), area)
		} else {
			lt.drawGlyph(g, pos, area)
		}
		prev = at
		pen += g.Advance()
	}
}

// drawGlyph sets the foreground pixels of g with its cell's top left corner
// at pos.
func (lt *typesetter) drawGlyph(g *glyphtab.Glyph, pos image.Point, area image.Rectangle) {
	for y := 0; y < int(g.Cell.Height); y++ {
		for x := 0; x < int(g.Cell.Width); x++ {
			p := pos.Add(image.Pt(x, y))
			if g.Pixel(x, y) && p.In(area) {
				lt.canvas.SetRGBA(p.X, p.Y, lt.fg)
			}
		}
	}
}
