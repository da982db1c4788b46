package glyphtab

import (
	"image"
	"sort"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/record"
	"github.com/npillmayer/uax/uax11"
)

// Dimensions of simple font glyphs.
const (
	GlyphWidth     = 8
	GlyphHeight    = 19
	NarrowBaseline = 15
	WideBaseline   = 14
)

const (
	narrowRecordSize = 2 + 1 + GlyphHeight
	wideRecordSize   = 2 + 1 + 2*GlyphHeight + 3
	simpleHeaderSize = record.PackageHeaderSize + 2 + 2
)

// On-wire attribute bits of simple font glyphs.
const (
	wireNonSpacing uint8 = 0x01
	wireWide       uint8 = 0x02
)

// NarrowGlyph is an 8×19 glyph, one byte per row.
type NarrowGlyph struct {
	Rune       rune
	NonSpacing bool
	Rows       [GlyphHeight]byte
}

// WideGlyph is a 16×19 glyph, stored as two 8×19 columns.
type WideGlyph struct {
	Rune       rune
	NonSpacing bool
	Left       [GlyphHeight]byte
	Right      [GlyphHeight]byte
}

// SimpleFont is a simple font package.
type SimpleFont struct {
	narrow map[rune]*NarrowGlyph
	wide   map[rune]*WideGlyph
}

// NewSimpleFont creates an empty simple font package.
func NewSimpleFont() *SimpleFont {
	return &SimpleFont{
		narrow: make(map[rune]*NarrowGlyph),
		wide:   make(map[rune]*WideGlyph),
	}
}

// ParseSimpleFont reads a binary simple font package.
func ParseSimpleFont(data []byte) (*SimpleFont, error) {
	length, err := record.ReadPackageHeader(data, record.PackageSimpleFonts)
	if err != nil {
		return nil, err
	}
	s := record.Segment(data[:length])
	nn, err := s.U16(record.PackageHeaderSize)
	if err != nil {
		return nil, err
	}
	nw, err := s.U16(record.PackageHeaderSize + 2)
	if err != nil {
		return nil, err
	}
	sf := NewSimpleFont()
	pos := simpleHeaderSize
	for i := 0; i < int(nn); i++ {
		b, err := s.View(pos, narrowRecordSize)
		if err != nil {
			return nil, err
		}
		r, _ := b.U16(0)
		g := &NarrowGlyph{Rune: rune(r), NonSpacing: b[2]&wireNonSpacing != 0}
		copy(g.Rows[:], b[3:])
		sf.narrow[g.Rune] = g
		pos += narrowRecordSize
	}
	for i := 0; i < int(nw); i++ {
		b, err := s.View(pos, wideRecordSize)
		if err != nil {
			return nil, err
		}
		r, _ := b.U16(0)
		g := &WideGlyph{Rune: rune(r), NonSpacing: b[2]&wireNonSpacing != 0}
		copy(g.Left[:], b[3:3+GlyphHeight])
		copy(g.Right[:], b[3+GlyphHeight:3+2*GlyphHeight])
		sf.wide[g.Rune] = g
		pos += wideRecordSize
	}
	tracer().Debugf("simple font with %d narrow and %d wide glyphs", nn, nw)
	return sf, nil
}

// MarshalBinary returns the binary form of the simple font package.
// Glyphs are written in character order.
func (sf *SimpleFont) MarshalBinary() ([]byte, error) {
	buf := make([]byte, sf.Length())
	w := record.NewWriter(buf)
	record.WritePackageHeader(w, len(buf), record.PackageSimpleFonts)
	w.U16(uint16(len(sf.narrow))).U16(uint16(len(sf.wide)))
	for _, r := range sortedRunes(sf.narrow) {
		g := sf.narrow[r]
		w.U16(uint16(r)).U8(wireAttrs(g.NonSpacing, false)).Bytes(g.Rows[:])
	}
	for _, r := range sortedRunes(sf.wide) {
		g := sf.wide[r]
		w.U16(uint16(r)).U8(wireAttrs(g.NonSpacing, true)).Bytes(g.Left[:]).Bytes(g.Right[:]).Bytes([]byte{0, 0, 0})
	}
	return buf, w.Err()
}

func sortedRunes[G any](glyphs map[rune]G) []rune {
	runes := make([]rune, 0, len(glyphs))
	for r := range glyphs {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}

func wireAttrs(nonSpacing, wide bool) uint8 {
	var a uint8
	if nonSpacing {
		a |= wireNonSpacing
	}
	if wide {
		a |= wireWide
	}
	return a
}

// Length returns the declared length of the package in bytes.
func (sf *SimpleFont) Length() int {
	return simpleHeaderSize + len(sf.narrow)*narrowRecordSize + len(sf.wide)*wideRecordSize
}

// AddNarrow adds or replaces a narrow glyph.
func (sf *SimpleFont) AddNarrow(g NarrowGlyph) {
	sf.narrow[g.Rune] = &g
}

// AddWide adds or replaces a wide glyph.
func (sf *SimpleFont) AddWide(g WideGlyph) {
	sf.wide[g.Rune] = &g
}

// AddImage adds a glyph from the opaque pixels of img, anchored at
// img.Bounds().Min. Characters of East Asian width 2 become wide glyphs,
// all others narrow glyphs. Pixels beyond the glyph's cell are ignored.
func (sf *SimpleFont) AddImage(r rune, img image.Image, nonSpacing bool) {
	bounds := img.Bounds()
	row := func(x0, y int) byte {
		var bits byte
		for x := 0; x < GlyphWidth; x++ {
			p := image.Pt(bounds.Min.X+x0+x, bounds.Min.Y+y)
			if !p.In(bounds) {
				continue
			}
			if _, _, _, a := img.At(p.X, p.Y).RGBA(); a > 0x7fff {
				bits |= 0x80 >> x
			}
		}
		return bits
	}
	if uax11.Width([]byte(string(r)), uax11.LatinContext) == 2 {
		g := WideGlyph{Rune: r, NonSpacing: nonSpacing}
		for y := 0; y < GlyphHeight; y++ {
			g.Left[y], g.Right[y] = row(0, y), row(GlyphWidth, y)
		}
		sf.AddWide(g)
		return
	}
	g := NarrowGlyph{Rune: r, NonSpacing: nonSpacing}
	for y := 0; y < GlyphHeight; y++ {
		g.Rows[y] = row(0, y)
	}
	sf.AddNarrow(g)
}

// Glyph returns the glyph for r, looking at narrow glyphs first.
func (sf *SimpleFont) Glyph(r rune) (*Glyph, error) {
	if g, ok := sf.narrow[r]; ok {
		attrs := Narrow
		if g.NonSpacing {
			attrs |= NonSpacing
		}
		return &Glyph{
			Rune:   r,
			Bitmap: append([]byte(nil), g.Rows[:]...),
			Cell:   Cell{Width: GlyphWidth, Height: GlyphHeight, OffsetY: NarrowBaseline, AdvanceX: GlyphWidth},
			Attrs:  attrs,
		}, nil
	}
	if g, ok := sf.wide[r]; ok {
		attrs := Wide
		if g.NonSpacing {
			attrs |= NonSpacing
		}
		bitmap := make([]byte, 2*GlyphHeight)
		for y := 0; y < GlyphHeight; y++ {
			bitmap[2*y], bitmap[2*y+1] = g.Left[y], g.Right[y]
		}
		return &Glyph{
			Rune:   r,
			Bitmap: bitmap,
			Cell:   Cell{Width: 2 * GlyphWidth, Height: GlyphHeight, OffsetY: WideBaseline, AdvanceX: 2 * GlyphWidth},
			Attrs:  attrs,
		}, nil
	}
	return nil, core.Error(core.EMISSING, "no simple glyph for U+%04X", r)
}

// Has reports if the package contains a glyph for r.
func (sf *SimpleFont) Has(r rune) bool {
	_, n := sf.narrow[r]
	_, w := sf.wide[r]
	return n || w
}

// Size returns the number of narrow and wide glyphs.
func (sf *SimpleFont) Size() (narrow, wide int) {
	return len(sf.narrow), len(sf.wide)
}
