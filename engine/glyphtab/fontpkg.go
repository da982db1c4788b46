package glyphtab

import (
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/core/record"
)

// Font package header layout: common header, header size:4, glyph block
// offset:4, default cell, style:4, followed by the null-terminated UCS-2
// font family name.
const fontHeaderFixed = record.PackageHeaderSize + 4 + 4 + cellSize + 4

// FontPackage is a package of proportional glyphs for one font.
type FontPackage struct {
	Info      font.Info
	Cell      Cell // default cell from the package header
	stream    []byte
	defaults  *defaultCells
	collected bool
	env       record.Env
}

// NewFontPackage creates a font package from a glyph stream. The font's
// size is the height of the default cell.
func NewFontPackage(family string, style font.Style, cell Cell, stream []byte, env record.Env) *FontPackage {
	return &FontPackage{
		Info:     font.Info{Name: family, Size: cell.Height, Style: style},
		Cell:     cell,
		stream:   stream,
		defaults: newDefaultCells(),
		env:      env,
	}
}

// ParseFontPackage reads a binary font package.
func ParseFontPackage(data []byte, env record.Env) (*FontPackage, error) {
	length, err := record.ReadPackageHeader(data, record.PackageFonts)
	if err != nil {
		return nil, err
	}
	s := record.Segment(data[:length])
	offset, err := s.U32(record.PackageHeaderSize + 4)
	if err != nil {
		return nil, err
	}
	cell, err := readCell(s, record.PackageHeaderSize+8)
	if err != nil {
		return nil, err
	}
	style, err := s.U32(record.PackageHeaderSize + 8 + cellSize)
	if err != nil {
		return nil, err
	}
	n, err := s.CString16(fontHeaderFixed)
	if err != nil {
		return nil, err
	}
	if int(offset) < fontHeaderFixed+n || int(offset) >= length {
		return nil, core.Error(core.ECORRUPT, "glyph block offset %d out of range", offset)
	}
	family, err := record.DecodeUCS2(s[fontHeaderFixed : fontHeaderFixed+n])
	if err != nil {
		return nil, err
	}
	stream, err := core.Alloc(env.Alloc, length-int(offset))
	if err != nil {
		return nil, err
	}
	copy(stream, s[offset:])
	fp := NewFontPackage(family, font.Style(style), cell, stream, env)
	if err = fp.CollectDefaults(); err != nil {
		return nil, err
	}
	return fp, nil
}

// MarshalBinary returns the binary form of the font package.
func (fp *FontPackage) MarshalBinary() ([]byte, error) {
	family, err := record.EncodeUCS2(fp.Info.Name)
	if err != nil {
		return nil, err
	}
	hdrSize := fontHeaderFixed + len(family)
	buf, err := core.Alloc(fp.env.Alloc, hdrSize+len(fp.stream))
	if err != nil {
		return nil, err
	}
	w := record.NewWriter(buf)
	record.WritePackageHeader(w, len(buf), record.PackageFonts)
	w.U32(uint32(hdrSize)).U32(uint32(hdrSize))
	writeCell(w, fp.Cell).U32(uint32(fp.Info.Style)).Bytes(family).Bytes(fp.stream)
	return buf, w.Err()
}

// Length returns the declared length of the package in bytes.
func (fp *FontPackage) Length() int {
	return fontHeaderFixed + 2*(len([]rune(fp.Info.Name))+1) + len(fp.stream)
}

// CollectDefaults walks the whole stream once and caches every default cell,
// keyed by the character id at which it is declared. The header's cell is
// cached for id 0. Calling it again has no effect.
func (fp *FontPackage) CollectDefaults() error {
	if fp.collected {
		return nil
	}
	defaults := newDefaultCells()
	defaults.put(0, fp.Cell)
	err := record.Walk(fp.stream, grammar{defaults}, func(id uint32, r record.Record) error {
		if r.Type != BlockDefaults || r.Kind != record.Data {
			return nil
		}
		c, err := readCell(fp.stream, r.Offset+1)
		if err != nil {
			return err
		}
		defaults.put(id, c)
		return nil
	})
	if err != nil {
		return err
	}
	fp.defaults, fp.collected = defaults, true
	tracer().Debugf("font %s has %d default cells", fp.Info, defaults.size())
	return nil
}

// Glyph decodes the glyph for r.
func (fp *FontPackage) Glyph(r rune) (*Glyph, error) {
	if r <= 0 || r > 0xFFFF {
		return nil, core.Error(core.EMISSING, "no glyph for U+%04X", r)
	}
	if err := fp.CollectDefaults(); err != nil {
		return nil, err
	}
	g := grammar{fp.defaults}
	hit, err := record.Seek(fp.stream, g, uint32(r), fp.env.MaxHops)
	if err != nil {
		return nil, err
	}
	if hit.Kind != record.Data || hit.Count == 0 {
		return nil, core.Error(core.EMISSING, "no glyph for U+%04X", r)
	}
	s := record.Segment(fp.stream)
	var cell Cell
	switch hit.Type {
	case BlockGlyph, BlockGlyphs:
		cell, err = readCell(s, hit.Offset+1)
	default:
		cell, _ = fp.defaults.lookup(hit.ID - uint32(hit.Index))
	}
	if err != nil {
		return nil, err
	}
	n := cell.BitmapLen()
	bitmap, err := s.View(hit.Offset+hit.Header+hit.Index*n, n)
	if err != nil {
		return nil, err
	}
	return &Glyph{Rune: r, Bitmap: bitmap, Cell: cell, Attrs: Proportional}, nil
}

// Has reports if the package contains a glyph for r.
func (fp *FontPackage) Has(r rune) bool {
	_, err := fp.Glyph(r)
	return err == nil
}
