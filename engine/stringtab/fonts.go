package stringtab

import (
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/core/record"
)

// LocalFont is a package-local reference to a global font entry.
type LocalFont struct {
	ID    uint8
	Entry *font.Entry
}

// DiscoverFonts walks the whole stream, maps every font declaration to a
// global font entry and recomputes the next free string id. It returns the
// highest string id in use.
func (p *Package) DiscoverFonts() (uint32, error) {
	p.fonts.Clear()
	p.nextFontID = 0
	c := record.NewCursor(p.stream, grammar{})
	for c.Next() {
		r := c.Record()
		if r.Kind == record.End {
			p.nextID = c.ID()
			break
		}
		if r.Kind != record.Extension || r.Type != record.TypeExt2 || r.Sub != ExtFont {
			continue
		}
		id, fi, err := decodeFontDecl(c.Stream(), r)
		if err != nil {
			return 0, err
		}
		e, _ := p.registry.Register(fi)
		p.fonts.Put(id, e)
		if int(id) >= p.nextFontID {
			p.nextFontID = int(id) + 1
		}
		tracer().Debugf("string package [%s] declares font %d = %s", p.Language, id, e)
	}
	if c.Err() != nil {
		return 0, c.Err()
	}
	return p.nextID - 1, nil
}

func decodeFontDecl(s record.Segment, r record.Record) (uint8, font.Info, error) {
	if r.Length < fontDeclHeader+2 {
		return 0, font.Info{}, core.Error(core.ECORRUPT, "font declaration at offset %d too short", r.Offset)
	}
	id, _ := s.U8(r.Offset + 4)
	size, _ := s.U16(r.Offset + 5)
	style, _ := s.U32(r.Offset + 7)
	name, err := record.DecodeUCS2(s[r.Offset+fontDeclHeader : r.Limit()])
	if err != nil {
		return 0, font.Info{}, err
	}
	return id, font.Info{Name: name, Size: size, Style: font.Style(style)}, nil
}

func (p *Package) encodeFontDecl(id uint8, fi font.Info) ([]byte, error) {
	name, err := record.EncodeUCS2(fi.Name)
	if err != nil {
		return nil, err
	}
	n := fontDeclHeader + len(name)
	if n > 0xFFFF {
		return nil, core.Error(core.EINVALID, "font name too long: %q", fi.Name)
	}
	buf, err := core.Alloc(p.env.Alloc, n)
	if err != nil {
		return nil, err
	}
	w := record.NewWriter(buf)
	w.U8(record.TypeExt2).U8(ExtFont).U16(uint16(n))
	w.U8(id).U16(fi.Size).U32(uint32(fi.Style)).Bytes(name)
	return buf, w.Err()
}

// Fonts returns the local font references of this package in order of
// declaration.
func (p *Package) Fonts() []LocalFont {
	fonts := make([]LocalFont, 0, p.fonts.Size())
	it := p.fonts.Iterator()
	for it.Next() {
		fonts = append(fonts, LocalFont{ID: it.Key().(uint8), Entry: it.Value().(*font.Entry)})
	}
	return fonts
}

// FontOf returns the global font entry for a local font id, or nil.
func (p *Package) FontOf(id uint8) *font.Entry {
	if e, ok := p.fonts.Get(id); ok {
		return e.(*font.Entry)
	}
	return nil
}

// localFont finds an existing local reference for e. If none exists or
// allowDuplicate is set, it returns a fresh local id and true.
// The package is not changed; see adopt.
func (p *Package) localFont(e *font.Entry, allowDuplicate bool) (uint8, bool, error) {
	if !allowDuplicate {
		for _, lf := range p.Fonts() {
			if lf.Entry == e {
				return lf.ID, false, nil
			}
		}
	}
	if p.nextFontID > 0xFF {
		return 0, false, core.Error(core.ERESOURCES, "string package [%s] cannot declare more fonts", p.Language)
	}
	return uint8(p.nextFontID), true, nil
}

// adopt records a new local font reference after the stream has been updated.
func (p *Package) adopt(id uint8, e *font.Entry) {
	p.fonts.Put(id, e)
	p.nextFontID = int(id) + 1
	tracer().Infof("string package [%s] refers to font %s as %d", p.Language, e, id)
}
