package hiidb

import (
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/core/font/fontregistry"
	"github.com/npillmayer/hiidb/engine/glyphtab"
	"github.com/npillmayer/hiidb/engine/layout"
)

var _ layout.GlyphSource = (*Database)(nil)

// isSystemFont is true if fdi denotes the system font.
func (db *Database) isSystemFont(fdi *font.DisplayInfo) bool {
	return fdi == nil || fdi.Info.Name == "" || fdi.Info.Name == db.settings.SystemFont
}

// Glyph returns the glyph for r in the font of fdi. For the system font,
// simple fonts of all package lists are searched in order of registration,
// then the built-in font. Other fonts need a font package. A missing glyph
// is reported as EMISSING.
func (db *Database) Glyph(r rune, fdi *font.DisplayInfo) (*glyphtab.Glyph, error) {
	if db.isSystemFont(fdi) {
		for _, pl := range db.packageLists() {
			for _, sf := range pl.simple {
				if sf.Has(r) {
					return sf.Glyph(r)
				}
			}
		}
		return db.sysFont.Glyph(r)
	}
	e := db.registry.Lookup(fdi.Info)
	fp := db.fontPkgs[e]
	if fp == nil {
		return nil, core.Error(core.EMISSING, "no glyphs for font %s", fdi.Info)
	}
	return fp.Glyph(r)
}

// GetGlyph returns the glyph for r in the font of fdi, resolved as for
// StringToImage. If the font has no glyph for r, the replacement glyph is
// returned together with an EWARNING error.
func (db *Database) GetGlyph(r rune, fdi *font.DisplayInfo) (*glyphtab.Glyph, error) {
	fdi, err := db.displayFont(fdi)
	if err != nil {
		return nil, err
	}
	g, err := db.Glyph(r, fdi)
	if core.Code(err) != core.EMISSING {
		return g, err
	}
	repl := db.settings.Replacement
	g, rerr := db.Glyph(repl, fdi)
	if rerr != nil {
		return nil, err
	}
	return g, core.Error(core.EWARNING, "U+%04X substituted by U+%04X", r, repl)
}

// GetFontInfo resolves a font request. Mask bits requesting system defaults
// replace the corresponding attributes of the request by those of the
// system font. A nil request denotes the system font.
//
// Matching starts after font entry after, which allows iterating over all
// fonts matching a request. If sample is not empty, only fonts providing
// glyphs for every character of sample qualify.
//
// The resolved display info carries the matched font's info and the
// requested colors.
func (db *Database) GetFontInfo(after *font.Entry, req *font.DisplayInfo, sample string) (*font.Entry, *font.DisplayInfo, error) {
	fg, bg := font.DefaultAttribute.Colors()
	if req == nil {
		req = &font.DisplayInfo{
			Foreground: fg,
			Background: bg,
			Mask:       font.SysFont | font.SysSize | font.SysStyle,
		}
	}
	out, err := db.substitute(req)
	if err != nil {
		return nil, nil, err
	}
	var accept func(*font.Entry) bool
	if sample != "" {
		accept = func(e *font.Entry) bool {
			return db.covers(e, sample)
		}
	}
	e, confidence, err := db.registry.Match(out.Info, req.Mask, after, accept)
	if err != nil {
		return nil, nil, err
	}
	tracer().Debugf("font request %s resolved to %s (%s)", req.Info, e, confidence)
	out.Info = e.Info
	return e, out, nil
}

// substitute validates the mask of a font request and replaces the
// attributes selected by its SYS_* bits by those of the system font.
func (db *Database) substitute(req *font.DisplayInfo) (*font.DisplayInfo, error) {
	if err := fontregistry.ValidateMask(req.Mask); err != nil {
		return nil, err
	}
	fg, bg := font.DefaultAttribute.Colors()
	out := *req
	sys := db.sysEntry.Info
	if req.Mask.Has(font.SysFont) {
		out.Info.Name = sys.Name
	}
	if req.Mask.Has(font.SysSize) {
		out.Info.Size = sys.Size
	}
	if req.Mask.Has(font.SysStyle) {
		out.Info.Style = sys.Style
	}
	if req.Mask.Has(font.SysForeColor) {
		out.Foreground = fg
	}
	if req.Mask.Has(font.SysBackColor) {
		out.Background = bg
	}
	return &out, nil
}

// displayFont resolves the font of a glyph or layout request to a font
// providing glyphs. If no such font matches, the system font is used with
// the requested colors. A nil request stays nil, denoting the system font.
func (db *Database) displayFont(fdi *font.DisplayInfo) (*font.DisplayInfo, error) {
	if fdi == nil {
		return nil, nil
	}
	out, err := db.substitute(fdi)
	if err != nil {
		return nil, err
	}
	e, _, err := db.registry.Match(out.Info, fdi.Mask, nil, db.hasGlyphs)
	switch core.Code(err) {
	case core.NOERROR:
		out.Info = e.Info
	case core.EMISSING:
		tracer().Infof("no glyphs for font %s, using the system font", fdi.Info)
		out.Info = db.sysEntry.Info
	default:
		return nil, err
	}
	return out, nil
}

// hasGlyphs is true if glyphs of font e are available.
func (db *Database) hasGlyphs(e *font.Entry) bool {
	return e == db.sysEntry || db.fontPkgs[e] != nil
}

// covers is true if font e has a glyph for every character of sample.
func (db *Database) covers(e *font.Entry, sample string) bool {
	fdi := &font.DisplayInfo{Info: e.Info}
	for _, r := range sample {
		if _, err := db.Glyph(r, fdi); err != nil {
			return false
		}
	}
	return true
}

// ResolveFont returns the first registered font matching fi under mask.
// If sample is not empty, the font has to provide glyphs for all its
// characters.
func (db *Database) ResolveFont(fi font.Info, mask font.Mask, sample string) (*font.Entry, error) {
	e, _, err := db.GetFontInfo(nil, &font.DisplayInfo{Info: fi, Mask: mask}, sample)
	return e, err
}
