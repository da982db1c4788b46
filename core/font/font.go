/*
Package font holds the descriptive types for fonts of the resource database.

A font is identified by its name, its size (in pixels, i.e. the cell height)
and a set of style flags. We call this triple the font info. The database
keeps exactly one global font entry per distinct font info, and every
package referring to a font points to this shared entry.

Font requests carry a capability mask, which states how strictly the request
has to be matched, and foreground/background colors for rendering.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package font

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/npillmayer/hiidb/core/record"
)

// Style is a set of style flags.
type Style uint32

// Style flags
const (
	StyleNormal    Style = 0x00000000
	StyleBold      Style = 0x00000001
	StyleItalic    Style = 0x00000002
	StyleEmboss    Style = 0x00010000
	StyleOutline   Style = 0x00020000
	StyleShadow    Style = 0x00040000
	StyleUnderline Style = 0x00080000
	StyleDblUnder  Style = 0x00100000
)

// Covers is true if every flag of t is set in s.
func (s Style) Covers(t Style) bool {
	return s&t == t
}

func (s Style) String() string {
	if s == StyleNormal {
		return "normal"
	}
	var names []string
	for _, f := range []struct {
		s Style
		n string
	}{
		{StyleBold, "bold"}, {StyleItalic, "italic"}, {StyleEmboss, "emboss"},
		{StyleOutline, "outline"}, {StyleShadow, "shadow"}, {StyleUnderline, "underline"},
		{StyleDblUnder, "dbl-underline"},
	} {
		if s&f.s != 0 {
			names = append(names, f.n)
		}
	}
	return strings.Join(names, "|")
}

// Info identifies a font.
type Info struct {
	Name  string
	Size  uint16
	Style Style
}

func (fi Info) String() string {
	return fmt.Sprintf("%s/%d/%s", fi.Name, fi.Size, fi.Style)
}

// Bytes returns the canonical binary form of a font info: style:4, size:2,
// followed by the null-terminated UCS-2 name. Two font infos are identical
// if and only if their canonical forms are equal.
func (fi Info) Bytes() []byte {
	name, err := record.EncodeUCS2(fi.Name)
	if err != nil {
		name = []byte{0, 0}
	}
	buf := make([]byte, 6+len(name))
	record.NewWriter(buf).U32(uint32(fi.Style)).U16(fi.Size).Bytes(name)
	return buf
}

// Equal compares two font infos byte by byte.
func (fi Info) Equal(other Info) bool {
	return bytes.Equal(fi.Bytes(), other.Bytes())
}

// Mask states which attributes of a font request may be matched loosely and
// which system defaults should be substituted.
type Mask uint32

// Mask bits
const (
	SysFont      Mask = 0x00000001 // use the system font's name
	SysSize      Mask = 0x00000002 // use the system font's size
	SysStyle     Mask = 0x00000004 // use the system font's style
	SysForeColor Mask = 0x00000010 // use the system foreground color
	SysBackColor Mask = 0x00000020 // use the system background color
	Resize       Mask = 0x00001000 // a font of a different size may be scaled
	Restyle      Mask = 0x00002000 // a font with more style flags may be used
	AnyFont      Mask = 0x00010000 // any font name matches
	AnySize      Mask = 0x00020000 // any size matches
	AnyStyle     Mask = 0x00040000 // any style matches
)

// SysBits are the mask bits requesting system defaults.
const SysBits = SysFont | SysSize | SysStyle | SysForeColor | SysBackColor

// Has is true if all bits of b are set in m.
func (m Mask) Has(b Mask) bool {
	return m&b == b
}

// DisplayInfo is a font request together with rendering colors.
type DisplayInfo struct {
	Foreground color.RGBA
	Background color.RGBA
	Mask       Mask
	Info       Info
}

// Entry is a global font entry. Entries are created by a font registry and
// compared by identity.
type Entry struct {
	Info
	Seq int // position in registration order, starting at 0
}

func (e *Entry) String() string {
	if e == nil {
		return "<no font>"
	}
	return fmt.Sprintf("#%d(%s)", e.Seq, e.Info)
}

// --- System defaults -------------------------------------------------------

// SystemFontSize is the height of the cells of the simple system font.
const SystemFontSize = 19

// SystemColors is the 16-color palette of text attributes, indexed by the
// attribute's foreground or background nibble.
var SystemColors = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff}, // black
	{0x00, 0x00, 0x98, 0xff}, // blue
	{0x00, 0x98, 0x00, 0xff}, // green
	{0x00, 0x98, 0x98, 0xff}, // cyan
	{0x98, 0x00, 0x00, 0xff}, // red
	{0x98, 0x00, 0x98, 0xff}, // magenta
	{0x98, 0x98, 0x00, 0xff}, // brown
	{0x98, 0x98, 0x98, 0xff}, // light gray
	{0x30, 0x30, 0x30, 0xff}, // dark gray
	{0x00, 0x00, 0xff, 0xff}, // light blue
	{0x00, 0xff, 0x00, 0xff}, // light green
	{0x00, 0xff, 0xff, 0xff}, // light cyan
	{0xff, 0x00, 0x00, 0xff}, // light red
	{0xff, 0x00, 0xff, 0xff}, // light magenta
	{0xff, 0xff, 0x00, 0xff}, // yellow
	{0xff, 0xff, 0xff, 0xff}, // white
}

// Attribute is a text attribute: foreground color index in the low nibble,
// background color index in bits 4–6.
type Attribute uint8

// DefaultAttribute is light gray on black.
const DefaultAttribute Attribute = 0x07

// Colors returns the foreground and background colors of an attribute.
func (a Attribute) Colors() (fg, bg color.RGBA) {
	return SystemColors[a&0x0f], SystemColors[(a>>4)&0x07]
}

// SystemDefault returns the display info of the system font, with colors
// taken from attribute a.
func SystemDefault(name string, a Attribute) *DisplayInfo {
	fg, bg := a.Colors()
	return &DisplayInfo{
		Foreground: fg,
		Background: bg,
		Info:       Info{Name: name, Size: SystemFontSize, Style: StyleNormal},
	}
}
