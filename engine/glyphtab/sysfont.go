package glyphtab

import (
	"image"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// SystemFont creates the built-in simple font. Its narrow glyphs are taken
// from the 7×13 face of package basicfont, placed into 8×19 cells with the
// face's baseline on the narrow baseline. A replacement glyph (an outlined
// box) is added for U+FFFD if the face does not provide one.
func SystemFont() *SimpleFont {
	face := basicfont.Face7x13
	sf := NewSimpleFont()
	top := NarrowBaseline - face.Ascent
	for _, rg := range face.Ranges {
		for r := rg.Low; r < rg.High; r++ {
			dr, mask, maskp, _, ok := face.Glyph(fixed.P(0, face.Ascent), r)
			if !ok {
				continue
			}
			g := NarrowGlyph{Rune: r}
			for y := 0; y < dr.Dy(); y++ {
				cy := top + dr.Min.Y + y
				if cy < 0 || cy >= GlyphHeight {
					continue
				}
				for x := 0; x < dr.Dx() && dr.Min.X+x < GlyphWidth; x++ {
					if _, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA(); a > 0x7fff {
						g.Rows[cy] |= 0x80 >> (dr.Min.X + x)
					}
				}
			}
			sf.AddNarrow(g)
		}
	}
	if !sf.Has(0xFFFD) {
		sf.AddImage(0xFFFD, replacementBox(), false)
	}
	n, w := sf.Size()
	tracer().Debugf("system font has %d narrow and %d wide glyphs", n, w)
	return sf
}

func replacementBox() image.Image {
	box := image.NewAlpha(image.Rect(0, 0, GlyphWidth, GlyphHeight))
	for y := 3; y <= NarrowBaseline; y++ {
		for x := 1; x <= 6; x++ {
			if y == 3 || y == NarrowBaseline || x == 1 || x == 6 {
				box.Pix[box.PixOffset(x, y)] = 0xff
			}
		}
	}
	return box
}
