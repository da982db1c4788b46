package layout

import "unicode"

type breakClass uint8

const (
	ordinary    breakClass = iota
	hardBreak              // forces a new row
	breakAfter             // row may end after this character
	breakAround            // row may end before or after this character
)

var hardBreaks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x000A, Hi: 0x000A, Stride: 1},
		{Lo: 0x000C, Hi: 0x000D, Stride: 1},
		{Lo: 0x0085, Hi: 0x0085, Stride: 1},
		{Lo: 0x2028, Hi: 0x2029, Stride: 1},
	},
	LatinOffset: 3,
}

var softBreaksAfter = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0020, Hi: 0x0020, Stride: 1},
		{Lo: 0x058A, Hi: 0x058A, Stride: 1},
		{Lo: 0x0F0B, Hi: 0x0F0B, Stride: 1},
		{Lo: 0x1361, Hi: 0x1361, Stride: 1},
		{Lo: 0x1680, Hi: 0x1680, Stride: 1},
		{Lo: 0x17D5, Hi: 0x17D5, Stride: 1},
		{Lo: 0x2000, Hi: 0x2006, Stride: 1},
		{Lo: 0x2008, Hi: 0x200B, Stride: 1},
		{Lo: 0x2010, Hi: 0x2010, Stride: 1},
		{Lo: 0x2012, Hi: 0x2013, Stride: 1},
		{Lo: 0x205F, Hi: 0x205F, Stride: 1},
	},
	LatinOffset: 1,
}

// classify returns the line break class of r.
func classify(r rune) breakClass {
	switch {
	case r == 0x2014:
		return breakAround
	case unicode.Is(hardBreaks, r):
		return hardBreak
	case unicode.Is(softBreaksAfter, r):
		return breakAfter
	}
	return ordinary
}

// isSpace is true for blank break opportunities. A blank ending a wrapped
// row is not drawn.
func isSpace(r rune) bool {
	return r == 0x200B || unicode.Is(unicode.Zs, r)
}
