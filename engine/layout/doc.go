/*
Package layout composites text and images onto bitmap canvases.

Text layout is a single pass over a decoded string. Every character is
classified by a fixed table of line break classes and resolved to a glyph,
then characters are collected into rows which fit the width of the target
canvas. Wrapping cuts rows at the right-most break opportunity; rows without
one are clipped at the last character fitting completely. Each row is as
tall as its tallest glyph cell.

Non-spacing glyphs overlay the cell of the preceding character. Wide glyphs
are drawn as two adjacent narrow halves.

If no canvas is supplied, a canvas of a default size is allocated and the
text is drawn onto it.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package layout

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'hii.layout'
func tracer() tracing.Trace {
	return tracing.Select("hii.layout")
}
