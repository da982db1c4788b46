/*
Package glyphtab implements font packages and simple font packages.

A font package holds the bitmap glyphs of one proportional font as a record
stream. Glyphs are identified by their character code. Records either carry
their own cell dimensions, or are default-shaped and use the cell declared by
the most recent defaults record (or the package header).

A simple font package holds fixed-size narrow (8×19) and wide (16×19) glyphs
in two arrays. The database always provides a built-in simple font, which is
synthesized from a 7×13 bitmap face.

Bitmaps are stored row by row, ceil(width/8) bytes per row, with the most
significant bit denoting the leftmost pixel.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package glyphtab

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'hii.glyphs'
func tracer() tracing.Trace {
	return tracing.Select("hii.glyphs")
}
