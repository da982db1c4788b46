/*
Package gfx ships canvases out to image files and text dumps.

Canvases produced by the compositor are plain RGBA bitmaps. Package gfx
encodes them as BMP (the native bitmap format of firmware displays) or PNG,
and renders them as text for terminals and test logs.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package gfx

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'hii.gfx'
func tracer() tracing.Trace {
	return tracing.Select("hii.gfx")
}
