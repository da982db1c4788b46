/*
Package imagetab implements image packages.

An image package holds images as a record stream, plus a table of palettes
shared by all palette-indexed images of the package. Images are stored as
1-, 4- or 8-bit palette indices or as 24-bit direct color, each kind in an
opaque and a transparent variant. JPEG-compressed records are recognized,
but cannot be decoded.

New and updated images are always stored as 24-bit direct color, without
re-quantization. Updating an image rebuilds the stream; ids of other images
never change.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package imagetab

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'hii.images'
func tracer() tracing.Trace {
	return tracing.Select("hii.images")
}
