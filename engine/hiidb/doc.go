/*
Package hiidb implements the resource database.

The database manages package lists, each identified by a handle. A package
list bundles string packages (one per language), font packages, simple font
packages and at most one image package. All global font entries of the
database live in a single font registry, shared by every package.

Operations on strings, images and glyphs are synchronous passes over
in-memory record streams. The database does not lock package lists:
callers running mutations concurrently with other operations on the same
package list have to serialize them. The font registry serializes itself.

Configuration is read from a schuko.Configuration:

	hii.canvas-width       width of canvases allocated for text, default 800
	hii.canvas-height      height of canvases allocated for text, default 600
	hii.replacement-char   character drawn for missing glyphs, default 0xFFFD
	hii.duplicate-hops     bound for chains of duplicate records, default 64
	hii.system-font        name of the system font, default "sysdefault"

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package hiidb

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'hii.db'
func tracer() tracing.Trace {
	return tracing.Select("hii.db")
}
