/*
Package record walks packed record streams.

String, glyph and image packages store their resources as a dense sequence
of typed, variable-length records terminated by an end record. All three
stream kinds share a set of control records (end, duplicate, skip and
extension records); data records are specific to each stream kind and are
measured by a Grammar supplied by the codec.

Resources are identified by their position in decode order. The first
resource has id 1, every data record advances the id counter by the number
of resources it holds, and skip records advance it without carrying data.

	c := record.NewCursor(stream, grammar)
	for c.Next() {
	    r := c.Record()
	    ...
	}
	if c.Err() != nil { ... }

A Cursor never reads past the end of the stream. An unrecognized record type
makes the stream corrupt; there is no attempt to resynchronize.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package record

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'hii.record'
func tracer() tracing.Trace {
	return tracing.Select("hii.record")
}
