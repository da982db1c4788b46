/*
Package stringtab implements string packages.

A string package holds the strings of one language as a record stream.
Strings are either narrow (one byte per character) or native UCS-2, stored
singly or in runs, and optionally carry a reference to a font. Font references
are small package-local ids, declared by extension records at the front of
the stream and mapped to global font entries of a font registry.

Updating a string always rebuilds the stream in a fresh buffer; ids of other
strings never change. New strings are appended in front of the end record.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package stringtab

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'hii.strings'
func tracer() tracing.Trace {
	return tracing.Select("hii.strings")
}
