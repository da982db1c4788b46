/*
Package fontregistry manages the global registry of fonts.

Every distinct font info (name, size, style) is stored exactly once. Packages
refer to registry entries by identity. Entries are never removed.

Font requests are resolved against the registry in registration order,
observing a capability mask. A request may be satisfied exactly, or, if the
mask allows it, by a font with more style flags (restyle) or a different size
(resize). Exact matches are preferred to single-attribute deviations, which
are preferred to fonts deviating in both size and style. Within one tier, the
first registered font wins.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'hii.font'
func tracer() tracing.Trace {
	return tracing.Select("hii.font")
}
