package fontregistry

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/schuko/tracing"
)

// Registry is a type for holding the global font entries of a database.
// Entries are kept in registration order.
type Registry struct {
	sync.Mutex
	fonts *linkedhashmap.Map // canonical font info bytes -> *font.Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fonts: linkedhashmap.New()}
}

// Register pushes a font into the registry if it isn't contained yet.
// It returns the entry for fi and a flag telling if the entry existed before.
func (fr *Registry) Register(fi font.Info) (*font.Entry, bool) {
	fr.Lock()
	defer fr.Unlock()
	key := string(fi.Bytes())
	if e, ok := fr.fonts.Get(key); ok {
		return e.(*font.Entry), true
	}
	e := &font.Entry{Info: fi, Seq: fr.fonts.Size()}
	fr.fonts.Put(key, e)
	tracer().Debugf("registry stores font %s", e)
	return e, false
}

// Lookup returns the entry identical to fi, or nil.
func (fr *Registry) Lookup(fi font.Info) *font.Entry {
	fr.Lock()
	defer fr.Unlock()
	if e, ok := fr.fonts.Get(string(fi.Bytes())); ok {
		return e.(*font.Entry)
	}
	return nil
}

// Entries returns all entries in registration order.
func (fr *Registry) Entries() []*font.Entry {
	fr.Lock()
	defer fr.Unlock()
	values := fr.fonts.Values()
	entries := make([]*font.Entry, len(values))
	for i, v := range values {
		entries[i] = v.(*font.Entry)
	}
	return entries
}

// Size returns the number of registered fonts.
func (fr *Registry) Size() int {
	fr.Lock()
	defer fr.Unlock()
	return fr.fonts.Size()
}

// LogFontList is a helper function to dump the list of known fonts
// to the trace (log-level Info).
func (fr *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for _, e := range fr.Entries() {
		tracer().Infof("font %s", e)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// ValidateMask checks a capability mask for contradicting bits: a system
// default may not be combined with 'any' for the same attribute, and
// resizing/restyling may not be combined with 'any size'/'any style'.
func ValidateMask(m font.Mask) error {
	for _, pair := range [...][2]font.Mask{
		{font.SysFont, font.AnyFont},
		{font.SysSize, font.AnySize},
		{font.SysStyle, font.AnyStyle},
		{font.Resize, font.AnySize},
		{font.Restyle, font.AnyStyle},
	} {
		if m.Has(pair[0] | pair[1]) {
			return core.Error(core.EINVALID, "font mask 0x%x combines exclusive bits 0x%x", m, pair[0]|pair[1])
		}
	}
	return nil
}
