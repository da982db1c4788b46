package hiidb

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/config"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/core/font/fontregistry"
	"github.com/npillmayer/hiidb/core/record"
	"github.com/npillmayer/hiidb/engine/glyphtab"
	"github.com/npillmayer/hiidb/engine/layout"
	"github.com/npillmayer/schuko"
)

// Handle identifies a package list within a database.
type Handle uint32

// Database is a resource database.
type Database struct {
	settings   config.Settings
	alloc      core.Allocator
	registry   *fontregistry.Registry
	lists      *linkedhashmap.Map // Handle -> *PackageList, in order of registration
	nextHandle Handle
	sysFont    *glyphtab.SimpleFont
	sysEntry   *font.Entry
	fontPkgs   map[*font.Entry]*glyphtab.FontPackage
	compositor *layout.Compositor
}

// Option configures a database.
type Option func(*Database)

// WithAllocator sets the allocator for every buffer the database builds.
func WithAllocator(a core.Allocator) Option {
	return func(db *Database) {
		db.alloc = a
	}
}

// New creates an empty database. conf may be nil, in which case defaults
// are used.
func New(conf schuko.Configuration, opts ...Option) *Database {
	db := &Database{
		settings:   config.Load(conf),
		registry:   fontregistry.NewRegistry(),
		lists:      linkedhashmap.New(),
		nextHandle: 1,
		sysFont:    glyphtab.SystemFont(),
		fontPkgs:   make(map[*font.Entry]*glyphtab.FontPackage),
	}
	for _, opt := range opts {
		opt(db)
	}
	db.sysEntry, _ = db.registry.Register(font.Info{
		Name:  db.settings.SystemFont,
		Size:  font.SystemFontSize,
		Style: font.StyleNormal,
	})
	db.compositor = layout.New(db, db.settings, db.alloc)
	tracer().Infof("new resource database, system font is %s", db.sysEntry)
	return db
}

// Settings returns the settings the database works with.
func (db *Database) Settings() config.Settings {
	return db.settings
}

// Fonts returns the font registry of the database.
func (db *Database) Fonts() *fontregistry.Registry {
	return db.registry
}

func (db *Database) env() record.Env {
	return record.Env{Alloc: db.alloc, MaxHops: db.settings.DuplicateHops}
}

// NewPackageList registers an empty package list.
func (db *Database) NewPackageList(guid GUID) Handle {
	return db.register(&PackageList{GUID: guid})
}

// AddPackageList parses a binary package list and registers it. Fonts of
// font packages and string packages are entered into the font registry.
func (db *Database) AddPackageList(data []byte) (Handle, error) {
	pl, err := db.parsePackageList(data)
	if err != nil {
		return 0, err
	}
	for _, fp := range pl.fonts {
		db.adoptFontPackage(fp)
	}
	return db.register(pl), nil
}

func (db *Database) register(pl *PackageList) Handle {
	h := db.nextHandle
	db.nextHandle++
	db.lists.Put(h, pl)
	tracer().Infof("package list %d registered, %d bytes", h, pl.Length())
	return h
}

// RemovePackageList removes a package list from the database. Font entries
// stay in the registry.
func (db *Database) RemovePackageList(h Handle) error {
	pl, err := db.PackageList(h)
	if err != nil {
		return err
	}
	for e, fp := range db.fontPkgs {
		for _, own := range pl.fonts {
			if fp == own {
				delete(db.fontPkgs, e)
			}
		}
	}
	db.lists.Remove(h)
	// another list may provide glyphs for a font just removed
	for _, other := range db.packageLists() {
		for _, fp := range other.fonts {
			db.adoptFontPackage(fp)
		}
	}
	tracer().Infof("package list %d removed", h)
	return nil
}

// ExportPackageList returns the binary form of a package list.
func (db *Database) ExportPackageList(h Handle) ([]byte, error) {
	pl, err := db.PackageList(h)
	if err != nil {
		return nil, err
	}
	return pl.MarshalBinary()
}

// PackageList returns the package list for a handle.
func (db *Database) PackageList(h Handle) (*PackageList, error) {
	if v, ok := db.lists.Get(h); ok {
		return v.(*PackageList), nil
	}
	return nil, core.Error(core.EMISSING, "no package list with handle %d", h)
}

// Handles returns the handles of all package lists in order of registration.
func (db *Database) Handles() []Handle {
	keys := db.lists.Keys()
	handles := make([]Handle, len(keys))
	for i, k := range keys {
		handles[i] = k.(Handle)
	}
	return handles
}

func (db *Database) packageLists() []*PackageList {
	values := db.lists.Values()
	lists := make([]*PackageList, len(values))
	for i, v := range values {
		lists[i] = v.(*PackageList)
	}
	return lists
}

// AddFontPackage adds a font package to a package list and registers its
// font. If another package already provides glyphs for the same font, the
// older package stays in charge.
func (db *Database) AddFontPackage(h Handle, fp *glyphtab.FontPackage) (*font.Entry, error) {
	pl, err := db.PackageList(h)
	if err != nil {
		return nil, err
	}
	if err = fp.CollectDefaults(); err != nil {
		return nil, err
	}
	pl.fonts = append(pl.fonts, fp)
	return db.adoptFontPackage(fp), nil
}

func (db *Database) adoptFontPackage(fp *glyphtab.FontPackage) *font.Entry {
	e, _ := db.registry.Register(fp.Info)
	if _, ok := db.fontPkgs[e]; !ok {
		db.fontPkgs[e] = fp
		tracer().Debugf("font package provides glyphs for %s", e)
	}
	return e
}

// AddSimpleFont adds a simple font package to a package list.
func (db *Database) AddSimpleFont(h Handle, sf *glyphtab.SimpleFont) error {
	pl, err := db.PackageList(h)
	if err != nil {
		return err
	}
	pl.simple = append(pl.simple, sf)
	return nil
}
