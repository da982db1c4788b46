package hiidb

import (
	"strings"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/engine/stringtab"
)

// stringPackage finds the string package of a list for a language.
func (pl *PackageList) stringPackage(lang string) *stringtab.Package {
	for _, sp := range pl.strings {
		if sameLanguage(primaryLanguage(sp.Language), primaryLanguage(lang)) {
			return sp
		}
	}
	return nil
}

// knownFont returns the registry entry for fi, which has to exist.
func (db *Database) knownFont(fi *font.Info) (*font.Entry, error) {
	if fi == nil {
		return nil, nil
	}
	if e := db.registry.Lookup(*fi); e != nil {
		return e, nil
	}
	return nil, core.Error(core.EINVALID, "font %s is unknown to the database", *fi)
}

// GetString returns the text of a string and its font, if the string refers
// to one. If the language has no string package but another language has
// a string with the requested id, the error code is ELANGUAGE.
func (db *Database) GetString(h Handle, lang string, id uint32) (string, *font.Entry, error) {
	pl, err := db.PackageList(h)
	if err != nil {
		return "", nil, err
	}
	if sp := pl.stringPackage(lang); sp != nil {
		return sp.Get(id)
	}
	for _, sp := range pl.strings {
		if _, _, err := sp.Get(id); err == nil {
			return "", nil, core.Error(core.ELANGUAGE, "string %d exists in [%s], not in [%s]", id, sp.Language, lang)
		}
	}
	return "", nil, core.Error(core.EMISSING, "no string package for language [%s]", lang)
}

// SetString replaces the text of an existing string. If fi is non-nil, the
// string's font is changed; the font has to be known to the database.
func (db *Database) SetString(h Handle, lang string, id uint32, text string, fi *font.Info) error {
	pl, err := db.PackageList(h)
	if err != nil {
		return err
	}
	fe, err := db.knownFont(fi)
	if err != nil {
		return err
	}
	sp := pl.stringPackage(lang)
	if sp == nil {
		return core.Error(core.EMISSING, "no string package for language [%s]", lang)
	}
	return sp.Set(id, text, fe)
}

// NewString adds a string in a language and returns its id. The id is
// reserved in the string packages of all other languages by blank strings.
// If the language has no string package yet, a package is created, with
// langName stored as string 1. Ids of all string packages of a list have to
// be in step; otherwise NewString fails with EINVALID.
//
// All packages are changed on copies, which replace the list's packages only
// if every change succeeded.
func (db *Database) NewString(h Handle, lang, langName, text string, fi *font.Info) (uint32, error) {
	pl, err := db.PackageList(h)
	if err != nil {
		return 0, err
	}
	if lang == "" {
		return 0, core.Error(core.EINVALID, "no language given")
	}
	fe, err := db.knownFont(fi)
	if err != nil {
		return 0, err
	}
	id := uint32(2) // string 1 holds the language name
	if len(pl.strings) > 0 {
		first := pl.strings[0]
		for _, sp := range pl.strings[1:] {
			if sp.NextID() != first.NextID() {
				return 0, core.Error(core.EINVALID, "string ids out of step: [%s] continues at %d, [%s] at %d",
					first.Language, first.NextID(), sp.Language, sp.NextID())
			}
		}
		id = max(id, first.NextID())
	}
	staged := make([]*stringtab.Package, len(pl.strings), len(pl.strings)+1)
	var target *stringtab.Package
	existing := pl.stringPackage(lang)
	for i, sp := range pl.strings {
		staged[i] = sp.Clone()
		if sp == existing {
			target = staged[i]
		}
	}
	if target == nil {
		if langName == "" {
			return 0, core.Error(core.EINVALID, "a new string package for [%s] needs a language name", lang)
		}
		if target, err = db.newStringPackage(lang, langName, id); err != nil {
			return 0, err
		}
		staged = append(staged, target)
	}
	for _, sp := range staged {
		last := id
		if sp == target {
			last = id - 1
		}
		for sp.NextID() <= last {
			if _, err = sp.AppendBlank(); err != nil {
				return 0, err
			}
		}
	}
	got, err := target.Append(text, fe)
	if err != nil {
		return 0, err
	}
	if got != id {
		return 0, core.Error(core.EINTERNAL, "string appended as %d, expected %d", got, id)
	}
	pl.strings = staged
	tracer().Infof("new string %d in [%s], package list %d has %d bytes", id, target.Language, h, pl.Length())
	return id, nil
}

// newStringPackage creates a string package with the language name as
// string 1 and blank strings up to, excluding, id.
func (db *Database) newStringPackage(lang, langName string, id uint32) (*stringtab.Package, error) {
	sp, err := stringtab.New(lang, 1, db.registry, db.env())
	if err != nil {
		return nil, err
	}
	if _, err = sp.Append(langName, nil); err != nil {
		return nil, err
	}
	for sp.NextID() < id {
		if _, err = sp.AppendBlank(); err != nil {
			return nil, err
		}
	}
	tracer().Infof("new string package for [%s]", lang)
	return sp, nil
}

// GetLanguages returns the languages of all string packages of a list,
// separated by ';'.
func (db *Database) GetLanguages(h Handle) (string, error) {
	pl, err := db.PackageList(h)
	if err != nil {
		return "", err
	}
	langs := make([]string, len(pl.strings))
	for i, sp := range pl.strings {
		langs[i] = sp.Language
	}
	return strings.Join(langs, ";"), nil
}

// GetSecondaryLanguages returns the secondary languages of the string
// package for a primary language, separated by ';'.
func (db *Database) GetSecondaryLanguages(h Handle, primary string) (string, error) {
	pl, err := db.PackageList(h)
	if err != nil {
		return "", err
	}
	sp := pl.stringPackage(primary)
	if sp == nil {
		return "", core.Error(core.ELANGUAGE, "no string package for language [%s]", primary)
	}
	return secondaryLanguages(sp.Language), nil
}

// BestLanguage returns the language list of the string package matching a
// list of preferred languages, given in Accept-Language format, best.
func (db *Database) BestLanguage(h Handle, prefs string) (string, error) {
	pl, err := db.PackageList(h)
	if err != nil {
		return "", err
	}
	supported := make([]string, len(pl.strings))
	for i, sp := range pl.strings {
		supported[i] = sp.Language
	}
	if i := bestLanguage(supported, prefs); i >= 0 {
		return supported[i], nil
	}
	return "", core.Error(core.ELANGUAGE, "no string package matches [%s]", prefs)
}

// PackageFonts returns the local font references of the string package for
// a language, as found by a fresh discovery pass over its stream.
func (db *Database) PackageFonts(h Handle, lang string) ([]stringtab.LocalFont, error) {
	pl, err := db.PackageList(h)
	if err != nil {
		return nil, err
	}
	sp := pl.stringPackage(lang)
	if sp == nil {
		return nil, core.Error(core.EMISSING, "no string package for language [%s]", lang)
	}
	if _, err = sp.DiscoverFonts(); err != nil {
		return nil, err
	}
	return sp.Fonts(), nil
}
