package hiidb

import (
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/record"
	"github.com/npillmayer/hiidb/engine/glyphtab"
	"github.com/npillmayer/hiidb/engine/imagetab"
	"github.com/npillmayer/hiidb/engine/stringtab"
)

// Package list header layout: GUID:16, length:4. Lists end with an end
// package consisting of a common header only.
const (
	listHeaderSize = 16 + 4
	endPackageSize = record.PackageHeaderSize
)

// GUID identifies a package list.
type GUID [16]byte

// PackageList bundles the packages registered under one handle. Packages of
// types the database does not interpret are kept as raw bytes.
type PackageList struct {
	GUID    GUID
	strings []*stringtab.Package
	fonts   []*glyphtab.FontPackage
	simple  []*glyphtab.SimpleFont
	images  *imagetab.Package
	others  [][]byte
}

// Length returns the declared length of the package list in bytes.
func (pl *PackageList) Length() int {
	n := listHeaderSize + endPackageSize
	for _, sp := range pl.strings {
		n += sp.Length()
	}
	for _, fp := range pl.fonts {
		n += fp.Length()
	}
	for _, sf := range pl.simple {
		n += sf.Length()
	}
	if pl.images != nil {
		n += pl.images.Length()
	}
	for _, raw := range pl.others {
		n += len(raw)
	}
	return n
}

// StringPackages returns the string packages in order of registration.
func (pl *PackageList) StringPackages() []*stringtab.Package {
	return pl.strings
}

// FontPackages returns the font packages in order of registration.
func (pl *PackageList) FontPackages() []*glyphtab.FontPackage {
	return pl.fonts
}

// SimpleFonts returns the simple font packages in order of registration.
func (pl *PackageList) SimpleFonts() []*glyphtab.SimpleFont {
	return pl.simple
}

// Images returns the image package, or nil.
func (pl *PackageList) Images() *imagetab.Package {
	return pl.images
}

type marshaler interface {
	MarshalBinary() ([]byte, error)
}

// MarshalBinary returns the binary form of the package list: strings, fonts,
// simple fonts, images, other packages, end package.
func (pl *PackageList) MarshalBinary() ([]byte, error) {
	var members []marshaler
	for _, sp := range pl.strings {
		members = append(members, sp)
	}
	for _, fp := range pl.fonts {
		members = append(members, fp)
	}
	for _, sf := range pl.simple {
		members = append(members, sf)
	}
	if pl.images != nil {
		members = append(members, pl.images)
	}
	buf := make([]byte, pl.Length())
	w := record.NewWriter(buf)
	w.Bytes(pl.GUID[:]).U32(uint32(len(buf)))
	for _, m := range members {
		data, err := m.MarshalBinary()
		if err != nil {
			return nil, err
		}
		w.Bytes(data)
	}
	for _, raw := range pl.others {
		w.Bytes(raw)
	}
	record.WritePackageHeader(w, endPackageSize, record.PackageEnd)
	if w.Err() == nil && w.Len() != len(buf) {
		return nil, core.Error(core.EINTERNAL, "package list length is %d, wrote %d bytes", len(buf), w.Len())
	}
	return buf, w.Err()
}

// parsePackageList splits a binary package list into its packages. Font
// packages are collected but not yet registered.
func (db *Database) parsePackageList(data []byte) (*PackageList, error) {
	s := record.Segment(data)
	length, err := s.U32(16)
	if err != nil {
		return nil, err
	}
	if int(length) < listHeaderSize || int(length) > len(data) {
		return nil, core.Error(core.ECORRUPT, "package list length %d invalid for %d bytes", length, len(data))
	}
	pl := &PackageList{}
	copy(pl.GUID[:], data[:16])
	env := db.env()
	for pos := listHeaderSize; pos < int(length); {
		size, err := s.U24(pos)
		if err != nil {
			return nil, err
		}
		typ, err := s.U8(pos + 3)
		if err != nil {
			return nil, err
		}
		if size < record.PackageHeaderSize || pos+int(size) > int(length) {
			return nil, core.Error(core.ECORRUPT, "package at offset %d has invalid length %d", pos, size)
		}
		pkg := data[pos : pos+int(size)]
		switch typ {
		case record.PackageEnd:
			tracer().Debugf("package list %x has %d bytes", pl.GUID, pos+int(size))
			return pl, nil
		case record.PackageStrings:
			sp, err := stringtab.Parse(pkg, db.registry, env)
			if err != nil {
				return nil, err
			}
			pl.strings = append(pl.strings, sp)
		case record.PackageFonts:
			fp, err := glyphtab.ParseFontPackage(pkg, env)
			if err != nil {
				return nil, err
			}
			pl.fonts = append(pl.fonts, fp)
		case record.PackageSimpleFonts:
			sf, err := glyphtab.ParseSimpleFont(pkg)
			if err != nil {
				return nil, err
			}
			pl.simple = append(pl.simple, sf)
		case record.PackageImages:
			if pl.images != nil {
				return nil, core.Error(core.EINVALID, "package list contains more than one image package")
			}
			if pl.images, err = imagetab.Parse(pkg, env); err != nil {
				return nil, err
			}
		default:
			tracer().Debugf("keeping package of type 0x%02x uninterpreted", typ)
			pl.others = append(pl.others, append([]byte(nil), pkg...))
		}
		pos += int(size)
	}
	return nil, core.Error(core.ECORRUPT, "package list has no end package")
}
