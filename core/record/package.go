package record

import "github.com/npillmayer/hiidb/core"

// Package types as found in a package header.
const (
	PackageStrings     uint8 = 0x04
	PackageFonts       uint8 = 0x05
	PackageImages      uint8 = 0x06
	PackageSimpleFonts uint8 = 0x07
	PackageEnd         uint8 = 0xDF
)

// PackageHeaderSize is the size of the common package header: length:3, type:1.
const PackageHeaderSize = 4

// Env bundles the allocator and the duplicate-hop bound a codec works with.
type Env struct {
	Alloc   core.Allocator
	MaxHops int
}

// ReadPackageHeader reads the common header of a binary package and checks it
// against the expected package type. It returns the declared package length.
func ReadPackageHeader(data []byte, typ uint8) (int, error) {
	s := Segment(data)
	length, err := s.U24(0)
	if err != nil {
		return 0, err
	}
	t, err := s.U8(3)
	if err != nil {
		return 0, err
	}
	if t != typ {
		return 0, core.Error(core.EINVALID, "package type is 0x%02x, expected 0x%02x", t, typ)
	}
	if int(length) < PackageHeaderSize || int(length) > len(data) {
		return 0, core.Error(core.ECORRUPT, "package length %d invalid for %d bytes of data", length, len(data))
	}
	return int(length), nil
}

// WritePackageHeader writes the common package header.
func WritePackageHeader(w *Writer, length int, typ uint8) *Writer {
	return w.U24(uint32(length)).U8(typ)
}
