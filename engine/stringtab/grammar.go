package stringtab

import (
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/record"
)

// String block types
const (
	BlockEnd             uint8 = 0x00
	BlockStringSCSU      uint8 = 0x10
	BlockStringSCSUFont  uint8 = 0x11
	BlockStringsSCSU     uint8 = 0x12
	BlockStringsSCSUFont uint8 = 0x13
	BlockStringUCS2      uint8 = 0x14
	BlockStringUCS2Font  uint8 = 0x15
	BlockStringsUCS2     uint8 = 0x16
	BlockStringsUCS2Font uint8 = 0x17
)

// ExtFont is the extension sub-type of font declarations.
const ExtFont uint8 = 0x40

// fontDeclHeader is the size of a font declaration up to the font name:
// type, sub-type, length:2, font id, size:2, style:4.
const fontDeclHeader = 11

func isNarrow(typ uint8) bool {
	return typ >= BlockStringSCSU && typ <= BlockStringsSCSUFont
}

func hasFont(typ uint8) bool {
	return typ&0x01 != 0
}

func isRun(typ uint8) bool {
	return typ&0x02 != 0
}

// grammar measures string blocks.
type grammar struct{}

var _ record.Grammar = grammar{}

// Extension blocks (i.e., font declarations) do not carry strings.
func (grammar) ExtensionIDs() int {
	return 0
}

func (grammar) Measure(s record.Segment, offset int, typ uint8, id uint32) (record.Record, error) {
	if typ < BlockStringSCSU || typ > BlockStringsUCS2Font {
		return record.Record{}, core.Error(core.ECORRUPT, "unknown string block type 0x%02x at offset %d", typ, offset)
	}
	rec := record.Record{Type: typ, Kind: record.Data, Offset: offset, Count: 1}
	hdr := 1
	if hasFont(typ) {
		hdr++
	}
	if isRun(typ) {
		n, err := s.U16(offset + hdr)
		if err != nil {
			return rec, err
		}
		rec.Count = int(n)
		hdr += 2
	}
	rec.Header, rec.IDs = hdr, rec.Count
	pos := offset + hdr
	for i := 0; i < rec.Count; i++ {
		n, err := strlen(s, pos, isNarrow(typ))
		if err != nil {
			return rec, err
		}
		pos += n
	}
	rec.Length = pos - offset
	return rec, nil
}

func strlen(s record.Segment, pos int, narrow bool) (int, error) {
	if narrow {
		return s.CString8(pos)
	}
	return s.CString16(pos)
}
