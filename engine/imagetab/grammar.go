package imagetab

import (
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/record"
)

// Image block types
const (
	BlockEnd        uint8 = 0x00
	Block1Bit       uint8 = 0x10
	Block1BitTrans  uint8 = 0x11
	Block4Bit       uint8 = 0x12
	Block4BitTrans  uint8 = 0x13
	Block8Bit       uint8 = 0x14
	Block8BitTrans  uint8 = 0x15
	Block24Bit      uint8 = 0x16
	Block24BitTrans uint8 = 0x17
	BlockJPEG       uint8 = 0x18
)

const (
	paletteHeaderSize = 6 // type, palette index, width:2, height:2
	directHeaderSize  = 5 // type, width:2, height:2
)

// bitsPerPixel returns the depth of a palette or direct color block type,
// or 0 for other types.
func bitsPerPixel(typ uint8) int {
	switch typ {
	case Block1Bit, Block1BitTrans:
		return 1
	case Block4Bit, Block4BitTrans:
		return 4
	case Block8Bit, Block8BitTrans:
		return 8
	case Block24Bit, Block24BitTrans:
		return 24
	}
	return 0
}

func isTransparent(typ uint8) bool {
	return typ&0x01 != 0
}

// dataLen returns the number of pixel bytes of an image: ceil(w·bpp/8)
// bytes per row for palette images, 3 bytes per pixel for direct color.
func dataLen(bpp, w, h int) int {
	if bpp == 24 {
		return w * h * 3
	}
	return (w*bpp + 7) / 8 * h
}

// grammar measures image blocks.
type grammar struct{}

var _ record.Grammar = grammar{}

// Every extension block occupies an image id.
func (grammar) ExtensionIDs() int {
	return 1
}

func (grammar) Measure(s record.Segment, offset int, typ uint8, id uint32) (record.Record, error) {
	rec := record.Record{Type: typ, Kind: record.Data, Offset: offset, Count: 1, IDs: 1}
	bpp := bitsPerPixel(typ)
	switch {
	case bpp > 0:
		hdr := paletteHeaderSize
		if bpp == 24 {
			hdr = directHeaderSize
		}
		w, err := s.U16(offset + hdr - 4)
		if err != nil {
			return rec, err
		}
		h, err := s.U16(offset + hdr - 2)
		if err != nil {
			return rec, err
		}
		rec.Header = hdr
		rec.Length = hdr + dataLen(bpp, int(w), int(h))
	case typ == BlockJPEG:
		n, err := s.U32(offset + 1)
		if err != nil {
			return rec, err
		}
		if n < 5 {
			return rec, core.Error(core.ECORRUPT, "JPEG block at offset %d too short", offset)
		}
		rec.Header, rec.Length = 5, int(n)
	default:
		return rec, core.Error(core.ECORRUPT, "unknown image block type 0x%02x at offset %d", typ, offset)
	}
	return rec, nil
}
