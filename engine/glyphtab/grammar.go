package glyphtab

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/record"
)

// Glyph block types
const (
	BlockEnd           uint8 = 0x00
	BlockGlyph         uint8 = 0x10
	BlockGlyphs        uint8 = 0x11
	BlockGlyphDefault  uint8 = 0x12
	BlockGlyphsDefault uint8 = 0x13
	BlockDefaults      uint8 = 0x23
)

// defaultCells caches default cells by the character id at which they
// were declared.
type defaultCells struct {
	tree *redblacktree.Tree // uint32 key, stored as int -> Cell
}

func newDefaultCells() *defaultCells {
	return &defaultCells{tree: redblacktree.NewWith(utils.IntComparator)}
}

func (dc *defaultCells) put(id uint32, c Cell) {
	dc.tree.Put(int(id), c)
}

// lookup returns the cell declared at the closest id less than or equal to id.
func (dc *defaultCells) lookup(id uint32) (Cell, bool) {
	node, found := dc.tree.Floor(int(id))
	if !found {
		return Cell{}, false
	}
	return node.Value.(Cell), true
}

func (dc *defaultCells) size() int {
	return dc.tree.Size()
}

// grammar measures glyph blocks. Default-shaped blocks are measured with
// the cell found in the defaults cache.
type grammar struct {
	defaults *defaultCells
}

var _ record.Grammar = grammar{}

// Extension blocks do not carry glyphs.
func (grammar) ExtensionIDs() int {
	return 0
}

func (g grammar) Measure(s record.Segment, offset int, typ uint8, id uint32) (record.Record, error) {
	rec := record.Record{Type: typ, Kind: record.Data, Offset: offset, Count: 1}
	switch typ {
	case BlockGlyph:
		c, err := readCell(s, offset+1)
		if err != nil {
			return rec, err
		}
		rec.Header = 1 + cellSize
		rec.Length = rec.Header + c.BitmapLen()
	case BlockGlyphs:
		c, err := readCell(s, offset+1)
		if err != nil {
			return rec, err
		}
		n, err := s.U16(offset + 1 + cellSize)
		if err != nil {
			return rec, err
		}
		rec.Count = int(n)
		rec.Header = 1 + cellSize + 2
		rec.Length = rec.Header + rec.Count*c.BitmapLen()
	case BlockGlyphDefault, BlockGlyphsDefault:
		c, ok := g.defaults.lookup(id)
		if !ok {
			return rec, core.Error(core.ECORRUPT, "no default cell for glyph %d", id)
		}
		rec.Header = 1
		if typ == BlockGlyphsDefault {
			n, err := s.U16(offset + 1)
			if err != nil {
				return rec, err
			}
			rec.Count, rec.Header = int(n), 3
		}
		rec.Length = rec.Header + rec.Count*c.BitmapLen()
	case BlockDefaults:
		rec.Count, rec.Header, rec.Length = 0, 1, 1+cellSize
	default:
		return rec, core.Error(core.ECORRUPT, "unknown glyph block type 0x%02x at offset %d", typ, offset)
	}
	rec.IDs = rec.Count
	return rec, nil
}
