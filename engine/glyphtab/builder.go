package glyphtab

import (
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/record"
)

// StreamBuilder assembles a glyph stream. Glyphs have to be added in
// increasing character order; gaps are filled with skip records.
type StreamBuilder struct {
	buf  []byte
	next rune // character id of the next glyph record
	err  error
}

// NewStreamBuilder creates a builder for an empty glyph stream.
func NewStreamBuilder() *StreamBuilder {
	return &StreamBuilder{next: 1}
}

func (b *StreamBuilder) put(n int, fn func(w *record.Writer)) {
	if b.err != nil {
		return
	}
	chunk := make([]byte, n)
	w := record.NewWriter(chunk)
	fn(w)
	if w.Err() != nil {
		b.err = w.Err()
		return
	}
	b.buf = append(b.buf, chunk...)
}

// SkipTo advances the character counter to r.
func (b *StreamBuilder) SkipTo(r rune) *StreamBuilder {
	if r < b.next {
		b.err = core.Error(core.EINVALID, "glyph U+%04X added out of order", r)
		return b
	}
	for gap := r - b.next; gap > 0; {
		if gap <= 0xFF {
			n := gap
			b.put(2, func(w *record.Writer) { w.U8(record.TypeSkip1).U8(uint8(n)) })
			gap = 0
		} else {
			n := gap
			if n > 0xFFFF {
				n = 0xFFFF
			}
			b.put(3, func(w *record.Writer) { w.U8(record.TypeSkip2).U16(uint16(n)) })
			gap -= n
		}
	}
	b.next = r
	return b
}

func (b *StreamBuilder) checkBitmaps(cell Cell, bitmaps ...[]byte) {
	for _, bm := range bitmaps {
		if len(bm) != cell.BitmapLen() && b.err == nil {
			b.err = core.Error(core.EINVALID, "bitmap of %d bytes does not fit cell %s", len(bm), cell)
		}
	}
}

// Glyph adds a glyph with its own cell.
func (b *StreamBuilder) Glyph(r rune, cell Cell, bitmap []byte) *StreamBuilder {
	b.SkipTo(r).checkBitmaps(cell, bitmap)
	b.put(1+cellSize+len(bitmap), func(w *record.Writer) {
		writeCell(w.U8(BlockGlyph), cell).Bytes(bitmap)
	})
	b.next++
	return b
}

// Glyphs adds a run of glyphs sharing a cell, starting at first.
func (b *StreamBuilder) Glyphs(first rune, cell Cell, bitmaps ...[]byte) *StreamBuilder {
	b.SkipTo(first).checkBitmaps(cell, bitmaps...)
	b.put(1+cellSize+2+len(bitmaps)*cell.BitmapLen(), func(w *record.Writer) {
		writeCell(w.U8(BlockGlyphs), cell).U16(uint16(len(bitmaps)))
		for _, bm := range bitmaps {
			w.Bytes(bm)
		}
	})
	b.next += rune(len(bitmaps))
	return b
}

// Defaults declares the default cell for subsequent default-shaped glyphs.
func (b *StreamBuilder) Defaults(cell Cell) *StreamBuilder {
	b.put(1+cellSize, func(w *record.Writer) {
		writeCell(w.U8(BlockDefaults), cell)
	})
	return b
}

// DefaultGlyphs adds default-shaped glyphs, starting at first. A single
// bitmap yields a single-glyph record. The bitmaps must fit the default cell
// in effect.
func (b *StreamBuilder) DefaultGlyphs(first rune, bitmaps ...[]byte) *StreamBuilder {
	b.SkipTo(first)
	if len(bitmaps) == 1 {
		b.put(1+len(bitmaps[0]), func(w *record.Writer) {
			w.U8(BlockGlyphDefault).Bytes(bitmaps[0])
		})
	} else {
		n := 3
		for _, bm := range bitmaps {
			n += len(bm)
		}
		b.put(n, func(w *record.Writer) {
			w.U8(BlockGlyphsDefault).U16(uint16(len(bitmaps)))
			for _, bm := range bitmaps {
				w.Bytes(bm)
			}
		})
	}
	b.next += rune(len(bitmaps))
	return b
}

// Duplicate makes r an alias of the earlier glyph of.
func (b *StreamBuilder) Duplicate(r, of rune) *StreamBuilder {
	b.SkipTo(r)
	b.put(3, func(w *record.Writer) { w.U8(record.TypeDuplicate).U16(uint16(of)) })
	b.next++
	return b
}

// Bytes terminates the stream and returns it.
func (b *StreamBuilder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return append(b.buf, BlockEnd), nil
}
