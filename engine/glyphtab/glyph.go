package glyphtab

import (
	"fmt"

	"github.com/npillmayer/hiidb/core/record"
)

// Cell holds the dimensions of a glyph.
type Cell struct {
	Width    uint16
	Height   uint16
	OffsetY  int16 // baseline, measured from the top of the cell
	AdvanceX int16 // horizontal advance
}

// cellSize is the size of a binary cell: width:2, height:2, baseY:2, advX:2.
const cellSize = 8

func (c Cell) String() string {
	return fmt.Sprintf("%dx%d(base=%d,adv=%d)", c.Width, c.Height, c.OffsetY, c.AdvanceX)
}

// Stride returns the number of bytes per bitmap row.
func (c Cell) Stride() int {
	return (int(c.Width) + 7) / 8
}

// BitmapLen returns the size of a glyph bitmap for this cell.
func (c Cell) BitmapLen() int {
	return c.Stride() * int(c.Height)
}

func readCell(s record.Segment, offset int) (Cell, error) {
	b, err := s.View(offset, cellSize)
	if err != nil {
		return Cell{}, err
	}
	w, _ := b.U16(0)
	h, _ := b.U16(2)
	y, _ := b.I16(4)
	x, _ := b.I16(6)
	return Cell{Width: w, Height: h, OffsetY: y, AdvanceX: x}, nil
}

func writeCell(w *record.Writer, c Cell) *record.Writer {
	return w.U16(c.Width).U16(c.Height).U16(uint16(c.OffsetY)).U16(uint16(c.AdvanceX))
}

// Attr is a set of glyph attributes.
type Attr uint8

// Glyph attributes
const (
	NonSpacing   Attr = 0x01 // overlays the preceding glyph
	Wide         Attr = 0x02 // 16 pixels wide, simple fonts only
	Narrow       Attr = 0x04 // 8 pixels wide, simple fonts only
	Proportional Attr = 0x08 // from a font package
)

// Glyph is a decoded glyph.
type Glyph struct {
	Rune   rune
	Bitmap []byte
	Cell   Cell
	Attrs  Attr
}

// Pixel reports if the pixel at (x,y) of the glyph is set.
func (g *Glyph) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= int(g.Cell.Width) || y >= int(g.Cell.Height) {
		return false
	}
	i := y*g.Cell.Stride() + x/8
	if i >= len(g.Bitmap) {
		return false
	}
	return g.Bitmap[i]&(0x80>>(x%8)) != 0
}

// Advance returns the horizontal space the glyph occupies.
func (g *Glyph) Advance() int {
	if g.Attrs&NonSpacing != 0 {
		return 0
	}
	if g.Cell.AdvanceX > 0 {
		return int(g.Cell.AdvanceX)
	}
	return int(g.Cell.Width)
}

// Half returns the left (0) or right (1) 8-pixel column of a wide glyph as a
// narrow glyph.
func (g *Glyph) Half(i int) *Glyph {
	h := &Glyph{Rune: g.Rune, Attrs: (g.Attrs &^ Wide) | Narrow}
	h.Cell = Cell{Width: 8, Height: g.Cell.Height, OffsetY: g.Cell.OffsetY, AdvanceX: 8}
	stride := g.Cell.Stride()
	h.Bitmap = make([]byte, g.Cell.Height)
	for y := 0; y < int(g.Cell.Height); y++ {
		if j := y*stride + i; j < len(g.Bitmap) && i < stride {
			h.Bitmap[y] = g.Bitmap[j]
		}
	}
	return h
}

// String renders the glyph as text, one line per row.
func (g *Glyph) String() string {
	var b []byte
	for y := 0; y < int(g.Cell.Height); y++ {
		for x := 0; x < int(g.Cell.Width); x++ {
			if g.Pixel(x, y) {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}
