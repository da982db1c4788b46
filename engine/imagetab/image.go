package imagetab

import (
	"image"
	"image/color"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/record"
)

// Image is a decoded image.
type Image struct {
	Bitmap      *image.RGBA
	Transparent bool // black pixels are not drawn
}

// NewImage creates a black image of the given size.
func NewImage(w, h int, transparent bool) *Image {
	return &Image{
		Bitmap:      image.NewRGBA(image.Rect(0, 0, w, h)),
		Transparent: transparent,
	}
}

// Width returns the width of the image in pixels.
func (img *Image) Width() int {
	return img.Bitmap.Bounds().Dx()
}

// Height returns the height of the image in pixels.
func (img *Image) Height() int {
	return img.Bitmap.Bounds().Dy()
}

// Palette is a table of colors.
type Palette []color.RGBA

// decodePalette converts packed palette indices to colors. For transparent
// images, index 0 yields a fully transparent black pixel.
func decodePalette(data record.Segment, bpp, w, h int, pal Palette, transparent bool) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := (w*bpp + 7) / 8
	mask := byte(1<<bpp - 1)
	for y := 0; y < h; y++ {
		row := data[y*stride : (y+1)*stride]
		for x := 0; x < w; x++ {
			bit := x * bpp
			shift := 8 - bpp - bit%8
			index := int(row[bit/8]>>shift) & int(mask)
			var c color.RGBA
			switch {
			case transparent && index == 0:
			case index < len(pal):
				c = pal[index]
			default:
				c = color.RGBA{A: 0xff}
			}
			rgba.SetRGBA(x, y, c)
		}
	}
	return rgba
}

// decodeDirect converts b,g,r triples to colors.
func decodeDirect(data record.Segment, w, h int) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		p := data[3*i : 3*i+3]
		copy(rgba.Pix[4*i:], []byte{p[2], p[1], p[0], 0xff})
	}
	return rgba
}

// encodeDirect creates a 24-bit image record.
func encodeDirect(a core.Allocator, img *Image) ([]byte, error) {
	if img == nil || img.Bitmap == nil {
		return nil, core.Error(core.EINVALID, "image is nil")
	}
	w, h := img.Width(), img.Height()
	if w > 0xFFFF || h > 0xFFFF {
		return nil, core.Error(core.EINVALID, "image of %dx%d pixels too large", w, h)
	}
	buf, err := core.Alloc(a, directHeaderSize+dataLen(24, w, h))
	if err != nil {
		return nil, err
	}
	typ := Block24Bit
	if img.Transparent {
		typ = Block24BitTrans
	}
	wr := record.NewWriter(buf).U8(typ).U16(uint16(w)).U16(uint16(h))
	b := img.Bitmap.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.Bitmap.RGBAAt(x, y)
			wr.U8(c.B).U8(c.G).U8(c.R)
		}
	}
	return buf, wr.Err()
}
