package imagetab

import (
	"image/color"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/record"
)

// Image package header: common header, image info offset:4, palette info offset:4.
const headerSize = record.PackageHeaderSize + 4 + 4

// Package is an image package.
type Package struct {
	palettes []Palette
	stream   []byte
	env      record.Env
}

// New creates an empty image package.
func New(env record.Env, palettes ...Palette) (*Package, error) {
	stream, err := core.Alloc(env.Alloc, 1)
	if err != nil {
		return nil, err
	}
	stream[0] = BlockEnd
	return &Package{palettes: palettes, stream: stream, env: env}, nil
}

// NewFromStream creates an image package from an existing image stream.
func NewFromStream(stream []byte, env record.Env, palettes ...Palette) (*Package, error) {
	if _, _, err := record.Terminus(stream, grammar{}); err != nil {
		return nil, err
	}
	return &Package{palettes: palettes, stream: stream, env: env}, nil
}

// Parse reads a binary image package.
func Parse(data []byte, env record.Env) (*Package, error) {
	length, err := record.ReadPackageHeader(data, record.PackageImages)
	if err != nil {
		return nil, err
	}
	s := record.Segment(data[:length])
	imgOffset, err := s.U32(record.PackageHeaderSize)
	if err != nil {
		return nil, err
	}
	palOffset, err := s.U32(record.PackageHeaderSize + 4)
	if err != nil {
		return nil, err
	}
	if imgOffset < headerSize || int(imgOffset) >= length {
		return nil, core.Error(core.ECORRUPT, "image info offset %d out of range", imgOffset)
	}
	end, _, err := record.Terminus(s[imgOffset:], grammar{})
	if err != nil {
		return nil, err
	}
	stream, err := core.Alloc(env.Alloc, end.Limit())
	if err != nil {
		return nil, err
	}
	copy(stream, s[imgOffset:])
	p := &Package{stream: stream, env: env}
	if palOffset != 0 {
		if p.palettes, err = parsePalettes(s, int(palOffset)); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("parsed image package with %d palettes", len(p.palettes))
	return p, nil
}

func parsePalettes(s record.Segment, offset int) ([]Palette, error) {
	count, err := s.U16(offset)
	if err != nil {
		return nil, err
	}
	pos := offset + 2
	palettes := make([]Palette, count)
	for i := range palettes {
		size, err := s.U16(pos)
		if err != nil {
			return nil, err
		}
		values, err := s.View(pos+2, int(size))
		if err != nil {
			return nil, err
		}
		pal := make(Palette, int(size)/3)
		for j := range pal {
			pal[j] = color.RGBA{R: values[3*j+2], G: values[3*j+1], B: values[3*j], A: 0xff}
		}
		palettes[i] = pal
		pos += 2 + int(size)
	}
	return palettes, nil
}

func (p *Package) paletteLen() int {
	if len(p.palettes) == 0 {
		return 0
	}
	n := 2
	for _, pal := range p.palettes {
		n += 2 + 3*len(pal)
	}
	return n
}

// Length returns the declared length of the package in bytes.
func (p *Package) Length() int {
	return headerSize + len(p.stream) + p.paletteLen()
}

// MarshalBinary returns the binary form of the package. Palettes follow the
// image records.
func (p *Package) MarshalBinary() ([]byte, error) {
	buf, err := core.Alloc(p.env.Alloc, p.Length())
	if err != nil {
		return nil, err
	}
	w := record.NewWriter(buf)
	record.WritePackageHeader(w, len(buf), record.PackageImages)
	palOffset := 0
	if len(p.palettes) > 0 {
		palOffset = headerSize + len(p.stream)
	}
	w.U32(headerSize).U32(uint32(palOffset)).Bytes(p.stream)
	if len(p.palettes) > 0 {
		w.U16(uint16(len(p.palettes)))
		for _, pal := range p.palettes {
			w.U16(uint16(3 * len(pal)))
			for _, c := range pal {
				w.U8(c.B).U8(c.G).U8(c.R)
			}
		}
	}
	return buf, w.Err()
}

// Stream returns the package's record stream. Clients must not modify it.
func (p *Package) Stream() []byte {
	return p.stream
}

// Palettes returns the package's palettes.
func (p *Package) Palettes() []Palette {
	return p.palettes
}

// NextID returns the id the next new image will receive.
func (p *Package) NextID() (uint32, error) {
	_, next, err := record.Terminus(p.stream, grammar{})
	return next, err
}

// Get decodes the image with a given id.
func (p *Package) Get(id uint32) (*Image, error) {
	hit, err := record.Seek(p.stream, grammar{}, id, p.env.MaxHops)
	if err != nil {
		return nil, err
	}
	if hit.Kind != record.Data || hit.Type == BlockJPEG {
		return nil, core.Error(core.EUNSUPPORTED, "image %d is stored as block type 0x%02x, cannot decode", id, hit.Type)
	}
	s := record.Segment(p.stream)
	bpp := bitsPerPixel(hit.Type)
	w, h, err := dimensions(s, hit.Record)
	if err != nil {
		return nil, err
	}
	data := hit.Payload(s)
	img := &Image{Transparent: isTransparent(hit.Type)}
	if bpp == 24 {
		img.Bitmap = decodeDirect(data, w, h)
		return img, nil
	}
	index := int(s[hit.Offset+1])
	if index < 1 || index > len(p.palettes) {
		return nil, core.Error(core.ECORRUPT, "image %d refers to palette %d of %d", id, index, len(p.palettes))
	}
	img.Bitmap = decodePalette(data, bpp, w, h, p.palettes[index-1], img.Transparent)
	return img, nil
}

func dimensions(s record.Segment, r record.Record) (int, int, error) {
	w, err := s.U16(r.Offset + r.Header - 4)
	if err != nil {
		return 0, 0, err
	}
	h, err := s.U16(r.Offset + r.Header - 2)
	return int(w), int(h), err
}

// New appends img as a 24-bit image in front of the end record and returns
// its id.
func (p *Package) New(img *Image) (uint32, error) {
	rec, err := encodeDirect(p.env.Alloc, img)
	if err != nil {
		return 0, err
	}
	end, id, err := record.Terminus(p.stream, grammar{})
	if err != nil {
		return 0, err
	}
	stream, err := record.Splice(p.env.Alloc, p.stream, end.Offset, end.Offset, rec)
	if err != nil {
		return 0, err
	}
	p.stream = stream
	tracer().Infof("new image %d of %dx%d pixels", id, img.Width(), img.Height())
	return id, nil
}

// Set replaces the image with a given id by img, stored as a 24-bit image.
func (p *Package) Set(id uint32, img *Image) error {
	hit, err := record.Seek(p.stream, grammar{}, id, p.env.MaxHops)
	if err != nil {
		return err
	}
	if hit.Kind != record.Data {
		return core.Error(core.EUNSUPPORTED, "image %d is stored in a %s record", id, hit.Kind)
	}
	rec, err := encodeDirect(p.env.Alloc, img)
	if err != nil {
		return err
	}
	stream, err := record.Splice(p.env.Alloc, p.stream, hit.Offset, hit.Limit(), rec)
	if err != nil {
		return err
	}
	tracer().Infof("image %d replaced, package size changes by %d bytes", id, len(stream)-len(p.stream))
	p.stream = stream
	return nil
}
