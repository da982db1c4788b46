package imagetab

import (
	"image/color"
	"testing"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/record"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
)

// id 1: 1-bit 3x2, id 2: transparent 1-bit 3x2, id 3: 4-bit 2x1, id 4: JPEG
func sampleStream() []byte {
	return []byte{
		Block1Bit, 1, 3, 0, 2, 0, 0xA0, 0x40,
		Block1BitTrans, 1, 3, 0, 2, 0, 0xA0, 0x40,
		Block4Bit, 2, 2, 0, 1, 0, 0x12,
		BlockJPEG, 7, 0, 0, 0, 0xFF, 0xD8,
		BlockEnd,
	}
}

func samplePackage(t *testing.T) *Package {
	p, err := NewFromStream(sampleStream(), record.Env{},
		Palette{black, white}, Palette{red, green, blue})
	require.NoError(t, err)
	return p
}

func TestPaletteImages(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.images")
	defer teardown()
	//
	p := samplePackage(t)
	img, err := p.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width())
	assert.Equal(t, 2, img.Height())
	assert.False(t, img.Transparent)
	assert.Equal(t, white, img.Bitmap.RGBAAt(0, 0))
	assert.Equal(t, black, img.Bitmap.RGBAAt(1, 0))
	assert.Equal(t, white, img.Bitmap.RGBAAt(2, 0))
	assert.Equal(t, white, img.Bitmap.RGBAAt(1, 1))
	//
	img, err = p.Get(2)
	require.NoError(t, err)
	assert.True(t, img.Transparent)
	assert.Equal(t, color.RGBA{}, img.Bitmap.RGBAAt(1, 0), "index 0 of transparent image is clear")
	assert.Equal(t, white, img.Bitmap.RGBAAt(0, 0))
	//
	img, err = p.Get(3)
	require.NoError(t, err)
	assert.Equal(t, green, img.Bitmap.RGBAAt(0, 0), "high nibble first")
	assert.Equal(t, blue, img.Bitmap.RGBAAt(1, 0))
}

func TestUnsupportedAndMissingImages(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.images")
	defer teardown()
	//
	p := samplePackage(t)
	_, err := p.Get(4)
	assert.Equal(t, core.EUNSUPPORTED, core.Code(err), "JPEG images cannot be decoded")
	_, err = p.Get(5)
	assert.Equal(t, core.EMISSING, core.Code(err))
	_, err = p.Get(0)
	assert.Equal(t, core.EINVALID, core.Code(err))
	next, err := p.NextID()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), next)
	//
	broken, err := NewFromStream([]byte{Block1Bit, 3, 1, 0, 1, 0, 0x80, BlockEnd}, record.Env{},
		Palette{black, white})
	require.NoError(t, err)
	_, err = broken.Get(1)
	assert.Equal(t, core.ECORRUPT, core.Code(err), "palette 3 does not exist")
	//
	_, err = NewFromStream([]byte{0x7E, BlockEnd}, record.Env{})
	assert.Equal(t, core.ECORRUPT, core.Code(err))
}

func TestNewAndSetImage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.images")
	defer teardown()
	//
	p := samplePackage(t)
	img := NewImage(24, 10, false)
	for i := range img.Bitmap.Pix {
		if i%4 == 3 {
			img.Bitmap.Pix[i] = 0xff
		} else {
			img.Bitmap.Pix[i] = byte(i)
		}
	}
	id, err := p.New(img)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), id)
	got, err := p.Get(id)
	require.NoError(t, err)
	assert.Equal(t, img.Bitmap.Pix, got.Bitmap.Pix)
	//
	repl := NewImage(1, 1, true)
	repl.Bitmap.SetRGBA(0, 0, red)
	require.NoError(t, p.Set(1, repl))
	got, err = p.Get(1)
	require.NoError(t, err)
	assert.True(t, got.Transparent)
	assert.Equal(t, red, got.Bitmap.RGBAAt(0, 0))
	got, err = p.Get(3)
	require.NoError(t, err)
	assert.Equal(t, green, got.Bitmap.RGBAAt(0, 0), "other ids keep their images")
	got, err = p.Get(5)
	require.NoError(t, err)
	assert.Equal(t, img.Bitmap.Pix, got.Bitmap.Pix)
	//
	assert.Equal(t, core.EMISSING, core.Code(p.Set(9, repl)))
	assert.Equal(t, core.EINVALID, core.Code(p.Set(2, nil)))
	//
	require.NoError(t, p.Set(4, repl), "JPEG images may be replaced")
	got, err = p.Get(4)
	require.NoError(t, err)
	assert.Equal(t, red, got.Bitmap.RGBAAt(0, 0))
}

func TestOutOfResources(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.images")
	defer teardown()
	//
	budget := &core.BudgetAllocator{Remaining: 10}
	p, err := NewFromStream(sampleStream(), record.Env{Alloc: budget}, Palette{black, white})
	require.NoError(t, err)
	before := append([]byte(nil), p.Stream()...)
	_, err = p.New(NewImage(4, 4, false))
	assert.Equal(t, core.ERESOURCES, core.Code(err))
	assert.Equal(t, before, p.Stream())
}

func TestPackageRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.images")
	defer teardown()
	//
	p := samplePackage(t)
	data, err := p.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, p.Length(), len(data))
	q, err := Parse(data, record.Env{})
	require.NoError(t, err)
	assert.Equal(t, p.Stream(), q.Stream())
	require.Len(t, q.Palettes(), 2)
	assert.Equal(t, Palette{red, green, blue}, q.Palettes()[1])
	img, err := q.Get(3)
	require.NoError(t, err)
	assert.Equal(t, blue, img.Bitmap.RGBAAt(1, 0))
	//
	_, err = Parse(data, record.Env{})
	require.NoError(t, err)
	data[3] = record.PackageFonts
	_, err = Parse(data, record.Env{})
	assert.Equal(t, core.EINVALID, core.Code(err))
}
