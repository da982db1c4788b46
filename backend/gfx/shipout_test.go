package gfx

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testCanvas() *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := 3; i < len(canvas.Pix); i += 4 {
		canvas.Pix[i] = 0xff
	}
	canvas.SetRGBA(1, 1, color.RGBA{0xff, 0x80, 0x00, 0xff})
	canvas.SetRGBA(3, 2, color.RGBA{0xff, 0xff, 0xff, 0xff})
	return canvas
}

func TestEncodeBMP(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.gfx")
	defer teardown()
	//
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testCanvas(), BMP))
	img, err := bmp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, []uint32{0xffff, 0x8080, 0}, []uint32{r, g, b})
}

func TestEncodePNG(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.gfx")
	defer teardown()
	//
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testCanvas(), PNG))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, color.RGBAModel.Convert(img.At(3, 2)), color.RGBA{0xff, 0xff, 0xff, 0xff})
}

func TestDump(t *testing.T) {
	assert.Equal(t, "....\n.#..\n...#\n", Dump(testCanvas(), nil))
	assert.Equal(t, "", Dump(image.NewRGBA(image.Rectangle{}), nil))
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testCanvas(), Text))
	assert.Equal(t, "....\n.#..\n...#\n", buf.String())
}

func TestShipout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.gfx")
	defer teardown()
	//
	dir := t.TempDir()
	require.NoError(t, Shipout(filepath.Join(dir, "canvas.bmp"), testCanvas()))
	err := Shipout(filepath.Join(dir, "canvas.gif"), testCanvas())
	assert.Equal(t, core.EUNSUPPORTED, core.Code(err))
	f, err := FormatOf("x/Y.PNG")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
}
