package layout

import (
	"image"
	"image/color"
	"testing"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/config"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/engine/glyphtab"
	"github.com/npillmayer/hiidb/engine/imagetab"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type glyphMap map[rune]*glyphtab.Glyph

func (gm glyphMap) Glyph(r rune, _ *font.DisplayInfo) (*glyphtab.Glyph, error) {
	if g, ok := gm[r]; ok {
		return g, nil
	}
	return nil, core.Error(core.EMISSING, "no glyph for U+%04X", r)
}

// block creates a glyph with all pixels set, or none if blank.
func block(r rune, w, h int, blank bool) *glyphtab.Glyph {
	cell := glyphtab.Cell{Width: uint16(w), Height: uint16(h), OffsetY: int16(h - 2), AdvanceX: int16(w)}
	bitmap := make([]byte, cell.BitmapLen())
	if !blank {
		for i := range bitmap {
			bitmap[i] = 0xff
		}
	}
	return &glyphtab.Glyph{Rune: r, Bitmap: bitmap, Cell: cell, Attrs: glyphtab.Proportional}
}

func testGlyphs() glyphMap {
	gm := glyphMap{' ': block(' ', 8, 10, true), 0xFFFD: block(0xFFFD, 8, 10, false)}
	for _, r := range "abcd" {
		gm[r] = block(r, 8, 10, false)
	}
	gm['T'] = block('T', 8, 12, false)
	accent := block(0x0301, 8, 2, false)
	accent.Attrs |= glyphtab.NonSpacing
	gm[0x0301] = accent
	wide := block(0x4E00, 16, 10, false)
	wide.Attrs = glyphtab.Wide
	gm[0x4E00] = wide
	return gm
}

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	navy  = color.RGBA{0x00, 0x00, 0x98, 0xff}
	red   = color.RGBA{0xff, 0x00, 0x00, 0xff}
)

func testInfo() *font.DisplayInfo {
	return &font.DisplayInfo{
		Foreground: white,
		Background: navy,
		Info:       font.Info{Name: "Test", Size: 10},
	}
}

func testCanvas(t *testing.T, w, h int) *image.RGBA {
	canvas, err := NewCanvas(nil, w, h, red)
	require.NoError(t, err)
	return canvas
}

func TestWrapAtSpace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.layout")
	defer teardown()
	//
	c := New(testGlyphs(), config.Defaults(), nil)
	res, err := c.StringToImage(Clip|Wrap, "ab cd", testInfo(), testCanvas(t, 24, 40), 0, 0)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, RowInfo{StartIndex: 0, EndIndex: 1, LineHeight: 10, LineWidth: 16, BaselineOffset: 8}, res.Rows[0],
		"row ends before the space it breaks at")
	assert.Equal(t, 3, res.Rows[1].StartIndex, "second row starts with 'c'")
	assert.Equal(t, 4, res.Rows[1].EndIndex)
	assert.Equal(t, []int{0, 8, -1, 0, 8}, res.Columns)
	assert.Equal(t, white, res.Canvas.RGBAAt(0, 0))
	assert.Equal(t, red, res.Canvas.RGBAAt(16, 0), "trailing space not drawn")
	assert.Equal(t, white, res.Canvas.RGBAAt(15, 19))
	assert.Equal(t, red, res.Canvas.RGBAAt(16, 19), "rest of the canvas untouched")
}

func TestWrapWithoutBreakOpportunity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.layout")
	defer teardown()
	//
	flags := Clip | Wrap
	c := New(testGlyphs(), config.Defaults(), nil)
	res, err := c.StringToImage(flags, "abcd ab", testInfo(), testCanvas(t, 24, 40), 0, 0)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 2, res.Rows[0].EndIndex)
	assert.Equal(t, -1, res.Columns[3], "overflowing character dropped")
	assert.Equal(t, 4, res.Rows[1].StartIndex)
	assert.Equal(t, Clip|Wrap, flags)
}

func TestClipping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.layout")
	defer teardown()
	//
	c := New(testGlyphs(), config.Defaults(), nil)
	res, err := c.StringToImage(Clip, "abc", testInfo(), testCanvas(t, 20, 10), 0, 0)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 2, res.Rows[0].EndIndex, "partially visible character belongs to row")
	assert.Equal(t, 24, res.Rows[0].LineWidth)
	assert.Equal(t, white, res.Canvas.RGBAAt(19, 5))
	//
	res, err = c.StringToImage(Clip|ClipCleanX, "abc", testInfo(), testCanvas(t, 20, 10), 0, 0)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 1, res.Rows[0].EndIndex)
	assert.Equal(t, red, res.Canvas.RGBAAt(19, 5))
	assert.Equal(t, []int{0, 8, -1}, res.Columns)
	//
	res, err = c.StringToImage(Clip|ClipCleanX, "abc", testInfo(), testCanvas(t, 6, 10), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, res.Rows, "nothing fits")
}

func TestRowsAndCleanY(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.layout")
	defer teardown()
	//
	c := New(testGlyphs(), config.Defaults(), nil)
	res, err := c.StringToImage(Clip, "aT\r\nb", testInfo(), testCanvas(t, 40, 15), 0, 0)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 12, res.Rows[0].LineHeight, "row as tall as its tallest cell")
	assert.Equal(t, 10, res.Rows[0].BaselineOffset)
	assert.Equal(t, 4, res.Rows[1].StartIndex, "CR LF is a single break")
	assert.Equal(t, white, res.Canvas.RGBAAt(0, 14), "second row clipped")
	//
	res, err = c.StringToImage(Clip|ClipCleanY, "aT\r\nb", testInfo(), testCanvas(t, 40, 15), 0, 0)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, red, res.Canvas.RGBAAt(0, 14))
	//
	res, err = c.StringToImage(Clip|IgnoreLineBreak, "a\nb", testInfo(), testCanvas(t, 40, 15), 0, 0)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []int{0, -1, 8}, res.Columns)
}

func TestGlyphKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.layout")
	defer teardown()
	//
	c := New(testGlyphs(), config.Defaults(), nil)
	res, err := c.StringToImage(Clip, "a\u0301b\u4E00", testInfo(), testCanvas(t, 64, 20), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 8, 16}, res.Columns, "non-spacing glyph overlays preceding cell")
	assert.Equal(t, 32, res.Rows[0].LineWidth)
	assert.Equal(t, white, res.Canvas.RGBAAt(31, 9), "wide glyph drawn in two halves")
	assert.Equal(t, red, res.Canvas.RGBAAt(32, 9), "background ends with the row")
	//
	res, err = c.StringToImage(Clip|Transparent, "a b", testInfo(), testCanvas(t, 64, 20), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, red, res.Canvas.RGBAAt(10, 3), "transparent text keeps canvas pixels")
	assert.Equal(t, white, res.Canvas.RGBAAt(17, 3))
}

func TestMissingGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.layout")
	defer teardown()
	//
	gm := testGlyphs()
	c := New(gm, config.Defaults(), nil)
	res, err := c.StringToImage(Clip, "azb", testInfo(), testCanvas(t, 40, 10), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 8, 16}, res.Columns, "replacement glyph drawn")
	//
	res, err = c.StringToImage(Clip|IgnoreIfNoGlyph, "azb", testInfo(), testCanvas(t, 40, 10), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, -1, 8}, res.Columns)
	//
	delete(gm, 0xFFFD)
	_, err = c.StringToImage(Clip, "azb", testInfo(), testCanvas(t, 40, 10), 0, 0)
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestFlagValidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.layout")
	defer teardown()
	//
	c := New(testGlyphs(), config.Defaults(), nil)
	canvas := testCanvas(t, 40, 10)
	for _, f := range []Flags{ClipCleanX, ClipCleanY, Clip | Wrap | ClipCleanX} {
		_, err := c.StringToImage(f, "a", nil, canvas, 0, 0)
		assert.Equal(t, core.EINVALID, core.Code(err), "flags %s", f)
	}
	_, err := c.StringToImage(Clip, "a", nil, nil, 0, 0)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = c.StringToImage(Transparent, "a", nil, nil, 0, 0)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = c.StringToImage(DirectToScreen, "a", nil, canvas, 0, 0)
	assert.Equal(t, core.EUNSUPPORTED, core.Code(err))
	_, err = c.StringToImage(Clip, "a", nil, canvas, 40, 0)
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestDefaultCanvas(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.layout")
	defer teardown()
	//
	c := New(testGlyphs(), config.Defaults(), nil)
	res, err := c.StringToImage(Wrap, "ab", nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 600), res.Canvas.Bounds())
	fg, bg := font.DefaultAttribute.Colors()
	assert.Equal(t, fg, res.Canvas.RGBAAt(0, 0))
	assert.Equal(t, bg, res.Canvas.RGBAAt(100, 100))
	//
	c = New(testGlyphs(), config.Defaults(), &core.BudgetAllocator{Remaining: 1000})
	_, err = c.StringToImage(Wrap, "ab", nil, nil, 0, 0)
	assert.Equal(t, core.ERESOURCES, core.Code(err))
}

func TestDrawImage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.layout")
	defer teardown()
	//
	c := New(testGlyphs(), config.Defaults(), nil)
	img := imagetab.NewImage(4, 4, false)
	for i := 3; i < len(img.Bitmap.Pix); i += 4 {
		img.Bitmap.Pix[i] = 0xff
	}
	for i := 0; i < 4; i++ {
		img.Bitmap.SetRGBA(i, i, white)
	}
	canvas, err := c.DrawImage(DrawDefault, img, nil, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 5), canvas.Bounds())
	assert.Equal(t, white, canvas.RGBAAt(3, 2))
	_, bg := font.DefaultAttribute.Colors()
	assert.Equal(t, bg, canvas.RGBAAt(0, 0))
	//
	target := testCanvas(t, 4, 4)
	_, err = c.DrawImage(DrawForceTrans, img, target, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, white, target.RGBAAt(3, 3))
	assert.Equal(t, red, target.RGBAAt(3, 2), "black pixels are transparent")
	_, err = c.DrawImage(DrawClip, img, target, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{A: 0xff}, target.RGBAAt(3, 2))
	assert.Equal(t, red, target.RGBAAt(1, 1))
	//
	_, err = c.DrawImage(DrawForceTrans|DrawForceOpaque, img, target, 0, 0)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = c.DrawImage(DrawClip, img, nil, 0, 0)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = c.DrawImage(DrawForceTrans, img, nil, 0, 0)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = c.DrawImage(DrawToScreen, img, target, 0, 0)
	assert.Equal(t, core.EUNSUPPORTED, core.Code(err))
}

func TestBreakClasses(t *testing.T) {
	assert.Equal(t, hardBreak, classify('\n'))
	assert.Equal(t, hardBreak, classify(0x2029))
	assert.Equal(t, breakAfter, classify(' '))
	assert.Equal(t, breakAfter, classify(0x200B))
	assert.Equal(t, ordinary, classify(0x2007), "figure space does not break")
	assert.Equal(t, breakAround, classify(0x2014))
	assert.Equal(t, ordinary, classify('-'))
}
