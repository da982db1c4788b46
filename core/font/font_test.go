package font

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestInfoBytes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.font")
	defer teardown()
	//
	fi := Info{Name: "Ab", Size: 12, Style: StyleBold}
	assert.Equal(t, []byte{1, 0, 0, 0, 12, 0, 'A', 0, 'b', 0, 0, 0}, fi.Bytes())
	assert.True(t, fi.Equal(Info{Name: "Ab", Size: 12, Style: StyleBold}))
	assert.False(t, fi.Equal(Info{Name: "ab", Size: 12, Style: StyleBold}))
}

func TestStyleCovers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.font")
	defer teardown()
	//
	bi := StyleBold | StyleItalic
	assert.True(t, bi.Covers(StyleBold))
	assert.False(t, StyleBold.Covers(bi))
	assert.Equal(t, "bold|italic", bi.String())
}

func TestSystemDefault(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.font")
	defer teardown()
	//
	di := SystemDefault("sysdefault", 0x1f)
	assert.Equal(t, SystemColors[15], di.Foreground)
	assert.Equal(t, SystemColors[1], di.Background)
	assert.Equal(t, uint16(SystemFontSize), di.Info.Size)
}
