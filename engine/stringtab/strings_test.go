package stringtab

import (
	"testing"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/core/font/fontregistry"
	"github.com/npillmayer/hiidb/core/record"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePackage(t *testing.T) *Package {
	p, err := New("en-US", 1, fontregistry.NewRegistry(), record.Env{})
	require.NoError(t, err)
	p.stream = []byte{
		BlockStringSCSU, 'H', 'i', 0, // 1
		BlockStringsUCS2, 2, 0, 'a', 0, 0, 0, 'b', 0, 'c', 0, 0, 0, // 2, 3
		record.TypeSkip1, 2, // 4, 5
		record.TypeDuplicate, 2, 0, // 6 -> 2
		BlockEnd,
	}
	require.NoError(t, p.refreshNextID())
	return p
}

func TestGetString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.strings")
	defer teardown()
	//
	p := samplePackage(t)
	assert.Equal(t, uint32(7), p.NextID())
	for id, expected := range map[uint32]string{1: "Hi", 2: "a", 3: "bc", 6: "a"} {
		text, fe, err := p.Get(id)
		require.NoError(t, err, "id %d", id)
		assert.Equal(t, expected, text, "id %d", id)
		assert.Nil(t, fe)
	}
	_, _, err := p.Get(4)
	assert.Equal(t, core.EMISSING, core.Code(err))
	_, _, err = p.Get(7)
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestSetKeepsIds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.strings")
	defer teardown()
	//
	p := samplePackage(t)
	require.NoError(t, p.Set(1, "Hello, world", nil))
	require.NoError(t, p.Set(3, "BCD", nil))
	for id, expected := range map[uint32]string{1: "Hello, world", 2: "a", 3: "BCD", 6: "a"} {
		text, _, err := p.Get(id)
		require.NoError(t, err, "id %d", id)
		assert.Equal(t, expected, text, "id %d", id)
	}
	assert.Equal(t, BlockStringUCS2, p.stream[0], "narrow single string becomes native")
	assert.Equal(t, uint32(7), p.NextID())
}

func TestSetWideTextInNarrowRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.strings")
	defer teardown()
	//
	p, err := New("el", 1, fontregistry.NewRegistry(), record.Env{})
	require.NoError(t, err)
	p.stream = []byte{
		BlockStringsSCSU, 3, 0, 'a', 'b', 0, 'c', 'd', 0, 'e', 'f', 0, // 1, 2, 3
		BlockEnd,
	}
	require.NoError(t, p.refreshNextID())
	require.NoError(t, p.Set(2, "Ωx", nil))
	assert.Equal(t, []byte{
		BlockStringsSCSU, 1, 0, 'a', 'b', 0,
		BlockStringUCS2, 0xa9, 0x03, 'x', 0, 0, 0,
		BlockStringsSCSU, 1, 0, 'e', 'f', 0,
		BlockEnd,
	}, p.stream)
	require.NoError(t, p.Set(1, "π", nil))
	for id, expected := range map[uint32]string{1: "π", 2: "Ωx", 3: "ef"} {
		text, _, err := p.Get(id)
		require.NoError(t, err, "id %d", id)
		assert.Equal(t, expected, text, "id %d", id)
	}
	assert.Equal(t, uint32(4), p.NextID())
	require.NoError(t, p.Set(3, "ü", nil))
	assert.Equal(t, BlockStringsSCSU, p.stream[len(p.stream)-6], "narrow text stays in its run")
}

func TestSetFontOnPlainString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.strings")
	defer teardown()
	//
	p := samplePackage(t)
	e, _ := p.registry.Register(font.Info{Name: "Arial", Size: 12})
	err := p.Set(1, "x", e)
	assert.Equal(t, core.EUNSUPPORTED, core.Code(err))
}

func TestSetOutOfResources(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.strings")
	defer teardown()
	//
	p := samplePackage(t)
	before := append([]byte(nil), p.stream...)
	p.env.Alloc = &core.BudgetAllocator{Remaining: 8}
	err := p.Set(1, "a rather long replacement text", nil)
	assert.Equal(t, core.ERESOURCES, core.Code(err))
	assert.Equal(t, before, p.stream)
}

func TestAppendWithFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.strings")
	defer teardown()
	//
	reg := fontregistry.NewRegistry()
	p, err := New("de", 1, reg, record.Env{})
	require.NoError(t, err)
	e, _ := reg.Register(font.Info{Name: "Arial", Size: 12, Style: font.StyleBold})
	id1, err := p.Append("eins", e)
	require.NoError(t, err)
	id2, err := p.Append("zwei", e)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id1)
	assert.Equal(t, uint32(2), id2)
	require.Len(t, p.Fonts(), 1)
	text, fe, err := p.Get(id2)
	require.NoError(t, err)
	assert.Equal(t, "zwei", text)
	assert.Same(t, e, fe)
	//
	last, err := p.DiscoverFonts()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), last)
	assert.Len(t, p.Fonts(), 1, "font discovery must find a single declaration")
	assert.Same(t, e, p.Fonts()[0].Entry)
}

func TestChangeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.strings")
	defer teardown()
	//
	reg := fontregistry.NewRegistry()
	p, _ := New("de", 1, reg, record.Env{})
	a, _ := reg.Register(font.Info{Name: "A", Size: 10})
	b, _ := reg.Register(font.Info{Name: "B", Size: 10})
	id, err := p.Append("text", a)
	require.NoError(t, err)
	require.NoError(t, p.Set(id, "other", b))
	assert.Equal(t, uint8(record.TypeExt2), p.stream[0], "new font is declared at the front")
	text, fe, err := p.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "other", text)
	assert.Same(t, b, fe)
	assert.Len(t, p.Fonts(), 2)
}

func TestMarshalParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.strings")
	defer teardown()
	//
	reg := fontregistry.NewRegistry()
	p, _ := New("fr-FR", 1, reg, record.Env{})
	e, _ := reg.Register(font.Info{Name: "Serif", Size: 19})
	_, err := p.Append("Français", nil)
	require.NoError(t, err)
	_, err = p.Append("Bonjour", e)
	require.NoError(t, err)
	data, err := p.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, p.Length(), len(data))
	//
	q, err := Parse(data, reg, record.Env{})
	require.NoError(t, err)
	assert.Equal(t, "fr-FR", q.Language)
	assert.Equal(t, uint32(3), q.NextID())
	text, fe, err := q.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", text)
	assert.Same(t, e, fe)
	text, _, err = q.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Français", text)
}

func TestCorruptStringStream(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.strings")
	defer teardown()
	//
	p := samplePackage(t)
	p.stream = []byte{BlockStringSCSU, 'a', 0, 0x5a, 1, 2, BlockEnd}
	_, _, err := p.Get(2)
	assert.Equal(t, core.ECORRUPT, core.Code(err))
}
