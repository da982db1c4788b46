package record

import (
	"testing"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUCS2Text(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.record")
	defer teardown()
	//
	b, err := EncodeUCS2("Aé€")
	require.NoError(t, err)
	assert.Equal(t, []byte{'A', 0, 0xe9, 0, 0xac, 0x20, 0, 0}, b)
	s, err := DecodeUCS2(b)
	require.NoError(t, err)
	assert.Equal(t, "Aé€", s)
	_, err = DecodeUCS2([]byte{'A', 0, 'B'})
	assert.Equal(t, core.ECORRUPT, core.Code(err))
}

func TestNarrowText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.record")
	defer teardown()
	//
	b, err := EncodeNarrow("Grüße")
	require.NoError(t, err)
	assert.Equal(t, []byte{'G', 'r', 0xfc, 0xdf, 'e', 0}, b)
	s, err := DecodeNarrow(b)
	require.NoError(t, err)
	assert.Equal(t, "Grüße", s)
	_, err = EncodeNarrow("€")
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestPackageHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.record")
	defer teardown()
	//
	buf := make([]byte, 6)
	WritePackageHeader(NewWriter(buf), 6, PackageImages)
	assert.Equal(t, []byte{6, 0, 0, PackageImages, 0, 0}, buf)
	n, err := ReadPackageHeader(buf, PackageImages)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	_, err = ReadPackageHeader(buf, PackageFonts)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = ReadPackageHeader(buf[:5], PackageImages)
	assert.Equal(t, core.ECORRUPT, core.Code(err))
}
