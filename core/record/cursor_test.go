package record

import (
	"testing"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGrammar knows two data records:
// 0x10 = type, value:1   (one resource)
// 0x11 = type, n:1, n×value   (n resources)
type testGrammar struct{}

func (testGrammar) Measure(s Segment, offset int, typ uint8, id uint32) (Record, error) {
	switch typ {
	case 0x10:
		return Record{Type: typ, Kind: Data, Offset: offset, Length: 2, Header: 1, IDs: 1, Count: 1}, nil
	case 0x11:
		n, err := s.U8(offset + 1)
		if err != nil {
			return Record{}, err
		}
		return Record{Type: typ, Kind: Data, Offset: offset, Length: 2 + int(n), Header: 2,
			IDs: int(n), Count: int(n)}, nil
	}
	return Record{}, core.Error(core.ECORRUPT, "unknown type 0x%02x", typ)
}

func (testGrammar) ExtensionIDs() int { return 0 }

func TestCursorWalk(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.record")
	defer teardown()
	//
	stream := []byte{
		0x10, 'a', // id 1
		0x22, 3, // skip ids 2..4
		0x31, 0x40, 6, 0, 'x', 'y', // extension, no id
		0x11, 2, 'b', 'c', // ids 5, 6
		0x00,
	}
	var ids []uint32
	var kinds []Kind
	err := Walk(stream, testGrammar{}, func(id uint32, r Record) error {
		ids = append(ids, id)
		kinds = append(kinds, r.Kind)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 5, 5, 7}, ids)
	assert.Equal(t, []Kind{Data, Skip, Extension, Data, End}, kinds)
	end, next, err := Terminus(stream, testGrammar{})
	require.NoError(t, err)
	assert.Equal(t, uint32(7), next)
	assert.Equal(t, len(stream)-1, end.Offset)
}

func TestSeek(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.record")
	defer teardown()
	//
	stream := []byte{
		0x10, 'a', // 1
		0x11, 3, 'b', 'c', 'd', // 2, 3, 4
		0x20, 3, 0, // 5 -> 3
		0x21, 2, 0, // skip 6, 7
		0x10, 'e', // 8
		0x00,
	}
	hit, err := Seek(stream, testGrammar{}, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, hit.Index)
	assert.Equal(t, byte('d'), hit.Payload(stream)[hit.Index])
	hit, err = Seek(stream, testGrammar{}, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), hit.ID)
	assert.Equal(t, byte('c'), hit.Payload(stream)[hit.Index])
	hit, err = Seek(stream, testGrammar{}, 8, 0)
	require.NoError(t, err)
	assert.Equal(t, byte('e'), hit.Payload(stream)[0])
	_, err = Seek(stream, testGrammar{}, 6, 0)
	assert.Equal(t, core.EMISSING, core.Code(err))
	_, err = Seek(stream, testGrammar{}, 9, 0)
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestSeekSelfDuplicate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.record")
	defer teardown()
	//
	stream := []byte{0x10, 'a', 0x20, 2, 0, 0x00}
	_, err := Seek(stream, testGrammar{}, 2, 0)
	assert.Equal(t, core.ECORRUPT, core.Code(err))
}

func TestSeekDuplicateCycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.record")
	defer teardown()
	//
	stream := []byte{0x20, 2, 0, 0x20, 1, 0, 0x00} // 1 -> 2 -> 1
	_, err := Seek(stream, testGrammar{}, 1, 5)
	assert.Equal(t, core.ECORRUPT, core.Code(err))
}

func TestCorruptStream(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.record")
	defer teardown()
	//
	stream := []byte{0x10, 'a', 0x7f, 1, 2, 3, 0x00}
	_, err := Seek(stream, testGrammar{}, 2, 0)
	assert.Equal(t, core.ECORRUPT, core.Code(err), "unknown type must not be skipped")
	// missing end record
	_, _, err = Terminus([]byte{0x10, 'a'}, testGrammar{})
	assert.Equal(t, core.ECORRUPT, core.Code(err))
	// extension length beyond stream end
	_, _, err = Terminus([]byte{0x31, 0x40, 0xff, 0x00, 0x00}, testGrammar{})
	assert.Equal(t, core.ECORRUPT, core.Code(err))
}

func TestSplice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hii.record")
	defer teardown()
	//
	old := []byte{1, 2, 3, 4, 5}
	b, err := Splice(nil, old, 1, 3, []byte{9, 9, 9})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 9, 9, 9, 4, 5}, b)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, old)
	_, err = Splice(&core.BudgetAllocator{Remaining: 3}, old, 1, 3, []byte{9, 9, 9})
	assert.Equal(t, core.ERESOURCES, core.Code(err))
}
