package record

import (
	"encoding/binary"

	"github.com/npillmayer/hiidb/core"
)

// Reading bytes from a stream's binary representation

// Segment is a segment of little-endian byte data. All reads are bounds-checked
// and report a corrupt stream instead of panicking.
type Segment []byte

func errBounds(offset, n, size int) error {
	return core.Error(core.ECORRUPT, "read of %d bytes at offset %d exceeds stream of size %d",
		n, offset, size)
}

// Size returns the size of the segment in bytes.
func (s Segment) Size() int {
	return len(s)
}

// View returns n bytes at the given offset.
// The byte segment returned is a sub-slice of s.
func (s Segment) View(offset, n int) (Segment, error) {
	if offset < 0 || n < 0 || offset+n > len(s) {
		return nil, errBounds(offset, n, len(s))
	}
	return s[offset : offset+n], nil
}

// U8 returns the byte at offset i.
func (s Segment) U8(i int) (uint8, error) {
	if i < 0 || i >= len(s) {
		return 0, errBounds(i, 1, len(s))
	}
	return s[i], nil
}

// U16 returns the uint16 at offset i.
func (s Segment) U16(i int) (uint16, error) {
	b, err := s.View(i, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// I16 returns the int16 at offset i.
func (s Segment) I16(i int) (int16, error) {
	n, err := s.U16(i)
	return int16(n), err
}

// U24 returns the 24-bit unsigned integer at offset i.
func (s Segment) U24(i int) (uint32, error) {
	b, err := s.View(i, 3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
}

// U32 returns the uint32 at offset i.
func (s Segment) U32(i int) (uint32, error) {
	b, err := s.View(i, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// CString8 returns the length in bytes, including the terminating zero,
// of the 8-bit string starting at offset i.
func (s Segment) CString8(i int) (int, error) {
	for j := i; j >= 0 && j < len(s); j++ {
		if s[j] == 0 {
			return j - i + 1, nil
		}
	}
	return 0, core.Error(core.ECORRUPT, "unterminated narrow string at offset %d", i)
}

// CString16 returns the length in bytes, including the terminating zero
// character, of the 16-bit string starting at offset i.
func (s Segment) CString16(i int) (int, error) {
	for j := i; j >= 0 && j+1 < len(s); j += 2 {
		if s[j] == 0 && s[j+1] == 0 {
			return j - i + 2, nil
		}
	}
	return 0, core.Error(core.ECORRUPT, "unterminated UCS-2 string at offset %d", i)
}

// --- Writing ---------------------------------------------------------------

// Writer emits little-endian data into a pre-allocated buffer.
// Writes beyond the buffer's capacity are dropped and remembered as an error.
type Writer struct {
	buf []byte
	pos int
	err error
}

// NewWriter creates a writer filling buf from its start.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

func (w *Writer) reserve(n int) []byte {
	if w.err != nil {
		return nil
	}
	if w.pos+n > len(w.buf) {
		w.err = core.Error(core.EINTERNAL, "record writer overflow: %d+%d > %d", w.pos, n, len(w.buf))
		return nil
	}
	b := w.buf[w.pos : w.pos+n]
	w.pos += n
	return b
}

// U8 writes a byte.
func (w *Writer) U8(v uint8) *Writer {
	if b := w.reserve(1); b != nil {
		b[0] = v
	}
	return w
}

// U16 writes a uint16.
func (w *Writer) U16(v uint16) *Writer {
	if b := w.reserve(2); b != nil {
		binary.LittleEndian.PutUint16(b, v)
	}
	return w
}

// U24 writes the lower 24 bits of v.
func (w *Writer) U24(v uint32) *Writer {
	if b := w.reserve(3); b != nil {
		b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
	}
	return w
}

// U32 writes a uint32.
func (w *Writer) U32(v uint32) *Writer {
	if b := w.reserve(4); b != nil {
		binary.LittleEndian.PutUint32(b, v)
	}
	return w
}

// Bytes writes raw bytes.
func (w *Writer) Bytes(p []byte) *Writer {
	if b := w.reserve(len(p)); b != nil {
		copy(b, p)
	}
	return w
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.pos
}

// Err returns the first overflow error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Splice builds a fresh stream from stream, with bytes [from,to) replaced by
// insert. stream itself is never modified, so a failed allocation leaves the
// caller's buffer untouched.
func Splice(a core.Allocator, stream []byte, from, to int, insert []byte) ([]byte, error) {
	if from < 0 || to < from || to > len(stream) {
		return nil, core.Error(core.EINTERNAL, "invalid splice range [%d,%d) of %d bytes", from, to, len(stream))
	}
	buf, err := core.Alloc(a, len(stream)-(to-from)+len(insert))
	if err != nil {
		return nil, err
	}
	w := NewWriter(buf)
	w.Bytes(stream[:from]).Bytes(insert).Bytes(stream[to:])
	if w.Err() != nil {
		return nil, w.Err()
	}
	tracer().Debugf("splice [%d,%d) <- %d bytes, stream size %d -> %d", from, to, len(insert),
		len(stream), len(buf))
	return buf, nil
}
