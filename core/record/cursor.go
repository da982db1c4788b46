package record

import (
	"github.com/npillmayer/hiidb/core"
)

// Record types shared by all stream kinds.
const (
	TypeEnd       uint8 = 0x00
	TypeDuplicate uint8 = 0x20
	TypeSkip2     uint8 = 0x21
	TypeSkip1     uint8 = 0x22
	TypeExt1      uint8 = 0x30
	TypeExt2      uint8 = 0x31
	TypeExt4      uint8 = 0x32
)

// DefaultMaxHops is the default bound for resolving chains of duplicate records.
const DefaultMaxHops = 64

// Kind classifies records.
type Kind uint8

const (
	Data Kind = iota
	Extension
	Skip
	Duplicate
	End
)

func (k Kind) String() string {
	switch k {
	case Data:
		return "data"
	case Extension:
		return "extension"
	case Skip:
		return "skip"
	case Duplicate:
		return "duplicate"
	case End:
		return "end"
	}
	return "unknown"
}

// Record describes a single record of a stream.
type Record struct {
	Type   uint8  // record type byte
	Kind   Kind   // class of the record
	Offset int    // start of the record within the stream
	Length int    // total length of the record in bytes
	Header int    // number of bytes before the payload
	IDs    int    // number of ids the record covers
	Count  int    // number of resources held by a data record
	Sub    uint8  // sub-type of extension records
	Target uint16 // referenced id of a duplicate record
}

// Limit returns the offset of the first byte after r.
func (r Record) Limit() int {
	return r.Offset + r.Length
}

// Payload returns the bytes of r following its header.
func (r Record) Payload(s Segment) Segment {
	return s[r.Offset+r.Header : r.Limit()]
}

// Bytes returns all bytes of r.
func (r Record) Bytes(s Segment) Segment {
	return s[r.Offset:r.Limit()]
}

// Grammar measures the data records of one kind of stream.
type Grammar interface {
	// Measure is called for every record type which is not one of the shared
	// control types. id is the first id the record will cover. Unknown types
	// must be reported as ECORRUPT.
	Measure(s Segment, offset int, typ uint8, id uint32) (Record, error)
	// ExtensionIDs returns the number of ids covered by an extension record.
	ExtensionIDs() int
}

// Cursor walks a record stream from front to end.
type Cursor struct {
	stream  Segment
	grammar Grammar
	pos     int
	id      uint32
	rec     Record
	started bool
	done    bool
	err     error
}

// NewCursor creates a cursor for stream, positioned before the first record.
func NewCursor(stream []byte, g Grammar) *Cursor {
	c := &Cursor{stream: stream, grammar: g}
	c.Reset()
	return c
}

// Reset re-positions the cursor before the first record.
func (c *Cursor) Reset() {
	c.pos, c.id = 0, 1
	c.rec = Record{}
	c.started, c.done, c.err = false, false, nil
}

// Next advances to the next record. The end record is reported as a regular
// record; after it, or after an error, Next returns false.
func (c *Cursor) Next() bool {
	if c.done {
		return false
	}
	if c.started {
		c.pos = c.rec.Limit()
		c.id += uint32(c.rec.IDs)
	}
	c.started = true
	rec, err := c.measure(c.pos)
	if err != nil {
		tracer().Errorf("record stream: %v", err)
		c.err, c.done = err, true
		return false
	}
	c.rec = rec
	if rec.Kind == End {
		c.done = true
	}
	return true
}

// Record returns the current record.
func (c *Cursor) Record() Record {
	return c.rec
}

// ID returns the first id covered by the current record.
func (c *Cursor) ID() uint32 {
	return c.id
}

// Err returns the error which stopped the cursor, if any.
func (c *Cursor) Err() error {
	return c.err
}

// Stream returns the underlying stream.
func (c *Cursor) Stream() Segment {
	return c.stream
}

func (c *Cursor) measure(offset int) (Record, error) {
	s := c.stream
	typ, err := s.U8(offset)
	if err != nil {
		return Record{}, core.WrapError(err, core.ECORRUPT, "stream ends at offset %d without end record", offset)
	}
	rec := Record{Type: typ, Offset: offset}
	switch typ {
	case TypeEnd:
		rec.Kind, rec.Length, rec.Header = End, 1, 1
	case TypeDuplicate:
		rec.Kind, rec.Length, rec.Header, rec.IDs = Duplicate, 3, 3, 1
		rec.Target, err = s.U16(offset + 1)
	case TypeSkip1:
		var n uint8
		n, err = s.U8(offset + 1)
		rec.Kind, rec.Length, rec.Header, rec.IDs = Skip, 2, 2, int(n)
	case TypeSkip2:
		var n uint16
		n, err = s.U16(offset + 1)
		rec.Kind, rec.Length, rec.Header, rec.IDs = Skip, 3, 3, int(n)
	case TypeExt1, TypeExt2, TypeExt4:
		rec, err = c.measureExtension(rec)
	default:
		rec, err = c.grammar.Measure(s, offset, typ, c.id)
	}
	if err != nil {
		return Record{}, err
	}
	if rec.Length <= 0 || rec.Limit() > len(s) {
		return Record{}, core.Error(core.ECORRUPT, "record type 0x%02x at offset %d has length %d, exceeds stream of size %d",
			typ, offset, rec.Length, len(s))
	}
	return rec, nil
}

func (c *Cursor) measureExtension(rec Record) (Record, error) {
	s := c.stream
	var err error
	if rec.Sub, err = s.U8(rec.Offset + 1); err != nil {
		return rec, err
	}
	rec.Kind, rec.IDs = Extension, c.grammar.ExtensionIDs()
	switch rec.Type {
	case TypeExt1:
		var n uint8
		n, err = s.U8(rec.Offset + 2)
		rec.Length, rec.Header = int(n), 3
	case TypeExt2:
		var n uint16
		n, err = s.U16(rec.Offset + 2)
		rec.Length, rec.Header = int(n), 4
	case TypeExt4:
		var n uint32
		n, err = s.U32(rec.Offset + 2)
		rec.Length, rec.Header = int(n), 6
	}
	if err == nil && rec.Length < rec.Header {
		err = core.Error(core.ECORRUPT, "extension record at offset %d shorter than its header", rec.Offset)
	}
	return rec, err
}

// --- Seeking ---------------------------------------------------------------

// Hit is a record which covers a requested id.
type Hit struct {
	Record
	ID    uint32 // the id found, after resolving duplicates
	Index int    // index of the id within a run record
}

// Seek locates the record covering id. Duplicate records are resolved by
// restarting the walk with the referenced id; a duplicate referencing itself
// and chains longer than maxHops are reported as ECORRUPT. Ids in skipped
// ranges or beyond the last record are reported as EMISSING.
func Seek(stream []byte, g Grammar, id uint32, maxHops int) (Hit, error) {
	if id == 0 {
		return Hit{}, core.Error(core.EINVALID, "id 0 does not denote a resource")
	}
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	target, hops := id, 0
	c := NewCursor(stream, g)
	for c.Next() {
		rec, first := c.Record(), c.ID()
		if rec.Kind == End || target < first {
			break
		}
		if target >= first+uint32(rec.IDs) {
			continue
		}
		switch rec.Kind {
		case Skip:
			return Hit{}, core.Error(core.EMISSING, "id %d lies in a skipped range", target)
		case Duplicate:
			if uint32(rec.Target) == target {
				return Hit{}, core.Error(core.ECORRUPT, "duplicate record for id %d references itself", target)
			}
			if hops++; hops > maxHops {
				return Hit{}, core.Error(core.ECORRUPT, "duplicate chain for id %d exceeds %d hops", id, maxHops)
			}
			tracer().Debugf("id %d is a duplicate of id %d", target, rec.Target)
			target = uint32(rec.Target)
			c.Reset()
			continue
		}
		return Hit{Record: rec, ID: target, Index: int(target - first)}, nil
	}
	if c.Err() != nil {
		return Hit{}, c.Err()
	}
	return Hit{}, core.Error(core.EMISSING, "no record for id %d", target)
}

// Terminus returns the end record of stream together with the id following
// the last record, i.e. the id the next appended resource will receive.
func Terminus(stream []byte, g Grammar) (Record, uint32, error) {
	c := NewCursor(stream, g)
	for c.Next() {
		if c.Record().Kind == End {
			return c.Record(), c.ID(), nil
		}
	}
	return Record{}, 0, c.Err()
}

// Walk calls fn for every record of stream, including the end record.
// Walking stops at the first error returned by fn.
func Walk(stream []byte, g Grammar, fn func(id uint32, r Record) error) error {
	c := NewCursor(stream, g)
	for c.Next() {
		if err := fn(c.ID(), c.Record()); err != nil {
			return err
		}
	}
	return c.Err()
}
