package stringtab

import (
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/core/record"
)

// location is a string found in the stream.
type location struct {
	record.Hit
	from, to int // byte span of the text, including its terminator
}

func (loc location) narrow() bool {
	return isNarrow(loc.Type)
}

func (loc location) fontID(s record.Segment) (uint8, bool) {
	if !hasFont(loc.Type) {
		return 0, false
	}
	return s[loc.Offset+1], true
}

func (p *Package) locate(id uint32) (location, error) {
	hit, err := record.Seek(p.stream, grammar{}, id, p.env.MaxHops)
	if err != nil {
		return location{}, err
	}
	if hit.Kind != record.Data {
		return location{}, core.Error(core.EUNSUPPORTED, "string id %d denotes a %s record", id, hit.Kind)
	}
	s := record.Segment(p.stream)
	pos := hit.Offset + hit.Header
	for i := 0; ; i++ {
		n, err := strlen(s, pos, isNarrow(hit.Type))
		if err != nil {
			return location{}, err
		}
		if i == hit.Index {
			return location{Hit: hit, from: pos, to: pos + n}, nil
		}
		pos += n
	}
}

// Get returns the string with a given id, together with its font, if any.
func (p *Package) Get(id uint32) (string, *font.Entry, error) {
	loc, err := p.locate(id)
	if err != nil {
		return "", nil, err
	}
	var text string
	if loc.narrow() {
		text, err = record.DecodeNarrow(p.stream[loc.from:loc.to])
	} else {
		text, err = record.DecodeUCS2(p.stream[loc.from:loc.to])
	}
	if err != nil {
		return "", nil, err
	}
	var fe *font.Entry
	if fid, ok := loc.fontID(p.stream); ok {
		if fe = p.FontOf(fid); fe == nil {
			tracer().Errorf("string %d refers to undeclared font %d", id, fid)
		}
	}
	return text, fe, nil
}

// Set replaces the text of string id. If fe is non-nil, the string's font is
// changed to fe; this is only possible for strings which carry a font.
// The stream is rebuilt; other strings keep their ids.
func (p *Package) Set(id uint32, text string, fe *font.Entry) error {
	loc, err := p.locate(id)
	if err != nil {
		return err
	}
	s := record.Segment(p.stream)
	fid, withFont := loc.fontID(s)
	var decl []byte
	var newFont bool
	if fe != nil {
		if !withFont {
			return core.Error(core.EUNSUPPORTED, "string %d has no font reference to change", id)
		}
		if fid, newFont, err = p.localFont(fe, false); err != nil {
			return err
		}
		if newFont {
			if decl, err = p.encodeFontDecl(fid, fe.Info); err != nil {
				return err
			}
		}
	}
	rec, err := p.rebuild(loc, text, fid)
	if err != nil {
		return err
	}
	stream, err := record.Splice(p.env.Alloc, p.stream, loc.Offset, loc.Limit(), rec)
	if err != nil {
		return err
	}
	if decl != nil {
		if stream, err = record.Splice(p.env.Alloc, stream, 0, 0, decl); err != nil {
			return err
		}
		p.adopt(fid, fe)
	}
	p.replace(stream)
	tracer().Infof("string package [%s] updated string %d", p.Language, id)
	return nil
}

// rebuild creates the replacement for the record at loc. A single string
// becomes a native single-string record, a run keeps its type with only the
// located string replaced.
func (p *Package) rebuild(loc location, text string, fid uint8) ([]byte, error) {
	s := record.Segment(p.stream)
	if loc.Count == 1 && !isRun(loc.Type) {
		return p.encodeString(text, fid, hasFont(loc.Type))
	}
	var enc []byte
	var err error
	if loc.narrow() {
		if enc, err = record.EncodeNarrow(text); core.Code(err) == core.EINVALID {
			return p.splitRun(loc, text, fid)
		}
	} else {
		enc, err = record.EncodeUCS2(text)
	}
	if err != nil {
		return nil, err
	}
	before := loc.from - loc.Offset
	after := loc.Limit() - loc.to
	buf, err := core.Alloc(p.env.Alloc, before+len(enc)+after)
	if err != nil {
		return nil, err
	}
	w := record.NewWriter(buf)
	w.Bytes(s[loc.Offset:loc.from]).Bytes(enc).Bytes(s[loc.to:loc.Limit()])
	if hasFont(loc.Type) {
		buf[1] = fid
	}
	return buf, w.Err()
}

// splitRun replaces a string of a narrow run which cannot be stored as
// narrow text. The run is split into the strings before it, a native
// single-string record and the strings after it.
func (p *Package) splitRun(loc location, text string, fid uint8) ([]byte, error) {
	s := record.Segment(p.stream)
	mid, err := p.encodeString(text, fid, hasFont(loc.Type))
	if err != nil {
		return nil, err
	}
	first := loc.Offset + loc.Header
	head, tail := loc.Index, loc.Count-loc.Index-1
	n := len(mid)
	if head > 0 {
		n += loc.Header + loc.from - first
	}
	if tail > 0 {
		n += loc.Header + loc.Limit() - loc.to
	}
	buf, err := core.Alloc(p.env.Alloc, n)
	if err != nil {
		return nil, err
	}
	w := record.NewWriter(buf)
	if head > 0 {
		runHeader(w, s, loc, head).Bytes(s[first:loc.from])
	}
	w.Bytes(mid)
	if tail > 0 {
		runHeader(w, s, loc, tail).Bytes(s[loc.to:loc.Limit()])
	}
	tracer().Debugf("narrow run at offset %d split around string %d", loc.Offset, loc.ID)
	return buf, w.Err()
}

// runHeader writes the header of a run of count strings, of the same type
// and font as the run at loc.
func runHeader(w *record.Writer, s record.Segment, loc location, count int) *record.Writer {
	w.U8(loc.Type)
	if hasFont(loc.Type) {
		w.U8(s[loc.Offset+1])
	}
	return w.U16(uint16(count))
}

// encodeString creates a single-string record in native encoding.
func (p *Package) encodeString(text string, fid uint8, withFont bool) ([]byte, error) {
	enc, err := record.EncodeUCS2(text)
	if err != nil {
		return nil, err
	}
	typ, hdr := BlockStringUCS2, 1
	if withFont {
		typ, hdr = BlockStringUCS2Font, 2
	}
	buf, err := core.Alloc(p.env.Alloc, hdr+len(enc))
	if err != nil {
		return nil, err
	}
	w := record.NewWriter(buf).U8(typ)
	if withFont {
		w.U8(fid)
	}
	w.Bytes(enc)
	return buf, w.Err()
}

// Append adds a new string in front of the end record and returns its id.
// If fe is non-nil, the string refers to it, declaring a new local font
// reference if the package does not yet refer to fe.
func (p *Package) Append(text string, fe *font.Entry) (uint32, error) {
	var insert []byte
	var fid uint8
	var newFont bool
	var err error
	if fe != nil {
		if fid, newFont, err = p.localFont(fe, false); err != nil {
			return 0, err
		}
		if newFont {
			if insert, err = p.encodeFontDecl(fid, fe.Info); err != nil {
				return 0, err
			}
		}
	}
	rec, err := p.encodeString(text, fid, fe != nil)
	if err != nil {
		return 0, err
	}
	id, err := p.insert(append(insert, rec...))
	if err != nil {
		return 0, err
	}
	if newFont {
		p.adopt(fid, fe)
	}
	tracer().Infof("string package [%s] appended string %d", p.Language, id)
	return id, nil
}

// AppendBlank reserves the next id with an empty string and returns it.
func (p *Package) AppendBlank() (uint32, error) {
	return p.insert([]byte{BlockStringUCS2, 0, 0})
}

func (p *Package) insert(recs []byte) (uint32, error) {
	end, next, err := record.Terminus(p.stream, grammar{})
	if err != nil {
		return 0, err
	}
	stream, err := record.Splice(p.env.Alloc, p.stream, end.Offset, end.Offset, recs)
	if err != nil {
		return 0, err
	}
	p.replace(stream)
	if err = p.refreshNextID(); err != nil {
		return 0, err
	}
	return next, nil
}
