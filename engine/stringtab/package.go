package stringtab

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font/fontregistry"
	"github.com/npillmayer/hiidb/core/record"
)

// Package header layout: common header, header size:4, string info offset:4,
// language window:32, language name id:2, followed by the null-terminated
// ASCII language.
const (
	headerFixed        = record.PackageHeaderSize + 4 + 4 + 32 + 2
	languageNameOffset = headerFixed - 2
)

// Package is a string package for one language.
type Package struct {
	Language     string // language tag, may list secondary languages after ';'
	LanguageName uint16 // id of the string holding the language's name
	stream       []byte
	fonts        *linkedhashmap.Map // local font id (uint8) -> *font.Entry
	nextFontID   int
	nextID       uint32 // id the next appended string receives
	registry     *fontregistry.Registry
	env          record.Env
}

// New creates an empty string package for a language.
func New(lang string, langName uint16, reg *fontregistry.Registry, env record.Env) (*Package, error) {
	stream, err := core.Alloc(env.Alloc, 1)
	if err != nil {
		return nil, err
	}
	stream[0] = BlockEnd
	return &Package{
		Language:     lang,
		LanguageName: langName,
		stream:       stream,
		fonts:        linkedhashmap.New(),
		nextID:       1,
		registry:     reg,
		env:          env,
	}, nil
}

// Parse reads a binary string package. Fonts declared in the package are
// registered with reg.
func Parse(data []byte, reg *fontregistry.Registry, env record.Env) (*Package, error) {
	length, err := record.ReadPackageHeader(data, record.PackageStrings)
	if err != nil {
		return nil, err
	}
	s := record.Segment(data[:length])
	infoOffset, err := s.U32(record.PackageHeaderSize + 4)
	if err != nil {
		return nil, err
	}
	langName, err := s.U16(languageNameOffset)
	if err != nil {
		return nil, err
	}
	n, err := s.CString8(headerFixed)
	if err != nil {
		return nil, err
	}
	if int(infoOffset) < headerFixed+n || int(infoOffset) >= length {
		return nil, core.Error(core.ECORRUPT, "string info offset %d out of range", infoOffset)
	}
	stream, err := core.Alloc(env.Alloc, length-int(infoOffset))
	if err != nil {
		return nil, err
	}
	copy(stream, s[infoOffset:])
	p := &Package{
		Language:     string(s[headerFixed : headerFixed+n-1]),
		LanguageName: langName,
		stream:       stream,
		fonts:        linkedhashmap.New(),
		registry:     reg,
		env:          env,
	}
	if _, err = p.DiscoverFonts(); err != nil {
		return nil, err
	}
	tracer().Debugf("parsed string package [%s] with %d strings", p.Language, p.nextID-1)
	return p, nil
}

// Clone returns a copy of the package which can be changed without
// affecting p.
func (p *Package) Clone() *Package {
	c := *p
	c.fonts = linkedhashmap.New()
	it := p.fonts.Iterator()
	for it.Next() {
		c.fonts.Put(it.Key(), it.Value())
	}
	return &c
}

// MarshalBinary returns the binary form of the package.
func (p *Package) MarshalBinary() ([]byte, error) {
	buf, err := core.Alloc(p.env.Alloc, p.Length())
	if err != nil {
		return nil, err
	}
	hdrSize := headerFixed + len(p.Language) + 1
	w := record.NewWriter(buf)
	record.WritePackageHeader(w, len(buf), record.PackageStrings)
	w.U32(uint32(hdrSize)).U32(uint32(hdrSize)).Bytes(make([]byte, 32)).U16(p.LanguageName)
	w.Bytes([]byte(p.Language)).U8(0).Bytes(p.stream)
	return buf, w.Err()
}

// Length returns the declared length of the package in bytes.
func (p *Package) Length() int {
	return headerFixed + len(p.Language) + 1 + len(p.stream)
}

// Stream returns the package's record stream. Clients must not modify it.
func (p *Package) Stream() []byte {
	return p.stream
}

// NextID returns the id the next appended string will receive.
func (p *Package) NextID() uint32 {
	return p.nextID
}

// LastID returns the highest id in use, or 0 for an empty package.
func (p *Package) LastID() uint32 {
	return p.nextID - 1
}

// replace installs a rebuilt stream.
func (p *Package) replace(stream []byte) {
	tracer().Debugf("string package [%s] changes size by %d bytes", p.Language, len(stream)-len(p.stream))
	p.stream = stream
}

func (p *Package) refreshNextID() error {
	_, next, err := record.Terminus(p.stream, grammar{})
	if err != nil {
		return err
	}
	p.nextID = next
	return nil
}
