package layout

import (
	"strings"

	"github.com/npillmayer/hiidb/core"
)

// Flags control text layout.
type Flags uint32

// Text layout flags
const (
	Transparent     Flags = 0x01 // draw foreground pixels only
	Clip            Flags = 0x02 // clip at the canvas boundaries
	ClipCleanX      Flags = 0x04 // drop characters not fitting horizontally
	ClipCleanY      Flags = 0x08 // drop rows not fitting vertically
	Wrap            Flags = 0x10 // wrap rows at break opportunities
	IgnoreIfNoGlyph Flags = 0x20 // skip characters without a glyph
	IgnoreLineBreak Flags = 0x40 // ignore hard and soft line breaks
	DirectToScreen  Flags = 0x80 // draw onto a physical display
)

var flagNames = []struct {
	f    Flags
	name string
}{
	{Transparent, "transparent"}, {Clip, "clip"}, {ClipCleanX, "clean-x"},
	{ClipCleanY, "clean-y"}, {Wrap, "wrap"}, {IgnoreIfNoGlyph, "ignore-no-glyph"},
	{IgnoreLineBreak, "ignore-line-break"}, {DirectToScreen, "screen"},
}

func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// validate checks flags for inconsistent combinations. haveCanvas states if
// the caller supplied a canvas.
func (f Flags) validate(haveCanvas bool) error {
	switch {
	case f&DirectToScreen != 0:
		return core.Error(core.EUNSUPPORTED, "there is no screen to draw onto")
	case !haveCanvas && f&(Transparent|Clip) != 0:
		return core.Error(core.EINVALID, "flags %s require a canvas", f&(Transparent|Clip))
	case f&(ClipCleanX|ClipCleanY) != 0 && f&Clip == 0:
		return core.Error(core.EINVALID, "flags %s require clipping", f&(ClipCleanX|ClipCleanY))
	case f&Wrap != 0 && f&ClipCleanX != 0:
		return core.Error(core.EINVALID, "wrapping excludes clean clipping at the right border")
	}
	return nil
}

// DrawFlags control drawing of images.
type DrawFlags uint32

// Image drawing flags
const (
	DrawDefault     DrawFlags = 0x00 // transparency as stated by the image
	DrawClip        DrawFlags = 0x01 // clip at the canvas boundaries
	DrawForceTrans  DrawFlags = 0x10 // draw transparently regardless of the image
	DrawForceOpaque DrawFlags = 0x20 // draw opaquely regardless of the image
	DrawToScreen    DrawFlags = 0x80 // draw onto a physical display
)

// drawTransMask covers both transparency overrides.
const drawTransMask = DrawForceTrans | DrawForceOpaque
