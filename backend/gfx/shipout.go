package gfx

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/hiidb/core"
	"golang.org/x/image/bmp"
)

// Format is an output format for canvases.
type Format int

// Output formats
const (
	BMP Format = iota
	PNG
	Text
)

func (f Format) String() string {
	switch f {
	case BMP:
		return "bmp"
	case PNG:
		return "png"
	case Text:
		return "text"
	}
	return "unknown"
}

// FormatOf derives the output format from a file name's extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bmp":
		return BMP, nil
	case ".png":
		return PNG, nil
	case ".txt":
		return Text, nil
	}
	return 0, core.Error(core.EUNSUPPORTED, "cannot derive image format from %q", name)
}

// Encode writes img to w in format f. Text output marks every pixel which
// differs from the top left pixel.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case BMP:
		err = bmp.Encode(w, img)
	case PNG:
		err = png.Encode(w, img)
	case Text:
		_, err = io.WriteString(w, Dump(img, nil))
	default:
		return core.Error(core.EUNSUPPORTED, "unknown image format %d", f)
	}
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot encode image as %s", f)
	}
	return nil
}

// Shipout writes img to a file. The format is derived from the file name.
func Shipout(name string, img image.Image) error {
	f, err := FormatOf(name)
	if err != nil {
		return err
	}
	out, err := os.Create(name)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create %s", name)
	}
	defer out.Close()
	if err = Encode(out, img, f); err != nil {
		return err
	}
	tracer().Infof("shipped out %v image to %s", img.Bounds().Size(), name)
	return out.Close()
}

// Dump renders img as text, one line per pixel row, with '#' for pixels
// differing from the background and '.' otherwise. If bg is nil, the color
// of the top left pixel is taken as the background.
func Dump(img image.Image, bg color.Color) string {
	b := img.Bounds()
	if b.Empty() {
		return ""
	}
	if bg == nil {
		bg = img.At(b.Min.X, b.Min.Y)
	}
	br, bgg, bb, ba := bg.RGBA()
	var sb strings.Builder
	sb.Grow((b.Dx() + 1) * b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if r == br && g == bgg && b == bb && a == ba {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('#')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
