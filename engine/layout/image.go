package layout

import (
	"image"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/engine/imagetab"
)

// DrawImage draws img onto canvas with its top left corner at (x,y),
// clipped at the canvas boundaries. If canvas is nil, a canvas just large
// enough is allocated and filled with the system background color.
// Transparent drawing leaves canvas pixels under black image pixels
// unchanged and requires a canvas.
func (c *Compositor) DrawImage(flags DrawFlags, img *imagetab.Image, canvas *image.RGBA,
	x, y int) (*image.RGBA, error) {
	//
	switch {
	case img == nil || img.Bitmap == nil:
		return nil, core.Error(core.EINVALID, "no image to draw")
	case flags&DrawToScreen != 0:
		return nil, core.Error(core.EUNSUPPORTED, "there is no screen to draw onto")
	case flags&drawTransMask == drawTransMask:
		return nil, core.Error(core.EINVALID, "image cannot be forced transparent and opaque")
	case flags&DrawClip != 0 && canvas == nil:
		return nil, core.Error(core.EINVALID, "clipping requires a canvas")
	case x < 0 || y < 0:
		return nil, core.Error(core.EINVALID, "negative image position (%d,%d)", x, y)
	}
	transparent := img.Transparent
	switch flags & drawTransMask {
	case DrawForceTrans:
		transparent = true
	case DrawForceOpaque:
		transparent = false
	}
	if canvas == nil {
		if transparent {
			return nil, core.Error(core.EINVALID, "transparent drawing requires a canvas")
		}
		_, bg := font.DefaultAttribute.Colors()
		var err error
		if canvas, err = NewCanvas(c.alloc, img.Width()+x, img.Height()+y, bg); err != nil {
			return nil, err
		}
	}
	origin := canvas.Bounds().Min.Add(image.Pt(x, y))
	src := img.Bitmap.Bounds()
	r := src.Sub(src.Min).Add(origin).Intersect(canvas.Bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			p := img.Bitmap.RGBAAt(px-origin.X+src.Min.X, py-origin.Y+src.Min.Y)
			if transparent && p.R == 0 && p.G == 0 && p.B == 0 {
				continue
			}
			canvas.SetRGBA(px, py, p)
		}
	}
	tracer().Debugf("drew %dx%d image at (%d,%d), %d pixels visible, transparent=%v",
		img.Width(), img.Height(), x, y, r.Dx()*r.Dy(), transparent)
	return canvas, nil
}
