package hiidb

import (
	"image"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/engine/imagetab"
	"github.com/npillmayer/hiidb/engine/layout"
)

// GetImage decodes an image of a package list.
func (db *Database) GetImage(h Handle, id uint32) (*imagetab.Image, error) {
	pl, err := db.PackageList(h)
	if err != nil {
		return nil, err
	}
	if pl.images == nil {
		return nil, core.Error(core.EMISSING, "package list %d has no images", h)
	}
	return pl.images.Get(id)
}

// NewImage adds an image to a package list, creating its image package if
// necessary, and returns the image's id.
func (db *Database) NewImage(h Handle, img *imagetab.Image) (uint32, error) {
	pl, err := db.PackageList(h)
	if err != nil {
		return 0, err
	}
	if pl.images == nil {
		ip, err := imagetab.New(db.env())
		if err != nil {
			return 0, err
		}
		pl.images = ip
	}
	id, err := pl.images.New(img)
	if err != nil {
		return 0, err
	}
	tracer().Infof("new image %d, package list %d has %d bytes", id, h, pl.Length())
	return id, nil
}

// SetImage replaces an image of a package list.
func (db *Database) SetImage(h Handle, id uint32, img *imagetab.Image) error {
	pl, err := db.PackageList(h)
	if err != nil {
		return err
	}
	if pl.images == nil {
		return core.Error(core.EMISSING, "package list %d has no images", h)
	}
	return pl.images.Set(id, img)
}

// DrawImage draws img onto canvas at (x,y). See layout.Compositor.DrawImage.
func (db *Database) DrawImage(flags layout.DrawFlags, img *imagetab.Image, canvas *image.RGBA,
	x, y int) (*image.RGBA, error) {
	return db.compositor.DrawImage(flags, img, canvas, x, y)
}

// DrawImageID draws an image of a package list onto canvas at (x,y).
func (db *Database) DrawImageID(flags layout.DrawFlags, h Handle, id uint32, canvas *image.RGBA,
	x, y int) (*image.RGBA, error) {
	img, err := db.GetImage(h, id)
	if err != nil {
		return nil, err
	}
	return db.compositor.DrawImage(flags, img, canvas, x, y)
}

// StringToImage lays out text in the font of fdi and draws it onto canvas
// at (x,y). The font is resolved under fdi's mask; if no font with glyphs
// matches, text is drawn in the system font. See
// layout.Compositor.StringToImage.
func (db *Database) StringToImage(flags layout.Flags, text string, fdi *font.DisplayInfo,
	canvas *image.RGBA, x, y int) (*layout.Result, error) {
	fdi, err := db.displayFont(fdi)
	if err != nil {
		return nil, err
	}
	return db.compositor.StringToImage(flags, text, fdi, canvas, x, y)
}

// StringIDToImage lays out a string of a package list. If fdi is nil and the
// string refers to a font, the string is drawn in this font with system
// colors.
func (db *Database) StringIDToImage(flags layout.Flags, h Handle, lang string, id uint32,
	fdi *font.DisplayInfo, canvas *image.RGBA, x, y int) (*layout.Result, error) {
	//
	text, fe, err := db.GetString(h, lang, id)
	if err != nil {
		return nil, err
	}
	if fdi == nil && fe != nil {
		fdi = font.SystemDefault(fe.Name, font.DefaultAttribute)
		fdi.Info = fe.Info
	}
	return db.StringToImage(flags, text, fdi, canvas, x, y)
}
