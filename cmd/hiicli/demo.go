package main

import (
	"image/color"
	"os"
	"strings"

	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/engine/hiidb"
	"github.com/npillmayer/hiidb/engine/imagetab"
	"github.com/pterm/pterm"
)

func (intp *Intp) loadPackageList(name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return core.WrapError(err, core.EMISSING, "cannot read package list %s", name)
	}
	if intp.h, err = intp.db.AddPackageList(data); err != nil {
		return err
	}
	langs, _ := intp.db.GetLanguages(intp.h)
	if primary, _, _ := strings.Cut(langs, ";"); primary != "" {
		intp.lang = primary
	}
	pterm.Printfln("loaded package list %s with languages %s", name, langs)
	return nil
}

var demoStrings = []struct {
	en, de string
}{
	{"Hello, world", "Hallo Welt"},
	{"Press any key to continue", "Weiter mit beliebiger Taste"},
	{"Boot Manager", "Startmanager"},
}

// loadDemo creates a package list with a few strings in English and German
// and a checkerboard image.
func (intp *Intp) loadDemo() error {
	intp.h = intp.db.NewPackageList(hiidb.GUID{'d', 'e', 'm', 'o'})
	var ids []uint32
	for _, s := range demoStrings {
		id, err := intp.db.NewString(intp.h, "en-US", "English", s.en, nil)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	id, err := intp.db.NewString(intp.h, "de-DE", "Deutsch", "Ende", nil)
	if err != nil {
		return err
	}
	if err = intp.db.SetString(intp.h, "en-US", id, "End", nil); err != nil {
		return err
	}
	for i, s := range demoStrings {
		if err = intp.db.SetString(intp.h, "de-DE", ids[i], s.de, nil); err != nil {
			return err
		}
	}
	img := imagetab.NewImage(16, 8, false)
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			if (x/4+y/4)%2 == 0 {
				img.Bitmap.SetRGBA(x, y, color.RGBA{0xff, 0xff, 0xff, 0xff})
			}
		}
	}
	if _, err = intp.db.NewImage(intp.h, img); err != nil {
		return err
	}
	pterm.Printfln("demo package list %d with strings 2–%d and image 1", intp.h, id)
	return nil
}
