package main

import (
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/hiidb/backend/gfx"
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/engine/layout"
	"github.com/pterm/pterm"
)

// Op is an operation code of the interpreter.
type Op int

// Operations
const (
	QUIT Op = iota
	HELP
	LANG
	BEST
	STRING
	NEW
	RENDER
	TEXT
	GLYPH
	FONTS
	IMAGE
	SAVE
	EXPORT
	LISTS
	FLAGS
	FONT
)

var opNames = map[string]Op{
	"quit":   QUIT,
	"help":   HELP,
	"lang":   LANG,
	"best":   BEST,
	"str":    STRING,
	"string": STRING,
	"new":    NEW,
	"render": RENDER,
	"text":   TEXT,
	"glyph":  GLYPH,
	"fonts":  FONTS,
	"image":  IMAGE,
	"save":   SAVE,
	"export": EXPORT,
	"lists":  LISTS,
	"flags":  FLAGS,
	"font":   FONT,
}

// Command is an operation with its arguments.
type Command struct {
	op   Op
	args []string
	rest string // everything after the verb, unsplit
}

func parseCommand(line string) (*Command, error) {
	verb, rest, _ := strings.Cut(line, " ")
	op, ok := opNames[strings.ToLower(verb)]
	if !ok {
		return nil, core.Error(core.EINVALID, "unknown command %q, try 'help'", verb)
	}
	rest = strings.TrimSpace(rest)
	cmd := &Command{op: op, args: strings.Fields(rest), rest: rest}
	tracer().Debugf("parse command = %v %v", verb, cmd.args)
	return cmd, nil
}

func (cmd *Command) id(i int) (uint32, error) {
	if i >= len(cmd.args) {
		return 0, core.Error(core.EINVALID, "missing id argument")
	}
	n, err := strconv.ParseUint(cmd.args[i], 0, 32)
	if err != nil {
		return 0, core.WrapError(err, core.EINVALID, "id %q not numeric", cmd.args[i])
	}
	return uint32(n), nil
}

func (intp *Intp) execute(cmd *Command) (bool, error) {
	switch cmd.op {
	case QUIT:
		return true, nil
	case HELP:
		help()
	case LANG:
		return false, intp.languages(cmd)
	case BEST:
		lang, err := intp.db.BestLanguage(intp.h, cmd.rest)
		if err != nil {
			return false, err
		}
		intp.lang = lang
		pterm.Printfln("best language for %q is [%s]", cmd.rest, lang)
	case STRING:
		id, err := cmd.id(0)
		if err != nil {
			return false, err
		}
		text, fe, err := intp.db.GetString(intp.h, intp.lang, id)
		if err != nil {
			return false, err
		}
		pterm.Printfln("[%s] %d = %q in font %s", intp.lang, id, text, fe)
	case NEW:
		id, err := intp.db.NewString(intp.h, intp.lang, intp.lang, cmd.rest, nil)
		if err != nil {
			return false, err
		}
		pterm.Printfln("new string [%s] %d", intp.lang, id)
	case RENDER, TEXT:
		return false, intp.render(cmd)
	case GLYPH:
		r := []rune(cmd.rest)
		if len(r) == 0 {
			return false, core.Error(core.EINVALID, "no character given")
		}
		g, err := intp.db.GetGlyph(r[0], intp.fdi)
		if core.IsWarning(err) {
			pterm.Warning.Println(core.UserMessage(err))
		} else if err != nil {
			return false, err
		}
		pterm.Println(g.String())
	case FONTS:
		data := pterm.TableData{{"#", "Name", "Size", "Style"}}
		for _, e := range intp.db.Fonts().Entries() {
			data = append(data, []string{strconv.Itoa(e.Seq), e.Name,
				strconv.Itoa(int(e.Size)), e.Style.String()})
		}
		return false, pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	case IMAGE:
		return false, intp.image(cmd)
	case SAVE:
		if intp.canvas == nil {
			return false, core.Error(core.EINVALID, "nothing rendered yet")
		}
		return false, gfx.Shipout(cmd.rest, intp.canvas)
	case EXPORT:
		data, err := intp.db.ExportPackageList(intp.h)
		if err != nil {
			return false, err
		}
		if err = os.WriteFile(cmd.rest, data, 0644); err != nil {
			return false, core.WrapError(err, core.EINVALID, "cannot write %s", cmd.rest)
		}
		pterm.Printfln("exported %d bytes to %s", len(data), cmd.rest)
	case LISTS:
		for _, h := range intp.db.Handles() {
			pl, _ := intp.db.PackageList(h)
			mark := " "
			if h == intp.h {
				mark = "*"
			}
			pterm.Printfln("%s %d: %d string packages, %d font packages, %d bytes", mark, h,
				len(pl.StringPackages()), len(pl.FontPackages()), pl.Length())
		}
	case FONT:
		return false, intp.selectFont(cmd)
	case FLAGS:
		f, err := parseFlags(cmd.rest)
		if err != nil {
			return false, err
		}
		pterm.Printfln("flags = %s", f)
	}
	return false, nil
}

func (intp *Intp) languages(cmd *Command) error {
	if len(cmd.args) > 0 {
		intp.lang = cmd.args[0]
	}
	langs, err := intp.db.GetLanguages(intp.h)
	if err != nil {
		return err
	}
	pterm.Printfln("languages: %s, current [%s]", langs, intp.lang)
	if sec, err := intp.db.GetSecondaryLanguages(intp.h, intp.lang); err == nil {
		pterm.Printfln("secondary languages of [%s]: %s", intp.lang, sec)
	}
	return nil
}

// render lays out a string (by id) or literal text onto a fresh canvas and
// dumps the result to the terminal. Flags may be given as the first
// argument, prefixed with '+', e.g. "render +wrap,clip 3".
func (intp *Intp) render(cmd *Command) error {
	var flags layout.Flags
	args, rest := cmd.args, cmd.rest
	if len(args) > 0 && strings.HasPrefix(args[0], "+") {
		var err error
		if flags, err = parseFlags(args[0][1:]); err != nil {
			return err
		}
		args = args[1:]
		rest = strings.TrimSpace(strings.TrimPrefix(rest, cmd.args[0]))
	}
	_, bg := font.DefaultAttribute.Colors()
	if intp.fdi != nil {
		bg = intp.fdi.Background
	}
	canvas, err := layout.NewCanvas(core.HeapAllocator{}, intp.size.X, intp.size.Y, bg)
	if err != nil {
		return err
	}
	var result *layout.Result
	if cmd.op == TEXT {
		result, err = intp.db.StringToImage(flags, rest, intp.fdi, canvas, 0, 0)
	} else {
		c := &Command{args: args}
		id, e := c.id(0)
		if e != nil {
			return e
		}
		result, err = intp.db.StringIDToImage(flags, intp.h, intp.lang, id, intp.fdi, canvas, 0, 0)
	}
	if err != nil {
		return err
	}
	intp.show(result.Canvas)
	for i, row := range result.Rows {
		pterm.Printfln("row %d: characters %d–%d, %d×%d, baseline %d", i, row.StartIndex,
			row.EndIndex, row.LineWidth, row.LineHeight, row.BaselineOffset)
	}
	return nil
}

// selectFont sets the font for rendering and glyph lookup. Without
// arguments, the system font is selected. Sizes are matched loosely.
func (intp *Intp) selectFont(cmd *Command) error {
	if len(cmd.args) == 0 {
		intp.fdi = nil
		pterm.Printfln("using the system font")
		return nil
	}
	req := font.SystemDefault(cmd.args[0], font.DefaultAttribute)
	req.Mask = font.AnySize | font.AnyStyle
	if len(cmd.args) > 1 {
		size, err := strconv.Atoi(cmd.args[1])
		if err != nil {
			return core.WrapError(err, core.EINVALID, "font size %q not numeric", cmd.args[1])
		}
		req.Info.Size = uint16(size)
		req.Mask = font.Resize | font.AnyStyle
	}
	e, fdi, err := intp.db.GetFontInfo(nil, req, "")
	if err != nil {
		return err
	}
	intp.fdi = fdi
	pterm.Printfln("using font %s", e)
	return nil
}

func (intp *Intp) image(cmd *Command) error {
	id, err := cmd.id(0)
	if err != nil {
		return err
	}
	img, err := intp.db.GetImage(intp.h, id)
	if err != nil {
		return err
	}
	canvas, err := intp.db.DrawImage(layout.DrawDefault, img, nil, 0, 0)
	if err != nil {
		return err
	}
	pterm.Printfln("image %d is %d×%d, transparent = %v", id, img.Width(), img.Height(), img.Transparent)
	intp.show(canvas)
	return nil
}

func (intp *Intp) show(canvas *image.RGBA) {
	intp.canvas = canvas
	pterm.Println(gfx.Dump(canvas, nil))
}

func parseFlags(s string) (layout.Flags, error) {
	var flags layout.Flags
	for _, name := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
		case "transparent":
			flags |= layout.Transparent
		case "clip":
			flags |= layout.Clip
		case "cleanx":
			flags |= layout.ClipCleanX
		case "cleany":
			flags |= layout.ClipCleanY
		case "wrap":
			flags |= layout.Wrap
		case "ignore", "ignore-missing":
			flags |= layout.IgnoreIfNoGlyph
		case "nobreak":
			flags |= layout.IgnoreLineBreak
		default:
			return 0, core.Error(core.EINVALID, "unknown flag %q", name)
		}
	}
	return flags, nil
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	lang [code]            list languages, optionally switch to language code
	best <prefs>           switch to the best language for a preference list ("de;en")
	str <id>               show a string of the current language
	new <text>             add a string to the current language
	render [+flags] <id>   lay out a string onto the canvas
	text [+flags] <text>   lay out literal text in the system font
	glyph <char>           show the glyph of a character
	fonts                  list registered fonts
	font [name [size]]     select a font, or the system font
	image <id>             draw an image
	save <file>            ship out the last canvas (.bmp, .png, .txt)
	export <file>          export the package list
	lists                  list package lists
	flags <f,...>          check layout flags: transparent clip cleanx cleany wrap ignore nobreak
	quit                   leave the CLI
	`)
}
