/*
Command hiicli is an interactive shell for exploring a resource database.

It starts with a small demo package list or with a package list loaded from
a file (flag -load). Strings, glyphs and images may be inspected, rendered
to the terminal and shipped out as BMP or PNG files.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
	"github.com/npillmayer/hiidb/engine/hiidb"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'hii.cli'
func tracer() tracing.Trace {
	return tracing.Select("hii.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
		"trace.hii.cli":   "Info",
		"trace.hii.db":    "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	load := flag.String("load", "", "Package list to load")
	width := flag.Int("width", 120, "Width of the rendering canvas")
	height := flag.Int("height", 40, "Height of the rendering canvas")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)
	pterm.Info.Println("Welcome to the HII database CLI")
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up REPL
	repl, err := readline.New("hii > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{
		db:   hiidb.New(testconfig.Conf{"hii.canvas-width": fmt.Sprint(*width), "hii.canvas-height": fmt.Sprint(*height)}),
		repl: repl,
		lang: "en-US",
		size: image.Pt(*width, *height),
	}
	//
	// load package list to use
	if *load != "" {
		err = intp.loadPackageList(*load)
	} else {
		err = intp.loadDemo()
	}
	if err != nil {
		core.UserError(err)
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	setTraceLevel(*tlevel)
	intp.REPL()
}

func setTraceLevel(l string) {
	switch strings.ToLower(l) {
	case "debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().SetTraceLevel(tracing.LevelInfo)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	db     *hiidb.Database
	h      hiidb.Handle
	repl   *readline.Instance
	lang   string      // current language
	size   image.Point // canvas size for rendering
	canvas *image.RGBA // result of the last rendering
	fdi    *font.DisplayInfo
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			continue
		}
		quit, err := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			tracer().Debugf("error: %v", err)
			continue
		}
		if quit {
			break
		}
	}
	intp.repl.Close()
	pterm.Info.Println("Good bye!")
}
