/*
Package config collects the tunable settings of the resource database from
a schuko.Configuration.

Recognized keys are

	hii.canvas-width       width of the canvas allocated for layout without a target (800)
	hii.canvas-height      height of that canvas (600)
	hii.replacement-char   code point substituted for missing glyphs, as "0xFFFD" or decimal
	hii.duplicate-hops     upper bound for duplicate-record resolution (64)
	hii.system-font        name of the built-in system font ("sysdefault")

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package config

import (
	"strconv"
	"strings"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'hii.db'
func tracer() tracing.Trace {
	return tracing.Select("hii.db")
}

// Default values for settings.
const (
	DefaultCanvasWidth   = 800
	DefaultCanvasHeight  = 600
	DefaultReplacement   = 0xFFFD
	DefaultDuplicateHops = 64
	DefaultSystemFont    = "sysdefault"
)

// Settings is the set of values the database and the compositor depend on.
type Settings struct {
	CanvasWidth   int
	CanvasHeight  int
	Replacement   rune
	DuplicateHops int
	SystemFont    string
}

// Defaults returns settings without consulting any configuration.
func Defaults() Settings {
	return Settings{
		CanvasWidth:   DefaultCanvasWidth,
		CanvasHeight:  DefaultCanvasHeight,
		Replacement:   DefaultReplacement,
		DuplicateHops: DefaultDuplicateHops,
		SystemFont:    DefaultSystemFont,
	}
}

// Load reads settings from conf. Keys which are unset or malformed fall
// back to their defaults. conf may be nil.
func Load(conf schuko.Configuration) Settings {
	s := Defaults()
	if conf == nil {
		return s
	}
	s.CanvasWidth = positive(conf, "hii.canvas-width", s.CanvasWidth)
	s.CanvasHeight = positive(conf, "hii.canvas-height", s.CanvasHeight)
	s.DuplicateHops = positive(conf, "hii.duplicate-hops", s.DuplicateHops)
	if r := positive(conf, "hii.replacement-char", int(s.Replacement)); r <= 0xFFFF {
		s.Replacement = rune(r)
	}
	if name := strings.TrimSpace(conf.GetString("hii.system-font")); name != "" {
		s.SystemFont = name
	}
	return s
}

func positive(conf schuko.Configuration, key string, dflt int) int {
	v := strings.TrimSpace(conf.GetString(key))
	if v == "" {
		return dflt
	}
	n, err := strconv.ParseInt(v, 0, 32)
	if err != nil || n <= 0 {
		tracer().Errorf("config[%s] = %q is not a positive number, using %d", key, v, dflt)
		return dflt
	}
	return int(n)
}
