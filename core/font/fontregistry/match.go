package fontregistry

import (
	"github.com/npillmayer/hiidb/core"
	"github.com/npillmayer/hiidb/core/font"
)

// MatchConfidence is a type for expressing the confidence level of font matching.
type MatchConfidence int

// Match tiers, in increasing order of confidence.
const (
	NoConfidence      MatchConfidence = 0 // no match
	LowConfidence     MatchConfidence = 2 // size and style deviate
	HighConfidence    MatchConfidence = 3 // either size or style deviates
	PerfectConfidence MatchConfidence = 4 // exact match
)

func (mc MatchConfidence) String() string {
	switch mc {
	case PerfectConfidence:
		return "exact"
	case HighConfidence:
		return "vague"
	case LowConfidence:
		return "vague-2"
	}
	return "none"
}

// capabilities are the mask bits relevant for matching, with system bits
// removed.
type capabilities struct {
	anyFont, anySize, anyStyle bool
	resize, restyle            bool
}

func capabilitiesOf(m font.Mask) capabilities {
	m &^= font.SysBits
	return capabilities{
		anyFont:  m.Has(font.AnyFont),
		anySize:  m.Has(font.AnySize),
		anyStyle: m.Has(font.AnyStyle),
		resize:   m.Has(font.Resize),
		restyle:  m.Has(font.Restyle),
	}
}

// comparison is the relation between a requested font and a candidate.
type comparison struct {
	sizeEq     bool // sizes equal or size irrelevant
	styleEq    bool // styles equal or style irrelevant
	styleSuper bool // candidate has every requested style flag
}

func compare(req, cand font.Info, caps capabilities) comparison {
	return comparison{
		sizeEq:     caps.anySize || req.Size == cand.Size,
		styleEq:    caps.anyStyle || req.Style == cand.Style,
		styleSuper: caps.anyStyle || cand.Style.Covers(req.Style),
	}
}

// rules are evaluated top to bottom, the first one to apply determines the
// tier of a candidate.
var rules = []struct {
	tier  MatchConfidence
	holds func(capabilities, comparison) bool
}{
	{PerfectConfidence, func(_ capabilities, c comparison) bool {
		return c.sizeEq && c.styleEq
	}},
	{HighConfidence, func(caps capabilities, c comparison) bool {
		return caps.restyle && c.styleSuper && c.sizeEq
	}},
	{HighConfidence, func(caps capabilities, c comparison) bool {
		return caps.resize && c.styleEq && !c.sizeEq
	}},
	{LowConfidence, func(caps capabilities, c comparison) bool {
		return caps.resize && caps.restyle && c.styleSuper && !c.sizeEq
	}},
}

// Classify returns the tier at which candidate satisfies request under mask.
func Classify(req, cand font.Info, mask font.Mask) MatchConfidence {
	caps := capabilitiesOf(mask)
	if !caps.anyFont && req.Name != cand.Name {
		return NoConfidence
	}
	c := compare(req, cand, caps)
	for _, r := range rules {
		if r.holds(caps, c) {
			return r.tier
		}
	}
	return NoConfidence
}

// Match resolves a font request. Candidates are visited in registration order,
// starting after entry after (nil to start at the first entry). If accept is
// non-nil, a candidate is skipped unless accept returns true for it.
//
// An exact match is returned immediately. Otherwise the whole list is scanned
// and the first candidate of the best vague tier is returned. If nothing
// matches, Match returns an EMISSING error.
func (fr *Registry) Match(req font.Info, mask font.Mask, after *font.Entry,
	accept func(*font.Entry) bool) (*font.Entry, MatchConfidence, error) {
	//
	if err := ValidateMask(mask); err != nil {
		return nil, NoConfidence, err
	}
	var vague1, vague2 *font.Entry
	for _, e := range fr.Entries() {
		if after != nil && e.Seq <= after.Seq {
			continue
		}
		tier := Classify(req, e.Info, mask)
		if tier == NoConfidence || (accept != nil && !accept(e)) {
			continue
		}
		switch tier {
		case PerfectConfidence:
			tracer().Debugf("font %s matches %s exactly", e, req)
			return e, tier, nil
		case HighConfidence:
			if vague1 == nil {
				vague1 = e
			}
		case LowConfidence:
			if vague2 == nil {
				vague2 = e
			}
		}
	}
	if vague1 != nil {
		tracer().Debugf("font %s matches %s vaguely", vague1, req)
		return vague1, HighConfidence, nil
	}
	if vague2 != nil {
		tracer().Debugf("font %s matches %s vaguely in size and style", vague2, req)
		return vague2, LowConfidence, nil
	}
	return nil, NoConfidence, core.Error(core.EMISSING, "no font matches %s with mask 0x%x", req, mask)
}
