package hiidb

import (
	"strings"

	"golang.org/x/text/language"
)

// primaryLanguage returns the first tag of a package's language list.
func primaryLanguage(langs string) string {
	primary, _, _ := strings.Cut(langs, ";")
	return strings.TrimSpace(primary)
}

// secondaryLanguages returns all tags of a language list but the first.
func secondaryLanguages(langs string) string {
	_, rest, _ := strings.Cut(langs, ";")
	return rest
}

// sameLanguage compares two language tags. Well-formed BCP 47 tags are
// compared in canonical form, other tags case-insensitively.
func sameLanguage(a, b string) bool {
	ta, errA := language.Parse(a)
	tb, errB := language.Parse(b)
	if errA == nil && errB == nil {
		return ta == tb
	}
	return strings.EqualFold(a, b)
}

// bestLanguage selects the supported language list matching the preferred
// languages best. prefs is a list in Accept-Language format. It returns -1
// if no supported language is acceptable.
func bestLanguage(supported []string, prefs string) int {
	desired, _, err := language.ParseAcceptLanguage(prefs)
	if err != nil || len(desired) == 0 {
		return -1
	}
	var tags []language.Tag
	var index []int
	for i, langs := range supported {
		if t, err := language.Parse(primaryLanguage(langs)); err == nil {
			tags = append(tags, t)
			index = append(index, i)
		}
	}
	if len(tags) == 0 {
		return -1
	}
	_, i, confidence := language.NewMatcher(tags).Match(desired...)
	if confidence == language.No {
		return -1
	}
	return index[i]
}
