package utils

import (
	"strings"

	"golang.org/x/text/language"
)

// DetermineLocale resolves the locale for a request. An explicit query value wins, then the
// Accept-Language header (q-values honoured), then def. Only base languages from supported
// are ever returned, e.g. "ko-KR" resolves to "ko".
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	if len(supported) == 0 {
		return strings.ToLower(def)
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(strings.ToLower(s)))
	}

	if v, ok := matchBase(queryLang, supported); ok {
		return v
	}

	if prefs, _, err := language.ParseAcceptLanguage(acceptLang); err == nil && len(prefs) > 0 {
		matcher := language.NewMatcher(tags)
		_, idx, conf := matcher.Match(prefs...)
		if conf != language.No {
			return strings.ToLower(supported[idx])
		}
	}

	if v, ok := matchBase(def, supported); ok {
		return v
	}
	return strings.ToLower(supported[0])
}

func matchBase(raw string, supported []string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, s := range supported {
		if strings.EqualFold(base.String(), s) {
			return strings.ToLower(s), true
		}
	}
	return "", false
}
