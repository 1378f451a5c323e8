// Package i18n defines the locales the encoding task supports.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	// English is the catalog base locale.
	English = language.MustParse("en-US")
	// SimplifiedChinese is the default participant-facing locale.
	SimplifiedChinese = language.MustParse("zh-CN")
)

var supported = []language.Tag{SimplifiedChinese, English}

var matcher = language.NewMatcher(supported)

// SupportedTags returns the supported locales, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// DefaultTag returns the locale used when nothing else matches.
func DefaultTag() language.Tag {
	return SimplifiedChinese
}

// ParseTag parses value and reports whether it maps to a supported locale.
// Regional variants resolve to the supported locale of the same language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return language.Und, false
	}
	return supported[index], true
}

// MatchTags picks the best supported locale for a preference list, falling
// back to fallback when no preference is a confident match.
func MatchTags(tags []language.Tag, fallback language.Tag) language.Tag {
	if len(tags) == 0 {
		return fallback
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence < language.High {
		return fallback
	}
	return supported[index]
}

// LocaleString returns the catalog locale name for tag.
func LocaleString(tag language.Tag) string {
	if matched, ok := ParseTag(tag.String()); ok {
		return matched.String()
	}
	return DefaultTag().String()
}
