// Package i18n resolves the request language and localizes web errors.
package i18n

import (
	"net/http"
	"strings"
	"time"

	platformi18n "github.com/louisbranch/encodingtask/internal/platform/i18n"
	_ "github.com/louisbranch/encodingtask/internal/platform/i18n/catalog"
	apperrors "github.com/louisbranch/encodingtask/internal/services/encoding/platform/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to switch language.
	LangParam = "lang"
	// LangCookieName stores the participant's language choice.
	LangCookieName = "encoding_lang"
)

// Localizer exposes translated formatting used by templates and handlers.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	Active bool
}

// ResolveTag picks the request language: query parameter, then cookie, then
// Accept-Language, then fallback. The bool reports a query override that
// should be persisted.
func ResolveTag(r *http.Request, fallback language.Tag) (language.Tag, bool) {
	if _, ok := platformi18n.ParseTag(fallback.String()); !ok {
		fallback = platformi18n.DefaultTag()
	}
	if r == nil {
		return fallback, false
	}
	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if tag, ok := platformi18n.ParseTag(value); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags, fallback), false
		}
	}
	return fallback, false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// ResolveLocalizer resolves a printer and language string for a request and
// persists an explicit language switch.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request, fallback language.Tag) (*message.Printer, string) {
	tag, persist := ResolveTag(r, fallback)
	if persist {
		SetLanguageCookie(w, tag)
	}
	return message.NewPrinter(tag), tag.String()
}

// LocalizeError resolves a translated error string when a key is available.
func LocalizeError(loc Localizer, err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	if loc == nil {
		return msg
	}
	if key := apperrors.LocalizationKey(err); key != "" {
		return loc.Sprintf(key, apperrors.LocalizationArgs(err)...)
	}
	return msg
}

// LanguageOptions returns the switcher entries with the active one marked.
func LanguageOptions(loc Localizer, active string) []LanguageOption {
	activeTag, ok := platformi18n.ParseTag(active)
	if !ok {
		activeTag = platformi18n.DefaultTag()
	}
	supported := platformi18n.SupportedTags()
	options := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		label := tag.String()
		if loc != nil {
			if resolved := strings.TrimSpace(loc.Sprintf(labelKey(tag))); resolved != "" {
				label = resolved
			}
		}
		options = append(options, LanguageOption{Tag: tag.String(), Label: label, Active: tag == activeTag})
	}
	return options
}

func labelKey(tag language.Tag) string {
	base, _ := tag.Base()
	return "core.lang_" + base.String()
}
