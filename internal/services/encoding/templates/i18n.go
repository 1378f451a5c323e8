package templates

import (
	"fmt"

	webi18n "github.com/louisbranch/encodingtask/internal/services/encoding/platform/i18n"
	"golang.org/x/text/message"
)

// Localizer provides translated strings for page components.
type Localizer = webi18n.Localizer

// LanguageOption represents a supported language option in the switcher.
type LanguageOption = webi18n.LanguageOption

// T returns a translated string or a key-derived fallback.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if keyString, ok := key.(string); ok {
		if len(args) > 0 {
			return fmt.Sprintf(keyString, args...)
		}
		return keyString
	}
	return ""
}
