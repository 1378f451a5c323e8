package templates

import (
	"github.com/a-h/templ"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
)

// PageContext provides shared layout context for pages.
type PageContext struct {
	Lang        string
	Loc         Localizer
	CurrentPath string
	Languages   []LanguageOption
	ShowRestart bool
}

func (p PageContext) documentLang() string {
	if p.Lang == "" {
		return "zh-CN"
	}
	return p.Lang
}

func (p PageContext) languageLink(option LanguageOption) templ.SafeURL {
	path := p.CurrentPath
	if path == "" {
		path = routepath.Root
	}
	return templ.SafeURL(routepath.WithLang(path, option.Tag))
}
