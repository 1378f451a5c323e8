// Package pagerender centralizes full-page rendering for encoding modules.
package pagerender

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/httpx"
	webi18n "github.com/louisbranch/encodingtask/internal/services/encoding/platform/i18n"
	"github.com/louisbranch/encodingtask/internal/services/encoding/templates"
)

// Page describes one module page response.
type Page struct {
	Title       string
	StatusCode  int
	ShowRestart bool
	Body        templ.Component
}

// WritePage renders page inside the shared layout. The markup is buffered so
// a render failure never leaves a half-written 200 response.
func WritePage(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer, lang string, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	body := page.Body
	if body == nil {
		body = templ.NopComponent
	}
	currentPath := ""
	if r != nil {
		currentPath = r.URL.Path
	}
	layout := templates.Layout(page.Title, templates.PageContext{
		Lang:        lang,
		Loc:         loc,
		CurrentPath: currentPath,
		Languages:   webi18n.LanguageOptions(loc, lang),
		ShowRestart: page.ShowRestart,
	})
	var buf bytes.Buffer
	if err := layout.Render(templ.WithChildren(httpx.RequestContext(r), body), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}
