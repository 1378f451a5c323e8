// Package weberror renders shared error responses for encoding modules.
package weberror

import (
	"log"
	"net/http"
	"strings"

	module "github.com/louisbranch/encodingtask/internal/services/encoding/module"
	apperrors "github.com/louisbranch/encodingtask/internal/services/encoding/platform/errors"
	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/httpx"
	webi18n "github.com/louisbranch/encodingtask/internal/services/encoding/platform/i18n"
	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/pagerender"
	"github.com/louisbranch/encodingtask/internal/services/encoding/templates"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webi18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key, apperrors.LocalizationArgs(err)...)); localized != "" {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	if text := strings.TrimSpace(http.StatusText(statusCode)); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

// WriteAppError writes the localized error page.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, deps module.Dependencies) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	loc, lang := webi18n.ResolveLocalizer(w, r, deps.DefaultLanguage)
	err := pagerender.WritePage(w, r, loc, lang, pagerender.Page{
		Title:      templates.AppErrorPageTitle(statusCode, loc),
		StatusCode: statusCode,
		Body:       templates.AppErrorState(statusCode, loc),
	})
	if err != nil {
		http.Error(w, PublicMessage(loc, err), statusCode)
	}
}

// WriteModuleError maps err to a status and writes the matching response:
// the error page for 404 and 5xx, a localized plain message otherwise.
// JSON clients receive {"error": message}.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, deps module.Dependencies) {
	if w == nil {
		return
	}
	err = apperrors.FromDomain(err)
	statusCode := apperrors.HTTPStatus(err)
	if statusCode >= http.StatusInternalServerError {
		method, path := "-", "-"
		if r != nil {
			method, path = r.Method, r.URL.Path
		}
		log.Printf("request failed method=%s path=%s status=%d err=%v", method, path, statusCode, err)
	}
	loc, _ := webi18n.ResolveLocalizer(w, r, deps.DefaultLanguage)
	if httpx.WantsJSON(r) {
		_ = httpx.WriteJSONError(w, statusCode, PublicMessage(loc, err))
		return
	}
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, deps)
		return
	}
	http.Error(w, PublicMessage(loc, err), statusCode)
}
