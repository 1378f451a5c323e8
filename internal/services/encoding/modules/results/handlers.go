package results

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strconv"

	module "github.com/louisbranch/encodingtask/internal/services/encoding/module"
	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/httpx"
	webi18n "github.com/louisbranch/encodingtask/internal/services/encoding/platform/i18n"
	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/pagerender"
	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/sessioncookie"
	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/weberror"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
	"github.com/louisbranch/encodingtask/internal/services/encoding/sessions"
	"github.com/louisbranch/encodingtask/internal/services/encoding/templates"
)

type handlers struct {
	sessions module.Sessions
	deps     module.Dependencies
}

func newHandlers(deps module.Dependencies) handlers {
	return handlers{sessions: deps.Sessions, deps: deps}
}

func (h handlers) handleResults(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summary(w, r)
	if !ok {
		return
	}
	loc, lang := webi18n.ResolveLocalizer(w, r, h.deps.DefaultLanguage)
	err := pagerender.WritePage(w, r, loc, lang, pagerender.Page{
		Title:       templates.T(loc, "results.page_title"),
		ShowRestart: true,
		Body: templates.ResultsPage(templates.ResultsView{
			Records:    summary.Results,
			ExportFile: summary.ExportFile,
		}, loc),
	})
	if err != nil {
		weberror.WriteModuleError(w, r, err, h.deps)
	}
}

func (h handlers) handleCSV(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.summary(w, r); !ok {
		return
	}
	sessionID, _ := sessioncookie.Read(r)
	var buf bytes.Buffer
	name, err := h.sessions.WriteCSV(r.Context(), sessionID, &buf)
	if err != nil {
		weberror.WriteModuleError(w, r, err, h.deps)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// summary loads a completed session. Participants without a session go to
// the intake form and unfinished sessions go back to their trial.
func (h handlers) summary(w http.ResponseWriter, r *http.Request) (sessions.Summary, bool) {
	sessionID, ok := sessioncookie.Read(r)
	if !ok {
		httpx.WriteRedirect(w, r, routepath.Root)
		return sessions.Summary{}, false
	}
	summary, err := h.sessions.Summary(r.Context(), sessionID)
	if errors.Is(err, sessions.ErrNotFound) {
		sessioncookie.Clear(w, r)
		httpx.WriteRedirect(w, r, routepath.Root)
		return sessions.Summary{}, false
	}
	if err != nil {
		weberror.WriteModuleError(w, r, err, h.deps)
		return sessions.Summary{}, false
	}
	if !summary.Complete {
		httpx.WriteRedirect(w, r, routepath.Trial)
		return sessions.Summary{}, false
	}
	return summary, true
}
