package intake

import (
	"errors"
	"log"
	"net/http"

	"github.com/louisbranch/encodingtask/internal/experiment"
	module "github.com/louisbranch/encodingtask/internal/services/encoding/module"
	apperrors "github.com/louisbranch/encodingtask/internal/services/encoding/platform/errors"
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

// handleForm shows the intake form, or forwards a participant who already
// has a live session to where they left off.
func (h handlers) handleForm(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := sessioncookie.Read(r); ok {
		_, err := h.sessions.Current(r.Context(), sessionID)
		switch {
		case err == nil:
			httpx.WriteRedirect(w, r, routepath.Trial)
			return
		case errors.Is(err, experiment.ErrSessionComplete):
			httpx.WriteRedirect(w, r, routepath.Results)
			return
		case errors.Is(err, sessions.ErrNotFound):
			sessioncookie.Clear(w, r)
		default:
			weberror.WriteModuleError(w, r, err, h.deps)
			return
		}
	}
	h.writeForm(w, r, http.StatusOK, templates.IntakeForm{}, nil)
}

func (h handlers) handleStart(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		h.writeFormError(w, r, form, err)
		return
	}
	p, err := participantFromForm(form)
	if err != nil {
		h.writeFormError(w, r, form, err)
		return
	}
	sessionID, err := h.sessions.Start(r.Context(), p)
	if err != nil {
		h.writeFormError(w, r, form, poolError(err, h.sessions.PoolSize(), p.Group))
		return
	}
	sessioncookie.Write(w, r, sessionID)
	httpx.WriteRedirect(w, r, routepath.Trial)
}

// handleRestart drops the session and returns to the intake form. Files
// already written stay on disk.
func (h handlers) handleRestart(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := sessioncookie.Read(r); ok {
		if err := h.sessions.Forget(r.Context(), sessionID); err != nil {
			log.Printf("restart forget failed session=%s err=%v", sessionID, err)
		}
	}
	sessioncookie.Clear(w, r)
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h handlers) writeFormError(w http.ResponseWriter, r *http.Request, form templates.IntakeForm, err error) {
	err = apperrors.FromDomain(err)
	status := apperrors.HTTPStatus(err)
	if weberror.ShouldRenderAppError(status) {
		weberror.WriteModuleError(w, r, err, h.deps)
		return
	}
	h.writeForm(w, r, status, form, err)
}

func (h handlers) writeForm(w http.ResponseWriter, r *http.Request, status int, form templates.IntakeForm, formErr error) {
	loc, lang := webi18n.ResolveLocalizer(w, r, h.deps.DefaultLanguage)
	if formErr != nil {
		form.Error = weberror.PublicMessage(loc, formErr)
	}
	form.PoolSize = h.sessions.PoolSize()
	if form.Group == "" {
		form.Group = "1"
	}
	err := pagerender.WritePage(w, r, loc, lang, pagerender.Page{
		Title:      templates.T(loc, "intake.page_title"),
		StatusCode: status,
		Body:       templates.IntakePage(form, loc),
	})
	if err != nil {
		weberror.WriteModuleError(w, r, err, h.deps)
	}
}
