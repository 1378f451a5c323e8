package trials

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

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
	sessions      module.Sessions
	deps          module.Dependencies
	maxAudioBytes int64
}

func newHandlers(deps module.Dependencies) handlers {
	limit := deps.MaxAudioBytes
	if limit <= 0 {
		limit = DefaultMaxAudioBytes
	}
	return handlers{sessions: deps.Sessions, deps: deps, maxAudioBytes: limit}
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, h.deps)
}

func (h handlers) handleTrial(w http.ResponseWriter, r *http.Request) {
	view, ok := h.current(w, r)
	if !ok {
		return
	}
	h.writeTrial(w, r, http.StatusOK, templates.TrialView{
		Number:        view.Number,
		Total:         view.Total,
		Trial:         view.Trial,
		AudioFilename: view.AudioFilename,
	}, nil)
}

// handleAudio stores a recording. The browser recorder posts a raw WAV body
// and receives JSON; the upload form posts multipart and is redirected back.
func (h handlers) handleAudio(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxAudioBytes)
	if isMultipart(r) {
		h.handleAudioForm(w, r, sessionID)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeJSONError(w, r, readError(err))
		return
	}
	filename, err := h.sessions.SaveAudio(r.Context(), sessionID, data)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"filename": filename})
}

func (h handlers) handleAudioForm(w http.ResponseWriter, r *http.Request, sessionID string) {
	file, _, err := r.FormFile("audio")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.rerenderAudio(w, r, sessionID, apperrors.Wrap(apperrors.KindInvalidInput, "errors.audio_empty", err))
			return
		}
		h.rerenderAudio(w, r, sessionID, readError(err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.rerenderAudio(w, r, sessionID, readError(err))
		return
	}
	if _, err := h.sessions.SaveAudio(r.Context(), sessionID, data); err != nil {
		h.rerenderAudio(w, r, sessionID, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Trial)
}

func (h handlers) handlePlayback(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	f, name, err := h.sessions.OpenAudio(r.Context(), sessionID)
	if err != nil {
		weberror.WriteModuleError(w, r, err, h.deps)
		return
	}
	defer f.Close()
	modTime := time.Time{}
	if info, err := f.Stat(); err == nil {
		modTime = info.ModTime()
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, name, modTime, f)
}

func (h handlers) handleCue(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)
	if err := r.ParseForm(); err != nil {
		weberror.WriteModuleError(w, r, apperrors.Wrap(apperrors.KindInvalidInput, "errors.form_invalid", err), h.deps)
		return
	}
	cue := r.PostForm.Get("cue")
	record, err := h.sessions.SubmitCue(r.Context(), sessionID, cue)
	switch {
	case err == nil:
	case errors.Is(err, experiment.ErrSessionComplete):
		httpx.WriteRedirect(w, r, routepath.Results)
		return
	case errors.Is(err, experiment.ErrEmptyCue), errors.Is(err, experiment.ErrAudioRequired):
		h.rerenderCue(w, r, sessionID, cue, err)
		return
	default:
		h.writeSessionError(w, r, err)
		return
	}
	if record.Trial >= experiment.TrialCount {
		httpx.WriteRedirect(w, r, routepath.Results)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Trial)
}

// rerenderCue shows the same trial again with the cue warning in place.
func (h handlers) rerenderCue(w http.ResponseWriter, r *http.Request, sessionID, cue string, cueErr error) {
	h.rerender(w, r, sessionID, func(view *templates.TrialView, message string) {
		view.Cue = strings.TrimSpace(cue)
		view.CueError = message
	}, cueErr)
}

func (h handlers) rerenderAudio(w http.ResponseWriter, r *http.Request, sessionID string, audioErr error) {
	h.rerender(w, r, sessionID, func(view *templates.TrialView, message string) {
		view.AudioError = message
	}, audioErr)
}

func (h handlers) rerender(w http.ResponseWriter, r *http.Request, sessionID string, apply func(*templates.TrialView, string), cause error) {
	cause = apperrors.FromDomain(cause)
	status := apperrors.HTTPStatus(cause)
	if weberror.ShouldRenderAppError(status) || status == http.StatusConflict {
		h.writeSessionError(w, r, cause)
		return
	}
	current, err := h.sessions.Current(r.Context(), sessionID)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	view := templates.TrialView{
		Number:        current.Number,
		Total:         current.Total,
		Trial:         current.Trial,
		AudioFilename: current.AudioFilename,
	}
	h.writeTrial(w, r, status, view, func(v *templates.TrialView, loc webi18n.Localizer) {
		apply(v, weberror.PublicMessage(loc, cause))
	})
}

func (h handlers) writeTrial(w http.ResponseWriter, r *http.Request, status int, view templates.TrialView, annotate func(*templates.TrialView, webi18n.Localizer)) {
	loc, lang := webi18n.ResolveLocalizer(w, r, h.deps.DefaultLanguage)
	if annotate != nil {
		annotate(&view, loc)
	}
	err := pagerender.WritePage(w, r, loc, lang, pagerender.Page{
		Title:       templates.TrialPageTitle(view, loc),
		StatusCode:  status,
		ShowRestart: true,
		Body:        templates.TrialPage(view, loc),
	})
	if err != nil {
		weberror.WriteModuleError(w, r, err, h.deps)
	}
}

// current loads the session's trial, redirecting when there is no live
// session or the session is already complete.
func (h handlers) current(w http.ResponseWriter, r *http.Request) (sessions.TrialView, bool) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return sessions.TrialView{}, false
	}
	view, err := h.sessions.Current(r.Context(), sessionID)
	if err != nil {
		h.writeSessionError(w, r, err)
		return sessions.TrialView{}, false
	}
	return view, true
}

func (h handlers) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, ok := sessioncookie.Read(r)
	if !ok {
		h.redirectHome(w, r)
		return "", false
	}
	return sessionID, true
}

// writeSessionError redirects for lifecycle errors and renders the rest.
func (h handlers) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		sessioncookie.Clear(w, r)
		h.redirectHome(w, r)
	case errors.Is(err, experiment.ErrSessionComplete):
		if httpx.WantsJSON(r) {
			weberror.WriteModuleError(w, r, err, h.deps)
			return
		}
		httpx.WriteRedirect(w, r, routepath.Results)
	default:
		weberror.WriteModuleError(w, r, err, h.deps)
	}
}

func (h handlers) redirectHome(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		weberror.WriteModuleError(w, r, sessions.ErrNotFound, h.deps)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Root)
}

// writeJSONError answers the recorder script, which always expects JSON.
func (h handlers) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, sessions.ErrNotFound) {
		sessioncookie.Clear(w, r)
	}
	err = apperrors.FromDomain(err)
	loc, _ := webi18n.ResolveLocalizer(w, r, h.deps.DefaultLanguage)
	_ = httpx.WriteJSONError(w, apperrors.HTTPStatus(err), weberror.PublicMessage(loc, err))
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func readError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.Wrap(apperrors.KindTooLarge, "errors.audio_too_large", err)
	}
	return apperrors.Wrap(apperrors.KindInvalidInput, "errors.form_invalid", err)
}
