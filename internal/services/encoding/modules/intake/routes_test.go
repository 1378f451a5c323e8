package intake

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/sessioncookie"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
	"github.com/louisbranch/encodingtask/internal/services/encoding/sessions"
	"github.com/louisbranch/encodingtask/internal/services/encoding/storage"
	"github.com/louisbranch/encodingtask/internal/testkit/encodingtest"
)

func validForm() url.Values {
	return url.Values{
		"sub_id":     {"S01"},
		"group":      {"2"},
		"gender":     {"female"},
		"age":        {"24"},
		"handedness": {"right"},
	}
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func newMux(t *testing.T, env *encodingtest.Env) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(env.Deps))
	return mux
}

func TestRegisterRoutesHandlesNilMux(t *testing.T) {
	t.Parallel()

	registerRoutes(nil, handlers{})
}

func TestMountRequiresSessions(t *testing.T) {
	t.Parallel()

	if _, err := New().Mount(encodingtest.New(t, encodingtest.Options{}).Deps); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	var empty = encodingtest.New(t, encodingtest.Options{}).Deps
	empty.Sessions = nil
	if _, err := New().Mount(empty); err == nil {
		t.Fatal("expected Mount() error without sessions")
	}
	if got := New().ID(); got != "intake" {
		t.Fatalf("ID() = %q, want %q", got, "intake")
	}
}

func TestRegisterRoutesPathAndMethodContracts(t *testing.T) {
	t.Parallel()

	mux := newMux(t, encodingtest.New(t, encodingtest.Options{}))

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantAllow  string
	}{
		{name: "form", req: httptest.NewRequest(http.MethodGet, routepath.Root, nil), wantStatus: http.StatusOK},
		{name: "start", req: postForm(routepath.Root, validForm()), wantStatus: http.StatusSeeOther},
		{name: "start empty form", req: postForm(routepath.Root, url.Values{}), wantStatus: http.StatusBadRequest},
		{name: "restart", req: httptest.NewRequest(http.MethodPost, routepath.Restart, nil), wantStatus: http.StatusSeeOther},
		{name: "restart get rejected", req: httptest.NewRequest(http.MethodGet, routepath.Restart, nil), wantStatus: http.StatusMethodNotAllowed, wantAllow: http.MethodPost},
		{name: "root delete rejected", req: httptest.NewRequest(http.MethodDelete, routepath.Root, nil), wantStatus: http.StatusMethodNotAllowed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, tc.req)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if tc.wantAllow != "" {
				if got := rr.Header().Get("Allow"); got != tc.wantAllow {
					t.Fatalf("Allow = %q, want %q", got, tc.wantAllow)
				}
			}
		})
	}
}

func TestStartSetsSessionCookieAndRedirectsToTrial(t *testing.T) {
	t.Parallel()

	env := encodingtest.New(t, encodingtest.Options{})
	rr := httptest.NewRecorder()
	newMux(t, env).ServeHTTP(rr, postForm(routepath.Root, validForm()))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if got := rr.Header().Get("Location"); got != routepath.Trial {
		t.Fatalf("Location = %q, want %q", got, routepath.Trial)
	}
	cookie, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}
	if cookie.Name != sessioncookie.Name || cookie.Value != "session-1" {
		t.Fatalf("cookie = %s=%s, want %s=session-1", cookie.Name, cookie.Value, sessioncookie.Name)
	}
	view, err := env.Manager.Current(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if view.Participant.ID != "S01" || view.Participant.Group != 2 {
		t.Fatalf("participant = %+v", view.Participant)
	}
}

func TestStartRejectsEmptyParticipantIDWithoutSession(t *testing.T) {
	t.Parallel()

	env := encodingtest.New(t, encodingtest.Options{})
	form := validForm()
	form.Set("sub_id", "   ")
	rr := httptest.NewRecorder()
	newMux(t, env).ServeHTTP(rr, postForm(routepath.Root, form))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if body := rr.Body.String(); !strings.Contains(body, "Please enter a participant ID.") {
		t.Fatalf("body missing localized error: %q", body)
	}
	if got := rr.Header().Get("Set-Cookie"); got != "" {
		t.Fatalf("Set-Cookie = %q, want none", got)
	}
	if _, err := env.Store.GetSession(context.Background(), "session-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetSession() error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestStartValidationMessages(t *testing.T) {
	t.Parallel()

	env := encodingtest.New(t, encodingtest.Options{})
	mux := newMux(t, env)
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{name: "long id", field: "sub_id", value: "ABCDEFGHIJK", want: "at most 10 characters"},
		{name: "slash id", field: "sub_id", value: "a/b", want: "at most 10 characters"},
		{name: "group", field: "group", value: "4", want: "Please choose a group."},
		{name: "gender", field: "gender", value: "other", want: "Please choose a gender."},
		{name: "handedness", field: "handedness", value: "", want: "Please choose a handedness."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			form.Set(tc.field, tc.value)
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, postForm(routepath.Root, form))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if body := rr.Body.String(); !strings.Contains(body, tc.want) {
				t.Fatalf("body missing %q", tc.want)
			}
		})
	}
}

func TestStartReportsSmallPool(t *testing.T) {
	t.Parallel()

	env := encodingtest.New(t, encodingtest.Options{PoolSize: 8})
	form := validForm()
	form.Set("group", "1")
	rr := httptest.NewRecorder()
	newMux(t, env).ServeHTTP(rr, postForm(routepath.Root, form))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
	want := "The word pool has 8 words but group 1 needs at least 10."
	if body := rr.Body.String(); !strings.Contains(body, want) {
		t.Fatalf("body missing %q", want)
	}
	if _, err := env.Manager.Current(context.Background(), "session-1"); !errors.Is(err, sessions.ErrNotFound) {
		t.Fatalf("Current() error = %v, want %v", err, sessions.ErrNotFound)
	}
}

func TestFormForwardsLiveSessions(t *testing.T) {
	t.Parallel()

	env := encodingtest.New(t, encodingtest.Options{})
	live := env.Start(t, 1)
	done := env.Start(t, 1)
	env.Complete(t, done)
	mux := newMux(t, env)

	tests := []struct {
		name         string
		cookie       string
		wantStatus   int
		wantLocation string
		wantCleared  bool
	}{
		{name: "live", cookie: live, wantStatus: http.StatusSeeOther, wantLocation: routepath.Trial},
		{name: "complete", cookie: done, wantStatus: http.StatusSeeOther, wantLocation: routepath.Results},
		{name: "stale", cookie: "gone", wantStatus: http.StatusOK, wantCleared: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, routepath.Root, nil)
			req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: tc.cookie})
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if got := rr.Header().Get("Location"); got != tc.wantLocation {
				t.Fatalf("Location = %q, want %q", got, tc.wantLocation)
			}
			if tc.wantCleared && !strings.Contains(rr.Header().Get("Set-Cookie"), "Max-Age=0") {
				t.Fatalf("Set-Cookie = %q, want cleared session cookie", rr.Header().Get("Set-Cookie"))
			}
		})
	}
}

func TestRestartForgetsSession(t *testing.T) {
	t.Parallel()

	env := encodingtest.New(t, encodingtest.Options{})
	id := env.Start(t, 1)
	req := httptest.NewRequest(http.MethodPost, routepath.Restart, nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: id})
	rr := httptest.NewRecorder()
	newMux(t, env).ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if got := rr.Header().Get("Location"); got != routepath.Root {
		t.Fatalf("Location = %q, want %q", got, routepath.Root)
	}
	if _, err := env.Manager.Current(context.Background(), id); !errors.Is(err, sessions.ErrNotFound) {
		t.Fatalf("Current() error = %v, want %v", err, sessions.ErrNotFound)
	}
}

func TestFormRendersInDefaultChinese(t *testing.T) {
	t.Parallel()

	env := encodingtest.New(t, encodingtest.Options{Language: encodingtest.Chinese})
	rr := httptest.NewRecorder()
	newMux(t, env).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Root, nil))
	if body := rr.Body.String(); !strings.Contains(body, `<html lang="zh-CN">`) {
		t.Fatalf("body missing zh-CN document language")
	}
}
