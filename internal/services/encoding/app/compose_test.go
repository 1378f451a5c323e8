package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	module "github.com/louisbranch/encodingtask/internal/services/encoding/module"
	"github.com/louisbranch/encodingtask/internal/testkit/encodingtest"
	"golang.org/x/text/language"
)

type stubModule struct {
	id    string
	mount module.Mount
	err   error
}

func (m stubModule) ID() string { return m.id }

func (m stubModule) Mount(module.Dependencies) (module.Mount, error) {
	return m.mount, m.err
}

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestComposeRejectsInvalidModules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modules []module.Module
	}{
		{name: "nil module", modules: []module.Module{nil}},
		{name: "mount error", modules: []module.Module{stubModule{id: "broken", err: errors.New("boom")}}},
		{name: "missing handler", modules: []module.Module{stubModule{id: "one", mount: module.Mount{Patterns: []string{"/one"}}}}},
		{name: "missing patterns", modules: []module.Module{stubModule{id: "one", mount: module.Mount{Handler: noContent()}}}},
		{name: "relative pattern", modules: []module.Module{stubModule{id: "one", mount: module.Mount{Patterns: []string{"one"}, Handler: noContent()}}}},
		{name: "root pattern", modules: []module.Module{stubModule{id: "one", mount: module.Mount{Patterns: []string{"/"}, Handler: noContent()}}}},
		{name: "static pattern", modules: []module.Module{stubModule{id: "one", mount: module.Mount{Patterns: []string{"/static/x"}, Handler: noContent()}}}},
		{name: "duplicate pattern", modules: []module.Module{
			stubModule{id: "one", mount: module.Mount{Patterns: []string{"/one"}, Handler: noContent()}},
			stubModule{id: "two", mount: module.Mount{Patterns: []string{"/one"}, Handler: noContent()}},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Compose(ComposeInput{Modules: tc.modules}); err == nil {
				t.Fatalf("Compose() error = nil, want error")
			}
		})
	}
}

func TestComposeDuplicateErrorNamesOwner(t *testing.T) {
	t.Parallel()

	_, err := Compose(ComposeInput{Modules: []module.Module{
		stubModule{id: "one", mount: module.Mount{Patterns: []string{"/one"}, Handler: noContent()}},
		stubModule{id: "two", mount: module.Mount{Patterns: []string{"/one"}, Handler: noContent()}},
	}})
	if err == nil || !strings.Contains(err.Error(), `owned by module "one"`) {
		t.Fatalf("Compose() error = %v, want owner in message", err)
	}
}

func TestComposeMountsPatternsAndRendersNotFound(t *testing.T) {
	t.Parallel()

	h, err := Compose(ComposeInput{
		Dependencies: module.Dependencies{DefaultLanguage: language.AmericanEnglish},
		Modules: []module.Module{
			stubModule{id: "one", mount: module.Mount{Patterns: []string{"/one"}, Handler: noContent()}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/one", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("GET /one status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("GET /missing status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if body := rr.Body.String(); !strings.Contains(body, `data-status="404"`) {
		t.Fatalf("GET /missing body missing error page: %q", body)
	}
}

func TestDefaultModulesCompose(t *testing.T) {
	t.Parallel()

	env := encodingtest.New(t, encodingtest.Options{})
	h, err := Compose(ComposeInput{Dependencies: env.Deps, Modules: DefaultModules()})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{method: http.MethodGet, path: "/", wantStatus: http.StatusOK},
		{method: http.MethodGet, path: "/trial", wantStatus: http.StatusSeeOther},
		{method: http.MethodGet, path: "/results", wantStatus: http.StatusSeeOther},
		{method: http.MethodGet, path: "/restart", wantStatus: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/nowhere", wantStatus: http.StatusNotFound},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != tc.wantStatus {
			t.Fatalf("%s %s status = %d, want %d", tc.method, tc.path, rr.Code, tc.wantStatus)
		}
	}
}
