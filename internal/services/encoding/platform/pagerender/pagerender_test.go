package pagerender

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	platformi18n "github.com/louisbranch/encodingtask/internal/platform/i18n"
	"golang.org/x/text/message"
)

func TestWritePageRendersLayoutAndStatus(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trial/cue", nil)
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p id="body">cue</p>`)
		return err
	})
	err := WritePage(rr, req, message.NewPrinter(platformi18n.English), "en-US", Page{
		Title:       "Trial 1 of 10",
		StatusCode:  http.StatusBadRequest,
		ShowRestart: true,
		Body:        body,
	})
	if err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content-type = %q", got)
	}
	got := rr.Body.String()
	for _, marker := range []string{`<p id="body">cue</p>`, `href="/trial/cue?lang=zh-CN"`, `action="/restart"`} {
		if !strings.Contains(got, marker) {
			t.Fatalf("page missing %q in %q", marker, got)
		}
	}
}

func TestWritePageDefaultsStatusAndBody(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	if err := WritePage(rr, httptest.NewRequest(http.MethodGet, "/", nil), nil, "", Page{}); err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if strings.Contains(rr.Body.String(), `action="/restart"`) {
		t.Fatalf("restart button rendered without ShowRestart")
	}
}

func TestWritePageReturnsRenderErrorWithoutWriting(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	boom := errors.New("boom")
	err := WritePage(rr, httptest.NewRequest(http.MethodGet, "/", nil), nil, "zh-CN", Page{
		Body: templ.ComponentFunc(func(context.Context, io.Writer) error { return boom }),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WritePage() error = %v, want %v", err, boom)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("body = %q, want empty", rr.Body.String())
	}
}
