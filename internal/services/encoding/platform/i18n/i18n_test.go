package i18n

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	platformi18n "github.com/louisbranch/encodingtask/internal/platform/i18n"
	apperrors "github.com/louisbranch/encodingtask/internal/services/encoding/platform/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestResolveTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		url         string
		cookie      string
		accept      string
		fallback    language.Tag
		want        language.Tag
		wantPersist bool
	}{
		{name: "fallback", url: "/", fallback: platformi18n.SimplifiedChinese, want: platformi18n.SimplifiedChinese},
		{name: "configured english fallback", url: "/", fallback: platformi18n.English, want: platformi18n.English},
		{name: "unsupported fallback", url: "/", fallback: language.French, want: platformi18n.DefaultTag()},
		{name: "query wins", url: "/?lang=en-US", cookie: "zh-CN", accept: "zh-CN", fallback: platformi18n.SimplifiedChinese, want: platformi18n.English, wantPersist: true},
		{name: "bad query ignored", url: "/?lang=klingon", cookie: "en-US", fallback: platformi18n.SimplifiedChinese, want: platformi18n.English},
		{name: "cookie before header", url: "/", cookie: "en-US", accept: "zh-CN", fallback: platformi18n.SimplifiedChinese, want: platformi18n.English},
		{name: "accept header", url: "/", accept: "en-GB,en;q=0.8", fallback: platformi18n.SimplifiedChinese, want: platformi18n.English},
		{name: "unmatched header", url: "/", accept: "fr-FR", fallback: platformi18n.English, want: platformi18n.English},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			got, persist := ResolveTag(req, tc.fallback)
			if got != tc.want {
				t.Fatalf("ResolveTag() = %q, want %q", got, tc.want)
			}
			if persist != tc.wantPersist {
				t.Fatalf("persist = %v, want %v", persist, tc.wantPersist)
			}
		})
	}

	if got, _ := ResolveTag(nil, platformi18n.English); got != platformi18n.English {
		t.Fatalf("ResolveTag(nil) = %q, want %q", got, platformi18n.English)
	}
}

func TestResolveLocalizerPersistsQuerySwitch(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?lang=en-US", nil)
	printer, lang := ResolveLocalizer(rr, req, platformi18n.SimplifiedChinese)
	if lang != "en-US" {
		t.Fatalf("lang = %q, want %q", lang, "en-US")
	}
	if got := printer.Sprintf("trial.page_title", 3, 10); got != "Trial 3 of 10" {
		t.Fatalf("Sprintf() = %q, want %q", got, "Trial 3 of 10")
	}
	cookie, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}
	if cookie.Name != LangCookieName || cookie.Value != "en-US" {
		t.Fatalf("cookie = %s=%s, want %s=en-US", cookie.Name, cookie.Value, LangCookieName)
	}

	quiet := httptest.NewRecorder()
	ResolveLocalizer(quiet, httptest.NewRequest(http.MethodGet, "/", nil), platformi18n.SimplifiedChinese)
	if got := quiet.Header().Get("Set-Cookie"); got != "" {
		t.Fatalf("Set-Cookie = %q, want empty without explicit switch", got)
	}
}

func TestLocalizeError(t *testing.T) {
	t.Parallel()

	printer := message.NewPrinter(platformi18n.English)
	if got := LocalizeError(printer, nil); got != "" {
		t.Fatalf("LocalizeError(nil) = %q, want empty", got)
	}
	if got := LocalizeError(printer, stderrors.New(" plain ")); got != "plain" {
		t.Fatalf("LocalizeError(untyped) = %q, want %q", got, "plain")
	}
	err := apperrors.Wrap(apperrors.KindPrecondition, "errors.pool_too_small", stderrors.New("short"), 5, 3, 30)
	want := "The word pool has 5 words but group 3 needs at least 30."
	if got := LocalizeError(printer, err); got != want {
		t.Fatalf("LocalizeError() = %q, want %q", got, want)
	}
	if got := LocalizeError(nil, err); got != "short" {
		t.Fatalf("LocalizeError(nil loc) = %q, want %q", got, "short")
	}
}

func TestLanguageOptions(t *testing.T) {
	t.Parallel()

	options := LanguageOptions(message.NewPrinter(platformi18n.English), "en-US")
	if len(options) != 2 {
		t.Fatalf("len(options) = %d, want 2", len(options))
	}
	if options[0].Tag != "zh-CN" || options[0].Label != "中文" || options[0].Active {
		t.Fatalf("options[0] = %+v, want inactive zh-CN labelled 中文", options[0])
	}
	if options[1].Tag != "en-US" || options[1].Label != "English" || !options[1].Active {
		t.Fatalf("options[1] = %+v, want active en-US labelled English", options[1])
	}

	fallback := LanguageOptions(nil, "nonsense")
	if !fallback[0].Active || fallback[0].Label != "zh-CN" {
		t.Fatalf("fallback[0] = %+v, want active default labelled by tag", fallback[0])
	}
}
