package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  language.Tag
		ok    bool
	}{
		{value: "zh-CN", want: SimplifiedChinese, ok: true},
		{value: "zh", want: SimplifiedChinese, ok: true},
		{value: "en-US", want: English, ok: true},
		{value: "en", want: English, ok: true},
		{value: " en-GB ", want: English, ok: true},
		{value: "fr-FR", ok: false},
		{value: "", ok: false},
		{value: "not a tag", ok: false},
	}
	for _, tc := range tests {
		got, ok := ParseTag(tc.value)
		if ok != tc.ok {
			t.Fatalf("ParseTag(%q) ok = %t, want %t", tc.value, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseTag(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestMatchTags(t *testing.T) {
	t.Parallel()

	if got := MatchTags(nil, English); got != English {
		t.Fatalf("MatchTags(nil) = %v, want %v", got, English)
	}
	if got := MatchTags([]language.Tag{language.French, language.English}, SimplifiedChinese); got != English {
		t.Fatalf("MatchTags(fr, en) = %v, want %v", got, English)
	}
	if got := MatchTags([]language.Tag{language.Japanese}, SimplifiedChinese); got != SimplifiedChinese {
		t.Fatalf("MatchTags(ja) = %v, want fallback", got)
	}
}

func TestDefaultTagIsSupported(t *testing.T) {
	t.Parallel()

	tags := SupportedTags()
	if tags[0] != DefaultTag() {
		t.Fatalf("SupportedTags()[0] = %v, want default %v", tags[0], DefaultTag())
	}
	if LocaleString(language.MustParse("zh-Hans-CN")) != "zh-CN" {
		t.Fatalf("LocaleString(zh-Hans-CN) = %q", LocaleString(language.MustParse("zh-Hans-CN")))
	}
}
