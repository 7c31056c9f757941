package prefs

import (
	"testing"

	"golang.org/x/text/language"
)

// TestMatchLanguage tests locale parsing and fallback.
func TestMatchLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		prefs []string
		want  language.Tag
	}{
		{name: "no preference", prefs: nil, want: language.English},
		{name: "italian", prefs: []string{"it"}, want: language.Italian},
		{name: "posix locale", prefs: []string{"it_IT.UTF-8"}, want: language.Italian},
		{name: "swiss italian", prefs: []string{"it-CH"}, want: language.Italian},
		{name: "accept-language list", prefs: []string{"de-CH,it;q=0.8"}, want: language.Italian},
		{name: "posix entries in a list", prefs: []string{"de_CH.UTF-8,it_IT;q=0.8"}, want: language.Italian},
		{name: "C locale", prefs: []string{"C"}, want: language.English},
		{name: "unsupported", prefs: []string{"ja_JP.UTF-8"}, want: language.English},
		{name: "garbage", prefs: []string{"!!"}, want: language.English},
		{name: "first non-empty wins", prefs: []string{"", "it"}, want: language.Italian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MatchLanguage(tt.prefs...); got != tt.want {
				t.Errorf("MatchLanguage(%v) = %v, want %v", tt.prefs, got, tt.want)
			}
		})
	}
}

// TestNormalizeLocale tests POSIX locale cleanup.
func TestNormalizeLocale(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"it_IT.UTF-8":    "it-IT",
		"it_IT@euro":     "it-IT",
		"en":             "en",
		"POSIX":          "",
		"  de_DE.utf8  ": "de-DE",
		"de-CH,it;q=0.8": "de-CH,it;q=0.8",
		"de_CH,it;q=0.9": "de-CH,it;q=0.9",
		"C,it;q=0.5":     "it;q=0.5",
	}
	for in, want := range tests {
		if got := normalizeLocale(in); got != want {
			t.Errorf("normalizeLocale(%q) = %q, want %q", in, got, want)
		}
	}
}
