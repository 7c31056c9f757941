package prefs

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// MsgSaved is the confirmation shown after a successful submit.
const MsgSaved = "Saved!"

// supported lists the languages with translations, fallback first.
var supported = []language.Tag{
	language.English,
	language.Italian,
}

var (
	messages = newCatalog()
	matcher  = language.NewMatcher(supported)
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	_ = b.SetString(language.English, MsgSaved, "Saved!")   //nolint:errcheck // static input
	_ = b.SetString(language.Italian, MsgSaved, "Salvato!") //nolint:errcheck // static input
	return b
}

// MatchLanguage picks the best supported language for a list of preferences
// such as "it", "it_IT.UTF-8" or "de-CH,it;q=0.8". Unknown input selects
// English.
func MatchLanguage(prefs ...string) language.Tag {
	tags := make([]language.Tag, 0, len(prefs))
	for _, p := range prefs {
		p = normalizeLocale(p)
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return supported[0]
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return supported[0]
	}
	return supported[index]
}

// EnvironmentLanguage returns the POSIX locale preference of the process.
func EnvironmentLanguage() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// normalizeLocale turns "it_IT.UTF-8@euro" into "it-IT". In a
// comma-separated list each tag is cleaned on its own and its ";q="
// weight is kept.
func normalizeLocale(s string) string {
	entries := strings.Split(s, ",")
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		tag, params, hasParams := strings.Cut(entry, ";")
		tag = normalizeTag(tag)
		if tag == "" {
			continue
		}
		if hasParams {
			tag += ";" + strings.TrimSpace(params)
		}
		out = append(out, tag)
	}
	return strings.Join(out, ",")
}

// normalizeTag cleans a single POSIX locale or language tag.
func normalizeTag(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}
