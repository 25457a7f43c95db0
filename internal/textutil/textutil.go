// Package textutil converts raw metadata and scraped text into clean
// UTF-8 strings and escapes text for typst markup.
package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Normalize converts v to a trimmed UTF-8 string.
// nil yields def; []byte is decoded as UTF-8 with a Latin-1 fallback;
// strings and fmt.Stringers are trimmed. Other types yield def.
func Normalize(v any, def string) string {
	switch t := v.(type) {
	case nil:
		return def
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return NormalizeBytes(t)
	case interface{ String() string }:
		return strings.TrimSpace(t.String())
	default:
		return def
	}
}

// NormalizeBytes decodes b as UTF-8, falling back to Latin-1, and trims it.
// It never fails: every byte sequence is valid Latin-1.
func NormalizeBytes(b []byte) string {
	if utf8.Valid(b) {
		return strings.TrimSpace(string(b))
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return strings.TrimSpace(strings.ToValidUTF8(string(b), "�"))
	}
	return strings.TrimSpace(string(decoded))
}

// Stem returns the file name without directory and extension.
// A name consisting only of an extension is returned unchanged.
func Stem(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		return name
	}
	return name[:dot]
}

var markupEscaper = strings.NewReplacer(
	`\`, `\\`,
	`#`, `\#`,
	`$`, `\$`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`<`, `\<`,
	`>`, `\>`,
	`@`, `\@`,
	`[`, `\[`,
	`]`, `\]`,
)

// EscapeMarkup escapes characters with meaning in typst markup mode.
func EscapeMarkup(s string) string {
	return markupEscaper.Replace(s)
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", " ", "\r", "")

// QuoteString renders s as a typst string literal.
func QuoteString(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}
