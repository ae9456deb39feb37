package printer

import (
	"strings"

	"github.com/go-json-experiment/json/jsontext"
)

// quoteJSON renders a string as a double-quoted JS string literal with
// JSON escaping, the same quoting JSON.stringify produces.
func quoteJSON(s string) string {
	b, err := jsontext.AppendQuote(nil, s)
	if err != nil {
		// quoting a Go string can only fail on invalid UTF-8; fall back to
		// a replacement-sanitized quote
		b, _ = jsontext.AppendQuote(nil, strings.ToValidUTF8(s, "�"))
	}
	return string(b)
}

// escapeTemplateString escapes a raw chunk for embedding in a backtick
// template literal.
func escapeTemplateString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "`", "\\`")
	s = strings.ReplaceAll(s, "$", `\$`)
	return s
}
