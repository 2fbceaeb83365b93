package contextgen

import (
	"strings"
	"unicode/utf8"
)

// decodeLenient turns raw bytes into text, dropping invalid UTF-8 sequences.
func decodeLenient(data []byte) string {
	return normalizeNewlines(strings.ToValidUTF8(string(data), ""))
}

// decodeStrict turns raw bytes into text and reports false when the data is
// not valid UTF-8.
func decodeStrict(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return normalizeNewlines(string(data)), true
}

// normalizeNewlines converts CRLF and lone CR line endings to LF.
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
