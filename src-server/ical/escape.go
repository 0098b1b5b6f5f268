package ical

import "strings"

var escaper = strings.NewReplacer(
	",", `\,`,
	";", `\;`,
	"\n", `\n`,
)

// Backslash-prefix the characters that would otherwise split or break a
// content line.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Drop every backslash, no matter what follows it. Not a full RFC 5545
// unescape (`\\` and `\n` pairs are not interpreted); kept this way because
// existing feeds and stored events rely on it.
func Unescape(s string) string {
	return strings.ReplaceAll(s, "\\", "")
}
