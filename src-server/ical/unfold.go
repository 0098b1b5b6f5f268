package ical

import "regexp"

// A content line opens with an uppercase property key, optionally decorated
// with ;param=value segments, then a colon. Physical lines that don't look
// like that are continuations of the previous line.
var contentLinePattern = regexp.MustCompile(`^[A-Z][A-Z0-9-]*(;[^:]*)?:`)

// Merge folded physical lines back into complete logical content lines.
// Continuation text is appended byte-for-byte; whoever read the lines is
// expected to have stripped the folding whitespace and line breaks already.
// The very first line always opens the first logical line, shaped or not.
func Unfold(lines []string) []string {
	logical := make([]string, 0, len(lines))
	for i, line := range lines {
		if i > 0 && !contentLinePattern.MatchString(line) {
			logical[len(logical)-1] += line
			continue
		}
		logical = append(logical, line)
	}
	return logical
}
