package ical

import "strings"

// One decoded content line. The value keeps its escape sequences; unescaping
// happens at dispatch time because UID and TZID want the raw text.
type Property struct {
	Key    string
	Params map[string]string
	Value  string
}

// Split a logical line into a key, a parameter map and the raw value. The
// split happens at the first colon not preceded by a backslash; a line
// without one is structurally broken and fails with ErrMalformedLine. The
// key is upcased, parameter names and values are kept exactly as written,
// duplicate parameter names are last-write-wins and a segment without "="
// becomes a parameter with an empty value. Params is never nil.
func ParseProperty(line string) (Property, error) {
	sep := indexUnescaped(line, ':')
	if sep < 0 {
		return Property{}, NewCustomError("no colon separator in content line", map[string]any{
			"content": line,
		}).Kind(ErrMalformedLine)
	}

	segments := strings.Split(line[:sep], ";")
	prop := Property{
		Key:    strings.ToUpper(segments[0]),
		Params: make(map[string]string),
		Value:  line[sep+1:],
	}
	for _, segment := range segments[1:] {
		if segment == "" {
			continue
		}
		parts := strings.SplitN(segment, "=", 2)
		if len(parts) == 2 {
			prop.Params[parts[0]] = parts[1]
		} else {
			prop.Params[segment] = ""
		}
	}
	return prop, nil
}

// Index of the first occurrence of sep in s that is not preceded by a
// backslash, -1 when there is none.
func indexUnescaped(s string, sep byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] != sep {
			continue
		}
		if i > 0 && s[i-1] == '\\' {
			continue
		}
		return i
	}
	return -1
}
