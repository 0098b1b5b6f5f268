package ical

// Write the event as one BEGIN:VEVENT block: one content line per set
// field, in struct declaration order, each newline-terminated, with the
// alarm blocks nested in place. The same writer-func shape as
// (*Calendar).ToIcal so output can be streamed anywhere.
func (e *Event) ToIcal(writer func(string)) {
	write := func(line string) {
		if line != "" {
			writer(line)
		}
	}

	writer("BEGIN:VEVENT\n")
	write(buildLine("SUMMARY", e.summary))
	write(buildLine("DTSTART", e.dtStart))
	write(buildLine("DTEND", e.dtEnd))
	write(buildLine("DESCRIPTION", e.description))
	write(buildLine("LOCATION", e.location))
	write(buildLine("URL", e.url))
	write(buildLine("UID", e.uid))
	write(buildLine("STATUS", e.status))
	write(buildLine("CATEGORIES", e.categories))
	write(buildLine("CLASS", e.class))
	write(buildLine("COMMENT", e.comment))
	write(buildLine("GEO", e.geo))
	for i := range e.alarms {
		e.alarms[i].ToIcal(writer)
	}
	write(buildLine("TZID", e.tzid))
	writer("END:VEVENT\n")
}

// Transform a writer into one that folds long content lines at 75
// characters, marking continuations with a leading space. Meant for output
// that other calendar clients will consume; the package's own readers strip
// the fold markers back out.
func Split75wrapper(writer func(string)) func(string) {
	return func(str string) {
		if len(str) <= 75 {
			writer(str)
			return
		}

		// the trailing newline stays glued to the last chunk
		body := str
		suffix := ""
		if len(body) > 0 && body[len(body)-1] == '\n' {
			body = body[:len(body)-1]
			suffix = "\n"
		}
		for i := 0; i < len(body); i += 75 {
			end := i + 75
			if end > len(body) {
				end = len(body)
			}
			switch {
			case i == 0:
				writer(body[i:end] + "\n")
			case end == len(body):
				writer(" " + body[i:end] + suffix)
			default:
				writer(" " + body[i:end] + "\n")
			}
		}
	}
}
