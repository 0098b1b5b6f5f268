package ical

import (
	"strings"
	"time"
)

const (
	dateLayout     = "20060102"
	dateTimeLayout = "20060102T150405"
)

// A parsed DTSTART/DTEND value. DateOnly marks values that carried
// VALUE=DATE and so have no time-of-day or timezone meaning.
type DateTime struct {
	time.Time
	DateOnly bool
}

// Parse a date-time value the way calendar feeds spell them:
//
//   - `DTSTART;VALUE=DATE:20200101` - a bare date
//   - `DTSTART;TZID=America/Chicago:19980119T020000` - wall clock in a zone
//   - `DTSTART:19930407T153022Z` - no TZID defaults to Etc/UTC
//
// The wall-clock digits are always read literally and reinterpreted in the
// named zone; a trailing "Z" on the value is tolerated either way. Every
// failure comes back as ErrDateFormat so the accumulator can swallow it.
func ParseDate(value string, params map[string]string) (DateTime, error) {
	if params["VALUE"] == "DATE" {
		parsed, err := time.Parse(dateLayout, value)
		if err != nil {
			return DateTime{}, NewCustomError("can't parse date value", map[string]any{
				"value": value,
				"err":   err,
			}).Kind(ErrDateFormat)
		}
		return DateTime{Time: parsed, DateOnly: true}, nil
	}

	tzid, ok := params["TZID"]
	if !ok {
		tzid = "Etc/UTC"
	}
	location, err := time.LoadLocation(tzid)
	if err != nil {
		return DateTime{}, NewCustomError("invalid TZID", map[string]any{
			"tzid": tzid,
			"err":  err,
		}).Kind(ErrDateFormat)
	}
	parsed, err := time.ParseInLocation(dateTimeLayout, strings.TrimSuffix(value, "Z"), location)
	if err != nil {
		return DateTime{}, NewCustomError("can't parse date-time value", map[string]any{
			"value": value,
			"err":   err,
		}).Kind(ErrDateFormat)
	}
	return DateTime{Time: parsed}, nil
}
