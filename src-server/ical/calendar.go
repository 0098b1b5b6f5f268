// The `ical` package parses and serializes iCalendar files.
//
// # References:
// - RFC5545: https://datatracker.ietf.org/doc/html/rfc5545
//
// # Notes:
// - Only the properties the Event struct knows about survive a parse; any
//   other property is dropped rather than kept around for re-serialization.
// - VTIMEZONE sections are skipped wholesale. Event date-times keep the
//   zone their own TZID parameter named, or Etc/UTC without one.
// - VALARM sections nest inside VEVENT; a raw RRULE value rides along with
//   each event so callers can expand recurrences, the package itself never
//   interprets it.
//
// # Example usage:
//
// Parse from a file
//	calendar, _ := ical.FromIcalFile("path/to/input/calendar.ics")
//
// Parse from an URL
//	calendar, _ := ical.FromIcalUrl("https://example.com/calendar.ics")
//
// Marshal to a string
//	var sb strings.Builder
//	calendar.ToIcal(func(s string) { sb.WriteString(s) })
package ical

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
)

// The main struct of the package
type Calendar struct {
	id          string
	prodID      string
	name        string
	description string
	entries     []calendarEntry
}

// One parsed VEVENT plus the raw RRULE content that rode along with it,
// "" when the event has none.
type calendarEntry struct {
	event Event
	rrule string
}

// Initialize a new Calendar{} struct
func NewCalendar() Calendar {
	return Calendar{
		id: uuid.NewString(),
	}
}

// Unmarshal an iCalendar file into a Calendar{} struct.
func FromIcalFile(path string) (*Calendar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, NewCustomError("can't open calendar file", map[string]any{
			"path": path,
			"err":  err,
		})
	}
	defer file.Close()

	return FromIcalReader(file)
}

// Unmarshal an iCalendar URL into a Calendar{} struct.
func FromIcalUrl(url_ string) (*Calendar, error) {
	validUrl, err := url.ParseRequestURI(url_)
	if err != nil {
		return nil, NewCustomError("can't parse URL", map[string]any{
			"url": url_,
			"err": err,
		})
	}

	resp, err := http.Get(validUrl.String())
	if err != nil {
		return nil, NewCustomError("can't make HTTP request", map[string]any{
			"url": url_,
			"err": err,
		})
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, NewCustomError("unexpected HTTP status", map[string]any{
			"url":    url_,
			"status": resp.Status,
		})
	}

	return FromIcalReader(resp.Body)
}

// Unmarshal iCalendar text from any reader. Each physical line gets
// TrimSpace'd on the way in, which also strips the one-space folding prefix
// and any CR left over from CRLF input.
func FromIcalReader(reader io.Reader) (*Calendar, error) {
	scanner := bufio.NewScanner(reader)
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, NewCustomError("can't read calendar lines", map[string]any{
			"err": err,
		})
	}
	return parseCalendar(lines)
}

// The shared parsing logic behind FromIcalFile, FromIcalUrl and
// FromIcalReader: unfold the whole document, then walk a small mode machine
// over the logical lines, collecting each VEVENT block and handing it to
// BuildEvent. Events come back in document order.
func parseCalendar(lines []string) (*Calendar, error) {
	cal := NewCalendar()
	var mode string
	var blockLines []string
	var blockRRule string

	for lineCount, line := range Unfold(lines) {
		if line == "" {
			continue
		}
		prop, err := ParseProperty(line)
		if err != nil {
			if mode == "event" {
				return nil, err
			}
			slog.Warn("skipping unparsable line", "line", lineCount+1, "content", line)
			continue
		}

		switch prop.Key {
		case "BEGIN":
			switch prop.Value {
			case "VCALENDAR":
				if mode == "calendar" {
					return nil, NewCustomError("nested VCALENDAR block", map[string]any{
						"line":    lineCount + 1,
						"content": line,
					})
				}
				mode = "calendar"
			case "VTIMEZONE":
				if mode != "calendar" {
					return nil, NewCustomError("VTIMEZONE block not in VCALENDAR block", map[string]any{
						"line":    lineCount + 1,
						"content": line,
					})
				}
				mode = "timezone"
			case "VEVENT":
				if mode == "event" {
					return nil, NewCustomError("nested VEVENT block", map[string]any{
						"line":    lineCount + 1,
						"content": line,
					})
				}
				mode = "event"
				blockLines = make([]string, 0)
				blockRRule = ""
			case "VALARM":
				if mode != "event" {
					return nil, NewCustomError("VALARM block not in VEVENT block", map[string]any{
						"line":    lineCount + 1,
						"content": line,
					})
				}
				blockLines = append(blockLines, line)
			default:
				// STANDARD/DAYLIGHT and other exotic blocks
				if mode == "" {
					return nil, NewCustomError("expecting BEGIN:VCALENDAR", map[string]any{
						"line":    lineCount + 1,
						"content": line,
					})
				}
			}
		case "END":
			switch prop.Value {
			case "VCALENDAR":
				mode = ""
			case "VTIMEZONE":
				if mode == "timezone" {
					mode = "calendar"
				}
			case "VEVENT":
				if mode != "event" {
					return nil, NewCustomError("unexpected END:VEVENT", map[string]any{
						"line":    lineCount + 1,
						"content": line,
					})
				}
				event, err := BuildEvent(blockLines)
				if err != nil {
					return nil, err
				}
				cal.entries = append(cal.entries, calendarEntry{event: event, rrule: blockRRule})
				mode = "calendar"
			case "VALARM":
				if mode == "event" {
					blockLines = append(blockLines, line)
				}
			}
		default:
			switch mode {
			case "timezone":
			case "calendar":
				switch prop.Key {
				case "VERSION", "CALSCALE", "METHOD", "X-WR-TIMEZONE":
				case "PRODID":
					cal.prodID = prop.Value
				case "X-WR-CALNAME":
					cal.name = prop.Value
				case "X-WR-CALDESC":
					cal.description = prop.Value
				default:
					slog.Debug("unhandled calendar line", "line", lineCount+1, "content", line)
				}
			case "event":
				if prop.Key == "RRULE" {
					blockRRule = prop.Value
				}
				blockLines = append(blockLines, line)
			default:
				slog.Warn("unhandled line", "line", lineCount+1, "content", line)
			}
		}
	}

	return &cal, nil
}

// Marshal the Calendar{} struct into iCalendar text through the writer.
// Events come out in the order they were parsed or added; an event's RRULE
// content is written back inside its VEVENT block.
func (cal *Calendar) ToIcal(writer func(string)) {
	writer("BEGIN:VCALENDAR\n")
	writer(fmt.Sprintf("PRODID:%s\n", cal.prodID))
	writer("VERSION:2.0\n")
	if cal.name != "" {
		writer(fmt.Sprintf("X-WR-CALNAME:%s\n", cal.name))
	}
	if cal.description != "" {
		writer(fmt.Sprintf("X-WR-CALDESC:%s\n", cal.description))
	}
	for i := range cal.entries {
		cal.entries[i].toIcal(writer)
	}
	writer("END:VCALENDAR\n")
}

func (entry *calendarEntry) toIcal(writer func(string)) {
	if entry.rrule == "" {
		entry.event.ToIcal(writer)
		return
	}
	entry.event.ToIcal(func(s string) {
		// slot the recurrence rule in just before the block closes
		if s == "END:VEVENT\n" {
			writer(fmt.Sprintf("RRULE:%s\n", entry.rrule))
		}
		writer(s)
	})
}

// #region Getters
func (c *Calendar) GetID() string {
	return c.id
}
func (c *Calendar) GetProdID() string {
	return c.prodID
}
func (c *Calendar) GetName() string {
	return c.name
}
func (c *Calendar) GetDescription() string {
	return c.description
}
func (c *Calendar) EventCount() int {
	return len(c.entries)
}

// #endregion

// #region Setters
func (c *Calendar) SetId(id string) *Calendar {
	c.id = id
	return c
}
func (c *Calendar) SetProdID(prodID string) *Calendar {
	c.prodID = prodID
	return c
}
func (c *Calendar) SetName(name string) *Calendar {
	c.name = name
	return c
}
func (c *Calendar) SetDescription(description string) *Calendar {
	c.description = description
	return c
}

// #endregion

// Attach an event to the calendar, along with the raw RRULE content driving
// its recurrence ("" for none).
func (c *Calendar) AddEvent(event Event, rrule string) *Calendar {
	c.entries = append(c.entries, calendarEntry{event: event, rrule: rrule})
	return c
}

// Iterate over all events in document order together with their raw RRULE
// content.
func (c *Calendar) IterateEvents(fn func(event Event, rrule string)) {
	for i := range c.entries {
		fn(c.entries[i].event, c.entries[i].rrule)
	}
}
