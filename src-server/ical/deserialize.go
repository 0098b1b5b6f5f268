package ical

import "strings"

// Fold a VEVENT block's text lines into one Event. The lines are unfolded
// first, then every logical line is tokenized and dispatched. BEGIN:VALARM
// opens a nested alarm builder and END:VALARM seals it onto the event;
// while any alarm is open, every property goes to the newest open builder
// instead of the event. Only structurally broken lines (no colon) abort the
// build - a half-broken feed should still yield a usable event, so date and
// geo values that won't parse just leave their field unset.
//
// Callers may leave the surrounding BEGIN:VEVENT/END:VEVENT markers in the
// line sequence; both fall through the dispatch table as no-ops. So does an
// END:VALARM with no alarm open.
func BuildEvent(lines []string) (Event, error) {
	event := NewEvent()
	openAlarms := make([]*PartialAlarm, 0, 1)

	for _, line := range Unfold(lines) {
		prop, err := ParseProperty(line)
		if err != nil {
			return Event{}, err
		}

		switch {
		case prop.Key == "BEGIN" && prop.Value == "VALARM":
			openAlarms = append(openAlarms, NewPartialAlarm())
		case prop.Key == "END" && prop.Value == "VALARM" && len(openAlarms) > 0:
			finished := openAlarms[len(openAlarms)-1].Finalize()
			openAlarms = openAlarms[:len(openAlarms)-1]
			// alarms finished later sit at the front of the list
			event.alarms = append([]Alarm{finished}, event.alarms...)
		case len(openAlarms) > 0:
			// stored verbatim, no unescaping, params dropped
			openAlarms[len(openAlarms)-1].setField(strings.ToLower(prop.Key), prop.Value)
		default:
			dispatchProperty(&event, prop)
		}
	}
	return event, nil
}

// Route one property into its event field. Keys without a row here are
// consumed with no effect, which is how unknown properties, the VEVENT
// bracket markers and unbalanced END:VALARM lines all stay harmless.
func dispatchProperty(event *Event, prop Property) {
	switch prop.Key {
	case "DESCRIPTION":
		event.description = Unescape(prop.Value)
	case "DTSTART":
		if parsed, err := ParseDate(prop.Value, prop.Params); err == nil {
			event.dtStart = &parsed
		}
	case "DTEND":
		if parsed, err := ParseDate(prop.Value, prop.Params); err == nil {
			event.dtEnd = &parsed
		}
	case "SUMMARY":
		event.summary = Unescape(prop.Value)
	case "LOCATION":
		event.location = Unescape(prop.Value)
	case "COMMENT":
		event.comment = Unescape(prop.Value)
	case "STATUS":
		event.status = strings.ToLower(Unescape(prop.Value))
	case "CATEGORIES":
		event.categories = strings.Split(Unescape(prop.Value), ",")
	case "CLASS":
		event.class = strings.ToLower(Unescape(prop.Value))
	case "GEO":
		if parsed, err := ParseGeo(prop.Value); err == nil {
			event.geo = &parsed
		}
	case "UID":
		event.uid = prop.Value
	case "TZID":
		event.tzid = prop.Value
	}
}
