package ical_test

import (
	"strings"
	"testing"
	"time"

	"calfeed/src-server/ical"

	"github.com/google/go-cmp/cmp"
)

func TestEventToIcal(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatal(err)
	}

	// case: one line per set field, in declaration order, byte-exact
	func() {
		event := ical.NewEvent()
		event.
			SetSummary("Team lunch").
			SetStartDate(ical.DateTime{Time: time.Date(1998, 1, 19, 2, 0, 0, 0, chicago)}).
			SetEndDate(ical.DateTime{Time: time.Date(1998, 1, 19, 3, 0, 0, 0, chicago)}).
			SetDescription("bring, the slides").
			SetLocation("Room 4").
			SetUrl("https://example.com/lunch").
			SetUid("evt-123@example.com").
			SetStatus("confirmed").
			SetCategories([]string{"lorem", "ipsum"}).
			SetClass("public").
			SetComment("first one of the year").
			SetGeo(ical.Geo{Lat: 41.8781, Lon: -87.6298}).
			SetTzid("America/Chicago")
		partial := ical.NewPartialAlarm()
		partial.SetTrigger("-PT15M").SetDescription("Reminder")
		event.AddAlarm(partial.Finalize())

		var sb strings.Builder
		event.ToIcal(func(s string) { sb.WriteString(s) })

		want := strings.Join([]string{
			"BEGIN:VEVENT",
			"SUMMARY:Team lunch",
			"DTSTART;TZID=America/Chicago:19980119T020000",
			"DTEND;TZID=America/Chicago:19980119T030000",
			`DESCRIPTION:bring\, the slides`,
			"LOCATION:Room 4",
			"URL:https://example.com/lunch",
			"UID:evt-123@example.com",
			"STATUS:CONFIRMED",
			"CATEGORIES:lorem,ipsum",
			"CLASS:PUBLIC",
			"COMMENT:first one of the year",
			"GEO:41.8781;-87.6298",
			"BEGIN:VALARM",
			"TRIGGER:-PT15M",
			"ACTION:DISPLAY",
			"DESCRIPTION:Reminder",
			"END:VALARM",
			"TZID:America/Chicago",
			"END:VEVENT",
		}, "\n") + "\n"
		if diff := cmp.Diff(want, sb.String()); diff != "" {
			t.Error(diff)
		}
	}()

	// case: unset fields render nothing
	func() {
		event := ical.NewEvent()
		event.SetSummary("just a title")

		var sb strings.Builder
		event.ToIcal(func(s string) { sb.WriteString(s) })

		want := "BEGIN:VEVENT\nSUMMARY:just a title\nEND:VEVENT\n"
		if diff := cmp.Diff(want, sb.String()); diff != "" {
			t.Error(diff)
		}
	}()

	// case: date-only values render with VALUE=DATE and no zone
	func() {
		event := ical.NewEvent()
		event.SetStartDate(ical.DateTime{
			Time:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			DateOnly: true,
		})

		var sb strings.Builder
		event.ToIcal(func(s string) { sb.WriteString(s) })

		want := "BEGIN:VEVENT\nDTSTART;VALUE=DATE:20200101\nEND:VEVENT\n"
		if diff := cmp.Diff(want, sb.String()); diff != "" {
			t.Error(diff)
		}
	}()
}

func TestAlarmToIcal(t *testing.T) {
	// case: a trigger already carrying a value-type prefix is written as-is
	func() {
		partial := ical.NewPartialAlarm()
		partial.SetTrigger(";VALUE=DATE-TIME:19970317T133000Z")
		alarm := partial.Finalize()

		var sb strings.Builder
		alarm.ToIcal(func(s string) { sb.WriteString(s) })

		want := strings.Join([]string{
			"BEGIN:VALARM",
			"TRIGGER;VALUE=DATE-TIME:19970317T133000Z",
			"ACTION:DISPLAY",
			"DESCRIPTION:",
			"END:VALARM",
		}, "\n") + "\n"
		if diff := cmp.Diff(want, sb.String()); diff != "" {
			t.Error(diff)
		}
	}()

	// case: UID line only shows up when set
	func() {
		partial := ical.NewPartialAlarm()
		partial.SetUid("alarm-1").SetTrigger("-PT5M").SetAction("EMAIL").SetDescription("go")
		alarm := partial.Finalize()

		var sb strings.Builder
		alarm.ToIcal(func(s string) { sb.WriteString(s) })

		want := strings.Join([]string{
			"BEGIN:VALARM",
			"UID:alarm-1",
			"TRIGGER:-PT5M",
			"ACTION:EMAIL",
			"DESCRIPTION:go",
			"END:VALARM",
		}, "\n") + "\n"
		if diff := cmp.Diff(want, sb.String()); diff != "" {
			t.Error(diff)
		}
	}()
}

// Everything the dispatch table knows about survives a serialize-parse
// round trip.
func TestEventRoundTrip(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatal(err)
	}

	event := ical.NewEvent()
	event.
		SetSummary("Team lunch, maybe").
		SetStartDate(ical.DateTime{Time: time.Date(1998, 1, 19, 2, 0, 0, 0, chicago)}).
		SetEndDate(ical.DateTime{Time: time.Date(1998, 1, 19, 3, 0, 0, 0, chicago)}).
		SetDescription("bring the slides; all of them").
		SetLocation("Room 4").
		SetUid("evt-123@example.com").
		SetStatus("confirmed").
		SetCategories([]string{"lorem", "ipsum"}).
		SetClass("public").
		SetComment("first one of the year").
		SetGeo(ical.Geo{Lat: 41.8781, Lon: -87.6298}).
		SetTzid("America/Chicago")
	partial := ical.NewPartialAlarm()
	partial.SetTrigger("-PT15M").SetDescription("Reminder")
	event.AddAlarm(partial.Finalize())

	lines := make([]string, 0)
	event.ToIcal(func(s string) {
		lines = append(lines, strings.TrimSuffix(s, "\n"))
	})

	parsed, err := ical.BuildEvent(lines)
	if err != nil {
		t.Fatal(err)
	}

	if got := parsed.GetSummary(); got != event.GetSummary() {
		t.Error("summary:", got)
	}
	if !parsed.GetStartDate().Equal(event.GetStartDate().Time) {
		t.Error("start date:", parsed.GetStartDate().Time)
	}
	if !parsed.GetEndDate().Equal(event.GetEndDate().Time) {
		t.Error("end date:", parsed.GetEndDate().Time)
	}
	if got := parsed.GetDescription(); got != event.GetDescription() {
		t.Error("description:", got)
	}
	if got := parsed.GetLocation(); got != event.GetLocation() {
		t.Error("location:", got)
	}
	if got := parsed.GetUid(); got != event.GetUid() {
		t.Error("uid:", got)
	}
	if got := parsed.GetStatus(); got != event.GetStatus() {
		t.Error("status:", got)
	}
	if diff := cmp.Diff(event.GetCategories(), parsed.GetCategories()); diff != "" {
		t.Error(diff)
	}
	if got := parsed.GetClass(); got != event.GetClass() {
		t.Error("class:", got)
	}
	if got := parsed.GetComment(); got != event.GetComment() {
		t.Error("comment:", got)
	}
	if diff := cmp.Diff(event.GetGeo(), parsed.GetGeo()); diff != "" {
		t.Error(diff)
	}
	if got := parsed.GetTzid(); got != event.GetTzid() {
		t.Error("tzid:", got)
	}
	alarms := parsed.GetAlarms()
	if len(alarms) != 1 {
		t.Fatal("alarm count:", len(alarms))
	}
	if alarms[0].GetTrigger() != "-PT15M" ||
		alarms[0].GetAction() != "DISPLAY" ||
		alarms[0].GetDescription() != "Reminder" {
		t.Error("alarm did not round trip:", alarms[0])
	}
}
