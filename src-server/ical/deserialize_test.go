package ical_test

import (
	"errors"
	"testing"
	"time"

	"calfeed/src-server/ical"

	"github.com/google/go-cmp/cmp"
)

func TestBuildEvent(t *testing.T) {
	// case: every dispatched field lands where it should
	func() {
		event, err := ical.BuildEvent([]string{
			"BEGIN:VEVENT",
			"SUMMARY:Team lunch\\, maybe",
			"DTSTART;TZID=America/Chicago:19980119T020000",
			"DTEND;TZID=America/Chicago:19980119T030000",
			"DESCRIPTION:bring the slides",
			"LOCATION:Room 4",
			"STATUS:CONFIRMED",
			"CATEGORIES:lorem,ipsum",
			"CLASS:PUBLIC",
			"COMMENT:first one of the year",
			"GEO:41.8781;-87.6298",
			"UID:evt-123@example.com",
			"TZID:America/Chicago",
			"END:VEVENT",
		})
		if err != nil {
			t.Fatal(err)
		}
		if got := event.GetSummary(); got != "Team lunch, maybe" {
			t.Error("summary:", got)
		}
		start := event.GetStartDate()
		if start == nil {
			t.Fatal("start date not set")
		}
		chicago, _ := time.LoadLocation("America/Chicago")
		if want := time.Date(1998, 1, 19, 2, 0, 0, 0, chicago); !start.Equal(want) {
			t.Error("start date:", start.Time)
		}
		if got := event.GetDescription(); got != "bring the slides" {
			t.Error("description:", got)
		}
		if got := event.GetLocation(); got != "Room 4" {
			t.Error("location:", got)
		}
		if got := event.GetStatus(); got != "confirmed" {
			t.Error("status not lowercased:", got)
		}
		if diff := cmp.Diff([]string{"lorem", "ipsum"}, event.GetCategories()); diff != "" {
			t.Error(diff)
		}
		if got := event.GetClass(); got != "public" {
			t.Error("class not lowercased:", got)
		}
		if got := event.GetComment(); got != "first one of the year" {
			t.Error("comment:", got)
		}
		geo := event.GetGeo()
		if geo == nil {
			t.Fatal("geo not set")
		}
		if geo.Lat != 41.8781 || geo.Lon != -87.6298 {
			t.Error("geo:", geo)
		}
		if got := event.GetUid(); got != "evt-123@example.com" {
			t.Error("uid:", got)
		}
		if got := event.GetTzid(); got != "America/Chicago" {
			t.Error("tzid:", got)
		}
	}()

	// case: one alarm block, uid unset
	func() {
		event, err := ical.BuildEvent([]string{
			"BEGIN:VALARM",
			"TRIGGER:-PT15M",
			"ACTION:DISPLAY",
			"DESCRIPTION:Reminder",
			"END:VALARM",
		})
		if err != nil {
			t.Fatal(err)
		}
		alarms := event.GetAlarms()
		if len(alarms) != 1 {
			t.Fatal("alarm count:", len(alarms))
		}
		if got := alarms[0].GetTrigger(); got != "-PT15M" {
			t.Error("trigger:", got)
		}
		if got := alarms[0].GetAction(); got != "DISPLAY" {
			t.Error("action:", got)
		}
		if got := alarms[0].GetDescription(); got != "Reminder" {
			t.Error("description:", got)
		}
		if got := alarms[0].GetUid(); got != "" {
			t.Error("uid should be unset:", got)
		}
	}()

	// case: alarms come back newest-first by END:VALARM order
	func() {
		event, err := ical.BuildEvent([]string{
			"BEGIN:VALARM",
			"DESCRIPTION:first",
			"END:VALARM",
			"BEGIN:VALARM",
			"DESCRIPTION:second",
			"END:VALARM",
		})
		if err != nil {
			t.Fatal(err)
		}
		alarms := event.GetAlarms()
		if len(alarms) != 2 {
			t.Fatal("alarm count:", len(alarms))
		}
		if alarms[0].GetDescription() != "second" || alarms[1].GetDescription() != "first" {
			t.Error("alarms not newest-first:", alarms[0].GetDescription(), alarms[1].GetDescription())
		}
	}()

	// case: alarm properties don't leak onto the event, event properties
	// don't leak into the alarm, and unknown alarm fields are dropped
	func() {
		event, err := ical.BuildEvent([]string{
			"SUMMARY:outside",
			"BEGIN:VALARM",
			"SUMMARY:inside",
			"DESCRIPTION:alarm text",
			"END:VALARM",
			"DESCRIPTION:event text",
		})
		if err != nil {
			t.Fatal(err)
		}
		if got := event.GetSummary(); got != "outside" {
			t.Error("summary:", got)
		}
		if got := event.GetDescription(); got != "event text" {
			t.Error("description:", got)
		}
		alarms := event.GetAlarms()
		if len(alarms) != 1 {
			t.Fatal("alarm count:", len(alarms))
		}
		if got := alarms[0].GetDescription(); got != "alarm text" {
			t.Error("alarm description:", got)
		}
	}()

	// case: alarm action defaults to DISPLAY when absent
	func() {
		event, err := ical.BuildEvent([]string{
			"BEGIN:VALARM",
			"TRIGGER:-PT5M",
			"END:VALARM",
		})
		if err != nil {
			t.Fatal(err)
		}
		if got := event.GetAlarms()[0].GetAction(); got != "DISPLAY" {
			t.Error("action:", got)
		}
	}()

	// case: END:VALARM with no open alarm is ignored
	func() {
		event, err := ical.BuildEvent([]string{
			"END:VALARM",
			"SUMMARY:still fine",
		})
		if err != nil {
			t.Fatal(err)
		}
		if got := event.GetSummary(); got != "still fine" {
			t.Error("summary:", got)
		}
		if len(event.GetAlarms()) != 0 {
			t.Error("no alarm should exist")
		}
	}()

	// case: unknown properties never raise and never mutate anything
	func() {
		event, err := ical.BuildEvent([]string{
			"SUMMARY:hello",
			"X-CUSTOM-THING;PARAM=1:whatever",
			"SEQUENCE:3",
		})
		if err != nil {
			t.Fatal(err)
		}
		want := ical.NewEvent()
		want.SetSummary("hello")
		if diff := cmp.Diff(want, event, cmp.AllowUnexported(ical.Event{}, ical.Alarm{})); diff != "" {
			t.Error(diff)
		}
	}()

	// case: a malformed date leaves the field unset and the build going
	func() {
		event, err := ical.BuildEvent([]string{
			"DTSTART:1993/04/07",
			"SUMMARY:survives",
		})
		if err != nil {
			t.Fatal(err)
		}
		if event.GetStartDate() != nil {
			t.Error("start date should be unset")
		}
		if got := event.GetSummary(); got != "survives" {
			t.Error("summary:", got)
		}
	}()

	// case: a malformed geo leaves the field unset and the build going
	func() {
		event, err := ical.BuildEvent([]string{
			"GEO:12.5",
			"SUMMARY:survives",
		})
		if err != nil {
			t.Fatal(err)
		}
		if event.GetGeo() != nil {
			t.Error("geo should be unset")
		}
	}()

	// case: a line without a colon aborts the whole build
	func() {
		_, err := ical.BuildEvent([]string{
			"THIS IS NOT A PROPERTY LINE",
		})
		if !errors.Is(err, ical.ErrMalformedLine) {
			t.Error("want ErrMalformedLine, got", err)
		}
	}()

	// case: folded lines are merged before tokenizing
	func() {
		event, err := ical.BuildEvent([]string{
			"DTSTART:2020",
			"0101T120000Z",
		})
		if err != nil {
			t.Fatal(err)
		}
		start := event.GetStartDate()
		if start == nil {
			t.Fatal("start date not set")
		}
		if want := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC); !start.Equal(want) {
			t.Error("start date:", start.Time)
		}
	}()
}
