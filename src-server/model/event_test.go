package model_test

import (
	"context"
	"database/sql"
	"testing"

	"calfeed/src-server/ical"
	"calfeed/src-server/model"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	bundb := bun.NewDB(db, sqlitedialect.New())

	for _, m := range []interface{}{
		(*model.Feed)(nil),
		(*model.Event)(nil),
		(*model.Alarm)(nil),
		(*model.Occurrence)(nil),
	} {
		if _, err := bundb.NewCreateTable().Model(m).IfNotExists().Exec(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	return bundb
}

func TestEventFromIcal(t *testing.T) {
	icalEvent, err := ical.BuildEvent([]string{
		"UID:evt-1@example.com",
		"SUMMARY:Team lunch",
		"DTSTART;TZID=America/Chicago:19980119T020000",
		"DTEND;TZID=America/Chicago:19980119T030000",
		"CATEGORIES:lorem,ipsum",
		"GEO:41.8781;-87.6298",
		"TZID:America/Chicago",
		"BEGIN:VALARM",
		"TRIGGER:-PT15M",
		"DESCRIPTION:Reminder",
		"END:VALARM",
	})
	if err != nil {
		t.Fatal(err)
	}

	feedID := uuid.NewString()
	eventModel, err := model.EventFromIcal(feedID, &icalEvent, "FREQ=WEEKLY;COUNT=10")
	if err != nil {
		t.Fatal(err)
	}

	if eventModel.ID != "evt-1@example.com-"+feedID {
		t.Error("id:", eventModel.ID)
	}
	if eventModel.Summary != "Team lunch" {
		t.Error("summary:", eventModel.Summary)
	}
	if eventModel.Categories != "lorem,ipsum" {
		t.Error("categories:", eventModel.Categories)
	}
	if !eventModel.HasGeo || eventModel.GeoLat != 41.8781 || eventModel.GeoLon != -87.6298 {
		t.Error("geo:", eventModel.GeoLat, eventModel.GeoLon)
	}
	if eventModel.Tzid != "America/Chicago" {
		t.Error("tzid:", eventModel.Tzid)
	}
	if eventModel.RRule != "FREQ=WEEKLY;COUNT=10" {
		t.Error("rrule:", eventModel.RRule)
	}
	if eventModel.StartDateUnixUTC >= eventModel.EndDateUnixUTC {
		t.Error("dates:", eventModel.StartDateUnixUTC, eventModel.EndDateUnixUTC)
	}
	if len(eventModel.Alarms) != 1 {
		t.Fatal("alarm count:", len(eventModel.Alarms))
	}
	if eventModel.Alarms[0].Trigger != "-PT15M" {
		t.Error("trigger:", eventModel.Alarms[0].Trigger)
	}

	// case: the row turns back into the same ical event
	func() {
		roundTripped := eventModel.ToIcal()
		if got := roundTripped.GetSummary(); got != "Team lunch" {
			t.Error("summary:", got)
		}
		if got := roundTripped.GetUid(); got != "evt-1@example.com" {
			t.Error("uid:", got)
		}
		start := roundTripped.GetStartDate()
		if start == nil {
			t.Fatal("start date not set")
		}
		if !start.Equal(icalEvent.GetStartDate().Time) {
			t.Error("start date:", start.Time)
		}
		if got := start.Location().String(); got != "America/Chicago" {
			t.Error("start zone:", got)
		}
		alarms := roundTripped.GetAlarms()
		if len(alarms) != 1 {
			t.Fatal("alarm count:", len(alarms))
		}
		if alarms[0].GetTrigger() != "-PT15M" || alarms[0].GetDescription() != "Reminder" {
			t.Error("alarm:", alarms[0])
		}
	}()

	// case: events without a summary or start date are rejected
	func() {
		empty, err := ical.BuildEvent([]string{"UID:nothing@example.com"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := model.EventFromIcal(feedID, &empty, ""); err == nil {
			t.Error("want an error for an event without summary and start date")
		}
	}()
}

func TestEventRelations(t *testing.T) {
	bundb := newTestDB(t)

	feedModel := model.Feed{
		ID:   uuid.NewString(),
		Url:  "https://example.com/feed.ics",
		Name: "feed name test",
	}
	if err := feedModel.Upsert(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}

	eventModel := model.Event{
		ID:               uuid.NewString(),
		FeedID:           feedModel.ID,
		Summary:          "test",
		StartDateUnixUTC: 1,
		EndDateUnixUTC:   2,
	}
	if err := eventModel.Upsert(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}
	alarmModel := model.Alarm{
		EventID: eventModel.ID,
		Trigger: "-PT15M",
		Action:  "DISPLAY",
	}
	if _, err := bundb.NewInsert().
		Model(&alarmModel).
		Exec(context.Background()); err != nil {
		t.Fatal(err)
	}
	occurrenceModel := model.Occurrence{
		EventID: eventModel.ID,
		Date:    1,
	}
	if _, err := bundb.NewInsert().
		Model(&occurrenceModel).
		Exec(context.Background()); err != nil {
		t.Fatal(err)
	}

	// case: alarm data exists through the relation
	func() {
		eventModelTest := new(model.Event)
		if err := bundb.NewSelect().
			Model(eventModelTest).
			Relation("Alarms").
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		if len(eventModelTest.Alarms) != 1 || eventModelTest.Alarms[0].Trigger != alarmModel.Trigger {
			t.Error("alarm data not found")
		}
	}()

	// case: upsert twice keeps one row
	func() {
		eventModel.Summary = "renamed"
		if err := eventModel.Upsert(context.Background(), bundb); err != nil {
			t.Error(err)
		}
		count, err := bundb.NewSelect().
			Model((*model.Event)(nil)).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if count != 1 {
			t.Error("event count:", count)
		}
		eventModelTest := new(model.Event)
		if err := bundb.NewSelect().
			Model(eventModelTest).
			Where("id = ?", eventModel.ID).
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		if eventModelTest.Summary != "renamed" {
			t.Error("summary:", eventModelTest.Summary)
		}
	}()

	// case: deleting the feed takes events, alarms and occurrences with it
	func() {
		if _, err := bundb.NewDelete().
			Model((*model.Feed)(nil)).
			Where("id = ?", feedModel.ID).
			Exec(context.WithValue(context.Background(), model.DeletedFeedIDsCtxKey, feedModel.ID)); err != nil {
			t.Error(err)
		}
		for _, m := range []interface{}{
			(*model.Event)(nil),
			(*model.Alarm)(nil),
			(*model.Occurrence)(nil),
		} {
			count, err := bundb.NewSelect().
				Model(m).
				Count(context.Background())
			if err != nil {
				t.Error(err)
			}
			if count != 0 {
				t.Errorf("%T rows should be gone, found %d", m, count)
			}
		}
	}()
}

func TestFeedUpsert(t *testing.T) {
	bundb := newTestDB(t)

	// case: a feed without a name is rejected
	func() {
		feedModel := model.Feed{ID: uuid.NewString()}
		if err := feedModel.Upsert(context.Background(), bundb); err == nil {
			t.Error("want an error for a feed without a name")
		}
	}()

	// case: upserting the same id updates in place
	func() {
		id := uuid.NewString()
		feedModel := model.Feed{ID: id, Url: "https://example.com/a.ics", Name: "before", Hash: "h1"}
		if err := feedModel.Upsert(context.Background(), bundb); err != nil {
			t.Error(err)
		}
		feedModel.Name = "after"
		feedModel.Hash = "h2"
		if err := feedModel.Upsert(context.Background(), bundb); err != nil {
			t.Error(err)
		}
		feedModelTest := new(model.Feed)
		if err := bundb.NewSelect().
			Model(feedModelTest).
			Where("id = ?", id).
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		if feedModelTest.Name != "after" || feedModelTest.Hash != "h2" {
			t.Error("feed not updated:", feedModelTest.Name, feedModelTest.Hash)
		}
	}()
}
