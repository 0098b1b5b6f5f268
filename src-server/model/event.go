package model

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"calfeed/src-server/ical"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type EventIDCtxKeyType string

const EventIDCtxKey EventIDCtxKeyType = "event-id"

// One parsed VEVENT flattened into a row. Date-times are stored as unix
// UTC; the wall-clock zone the feed named survives in Tzid so the event can
// be rendered back out the way it came in.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string  `bun:"id,pk"`           // required
	FeedID      string  `bun:"feed_id,notnull"` // required
	Summary     string  `bun:"summary,notnull"` // required
	Description string  `bun:"description"`
	Location    string  `bun:"location"`
	URL         string  `bun:"url"`
	UID         string  `bun:"uid"`
	Status      string  `bun:"status"`
	Comment     string  `bun:"comment"`
	Class       string  `bun:"class"`
	Categories  string  `bun:"categories"` // comma-joined
	GeoLat      float64 `bun:"geo_lat"`
	GeoLon      float64 `bun:"geo_lon"`
	HasGeo      bool    `bun:"has_geo"`
	Tzid        string  `bun:"tzid"`

	StartDateUnixUTC int64 `bun:"start_date,notnull"` // required
	EndDateUnixUTC   int64 `bun:"end_date"`
	DateOnly         bool  `bun:"date_only"`

	RRule            string `bun:"rrule"`
	NotificationSent bool   `bun:"notification_sent"`

	Alarms []*Alarm `bun:"rel:has-many,join:id=event_id"`
	Feed   *Feed    `bun:"rel:belongs-to,join:feed_id=id"`
}

var _ bun.AfterDeleteHook = (*Event)(nil)

// Cleanup alarms and materialized occurrences of the deleted events.
func (e *Event) AfterDelete(ctx context.Context, query *bun.DeleteQuery) error {
	if query.DB() == nil {
		return fmt.Errorf("(*Event).AfterDelete: db is nil")
	}

	deletedEventIDs := make([]string, 0)
	switch deletedEventID := ctx.Value(EventIDCtxKey).(type) {
	case string:
		if deletedEventID == "" {
			return fmt.Errorf("(*Event).AfterDelete: deletedEventID is blank")
		}
		deletedEventIDs = append(deletedEventIDs, deletedEventID)
	case []string:
		if len(deletedEventID) == 0 {
			return nil
		}
		deletedEventIDs = append(deletedEventIDs, deletedEventID...)
	case nil:
		return fmt.Errorf("(*Event).AfterDelete: event id is nil")
	default:
		return fmt.Errorf("(*Event).AfterDelete: wrong deletedEventID type | type=%T", deletedEventID)
	}

	if _, err := query.DB().NewDelete().
		Model((*Alarm)(nil)).
		Where("event_id IN (?)", bun.In(deletedEventIDs)).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Event).AfterDelete: can't delete alarms: %w", err)
	}
	if _, err := query.DB().NewDelete().
		Model((*Occurrence)(nil)).
		Where("event_id IN (?)", bun.In(deletedEventIDs)).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Event).AfterDelete: can't delete occurrences: %w", err)
	}

	return nil
}

func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	// validate
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.FeedID == "":
		return fmt.Errorf("(*Event).Upsert: feed id is blank")
	case e.Summary == "":
		return fmt.Errorf("(*Event).Upsert: summary is blank")
	case e.StartDateUnixUTC == 0:
		return fmt.Errorf("(*Event).Upsert: start date is blank")
	case e.EndDateUnixUTC != 0 && e.StartDateUnixUTC > e.EndDateUnixUTC:
		return fmt.Errorf("(*Event).Upsert: start date must be before end date")
	case e.URL != "":
		if _, err := url.ParseRequestURI(e.URL); err != nil {
			return fmt.Errorf("(*Event).Upsert: url is invalid: %w", err)
		}
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}

	return nil
}

// Flatten one parsed ical event into a row. Events without a summary or a
// start date can't be stored meaningfully and are rejected here rather
// than at insert time.
func EventFromIcal(feedID string, icalEvent *ical.Event, rrule string) (*Event, error) {
	startDate := icalEvent.GetStartDate()
	switch {
	case icalEvent.GetSummary() == "":
		return nil, fmt.Errorf("EventFromIcal: summary is blank")
	case startDate == nil:
		return nil, fmt.Errorf("EventFromIcal: start date is missing")
	}

	// feeds occasionally omit the UID, make one up so the row still has a pk
	uid := icalEvent.GetUid()
	if uid == "" {
		uid = uuid.NewString()
	}

	eventModel := Event{
		ID:          fmt.Sprintf("%s-%s", uid, feedID),
		FeedID:      feedID,
		Summary:     icalEvent.GetSummary(),
		Description: icalEvent.GetDescription(),
		Location:    icalEvent.GetLocation(),
		URL:         icalEvent.GetUrl(),
		UID:         uid,
		Status:      icalEvent.GetStatus(),
		Comment:     icalEvent.GetComment(),
		Class:       icalEvent.GetClass(),
		Categories:  strings.Join(icalEvent.GetCategories(), ","),
		Tzid:        icalEvent.GetTzid(),

		StartDateUnixUTC: startDate.UTC().Unix(),
		DateOnly:         startDate.DateOnly,
		RRule:            rrule,
	}
	if eventModel.Tzid == "" && !startDate.DateOnly {
		eventModel.Tzid = startDate.Location().String()
	}
	if endDate := icalEvent.GetEndDate(); endDate != nil {
		eventModel.EndDateUnixUTC = endDate.UTC().Unix()
	}
	if geo := icalEvent.GetGeo(); geo != nil {
		eventModel.GeoLat = geo.Lat
		eventModel.GeoLon = geo.Lon
		eventModel.HasGeo = true
	}
	for _, icalAlarm := range icalEvent.GetAlarms() {
		eventModel.Alarms = append(eventModel.Alarms, &Alarm{
			EventID:     eventModel.ID,
			UID:         icalAlarm.GetUid(),
			Trigger:     icalAlarm.GetTrigger(),
			Action:      icalAlarm.GetAction(),
			Description: icalAlarm.GetDescription(),
		})
	}
	return &eventModel, nil
}

// Rebuild the ical event this row was flattened from. The Alarms relation
// must have been loaded for the alarms to come back.
func (e *Event) ToIcal() ical.Event {
	icalEvent := ical.NewEvent()
	icalEvent.
		SetSummary(e.Summary).
		SetDescription(e.Description).
		SetLocation(e.Location).
		SetUrl(e.URL).
		SetUid(e.UID).
		SetStatus(e.Status).
		SetComment(e.Comment).
		SetClass(e.Class).
		SetTzid(e.Tzid)
	if e.Categories != "" {
		icalEvent.SetCategories(strings.Split(e.Categories, ","))
	}
	if e.HasGeo {
		icalEvent.SetGeo(ical.Geo{Lat: e.GeoLat, Lon: e.GeoLon})
	}

	location := time.UTC
	if e.Tzid != "" {
		if loaded, err := time.LoadLocation(e.Tzid); err == nil {
			location = loaded
		}
	}
	icalEvent.SetStartDate(ical.DateTime{
		Time:     time.Unix(e.StartDateUnixUTC, 0).In(location),
		DateOnly: e.DateOnly,
	})
	if e.EndDateUnixUTC != 0 {
		icalEvent.SetEndDate(ical.DateTime{
			Time:     time.Unix(e.EndDateUnixUTC, 0).In(location),
			DateOnly: e.DateOnly,
		})
	}

	// AddAlarm prepends, so walking the stored list backwards restores the
	// order the alarms were parsed in
	for i := len(e.Alarms) - 1; i >= 0; i-- {
		alarmModel := e.Alarms[i]
		partial := ical.NewPartialAlarm()
		partial.
			SetUid(alarmModel.UID).
			SetTrigger(alarmModel.Trigger).
			SetAction(alarmModel.Action).
			SetDescription(alarmModel.Description)
		icalEvent.AddAlarm(partial.Finalize())
	}
	return icalEvent
}

func (e *Event) ToDiscordEmbed() *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.Summary,
		Description: e.Description,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Start Date",
				Value:  fmt.Sprintf("<t:%d:f>", e.StartDateUnixUTC),
				Inline: true,
			},
			{
				Name:   "End Date",
				Value:  fmt.Sprintf("<t:%d:f>", e.EndDateUnixUTC),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: e.ID,
		},
	}
	if e.Location != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Location",
			Value: e.Location,
		})
	}
	if e.URL != "" {
		embed.URL = e.URL
	}
	return embed
}
