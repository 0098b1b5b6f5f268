package model

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
)

type DeletedFeedIDsCtxKeyType string

const DeletedFeedIDsCtxKey DeletedFeedIDsCtxKeyType = "feed-id"

// The built-in feed quick-add events land in. Created at startup, has no
// URL and is never refreshed.
const QuickAddFeedID = "quick-add"

// One subscribed iCalendar feed and the calendar-level properties its last
// fetch carried.
type Feed struct {
	bun.BaseModel `bun:"table:feeds"`

	ID          string `bun:"id,pk"`           // required
	Url         string `bun:"url,unique"`      // required
	Name        string `bun:"name,notnull"`    // required
	ProdID      string `bun:"prod_id"`
	Description string `bun:"description"`
	Hash        string `bun:"hash"`
	LastFetch   int64  `bun:"last_fetch"`

	Events []*Event `bun:"rel:has-many,join:id=feed_id"`
}

var _ bun.AfterDeleteHook = (*Feed)(nil)

// Cleanup events (and through their own hook, alarms and occurrences) that
// belonged to the deleted feeds.
func (f *Feed) AfterDelete(ctx context.Context, query *bun.DeleteQuery) error {
	if query.DB() == nil {
		return fmt.Errorf("(*Feed).AfterDelete: db is nil")
	}

	deletedFeedIDs := make([]string, 0)
	switch deletedFeedID := ctx.Value(DeletedFeedIDsCtxKey).(type) {
	case string:
		if deletedFeedID == "" {
			return fmt.Errorf("(*Feed).AfterDelete: deletedFeedID is blank")
		}
		deletedFeedIDs = append(deletedFeedIDs, deletedFeedID)
	case []string:
		if len(deletedFeedID) == 0 {
			return nil
		}
		deletedFeedIDs = append(deletedFeedIDs, deletedFeedID...)
	case nil:
		return fmt.Errorf("(*Feed).AfterDelete: feed id is nil")
	default:
		return fmt.Errorf("(*Feed).AfterDelete: wrong deletedFeedID type | type=%T", deletedFeedID)
	}

	if _, err := query.DB().NewDelete().
		Model((*Event)(nil)).
		Where("feed_id IN (?)", bun.In(deletedFeedIDs)).
		Exec(context.WithValue(ctx, EventIDCtxKey, func() []string {
			eventModels := make([]Event, 0)
			if err := query.DB().NewSelect().
				Model(&eventModels).
				Column("id").
				Where("feed_id IN (?)", bun.In(deletedFeedIDs)).
				Scan(ctx); err != nil {
				slog.Warn("can't get deleted event ids", "error", err)
				return []string{}
			}
			eventIDs := make([]string, 0)
			for _, eventModel := range eventModels {
				eventIDs = append(eventIDs, eventModel.ID)
			}
			return eventIDs
		}())); err != nil {
		return fmt.Errorf("(*Feed).AfterDelete: can't delete events: %w", err)
	}

	return nil
}

func (f *Feed) Upsert(ctx context.Context, db bun.IDB) error {
	if db == nil {
		return fmt.Errorf("(*Feed).Upsert: db is nil")
	}

	// vaidate
	switch {
	case f.ID == "":
		return fmt.Errorf("(*Feed).Upsert: feed id is blank")
	case f.Name == "":
		return fmt.Errorf("(*Feed).Upsert: feed name is blank")
	}

	// upsert
	if _, err := db.NewInsert().
		Model(f).
		On("CONFLICT (id) DO UPDATE").
		Set("url = EXCLUDED.url").
		Set("name = EXCLUDED.name").
		Set("prod_id = EXCLUDED.prod_id").
		Set("description = EXCLUDED.description").
		Set("hash = EXCLUDED.hash").
		Set("last_fetch = EXCLUDED.last_fetch").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Feed).Upsert: can't upsert feed: %w", err)
	}

	return nil
}
