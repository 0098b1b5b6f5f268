package scheduler

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"calfeed/src-server/ical"
	"calfeed/src-server/model"
	"calfeed/src-server/utils"

	"github.com/uptrace/bun"
	"github.com/xyedo/rrule"
)

const (
	WORKER_COUNT = 4

	// how far ahead recurrence occurrences get materialized
	OCCURRENCE_HORIZON = 90 * 24 * time.Hour
)

type fetchedFeed struct {
	body     []byte
	calendar *ical.Calendar
}

// Refresh every subscribed feed once: fetch, skip unchanged bodies by
// hash, parse the rest and swap the stored rows inside one transaction per
// feed. Meant to be driven by the cron runner.
func RefreshAll(as *utils.AppState) {
	feedModels := []model.Feed{}
	if err := as.BunDB.
		NewSelect().
		Model(&feedModels).
		Where("url LIKE ?", "http%").
		Scan(context.Background()); err != nil {
		slog.Error("RefreshAll: can't get feeds", "error", err)
		return
	}
	if len(feedModels) == 0 {
		return
	}

	jobs := make(chan model.Feed, len(feedModels))
	var wg sync.WaitGroup

	for range WORKER_COUNT {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for feedModel := range jobs {
				startTimer := time.Now()

				fetchedCh := make(chan fetchedFeed)
				errCh := make(chan error)
				go func() {
					body, err := fetchBody(feedModel.Url)
					if err != nil {
						errCh <- err
						return
					}
					if utils.GetContentHash(body) == feedModel.Hash {
						// unchanged feed, just bump the fetch time
						fetchedCh <- fetchedFeed{body: body}
						return
					}
					calendar, err := ical.FromIcalReader(bytes.NewReader(body))
					if err != nil {
						errCh <- err
						return
					}
					fetchedCh <- fetchedFeed{body: body, calendar: calendar}
				}()

				select {
				case <-time.After(time.Minute * 5):
					slog.Warn("RefreshAll: timed out waiting for feed to be fetched & parsed", "url", feedModel.Url)
				case err := <-errCh:
					slog.Warn("RefreshAll: can't fetch feed", "url", feedModel.Url, "error", err)
				case fetched := <-fetchedCh:
					if err := storeFetchedFeed(as, &feedModel, fetched); err != nil {
						slog.Warn("RefreshAll: can't store feed", "url", feedModel.Url, "error", err)
					}
					close(fetchedCh)
					close(errCh)
				}

				as.MetricChans.FeedRefresh <- float64(time.Since(startTimer).Microseconds())
			}
		}()
	}

	for _, feedModel := range feedModels {
		jobs <- feedModel
	}
	close(jobs)

	wg.Wait()
}

// Fetch a feed for the first time and store it. The HTTP import surface
// calls this once; later refreshes run on the cron schedule.
func ImportFeed(as *utils.AppState, url string, nameOverride string) (*model.Feed, error) {
	body, err := fetchBody(url)
	if err != nil {
		return nil, err
	}
	calendar, err := ical.FromIcalReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ImportFeed: %w", err)
	}

	feedModel := &model.Feed{
		ID:  calendar.GetID(),
		Url: url,
		Name: func() string {
			switch {
			case nameOverride != "":
				return nameOverride
			case calendar.GetName() != "":
				return calendar.GetName()
			default:
				return "Untitled"
			}
		}(),
	}
	if err := storeFetchedFeed(as, feedModel, fetchedFeed{body: body, calendar: calendar}); err != nil {
		return nil, fmt.Errorf("ImportFeed: %w", err)
	}
	return feedModel, nil
}

func fetchBody(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetchBody: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetchBody: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetchBody: %w", err)
	}
	return body, nil
}

func storeFetchedFeed(as *utils.AppState, feedModel *model.Feed, fetched fetchedFeed) error {
	// unchanged body, nothing to re-parse
	if fetched.calendar == nil {
		feedModel.LastFetch = time.Now().UTC().Unix()
		return feedModel.Upsert(context.Background(), as.BunDB)
	}

	return as.BunDB.RunInTx(context.Background(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// remove the old events along with their alarms and occurrences
		oldEventIDs := make([]string, 0)
		if err := tx.NewSelect().
			Model((*model.Event)(nil)).
			Column("id").
			Where("feed_id = ?", feedModel.ID).
			Scan(ctx, &oldEventIDs); err != nil {
			return fmt.Errorf("can't get old event ids: %w", err)
		}
		if len(oldEventIDs) > 0 {
			if _, err := tx.NewDelete().
				Model((*model.Event)(nil)).
				Where("feed_id = ?", feedModel.ID).
				Exec(context.WithValue(ctx, model.EventIDCtxKey, oldEventIDs)); err != nil {
				return fmt.Errorf("can't delete old events: %w", err)
			}
		}

		// a name picked at import time wins over whatever the feed says
		if feedModel.Name == "" {
			feedModel.Name = fetched.calendar.GetName()
		}
		if feedModel.Name == "" {
			feedModel.Name = "Untitled"
		}
		feedModel.ProdID = fetched.calendar.GetProdID()
		feedModel.Description = fetched.calendar.GetDescription()
		feedModel.Hash = utils.GetContentHash(fetched.body)
		feedModel.LastFetch = time.Now().UTC().Unix()
		if err := feedModel.Upsert(ctx, tx); err != nil {
			return err
		}

		var insertErr error
		fetched.calendar.IterateEvents(func(icalEvent ical.Event, rruleStr string) {
			if insertErr != nil {
				return
			}
			eventModel, err := model.EventFromIcal(feedModel.ID, &icalEvent, rruleStr)
			if err != nil {
				slog.Warn("RefreshAll: skipping event", "url", feedModel.Url, "error", err)
				return
			}
			if _, err := tx.NewInsert().Model(eventModel).Exec(ctx); err != nil {
				insertErr = fmt.Errorf("can't insert event: %w", err)
				return
			}
			if len(eventModel.Alarms) > 0 {
				if _, err := tx.NewInsert().Model(&eventModel.Alarms).Exec(ctx); err != nil {
					insertErr = fmt.Errorf("can't insert alarms: %w", err)
					return
				}
			}
			occurrences, err := materializeOccurrences(eventModel)
			if err != nil {
				slog.Warn("RefreshAll: can't expand recurrence", "event", eventModel.ID, "error", err)
				return
			}
			if len(occurrences) > 0 {
				if _, err := tx.NewInsert().Model(&occurrences).Exec(ctx); err != nil {
					insertErr = fmt.Errorf("can't insert occurrences: %w", err)
				}
			}
		})
		return insertErr
	})
}

// Expand an event's recurrence rule into concrete dates inside the horizon
// window. Non-recurring events contribute nothing.
func materializeOccurrences(eventModel *model.Event) ([]model.Occurrence, error) {
	if eventModel.RRule == "" {
		return nil, nil
	}

	rruleSet, err := rrule.StrToRRuleSet(fmt.Sprintf(
		"DTSTART:%s\nRRULE:%s",
		time.Unix(eventModel.StartDateUnixUTC, 0).UTC().Format("20060102T150405Z"),
		eventModel.RRule,
	))
	if err != nil {
		return nil, fmt.Errorf("materializeOccurrences: %w", err)
	}

	now := time.Now().UTC()
	occurrences := make([]model.Occurrence, 0)
	for _, date := range rruleSet.Between(now, now.Add(OCCURRENCE_HORIZON), true) {
		occurrences = append(occurrences, model.Occurrence{
			EventID: eventModel.ID,
			Date:    date.UTC().Unix(),
		})
	}
	return occurrences, nil
}
