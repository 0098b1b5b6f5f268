package route

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"calfeed/src-server/ical"
	"calfeed/src-server/model"
	"calfeed/src-server/utils"
)

func Ical(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /ical/{feed_id}", func(w http.ResponseWriter, r *http.Request) {
		feedID := r.PathValue("feed_id")

		// getting the feed model
		feedModel := new(model.Feed)
		if err := as.BunDB.NewSelect().
			Model(feedModel).
			Where("id = ?", feedID).
			Scan(r.Context(), feedModel); err != nil {
			http.Error(w, "Feed not found", http.StatusNotFound)
			return
		}

		// turn the stored rows back into an ical calendar
		startTimer := time.Now()
		icalCalendar, err := func() (*ical.Calendar, error) {
			icalCalendar := ical.NewCalendar()
			icalCalendar.
				SetId(feedModel.ID).
				SetProdID(func() string {
					if feedModel.ProdID != "" {
						return feedModel.ProdID
					}
					return "-//calfeed//calfeed//EN"
				}()).
				SetName(feedModel.Name).
				SetDescription(feedModel.Description)

			eventModels := make([]model.Event, 0)
			if err := as.BunDB.
				NewSelect().
				Model(&eventModels).
				Where("feed_id = ?", feedID).
				Relation("Alarms").
				Scan(r.Context()); err != nil {
				return nil, err
			}
			for i := range eventModels {
				icalCalendar.AddEvent(eventModels[i].ToIcal(), eventModels[i].RRule)
			}
			return &icalCalendar, nil
		}()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())

		// write the ical calendar, folded for other clients
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		startTimer = time.Now()
		icalCalendar.ToIcal(ical.Split75wrapper(func(s string) {
			if _, err := io.WriteString(w, s); err != nil {
				slog.Warn("can't write to response", "where", "route/ical.go", "err", err)
			}
		}))
		as.MetricChans.IcalServe <- float64(time.Since(startTimer).Microseconds())
	})
}
