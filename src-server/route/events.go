package route

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"calfeed/src-server/model"
	"calfeed/src-server/utils"
)

type oneEventRespBody struct {
	ID               string   `json:"id"`
	FeedID           string   `json:"feedId"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Location         string   `json:"location"`
	Url              string   `json:"url"`
	Status           string   `json:"status"`
	Categories       []string `json:"categories"`
	StartDateUnixUTC int64    `json:"startDateUnixUTC"`
	EndDateUnixUTC   int64    `json:"endDateUnixUTC"`
	DateOnly         bool     `json:"dateOnly"`
	AlarmCount       int      `json:"alarmCount"`
}

func eventToRespBody(eventModel *model.Event) oneEventRespBody {
	categories := make([]string, 0)
	if eventModel.Categories != "" {
		categories = strings.Split(eventModel.Categories, ",")
	}
	return oneEventRespBody{
		ID:               eventModel.ID,
		FeedID:           eventModel.FeedID,
		Title:            eventModel.Summary,
		Description:      eventModel.Description,
		Location:         eventModel.Location,
		Url:              eventModel.URL,
		Status:           eventModel.Status,
		Categories:       categories,
		StartDateUnixUTC: eventModel.StartDateUnixUTC,
		EndDateUnixUTC:   eventModel.EndDateUnixUTC,
		DateOnly:         eventModel.DateOnly,
		AlarmCount:       len(eventModel.Alarms),
	}
}

func Events(muxer *http.ServeMux, as *utils.AppState) {
	// The start/end query params take a unix timestamp or natural language
	// ("next friday"); missing params default to the week ahead.
	parseRangeParam := func(raw string, fallback time.Time) (time.Time, bool) {
		if raw == "" {
			return fallback, true
		}
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.Unix(unix, 0).UTC(), true
		}
		result, err := as.When.Parse(raw, time.Now().In(as.Config.GetLocation()))
		if err != nil || result == nil {
			return time.Time{}, false
		}
		return result.Time, true
	}

	muxer.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		now := time.Now().In(as.Config.GetLocation())
		startDate, ok := parseRangeParam(r.URL.Query().Get("start"), now)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`"Can't make sense of the start param"`))
			return
		}
		endDate, ok := parseRangeParam(r.URL.Query().Get("end"), now.AddDate(0, 0, 7))
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`"Can't make sense of the end param"`))
			return
		}
		if !startDate.Before(endDate) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`"Start date must be before end date"`))
			return
		}

		startTimer := time.Now()
		eventModels := make([]model.Event, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&eventModels).
			Where("start_date >= ?", startDate.UTC().Unix()).
			Where("start_date <= ?", endDate.UTC().Unix()).
			Relation("Alarms").
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`"Can't get events"`))
			return
		}
		as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())

		respBody := make([]oneEventRespBody, 0)
		for i := range eventModels {
			respBody = append(respBody, eventToRespBody(&eventModels[i]))
		}
		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`"Can't marshal response body"`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})
}
