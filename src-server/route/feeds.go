package route

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"calfeed/src-server/model"
	"calfeed/src-server/scheduler"
	"calfeed/src-server/utils"
)

func Feeds(muxer *http.ServeMux, as *utils.AppState) {
	type ImportFeedReqBody struct {
		Url  string `json:"url"`
		Name string `json:"name"`
	}

	type OneFeedRespBody struct {
		ID          string `json:"id"`
		Url         string `json:"url"`
		Name        string `json:"name"`
		Description string `json:"description"`
		LastFetch   int64  `json:"lastFetchUnixUTC"`
	}

	// subscribe to a new feed; fetches and stores it before responding
	muxer.HandleFunc("POST /feeds", func(w http.ResponseWriter, r *http.Request) {
		var reqBody ImportFeedReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`"Invalid request body"`))
			return
		}
		if _, err := url.ParseRequestURI(reqBody.Url); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`"Invalid feed URL"`))
			return
		}

		// feed already exists?
		exists, err := as.BunDB.
			NewSelect().
			Model((*model.Feed)(nil)).
			Where("url = ?", reqBody.Url).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`"Can't check if feed exists"`))
			return
		case exists:
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`"Feed already exists"`))
			return
		}

		startTimer := time.Now()
		feedModel, err := scheduler.ImportFeed(as, reqBody.Url, reqBody.Name)
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`"Can't fetch or parse the feed"`))
			return
		}
		as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

		respBodyJson, err := json.Marshal(OneFeedRespBody{
			ID:          feedModel.ID,
			Url:         feedModel.Url,
			Name:        feedModel.Name,
			Description: feedModel.Description,
			LastFetch:   feedModel.LastFetch,
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`"Can't marshal response body"`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write(respBodyJson)
	})

	// list all subscribed feeds
	muxer.HandleFunc("GET /feeds", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		feedModels := make([]model.Feed, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&feedModels).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`"Can't get feeds"`))
			return
		}

		respBody := make([]OneFeedRespBody, 0)
		for _, feedModel := range feedModels {
			respBody = append(respBody, OneFeedRespBody{
				ID:          feedModel.ID,
				Url:         feedModel.Url,
				Name:        feedModel.Name,
				Description: feedModel.Description,
				LastFetch:   feedModel.LastFetch,
			})
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

	// unsubscribe; events, alarms and occurrences go with the feed
	muxer.HandleFunc("DELETE /feeds/{feed_id}", func(w http.ResponseWriter, r *http.Request) {
		feedID := r.PathValue("feed_id")
		w.Header().Set("Content-Type", "application/json")

		exists, err := as.BunDB.
			NewSelect().
			Model((*model.Feed)(nil)).
			Where("id = ?", feedID).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`"Can't check if feed exists"`))
			return
		case !exists:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`"Feed not found"`))
			return
		}

		if _, err := as.BunDB.NewDelete().
			Model((*model.Feed)(nil)).
			Where("id = ?", feedID).
			Exec(context.WithValue(r.Context(), model.DeletedFeedIDsCtxKey, feedID)); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`"Can't delete feed"`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`"Feed deleted"`))
	})
}
