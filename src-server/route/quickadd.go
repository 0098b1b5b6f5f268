package route

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"calfeed/src-server/model"
	"calfeed/src-server/utils"

	"github.com/google/uuid"
)

func QuickAdd(muxer *http.ServeMux, as *utils.AppState) {
	type QuickAddReqBody struct {
		Content  string `json:"content"`
		Duration string `json:"duration"`
	}

	// create a local event from natural language, e.g.
	// {"content": "lunch with sam tomorrow at noon", "duration": "45m"}
	muxer.HandleFunc("POST /quickadd", func(w http.ResponseWriter, r *http.Request) {
		var reqBody QuickAddReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`"Invalid request body"`))
			return
		}
		if reqBody.Content == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`"Please provide some content"`))
			return
		}

		result, err := as.When.Parse(reqBody.Content, time.Now().In(as.Config.GetLocation()))
		if err != nil || result == nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`"Can't find a date in the content"`))
			return
		}

		// whatever isn't the date expression becomes the title
		title := utils.CleanupString(strings.Replace(reqBody.Content, result.Text, "", 1))
		if title == "" {
			title = "Untitled Event"
		}

		duration := time.Hour
		if reqBody.Duration != "" {
			duration, err = time.ParseDuration(reqBody.Duration)
			if err != nil || duration <= 0 {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`"Invalid duration"`))
				return
			}
		}

		eventModel := model.Event{
			ID:               uuid.NewString(),
			FeedID:           model.QuickAddFeedID,
			Summary:          title,
			Tzid:             as.Config.GetLocation().String(),
			StartDateUnixUTC: result.Time.UTC().Unix(),
			EndDateUnixUTC:   result.Time.Add(duration).UTC().Unix(),
		}
		startTimer := time.Now()
		if err := eventModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`"Can't save the event"`))
			return
		}
		as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

		respBodyJson, err := json.Marshal(eventToRespBody(&eventModel))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`"Can't marshal response body"`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write(respBodyJson)
	})
}
