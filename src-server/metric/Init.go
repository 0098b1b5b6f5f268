package metric

import (
	"log/slog"
	"time"

	"calfeed/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calfeed_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calfeed_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calfeed_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("calfeed_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("calfeed_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func databaseRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calfeed_database_read_microsec",
		Help: "The latency of a database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calfeed_database_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calfeed_database_read_microsec metric registered")
		databaseRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseRead) {
				case true:
					slog.Debug("calfeed_database_read_microsec metric unregistered")
				case false:
					slog.Warn("calfeed_database_read_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseRead:
				databaseRead.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseRead.Set(0)
			}
		}
	}()
}

func databaseWrite(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseWrite := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calfeed_database_write_microsec",
		Help: "The latency of a database write in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseWrite); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calfeed_database_write_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calfeed_database_write_microsec metric registered")
		databaseWrite.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseWrite) {
				case true:
					slog.Debug("calfeed_database_write_microsec metric unregistered")
				case false:
					slog.Warn("calfeed_database_write_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseWrite:
				databaseWrite.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseWrite.Set(0)
			}
		}
	}()
}

func feedRefresh(as *utils.AppState, clearTickerInterval *time.Duration) {
	feedRefresh := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calfeed_feed_refresh_microsec",
		Help: "The latency of one feed fetch-parse-store cycle in microseconds",
	})
	good := true
	if err := prometheus.Register(feedRefresh); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calfeed_feed_refresh_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calfeed_feed_refresh_microsec metric registered")
		feedRefresh.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(feedRefresh) {
				case true:
					slog.Debug("calfeed_feed_refresh_microsec metric unregistered")
				case false:
					slog.Warn("calfeed_feed_refresh_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.FeedRefresh:
				feedRefresh.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				feedRefresh.Set(0)
			}
		}
	}()
}

func icalServe(as *utils.AppState, clearTickerInterval *time.Duration) {
	icalServe := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calfeed_ical_serve_microsec",
		Help: "The latency of serializing one calendar response in microseconds",
	})
	good := true
	if err := prometheus.Register(icalServe); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calfeed_ical_serve_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calfeed_ical_serve_microsec metric registered")
		icalServe.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(icalServe) {
				case true:
					slog.Debug("calfeed_ical_serve_microsec metric unregistered")
				case false:
					slog.Warn("calfeed_ical_serve_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.IcalServe:
				icalServe.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				icalServe.Set(0)
			}
		}
	}()
}

func storedEventCount(as *utils.AppState, tickerInterval *time.Duration) {
	storedEventCount := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calfeed_stored_event_count",
		Help: "The number of events currently stored",
	})
	good := true
	if err := prometheus.Register(storedEventCount); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calfeed_stored_event_count metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calfeed_stored_event_count metric registered")
		storedEventCount.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(storedEventCount) {
				case true:
					slog.Debug("calfeed_stored_event_count metric unregistered")
				case false:
					slog.Warn("calfeed_stored_event_count metric not registered")
				}
				return
			case <-ticker.C:
				count, err := eventCount(as)
				if err != nil {
					slog.Error("can't count stored events", "error", err)
					continue
				}
				storedEventCount.Set(float64(count))
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, &tickerInterval)
	databaseRead(as, &clearTickerInterval)
	databaseWrite(as, &clearTickerInterval)
	feedRefresh(as, &clearTickerInterval)
	icalServe(as, &clearTickerInterval)
	storedEventCount(as, &tickerInterval)
}
