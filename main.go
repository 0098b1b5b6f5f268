package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calfeed/src-server/metric"
	"calfeed/src-server/model"
	"calfeed/src-server/route"
	"calfeed/src-server/scheduler"
	"calfeed/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	as := utils.NewAppState()

	if err := model.CreateSchema(as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	// the built-in feed quick-add events land in
	if err := (&model.Feed{
		ID:   model.QuickAddFeedID,
		Name: "Quick add",
	}).Upsert(context.Background(), as.BunDB); err != nil {
		slog.Error("can't create quick-add feed", "error", err)
		os.Exit(1)
	}

	go metric.Init(as)

	// subscribe to whatever the seed file lists, then refresh on schedule
	go func() {
		if feedsFile := as.Config.GetFeedsFile(); feedsFile != "" {
			seedFeeds(as, feedsFile)
		}
		scheduler.RefreshAll(as)
	}()
	if _, err := as.Cron.AddFunc(as.Config.GetRefreshCron(), func() {
		scheduler.RefreshAll(as)
	}); err != nil {
		slog.Error("invalid refresh cron expression", "cron", as.Config.GetRefreshCron(), "error", err)
		os.Exit(1)
	}
	as.Cron.Start()
	defer as.Cron.Stop()

	// alarm notifications over Discord, when configured
	if as.DgSession != nil {
		if err := as.DgSession.Open(); err != nil {
			slog.Error("error opening discord connection", "error", err)
			os.Exit(1)
		}
		defer as.DgSession.Close()
	}
	go scheduler.EventNotify(as)

	// http server
	go func() {
		muxer := http.NewServeMux()
		muxer.Handle("GET /metrics", promhttp.Handler())
		route.Ical(muxer, as)
		route.Feeds(muxer, as)
		route.Events(muxer, as)
		route.QuickAdd(muxer, as)
		if err := http.ListenAndServe(":"+as.Config.GetPort(), muxer); err != nil {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("app is now running, press Ctrl+C to exit")

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	as.GracefulShutdown()

	slog.Info("Gracefully shutting down...")
}

// Upsert subscriptions from the YAML seed file, skipping URLs that are
// already in the database.
func seedFeeds(as *utils.AppState, feedsFile string) {
	seeds, err := utils.LoadFeedsFile(feedsFile)
	if err != nil {
		slog.Error("can't load feeds file", "path", feedsFile, "error", err)
		return
	}
	for _, seed := range seeds {
		exists, err := as.BunDB.
			NewSelect().
			Model((*model.Feed)(nil)).
			Where("url = ?", seed.Url).
			Exists(context.Background())
		switch {
		case err != nil:
			slog.Error("can't check if feed exists", "url", seed.Url, "error", err)
			continue
		case exists:
			continue
		}
		if _, err := scheduler.ImportFeed(as, seed.Url, seed.Name); err != nil {
			slog.Warn("can't import seeded feed", "url", seed.Url, "error", err)
			continue
		}
		slog.Info("seeded feed", "url", seed.Url)
	}
}
