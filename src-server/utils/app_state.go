package utils

import (
	"database/sql"
	"log/slog"
	"os"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB
	When   *when.Parser
	Cron   *cron.Cron

	// nil when DISCORD_APP_TOKEN is not configured
	DgSession *discordgo.Session

	MetricChans        *Metric
	AppCloseSignalChan chan os.Signal

	gracefulShutdownChansMutex sync.Mutex
	gracefulShutdownChans      []*chan struct{}
}

func NewAppState() *AppState {
	as := &AppState{}

	// date parser
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	// env
	as.Config = NewConfig()

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, as.Config.GetDatabasePath()+"?mode=rwc")
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.FromEnv("BUNDEBUG"),
	))

	// feed refresh schedule
	as.Cron = cron.New()

	// notifier transport, only when fully configured
	if token := as.Config.GetDiscordAppToken(); token != "" && as.Config.GetDiscordChannelID() != "" {
		as.DgSession, err = discordgo.New("Bot " + token)
		if err != nil {
			slog.Error("cannot create discord session", "error", err)
			os.Exit(1)
		}
	}

	as.MetricChans = NewMetric()
	as.AppCloseSignalChan = make(chan os.Signal, 1)

	return as
}

// Get a channel that closes when the app is shutting down. Every long-lived
// goroutine takes one and uses it to stop cleanly.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.gracefulShutdownChansMutex.Lock()
	defer as.gracefulShutdownChansMutex.Unlock()

	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, &ch)
	return &ch
}

// Broadcast the shutdown to everyone holding a graceful shutdown channel.
func (as *AppState) GracefulShutdown() {
	as.gracefulShutdownChansMutex.Lock()
	defer as.gracefulShutdownChansMutex.Unlock()

	for _, ch := range as.gracefulShutdownChans {
		close(*ch)
	}
	as.gracefulShutdownChans = nil
}
