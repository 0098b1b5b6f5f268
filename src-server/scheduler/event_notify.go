package scheduler

import (
	"context"
	"log/slog"
	"time"

	"calfeed/src-server/model"
	"calfeed/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// Watch for events whose start falls inside the notify window and push
// their alarms to the configured Discord channel. Does nothing when the
// Discord session is not configured.
func EventNotify(as *utils.AppState) {
	if as.DgSession == nil {
		slog.Info("EventNotify: no discord session configured, notifier disabled")
		return
	}
	channelID := as.Config.GetDiscordChannelID()

	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	ticker := time.NewTicker(time.Second * 30)
	defer ticker.Stop()

	for {
		select {
		case <-*gracefulShutdownCh:
			return
		case <-ticker.C:
		}

		// events starting inside the notify window with alarms attached
		eventModels := make([]model.Event, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&eventModels).
			Relation("Alarms").
			Where("start_date > ?", time.Now().UTC().Unix()).
			Where("start_date < ?", time.Now().UTC().Add(as.Config.GetNotifyWindow()).Unix()).
			Where("notification_sent = ?", false).
			Scan(context.Background()); err != nil {
			slog.Error("EventNotify: can't get events", "error", err)
			continue
		}

		notifiable := make([]model.Event, 0, len(eventModels))
		for _, eventModel := range eventModels {
			if len(eventModel.Alarms) > 0 {
				notifiable = append(notifiable, eventModel)
			}
		}
		if len(notifiable) == 0 {
			continue
		}

		if _, err := as.DgSession.ChannelMessageSendEmbeds(
			channelID,
			func() []*discordgo.MessageEmbed {
				embeds := make([]*discordgo.MessageEmbed, len(notifiable))
				for i := range notifiable {
					embeds[i] = notifiable[i].ToDiscordEmbed()
				}
				return embeds
			}(),
		); err != nil {
			slog.Error("EventNotify: can't send message", "error", err)
			continue
		}

		if _, err := as.BunDB.NewUpdate().
			With("_data", as.BunDB.NewValues(&notifiable)).
			Model((*model.Event)(nil)).
			TableExpr("_data").
			Set("notification_sent = ?", true).
			Where("event.id = _data.id").
			Exec(context.Background()); err != nil {
			slog.Error("EventNotify: can't update notification_sent field", "error", err)
			continue
		}
	}
}
