package metric

import (
	"context"
	"time"

	"calfeed/src-server/model"
	"calfeed/src-server/utils"
)

func database(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.Event)(nil)).
		Where("feed_id = ?", "").
		Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func eventCount(as *utils.AppState) (int, error) {
	return as.BunDB.NewSelect().
		Model((*model.Event)(nil)).
		Count(context.Background())
}
