package model

import "github.com/uptrace/bun"

// Materialized dates from the RRule sets of recurring events
type Occurrence struct {
	bun.BaseModel `bun:"table:occurrences"`

	EventID string `bun:"event_id,notnull"`
	Date    int64  `bun:"date,notnull"`
}
