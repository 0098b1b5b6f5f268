package model

import "github.com/uptrace/bun"

// One VALARM block of an event.
type Alarm struct {
	bun.BaseModel `bun:"table:alarms"`

	ID          int64  `bun:"id,pk,autoincrement"`
	EventID     string `bun:"event_id,notnull"` // required
	UID         string `bun:"uid"`
	Trigger     string `bun:"trigger"`
	Action      string `bun:"action"`
	Description string `bun:"description"`
}
