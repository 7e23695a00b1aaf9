package models

import "time"

// Draft is a persisted form snapshot row.
type Draft struct {
	Key       string    `db:"key"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}
