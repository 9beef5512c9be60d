package model

import "time"

// User is an end-user of a tenant bot, keyed by telegram id. Service is
// the activation service the user currently has selected.
type User struct {
	ID         int64
	TelegramID int64
	Service    string
	Language   string
	CreatedAt  time.Time
}
