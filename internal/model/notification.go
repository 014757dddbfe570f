package model

import "time"

// Notification is a durable per-user record, optionally pushed over the
// live connection at commit time. JSON keys are snake_case to match what
// the web client parses out of notification frames.
type Notification struct {
	ID              int64     `db:"id" json:"id"`
	RecipientUserID int64     `db:"recipient_user_id" json:"recipient_user_id"`
	Message         string    `db:"message" json:"message"`
	LinkURL         *string   `db:"link_url" json:"link_url,omitempty"`
	IsRead          bool      `db:"is_read" json:"is_read"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type CreateNotificationParams struct {
	RecipientUserID int64
	Message         string
	LinkURL         *string
}
