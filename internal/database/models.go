package database

import "time"

// Platforms a post can be delivered to.
const (
	PlatformTwitter  = "twitter"
	PlatformTelegram = "telegram"
)

// Kinds of post, matching the logical AITable tables they are mirrored to.
const (
	KindScheduled = "scheduled"
	KindAdmin     = "admin"
	KindGenerated = "generated"
	KindLingo     = "lingo"
)

// Post is one message Sappie published, kept for quota accounting and
// history.
type Post struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	Platform     string    `db:"platform"`
	Kind         string    `db:"kind"`
	Content      string    `db:"content"`
	ChatID       int64     `db:"chat_id"`
	UserID       int64     `db:"user_id"`
	CustomPrompt string    `db:"custom_prompt"`
	ExternalID   string    `db:"external_id"` // tweet id or telegram message id
	SacredTime   string    `db:"sacred_time"` // HH:MM when fired by the schedule
	PostedAt     time.Time `db:"posted_at"`
}
