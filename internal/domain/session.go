package domain

import "time"

// SessionTokenPrefix marks every opaque bearer token minted by the portal.
const SessionTokenPrefix = "session-"

// Session has no expiry: a token stays valid until it is revoked.
type Session struct {
	Token     string    `gorm:"type:text;primaryKey" db:"token"`
	UserID    UserID    `gorm:"not null;index" db:"user_id"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
}

func (Session) TableName() string { return "sessions" }
