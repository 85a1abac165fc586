package domain

import "time"

// RegistrationToken is the pending confirmation code for one email address.
// A row moves from pending to used exactly once; it is replaced wholesale
// when a new code is requested for the same email.
type RegistrationToken struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" db:"id"`
	Email      string     `gorm:"type:text;not null;uniqueIndex" db:"email"`
	Name       string     `gorm:"type:text;not null;default:''" db:"name"`
	Department string     `gorm:"type:text;not null;default:''" db:"department"`
	Token      string     `gorm:"type:text;not null;index" db:"token"`
	ExpiresAt  time.Time  `gorm:"not null" db:"expires_at"`
	Used       bool       `gorm:"not null;default:false" db:"used"`
	UsedAt     *time.Time `db:"used_at"`
	CreatedAt  time.Time  `gorm:"not null" db:"created_at"`
}

func (RegistrationToken) TableName() string { return "registration_tokens" }

func (t *RegistrationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
