package domain

import "time"

// MigrationRecord is one row of the append-only migration ledger.
type MigrationRecord struct {
	ID    int64     `gorm:"primaryKey;autoIncrement" db:"id"`
	Name  string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_migrations_name" db:"name"`
	RunAt time.Time `gorm:"not null" db:"run_at"`
}

func (MigrationRecord) TableName() string { return "migrations" }
