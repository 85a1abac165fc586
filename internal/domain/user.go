package domain

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	DefaultStatus     = "Активний"
	DefaultDepartment = "Співробітник"
)

type User struct {
	ID          UserID     `gorm:"primaryKey;autoIncrement" db:"id"`
	Name        string     `gorm:"type:text;not null" db:"name"`
	Email       string     `gorm:"type:text;not null" db:"email"`
	Department  string     `gorm:"type:text;not null;default:''" db:"department"`
	Password    string     `gorm:"type:text;not null" db:"password"`
	IsAdmin     bool       `gorm:"column:is_admin;not null;default:false" db:"is_admin"`
	JobTitle    string     `gorm:"column:job_title;type:text;not null;default:''" db:"job_title"`
	Phone       string     `gorm:"type:text;not null;default:''" db:"phone"`
	Location    string     `gorm:"type:text;not null;default:''" db:"location"`
	Bio         string     `gorm:"type:text;not null;default:''" db:"bio"`
	Tags        string     `gorm:"type:text;not null;default:'[]'" db:"tags"` // JSON array
	Status      string     `gorm:"type:text;not null" db:"status"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" db:"last_login_at"`
	CreatedAt   time.Time  `gorm:"not null" db:"created_at"`
}

func (User) TableName() string { return "users" }

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseTags decodes the stored tag list. Values that are not a JSON array
// are treated as a comma separated list.
func ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err == nil {
		if tags == nil {
			return []string{}
		}
		return tags
	}
	if strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "{") {
		return []string{}
	}
	return splitTags(raw)
}

// SerializeTags encodes tags for storage, dropping blanks.
func SerializeTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	buf, err := json.Marshal(cleaned)
	if err != nil {
		return "[]"
	}
	return string(buf)
}

func splitTags(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
