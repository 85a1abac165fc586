package dto

import (
	"encoding/json"
	"strings"
	"time"

	"employee-portal/internal/domain"
)

type User struct {
	ID          domain.UserID `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Department  string        `json:"department"`
	IsAdmin     bool          `json:"is_admin"`
	JobTitle    string        `json:"jobTitle"`
	Phone       string        `json:"phone"`
	Location    string        `json:"location"`
	Bio         string        `json:"bio"`
	Tags        []string      `json:"tags"`
	Status      string        `json:"status"`
	LastLoginAt *time.Time    `json:"lastLoginAt"`
}

func UserFromDomain(u *domain.User) User {
	return User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Department:  u.Department,
		IsAdmin:     u.IsAdmin,
		JobTitle:    u.JobTitle,
		Phone:       u.Phone,
		Location:    u.Location,
		Bio:         u.Bio,
		Tags:        domain.ParseTags(u.Tags),
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
	}
}

func UsersFromDomain(users []*domain.User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, UserFromDomain(u))
	}
	return out
}

type StatusRequest struct {
	Status string `json:"status"`
}

// TagList accepts a JSON array or a comma separated string.
type TagList []string

func (t *TagList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	out := TagList{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*t = out
	return nil
}

type CreateUserRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Department string  `json:"department"`
	IsAdmin    bool    `json:"is_admin"`
	JobTitle   string  `json:"jobTitle"`
	Phone      string  `json:"phone"`
	Location   string  `json:"location"`
	Bio        string  `json:"bio"`
	Tags       TagList `json:"tags"`
	Status     string  `json:"status"`
}

// UpdateUserRequest is a partial update: nil fields keep their value.
type UpdateUserRequest struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Password   *string  `json:"password"`
	Department *string  `json:"department"`
	IsAdmin    *bool    `json:"is_admin"`
	JobTitle   *string  `json:"jobTitle"`
	Phone      *string  `json:"phone"`
	Location   *string  `json:"location"`
	Bio        *string  `json:"bio"`
	Tags       *TagList `json:"tags"`
	Status     *string  `json:"status"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
