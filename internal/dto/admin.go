package dto

import "time"

type OverviewStats struct {
	ActiveSessions       int64      `json:"activeSessions"`
	Users                int64      `json:"users"`
	Admins               int64      `json:"admins"`
	PendingRegistrations int64      `json:"pendingRegistrations"`
	LastLogin            *time.Time `json:"lastLogin"`
}

type OverviewResponse struct {
	Stats OverviewStats `json:"stats"`
	Users []User        `json:"users"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// MessageResponse is the body of every rejected request.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
