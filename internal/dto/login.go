package dto

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by login and by a completed registration.
type SessionResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type LogoutRequest struct {
	Token string `json:"token"`
}

type LogoutResponse struct {
	Message string `json:"message"`
	Revoked bool   `json:"revoked"`
}
