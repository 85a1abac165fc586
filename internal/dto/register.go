package dto

import "time"

type RegisterRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Department string `json:"department,omitempty"`
}

type RegisterResponse struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
	// Only set when mail goes to the preview transport.
	ConfirmationLink string `json:"confirmationLink,omitempty"`
	TokenPreview     string `json:"tokenPreview,omitempty"`
}

// CompleteRegistrationRequest accepts either email+token or the token alone;
// Token may also be the full confirmation link.
type CompleteRegistrationRequest struct {
	Email           string `json:"email,omitempty"`
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}
