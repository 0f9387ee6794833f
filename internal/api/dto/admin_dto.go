package dto

import "time"

// AdminLoginRequest payload for console login.
type AdminLoginRequest struct {
	ID       int64  `json:"id"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminCreateRequest payload for registering an administrator.
type AdminCreateRequest struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// DecisionRequest payload for a moderation verdict.
type DecisionRequest struct {
	Decision string `json:"decision"`
}

// BanRequest payload for flipping the ban flag.
type BanRequest struct {
	Banned bool `json:"banned"`
}
