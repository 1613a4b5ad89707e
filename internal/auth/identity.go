package auth

import "time"

// Session is the credential-service session for one signed-in identity.
type Session struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Identity is the locally mirrored profile of the authenticated user.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
