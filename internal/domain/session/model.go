package session

import "time"

// Profile is the authenticated operator's identity as reported by the
// hosted auth provider.
type Profile struct {
	AuthID string `json:"auth_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Session is the persisted authenticated state: the hosted provider's tokens
// plus the operator profile.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	Profile      Profile   `json:"profile"`
}

// Expired reports whether the access token's lifetime has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
