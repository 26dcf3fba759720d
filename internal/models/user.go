package models

import (
	"strings"
	"time"
)

// User is the stored account. The JSON form is the public projection:
// the password hash, sessions and avatar bytes never leave the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	Age          int       `json:"age" validate:"gte=0"`
	PasswordHash string    `json:"-"`
	Sessions     []string  `json:"-"`
	Avatar       []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Normalize trims the free-text fields and lower-cases the email.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) HasSession(token string) bool {
	for _, s := range u.Sessions {
		if s == token {
			return true
		}
	}
	return false
}

// WithoutSession returns the session list minus token.
func WithoutSession(sessions []string, token string) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		if s != token {
			out = append(out, s)
		}
	}
	return out
}
