package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims identifies the profile a token was issued for.
type SessionClaims struct {
	ProfileID string `json:"profile_id"`
	jwt.RegisteredClaims
}

// Session is an issued profile token.
type Session struct {
	ProfileID string    `json:"profileId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	HasDraft  bool      `json:"hasDraft"`
}
