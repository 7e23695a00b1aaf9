package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/modul-ajar-api/internal/models"
	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
)

func newTestSessionService() *SessionService {
	return NewSessionService(SessionConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "modul-ajar-api"}, nil)
}

func TestSessionServiceIssueAndValidate(t *testing.T) {
	svc := newTestSessionService()

	session, err := svc.Issue("")
	require.NoError(t, err)
	require.NotEmpty(t, session.ProfileID)
	require.NotEmpty(t, session.Token)

	claims, err := svc.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ProfileID, claims.ProfileID)
	assert.Equal(t, session.ProfileID, claims.Subject)
	assert.Equal(t, "modul-ajar-api", claims.Issuer)
}

func TestSessionServiceRenewKeepsProfile(t *testing.T) {
	svc := newTestSessionService()
	session, err := svc.Issue("profile-42")
	require.NoError(t, err)
	assert.Equal(t, "profile-42", session.ProfileID)
}

func TestSessionServiceRejectsExpiredToken(t *testing.T) {
	svc := newTestSessionService()
	issued := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	session, err := svc.Issue("p-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.Validate(session.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceRejectsForeignSignature(t *testing.T) {
	other := NewSessionService(SessionConfig{Secret: "other-secret", TTL: time.Hour}, nil)
	session, err := other.Issue("p-1")
	require.NoError(t, err)

	_, err = newTestSessionService().Validate(session.Token)
	require.Error(t, err)
}

func TestSessionServiceRejectsMissingProfile(t *testing.T) {
	svc := newTestSessionService()
	claims := &models.SessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session claims")
}
