package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/modul-ajar-api/internal/models"
	"github.com/noah-isme/modul-ajar-api/pkg/response"
)

type sessionIssuer interface {
	Issue(profileID string) (*models.Session, error)
}

type draftChecker interface {
	HasDraft(ctx context.Context, profileID string) (bool, error)
}

// SessionHandler hands out profile tokens.
type SessionHandler struct {
	sessions sessionIssuer
	drafts   draftChecker
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(sessions sessionIssuer, drafts draftChecker) *SessionHandler {
	return &SessionHandler{sessions: sessions, drafts: drafts}
}

// Create godoc
// @Summary Issue or renew a profile session
// @Description Without a bearer token a new profile is created. With a valid token the same profile is renewed.
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	current := ""
	if claims := sessionFromContext(c); claims != nil {
		current = claims.ProfileID
	}

	session, err := h.sessions.Issue(current)
	if err != nil {
		response.Error(c, err)
		return
	}

	var meta map[string]interface{}
	hasDraft, err := h.drafts.HasDraft(c.Request.Context(), session.ProfileID)
	if err != nil {
		meta = map[string]interface{}{"draftCheck": "unavailable"}
	}
	session.HasDraft = hasDraft

	status := http.StatusOK
	if current == "" {
		status = http.StatusCreated
	}
	response.JSON(c, status, session, meta)
}
