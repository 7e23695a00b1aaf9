package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/modul-ajar-api/internal/dto"
	"github.com/noah-isme/modul-ajar-api/internal/models"
	"github.com/noah-isme/modul-ajar-api/internal/service"
	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
	"github.com/noah-isme/modul-ajar-api/pkg/response"
)

type fieldSuggester interface {
	Suggest(ctx context.Context, ws *service.Workspace, field models.FieldName) (*service.SuggestionResult, error)
}

// SuggestionHandler fills single fields with AI ideas.
type SuggestionHandler struct {
	workspaces  workspaceProvider
	suggestions fieldSuggester
}

// NewSuggestionHandler constructs a suggestion handler.
func NewSuggestionHandler(workspaces workspaceProvider, suggestions fieldSuggester) *SuggestionHandler {
	return &SuggestionHandler{workspaces: workspaces, suggestions: suggestions}
}

// Suggest godoc
// @Summary Ask for a suggestion for one field
// @Description A failed provider call leaves the field unchanged and returns a notice instead of an error.
// @Tags Suggestion
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SuggestionRequest true "Target field"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /suggestions [post]
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	var req dto.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid suggestion payload"))
		return
	}
	id, ok := profileID(c)
	if !ok {
		return
	}
	ws := h.workspaces.Get(c.Request.Context(), id)
	result, err := h.suggestions.Suggest(c.Request.Context(), ws, models.FieldName(req.Field))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
