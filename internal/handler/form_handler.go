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

type workspaceProvider interface {
	Get(ctx context.Context, profileID string) *service.Workspace
	HasDraft(ctx context.Context, profileID string) (bool, error)
}

// FormHandler exposes the module form and its saved draft.
type FormHandler struct {
	workspaces workspaceProvider
}

// NewFormHandler constructs a form handler.
func NewFormHandler(workspaces workspaceProvider) *FormHandler {
	return &FormHandler{workspaces: workspaces}
}

func (h *FormHandler) workspace(c *gin.Context) (*service.Workspace, bool) {
	id, ok := profileID(c)
	if !ok {
		return nil, false
	}
	return h.workspaces.Get(c.Request.Context(), id), true
}

// Get godoc
// @Summary Get the current form
// @Tags Form
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /form [get]
func (h *FormHandler) Get(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, ws.State(), nil)
}

// EditField godoc
// @Summary Edit a form field
// @Description The draft is saved once edits pause for the debounce interval.
// @Tags Form
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.EditFieldRequest true "Field edit"
// @Success 200 {object} response.Envelope
// @Router /form/fields [patch]
func (h *FormHandler) EditField(c *gin.Context) {
	var req dto.EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid field payload"))
		return
	}
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	state, err := ws.EditField(models.FieldName(req.Field), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// ToggleDimension godoc
// @Summary Toggle a graduate profile dimension
// @Tags Form
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ToggleDimensionRequest true "Dimension"
// @Success 200 {object} response.Envelope
// @Router /form/dimensions [post]
func (h *FormHandler) ToggleDimension(c *gin.Context) {
	var req dto.ToggleDimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dimension payload"))
		return
	}
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	state, err := ws.ToggleDimension(req.Dimension)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// DraftStatus godoc
// @Summary Report whether a saved draft exists
// @Tags Draft
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /draft [get]
func (h *FormHandler) DraftStatus(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	hasDraft, err := h.workspaces.HasDraft(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DraftStatusResponse{HasDraft: hasDraft}, nil)
}

// LoadDraft godoc
// @Summary Replace the form with the saved draft
// @Description An absent or unreadable draft leaves the form unchanged and reports loaded=false.
// @Tags Draft
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /draft/load [post]
func (h *FormHandler) LoadDraft(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	state, loaded := ws.LoadDraft(c.Request.Context())
	response.JSON(c, http.StatusOK, dto.DraftLoadResponse{Loaded: loaded, State: state}, nil)
}

// ClearDraft godoc
// @Summary Delete the saved draft and reset the form
// @Tags Draft
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /draft [delete]
func (h *FormHandler) ClearDraft(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	state, err := ws.ClearDraft(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}
