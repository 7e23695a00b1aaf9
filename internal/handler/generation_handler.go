package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/modul-ajar-api/internal/dto"
	"github.com/noah-isme/modul-ajar-api/internal/models"
	"github.com/noah-isme/modul-ajar-api/internal/service"
	"github.com/noah-isme/modul-ajar-api/pkg/response"
)

type generationRunner interface {
	Submit(ws *service.Workspace) (models.GenerationSnapshot, error)
	Status(ws *service.Workspace) models.GenerationSnapshot
	Reset(ws *service.Workspace) (models.GenerationSnapshot, error)
	Markdown(ws *service.Workspace) (string, error)
}

// GenerationHandler drives full-module generation for the caller's workspace.
type GenerationHandler struct {
	workspaces workspaceProvider
	generation generationRunner
}

// NewGenerationHandler constructs a generation handler.
func NewGenerationHandler(workspaces workspaceProvider, generation generationRunner) *GenerationHandler {
	return &GenerationHandler{workspaces: workspaces, generation: generation}
}

func (h *GenerationHandler) workspace(c *gin.Context) (*service.Workspace, bool) {
	id, ok := profileID(c)
	if !ok {
		return nil, false
	}
	return h.workspaces.Get(c.Request.Context(), id), true
}

// Submit godoc
// @Summary Start generating the teaching module
// @Description Returns 202 with state LOADING; poll GET /generation for the result.
// @Tags Generation
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /generation [post]
func (h *GenerationHandler) Submit(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	snapshot, err := h.generation.Submit(ws)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, snapshot)
}

// Status godoc
// @Summary Get the generation state
// @Tags Generation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /generation [get]
func (h *GenerationHandler) Status(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, h.generation.Status(ws), nil)
}

// Reset godoc
// @Summary Discard the generated module and return to IDLE
// @Tags Generation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /generation [delete]
func (h *GenerationHandler) Reset(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	snapshot, err := h.generation.Reset(ws)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Markdown godoc
// @Summary Get the generated module text for copying
// @Description Responds with raw markdown when the client accepts text/markdown.
// @Tags Generation
// @Produce json
// @Produce text/markdown
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /generation/markdown [get]
func (h *GenerationHandler) Markdown(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	markdown, err := h.generation.Markdown(ws)
	if err != nil {
		response.Error(c, err)
		return
	}
	if c.NegotiateFormat(gin.MIMEJSON, "text/markdown") == "text/markdown" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(markdown))
		return
	}
	response.JSON(c, http.StatusOK, dto.MarkdownResponse{Markdown: markdown}, nil)
}
