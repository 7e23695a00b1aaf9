package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/modul-ajar-api/internal/dto"
	"github.com/noah-isme/modul-ajar-api/internal/service"
	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
	"github.com/noah-isme/modul-ajar-api/pkg/export"
	"github.com/noah-isme/modul-ajar-api/pkg/response"
)

type moduleExporter interface {
	Create(profileID string, format export.Format, markdown string) (*service.ExportResult, error)
	Open(token string) (*service.ExportDownload, error)
}

type markdownSource interface {
	Markdown(ws *service.Workspace) (string, error)
}

// ExportHandler renders generated modules into downloadable files.
type ExportHandler struct {
	workspaces workspaceProvider
	modules    markdownSource
	exports    moduleExporter
}

// NewExportHandler constructs an export handler.
func NewExportHandler(workspaces workspaceProvider, modules markdownSource, exports moduleExporter) *ExportHandler {
	return &ExportHandler{workspaces: workspaces, modules: modules, exports: exports}
}

// Create godoc
// @Summary Export the generated module
// @Description Formats: markdown, html, doc, print, pdf, csv. The response carries a signed download URL.
// @Tags Export
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ExportRequest true "Export format"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	id, ok := profileID(c)
	if !ok {
		return
	}
	markdown, err := h.modules.Markdown(h.workspaces.Get(c.Request.Context(), id))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.Create(id, export.Format(req.Format), markdown)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download an export through its signed token
// @Tags Export
// @Produce octet-stream
// @Param token path string true "Signed export token"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.exports.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.DataFromReader(http.StatusOK, info.Size(), download.ContentType, download.File, nil)
}
