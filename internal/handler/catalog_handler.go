package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/modul-ajar-api/internal/dto"
	"github.com/noah-isme/modul-ajar-api/internal/models"
	"github.com/noah-isme/modul-ajar-api/internal/prompt"
	"github.com/noah-isme/modul-ajar-api/pkg/export"
	"github.com/noah-isme/modul-ajar-api/pkg/response"
)

// CatalogHandler serves the fixed form choices.
type CatalogHandler struct {
	catalog dto.CatalogResponse
}

// NewCatalogHandler builds the catalog once; it never changes at runtime.
func NewCatalogHandler() *CatalogHandler {
	suggestions := make([]string, 0, len(prompt.SuggestionFields))
	for _, field := range prompt.SuggestionFields {
		suggestions = append(suggestions, string(field))
	}
	formats := make([]string, 0, len(export.Formats))
	for _, format := range export.Formats {
		formats = append(formats, string(format))
	}
	return &CatalogHandler{catalog: dto.CatalogResponse{
		PedagogicalPractices:      append([]string(nil), models.PedagogicalPractices...),
		DefaultPractice:           models.DefaultPedagogicalPractice(),
		GraduateProfileDimensions: append([]string(nil), models.GraduateProfileDimensions...),
		SuggestionFields:          suggestions,
		ExportFormats:             formats,
		Defaults:                  models.NewModuleInputData(),
	}}
}

// Get godoc
// @Summary List pedagogical practices, profile dimensions and export formats
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog, nil)
}
