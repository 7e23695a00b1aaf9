package dto

import "github.com/noah-isme/modul-ajar-api/internal/models"

// EditFieldRequest changes a single form field. Numeric fields accept their decimal text.
type EditFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// ToggleDimensionRequest flips membership of a graduate profile dimension.
type ToggleDimensionRequest struct {
	Dimension string `json:"dimension" binding:"required"`
}

// SuggestionRequest asks for an AI suggestion for one field.
type SuggestionRequest struct {
	Field string `json:"field" binding:"required"`
}

// ExportRequest renders the generated module in a download format.
type ExportRequest struct {
	Format string `json:"format" binding:"required"`
}

// CatalogResponse lists the fixed choices a client renders in the form.
type CatalogResponse struct {
	PedagogicalPractices      []string               `json:"pedagogicalPractices"`
	DefaultPractice           string                 `json:"defaultPractice"`
	GraduateProfileDimensions []string               `json:"graduateProfileDimensions"`
	SuggestionFields          []string               `json:"suggestionFields"`
	ExportFormats             []string               `json:"exportFormats"`
	Defaults                  models.ModuleInputData `json:"defaults"`
}

// DraftStatusResponse reports whether a saved draft exists for the caller.
type DraftStatusResponse struct {
	HasDraft bool `json:"hasDraft"`
}

// DraftLoadResponse reports the outcome of restoring a saved draft.
type DraftLoadResponse struct {
	Loaded bool             `json:"loaded"`
	State  models.FormState `json:"state"`
}

// MarkdownResponse carries the generated module for clipboard copy.
type MarkdownResponse struct {
	Markdown string `json:"markdown"`
}
