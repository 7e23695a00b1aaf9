package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/modul-ajar-api/internal/dto"
	"github.com/noah-isme/modul-ajar-api/internal/llm"
	"github.com/noah-isme/modul-ajar-api/internal/models"
	"github.com/noah-isme/modul-ajar-api/internal/service"
)

func TestSuggestionHandlerAppliesSuggestion(t *testing.T) {
	registry, _, _ := newTestRegistry(t)
	fillForm(t, registry)
	suggestions := service.NewSuggestionService(llm.NewScriptedFakeClient(func(string, llm.Options) (string, error) {
		return "Kunjungan ke taman kota", nil
	}), service.SuggestionConfig{}, nil, nil)
	handler := NewSuggestionHandler(registry, suggestions)

	c, w := newTestContext(http.MethodPost, "/suggestions", dto.SuggestionRequest{Field: "learningEnvironment"}, "p-1")
	handler.Suggest(c)
	require.Equal(t, http.StatusOK, w.Code)

	var result service.SuggestionResult
	decodeData(t, w, &result)
	assert.True(t, result.Applied)
	assert.Equal(t, "Kunjungan ke taman kota", result.State.Form.LearningEnvironment)
	assert.Equal(t, "Kunjungan ke taman kota", registry.Get(context.Background(), "p-1").Form().LearningEnvironment)
}

func TestSuggestionHandlerReportsNoticeOnFailure(t *testing.T) {
	registry, _, _ := newTestRegistry(t)
	fillForm(t, registry)
	suggestions := service.NewSuggestionService(llm.NewScriptedFakeClient(func(string, llm.Options) (string, error) {
		return "", errors.New("deadline exceeded")
	}), service.SuggestionConfig{}, nil, nil)
	handler := NewSuggestionHandler(registry, suggestions)

	c, w := newTestContext(http.MethodPost, "/suggestions", dto.SuggestionRequest{Field: string(models.FieldTeacherNotes)}, "p-1")
	handler.Suggest(c)
	require.Equal(t, http.StatusOK, w.Code)

	var result service.SuggestionResult
	decodeData(t, w, &result)
	assert.False(t, result.Applied)
	assert.Equal(t, service.SuggestionFailedNotice, result.Notice)
	assert.Empty(t, result.State.Form.TeacherNotes)
}

func TestSuggestionHandlerRejectsInvalidField(t *testing.T) {
	registry, _, _ := newTestRegistry(t)
	handler := NewSuggestionHandler(registry, service.NewSuggestionService(llm.NewFakeClient(), service.SuggestionConfig{}, nil, nil))

	c, w := newTestContext(http.MethodPost, "/suggestions", dto.SuggestionRequest{Field: "meetings"}, "p-1")
	handler.Suggest(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodPost, "/suggestions", `{}`, "p-1")
	handler.Suggest(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
