package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/modul-ajar-api/internal/dto"
	"github.com/noah-isme/modul-ajar-api/internal/llm"
	"github.com/noah-isme/modul-ajar-api/internal/models"
	"github.com/noah-isme/modul-ajar-api/internal/service"
)

func fillForm(t *testing.T, registry *service.WorkspaceRegistry) {
	t.Helper()
	ws := registry.Get(context.Background(), "p-1")
	values := map[models.FieldName]string{
		models.FieldSchoolName:    "SMA Negeri 3 Semarang",
		models.FieldTeacherName:   "Dewi Lestari",
		models.FieldPrincipalName: "Agus Salim",
		models.FieldSubject:       "Biologi",
		models.FieldPhaseClass:    "Fase E / X",
		models.FieldTopic:         "Ekosistem",
	}
	for name, value := range values {
		_, err := ws.EditField(name, value)
		require.NoError(t, err)
	}
}

func newGenerationHandlerForTest(t *testing.T, generator llm.TextGenerator) (*GenerationHandler, *service.WorkspaceRegistry) {
	t.Helper()
	registry, _, _ := newTestRegistry(t)
	generation := service.NewGenerationService(generator, service.GenerationConfig{Workers: 1}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	generation.Start(ctx)
	t.Cleanup(func() {
		cancel()
		generation.Stop()
	})
	return NewGenerationHandler(registry, generation), registry
}

func waitForGeneration(t *testing.T, handler *GenerationHandler, state models.AppState) models.GenerationSnapshot {
	t.Helper()
	var snapshot models.GenerationSnapshot
	require.Eventually(t, func() bool {
		c, w := newTestContext(http.MethodGet, "/generation", nil, "p-1")
		handler.Status(c)
		var envelope struct {
			Data models.GenerationSnapshot `json:"data"`
		}
		if w.Code != http.StatusOK || json.Unmarshal(w.Body.Bytes(), &envelope) != nil {
			return false
		}
		snapshot = envelope.Data
		return snapshot.State == state
	}, 2*time.Second, 10*time.Millisecond)
	return snapshot
}

func TestGenerationHandlerSubmitAndCopy(t *testing.T) {
	handler, registry := newGenerationHandlerForTest(t, llm.NewScriptedFakeClient(func(string, llm.Options) (string, error) {
		return "# Modul Ajar: Ekosistem", nil
	}))
	fillForm(t, registry)

	c, w := newTestContext(http.MethodPost, "/generation", nil, "p-1")
	handler.Submit(c)
	require.Equal(t, http.StatusAccepted, w.Code)

	snapshot := waitForGeneration(t, handler, models.AppStateSuccess)
	assert.Equal(t, "# Modul Ajar: Ekosistem", snapshot.Content)

	c, w = newTestContext(http.MethodGet, "/generation/markdown", nil, "p-1")
	handler.Markdown(c)
	require.Equal(t, http.StatusOK, w.Code)
	var payload dto.MarkdownResponse
	decodeData(t, w, &payload)
	assert.Equal(t, "# Modul Ajar: Ekosistem", payload.Markdown)

	c, w = newTestContext(http.MethodGet, "/generation/markdown", nil, "p-1")
	c.Request.Header.Set("Accept", "text/markdown")
	handler.Markdown(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# Modul Ajar: Ekosistem", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
}

func TestGenerationHandlerRejectsIncompleteForm(t *testing.T) {
	handler, _ := newGenerationHandlerForTest(t, llm.NewFakeClient())

	c, w := newTestContext(http.MethodPost, "/generation", nil, "p-1")
	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "topic")
}

func TestGenerationHandlerConflictsWhileLoading(t *testing.T) {
	release := make(chan struct{})
	handler, registry := newGenerationHandlerForTest(t, llm.NewScriptedFakeClient(func(string, llm.Options) (string, error) {
		<-release
		return "# Modul", nil
	}))
	fillForm(t, registry)

	c, w := newTestContext(http.MethodPost, "/generation", nil, "p-1")
	handler.Submit(c)
	require.Equal(t, http.StatusAccepted, w.Code)

	c, w = newTestContext(http.MethodPost, "/generation", nil, "p-1")
	handler.Submit(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	c, w = newTestContext(http.MethodDelete, "/generation", nil, "p-1")
	handler.Reset(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	close(release)
	waitForGeneration(t, handler, models.AppStateSuccess)

	c, w = newTestContext(http.MethodDelete, "/generation", nil, "p-1")
	handler.Reset(c)
	require.Equal(t, http.StatusOK, w.Code)
	var snapshot models.GenerationSnapshot
	decodeData(t, w, &snapshot)
	assert.Equal(t, models.AppStateIdle, snapshot.State)
}

func TestGenerationHandlerMarkdownWithoutContent(t *testing.T) {
	handler, _ := newGenerationHandlerForTest(t, llm.NewFakeClient())

	c, w := newTestContext(http.MethodGet, "/generation/markdown", nil, "p-1")
	handler.Markdown(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}
