package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/modul-ajar-api/internal/dto"
	"github.com/noah-isme/modul-ajar-api/internal/middleware"
	"github.com/noah-isme/modul-ajar-api/internal/models"
	"github.com/noah-isme/modul-ajar-api/internal/repository"
	"github.com/noah-isme/modul-ajar-api/internal/service"
	"github.com/noah-isme/modul-ajar-api/pkg/debounce"
)

const draftKey = service.DefaultDraftKeyPrefix + ":p-1"

func newTestRegistry(t *testing.T) (*service.WorkspaceRegistry, *repository.MemoryDraftRepository, *debounce.ManualClock) {
	t.Helper()
	store := repository.NewMemoryDraftRepository()
	drafts := service.NewDraftService(store, "", nil, nil)
	clock := debounce.NewManualClock(time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC))
	registry, err := service.NewWorkspaceRegistry(8, drafts, service.WorkspaceOptions{Clock: clock}, nil, nil)
	require.NoError(t, err)
	t.Cleanup(registry.Close)
	return registry, store, clock
}

func newTestContext(method, target string, body interface{}, profile string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		payload, _ := json.Marshal(v)
		reader = bytes.NewReader(payload)
	}
	req, _ := http.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if profile != "" {
		c.Set(middleware.ContextSessionKey, &models.SessionClaims{ProfileID: profile})
	}
	return c, w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestFormHandlerRequiresSession(t *testing.T) {
	registry, _, _ := newTestRegistry(t)
	handler := NewFormHandler(registry)

	c, w := newTestContext(http.MethodGet, "/form", nil, "")
	handler.Get(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, registry.Len())
}

func TestFormHandlerEditFieldSchedulesSave(t *testing.T) {
	registry, store, clock := newTestRegistry(t)
	handler := NewFormHandler(registry)

	c, w := newTestContext(http.MethodPatch, "/form/fields", dto.EditFieldRequest{Field: "topic", Value: "Ekosistem"}, "p-1")
	handler.EditField(c)
	require.Equal(t, http.StatusOK, w.Code)

	var state models.FormState
	decodeData(t, w, &state)
	assert.Equal(t, "Ekosistem", state.Form.Topic)
	assert.True(t, state.Dirty)
	assert.False(t, state.HasDraft)

	_, err := store.Get(context.Background(), draftKey)
	require.Error(t, err)

	clock.Advance(service.DefaultSaveDelay)
	raw, err := store.Get(context.Background(), draftKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"topic":"Ekosistem"`)

	c, w = newTestContext(http.MethodGet, "/form", nil, "p-1")
	handler.Get(c)
	decodeData(t, w, &state)
	assert.True(t, state.HasDraft)
	assert.Equal(t, "09:30", state.LastSaved)
}

func TestFormHandlerEditFieldRejectsBadInput(t *testing.T) {
	registry, _, _ := newTestRegistry(t)
	handler := NewFormHandler(registry)

	cases := []struct {
		name string
		body interface{}
	}{
		{name: "malformed", body: `invalid`},
		{name: "missing field", body: dto.EditFieldRequest{Value: "x"}},
		{name: "unknown field", body: dto.EditFieldRequest{Field: "favouriteColour", Value: "x"}},
		{name: "unknown practice", body: dto.EditFieldRequest{Field: "pedagogicalPractice", Value: "Lecture"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPatch, "/form/fields", tc.body, "p-1")
			handler.EditField(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestFormHandlerToggleDimension(t *testing.T) {
	registry, _, _ := newTestRegistry(t)
	handler := NewFormHandler(registry)

	c, w := newTestContext(http.MethodPost, "/form/dimensions", dto.ToggleDimensionRequest{Dimension: models.DimensionCreativity}, "p-1")
	handler.ToggleDimension(c)
	require.Equal(t, http.StatusOK, w.Code)
	var state models.FormState
	decodeData(t, w, &state)
	assert.True(t, state.Form.GraduateProfileDimensions.Contains(models.DimensionCreativity))

	c, w = newTestContext(http.MethodPost, "/form/dimensions", dto.ToggleDimensionRequest{Dimension: "Astrologi"}, "p-1")
	handler.ToggleDimension(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFormHandlerDraftLifecycle(t *testing.T) {
	registry, store, _ := newTestRegistry(t)
	require.NoError(t, store.Set(context.Background(), draftKey, `{"topic":"Fotosintesis","meetings":4}`))
	handler := NewFormHandler(registry)

	c, w := newTestContext(http.MethodGet, "/draft", nil, "p-1")
	handler.DraftStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	var status dto.DraftStatusResponse
	decodeData(t, w, &status)
	assert.True(t, status.HasDraft)

	c, w = newTestContext(http.MethodPost, "/draft/load", nil, "p-1")
	handler.LoadDraft(c)
	require.Equal(t, http.StatusOK, w.Code)
	var loaded dto.DraftLoadResponse
	decodeData(t, w, &loaded)
	assert.True(t, loaded.Loaded)
	assert.Equal(t, "Fotosintesis", loaded.State.Form.Topic)
	assert.Equal(t, 4, loaded.State.Form.Meetings)
	assert.Equal(t, models.DefaultPedagogicalPractice(), loaded.State.Form.PedagogicalPractice)

	c, w = newTestContext(http.MethodDelete, "/draft", nil, "p-1")
	handler.ClearDraft(c)
	require.Equal(t, http.StatusOK, w.Code)
	var cleared models.FormState
	decodeData(t, w, &cleared)
	assert.False(t, cleared.HasDraft)
	assert.Empty(t, cleared.Form.Topic)

	_, err := store.Get(context.Background(), draftKey)
	assert.Error(t, err)
}
