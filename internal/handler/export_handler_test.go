package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/modul-ajar-api/internal/dto"
	"github.com/noah-isme/modul-ajar-api/internal/service"
	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
	"github.com/noah-isme/modul-ajar-api/pkg/export"
	"github.com/noah-isme/modul-ajar-api/pkg/storage"
)

type markdownStub struct {
	markdown string
	err      error
}

func (m markdownStub) Markdown(*service.Workspace) (string, error) {
	return m.markdown, m.err
}

const exportMarkdown = `# Modul Ajar: Ekosistem

| Komponen | Deskripsi |
| --- | --- |
| Mata Pelajaran | Biologi |
`

func newExportHandlerForTest(t *testing.T, source markdownSource) *ExportHandler {
	t.Helper()
	registry, _, _ := newTestRegistry(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exports := service.NewExportService(
		store,
		storage.NewSignedURLSigner("secret", time.Hour),
		export.NewRenderer().WithClock(func() time.Time { return time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC) }),
		service.ExportConfig{APIPrefix: "/api/v1"},
		nil,
	)
	return NewExportHandler(registry, source, exports)
}

func TestExportHandlerCreateAndDownload(t *testing.T) {
	handler := newExportHandlerForTest(t, markdownStub{markdown: exportMarkdown})

	c, w := newTestContext(http.MethodPost, "/exports", dto.ExportRequest{Format: "csv"}, "p-1")
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var result service.ExportResult
	decodeData(t, w, &result)
	assert.Equal(t, "Modul_Ajar_2026-10-17.csv", result.Filename)
	require.NotEmpty(t, result.Token)

	c, w = newTestContext(http.MethodGet, "/exports/"+result.Token, nil, "")
	c.Params = gin.Params{{Key: "token", Value: result.Token}}
	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="Modul_Ajar_2026-10-17.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Body.String(), "Mata Pelajaran")
}

func TestExportHandlerWithoutGeneratedModule(t *testing.T) {
	handler := newExportHandlerForTest(t, markdownStub{err: appErrors.ErrNoContent})

	c, w := newTestContext(http.MethodPost, "/exports", dto.ExportRequest{Format: "pdf"}, "p-1")
	handler.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestExportHandlerRejectsUnknownFormat(t *testing.T) {
	handler := newExportHandlerForTest(t, markdownStub{markdown: exportMarkdown})

	c, w := newTestContext(http.MethodPost, "/exports", dto.ExportRequest{Format: "pptx"}, "p-1")
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandlerDownloadInvalidToken(t *testing.T) {
	handler := newExportHandlerForTest(t, markdownStub{markdown: exportMarkdown})

	c, w := newTestContext(http.MethodGet, "/exports/forged", nil, "")
	c.Params = gin.Params{{Key: "token", Value: "forged"}}
	handler.Download(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
