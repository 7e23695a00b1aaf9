package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/modul-ajar-api/pkg/export"
	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
	"github.com/noah-isme/modul-ajar-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type moduleRenderer interface {
	Render(format export.Format, markdown string) (*export.Artifact, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix       string
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ExportResult captures a stored export and its download link.
type ExportResult struct {
	ID          string        `json:"id"`
	Format      export.Format `json:"format"`
	Filename    string        `json:"filename"`
	ContentType string        `json:"contentType"`
	Token       string        `json:"token"`
	URL         string        `json:"url"`
	ExpiresAt   time.Time     `json:"expiresAt"`
}

// ExportDownload is an opened export ready to stream.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
	ExpiresAt   time.Time
}

// ExportService renders generated modules and serves them through signed links.
type ExportService struct {
	storage  fileStorage
	renderer moduleRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(storage fileStorage, signer *storage.SignedURLSigner, renderer moduleRenderer, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = signer.TTL()
	}
	if renderer == nil {
		renderer = export.NewRenderer()
	}
	return &ExportService{storage: storage, renderer: renderer, signer: signer, logger: logger, cfg: cfg}
}

// Create renders markdown in the requested format and stores it for download.
func (s *ExportService) Create(profileID string, format export.Format, markdown string) (*ExportResult, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if strings.TrimSpace(markdown) == "" {
		return nil, appErrors.ErrNoContent
	}

	artifact, err := s.renderer.Render(format, markdown)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("cannot export module as %s", format))
	}

	id := uuid.NewString()
	relPath, err := s.storage.Save(path.Join(sanitizeSegment(profileID), id, artifact.Filename), artifact.Data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Info("export created",
		zap.String("profile_id", profileID),
		zap.String("export_id", id),
		zap.String("format", string(format)),
		zap.Int("bytes", len(artifact.Data)),
	)
	return &ExportResult{
		ID:          id,
		Format:      format,
		Filename:    artifact.Filename,
		ContentType: artifact.ContentType,
		Token:       token,
		URL:         fmt.Sprintf("%s/exports/%s", prefix, token),
		ExpiresAt:   expiresAt,
	}, nil
}

// Open validates a download token and opens the stored file.
func (s *ExportService) Open(token string) (*ExportDownload, error) {
	_, relPath, expiresAt, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export link is invalid or expired")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export no longer available")
	}
	filename := path.Base(relPath)
	contentType := "application/octet-stream"
	if format, ok := export.FormatForFilename(filename); ok {
		contentType = format.ContentType()
	}
	return &ExportDownload{File: file, Filename: filename, ContentType: contentType, ExpiresAt: expiresAt}, nil
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ExportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.Cleanup(0)
				if err != nil {
					s.logger.Sugar().Warnw("export cleanup failed", "error", err)
					continue
				}
				if len(removed) > 0 {
					s.logger.Sugar().Infow("expired exports removed", "count", len(removed))
				}
			}
		}
	}()
}

func sanitizeSegment(raw string) string {
	if raw == "" {
		return "anonymous"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", "..", "-", ":", "-", " ", "_")
	result := replacer.Replace(raw)
	if len(result) > 64 {
		return result[:64]
	}
	return result
}
