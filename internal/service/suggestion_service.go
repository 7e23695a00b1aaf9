package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/modul-ajar-api/internal/llm"
	"github.com/noah-isme/modul-ajar-api/internal/models"
	"github.com/noah-isme/modul-ajar-api/internal/prompt"
	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
)

const (
	// NoSuggestionText replaces an empty provider answer.
	NoSuggestionText = "Tidak ada saran."
	// SuggestionFailedNotice is reported when the provider call fails.
	SuggestionFailedNotice = "Gagal memuat saran."
)

// SuggestionConfig tunes field suggestion calls.
type SuggestionConfig struct {
	Model       string
	Temperature float64
}

// SuggestionResult reports what a suggestion request did to the form.
type SuggestionResult struct {
	Field      models.FieldName `json:"field"`
	Applied    bool             `json:"applied"`
	Suggestion string           `json:"suggestion,omitempty"`
	Notice     string           `json:"notice,omitempty"`
	State      models.FormState `json:"state"`
}

// SuggestionService asks the provider for short ideas for a single field. Failures never
// block the form: they are logged and reported as a notice.
type SuggestionService struct {
	generator llm.TextGenerator
	config    SuggestionConfig
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewSuggestionService constructs a suggestion service.
func NewSuggestionService(generator llm.TextGenerator, cfg SuggestionConfig, logger *zap.Logger, metrics *MetricsService) *SuggestionService {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{generator: generator, config: cfg, logger: logger, metrics: metrics}
}

// Suggest requests a suggestion for field and merges it into the workspace form. The call
// is synchronous; a second request for the same field while one runs is rejected.
func (s *SuggestionService) Suggest(ctx context.Context, ws *Workspace, field models.FieldName) (*SuggestionResult, error) {
	if !AcceptsSuggestion(field) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s does not accept suggestions", field))
	}

	data, err := ws.beginSuggestion(field)
	if err != nil {
		return nil, err
	}

	request, advisory, ok := prompt.BuildSuggestionPrompt(prompt.SuggestionField(field), data)
	if !ok {
		ws.endSuggestion(field)
		s.metrics.RecordSuggestion(string(field), OutcomeSkipped)
		return &SuggestionResult{Field: field, Notice: advisory, State: ws.State()}, nil
	}

	opts := llm.Options{Model: s.config.Model}
	if s.config.Temperature > 0 {
		opts.Temperature = llm.Float32(float32(s.config.Temperature))
	}
	text, err := s.generator.Generate(ctx, request, opts)
	ws.endSuggestion(field)
	if err != nil && !errors.Is(err, llm.ErrEmptyResponse) {
		s.metrics.RecordSuggestion(string(field), OutcomeError)
		s.logger.Warn("suggestion failed",
			zap.String("profile_id", ws.ProfileID()),
			zap.String("field", string(field)),
			zap.Error(err),
		)
		return &SuggestionResult{Field: field, Notice: SuggestionFailedNotice, State: ws.State()}, nil
	}
	if strings.TrimSpace(text) == "" {
		text = NoSuggestionText
	}

	state, err := ws.ApplySuggestion(field, text)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSuggestion(string(field), OutcomeSuccess)
	return &SuggestionResult{Field: field, Applied: true, Suggestion: text, State: state}, nil
}
