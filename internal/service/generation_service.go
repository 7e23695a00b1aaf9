package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/modul-ajar-api/internal/llm"
	"github.com/noah-isme/modul-ajar-api/internal/models"
	"github.com/noah-isme/modul-ajar-api/internal/prompt"
	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
	"github.com/noah-isme/modul-ajar-api/pkg/jobs"
)

const generationJobType = "module_generation"

// Messages shown to the user when generation fails.
const (
	GenerationFailedMessage = "Gagal menghubungi layanan AI. Pastikan API KEY valid."
	EmptyContentMessage     = "Maaf, terjadi kesalahan dalam menghasilkan konten."
	UnknownFailureMessage   = "Terjadi kesalahan yang tidak diketahui."
)

// GenerationConfig tunes full module generation.
type GenerationConfig struct {
	Model          string
	ThinkingBudget int
	Workers        int
	BufferSize     int
}

type generationTask struct {
	workspace *Workspace
	prompt    string
}

// GenerationService drives the IDLE/LOADING/SUCCESS/ERROR lifecycle of a workspace. Calls
// run on a background queue and are never retried; the user resubmits instead.
type GenerationService struct {
	generator llm.TextGenerator
	config    GenerationConfig
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewGenerationService constructs the orchestrator. Start must be called before Submit.
func NewGenerationService(generator llm.TextGenerator, cfg GenerationConfig, logger *zap.Logger, metrics *MetricsService) *GenerationService {
	if cfg.Model == "" {
		cfg.Model = "gemini-3-pro-preview"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &GenerationService{
		generator: generator,
		config:    cfg,
		validator: newInputValidator(),
		logger:    logger,
		metrics:   metrics,
	}
	s.queue = jobs.NewQueue("module-generation", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})
	return s
}

// newInputValidator reports fields by their JSON names.
func newInputValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Start launches the generation workers.
func (s *GenerationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for the workers to exit.
func (s *GenerationService) Stop() {
	s.queue.Stop()
}

// Submit checks required fields and dispatches a generation for the workspace's form.
func (s *GenerationService) Submit(ws *Workspace) (models.GenerationSnapshot, error) {
	data, previous, err := ws.beginGeneration(s.checkInput)
	if err != nil {
		return ws.Generation(), err
	}

	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    generationJobType,
		Payload: generationTask{workspace: ws, prompt: prompt.BuildModulePrompt(data)},
	}
	if err := s.queue.Enqueue(job); err != nil {
		ws.restoreGeneration(previous)
		s.logger.Warn("generation not dispatched", zap.String("profile_id", ws.ProfileID()), zap.Error(err))
		return ws.Generation(), appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "generation queue is busy, try again shortly")
	}
	s.logger.Info("generation dispatched", zap.String("profile_id", ws.ProfileID()), zap.String("job_id", job.ID))
	return ws.Generation(), nil
}

func (s *GenerationService) checkInput(data models.ModuleInputData) error {
	trimmed := data.Clone()
	for _, name := range []models.FieldName{
		models.FieldSchoolName, models.FieldTeacherName, models.FieldPrincipalName,
		models.FieldSubject, models.FieldPhaseClass, models.FieldTopic,
	} {
		value, _ := trimmed.TextValue(name)
		_ = trimmed.SetField(name, strings.TrimSpace(value))
	}
	if err := s.validator.Struct(trimmed); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid module input"
	}
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, fe.Field())
	}
	return "missing or invalid fields: " + strings.Join(names, ", ")
}

func (s *GenerationService) handle(ctx context.Context, job jobs.Job) error {
	task, ok := job.Payload.(generationTask)
	if !ok {
		return errors.New("unexpected generation payload")
	}

	start := time.Now()
	opts := llm.Options{Model: s.config.Model}
	if s.config.ThinkingBudget > 0 {
		opts.ThinkingBudget = llm.Int32(int32(s.config.ThinkingBudget))
	}
	text, err := s.generator.Generate(ctx, task.prompt, opts)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		task.workspace.failGeneration(failureMessage(err))
		s.metrics.ObserveGeneration(OutcomeError, time.Since(start))
		return err
	}

	task.workspace.completeGeneration(text)
	s.metrics.ObserveGeneration(OutcomeSuccess, time.Since(start))
	s.logger.Info("generation completed",
		zap.String("profile_id", task.workspace.ProfileID()),
		zap.String("job_id", job.ID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("length", len(text)),
	)
	return nil
}

func failureMessage(err error) string {
	switch {
	case err == nil:
		return UnknownFailureMessage
	case errors.Is(err, llm.ErrEmptyResponse):
		return EmptyContentMessage
	default:
		return GenerationFailedMessage
	}
}

// Status returns the workspace's generation state.
func (s *GenerationService) Status(ws *Workspace) models.GenerationSnapshot {
	return ws.Generation()
}

// Reset returns a finished generation to IDLE, discarding its text or message.
func (s *GenerationService) Reset(ws *Workspace) (models.GenerationSnapshot, error) {
	return ws.ResetGeneration()
}

// Markdown returns the generated module for copying or export.
func (s *GenerationService) Markdown(ws *Workspace) (string, error) {
	snapshot := ws.Generation()
	if snapshot.State != models.AppStateSuccess {
		return "", appErrors.ErrNoContent
	}
	return snapshot.Content, nil
}
