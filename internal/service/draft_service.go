package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/modul-ajar-api/internal/models"
	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
)

// DefaultDraftKeyPrefix namespaces draft snapshots in the store.
const DefaultDraftKeyPrefix = "deep_learning_module_draft"

// DraftStore abstracts persistence for serialized draft snapshots.
type DraftStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, payload string) error
	Remove(ctx context.Context, key string) error
}

// DraftService persists one form snapshot per profile.
type DraftService struct {
	store   DraftStore
	prefix  string
	logger  *zap.Logger
	metrics *MetricsService
}

// storedDraft accepts the current layout plus the field renamed to pedagogicalPractice.
type storedDraft struct {
	models.ModuleInputData
	LearningModel string `json:"learningModel"`
}

// NewDraftService constructs a draft service.
func NewDraftService(store DraftStore, prefix string, logger *zap.Logger, metrics *MetricsService) *DraftService {
	if prefix == "" {
		prefix = DefaultDraftKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{store: store, prefix: prefix, logger: logger, metrics: metrics}
}

// Key returns the store key holding a profile's snapshot.
func (s *DraftService) Key(profileID string) string {
	return s.prefix + ":" + profileID
}

// Exists reports whether a snapshot is stored for the profile.
func (s *DraftService) Exists(ctx context.Context, profileID string) (bool, error) {
	start := time.Now()
	raw, err := s.store.Get(ctx, s.Key(profileID))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			s.metrics.ObserveDraftOperation("exists", OutcomeMiss, time.Since(start))
			return false, nil
		}
		s.metrics.ObserveDraftOperation("exists", OutcomeError, time.Since(start))
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check draft")
	}
	s.metrics.ObserveDraftOperation("exists", OutcomeSuccess, time.Since(start))
	return raw != "" && raw != "null", nil
}

// Load returns the stored snapshot merged over fresh defaults. Missing, unreadable and
// malformed snapshots are logged and reported as absent.
func (s *DraftService) Load(ctx context.Context, profileID string) (models.ModuleInputData, bool) {
	start := time.Now()
	key := s.Key(profileID)
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			s.metrics.ObserveDraftOperation("load", OutcomeMiss, time.Since(start))
		} else {
			s.metrics.ObserveDraftOperation("load", OutcomeError, time.Since(start))
			s.logger.Warn("draft load failed", zap.String("key", key), zap.Error(err))
		}
		return models.ModuleInputData{}, false
	}

	data, err := s.decode(raw)
	if err != nil {
		s.metrics.ObserveDraftOperation("load", OutcomeError, time.Since(start))
		s.logger.Warn("draft snapshot malformed", zap.String("key", key), zap.Error(err))
		return models.ModuleInputData{}, false
	}
	s.metrics.ObserveDraftOperation("load", OutcomeSuccess, time.Since(start))
	return data, true
}

func (s *DraftService) decode(raw string) (models.ModuleInputData, error) {
	defaults := models.NewModuleInputData()
	if raw == "" || raw == "null" {
		return defaults, fmt.Errorf("empty snapshot")
	}

	stored := storedDraft{ModuleInputData: defaults.Clone()}
	stored.PedagogicalPractice = ""
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return defaults, err
	}
	data := stored.ModuleInputData

	practice := data.PedagogicalPractice
	if practice == "" {
		practice = stored.LearningModel
	}
	if !models.IsPedagogicalPractice(practice) {
		practice = models.DefaultPedagogicalPractice()
	}
	data.PedagogicalPractice = practice

	if data.PriorKnowledge == "" {
		data.PriorKnowledge = defaults.PriorKnowledge
	}
	if data.LearningOutcomes == "" {
		data.LearningOutcomes = defaults.LearningOutcomes
	}
	if data.LearningObjectives == "" {
		data.LearningObjectives = defaults.LearningObjectives
	}

	dimensions := models.NewDimensionSet()
	for _, value := range data.GraduateProfileDimensions.Values() {
		if !models.IsGraduateProfileDimension(value) {
			s.logger.Debug("dropping unknown dimension from draft", zap.String("dimension", value))
			continue
		}
		dimensions.Toggle(value)
	}
	data.GraduateProfileDimensions = dimensions

	return data, nil
}

// Save overwrites the profile's snapshot.
func (s *DraftService) Save(ctx context.Context, profileID string, data models.ModuleInputData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode draft")
	}
	start := time.Now()
	if err := s.store.Set(ctx, s.Key(profileID), string(payload)); err != nil {
		s.metrics.ObserveDraftOperation("save", OutcomeError, time.Since(start))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save draft")
	}
	s.metrics.ObserveDraftOperation("save", OutcomeSuccess, time.Since(start))
	return nil
}

// Clear removes the profile's snapshot. Clearing a missing snapshot succeeds.
func (s *DraftService) Clear(ctx context.Context, profileID string) error {
	start := time.Now()
	if err := s.store.Remove(ctx, s.Key(profileID)); err != nil {
		s.metrics.ObserveDraftOperation("clear", OutcomeError, time.Since(start))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear draft")
	}
	s.metrics.ObserveDraftOperation("clear", OutcomeSuccess, time.Since(start))
	return nil
}
