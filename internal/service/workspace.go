package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/modul-ajar-api/internal/models"
	"github.com/noah-isme/modul-ajar-api/pkg/debounce"
	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
)

const (
	// DefaultSaveDelay is the quiet period before an edit is persisted.
	DefaultSaveDelay   = 800 * time.Millisecond
	defaultSaveTimeout = 5 * time.Second
	lastSavedLayout    = "15:04"
	suggestionMarker   = "\n\n[Saran AI]:\n"
)

// draftPersister is the part of DraftService a workspace needs.
type draftPersister interface {
	Load(ctx context.Context, profileID string) (models.ModuleInputData, bool)
	Save(ctx context.Context, profileID string, data models.ModuleInputData) error
	Clear(ctx context.Context, profileID string) error
}

// WorkspaceOptions tunes auto-save for a workspace.
type WorkspaceOptions struct {
	SaveDelay   time.Duration
	SaveTimeout time.Duration
	Clock       debounce.Clock
	Logger      *zap.Logger
}

// Workspace holds one profile's form, its generation state and in-flight suggestions.
// Edits schedule a trailing-edge save; saves run one at a time and always persist the
// form as it is when the save starts.
type Workspace struct {
	profileID   string
	drafts      draftPersister
	clock       debounce.Clock
	logger      *zap.Logger
	saveTimeout time.Duration
	saver       *debounce.Debouncer

	// saveMu orders saves against each other and against ClearDraft.
	saveMu sync.Mutex

	mu         sync.Mutex
	form       models.ModuleInputData
	hasDraft   bool
	lastSaved  string
	generation models.GenerationSnapshot
	suggesting []models.FieldName
}

// NewWorkspace starts a workspace with a fresh form. Nothing is saved until the first edit.
func NewWorkspace(profileID string, drafts draftPersister, hasDraft bool, opts WorkspaceOptions) *Workspace {
	if opts.SaveDelay <= 0 {
		opts.SaveDelay = DefaultSaveDelay
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = defaultSaveTimeout
	}
	if opts.Clock == nil {
		opts.Clock = debounce.System()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	w := &Workspace{
		profileID:   profileID,
		drafts:      drafts,
		clock:       opts.Clock,
		logger:      opts.Logger.With(zap.String("profile_id", profileID)),
		saveTimeout: opts.SaveTimeout,
		form:        models.NewModuleInputData(),
		hasDraft:    hasDraft,
		generation:  models.GenerationSnapshot{State: models.AppStateIdle},
	}
	w.saver = debounce.New(opts.SaveDelay, opts.Clock, w.persist)
	return w
}

// ProfileID returns the owning profile.
func (w *Workspace) ProfileID() string {
	return w.profileID
}

// State returns the current form and save status.
func (w *Workspace) State() models.FormState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Workspace) stateLocked() models.FormState {
	state := models.FormState{
		Form:      w.form.Clone(),
		Dirty:     w.form.IsDirty(),
		HasDraft:  w.hasDraft,
		LastSaved: w.lastSaved,
	}
	if n := len(w.suggesting); n > 0 {
		state.LoadingField = w.suggesting[n-1]
	}
	return state
}

// Form returns a copy of the current form.
func (w *Workspace) Form() models.ModuleInputData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.Clone()
}

// EditField replaces one field from its raw value and schedules a save.
func (w *Workspace) EditField(name models.FieldName, raw string) (models.FormState, error) {
	if name == models.FieldPedagogicalPractice && !models.IsPedagogicalPractice(raw) {
		return models.FormState{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown pedagogical practice %q", raw))
	}

	w.mu.Lock()
	if err := w.form.SetField(name, raw); err != nil {
		w.mu.Unlock()
		return models.FormState{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	state := w.stateLocked()
	w.mu.Unlock()

	w.saver.Trigger()
	return state, nil
}

// ToggleDimension flips a catalog dimension in or out of the selection and schedules a save.
func (w *Workspace) ToggleDimension(dimension string) (models.FormState, error) {
	if !models.IsGraduateProfileDimension(dimension) {
		return models.FormState{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown graduate profile dimension %q", dimension))
	}

	w.mu.Lock()
	w.form.GraduateProfileDimensions.Toggle(dimension)
	state := w.stateLocked()
	w.mu.Unlock()

	w.saver.Trigger()
	return state, nil
}

// LoadDraft replaces the form with the stored snapshot. A pending save is dropped and no
// new one is scheduled. It reports false when no usable snapshot exists.
func (w *Workspace) LoadDraft(ctx context.Context) (models.FormState, bool) {
	w.saver.Cancel()
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	data, ok := w.drafts.Load(ctx, w.profileID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if ok {
		w.form = data
		w.hasDraft = true
	}
	return w.stateLocked(), ok
}

// ClearDraft drops any pending save, removes the stored snapshot and resets the form.
func (w *Workspace) ClearDraft(ctx context.Context) (models.FormState, error) {
	w.saver.Cancel()
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	if err := w.drafts.Clear(ctx, w.profileID); err != nil {
		return models.FormState{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.form = models.NewModuleInputData()
	w.hasDraft = false
	w.lastSaved = ""
	return w.stateLocked(), nil
}

// Close runs a pending save immediately.
func (w *Workspace) Close() {
	w.saver.Flush()
}

// SavePending reports whether an edit is waiting for its quiet period to end.
func (w *Workspace) SavePending() bool {
	return w.saver.Pending()
}

func (w *Workspace) persist() {
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	w.mu.Lock()
	data := w.form.Clone()
	w.mu.Unlock()

	if !data.IsDirty() {
		w.logger.Debug("skipping draft save for pristine form")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.saveTimeout)
	defer cancel()
	if err := w.drafts.Save(ctx, w.profileID, data); err != nil {
		w.logger.Warn("draft auto-save failed", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.hasDraft = true
	w.lastSaved = w.clock.Now().Format(lastSavedLayout)
	w.mu.Unlock()
}

// Generation returns the current generation state.
func (w *Workspace) Generation() models.GenerationSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generation
}

// beginGeneration checks the form and moves to LOADING. It returns the form to generate
// from and the state to restore if dispatch fails.
func (w *Workspace) beginGeneration(check func(models.ModuleInputData) error) (models.ModuleInputData, models.GenerationSnapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation.State == models.AppStateLoading {
		return models.ModuleInputData{}, models.GenerationSnapshot{}, appErrors.ErrGenerationInProgress
	}
	if check != nil {
		if err := check(w.form); err != nil {
			return models.ModuleInputData{}, models.GenerationSnapshot{}, err
		}
	}
	previous := w.generation
	started := w.clock.Now()
	w.generation = models.GenerationSnapshot{State: models.AppStateLoading, StartedAt: &started}
	return w.form.Clone(), previous, nil
}

// restoreGeneration undoes beginGeneration when the call could not be dispatched.
func (w *Workspace) restoreGeneration(previous models.GenerationSnapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation = previous
}

func (w *Workspace) completeGeneration(content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	completed := w.clock.Now()
	w.generation = models.GenerationSnapshot{
		State:       models.AppStateSuccess,
		Content:     content,
		StartedAt:   w.generation.StartedAt,
		CompletedAt: &completed,
	}
}

func (w *Workspace) failGeneration(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	completed := w.clock.Now()
	w.generation = models.GenerationSnapshot{
		State:       models.AppStateError,
		Error:       message,
		StartedAt:   w.generation.StartedAt,
		CompletedAt: &completed,
	}
}

// ResetGeneration discards the stored result. A running generation cannot be reset.
func (w *Workspace) ResetGeneration() (models.GenerationSnapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation.State == models.AppStateLoading {
		return w.generation, appErrors.ErrGenerationInProgress
	}
	w.generation = models.GenerationSnapshot{State: models.AppStateIdle}
	return w.generation, nil
}

// beginSuggestion marks field as loading. The newest in-flight field owns the indicator.
func (w *Workspace) beginSuggestion(field models.FieldName) (models.ModuleInputData, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, inFlight := range w.suggesting {
		if inFlight == field {
			return models.ModuleInputData{}, appErrors.ErrSuggestionInProgress
		}
	}
	w.suggesting = append(w.suggesting, field)
	return w.form.Clone(), nil
}

func (w *Workspace) endSuggestion(field models.FieldName) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, inFlight := range w.suggesting {
		if inFlight == field {
			w.suggesting = append(w.suggesting[:i], w.suggesting[i+1:]...)
			return
		}
	}
}

// ApplySuggestion appends suggestion text after the field's current value, or fills the
// field when it is blank. It counts as an edit and schedules a save.
func (w *Workspace) ApplySuggestion(field models.FieldName, suggestion string) (models.FormState, error) {
	if !AcceptsSuggestion(field) {
		return models.FormState{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s does not accept suggestions", field))
	}

	w.mu.Lock()
	current, err := w.form.TextValue(field)
	if err != nil {
		w.mu.Unlock()
		return models.FormState{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	next := suggestion
	if current != "" {
		next = current + suggestionMarker + suggestion
	}
	_ = w.form.SetField(field, next)
	state := w.stateLocked()
	w.mu.Unlock()

	w.saver.Trigger()
	return state, nil
}

// AcceptsSuggestion reports whether a field holds free text that suggestions may extend.
func AcceptsSuggestion(field models.FieldName) bool {
	if field.IsNumeric() || field == models.FieldPedagogicalPractice {
		return false
	}
	var probe models.ModuleInputData
	_, err := probe.TextValue(field)
	return err == nil
}
