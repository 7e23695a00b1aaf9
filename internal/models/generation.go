package models

import "time"

// AppState captures the full-module generation lifecycle.
type AppState string

const (
	AppStateIdle    AppState = "IDLE"
	AppStateLoading AppState = "LOADING"
	AppStateSuccess AppState = "SUCCESS"
	AppStateError   AppState = "ERROR"
)

// GenerationSnapshot is a consistent read of a workspace's generation state. Content is
// only set in SUCCESS and Error only in ERROR.
type GenerationSnapshot struct {
	State       AppState   `json:"state"`
	Content     string     `json:"content,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
