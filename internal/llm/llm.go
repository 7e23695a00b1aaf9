// Package llm defines the text generation collaborator and its providers.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Options tunes a single generation call. Nil knobs use the provider default.
type Options struct {
	Model          string
	ThinkingBudget *int32
	Temperature    *float32
}

// TextGenerator turns a prompt into text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Int32 returns a pointer to v.
func Int32(v int32) *int32 { return &v }

// Float32 returns a pointer to v.
func Float32(v float32) *float32 { return &v }
