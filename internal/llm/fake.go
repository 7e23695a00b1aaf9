package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeClient answers without any network access. It is used for offline runs and tests.
type FakeClient struct {
	mu      sync.Mutex
	calls   []FakeCall
	respond func(prompt string, opts Options) (string, error)
}

// FakeCall records one Generate invocation.
type FakeCall struct {
	Prompt string
	Opts   Options
}

// NewFakeClient returns a client producing a small canned module.
func NewFakeClient() *FakeClient {
	return &FakeClient{respond: cannedResponse}
}

// NewScriptedFakeClient returns a client delegating to respond.
func NewScriptedFakeClient(respond func(prompt string, opts Options) (string, error)) *FakeClient {
	return &FakeClient{respond: respond}
}

// Generate records the call and returns the scripted answer.
func (f *FakeClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, FakeCall{Prompt: prompt, Opts: opts})
	respond := f.respond
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return respond(prompt, opts)
}

// Calls returns a copy of recorded calls.
func (f *FakeClient) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func cannedResponse(prompt string, opts Options) (string, error) {
	if strings.HasPrefix(prompt, "Bertindaklah") {
		return "- Ide contoh dari penyedia lokal.", nil
	}
	title := "Modul Ajar"
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "# Modul Ajar: ") {
			title = strings.TrimPrefix(line, "# ")
			break
		}
	}
	return fmt.Sprintf("# %s\n\n## A. Informasi Umum\n\n| Komponen | Deskripsi |\n| --- | --- |\n| Model | %s |\n", title, opts.Model), nil
}
