// Package processtest provides a scripted process.Runner for tests.
package processtest

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/bootbuild/internal/process"
)

// Handler produces the outcome of one scripted command.
type Handler func(cmd process.Command) (*process.Result, error)

// Recorder records every command it is asked to run and answers with the
// handler registered for the command name (exit 0 when none is registered).
type Recorder struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []process.Command
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{handlers: map[string]Handler{}}
}

// On registers h for commands named name.
func (r *Recorder) On(name string, h Handler) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
	return r
}

// Exit registers a fixed exit code for commands named name.
func (r *Recorder) Exit(name string, code int) *Recorder {
	return r.On(name, func(process.Command) (*process.Result, error) {
		return &process.Result{ExitCode: code}, nil
	})
}

// Run implements process.Runner.
func (r *Recorder) Run(_ context.Context, cmd process.Command) (*process.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	h := r.handlers[cmd.Name]
	r.mu.Unlock()

	if h == nil {
		return &process.Result{}, nil
	}
	return h(cmd)
}

// Calls returns the recorded commands in invocation order.
func (r *Recorder) Calls() []process.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]process.Command(nil), r.calls...)
}

// Names returns the recorded command names in invocation order.
func (r *Recorder) Names() []string {
	calls := r.Calls()
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}
	return names
}
