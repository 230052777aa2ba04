// Package errors routes user-facing messages to the console or the toast.
package errors

import (
	"sync"
)

// ErrorHandler is the interface for error handling.
// Different implementations can handle errors differently based on context.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the console the CLI handler prints to.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler handles errors by printing to stdout/stderr.
// It also satisfies the notifier contract so one-shot commands can show
// failed request bodies on the console instead of a toast.
type CLIHandler struct {
	colors ColorOutput
	mu     sync.Mutex
	last   string
}

var _ ErrorHandler = (*CLIHandler)(nil)

// NewCLIHandler returns a CLIHandler printing through colors.
func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

func (h *CLIHandler) Error(msg string) {
	h.mu.Lock()
	h.last = msg
	h.mu.Unlock()
	h.colors.Error(msg)
}

func (h *CLIHandler) Warning(msg string) {
	h.colors.Warning(msg)
}

func (h *CLIHandler) Info(msg string) {
	h.colors.Info(msg)
}

func (h *CLIHandler) Success(msg string) {
	h.colors.Success(msg)
}

// Notify prints a notification as an error.
func (h *CLIHandler) Notify(message string) {
	h.Error(message)
}

// LastError returns the most recent error message.
func (h *CLIHandler) LastError() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.last != ""
}
