package handler

import (
	"fmt"

	"github.com/vuego/compiler/internal/loc"
)

// A Handler collects diagnostics for one compile call and forwards them to
// the caller's hooks. It is not safe for concurrent use; a compile owns its
// handler for the duration of the call.
type Handler struct {
	sourcetext string
	filename   string
	errors     []*loc.CompilerError
	warnings   []*loc.CompilerError

	onError func(*loc.CompilerError)
	onWarn  func(*loc.CompilerError)
}

func NewHandler(sourcetext string, filename string) *Handler {
	return &Handler{
		sourcetext: sourcetext,
		filename:   filename,
		errors:     make([]*loc.CompilerError, 0),
		warnings:   make([]*loc.CompilerError, 0),
	}
}

// Hook installs the caller's OnError/OnWarn callbacks. Either may be nil.
func (h *Handler) Hook(onError, onWarn func(*loc.CompilerError)) {
	h.onError = onError
	h.onWarn = onWarn
}

func (h *Handler) HasErrors() bool {
	return len(h.errors) > 0
}

func (h *Handler) AppendError(err *loc.CompilerError) {
	h.errors = append(h.errors, err)
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *Handler) AppendWarning(err *loc.CompilerError) {
	h.warnings = append(h.warnings, err)
	if h.onWarn != nil {
		h.onWarn(err)
	}
}

func (h *Handler) Errors() []*loc.CompilerError {
	return h.errors
}

func (h *Handler) Warnings() []*loc.CompilerError {
	return h.warnings
}

// Warnf formats a message-only warning with no source range.
func (h *Handler) Warnf(code loc.ErrorCode, format string, a ...interface{}) {
	err := loc.NewError(code, nil)
	err.Message = fmt.Sprintf(format, a...)
	h.AppendWarning(err)
}
