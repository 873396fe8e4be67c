package upload

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for the statuses callers usually branch on.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Error is returned when the backend rejects an upload. Its message is the
// user-facing Spanish text; errors.Is matches the sentinel for 401, 413 and
// 415 responses.
type Error struct {
	StatusCode int
	Message    string
	Body       string
	kind       error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.kind
}

// statusError maps a non-2xx upload response to an *Error.
func statusError(t Target, status int, body string) *Error {
	e := &Error{StatusCode: status, Body: body}
	switch status {
	case http.StatusUnauthorized:
		e.Message, e.kind = "No autorizado", ErrUnauthorized
	case http.StatusRequestEntityTooLarge:
		e.Message, e.kind = fmt.Sprintf("Archivo muy grande (máx %s)", t.MaxSize), ErrTooLarge
	case http.StatusUnsupportedMediaType:
		e.Message, e.kind = fmt.Sprintf("Tipo no permitido (%s)", t.Allowed), ErrUnsupportedType
	default:
		e.Message = fmt.Sprintf("Error al subir %s: %s", t.Noun, body)
	}
	return e
}
