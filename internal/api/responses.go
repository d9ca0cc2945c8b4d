package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/schema"
	"github.com/abhisek/lingo/internal/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondWithJSON writes data as JSON with the given status.
func RespondWithJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error reply carrying the request ID.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithJSON(w, status, ErrorResponse{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// respondWithErr maps err to a status and a client-safe message. Server
// errors are logged and their details kept out of the reply.
func respondWithErr(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := MapErrorToStatusCode(err)
	msg := SafeErrorMessage(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "error", err)
	} else {
		logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	RespondWithError(w, r, status, msg)
}

// MapErrorToStatusCode maps domain errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, grading.ErrMissingSnapshot),
		errors.Is(err, grading.ErrEmptyBatch),
		schema.IsInvalidDocument(err),
		errors.As(err, &verrs),
		isDecodeError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// SafeErrorMessage returns a message that can be shown to clients.
func SafeErrorMessage(err error) string {
	var missing *grading.MissingSnapshotError
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return "an unexpected error occurred"
	case errors.As(err, &missing):
		return missing.Error()
	case errors.Is(err, grading.ErrEmptyBatch):
		return grading.ErrEmptyBatch.Error()
	case errors.Is(err, store.ErrNotFound):
		return "not found"
	case errors.Is(err, store.ErrConflict):
		return "conflict"
	case schema.IsInvalidDocument(err):
		return err.Error()
	case errors.As(err, &verrs):
		return "validation error: " + verrs.Error()
	case isDecodeError(err):
		return "invalid request body"
	default:
		return "internal error"
	}
}

// decodeError marks a request body that is not valid JSON for its target.
type decodeError struct{ err error }

func (e *decodeError) Error() string { return fmt.Sprintf("decode request: %v", e.err) }
func (e *decodeError) Unwrap() error { return e.err }

func isDecodeError(err error) bool {
	var d *decodeError
	return errors.As(err, &d)
}

// decodeJSON decodes the body into v and validates its struct tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, validate *validator.Validate, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return &decodeError{err: err}
	}
	return validate.Struct(v)
}

// decodeDocument checks the body against a JSON schema before decoding it.
func decodeDocument[T any](w http.ResponseWriter, r *http.Request, s *schema.Schema) (T, error) {
	var zero T
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return zero, &decodeError{err: err}
	}
	return schema.Decode[T](s, raw)
}
