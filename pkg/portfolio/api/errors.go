package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// errBadRequest marks request bodies that are not valid JSON
var errBadRequest = errors.New("invalid request body")

// Error codes carried in ErrorResponse.Code
const (
	CodeValidation     = "validation_error"
	CodeUnknownKind    = "unknown_kind"
	CodeMalformed      = "malformed_payload"
	CodeBadRequest     = "bad_request"
	CodeNotFound       = "not_found"
	CodeNotARepository = "not_a_repository"
	CodePublishFailed  = "publish_failed"
	CodeCorruptStore   = "corrupt_store"
	CodeInternalError  = "internal_error"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify maps an error to its HTTP status and code
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, portfolio.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, portfolio.ErrUnknownKind):
		return http.StatusBadRequest, CodeUnknownKind
	case errors.Is(err, portfolio.ErrMalformedPayload):
		return http.StatusBadRequest, CodeMalformed
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, portfolio.ErrEntryNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, portfolio.ErrNotARepository):
		return http.StatusConflict, CodeNotARepository
	case errors.Is(err, portfolio.ErrPublishFailed):
		return http.StatusBadGateway, CodePublishFailed
	case errors.Is(err, portfolio.ErrCorruptStore):
		return http.StatusInternalServerError, CodeCorruptStore
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// writeError logs err once and renders it
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := classify(err)

	attrs := []any{"op", op, "code", code, "error", err, "request_id", RequestIDFromContext(r.Context())}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", attrs...)
	} else {
		slog.WarnContext(r.Context(), "Request rejected", attrs...)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{OK: false, Error: err.Error(), Code: code})
}
