package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/critterpost/critterpost/internal/repository"
	"github.com/critterpost/critterpost/internal/service"
	"github.com/critterpost/critterpost/internal/token"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeServiceError maps service/repository errors to HTTP responses.
// Unrecognized errors become opaque 500s; details stay in the logs.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "post not found")
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrEmailNotConfirmed):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, token.ErrExpired),
		errors.Is(err, token.ErrInvalidPurpose),
		errors.Is(err, token.ErrMalformed):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}
