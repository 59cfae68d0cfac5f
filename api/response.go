package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/garnizeh/chronosflow/internal/roles"
	"github.com/garnizeh/chronosflow/internal/service"
	"github.com/garnizeh/chronosflow/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("err", err))
	}
}

// writeError maps service errors to a status code. Validation failures carry
// their user-facing message; anything unexpected is logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	var cerr *roles.ConflictError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, errorResponse{Error: verr.Message}, http.StatusUnprocessableEntity)
	case errors.As(err, &cerr):
		writeJSON(w, errorResponse{Error: cerr.Message}, http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrAccountNotFound):
		writeJSON(w, errorResponse{Error: "User not found. Please sign up first."}, http.StatusUnauthorized)
	case errors.Is(err, service.ErrWrongPassword):
		writeJSON(w, errorResponse{Error: "Incorrect password."}, http.StatusUnauthorized)
	case errors.Is(err, store.ErrEmployeeNotFound):
		writeJSON(w, errorResponse{Error: "Employee not found"}, http.StatusNotFound)
	default:
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
		writeJSON(w, errorResponse{Error: "Internal Server Error"}, http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
