package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps the error taxonomy onto status codes: client
// mistakes and constraint violations are 4xx, store faults are 5xx.
func writeDomainError(w http.ResponseWriter, err error) {
	var storeErr *domain.StoreError
	switch {
	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrInvalidTestType),
		errors.Is(err, domain.ErrVerificationFailed),
		errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAuthFailure):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.As(err, &storeErr):
		if storeErr.Constraint {
			writeError(w, http.StatusBadRequest, storeErr.Err.Error())
			return
		}
		log.Printf("store error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
	default:
		log.Printf("unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}
