package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizline/internal/session"
)

func writeServiceError(w http.ResponseWriter, err error) {
	var storeErr *session.StoreError
	switch {
	case errors.Is(err, session.ErrInsufficientQuestions):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch enough questions"})
	case errors.As(err, &storeErr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "session store unavailable"})
	default:
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "request failed"})
	}
}

func writeMethodNotAllowed(w http.ResponseWriter, allowedMethod string) {
	w.Header().Set("Allow", allowedMethod)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
