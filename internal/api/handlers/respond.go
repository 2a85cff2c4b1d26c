package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/wonny/probe/backend/internal/contracts"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusForError maps error kinds to HTTP status codes
func statusForError(err error) int {
	switch {
	case contracts.IsKind(err, contracts.ErrInvalidInput),
		contracts.IsKind(err, contracts.ErrInvalidDocument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
