package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/arsdatascience/customer-engine/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError mapeia a taxonomia de erros do usecase para status HTTP.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case usecase.IsValidationError(err):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case usecase.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case usecase.IsConflict(err):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case usecase.IsTransient(err):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store temporarily unavailable, retry"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
