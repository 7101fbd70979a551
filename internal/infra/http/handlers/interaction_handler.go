package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/arsdatascience/customer-engine/internal/usecase"
)

type InteractionHandler struct {
	TrackUC *usecase.TrackInteractionUseCase
}

func NewInteractionHandler(trackUC *usecase.TrackInteractionUseCase) *InteractionHandler {
	return &InteractionHandler{TrackUC: trackUC}
}

// Handle (POST /interactions)
func (h *InteractionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.TrackInteractionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.TrackUC.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
