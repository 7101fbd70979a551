package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/arsdatascience/customer-engine/internal/usecase"
)

type ConversionHandler struct {
	TrackUC *usecase.TrackConversionUseCase
}

func NewConversionHandler(trackUC *usecase.TrackConversionUseCase) *ConversionHandler {
	return &ConversionHandler{TrackUC: trackUC}
}

// Handle (POST /conversions)
func (h *ConversionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.TrackConversionInput
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
