package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arsdatascience/customer-engine/internal/usecase"
)

type JourneyHandler struct {
	JourneyUC *usecase.JourneyUseCase
}

func NewJourneyHandler(journeyUC *usecase.JourneyUseCase) *JourneyHandler {
	return &JourneyHandler{JourneyUC: journeyUC}
}

// HandleStart (POST /journeys)
func (h *JourneyHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var input usecase.StartJourneyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	journey, err := h.JourneyUC.StartJourney(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, journey)
}

// HandleAdvance (POST /journeys/{id}/advance)
func (h *JourneyHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	journey, err := h.JourneyUC.AdvanceJourney(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, journey)
}

// HandleAbandon (POST /journeys/{id}/abandon)
func (h *JourneyHandler) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	journey, err := h.JourneyUC.AbandonJourney(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, journey)
}

// HandleUpdateStage (PUT /customers/{id}/stage)
func (h *JourneyHandler) HandleUpdateStage(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	var body struct {
		Stage string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.JourneyUC.UpdateStage(r.Context(), customerID, body.Stage); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
