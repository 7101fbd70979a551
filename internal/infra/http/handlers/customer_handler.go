package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arsdatascience/customer-engine/internal/entity"
	"github.com/arsdatascience/customer-engine/internal/infra/database"
	"github.com/arsdatascience/customer-engine/internal/usecase"
)

type CustomerHandler struct {
	ResolveUC    *usecase.ResolveCustomerUseCase
	StatsUC      *usecase.StatsUseCase
	CustomerRepo *database.CustomerRepository
}

func NewCustomerHandler(resolveUC *usecase.ResolveCustomerUseCase, statsUC *usecase.StatsUseCase, customerRepo *database.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{
		ResolveUC:    resolveUC,
		StatsUC:      statsUC,
		CustomerRepo: customerRepo,
	}
}

// HandleResolve (POST /customers/resolve)
func (h *CustomerHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var input usecase.ResolveCustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	customer, err := h.ResolveUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// HandleGet (GET /customers/{id})
func (h *CustomerHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		http.Error(w, "ID is required", http.StatusBadRequest)
		return
	}

	customer, err := h.CustomerRepo.FindByID(r.Context(), customerID)
	if errors.Is(err, entity.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// HandleJourneyStats (GET /stats/journey?tenant_id=)
func (h *CustomerHandler) HandleJourneyStats(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromQuery(w, r)
	if !ok {
		return
	}

	stats, err := h.StatsUC.CustomerJourneyStats(r.Context(), tenantID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleChannelMix (GET /stats/channel-mix?tenant_id=) — janela de 30 dias
func (h *CustomerHandler) HandleChannelMix(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromQuery(w, r)
	if !ok {
		return
	}

	stats, err := h.StatsUC.ChannelMixStats(r.Context(), tenantID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func tenantFromQuery(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("tenant_id")
	tenantID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.Error(w, "tenant_id must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return tenantID, true
}
