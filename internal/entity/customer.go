package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

// Stage é o estágio do ciclo de vida do cliente. Valores fechados.
type Stage string

const (
	StageAwareness     Stage = "awareness"
	StageConsideration Stage = "consideration"
	StageDecision      Stage = "decision"
	StageRetention     Stage = "retention"
)

func (s Stage) Valid() bool {
	switch s {
	case StageAwareness, StageConsideration, StageDecision, StageRetention:
		return true
	}
	return false
}

// stageTransitions é a tabela explícita de transições permitidas.
// Movimento para trás é válido (reengajamento / churn recovery).
var stageTransitions = map[Stage][]Stage{
	StageAwareness:     {StageConsideration, StageDecision, StageRetention},
	StageConsideration: {StageAwareness, StageDecision, StageRetention},
	StageDecision:      {StageAwareness, StageConsideration, StageRetention},
	StageRetention:     {StageAwareness, StageConsideration, StageDecision},
}

// CanTransition informa se a mudança de estágio é permitida.
// Setar o mesmo estágio de novo é no-op permitido.
func (s Stage) CanTransition(to Stage) bool {
	if !s.Valid() || !to.Valid() {
		return false
	}
	if s == to {
		return true
	}
	for _, allowed := range stageTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Entidade: UnifiedCustomer
// Perfil deduplicado representando uma pessoa real através dos canais.
type UnifiedCustomer struct {
	ID       string  `json:"id"`
	TenantID int64   `json:"tenant_id"`
	ClientID *string `json:"client_id,omitempty"`

	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	MessagingHandle string `json:"messaging_handle,omitempty"`
	Name            string `json:"name,omitempty"`

	CurrentStage     Stage     `json:"current_stage"`
	LastChannel      string    `json:"last_channel"`
	LastInteraction  time.Time `json:"last_interaction"`
	TotalTouchpoints int       `json:"total_touchpoints"`

	LifetimeValue float64 `json:"lifetime_value"`
	PurchaseCount int     `json:"purchase_count"`

	Tags     []string `json:"tags,omitempty"`
	Segments []string `json:"segments,omitempty"`

	CartValue    float64        `json:"cart_value"`
	CartSnapshot map[string]any `json:"cart_snapshot,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Factory
func NewUnifiedCustomer(ids IdentifierSet, tenantID int64, clientID *string, name, source string) (*UnifiedCustomer, error) {
	now := time.Now()
	customer := &UnifiedCustomer{
		ID:       uuid.New().String(),
		TenantID: tenantID,
		ClientID: clientID,

		Email:           ids.Email,
		Phone:           ids.Phone,
		MessagingHandle: ids.MessagingHandle,
		Name:            name,

		CurrentStage:     StageAwareness,
		LastChannel:      source,
		LastInteraction:  now,
		TotalTouchpoints: 1,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	return customer, nil
}

func (c *UnifiedCustomer) Validate() error {
	if c.Email == "" && c.Phone == "" && c.MessagingHandle == "" {
		return errors.New("at least one identifier is required")
	}
	if !c.CurrentStage.Valid() {
		return errors.New("invalid lifecycle stage")
	}
	if c.TotalTouchpoints < 0 {
		return errors.New("total_touchpoints must not be negative")
	}
	if c.LifetimeValue < 0 {
		return errors.New("lifetime_value must not be negative")
	}
	return nil
}
