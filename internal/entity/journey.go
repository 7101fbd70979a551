package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type JourneyStatus string

const (
	JourneyActive    JourneyStatus = "active"
	JourneyCompleted JourneyStatus = "completed"
	JourneyAbandoned JourneyStatus = "abandoned"
)

const DefaultJourneySteps = 5

// Entidade: Journey
// Sequência nomeada de passos (onboarding, winback, etc). Nunca deletada,
// apenas marcada como terminal.
type Journey struct {
	ID          string         `json:"id"`
	CustomerID  string         `json:"customer_id"`
	TenantID    int64          `json:"tenant_id"`
	Type        string         `json:"type"`
	CurrentStep int            `json:"current_step"`
	TotalSteps  int            `json:"total_steps"`
	Status      JourneyStatus  `json:"status"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	LastStepAt  time.Time      `json:"last_step_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

func NewJourney(customerID string, tenantID int64, journeyType string, triggerData map[string]any, totalSteps int) (*Journey, error) {
	if customerID == "" {
		return nil, errors.New("customer id is required")
	}
	if journeyType == "" {
		return nil, errors.New("journey type is required")
	}
	if totalSteps <= 0 {
		totalSteps = DefaultJourneySteps
	}

	now := time.Now()
	return &Journey{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		TenantID:    tenantID,
		Type:        journeyType,
		CurrentStep: 0,
		TotalSteps:  totalSteps,
		Status:      JourneyActive,
		TriggerData: triggerData,
		StartedAt:   now,
		LastStepAt:  now,
	}, nil
}

func (j *Journey) Terminal() bool {
	return j.Status == JourneyCompleted || j.Status == JourneyAbandoned
}

// Advance avança um passo. Ao atingir o último passo a jornada completa.
func (j *Journey) Advance() error {
	if j.Terminal() {
		return ErrJourneyTerminal
	}

	j.CurrentStep++
	j.LastStepAt = time.Now()

	if j.CurrentStep >= j.TotalSteps {
		j.CurrentStep = j.TotalSteps
		j.complete()
	}
	return nil
}

func (j *Journey) Abandon() error {
	if j.Terminal() {
		return ErrJourneyTerminal
	}
	j.Status = JourneyAbandoned
	now := time.Now()
	j.CompletedAt = &now
	return nil
}

func (j *Journey) complete() {
	j.Status = JourneyCompleted
	now := time.Now()
	j.CompletedAt = &now
}
