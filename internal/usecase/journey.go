package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/arsdatascience/customer-engine/internal/entity"
)

type StartJourneyInput struct {
	CustomerID  string         `json:"customer_id"`
	TenantID    int64          `json:"tenant_id"`
	Type        string         `json:"type"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
	TotalSteps  int            `json:"total_steps,omitempty"`
}

// JourneyUseCase é a máquina de estados de jornadas + estágio de ciclo
// de vida do cliente.
type JourneyUseCase struct {
	Customers CustomerRepositoryInterface
	Journeys  JourneyRepositoryInterface
	Log       *zap.Logger
}

func NewJourneyUseCase(customers CustomerRepositoryInterface, journeys JourneyRepositoryInterface, log *zap.Logger) *JourneyUseCase {
	return &JourneyUseCase{
		Customers: customers,
		Journeys:  journeys,
		Log:       log,
	}
}

func (uc *JourneyUseCase) StartJourney(ctx context.Context, input StartJourneyInput) (*entity.Journey, error) {
	if input.CustomerID == "" {
		return nil, &ValidationError{"customer_id", "is required"}
	}
	if input.Type == "" {
		return nil, &ValidationError{"type", "is required"}
	}

	if _, err := uc.Customers.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, &NotFoundError{Resource: "customer", ID: input.CustomerID}
		}
		return nil, &TransientStoreError{Op: "find customer", Err: err}
	}

	journey, err := entity.NewJourney(input.CustomerID, input.TenantID, input.Type, input.TriggerData, input.TotalSteps)
	if err != nil {
		return nil, &ValidationError{"journey", err.Error()}
	}

	if err := uc.Journeys.Create(ctx, journey); err != nil {
		return nil, &TransientStoreError{Op: "create journey", Err: err}
	}

	uc.Log.Info("journey started",
		zap.String("journey_id", journey.ID),
		zap.String("customer_id", journey.CustomerID),
		zap.String("type", journey.Type),
		zap.Int("total_steps", journey.TotalSteps))

	return journey, nil
}

// UpdateStage valida o valor contra o enum fechado e a tabela de transições
// antes de gravar.
func (uc *JourneyUseCase) UpdateStage(ctx context.Context, customerID, stage string) error {
	if customerID == "" {
		return &ValidationError{"customer_id", "is required"}
	}

	next := entity.Stage(stage)
	if !next.Valid() {
		return &ValidationError{"stage", "must be one of awareness, consideration, decision, retention"}
	}

	customer, err := uc.Customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return &NotFoundError{Resource: "customer", ID: customerID}
		}
		return &TransientStoreError{Op: "find customer", Err: err}
	}

	if !customer.CurrentStage.CanTransition(next) {
		return &ValidationError{"stage", "transition from " + string(customer.CurrentStage) + " to " + stage + " is not allowed"}
	}

	if err := uc.Customers.UpdateStage(ctx, customerID, next); err != nil {
		return &TransientStoreError{Op: "update stage", Err: err}
	}
	return nil
}

func (uc *JourneyUseCase) AdvanceJourney(ctx context.Context, journeyID string) (*entity.Journey, error) {
	journey, err := uc.findJourney(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	if err := journey.Advance(); err != nil {
		return nil, &ConflictError{Code: "JOURNEY_TERMINAL", Message: err.Error()}
	}

	if err := uc.Journeys.Update(ctx, journey); err != nil {
		return nil, &TransientStoreError{Op: "update journey", Err: err}
	}

	if journey.Status == entity.JourneyCompleted {
		uc.Log.Info("journey completed", zap.String("journey_id", journey.ID))
	}
	return journey, nil
}

func (uc *JourneyUseCase) AbandonJourney(ctx context.Context, journeyID string) (*entity.Journey, error) {
	journey, err := uc.findJourney(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	if err := journey.Abandon(); err != nil {
		return nil, &ConflictError{Code: "JOURNEY_TERMINAL", Message: err.Error()}
	}

	if err := uc.Journeys.Update(ctx, journey); err != nil {
		return nil, &TransientStoreError{Op: "update journey", Err: err}
	}
	return journey, nil
}

func (uc *JourneyUseCase) findJourney(ctx context.Context, journeyID string) (*entity.Journey, error) {
	if journeyID == "" {
		return nil, &ValidationError{"journey_id", "is required"}
	}
	journey, err := uc.Journeys.FindByID(ctx, journeyID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, &NotFoundError{Resource: "journey", ID: journeyID}
		}
		return nil, &TransientStoreError{Op: "find journey", Err: err}
	}
	return journey, nil
}
