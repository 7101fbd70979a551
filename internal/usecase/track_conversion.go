package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arsdatascience/customer-engine/internal/entity"
	"github.com/arsdatascience/customer-engine/internal/infra/http/middleware"
	"github.com/arsdatascience/customer-engine/internal/infra/queue"
)

type TrackConversionInput struct {
	CustomerID string   `json:"customer_id"`
	TenantID   int64    `json:"tenant_id"`
	Type       string   `json:"type"`
	Value      float64  `json:"value"`
	OrderID    *string  `json:"order_id,omitempty"`
	Path       []string `json:"path"`
}

type TrackConversionUseCase struct {
	Customers   CustomerRepositoryInterface
	Conversions ConversionRepositoryInterface
	Queue       QueueProducerInterface
	Log         *zap.Logger
}

func NewTrackConversionUseCase(customers CustomerRepositoryInterface, conversions ConversionRepositoryInterface, producer QueueProducerInterface, log *zap.Logger) *TrackConversionUseCase {
	return &TrackConversionUseCase{
		Customers:   customers,
		Conversions: conversions,
		Queue:       producer,
		Log:         log,
	}
}

// Execute computa os quatro modelos de atribuição sobre o caminho e grava
// evento + efeitos no cliente numa transação única. Falha fecha tudo:
// nenhum crédito parcial, nenhum LTV parcial.
func (uc *TrackConversionUseCase) Execute(ctx context.Context, input TrackConversionInput) error {
	if input.CustomerID == "" {
		return &ValidationError{"customer_id", "is required"}
	}
	if input.Type == "" {
		return &ValidationError{"type", "is required"}
	}
	if input.Value < 0 {
		return &ValidationError{"value", "must not be negative"}
	}
	if len(input.Path) > MaxTouchpointPath {
		return &ValidationError{"path", fmt.Sprintf("must not exceed %d touchpoints", MaxTouchpointPath)}
	}

	if _, err := uc.Customers.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return &NotFoundError{Resource: "customer", ID: input.CustomerID}
		}
		return &TransientStoreError{Op: "find customer", Err: err}
	}

	event, err := entity.NewConversionEvent(input.CustomerID, input.TenantID, input.Type, input.Value, input.OrderID, input.Path)
	if err != nil {
		return &ValidationError{"conversion", err.Error()}
	}

	// Caminho vazio pula os modelos mas ainda persiste evento e LTV.
	attr := ComputeAttribution(input.Path)
	event.FirstTouch = attr.FirstTouch
	event.LastTouch = attr.LastTouch
	event.LastClickCredits = attr.LastClick
	event.FirstClickCredits = attr.FirstClick
	event.LinearCredits = attr.Linear
	event.TimeDecayCredits = attr.TimeDecay

	if err := uc.Conversions.SaveWithCustomerUpdate(ctx, event); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return &NotFoundError{Resource: "customer", ID: input.CustomerID}
		}
		return &TransientStoreError{Op: "save conversion", Err: err}
	}

	middleware.RecordConversion(input.Type)
	uc.Log.Info("conversion tracked",
		zap.String("customer_id", input.CustomerID),
		zap.String("type", input.Type),
		zap.Float64("value", input.Value),
		zap.Int("touchpoints", event.TouchpointsCount))

	// Publicação pós-commit: o consumidor completa jornadas ativas.
	// Falha aqui não desfaz a conversão já persistida.
	if uc.Queue != nil {
		payload := queue.ConversionPayload{
			CustomerID:     event.CustomerID,
			TenantID:       event.TenantID,
			ConversionType: event.Type,
			Value:          event.Value,
			OrderID:        event.OrderID,
			OccurredAt:     event.OccurredAt,
		}
		if err := uc.Queue.PublishConversion(ctx, payload); err != nil {
			uc.Log.Warn("failed to publish conversion to queue", zap.Error(err))
		}
	}

	return nil
}
