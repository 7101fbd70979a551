package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/arsdatascience/customer-engine/internal/entity"
)

type TrackInteractionInput struct {
	CustomerID string           `json:"customer_id"`
	TenantID   int64            `json:"tenant_id"`
	Channel    string           `json:"channel"`
	Type       string           `json:"type"`
	CampaignID *string          `json:"campaign_id,omitempty"`
	Metadata   map[string]any   `json:"metadata,omitempty"`
	UTM        entity.UTMParams `json:"utm"`
}

type TrackInteractionUseCase struct {
	Customers    CustomerRepositoryInterface
	Interactions InteractionRepositoryInterface
	Log          *zap.Logger
}

func NewTrackInteractionUseCase(customers CustomerRepositoryInterface, interactions InteractionRepositoryInterface, log *zap.Logger) *TrackInteractionUseCase {
	return &TrackInteractionUseCase{
		Customers:    customers,
		Interactions: interactions,
		Log:          log,
	}
}

// Execute grava o evento e os rollups do cliente (touchpoints, last_channel,
// last_interaction) como uma unidade atômica.
func (uc *TrackInteractionUseCase) Execute(ctx context.Context, input TrackInteractionInput) error {
	if input.CustomerID == "" {
		return &ValidationError{"customer_id", "is required"}
	}
	if input.Channel == "" {
		return &ValidationError{"channel", "is required"}
	}
	if input.Type == "" {
		return &ValidationError{"type", "is required"}
	}

	if _, err := uc.Customers.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return &NotFoundError{Resource: "customer", ID: input.CustomerID}
		}
		return &TransientStoreError{Op: "find customer", Err: err}
	}

	interaction, err := entity.NewInteraction(
		input.CustomerID,
		input.TenantID,
		input.Channel,
		input.Type,
		input.CampaignID,
		input.Metadata,
		input.UTM,
	)
	if err != nil {
		return &ValidationError{"interaction", err.Error()}
	}

	if err := uc.Interactions.AppendWithRollup(ctx, interaction); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return &NotFoundError{Resource: "customer", ID: input.CustomerID}
		}
		return &TransientStoreError{Op: "append interaction", Err: err}
	}

	uc.Log.Debug("interaction tracked",
		zap.String("customer_id", input.CustomerID),
		zap.String("channel", input.Channel),
		zap.String("type", input.Type))

	return nil
}
