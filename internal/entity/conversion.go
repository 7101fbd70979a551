package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Entidade: ConversionEvent
// Imutável depois de criado. Carrega o caminho de touchpoints ordenado e os
// quatro mapas de crédito (canal -> percentual).
type ConversionEvent struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	TenantID   int64  `json:"tenant_id"`

	Type    string  `json:"type"`
	Value   float64 `json:"value"`
	OrderID *string `json:"order_id,omitempty"`

	TouchpointPath   []string `json:"touchpoint_path"`
	TouchpointsCount int      `json:"touchpoints_count"`
	FirstTouch       *string  `json:"first_touch,omitempty"`
	LastTouch        *string  `json:"last_touch,omitempty"`

	LastClickCredits  map[string]float64 `json:"last_click_credits,omitempty"`
	FirstClickCredits map[string]float64 `json:"first_click_credits,omitempty"`
	LinearCredits     map[string]float64 `json:"linear_credits,omitempty"`
	TimeDecayCredits  map[string]float64 `json:"time_decay_credits,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

func NewConversionEvent(customerID string, tenantID int64, conversionType string, value float64, orderID *string, path []string) (*ConversionEvent, error) {
	if customerID == "" {
		return nil, errors.New("customer id is required")
	}
	if conversionType == "" {
		return nil, errors.New("conversion type is required")
	}
	if value < 0 {
		return nil, errors.New("conversion value must not be negative")
	}

	return &ConversionEvent{
		ID:               uuid.New().String(),
		CustomerID:       customerID,
		TenantID:         tenantID,
		Type:             conversionType,
		Value:            value,
		OrderID:          orderID,
		TouchpointPath:   path,
		TouchpointsCount: len(path),
		OccurredAt:       time.Now(),
	}, nil
}
