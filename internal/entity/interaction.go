package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// UTMParams carrega os parâmetros de campanha vindos do canal de origem.
type UTMParams struct {
	Source   string `json:"utm_source,omitempty"`
	Medium   string `json:"utm_medium,omitempty"`
	Campaign string `json:"utm_campaign,omitempty"`
	Term     string `json:"utm_term,omitempty"`
	Content  string `json:"utm_content,omitempty"`
}

// Entidade: Interaction
// Evento imutável, append-only. Nunca é atualizado ou deletado.
type Interaction struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customer_id"`
	TenantID   int64          `json:"tenant_id"`
	Channel    string         `json:"channel"`
	Type       string         `json:"type"`
	CampaignID *string        `json:"campaign_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	UTM        UTMParams      `json:"utm"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewInteraction(customerID string, tenantID int64, channel, interactionType string, campaignID *string, metadata map[string]any, utm UTMParams) (*Interaction, error) {
	if customerID == "" {
		return nil, errors.New("customer id is required")
	}
	if channel == "" {
		return nil, errors.New("channel is required")
	}
	if interactionType == "" {
		return nil, errors.New("interaction type is required")
	}

	return &Interaction{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		TenantID:   tenantID,
		Channel:    channel,
		Type:       interactionType,
		CampaignID: campaignID,
		Metadata:   metadata,
		UTM:        utm,
		OccurredAt: time.Now(),
	}, nil
}
