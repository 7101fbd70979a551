package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type IdentifierType string

const (
	IdentifierEmail     IdentifierType = "email"
	IdentifierPhone     IdentifierType = "phone"
	IdentifierMessaging IdentifierType = "messaging_handle"
)

// Confiança padrão por tipo de identificador.
// Email é verificável; phone e handle podem ser compartilhados.
const (
	ConfidenceEmail     = 1.0
	ConfidencePhone     = 0.95
	ConfidenceMessaging = 0.95
)

// IdentifierSet agrupa os identificadores conhecidos de um contato.
type IdentifierSet struct {
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	MessagingHandle string `json:"messaging_handle,omitempty"`
}

func (s IdentifierSet) Empty() bool {
	return s.Email == "" && s.Phone == "" && s.MessagingHandle == ""
}

// IdentityLink liga um identificador (type, value) a exatamente um cliente.
// Invariante: no máximo um cliente por par (type, value).
type IdentityLink struct {
	ID              string         `json:"id"`
	CustomerID      string         `json:"customer_id"`
	IdentifierType  IdentifierType `json:"identifier_type"`
	IdentifierValue string         `json:"identifier_value"`
	Confidence      float64        `json:"confidence"`
	SourceChannel   string         `json:"source_channel"`
	LastSeenAt      time.Time      `json:"last_seen_at"`
	CreatedAt       time.Time      `json:"created_at"`
}

func NewIdentityLink(customerID string, identifierType IdentifierType, value string, confidence float64, source string) (*IdentityLink, error) {
	if customerID == "" {
		return nil, errors.New("customer id is required")
	}
	if value == "" {
		return nil, errors.New("identifier value is required")
	}
	if confidence < 0 || confidence > 1 {
		return nil, errors.New("confidence must be within [0, 1]")
	}

	now := time.Now()
	return &IdentityLink{
		ID:              uuid.New().String(),
		CustomerID:      customerID,
		IdentifierType:  identifierType,
		IdentifierValue: value,
		Confidence:      confidence,
		SourceChannel:   source,
		LastSeenAt:      now,
		CreatedAt:       now,
	}, nil
}

// IdentityAudit registra toda tentativa de troca de dono de um identificador.
// Sem isso, dois clientes reais compartilhando um telefone viram um merge silencioso.
type IdentityAudit struct {
	ID              string         `json:"id"`
	IdentifierType  IdentifierType `json:"identifier_type"`
	IdentifierValue string         `json:"identifier_value"`
	OwnerID         string         `json:"owner_id"`
	ClaimantID      string         `json:"claimant_id"`
	SourceChannel   string         `json:"source_channel"`
	CreatedAt       time.Time      `json:"created_at"`
}

func NewIdentityAudit(identifierType IdentifierType, value, ownerID, claimantID, source string) *IdentityAudit {
	return &IdentityAudit{
		ID:              uuid.New().String(),
		IdentifierType:  identifierType,
		IdentifierValue: value,
		OwnerID:         ownerID,
		ClaimantID:      claimantID,
		SourceChannel:   source,
		CreatedAt:       time.Now(),
	}
}
