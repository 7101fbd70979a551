package entity

import "errors"

var (
	// ErrNotFound: registro inexistente no repositório.
	ErrNotFound = errors.New("record not found")

	// ErrIdentifierTaken: violação de unicidade (tenant, identifier).
	ErrIdentifierTaken = errors.New("identifier already registered")

	// ErrIdentityConflict: identificador já pertence a OUTRO cliente.
	// Nunca sobrescrever o dono silenciosamente.
	ErrIdentityConflict = errors.New("identifier bound to a different customer")

	// ErrJourneyTerminal: jornada completed/abandoned não transiciona mais.
	ErrJourneyTerminal = errors.New("journey already in terminal status")
)
