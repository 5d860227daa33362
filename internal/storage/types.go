package storage

import "time"

// DefaultInteractionType is applied when an interaction is logged without a type.
const DefaultInteractionType = "chat"

// Contact is a CRM contact. Status is an open set ("active", "prospect", ...).
type Contact struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Company         string `json:"company"`
	Phone           string `json:"phone"`
	LastInteraction string `json:"last_interaction"`
	Status          string `json:"status"`
}

// Interaction is an append-only record of a customer touchpoint.
// ContactID is not checked against the contact collection.
type Interaction struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	Type      string    `json:"type"`
	Content   *string   `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	SessionID *string   `json:"session_id"`
}

// InteractionInput carries the caller-supplied fields of a new interaction.
// A nil Type means the caller sent none; an empty one is kept as is.
type InteractionInput struct {
	ContactID string
	Type      *string
	Content   *string
	SessionID *string
}

// Payment is a read-only payment record.
type Payment struct {
	ID          string  `json:"id"`
	ContactID   string  `json:"contact_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}
