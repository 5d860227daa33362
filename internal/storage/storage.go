package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrContactNotFound indicates no contact carries the requested id.
	ErrContactNotFound = errors.New("contact not found")
)

// Storage provides access to the mock CRM records.
type Storage interface {
	ListContacts() []Contact
	GetContact(id string) (Contact, error)
	LogInteraction(input InteractionInput) Interaction
	ListInteractions() []Interaction
	ListPayments(contactID string) []Payment
}

// Option configures a MemoryStorage.
type Option func(*MemoryStorage)

// WithClock overrides the time source used to stamp interactions.
func WithClock(clock func() time.Time) Option {
	return func(s *MemoryStorage) {
		s.clock = clock
	}
}

// WithIDGenerator overrides how interaction ids are produced.
func WithIDGenerator(next func() string) Option {
	return func(s *MemoryStorage) {
		s.newID = next
	}
}

// MemoryStorage keeps CRM records in-memory. Contacts and payments are fixed at
// construction; interactions are guarded by a RWMutex.
type MemoryStorage struct {
	contacts []Contact
	payments []Payment

	clock func() time.Time
	newID func() string

	mu           sync.RWMutex
	interactions []Interaction
}

// NewMemoryStorage initialises storage with a copy of the provided seed.
func NewMemoryStorage(seed Seed, opts ...Option) *MemoryStorage {
	s := &MemoryStorage{
		contacts:     cloneSlice(seed.Contacts),
		payments:     cloneSlice(seed.Payments),
		interactions: []Interaction{},
		clock: func() time.Time {
			return time.Now().UTC()
		},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListContacts returns every contact in seed order.
func (s *MemoryStorage) ListContacts() []Contact {
	return cloneSlice(s.contacts)
}

// GetContact returns the first contact whose id matches.
func (s *MemoryStorage) GetContact(id string) (Contact, error) {
	for _, c := range s.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return Contact{}, ErrContactNotFound
}

// LogInteraction stamps, stores and returns a new interaction. A missing Type
// becomes DefaultInteractionType. Repeated identical calls create distinct records.
func (s *MemoryStorage) LogInteraction(input InteractionInput) Interaction {
	interactionType := DefaultInteractionType
	if input.Type != nil {
		interactionType = *input.Type
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	interaction := Interaction{
		ID:        s.newID(),
		ContactID: input.ContactID,
		Type:      interactionType,
		Content:   cloneString(input.Content),
		Timestamp: s.clock().UTC(),
		SessionID: cloneString(input.SessionID),
	}
	s.interactions = append(s.interactions, interaction)

	return interaction
}

// ListInteractions returns a snapshot of logged interactions in append order.
func (s *MemoryStorage) ListInteractions() []Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneSlice(s.interactions)
}

// ListPayments returns all payments, or only those for contactID when it is non-empty.
func (s *MemoryStorage) ListPayments(contactID string) []Payment {
	if contactID == "" {
		return cloneSlice(s.payments)
	}

	out := make([]Payment, 0, len(s.payments))
	for _, p := range s.payments {
		if p.ContactID == contactID {
			out = append(out, p)
		}
	}
	return out
}

func cloneSlice[T any](src []T) []T {
	out := make([]T, len(src))
	copy(out, src)
	return out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
