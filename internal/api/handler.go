package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/savi-chat/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// SessionReader exposes the caller's session id, if any.
type SessionReader interface {
	ID(r *http.Request) string
}

// Handler wires the CRM store and session dependencies into HTTP handlers.
type Handler struct {
	storage  storage.Storage
	sessions SessionReader
	logger   *zap.Logger

	clock   func() time.Time
	version string
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) HandlerOption {
	return func(h *Handler) {
		h.version = version
	}
}

// WithSessions attaches interactions to the caller's session id.
func WithSessions(sessions SessionReader) HandlerOption {
	return func(h *Handler) {
		h.sessions = sessions
	}
}

// WithLogger sets the logger used for domain events.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage: store,
		logger:  zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "healthy",
		Timestamp: h.clock(),
		Version:   h.version,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListContacts(w http.ResponseWriter, r *http.Request) {
	_ = r
	contacts := h.storage.ListContacts()
	writeJSON(w, http.StatusOK, listResponse[storage.Contact]{
		Success: true,
		Data:    contacts,
		Total:   len(contacts),
	})
}

func (h *Handler) handleGetContact(w http.ResponseWriter, r *http.Request) {
	contact, err := h.storage.GetContact(r.PathValue("id"))
	if errors.Is(err, storage.ErrContactNotFound) {
		writeError(w, http.StatusNotFound, "Contact not found", "")
		return
	}

	writeJSON(w, http.StatusOK, itemResponse[storage.Contact]{
		Success: true,
		Data:    contact,
	})
}

func (h *Handler) handleLogInteraction(w http.ResponseWriter, r *http.Request) {
	var req logInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request too large", "request body exceeds the upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	contactID, _ := jsonText(req.ContactID)
	input := storage.InteractionInput{
		ContactID: contactID,
	}
	if kind, ok := jsonText(req.Type); ok {
		input.Type = &kind
	}
	if content, ok := jsonText(req.Content); ok {
		input.Content = &content
	}
	if h.sessions != nil {
		if id := h.sessions.ID(r); id != "" {
			input.SessionID = &id
		}
	}

	interaction := h.storage.LogInteraction(input)
	h.logger.Info("interaction logged",
		zap.String("interaction_id", interaction.ID),
		zap.String("contact_id", interaction.ContactID),
		zap.String("type", interaction.Type),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)

	writeJSON(w, http.StatusOK, itemResponse[storage.Interaction]{
		Success: true,
		Data:    interaction,
	})
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments := h.storage.ListPayments(r.URL.Query().Get("contact_id"))
	writeJSON(w, http.StatusOK, listResponse[storage.Payment]{
		Success: true,
		Data:    payments,
		Total:   len(payments),
	})
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// logInteractionRequest accepts any JSON value per field; nothing is validated.
type logInteractionRequest struct {
	ContactID json.RawMessage `json:"contact_id"`
	Type      json.RawMessage `json:"type"`
	Content   json.RawMessage `json:"content"`
}

// jsonText renders a raw field as text: strings are unquoted, other values keep
// their compact JSON form. ok is false when the field is absent or null.
func jsonText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, true
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw), true
	}
	return buf.String(), true
}

type listResponse[T any] struct {
	Success bool `json:"success"`
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
}

type itemResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}
