package application

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	app, err := New(baseTestConfig("0"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	handler := app.Server().Handler

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	rec = performRequest(t, handler, http.MethodGet, "/chat", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from chat page, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	sessionID := app.sessions.ID(func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		return req
	}())
	if sessionID == "" {
		t.Fatalf("expected chat page to issue a session id")
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/crm/contacts/1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from contact lookup, got %d", rec.Code)
	}

	payload, _ := json.Marshal(map[string]any{"contact_id": "1", "content": "hello"})
	rec = performRequest(t, handler, http.MethodPost, "/api/crm/interactions", payload, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from interaction log, got %d", rec.Code)
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			ID        string    `json:"id"`
			Type      string    `json:"type"`
			Timestamp time.Time `json:"timestamp"`
			SessionID string    `json:"session_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !response.Success || response.Data.ID == "" {
		t.Fatalf("expected stored interaction, got %+v", response)
	}
	if response.Data.Type != "chat" {
		t.Fatalf("expected default type chat, got %s", response.Data.Type)
	}
	if response.Data.SessionID != sessionID {
		t.Fatalf("expected session id %s, got %s", sessionID, response.Data.SessionID)
	}
	if response.Data.Timestamp.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %s", response.Data.Timestamp)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/crm/payments?contact_id=1", nil, nil)
	var payments struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payments); err != nil {
		t.Fatalf("decode payments: %v", err)
	}
	if payments.Total != 1 {
		t.Fatalf("expected 1 payment for contact 1, got %d", payments.Total)
	}

	if got := len(app.storage.ListInteractions()); got != 1 {
		t.Fatalf("expected 1 stored interaction, got %d", got)
	}
}
