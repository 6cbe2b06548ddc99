package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Postmaster-Live/postmaster/internal/api"
	"github.com/Postmaster-Live/postmaster/internal/signature"
	"github.com/Postmaster-Live/postmaster/internal/state"
)

func signedConfigRequest(t *testing.T, key string, body []byte) *http.Request {
	t.Helper()
	ts := time.Now().Unix()
	sig := signature.Sign(key, ts, body)

	req := httptest.NewRequest(http.MethodPost, "/config", bytes.NewBuffer(body))
	req.Header.Set("x-signature", sig)
	req.Header.Set("x-timestamp", strconv.FormatInt(ts, 10))
	return req
}

func TestConfigHandler_ValidRequest_CreatesHandler(t *testing.T) {
	st, _ := newTestState(t)
	body := []byte(`{"topic":"github-events"}`)
	req := signedConfigRequest(t, st.APISigningKey, body)
	w := httptest.NewRecorder()

	api.ConfigHandler(st, testLogger())(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		HandlerID  string `json:"handler_id"`
		WebhookURL string `json:"webhook_url"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.HandlerID == "" {
		t.Error("expected non-empty handler_id")
	}
	if !strings.Contains(resp.WebhookURL, resp.HandlerID) {
		t.Errorf("expected webhook_url to contain handler_id, got %q", resp.WebhookURL)
	}
}

func TestConfigHandler_MissingSignature_Unauthorized(t *testing.T) {
	st, _ := newTestState(t)
	req := httptest.NewRequest(http.MethodPost, "/config", bytes.NewBufferString(`{"topic":"events"}`))
	w := httptest.NewRecorder()

	api.ConfigHandler(st, testLogger())(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestConfigHandler_WrongSigningKey_Unauthorized(t *testing.T) {
	st, _ := newTestState(t)
	body := []byte(`{"topic":"events"}`)
	req := signedConfigRequest(t, "not-the-admin-key", body)
	w := httptest.NewRecorder()

	api.ConfigHandler(st, testLogger())(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestConfigHandler_MissingTopic_BadRequest(t *testing.T) {
	st, _ := newTestState(t)
	body := []byte(`{}`)
	req := signedConfigRequest(t, st.APISigningKey, body)
	w := httptest.NewRecorder()

	api.ConfigHandler(st, testLogger())(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
