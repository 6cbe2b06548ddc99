package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Postmaster-Live/postmaster/internal/api"
)

func TestHealthHandler_AlwaysHealthy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	api.HealthHandler()(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected status 'healthy', got %q", body["status"])
	}
}

func TestReadyHandler_AllDependenciesUp_Ready(t *testing.T) {
	st, _ := newTestState(t)
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()

	api.ReadyHandler(st)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestReadyHandler_KafkaDown_ServiceUnavailable(t *testing.T) {
	gw := &fakeGateway{connectErr: errFakeUnreachable}
	crdClient := &fakeCRDClient{}
	st := newStateWith(gw, crdClient)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()

	api.ReadyHandler(st)(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestReadyHandler_KubernetesDown_ServiceUnavailable(t *testing.T) {
	gw := &fakeGateway{}
	crdClient := &fakeCRDClient{listErr: errors.New("cluster unreachable")}
	st := newStateWith(gw, crdClient)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()

	api.ReadyHandler(st)(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}
