package config

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"bolagsbron/pkg/core/agent"
)

type noopProvider struct{}

func (noopProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	return "", nil
}

func (noopProvider) AdaptInstructions(raw string) string { return raw }

func setupManager(t *testing.T) *agent.Manager {
	t.Helper()
	mgr := agent.NewManager(agent.Config{ActiveProvider: "deepseek"})
	InitHandler(mgr)
	return mgr
}

func TestHandleConfigReportsProviders(t *testing.T) {
	setupManager(t)

	rec := httptest.NewRecorder()
	HandleConfig(rec, httptest.NewRequest("GET", "/api/config", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp configResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ActiveProvider != "deepseek" {
		t.Errorf("active provider = %q, want deepseek", resp.ActiveProvider)
	}
	if len(resp.Available) != 3 {
		t.Errorf("expected the three registered providers, got %v", resp.Available)
	}
}

func TestHandleConfigRejectsPost(t *testing.T) {
	setupManager(t)

	rec := httptest.NewRecorder()
	HandleConfig(rec, httptest.NewRequest("POST", "/api/config", nil))

	if rec.Code != 405 {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestHandleSwitch(t *testing.T) {
	mgr := setupManager(t)
	mgr.RegisterProvider("stub", noopProvider{})

	body := bytes.NewBufferString(`{"provider":"stub"}`)
	rec := httptest.NewRecorder()
	HandleSwitch(rec, httptest.NewRequest("POST", "/api/config/switch", body))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if mgr.GetActiveProvider() != "stub" {
		t.Errorf("active provider = %q, want stub", mgr.GetActiveProvider())
	}
	var resp configResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ActiveProvider != "stub" {
		t.Errorf("response active provider = %q, want stub", resp.ActiveProvider)
	}
}

func TestHandleSwitchUnknownProvider(t *testing.T) {
	mgr := setupManager(t)

	body := bytes.NewBufferString(`{"provider":"nope"}`)
	rec := httptest.NewRecorder()
	HandleSwitch(rec, httptest.NewRequest("POST", "/api/config/switch", body))

	if rec.Code != 400 {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if mgr.GetActiveProvider() != "deepseek" {
		t.Errorf("active provider changed to %q on a failed switch", mgr.GetActiveProvider())
	}
}
