package valuation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"bolagsbron/pkg/core/agent"
	core "bolagsbron/pkg/core/valuation"
)

// stubProvider returns a canned completion or a canned error.
type stubProvider struct {
	response string
	err      error
	prompts  []string
}

func (s *stubProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubProvider) AdaptInstructions(raw string) string { return raw }

func setupHandler(t *testing.T, p *stubProvider) {
	t.Helper()
	mgr := agent.NewManager(agent.Config{ActiveProvider: "stub"})
	mgr.RegisterProvider("stub", p)
	InitHandler(mgr, nil)
}

func postValuation(t *testing.T, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	blob, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/valuation", bytes.NewReader(blob))
	rec := httptest.NewRecorder()
	HandleValuation(rec, req)
	return rec
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"companyName":    "Nordkod AB",
		"industry":       "tech",
		"exactRevenue":   10_000_000,
		"operatingCosts": 8_000_000,
	}
}

const oracleReply = "```json\n" + `{
  "valuationRange": {"min": 8, "max": 14, "mostLikely": 11},
  "method": "Multipelvärdering (EBITDA)",
  "methodology": {"multipel": "5.5x EBITDA"},
  "analysis": {"strengths": ["Stark tillväxt"], "weaknesses": [], "opportunities": [], "risks": []},
  "recommendations": [],
  "keyMetrics": []
}` + "\n```"

func TestHandleValuationSuccess(t *testing.T) {
	setupHandler(t, &stubProvider{response: oracleReply})

	rec := postValuation(t, validBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Result *core.ValuationResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result == nil {
		t.Fatal("missing result")
	}
	// 8/14/11 MSEK converted to SEK by the clamper.
	if resp.Result.ValuationRange.MostLikely != 11_000_000 {
		t.Errorf("mostLikely = %.0f, want 11000000", resp.Result.ValuationRange.MostLikely)
	}
	if resp.Result.Method != "Multipelvärdering (EBITDA)" {
		t.Errorf("method = %q", resp.Result.Method)
	}
}

func TestHandleValuationOracleFailureFallsBack(t *testing.T) {
	setupHandler(t, &stubProvider{err: fmt.Errorf("DEEPSEEK_API_ERROR: connection refused")})

	rec := postValuation(t, validBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("oracle failure must not fail the request, got %d", rec.Code)
	}

	var resp struct {
		Result *core.ValuationResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// The response must equal the deterministic fallback for the same input.
	sanitized := Sanitize(&core.FinancialInput{
		CompanyName:    "Nordkod AB",
		IndustryTag:    "tech",
		ExactRevenue:   fp(10_000_000),
		OperatingCosts: fp(8_000_000),
	})
	want := core.Estimate(sanitized.Sanitized)
	if !reflect.DeepEqual(resp.Result.ValuationRange, want.ValuationRange) {
		t.Errorf("fallback range = %+v, want %+v", resp.Result.ValuationRange, want.ValuationRange)
	}
}

func TestHandleValuationGarbageOracleOutputFallsBack(t *testing.T) {
	setupHandler(t, &stubProvider{response: "Tyvärr kan jag inte hjälpa till med det."})

	rec := postValuation(t, validBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("unparsable output must not fail the request, got %d", rec.Code)
	}
	var resp struct {
		Result *core.ValuationResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result.ValuationRange.MostLikely <= 0 {
		t.Error("fallback should still produce a positive valuation")
	}
}

func TestHandleValuationBadInput(t *testing.T) {
	setupHandler(t, &stubProvider{response: oracleReply})

	rec := postValuation(t, map[string]interface{}{"industry": "tech"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error == "" || len(resp.Details) == 0 {
		t.Errorf("expected error with details, got %+v", resp)
	}
}

func TestHandleValuationMalformedJSON(t *testing.T) {
	setupHandler(t, &stubProvider{response: oracleReply})

	req := httptest.NewRequest("POST", "/api/valuation", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	HandleValuation(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleValuationCapabilities(t *testing.T) {
	setupHandler(t, &stubProvider{})

	req := httptest.NewRequest("GET", "/api/valuation", nil)
	rec := httptest.NewRecorder()
	HandleValuation(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var caps map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &caps); err != nil {
		t.Fatalf("failed to decode capabilities: %v", err)
	}
	if caps["currency"] != "SEK" {
		t.Errorf("currency = %v", caps["currency"])
	}
}

func TestHandleValuationEnrichedDataReachesPrompt(t *testing.T) {
	stub := &stubProvider{response: oracleReply}
	setupHandler(t, stub)

	body := validBody()
	body["enrichedCompanyData"] = "Bolag: Nordkod AB, registrerat 2014"
	rec := postValuation(t, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(stub.prompts) != 1 {
		t.Fatalf("expected exactly one oracle call, got %d", len(stub.prompts))
	}
	if !bytes.Contains([]byte(stub.prompts[0]), []byte("registrerat 2014")) {
		t.Error("enriched data missing from composed prompt")
	}
}
