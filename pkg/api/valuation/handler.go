package valuation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"bolagsbron/pkg/core/agent"
	"bolagsbron/pkg/core/store"
	core "bolagsbron/pkg/core/valuation"
)

var agentManager *agent.Manager
var db *store.Store

// InitHandler wires the collaborators. db may be nil; the service then runs
// without persistence and every save is skipped with a warning.
func InitHandler(mgr *agent.Manager, st *store.Store) {
	agentManager = mgr
	db = st
}

// ValuationRequest is the POST payload: the financial input plus the
// requester's email (for best-effort user linking) and an optional blob of
// pre-fetched external company data.
type ValuationRequest struct {
	core.FinancialInput
	Email        string `json:"email,omitempty"`
	EnrichedData string `json:"enrichedCompanyData,omitempty"`
}

type valuationResponse struct {
	Result *core.ValuationResult `json:"result"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func oracleTimeout() time.Duration {
	if raw := os.Getenv("ORACLE_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		fmt.Printf("[WARNING] Ignoring invalid ORACLE_TIMEOUT_SECONDS=%q\n", raw)
	}
	return 120 * time.Second
}

// HandleValuation runs the estimation pipeline. The contract: any payload
// that survives sanitization gets a valid result, even if the model call,
// the parse and the database all fail.
func HandleValuation(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method == "GET" {
		writeJSON(w, http.StatusOK, capabilities())
		return
	}
	if r.Method != "POST" {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req ValuationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload", Details: []string{err.Error()}})
		return
	}

	sanitized := Sanitize(&req.FinancialInput)
	if !sanitized.Valid {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input", Details: sanitized.Errors})
		return
	}
	in := sanitized.Sanitized

	// Last line of defense: if anything below panics, fall back once more
	// from the already-sanitized input before giving up with a 500.
	defer func() {
		if rec := recover(); rec != nil {
			fmt.Printf("[ERROR] Valuation pipeline panicked: %v\n", rec)
			result := core.Estimate(in)
			if result != nil {
				persistAsync(req.Email, in, result)
				writeJSON(w, http.StatusOK, valuationResponse{Result: result})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
	}()

	fmt.Printf("[VALUATION] Request: %s (%s)\n", in.CompanyName, in.IndustryTag)

	outcome := core.Validate(in)
	adjustments := core.BuildConditionalPrompts(in)
	prompt := core.Compose(in, req.EnrichedData, outcome, adjustments)

	ctx, cancel := context.WithTimeout(r.Context(), oracleTimeout())
	defer cancel()

	var result *core.ValuationResult
	raw, err := agentManager.ExecutePrompt(ctx, "valuation", prompt, core.SystemPrompt, nil)
	if err != nil {
		// Single attempt, no retry. Timeout and API errors land here.
		fmt.Printf("[VALUATION] Oracle call failed, using fallback: %v\n", err)
		result = core.Estimate(in)
	} else {
		result = core.Parse(raw, in)
	}

	persistAsync(req.Email, in, result)
	writeJSON(w, http.StatusOK, valuationResponse{Result: result})
}

// persistAsync saves fire-and-forget. A failed write never delays or fails
// the response.
func persistAsync(email string, in *core.FinancialInput, result *core.ValuationResult) {
	if db == nil {
		fmt.Println("[WARNING] No database configured, skipping valuation save")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.SaveValuation(ctx, email, in, result); err != nil {
			fmt.Printf("[WARNING] Failed to save valuation: %v\n", err)
		}
	}()
}

func capabilities() map[string]interface{} {
	return map[string]interface{}{
		"service": "bolagsbron valuation",
		"industries": []string{
			"tech", "ecommerce", "consulting", "manufacturing",
			"retail", "restaurant", "services", "construction", "other",
		},
		"methods": []string{
			"Multipelvärdering (EBITDA)",
			"Omsättningsmultipel",
			"Avkastningsvärdering",
		},
		"currency": "SEK",
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
