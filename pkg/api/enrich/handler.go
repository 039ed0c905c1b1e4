// Package enrich exposes the company-registry lookup used to pre-fill the
// valuation form and the prompt's external-data section.
package enrich

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	core "bolagsbron/pkg/core/enrich"
)

const defaultRegistryURL = "https://www.allabolag.se"

var fetcher *core.Fetcher

func InitHandler() {
	base := os.Getenv("REGISTRY_BASE_URL")
	if base == "" {
		base = defaultRegistryURL
	}
	fetcher = core.NewFetcher(base)
}

type lookupResponse struct {
	Snapshot *core.CompanySnapshot `json:"snapshot"`
	Summary  string                `json:"summary"`
}

// HandleLookup fetches registry data for ?orgNumber= and, when a Gemini key
// is configured, condenses it into a prompt-ready paragraph. Summary failures
// degrade to the raw snapshot text.
func HandleLookup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	orgNumber := r.URL.Query().Get("orgNumber")
	if orgNumber == "" {
		http.Error(w, "orgNumber is required", http.StatusBadRequest)
		return
	}

	snap, err := fetcher.Fetch(r.Context(), orgNumber)
	if err != nil {
		fmt.Printf("[ENRICH] Lookup failed for %s: %v\n", orgNumber, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	summary := snap.BriefText()
	if os.Getenv("GEMINI_API_KEY") != "" {
		if s, err := core.NewSummarizer(r.Context()); err == nil {
			defer s.Close()
			if text, err := s.Summarize(r.Context(), snap); err == nil {
				summary = text
			} else {
				fmt.Printf("[WARNING] Enrichment summary failed: %v\n", err)
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lookupResponse{Snapshot: snap, Summary: summary})
}
