// Package report serves generated deal documents as JSON or rendered HTML.
package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	core "bolagsbron/pkg/core/report"
	"bolagsbron/pkg/core/store"
	"bolagsbron/pkg/core/valuation"
)

var db *store.Store

func InitHandler(st *store.Store) {
	db = st
}

type valuationReportRequest struct {
	CompanyName string                     `json:"companyName"`
	Result      *valuation.ValuationResult `json:"result"`
}

// HandleValuationReport turns an already-computed valuation result into the
// seller-facing report document. POST, since the result travels in the body;
// ?format=html renders it.
func HandleValuationReport(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req valuationReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.CompanyName == "" || req.Result == nil {
		http.Error(w, "companyName and result are required", http.StatusBadRequest)
		return
	}

	doc := core.BuildValuationReport(req.CompanyName, req.Result, time.Now().UTC())
	respond(w, r, doc)
}

// HandleDDReport builds the due diligence report for a listing.
// GET ?listingId=...&format=html|json (json default).
func HandleDDReport(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if db == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}

	listingID := r.URL.Query().Get("listingId")
	if listingID == "" {
		http.Error(w, "listingId is required", http.StatusBadRequest)
		return
	}
	listing, err := db.GetListing(r.Context(), listingID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	items, err := db.ListDDItems(r.Context(), listingID)
	if err != nil {
		fmt.Printf("[ERROR] Failed to list DD items for report: %v\n", err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	doc := core.BuildDDReport(listing, items, time.Now().UTC())
	respond(w, r, doc)
}

// HandleSPADraft drafts SPA headings from the accepted LoI.
// GET ?listingId=...&format=html|json.
func HandleSPADraft(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if db == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}

	listingID := r.URL.Query().Get("listingId")
	if listingID == "" {
		http.Error(w, "listingId is required", http.StatusBadRequest)
		return
	}
	listing, err := db.GetListing(r.Context(), listingID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	loi, err := db.LatestLoI(r.Context(), listingID)
	if err != nil {
		http.Error(w, "no letter of intent on file", http.StatusNotFound)
		return
	}

	doc, err := core.BuildSPADraft(listing, loi, time.Now().UTC())
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	respond(w, r, doc)
}

func respond(w http.ResponseWriter, r *http.Request, doc *core.Document) {
	if r.URL.Query().Get("format") == "html" {
		html, err := doc.HTML()
		if err != nil {
			fmt.Printf("[ERROR] Failed to render report: %v\n", err)
			http.Error(w, "failed to render report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, html)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(doc)
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
