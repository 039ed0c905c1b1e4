// Package loi serves the versioned letter-of-intent negotiation.
package loi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bolagsbron/pkg/core/marketplace"
	"bolagsbron/pkg/core/store"
)

var db *store.Store

func InitHandler(st *store.Store) {
	db = st
}

type submitRequest struct {
	ListingID       string   `json:"listingId"`
	ProposedBy      string   `json:"proposedBy"` // "buyer" or "seller"
	Price           float64  `json:"price"`
	Conditions      []string `json:"conditions"`
	ExclusivityDays int      `json:"exclusivityDays"`
	ExpiresAt       string   `json:"expiresAt"` // RFC 3339
}

type decisionRequest struct {
	ListingID string `json:"listingId"`
	Decision  string `json:"decision"` // "accepted" or "rejected"
}

// HandleSubmit creates version 1 of a negotiation, or counters the latest
// version if one already exists. GET ?listingId= lists the version history.
func HandleSubmit(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if db == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case "GET":
		handleHistory(w, r)
	case "POST":
		handleSubmit(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ListingID == "" || req.Price <= 0 {
		http.Error(w, "listingId and a positive price are required", http.StatusBadRequest)
		return
	}
	if req.ProposedBy != "buyer" && req.ProposedBy != "seller" {
		http.Error(w, "proposedBy must be buyer or seller", http.StatusBadRequest)
		return
	}
	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		http.Error(w, "expiresAt must be RFC 3339", http.StatusBadRequest)
		return
	}

	latest, err := db.LatestLoI(r.Context(), req.ListingID)
	if err != nil {
		// No prior version: start negotiation at v1.
		first := marketplace.NewLoI(req.ListingID, req.ProposedBy, req.Price,
			req.Conditions, req.ExclusivityDays, expiresAt)
		first.Status = marketplace.LoISent
		if err := db.SaveLoI(r.Context(), first); err != nil {
			fmt.Printf("[ERROR] Failed to save LoI: %v\n", err)
			http.Error(w, "failed to save loi", http.StatusInternalServerError)
			return
		}
		fmt.Printf("[LOI] Opened negotiation for %s at v1\n", req.ListingID)
		writeJSON(w, http.StatusCreated, first)
		return
	}

	next, err := latest.Counter(req.ProposedBy, req.Price, req.Conditions, req.ExclusivityDays, expiresAt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	// Persist the superseded version's countered status, then the new one.
	if err := db.SaveLoI(r.Context(), latest); err != nil {
		fmt.Printf("[ERROR] Failed to update countered LoI: %v\n", err)
		http.Error(w, "failed to save loi", http.StatusInternalServerError)
		return
	}
	if err := db.SaveLoI(r.Context(), next); err != nil {
		fmt.Printf("[ERROR] Failed to save counter LoI: %v\n", err)
		http.Error(w, "failed to save loi", http.StatusInternalServerError)
		return
	}
	fmt.Printf("[LOI] Countered %s to v%d\n", req.ListingID, next.Version)
	writeJSON(w, http.StatusCreated, next)
}

func handleHistory(w http.ResponseWriter, r *http.Request) {
	listingID := r.URL.Query().Get("listingId")
	if listingID == "" {
		http.Error(w, "listingId is required", http.StatusBadRequest)
		return
	}
	versions, err := db.ListLoIVersions(r.Context(), listingID)
	if err != nil {
		fmt.Printf("[ERROR] Failed to list LoI versions: %v\n", err)
		http.Error(w, "failed to list versions", http.StatusInternalServerError)
		return
	}
	if versions == nil {
		versions = []*marketplace.LoIVersion{}
	}
	writeJSON(w, http.StatusOK, versions)
}

// HandleDecision accepts or rejects the latest version, ending the
// negotiation.
func HandleDecision(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if db == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Decision != marketplace.LoIAccepted && req.Decision != marketplace.LoIRejected {
		http.Error(w, "decision must be accepted or rejected", http.StatusBadRequest)
		return
	}
	latest, err := db.LatestLoI(r.Context(), req.ListingID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	switch latest.Status {
	case marketplace.LoIAccepted, marketplace.LoIRejected:
		http.Error(w, fmt.Sprintf("negotiation already closed as %s", latest.Status), http.StatusConflict)
		return
	}
	latest.Status = req.Decision
	if err := db.SaveLoI(r.Context(), latest); err != nil {
		fmt.Printf("[ERROR] Failed to save LoI decision: %v\n", err)
		http.Error(w, "failed to save loi", http.StatusInternalServerError)
		return
	}
	fmt.Printf("[LOI] %s v%d %s\n", req.ListingID, latest.Version, req.Decision)
	writeJSON(w, http.StatusOK, latest)
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
