// Package nda handles the signature flow gating data-room access.
package nda

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

type ndaRequest struct {
	ListingID  string `json:"listingId"`
	BuyerEmail string `json:"buyerEmail"`
}

// HandleRequest opens a signing window for a buyer. Requesting again for the
// same pair returns the existing record.
func HandleRequest(w http.ResponseWriter, r *http.Request) {
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

	var req ndaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ListingID == "" || req.BuyerEmail == "" {
		http.Error(w, "listingId and buyerEmail are required", http.StatusBadRequest)
		return
	}
	if _, err := db.GetListing(r.Context(), req.ListingID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if existing, err := db.GetNDA(r.Context(), req.ListingID, req.BuyerEmail); err == nil {
		writeJSON(w, http.StatusOK, existing)
		return
	}

	sig := marketplace.NewNDARequest(req.ListingID, req.BuyerEmail, time.Now().UTC())
	if err := db.SaveNDA(r.Context(), sig); err != nil {
		fmt.Printf("[ERROR] Failed to save NDA request: %v\n", err)
		http.Error(w, "failed to save nda", http.StatusInternalServerError)
		return
	}
	fmt.Printf("[NDA] Requested for listing %s by %s\n", req.ListingID, req.BuyerEmail)
	writeJSON(w, http.StatusCreated, sig)
}

// HandleSign marks the NDA as signed. Idempotent for already-signed,
// 410 for expired.
func HandleSign(w http.ResponseWriter, r *http.Request) {
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

	var req ndaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sig, err := db.GetNDA(r.Context(), req.ListingID, req.BuyerEmail)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := sig.Sign(time.Now().UTC()); err != nil {
		// Sign already flipped status to expired where relevant; persist that.
		if saveErr := db.SaveNDA(r.Context(), sig); saveErr != nil {
			fmt.Printf("[WARNING] Failed to persist expired NDA: %v\n", saveErr)
		}
		http.Error(w, err.Error(), http.StatusGone)
		return
	}
	if err := db.SaveNDA(r.Context(), sig); err != nil {
		fmt.Printf("[ERROR] Failed to save signed NDA: %v\n", err)
		http.Error(w, "failed to save nda", http.StatusInternalServerError)
		return
	}
	fmt.Printf("[NDA] Signed for listing %s by %s\n", req.ListingID, req.BuyerEmail)
	writeJSON(w, http.StatusOK, sig)
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
