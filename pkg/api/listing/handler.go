// Package listing serves the anonymized sell-side advertisements.
package listing

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bolagsbron/pkg/core/marketplace"
	"bolagsbron/pkg/core/store"
)

var db *store.Store

func InitHandler(st *store.Store) {
	db = st
}

type createRequest struct {
	Title          string  `json:"title"`
	Industry       string  `json:"industry"`
	Region         string  `json:"region"`
	RevenueBand    string  `json:"revenueBand"`
	AskingPriceMin float64 `json:"askingPriceMin"`
	AskingPriceMax float64 `json:"askingPriceMax"`
	Summary        string  `json:"summary"`
	SellerEmail    string  `json:"sellerEmail"`
}

type statusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// HandleListings covers POST (create), GET (list, or single via ?id=) and
// PATCH-like status updates via POST /api/listings/status.
func HandleListings(w http.ResponseWriter, r *http.Request) {
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
	case "POST":
		handleCreate(w, r)
	case "GET":
		if id := r.URL.Query().Get("id"); id != "" {
			handleGet(w, r, id)
			return
		}
		handleList(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Industry == "" {
		http.Error(w, "title and industry are required", http.StatusBadRequest)
		return
	}
	if req.AskingPriceMax > 0 && req.AskingPriceMax < req.AskingPriceMin {
		http.Error(w, "askingPriceMax must be >= askingPriceMin", http.StatusBadRequest)
		return
	}

	l := marketplace.NewListing(req.Title, req.Industry, req.Region, req.RevenueBand,
		req.Summary, req.SellerEmail, req.AskingPriceMin, req.AskingPriceMax)
	if err := db.SaveListing(r.Context(), l); err != nil {
		fmt.Printf("[ERROR] Failed to save listing: %v\n", err)
		http.Error(w, "failed to save listing", http.StatusInternalServerError)
		return
	}
	fmt.Printf("[LISTING] Created %s (%s)\n", l.ID, l.Title)
	writeJSON(w, http.StatusCreated, l)
}

func handleGet(w http.ResponseWriter, r *http.Request, id string) {
	l, err := db.GetListing(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func handleList(w http.ResponseWriter, r *http.Request) {
	listings, err := db.ListActiveListings(r.Context())
	if err != nil {
		fmt.Printf("[ERROR] Failed to list listings: %v\n", err)
		http.Error(w, "failed to list listings", http.StatusInternalServerError)
		return
	}
	if listings == nil {
		listings = []*marketplace.Listing{}
	}
	writeJSON(w, http.StatusOK, listings)
}

// HandleStatus moves a listing through its lifecycle. Invalid transitions
// are a 409, not a silent overwrite.
func HandleStatus(w http.ResponseWriter, r *http.Request) {
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

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	l, err := db.GetListing(r.Context(), req.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if !marketplace.ValidListingTransition(l.Status, req.Status) {
		http.Error(w, fmt.Sprintf("cannot move listing from %s to %s", l.Status, req.Status), http.StatusConflict)
		return
	}
	l.Status = req.Status
	if err := db.SaveListing(r.Context(), l); err != nil {
		fmt.Printf("[ERROR] Failed to update listing status: %v\n", err)
		http.Error(w, "failed to update listing", http.StatusInternalServerError)
		return
	}
	fmt.Printf("[LISTING] %s -> %s\n", l.ID, l.Status)
	writeJSON(w, http.StatusOK, l)
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
