// Package diligence serves the per-deal due diligence checklist.
package diligence

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
	ListingID string `json:"listingId"`
	Category  string `json:"category"`
	Title     string `json:"title"`
	Detail    string `json:"detail,omitempty"`
}

type statusRequest struct {
	ID        string `json:"id"`
	ListingID string `json:"listingId"`
	Status    string `json:"status"`
}

type checklistResponse struct {
	Items    []*marketplace.DDItem  `json:"items"`
	Progress marketplace.DDProgress `json:"progress"`
}

var validCategories = map[string]bool{
	"financial": true, "legal": true, "commercial": true, "technical": true,
}

// HandleItems covers POST (add item) and GET ?listingId= (checklist with
// progress summary).
func HandleItems(w http.ResponseWriter, r *http.Request) {
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
	if req.ListingID == "" || req.Title == "" {
		http.Error(w, "listingId and title are required", http.StatusBadRequest)
		return
	}
	if !validCategories[req.Category] {
		http.Error(w, fmt.Sprintf("unknown category %q", req.Category), http.StatusBadRequest)
		return
	}

	item := marketplace.NewDDItem(req.ListingID, req.Category, req.Title, req.Detail)
	if err := db.SaveDDItem(r.Context(), item); err != nil {
		fmt.Printf("[ERROR] Failed to save DD item: %v\n", err)
		http.Error(w, "failed to save item", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func handleList(w http.ResponseWriter, r *http.Request) {
	listingID := r.URL.Query().Get("listingId")
	if listingID == "" {
		http.Error(w, "listingId is required", http.StatusBadRequest)
		return
	}
	items, err := db.ListDDItems(r.Context(), listingID)
	if err != nil {
		fmt.Printf("[ERROR] Failed to list DD items: %v\n", err)
		http.Error(w, "failed to list items", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []*marketplace.DDItem{}
	}
	writeJSON(w, http.StatusOK, checklistResponse{
		Items:    items,
		Progress: marketplace.SummarizeDD(items),
	})
}

// HandleStatus advances one checklist item through the status graph.
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
	items, err := db.ListDDItems(r.Context(), req.ListingID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	var item *marketplace.DDItem
	for _, it := range items {
		if it.ID == req.ID {
			item = it
			break
		}
	}
	if item == nil {
		http.Error(w, fmt.Sprintf("dd item %s not found", req.ID), http.StatusNotFound)
		return
	}
	if !marketplace.ValidDDTransition(item.Status, req.Status) {
		http.Error(w, fmt.Sprintf("cannot move item from %s to %s", item.Status, req.Status), http.StatusConflict)
		return
	}
	item.Status = req.Status
	if err := db.SaveDDItem(r.Context(), item); err != nil {
		fmt.Printf("[ERROR] Failed to update DD item: %v\n", err)
		http.Error(w, "failed to update item", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, item)
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
