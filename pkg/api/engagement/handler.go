// Package engagement ingests data-room view events and serves the rolled-up
// heat maps.
package engagement

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	core "bolagsbron/pkg/core/engagement"
	"bolagsbron/pkg/core/store"
)

var db *store.Store

func InitHandler(st *store.Store) {
	db = st
}

type eventRequest struct {
	ListingID  string  `json:"listingId"`
	DocumentID string  `json:"documentId"`
	ViewerID   string  `json:"viewerId"`
	Page       int     `json:"page"`
	Seconds    float64 `json:"seconds"`
}

// HandleEvents ingests one view event per POST. Writes are accepted even for
// unknown listings; the rollup simply never surfaces them.
func HandleEvents(w http.ResponseWriter, r *http.Request) {
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

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ListingID == "" || req.DocumentID == "" || req.ViewerID == "" {
		http.Error(w, "listingId, documentId and viewerId are required", http.StatusBadRequest)
		return
	}
	if req.Page < 1 || req.Seconds < 0 {
		http.Error(w, "page must be >= 1 and seconds >= 0", http.StatusBadRequest)
		return
	}

	ev := core.ViewEvent{
		ListingID:  req.ListingID,
		DocumentID: req.DocumentID,
		ViewerID:   req.ViewerID,
		Page:       req.Page,
		Seconds:    req.Seconds,
		ViewedAt:   time.Now().UTC(),
	}
	if err := db.SaveEngagementEvent(r.Context(), ev); err != nil {
		fmt.Printf("[ERROR] Failed to save view event: %v\n", err)
		http.Error(w, "failed to save event", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleHeatMap returns the latest rollup for a listing. If no rollup exists
// yet (the cron job runs hourly), it computes one live from the raw events of
// the past 24 hours.
func HandleHeatMap(w http.ResponseWriter, r *http.Request) {
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

	maps, err := db.LatestHeatMaps(r.Context(), listingID)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load heat maps: %v\n", err)
		http.Error(w, "failed to load heat maps", http.StatusInternalServerError)
		return
	}
	if len(maps) == 0 {
		events, err := db.ListEngagementEventsSince(r.Context(), time.Now().UTC().Add(-24*time.Hour))
		if err != nil {
			fmt.Printf("[ERROR] Failed to load view events: %v\n", err)
			http.Error(w, "failed to load heat maps", http.StatusInternalServerError)
			return
		}
		for _, hm := range core.BuildHeatMaps(events) {
			if hm.ListingID == listingID {
				maps = append(maps, hm)
			}
		}
	}
	if maps == nil {
		maps = []core.DocumentHeatMap{}
	}
	writeJSON(w, http.StatusOK, maps)
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
