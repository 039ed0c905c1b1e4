// Package qa serves buyer questions and seller answers per listing.
package qa

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

type askRequest struct {
	ListingID  string `json:"listingId"`
	BuyerEmail string `json:"buyerEmail"`
	Question   string `json:"question"`
	NDAGated   bool   `json:"ndaGated"`
}

type answerRequest struct {
	ID     string `json:"id"`
	Answer string `json:"answer"`
}

// HandleQA covers POST (ask) and GET ?listingId= (thread). NDA-gated entries
// are only included when the requesting buyer holds a valid signature.
func HandleQA(w http.ResponseWriter, r *http.Request) {
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
		handleAsk(w, r)
	case "GET":
		handleThread(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ListingID == "" || req.Question == "" {
		http.Error(w, "listingId and question are required", http.StatusBadRequest)
		return
	}

	if req.NDAGated {
		sig, err := db.GetNDA(r.Context(), req.ListingID, req.BuyerEmail)
		if err != nil || !sig.Grants(time.Now().UTC()) {
			http.Error(w, "nda-gated questions require a signed nda", http.StatusForbidden)
			return
		}
	}

	entry := marketplace.NewQuestion(req.ListingID, req.BuyerEmail, req.Question, req.NDAGated)
	if err := db.SaveQAEntry(r.Context(), entry); err != nil {
		fmt.Printf("[ERROR] Failed to save question: %v\n", err)
		http.Error(w, "failed to save question", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func handleThread(w http.ResponseWriter, r *http.Request) {
	listingID := r.URL.Query().Get("listingId")
	if listingID == "" {
		http.Error(w, "listingId is required", http.StatusBadRequest)
		return
	}
	entries, err := db.ListQAEntries(r.Context(), listingID)
	if err != nil {
		fmt.Printf("[ERROR] Failed to list Q&A entries: %v\n", err)
		http.Error(w, "failed to list entries", http.StatusInternalServerError)
		return
	}

	buyerEmail := r.URL.Query().Get("buyerEmail")
	hasNDA := false
	if buyerEmail != "" {
		if sig, err := db.GetNDA(r.Context(), listingID, buyerEmail); err == nil {
			hasNDA = sig.Grants(time.Now().UTC())
		}
	}

	visible := []*marketplace.QAEntry{}
	for _, e := range entries {
		if e.NDAGated && !hasNDA {
			continue
		}
		visible = append(visible, e)
	}
	writeJSON(w, http.StatusOK, visible)
}

// HandleAnswer records the seller's reply. Answering twice is a 409.
func HandleAnswer(w http.ResponseWriter, r *http.Request) {
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

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Answer == "" {
		http.Error(w, "answer is required", http.StatusBadRequest)
		return
	}
	entry, err := db.GetQAEntry(r.Context(), req.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := entry.SetAnswer(req.Answer, time.Now().UTC()); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err := db.SaveQAEntry(r.Context(), entry); err != nil {
		fmt.Printf("[ERROR] Failed to save answer: %v\n", err)
		http.Error(w, "failed to save answer", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entry)
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
