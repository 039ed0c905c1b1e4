// Package config exposes the model-provider configuration endpoints.
package config

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bolagsbron/pkg/core/agent"
)

var agentMgr *agent.Manager

func InitHandler(mgr *agent.Manager) {
	agentMgr = mgr
}

type configResponse struct {
	ActiveProvider string   `json:"active_provider"`
	Available      []string `json:"available"`
}

type switchRequest struct {
	Provider string `json:"provider"`
}

// HandleConfig reports the active provider and the registered alternatives.
func HandleConfig(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if agentMgr == nil {
		http.Error(w, "agent manager not configured", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, configResponse{
		ActiveProvider: agentMgr.GetActiveProvider(),
		Available:      agentMgr.ProviderNames(),
	})
}

// HandleSwitch changes the global provider at runtime.
func HandleSwitch(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if agentMgr == nil {
		http.Error(w, "agent manager not configured", http.StatusServiceUnavailable)
		return
	}

	var req switchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := agentMgr.SetGlobalProvider(req.Provider); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fmt.Printf("[CONFIG] Switched provider to %s\n", req.Provider)
	writeJSON(w, http.StatusOK, configResponse{
		ActiveProvider: agentMgr.GetActiveProvider(),
		Available:      agentMgr.ProviderNames(),
	})
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
